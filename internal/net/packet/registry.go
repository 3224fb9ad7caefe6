package packet

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// SessionState represents the client session's current protocol phase.
type SessionState int

const (
	StateHandshake SessionState = iota // waiting for the plaintext hello
	StateConnected                     // framed traffic, no character yet
	StateInWorld                       // character entered a field
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateHandshake:
		return "Handshake"
	case StateConnected:
		return "Connected"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for message handlers. The reader is
// positioned just past the opcode. The session is passed as an opaque value to
// avoid an import cycle with the net package.
type HandlerFunc func(sess any, r *Reader)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps opcodes to handlers with state-based access control.
type Registry struct {
	handlers map[uint16]*handlerEntry
	enc      encoding.Encoding
	log      *zap.Logger
}

func NewRegistry(enc encoding.Encoding, log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[uint16]*handlerEntry),
		enc:      enc,
		log:      log,
	}
}

// Register maps an opcode to a handler, restricted to the given session states.
func (reg *Registry) Register(opcode uint16, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[opcode] = &handlerEntry{fn: fn, allowedStates: allowed}
}

// Handles reports whether an opcode has a registered handler.
func (reg *Registry) Handles(opcode uint16) bool {
	_, ok := reg.handlers[opcode]
	return ok
}

// Dispatch reads the opcode from the first two bytes, validates the session
// state and calls the handler. Unknown opcodes are ignored.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("short message: %d bytes", len(data))
	}
	r := NewReader(data).WithCodePage(reg.enc)
	opcode := r.ReadUShort()
	reg.log.Debug("message received",
		zap.Uint16("opcode", opcode),
		zap.Int("size", len(data)),
		zap.Stringer("state", state),
	)

	entry, ok := reg.handlers[opcode]
	if !ok {
		reg.log.Debug("unknown opcode", zap.Uint16("opcode", opcode), zap.Stringer("state", state))
		return nil
	}
	if !entry.allowedStates[state] {
		reg.log.Warn("opcode not allowed in state",
			zap.Uint16("opcode", opcode),
			zap.Stringer("state", state),
		)
		return fmt.Errorf("opcode 0x%X not allowed in state %s", opcode, state)
	}
	return reg.safeCall(entry.fn, sess, r, opcode)
}

// safeCall runs a handler with panic recovery so one malformed message
// cannot take down the tick loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader, opcode uint16) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Uint16("opcode", opcode),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for opcode 0x%X: %v", opcode, rec)
		}
	}()
	fn(sess, r)
	return nil
}
