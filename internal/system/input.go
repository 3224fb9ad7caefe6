package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/journeygo/client/internal/core/system"
	"github.com/journeygo/client/internal/handler"
	"github.com/journeygo/client/internal/net/packet"
)

// InputSystem drains the session's inbound queue and dispatches each message
// through the packet registry. Phase 0 (Input).
type InputSystem struct {
	queue      <-chan []byte
	conn       handler.Conn
	registry   *packet.Registry
	maxPerTick int
	log        *zap.Logger

	dispatched uint64
	failed     uint64
}

func NewInputSystem(queue <-chan []byte, conn handler.Conn, registry *packet.Registry, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		queue:      queue,
		conn:       conn,
		registry:   registry,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data, ok := <-s.queue:
			if !ok {
				return
			}
			s.dispatched++
			if err := s.registry.Dispatch(s.conn, s.conn.State(), data); err != nil {
				s.failed++
				s.log.Debug("dispatch error",
					zap.Stringer("state", s.conn.State()),
					zap.Error(err),
				)
			}
		default:
			return
		}
	}
}

// Counts returns how many messages were dispatched and how many failed.
func (s *InputSystem) Counts() (dispatched, failed uint64) {
	return s.dispatched, s.failed
}
