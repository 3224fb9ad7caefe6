package net

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/journeygo/client/internal/net/packet"
)

// Session is the client side of one channel-server connection. The read and
// write loops run in their own goroutines and only move byte slices; decoded
// game state is touched exclusively by the tick goroutine.
type Session struct {
	conn    net.Conn
	version uint16

	send Cipher
	recv Cipher

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan []byte // tick goroutine reads complete messages here
	OutQueue chan []byte // writeLoop drains this

	Handshake Handshake

	outBuf [][]byte // tick goroutine only, flushed by FlushOutput

	writeTimeout time.Duration

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	messagesIn atomic.Uint64
	bytesIn    atomic.Uint64

	log *zap.Logger
}

// NewSession wraps an established connection whose handshake has already
// been read. Start must be called to launch the I/O loops.
func NewSession(conn net.Conn, hs Handshake, inSize, outSize int, writeTimeout time.Duration, log *zap.Logger) *Session {
	s := &Session{
		conn:         conn,
		version:      hs.Version,
		send:         NewPlainCipher(hs.SendIV),
		recv:         NewPlainCipher(hs.RecvIV),
		InQueue:      make(chan []byte, inSize),
		OutQueue:     make(chan []byte, outSize),
		Handshake:    hs,
		writeTimeout: writeTimeout,
		closeCh:      make(chan struct{}),
		log:          log.With(zap.String("remote", conn.RemoteAddr().String())),
	}
	s.state.Store(int32(packet.StateConnected))
	return s
}

// SetCiphers replaces the per-direction payload transforms. Must be called
// before Start.
func (s *Session) SetCiphers(send, recv Cipher) {
	s.send = send
	s.recv = recv
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a message until the next FlushOutput. Tick goroutine only.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// FlushOutput hands buffered messages to the writeLoop. It never blocks: a
// full OutQueue closes the session.
func (s *Session) FlushOutput() {
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("output queue full, closing session")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

// Stats returns the number of messages and payload bytes received so far.
func (s *Session) Stats() (messages, bytes uint64) {
	return s.messagesIn.Load(), s.bytesIn.Load()
}

func (s *Session) readLoop() {
	defer s.Close()

	for {
		payload, err := ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		s.recv.Transform(payload)
		s.messagesIn.Add(1)
		s.bytesIn.Add(uint64(len(payload)))

		// Blocking: dropping a message would desync field state.
		select {
		case s.InQueue <- payload:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			if err := s.writeOne(data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeOne(data []byte) error {
	if len(data) >= 2 {
		s.log.Debug("TX",
			zap.String("op", fmt.Sprintf("0x%02X", uint16(data[0])|uint16(data[1])<<8)),
			zap.Int("len", len(data)),
		)
	}
	header := EncodeHeader(len(data), s.send.IV(), s.version)
	out := make([]byte, len(data))
	copy(out, data)
	s.send.Transform(out)

	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return WriteFrame(s.conn, header, out)
}
