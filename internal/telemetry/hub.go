package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// sendBuffer is the number of frames a subscriber may lag before it is dropped.
const sendBuffer = 16

// ObjectState is one simulated object as seen by a telemetry viewer.
type ObjectState struct {
	Kind     string  `json:"kind"`
	OID      int32   `json:"oid"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	HSpeed   float64 `json:"hspeed"`
	VSpeed   float64 `json:"vspeed"`
	Foothold uint16  `json:"fh"`
	OnGround bool    `json:"onGround"`
}

// Frame is the JSON document pushed to every subscriber.
type Frame struct {
	Tick      uint64        `json:"tick"`
	MapID     int32         `json:"mapId"`
	Player    *ObjectState  `json:"player,omitempty"`
	Objects   []ObjectState `json:"objects"`
	Anomalies []string      `json:"anomalies,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans telemetry frames out to websocket subscribers. Publish never
// blocks; a subscriber whose buffer is full is disconnected.
type Hub struct {
	log          *zap.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub(writeTimeout time.Duration, log *zap.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		writeTimeout: writeTimeout,
		subs:         make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the subscriber until it
// disconnects. Incoming messages are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("telemetry upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	s := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.log.Info("telemetry subscriber joined", zap.String("remote", r.RemoteAddr), zap.Int("subscribers", n))

	go h.writeLoop(s)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(s)
}

func (h *Hub) writeLoop(s *subscriber) {
	for data := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(s)
			return
		}
	}
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, s)
	close(s.send)
	h.mu.Unlock()
	s.conn.Close()
}

// Publish encodes f once and queues it for every subscriber.
func (h *Hub) Publish(f *Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	var slow []*subscriber
	h.mu.Lock()
	for s := range h.subs {
		select {
		case s.send <- data:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.Unlock()

	for _, s := range slow {
		h.log.Warn("telemetry subscriber too slow, dropping", zap.String("remote", s.conn.RemoteAddr().String()))
		h.remove(s)
	}
	return nil
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()
	for _, s := range subs {
		h.remove(s)
	}
}

// Serve runs an HTTP server exposing the hub at /telemetry until ctx ends.
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/telemetry", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Close()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
