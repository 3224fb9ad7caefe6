package net

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/journeygo/client/internal/config"
)

// Dial connects to a channel server, reads the plaintext handshake and starts
// the session I/O loops.
func Dial(ctx context.Context, cfg config.NetworkConfig, version uint16, log *zap.Logger) (*Session, error) {
	d := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.ServerAddress, err)
	}

	if cfg.DialTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(cfg.DialTimeout))
	}
	hs, err := ReadHandshake(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake with %s: %w", cfg.ServerAddress, err)
	}
	conn.SetReadDeadline(time.Time{})

	if hs.Version != version {
		log.Warn("server version differs from client",
			zap.Uint16("server", hs.Version),
			zap.Uint16("client", version),
		)
	}
	log.Info("connected",
		zap.String("server", cfg.ServerAddress),
		zap.Uint16("version", hs.Version),
		zap.String("patch", hs.Patch),
		zap.Uint8("locale", hs.Locale),
	)

	// Outgoing headers always carry the client's own version.
	hs.Version = version
	sess := NewSession(conn, hs, cfg.InQueueSize, cfg.OutQueueSize, cfg.WriteTimeout, log)
	sess.Start()
	return sess, nil
}
