package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/core/event"
	coresys "github.com/journeygo/client/internal/core/system"
	"github.com/journeygo/client/internal/persist"
)

// SnapshotSaver stores a character snapshot. It reports false when the
// snapshot matched the last stored one.
type SnapshotSaver interface {
	Save(ctx context.Context, s *persist.Snapshot) (bool, error)
}

// AnomalyWriter stores a batch of physics anomalies.
type AnomalyWriter interface {
	WriteBatch(ctx context.Context, entries []persist.AnomalyEntry) error
}

const (
	anomalyBatchMax  = 64
	anomalyBufferCap = 1024
)

// PersistenceSystem snapshots the character after field entry and map
// changes, and batches physics anomalies into the anomaly log.
// Phase 4 (Persist).
type PersistenceSystem struct {
	char    *character.State
	saver   SnapshotSaver
	timeout time.Duration
	log     *zap.Logger

	pending bool
	partial bool
	saved   int

	anomalies  AnomalyWriter
	flushEvery int
	sinceFlush int
	buffered   []persist.AnomalyEntry
	dropped    int
}

func NewPersistenceSystem(char *character.State, saver SnapshotSaver, bus *event.Bus, timeout time.Duration, log *zap.Logger) *PersistenceSystem {
	s := &PersistenceSystem{char: char, saver: saver, timeout: timeout, log: log}
	event.Subscribe(bus, func(e event.PhysicsAnomaly) {
		if s.anomalies == nil {
			return
		}
		if len(s.buffered) >= anomalyBufferCap {
			s.dropped++
			return
		}
		s.buffered = append(s.buffered, persist.AnomalyEntry{
			CharacterID: s.char.ID,
			MapID:       s.char.Stats.MapID,
			Kind:        e.Kind,
			OID:         e.OID,
			Anomaly:     e.Anomaly,
			Y:           e.Y,
			SeenAt:      time.Now(),
		})
	})
	event.Subscribe(bus, func(e event.CharacterEntered) {
		s.pending = true
		s.partial = e.Partial
	})
	event.Subscribe(bus, func(event.MapChanged) {
		s.pending = true
	})
	return s
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

// LogAnomalies enables the anomaly log. Buffered entries are written every
// flushEvery ticks, or sooner once a full batch is waiting.
func (s *PersistenceSystem) LogAnomalies(w AnomalyWriter, flushEvery int) {
	if flushEvery < 1 {
		flushEvery = 1
	}
	s.anomalies = w
	s.flushEvery = flushEvery
}

func (s *PersistenceSystem) Update(_ time.Duration) {
	if s.pending {
		s.pending = false
		s.SaveNow()
	}
	if s.anomalies != nil {
		s.sinceFlush++
		if s.sinceFlush >= s.flushEvery || len(s.buffered) >= anomalyBatchMax {
			s.FlushAnomalies()
		}
	}
}

// FlushAnomalies writes everything buffered. Failed batches are discarded.
func (s *PersistenceSystem) FlushAnomalies() {
	s.sinceFlush = 0
	if s.anomalies == nil || len(s.buffered) == 0 {
		return
	}
	batch := s.buffered
	s.buffered = nil

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.anomalies.WriteBatch(ctx, batch); err != nil {
		s.log.Error("anomaly log write failed",
			zap.Int("entries", len(batch)),
			zap.Error(err),
		)
		return
	}
	if s.dropped > 0 {
		s.log.Warn("anomaly log overflow", zap.Int("dropped", s.dropped))
		s.dropped = 0
	}
}

// SaveNow snapshots the character immediately. Also called on shutdown.
func (s *PersistenceSystem) SaveNow() {
	if s.char.ID == 0 {
		return
	}
	snap := persist.NewSnapshot(s.char, s.partial)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	written, err := s.saver.Save(ctx, snap)
	if err != nil {
		s.log.Error("snapshot save failed",
			zap.Int32("character", snap.CharacterID),
			zap.Error(err),
		)
		return
	}
	if written {
		s.saved++
		s.log.Info("snapshot saved",
			zap.Int32("character", snap.CharacterID),
			zap.Int32("map", snap.MapID),
			zap.Int("items", len(snap.Items)),
			zap.Int("skills", len(snap.Skills)),
		)
	}
}

// Saved is the number of snapshots actually written.
func (s *PersistenceSystem) Saved() int { return s.saved }
