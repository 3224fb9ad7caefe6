package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/journeygo/client/internal/core/system"
	"github.com/journeygo/client/internal/telemetry"
	"github.com/journeygo/client/internal/world"
)

// Flusher hands buffered outbound messages to the writer goroutine.
type Flusher interface {
	FlushOutput()
}

// OutputSystem flushes the session's buffered messages. Phase 3 (Output).
type OutputSystem struct {
	out Flusher
}

func NewOutputSystem(out Flusher) *OutputSystem {
	return &OutputSystem{out: out}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.out.FlushOutput()
}

// Publisher receives telemetry frames.
type Publisher interface {
	Publish(f *telemetry.Frame) error
}

// TelemetrySystem publishes a frame of the stage every n ticks. With a
// positive view range only objects around the player are included. Phase 3
// (Output).
type TelemetrySystem struct {
	stage     *world.Stage
	physics   *PhysicsSystem
	pub       Publisher
	every     int
	viewRange float64
	log       *zap.Logger

	count int
}

func NewTelemetrySystem(stage *world.Stage, phys *PhysicsSystem, pub Publisher, everyNTicks int, viewRange float64, log *zap.Logger) *TelemetrySystem {
	if everyNTicks < 1 {
		everyNTicks = 1
	}
	return &TelemetrySystem{stage: stage, physics: phys, pub: pub, every: everyNTicks, viewRange: viewRange, log: log}
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *TelemetrySystem) Update(_ time.Duration) {
	if !s.stage.Loaded() {
		return
	}
	s.count++
	if s.count < s.every {
		return
	}
	s.count = 0
	if err := s.pub.Publish(s.frame()); err != nil {
		s.log.Warn("telemetry publish failed", zap.Error(err))
	}
}

func (s *TelemetrySystem) frame() *telemetry.Frame {
	f := &telemetry.Frame{MapID: s.stage.MapID(), Objects: []telemetry.ObjectState{}}
	if s.physics != nil {
		f.Tick = s.physics.Tick()
		for _, a := range s.physics.LastAnomalies() {
			f.Anomalies = append(f.Anomalies, a.Kind.String()+":"+a.Flags.String())
		}
	}
	player := s.stage.Player()
	if player != nil {
		st := objectState(player)
		f.Player = &st
	}
	if s.viewRange > 0 && player != nil {
		for _, obj := range s.stage.Nearby(player.Phys.Position(), s.viewRange) {
			f.Objects = append(f.Objects, objectState(obj))
		}
		return f
	}
	for _, k := range world.Kinds {
		if k == world.KindPlayer {
			continue
		}
		s.stage.Each(k, func(obj *world.MapObject) {
			f.Objects = append(f.Objects, objectState(obj))
		})
	}
	return f
}

func objectState(obj *world.MapObject) telemetry.ObjectState {
	return telemetry.ObjectState{
		Kind:     obj.Kind.String(),
		OID:      obj.OID,
		X:        obj.Phys.X,
		Y:        obj.Phys.Y,
		HSpeed:   obj.Phys.HSpeed,
		VSpeed:   obj.Phys.VSpeed,
		Foothold: obj.Phys.FhID,
		OnGround: obj.Phys.OnGround,
	}
}
