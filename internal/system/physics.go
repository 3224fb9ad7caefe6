package system

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/journeygo/client/internal/core/event"
	coresys "github.com/journeygo/client/internal/core/system"
	"github.com/journeygo/client/internal/physics"
	"github.com/journeygo/client/internal/world"
)

// Controller supplies the forces applied to the player each tick.
type Controller interface {
	Control(o *physics.Object, mapID int32, tick uint64) (hforce, vforce float64)
}

// PhysicsSystem runs the controller and advances every object on the stage
// by one step. Phase 2 (Update).
type PhysicsSystem struct {
	stage   *world.Stage
	ctrl    Controller
	bus     *event.Bus
	limiter *rate.Limiter
	log     *zap.Logger

	tick       uint64
	last       []world.Anomaly
	total      uint64
	suppressed int
}

// NewPhysicsSystem creates the system. ctrl and bus may be nil. Anomaly log
// lines are limited to logPerSecond; zero or less disables the limit.
func NewPhysicsSystem(stage *world.Stage, ctrl Controller, bus *event.Bus, logPerSecond float64, log *zap.Logger) *PhysicsSystem {
	limit := rate.Inf
	if logPerSecond > 0 {
		limit = rate.Limit(logPerSecond)
	}
	return &PhysicsSystem{
		stage:   stage,
		ctrl:    ctrl,
		bus:     bus,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PhysicsSystem) Update(_ time.Duration) {
	s.last = s.last[:0]
	if !s.stage.Loaded() {
		return
	}
	s.tick++

	if s.ctrl != nil {
		if p := s.stage.Player(); p != nil {
			h, v := s.ctrl.Control(&p.Phys, s.stage.MapID(), s.tick)
			p.Phys.HForce += h
			p.Phys.VForce += v
		}
	}

	s.last = append(s.last, s.stage.Tick()...)
	for _, a := range s.last {
		s.total++
		if s.bus != nil {
			event.Emit(s.bus, event.PhysicsAnomaly{
				Kind:    a.Kind.String(),
				OID:     a.OID,
				Anomaly: a.Flags.String(),
				Y:       a.Y,
			})
		}
		if !s.limiter.Allow() {
			s.suppressed++
			continue
		}
		s.log.Warn("physics anomaly",
			zap.Stringer("kind", a.Kind),
			zap.Int32("oid", a.OID),
			zap.Stringer("anomaly", a.Flags),
			zap.Float64("x", a.X),
			zap.Float64("y", a.Y),
			zap.Int32("map", s.stage.MapID()),
			zap.Int("suppressed", s.suppressed),
		)
		s.suppressed = 0
	}
}

// Tick is the number of simulated steps since start.
func (s *PhysicsSystem) Tick() uint64 { return s.tick }

// LastAnomalies returns the anomalies of the most recent step. The slice is
// reused on the next Update.
func (s *PhysicsSystem) LastAnomalies() []world.Anomaly { return s.last }

// TotalAnomalies counts every anomaly seen, logged or not.
func (s *PhysicsSystem) TotalAnomalies() uint64 { return s.total }
