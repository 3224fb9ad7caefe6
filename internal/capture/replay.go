package capture

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/journeygo/client/internal/config"
	"github.com/journeygo/client/internal/core/event"
	"github.com/journeygo/client/internal/data"
	"github.com/journeygo/client/internal/handler"
	"github.com/journeygo/client/internal/net/packet"
	"github.com/journeygo/client/internal/physics"
	"github.com/journeygo/client/internal/world"
)

// maxCatchUpTicks bounds how many ticks a single capture gap may simulate.
const maxCatchUpTicks = 250

// Report summarizes one replayed stream.
type Report struct {
	Key         string
	Messages    int
	Failed      int
	Ticks       uint64
	Anomalies   int
	CharacterID int32
	Name        string
	MapID       int32
	Objects     map[string]int
	Span        time.Duration
	Err         error
}

// Replayer feeds captured streams through the handlers and the stage.
// Each Run builds its own state, so Runs may execute concurrently.
type Replayer struct {
	cfg  *config.Config
	maps *data.MapDataTable
	mobs *data.MobTable
	log  *zap.Logger
}

func NewReplayer(cfg *config.Config, maps *data.MapDataTable, log *zap.Logger) *Replayer {
	return &Replayer{cfg: cfg, maps: maps, log: log}
}

// SetMobTable must be called before the first Run.
func (r *Replayer) SetMobTable(t *data.MobTable) { r.mobs = t }

// sink is a connection that drops everything sent to it.
type sink struct {
	state packet.SessionState
}

func (s *sink) Send([]byte)                     {}
func (s *sink) State() packet.SessionState      { return s.state }
func (s *sink) SetState(st packet.SessionState) { s.state = st }

// Run replays s. Capture time between messages is converted into ticks at
// the configured tick rate.
func (r *Replayer) Run(ctx context.Context, s *Stream) Report {
	rep := Report{Key: s.Key, Err: s.Err, Objects: make(map[string]int)}
	log := r.log.With(zap.String("stream", s.Key))

	enc, err := packet.LookupCodePage(r.cfg.Client.Codepage)
	if err != nil {
		rep.Err = err
		return rep
	}
	guard := physics.NewGuard(r.cfg.Physics.OscillationDelta, r.cfg.Physics.OscillationStrikes, r.cfg.Physics.OscillationMidLimit)
	bus := event.NewBus()
	stage := world.NewStage(r.maps, guard, bus, log)
	stage.SetMobTable(r.mobs)
	deps := handler.NewDeps(r.cfg, stage, bus, log)
	reg := packet.NewRegistry(enc, log)
	handler.RegisterAll(reg, deps)
	conn := &sink{state: packet.StateConnected}

	var prev time.Time
	for _, m := range s.Messages {
		if ctx.Err() != nil {
			rep.Err = ctx.Err()
			break
		}
		if !prev.IsZero() && stage.Loaded() {
			n := int(m.Seen.Sub(prev) / r.cfg.Client.TickRate)
			for i := 0; i < min(n, maxCatchUpTicks); i++ {
				rep.Anomalies += len(stage.Tick())
				stage.Flush()
				rep.Ticks++
			}
		}
		prev = m.Seen

		rep.Messages++
		if err := reg.Dispatch(conn, conn.State(), m.Payload); err != nil {
			rep.Failed++
		}
		bus.SwapBuffers()
		bus.DispatchAll()
		stage.Flush()
	}

	if len(s.Messages) > 1 {
		rep.Span = s.Messages[len(s.Messages)-1].Seen.Sub(s.Messages[0].Seen)
	}
	rep.CharacterID = deps.Character.ID
	rep.Name = deps.Character.Stats.Name
	rep.MapID = stage.MapID()
	for _, k := range world.Kinds {
		if n := stage.Count(k); n > 0 {
			rep.Objects[k.String()] = n
		}
	}
	return rep
}
