package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/core/event"
	"github.com/journeygo/client/internal/data"
	"github.com/journeygo/client/internal/decode"
	"github.com/journeygo/client/internal/net/packet"
	"github.com/journeygo/client/internal/persist"
	"github.com/journeygo/client/internal/physics"
	"github.com/journeygo/client/internal/telemetry"
	"github.com/journeygo/client/internal/world"
)

type fakeConn struct {
	state packet.SessionState
	sent  [][]byte
}

func (c *fakeConn) Send(data []byte)                { c.sent = append(c.sent, data) }
func (c *fakeConn) State() packet.SessionState      { return c.state }
func (c *fakeConn) SetState(st packet.SessionState) { c.state = st }

func TestInputDrainsUpToLimit(t *testing.T) {
	log := zaptest.NewLogger(t)
	reg := packet.NewRegistry(nil, log)
	calls := 0
	reg.Register(0x11, []packet.SessionState{packet.StateConnected}, func(any, *packet.Reader) { calls++ })
	reg.Register(0x20, []packet.SessionState{packet.StateInWorld}, func(any, *packet.Reader) { calls++ })

	queue := make(chan []byte, 8)
	for i := 0; i < 4; i++ {
		queue <- packet.NewWriterWithOpcode(0x11).Bytes()
	}
	queue <- packet.NewWriterWithOpcode(0x20).Bytes()

	in := NewInputSystem(queue, &fakeConn{state: packet.StateConnected}, reg, 3, log)
	in.Update(0)
	if calls != 3 || len(queue) != 2 {
		t.Fatalf("after first tick calls=%d queued=%d, want 3 and 2", calls, len(queue))
	}
	in.Update(0)
	if calls != 4 || len(queue) != 0 {
		t.Fatalf("after second tick calls=%d queued=%d, want 4 and 0", calls, len(queue))
	}
	if d, f := in.Counts(); d != 5 || f != 1 {
		t.Errorf("counts = %d dispatched, %d failed; want 5, 1", d, f)
	}
	in.Update(0) // empty queue must not block
}

func TestInputStopsOnClosedQueue(t *testing.T) {
	log := zaptest.NewLogger(t)
	queue := make(chan []byte)
	close(queue)
	in := NewInputSystem(queue, &fakeConn{}, packet.NewRegistry(nil, log), 10, log)
	in.Update(0)
	if d, _ := in.Counts(); d != 0 {
		t.Fatalf("dispatched %d from a closed queue", d)
	}
}

type pushController struct {
	ticks []uint64
	maps  []int32
}

func (c *pushController) Control(o *physics.Object, mapID int32, tick uint64) (float64, float64) {
	c.ticks = append(c.ticks, tick)
	c.maps = append(c.maps, mapID)
	return 1, 0
}

func loadedStage(t *testing.T, log *zap.Logger, bus *event.Bus, mapID int32) *world.Stage {
	t.Helper()
	maps := &data.MapDataTable{}
	maps.Add(data.MapInfo{
		MapID:     100000000,
		Footholds: []data.FootholdEntry{{ID: 1, X1: -500, Y1: 300, X2: 500, Y2: 300}},
		Portals:   []data.PortalEntry{{ID: 0, X: 0, Y: 200}},
	})
	s := world.NewStage(maps, physics.DefaultGuard(), bus, log)
	s.SetPlayer(7, "Tester")
	s.Load(mapID, 0)
	return s
}

func TestPhysicsSkipsUnloadedStage(t *testing.T) {
	log := zaptest.NewLogger(t)
	stage := world.NewStage(nil, physics.DefaultGuard(), nil, log)
	ctrl := &pushController{}
	sys := NewPhysicsSystem(stage, ctrl, nil, 0, log)
	sys.Update(0)
	if sys.Tick() != 0 || len(ctrl.ticks) != 0 {
		t.Fatalf("tick=%d calls=%d before any map loaded", sys.Tick(), len(ctrl.ticks))
	}
}

func TestPhysicsAppliesControllerForces(t *testing.T) {
	log := zaptest.NewLogger(t)
	// an unknown map has no terrain, so a flying player moves freely
	stage := loadedStage(t, log, nil, 999999999)
	p := stage.Player()
	p.Phys.Type = physics.Flying

	ctrl := &pushController{}
	sys := NewPhysicsSystem(stage, ctrl, nil, 0, log)
	sys.Update(0)

	if len(ctrl.ticks) != 1 || ctrl.ticks[0] != 1 || ctrl.maps[0] != 999999999 {
		t.Fatalf("controller calls = %v maps = %v", ctrl.ticks, ctrl.maps)
	}
	if p.Phys.X != 1 || p.Phys.Y != -1 || p.Phys.HSpeed != 1 {
		t.Errorf("player = (%v, %v) hspeed %v, want (1, -1) hspeed 1", p.Phys.X, p.Phys.Y, p.Phys.HSpeed)
	}
	if p.Phys.HForce != 0 {
		t.Errorf("force not consumed: %v", p.Phys.HForce)
	}
}

func TestPhysicsAnomaliesAreRateLimited(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)
	bus := event.NewBus()
	// no terrain, so nothing stops the fall before the clamp
	stage := loadedStage(t, log, bus, 999999999)

	for oid := int32(1); oid <= 2; oid++ {
		mob := stage.SpawnMob(decode.MobSpawn{OID: oid, ID: 100100, Position: packet.Point{X: 0, Y: 0}})
		mob.Phys.VSpeed = 6000
	}
	var seen []event.PhysicsAnomaly
	event.Subscribe(bus, func(e event.PhysicsAnomaly) { seen = append(seen, e) })

	sys := NewPhysicsSystem(stage, nil, bus, 1, log)
	sys.Update(0)

	if n := len(sys.LastAnomalies()); n != 2 {
		t.Fatalf("anomalies = %d, want 2", n)
	}
	if sys.TotalAnomalies() != 2 {
		t.Errorf("total = %d", sys.TotalAnomalies())
	}
	if n := logs.FilterMessage("physics anomaly").Len(); n != 1 {
		t.Errorf("logged %d anomaly lines, want 1", n)
	}

	bus.SwapBuffers()
	bus.DispatchAll()
	if len(seen) != 2 || seen[0].Kind != "mob" || seen[0].Anomaly != "clamp_high" {
		t.Fatalf("events = %+v", seen)
	}
}

type framesSink struct {
	frames []*telemetry.Frame
}

func (s *framesSink) Publish(f *telemetry.Frame) error {
	s.frames = append(s.frames, f)
	return nil
}

func TestTelemetryEveryNTicks(t *testing.T) {
	log := zaptest.NewLogger(t)
	stage := loadedStage(t, log, nil, 100000000)
	stage.SpawnMob(decode.MobSpawn{OID: 40, ID: 100100, Position: packet.Point{X: 10, Y: 299}})

	phys := NewPhysicsSystem(stage, nil, nil, 0, log)
	sink := &framesSink{}
	tel := NewTelemetrySystem(stage, phys, sink, 2, 0, log)
	for i := 0; i < 4; i++ {
		phys.Update(0)
		tel.Update(0)
	}

	if len(sink.frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(sink.frames))
	}
	f := sink.frames[1]
	if f.Tick != 4 || f.MapID != 100000000 {
		t.Errorf("frame tick=%d map=%d", f.Tick, f.MapID)
	}
	if f.Player == nil || f.Player.OID != 7 {
		t.Errorf("player = %+v", f.Player)
	}
	if len(f.Objects) != 1 || f.Objects[0].Kind != "mob" || f.Objects[0].OID != 40 {
		t.Errorf("objects = %+v", f.Objects)
	}
}

func TestTelemetryViewRange(t *testing.T) {
	log := zaptest.NewLogger(t)
	stage := loadedStage(t, log, nil, 100000000)
	stage.SpawnMob(decode.MobSpawn{OID: 1, ID: 100100, Position: packet.Point{X: 50, Y: 299}})
	stage.SpawnMob(decode.MobSpawn{OID: 2, ID: 100100, Position: packet.Point{X: 480, Y: 299}})

	sink := &framesSink{}
	tel := NewTelemetrySystem(stage, nil, sink, 1, 200, log)
	tel.Update(0)

	if len(sink.frames) != 1 {
		t.Fatalf("frames = %d", len(sink.frames))
	}
	if objs := sink.frames[0].Objects; len(objs) != 1 || objs[0].OID != 1 {
		t.Fatalf("objects = %+v, want only the mob near the player", objs)
	}
}

type countFlusher int

func (c *countFlusher) FlushOutput() { *c++ }

func TestOutputFlushes(t *testing.T) {
	var n countFlusher
	sys := NewOutputSystem(&n)
	sys.Update(0)
	sys.Update(0)
	if n != 2 {
		t.Fatalf("flushes = %d", n)
	}
}

type fakeSaver struct {
	snaps []*persist.Snapshot
	err   error
}

func (s *fakeSaver) Save(_ context.Context, snap *persist.Snapshot) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.snaps = append(s.snaps, snap)
	return true, nil
}

func TestPersistenceSavesAfterEntry(t *testing.T) {
	log := zaptest.NewLogger(t)
	bus := event.NewBus()
	char := character.NewState(96)
	char.ID = 7
	char.Stats.MapID = 100000000
	saver := &fakeSaver{}
	sys := NewPersistenceSystem(char, saver, bus, time.Second, log)

	sys.Update(0)
	if len(saver.snaps) != 0 {
		t.Fatal("saved without an event")
	}

	event.Emit(bus, event.CharacterEntered{CharacterID: 7, MapID: 100000000, Partial: true})
	bus.SwapBuffers()
	bus.DispatchAll()
	sys.Update(0)
	sys.Update(0)

	if len(saver.snaps) != 1 || sys.Saved() != 1 {
		t.Fatalf("snapshots = %d saved = %d, want 1", len(saver.snaps), sys.Saved())
	}
	if s := saver.snaps[0]; s.CharacterID != 7 || !s.Partial || s.MapID != 100000000 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestPersistenceErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := event.NewBus()
	char := character.NewState(96)
	char.ID = 7
	sys := NewPersistenceSystem(char, &fakeSaver{err: errors.New("db down")}, bus, time.Second, zap.New(core))

	event.Emit(bus, event.MapChanged{MapID: 1})
	bus.SwapBuffers()
	bus.DispatchAll()
	sys.Update(0)

	if logs.FilterMessage("snapshot save failed").Len() != 1 || sys.Saved() != 0 {
		t.Fatalf("logs = %d saved = %d", logs.Len(), sys.Saved())
	}
}

type fakeAnomalyLog struct {
	batches [][]persist.AnomalyEntry
}

func (l *fakeAnomalyLog) WriteBatch(_ context.Context, entries []persist.AnomalyEntry) error {
	l.batches = append(l.batches, entries)
	return nil
}

func TestPersistenceBatchesAnomalies(t *testing.T) {
	bus := event.NewBus()
	char := character.NewState(96)
	char.ID = 7
	char.Stats.MapID = 104000000
	sys := NewPersistenceSystem(char, &fakeSaver{}, bus, time.Second, zaptest.NewLogger(t))
	alog := &fakeAnomalyLog{}
	sys.LogAnomalies(alog, 3)

	event.Emit(bus, event.PhysicsAnomaly{Kind: "mob", OID: 4, Anomaly: "clamp_high", Y: 12000})
	event.Emit(bus, event.PhysicsAnomaly{Kind: "player", OID: 7, Anomaly: "oscillation", Y: 40})
	bus.SwapBuffers()
	bus.DispatchAll()

	sys.Update(0)
	sys.Update(0)
	if len(alog.batches) != 0 {
		t.Fatalf("flushed early: %d batches", len(alog.batches))
	}
	sys.Update(0)
	if len(alog.batches) != 1 || len(alog.batches[0]) != 2 {
		t.Fatalf("batches = %+v", alog.batches)
	}
	e := alog.batches[0][0]
	if e.CharacterID != 7 || e.MapID != 104000000 || e.Kind != "mob" || e.OID != 4 || e.Anomaly != "clamp_high" {
		t.Errorf("entry = %+v", e)
	}

	// nothing buffered, nothing written
	for i := 0; i < 3; i++ {
		sys.Update(0)
	}
	if len(alog.batches) != 1 {
		t.Fatalf("empty flush wrote a batch")
	}
}

func TestCleanupFlushesRemovedObjects(t *testing.T) {
	log := zaptest.NewLogger(t)
	stage := loadedStage(t, log, nil, 100000000)
	stage.SpawnMob(decode.MobSpawn{OID: 1, ID: 100100})
	stage.KillMob(1)
	if stage.Pending() != 1 {
		t.Fatalf("pending = %d", stage.Pending())
	}
	NewCleanupSystem(stage).Update(0)
	if stage.Pending() != 0 {
		t.Fatalf("pending after cleanup = %d", stage.Pending())
	}
}
