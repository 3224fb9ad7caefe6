package handler

import (
	"encoding/binary"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/config"
	"github.com/journeygo/client/internal/core/event"
	"github.com/journeygo/client/internal/data"
	"github.com/journeygo/client/internal/net/packet"
	"github.com/journeygo/client/internal/physics"
	"github.com/journeygo/client/internal/world"
)

type fakeConn struct {
	state packet.SessionState
	sent  [][]byte
}

func (c *fakeConn) Send(data []byte)                { c.sent = append(c.sent, data) }
func (c *fakeConn) State() packet.SessionState      { return c.state }
func (c *fakeConn) SetState(st packet.SessionState) { c.state = st }

func setup(t *testing.T, log *zap.Logger) (*packet.Registry, *Deps, *fakeConn) {
	t.Helper()
	maps := &data.MapDataTable{}
	maps.Add(data.MapInfo{
		MapID:     104000000,
		Footholds: []data.FootholdEntry{{ID: 1, X1: -300, Y1: 100, X2: 300, Y2: 100}},
		Portals:   []data.PortalEntry{{ID: 0, X: 0, Y: 50}},
	})
	bus := event.NewBus()
	stage := world.NewStage(maps, physics.DefaultGuard(), bus, log)
	deps := NewDeps(config.Defaults(), stage, bus, log)
	reg := packet.NewRegistry(nil, log)
	RegisterAll(reg, deps)
	return reg, deps, &fakeConn{state: packet.StateConnected}
}

func TestPingPong(t *testing.T) {
	reg, _, conn := setup(t, zaptest.NewLogger(t))
	if err := reg.Dispatch(conn, conn.State(), packet.NewWriterWithOpcode(packet.RecvPing).Bytes()); err != nil {
		t.Fatal(err)
	}
	if len(conn.sent) != 1 || binary.LittleEndian.Uint16(conn.sent[0]) != packet.SendPong {
		t.Fatalf("sent = %x", conn.sent)
	}
}

func TestSendLogin(t *testing.T) {
	conn := &fakeConn{}
	SendLogin(conn, 1234)
	if len(conn.sent) != 1 || len(conn.sent[0]) != 6 {
		t.Fatalf("sent = %x", conn.sent)
	}
	if binary.LittleEndian.Uint16(conn.sent[0]) != packet.SendPlayerLoggedIn ||
		binary.LittleEndian.Uint32(conn.sent[0][2:]) != 1234 {
		t.Fatalf("login = %x", conn.sent[0])
	}
}

func changeMap(mapID int32, portal uint8) []byte {
	w := packet.NewWriterWithOpcode(packet.RecvSetField)
	w.WriteInt(1)
	w.WriteInt8(0)
	w.WriteInt8(0)
	w.WriteZero(3)
	w.WriteInt(mapID)
	w.WriteUint8(portal)
	return w.Bytes()
}

func TestMapObjectsNeedInWorld(t *testing.T) {
	reg, _, conn := setup(t, zaptest.NewLogger(t))
	w := packet.NewWriterWithOpcode(packet.RecvKillMob)
	w.WriteInt(1)
	w.WriteInt8(0)
	if err := reg.Dispatch(conn, conn.State(), w.Bytes()); err == nil {
		t.Fatal("map object message accepted before entering a field")
	}
}

func TestChangeMapLoadsStage(t *testing.T) {
	reg, deps, conn := setup(t, zaptest.NewLogger(t))
	deps.Stage.SetPlayer(9, "Tester")
	conn.state = packet.StateInWorld

	if err := reg.Dispatch(conn, conn.State(), changeMap(104000000, 0)); err != nil {
		t.Fatal(err)
	}
	if deps.Stage.MapID() != 104000000 {
		t.Fatalf("stage map = %d", deps.Stage.MapID())
	}
	p := deps.Stage.Player()
	if p.Phys.X != 0 || p.Phys.Y != 99 {
		t.Errorf("player at (%v, %v), want (0, 99)", p.Phys.X, p.Phys.Y)
	}
	if deps.Character.Stats.MapID != 104000000 {
		t.Errorf("character map = %d", deps.Character.Stats.MapID)
	}
}

func TestTruncatedEntryLogsSection(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reg, deps, conn := setup(t, zap.New(core))

	w := packet.NewWriterWithOpcode(packet.RecvSetField)
	w.WriteInt(0)
	w.WriteInt8(1)
	w.WriteInt8(1)
	w.WriteZero(23)
	w.WriteInt(31)
	w.WritePaddedString("Half", 13) // stats block cut short
	if err := reg.Dispatch(conn, conn.State(), w.Bytes()); err != nil {
		t.Fatal(err)
	}

	if conn.state != packet.StateInWorld {
		t.Errorf("state = %s, want InWorld", conn.state)
	}
	if deps.Character.ID != 31 {
		t.Errorf("character id = %d", deps.Character.ID)
	}
	// default map after a failed stats block
	if deps.Stage.MapID() != 100000000 {
		t.Errorf("stage map = %d", deps.Stage.MapID())
	}
	found := false
	for _, e := range logs.FilterMessage("set field decode").All() {
		if e.ContextMap()["section"] == "stats" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no stats section warning in %v", logs.All())
	}
}

func TestSpawnAndKillMob(t *testing.T) {
	reg, deps, conn := setup(t, zaptest.NewLogger(t))
	deps.Stage.SetPlayer(9, "Tester")
	conn.state = packet.StateInWorld
	if err := reg.Dispatch(conn, conn.State(), changeMap(104000000, 0)); err != nil {
		t.Fatal(err)
	}

	w := packet.NewWriterWithOpcode(packet.RecvSpawnMob)
	w.WriteInt(500)
	w.WriteUint8(5)
	w.WriteInt(100100)
	w.WriteZero(16)
	w.WritePoint(packet.Point{X: 20, Y: 100})
	w.WriteInt8(5)
	w.WriteZero(2)
	w.WriteUShort(1)
	if err := reg.Dispatch(conn, conn.State(), w.Bytes()); err != nil {
		t.Fatal(err)
	}
	mob, ok := deps.Stage.Object(world.KindMob, 500)
	if !ok || mob.TemplateID != 100100 || mob.Phys.FhID != 1 {
		t.Fatalf("mob = %+v, %v", mob, ok)
	}

	k := packet.NewWriterWithOpcode(packet.RecvKillMob)
	k.WriteInt(500)
	k.WriteInt8(1)
	if err := reg.Dispatch(conn, conn.State(), k.Bytes()); err != nil {
		t.Fatal(err)
	}
	if deps.Stage.Count(world.KindMob) != 0 {
		t.Fatal("mob still on stage")
	}
}

func TestInventoryOperationUpdatesCharacter(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reg, deps, conn := setup(t, zap.New(core))

	w := packet.NewWriterWithOpcode(packet.RecvInventoryOperation)
	w.WriteBool(true)
	w.WriteUint8(2)
	w.WriteUint8(0) // add
	w.WriteUint8(uint8(character.InvUse))
	w.WriteShort(1)
	w.WriteUint8(2)
	w.WriteInt(2000000)
	w.WriteBool(false)
	w.WriteLong(-1)
	w.WriteShort(20)
	w.WriteString("")
	w.WriteShort(0)
	w.WriteUint8(3) // remove from an empty slot
	w.WriteUint8(uint8(character.InvEtc))
	w.WriteShort(9)
	msg := w.Bytes()

	if err := reg.Dispatch(conn, conn.State(), msg); err == nil {
		t.Fatal("inventory operation accepted before entering a field")
	}

	conn.state = packet.StateInWorld
	if err := reg.Dispatch(conn, conn.State(), msg); err != nil {
		t.Fatal(err)
	}
	rec, ok := deps.Character.Inventory.Get(character.InvUse, 1)
	if !ok || rec.ItemID() != 2000000 {
		t.Fatalf("use slot 1 = %+v, %v", rec, ok)
	}
	if logs.FilterMessage("inventory operation apply").Len() != 1 {
		t.Errorf("apply warnings = %v", logs.All())
	}
}
