package decode

import (
	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

// MobSpawn describes a monster entering the field.
type MobSpawn struct {
	OID      int32
	ID       int32
	Position packet.Point
	Stance   int8
	Foothold uint16
	Effect   int8
	Team     int8 // -1 when the message omits it
	NewSpawn bool // effect -2 plays the spawn animation
	Control  int8 // 0 not controlled, otherwise the control mode
}

// tail after the foothold: optional effect, team and four unused bytes
func parseMobTail(r *packet.Reader, m *MobSpawn, checkShort bool) {
	if checkShort && r.Available() < 5 {
		m.Team = -1
		return
	}
	m.Effect = r.ReadInt8()
	if m.Effect > 0 {
		r.ReadUint8()
		r.ReadShort()
		if m.Effect == 15 {
			r.ReadUint8()
		}
	}
	m.NewSpawn = m.Effect == -2
	m.Team = r.ReadInt8()
	r.Skip(4)
}

func ParseSpawnMob(r *packet.Reader) (MobSpawn, error) {
	var m MobSpawn
	m.OID = r.ReadInt()
	r.ReadUint8() // 5 when uncontrolled
	m.ID = r.ReadInt()
	r.Skip(16)
	m.Position = r.ReadPoint()
	m.Stance = r.ReadInt8()
	r.Skip(2)
	m.Foothold = r.ReadUShort()
	parseMobTail(r, &m, true)
	return m, r.Err()
}

// MobControl hands control of a monster to this client or takes it away.
type MobControl struct {
	Mode int8
	OID  int32
	// Spawn is set when the message also carries the monster itself.
	Spawn *MobSpawn
}

func ParseMobController(r *packet.Reader) (MobControl, error) {
	var c MobControl
	c.Mode = r.ReadInt8()
	c.OID = r.ReadInt()
	if c.Mode == 0 || r.Err() != nil || r.Available() == 0 {
		return c, r.Err()
	}
	m := MobSpawn{OID: c.OID, Control: c.Mode}
	r.Skip(1)
	m.ID = r.ReadInt()
	r.Skip(22)
	m.Position = r.ReadPoint()
	m.Stance = r.ReadInt8()
	r.Skip(2)
	m.Foothold = r.ReadUShort()
	parseMobTail(r, &m, false)
	if r.Err() == nil {
		c.Spawn = &m
	}
	return c, r.Err()
}

type MobKill struct {
	OID       int32
	Animation int8
}

func ParseKillMob(r *packet.Reader) (MobKill, error) {
	k := MobKill{OID: r.ReadInt(), Animation: r.ReadInt8()}
	return k, r.Err()
}

type NpcSpawn struct {
	OID      int32
	ID       int32
	Position packet.Point
	Flip     bool
	Foothold uint16
}

func ParseSpawnNpc(r *packet.Reader) (NpcSpawn, error) {
	var n NpcSpawn
	n.OID = r.ReadInt()
	n.ID = r.ReadInt()
	n.Position = r.ReadPoint()
	n.Flip = r.ReadBool()
	n.Foothold = r.ReadUShort()
	r.ReadShort() // rx
	r.ReadShort() // ry
	r.ReadUint8()
	return n, r.Err()
}

// NpcControl is an npc controller message. Mode 0 removes the npc.
type NpcControl struct {
	Mode  int8
	OID   int32
	Spawn *NpcSpawn
}

func ParseNpcController(r *packet.Reader) (NpcControl, error) {
	var c NpcControl
	c.Mode = r.ReadInt8()
	c.OID = r.ReadInt()
	if c.Mode == 0 || r.Err() != nil {
		return c, r.Err()
	}
	n := NpcSpawn{OID: c.OID}
	n.ID = r.ReadInt()
	n.Position = r.ReadPoint()
	n.Flip = r.ReadBool()
	n.Foothold = r.ReadUShort()
	r.ReadShort() // rx
	r.ReadShort() // ry
	r.ReadBool()  // minimap
	if r.Err() == nil {
		c.Spawn = &n
	}
	return c, r.Err()
}

// DropMode values of a loot drop.
const (
	DropModeAnimated = 1
	DropModeExisting = 2 // already on the ground when the player arrived
)

type Drop struct {
	Mode       int8
	OID        int32
	Meso       bool
	ItemID     int32 // meso amount when Meso
	Owner      int32
	PickupType int8
	From       packet.Point
	To         packet.Point
	PlayerDrop bool
}

func ParseDropLoot(r *packet.Reader) (Drop, error) {
	var d Drop
	d.Mode = r.ReadInt8()
	d.OID = r.ReadInt()
	d.Meso = r.ReadBool()
	d.ItemID = r.ReadInt()
	d.Owner = r.ReadInt()
	d.PickupType = r.ReadInt8()
	d.To = r.ReadPoint()
	r.Skip(4)
	if d.Mode != DropModeExisting {
		d.From = r.ReadPoint()
		r.Skip(2)
	} else {
		d.From = d.To
	}
	if !d.Meso {
		r.Skip(8)
	}
	d.PlayerDrop = !r.ReadBool()
	return d, r.Err()
}

// LootRemoval is a drop leaving the field. Modes above 1 name a looter.
type LootRemoval struct {
	Mode    int8
	OID     int32
	Looter  int32
	HasPet  bool
	PetSlot uint8
}

func ParseRemoveLoot(r *packet.Reader) (LootRemoval, error) {
	var l LootRemoval
	l.Mode = r.ReadInt8()
	l.OID = r.ReadInt()
	if l.Mode > 1 {
		l.Looter = r.ReadInt()
		if r.Available() > 0 {
			l.HasPet = true
			l.PetSlot = r.ReadUint8()
		}
	}
	return l, r.Err()
}

type Reactor struct {
	OID      int32
	ID       int32
	State    int8
	Position packet.Point
}

func ParseSpawnReactor(r *packet.Reader) (Reactor, error) {
	var re Reactor
	re.OID = r.ReadInt()
	re.ID = r.ReadInt()
	re.State = r.ReadInt8()
	re.Position = r.ReadPoint()
	return re, r.Err()
}

// ParseReactorState decodes the hit and remove messages, which share a
// prefix of oid, state and position.
func ParseReactorState(r *packet.Reader) (Reactor, error) {
	var re Reactor
	re.OID = r.ReadInt()
	re.State = r.ReadInt8()
	re.Position = r.ReadPoint()
	return re, r.Err()
}

// CharSpawn is another player entering the field.
type CharSpawn struct {
	ID       int32
	Level    int16
	Name     string
	Job      int16
	Look     character.Look
	Position packet.Point
	Stance   int8
}

func ParseSpawnChar(r *packet.Reader) (CharSpawn, error) {
	var c CharSpawn
	c.ID = r.ReadInt()
	c.Level = r.ReadShort()
	c.Name = r.ReadString()

	r.ReadString() // guild name
	r.ReadShort()  // guild logo background
	r.ReadUint8()
	r.ReadShort() // guild logo
	r.ReadUint8()
	r.Skip(8)

	morphed := r.ReadInt() == 2
	if buffMask := r.ReadInt(); buffMask != 0 {
		if morphed {
			r.ReadShort()
		} else {
			r.ReadUint8()
		}
	}
	r.ReadInt() // second buff mask
	r.Skip(43)
	r.ReadInt() // mount
	r.Skip(61)

	c.Job = r.ReadShort()
	look, err := ParseLook(r)
	if err != nil {
		return c, err
	}
	c.Look = look

	r.Skip(12) // item effects and chair
	c.Position = r.ReadPoint()
	c.Stance = r.ReadInt8()
	return c, r.Err()
}

func ParseRemoveChar(r *packet.Reader) (int32, error) {
	id := r.ReadInt()
	return id, r.Err()
}
