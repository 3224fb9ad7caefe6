package world

import (
	"github.com/journeygo/client/internal/decode"
	"github.com/journeygo/client/internal/net/packet"
	"github.com/journeygo/client/internal/physics"
)

const (
	// a dropped item needs this many ticks to cover the horizontal distance
	dropFlightTicks = 48
	dropLaunchSpeed = -5
	dropLift        = 4
)

func toPoint(p packet.Point) physics.Point {
	return physics.Point{X: float64(p.X), Y: float64(p.Y)}
}

func placed(pos packet.Point, fh uint16, t physics.Type) physics.Object {
	o := physics.Object{Type: t, FhID: fh}
	o.SetPosition(toPoint(pos))
	return o
}

// SpawnMob adds a mob. Mobs with a known template turn at foothold edges,
// and flying templates ignore gravity; unknown templates spawn as plain walkers.
func (s *Stage) SpawnMob(m decode.MobSpawn) *MapObject {
	phys := placed(m.Position, m.Foothold, physics.Normal)
	if tmpl := s.mobs.Get(m.ID); tmpl != nil {
		if tmpl.CanFly {
			phys.Type = physics.Flying
		}
		phys.SetFlag(physics.TurnAtEdges)
	}
	return s.add(KindMob, MapObject{
		OID:        m.OID,
		TemplateID: m.ID,
		Stance:     m.Stance,
		Team:       m.Team,
		Controlled: m.Control > 0,
		Phys:       phys,
	})
}

// ControlMob applies a controller message. A message that carries the mob
// spawns or replaces it.
func (s *Stage) ControlMob(c decode.MobControl) bool {
	if c.Spawn != nil {
		s.SpawnMob(*c.Spawn)
		return true
	}
	obj, ok := s.Object(KindMob, c.OID)
	if !ok {
		return false
	}
	obj.Controlled = c.Mode > 0
	return true
}

func (s *Stage) KillMob(oid int32) bool {
	return s.remove(KindMob, oid)
}

func (s *Stage) SpawnNpc(n decode.NpcSpawn) *MapObject {
	return s.add(KindNpc, MapObject{
		OID:        n.OID,
		TemplateID: n.ID,
		Flip:       n.Flip,
		Phys:       placed(n.Position, n.Foothold, physics.Normal),
	})
}

// ControlNpc applies an npc controller message; mode 0 removes the npc.
func (s *Stage) ControlNpc(c decode.NpcControl) bool {
	if c.Mode == 0 {
		return s.remove(KindNpc, c.OID)
	}
	if c.Spawn == nil {
		return false
	}
	obj := s.SpawnNpc(*c.Spawn)
	obj.Controlled = true
	return true
}

func (s *Stage) SpawnChar(c decode.CharSpawn) *MapObject {
	look := c.Look
	return s.add(KindChar, MapObject{
		OID:    c.ID,
		Name:   c.Name,
		Level:  c.Level,
		Job:    c.Job,
		Look:   &look,
		Stance: c.Stance,
		Phys:   placed(c.Position, 0, physics.Normal),
	})
}

func (s *Stage) RemoveChar(id int32) bool {
	return s.remove(KindChar, id)
}

// SpawnDrop adds a drop. Drops already on the ground rest at their
// destination; new ones fly from their source in an arc.
func (s *Stage) SpawnDrop(d decode.Drop) *MapObject {
	obj := MapObject{
		OID:        d.OID,
		TemplateID: d.ItemID,
		Meso:       d.Meso,
		Owner:      d.Owner,
		Dest:       toPoint(d.To),
	}
	if d.Mode == decode.DropModeExisting {
		obj.Phys = placed(d.To, 0, physics.Fixated)
		obj.DropState = DropFloating
		return s.add(KindDrop, obj)
	}
	from := toPoint(d.From)
	obj.Phys = physics.Object{Type: physics.Normal}
	obj.Phys.SetPosition(physics.Point{X: from.X, Y: from.Y - dropLift})
	obj.Phys.HSpeed = (obj.Dest.X - from.X) / dropFlightTicks
	obj.Phys.VSpeed = dropLaunchSpeed
	obj.DropState = DropDropped
	return s.add(KindDrop, obj)
}

func (s *Stage) RemoveDrop(oid int32) bool {
	return s.remove(KindDrop, oid)
}

// settleDrop pins a flying drop once it lands.
func settleDrop(obj *MapObject) {
	if obj.DropState != DropDropped || !obj.Phys.OnGround {
		return
	}
	obj.DropState = DropFloating
	obj.Phys.Type = physics.Fixated
	obj.Phys.HSpeed, obj.Phys.VSpeed = 0, 0
}

func (s *Stage) SpawnReactor(r decode.Reactor) *MapObject {
	return s.add(KindReactor, MapObject{
		OID:          r.OID,
		TemplateID:   r.ID,
		ReactorState: r.State,
		Phys:         placed(r.Position, 0, physics.Fixated),
	})
}

// HitReactor updates the state of a known reactor.
func (s *Stage) HitReactor(r decode.Reactor) bool {
	obj, ok := s.Object(KindReactor, r.OID)
	if !ok {
		return false
	}
	obj.ReactorState = r.State
	return true
}

func (s *Stage) RemoveReactor(oid int32) bool {
	return s.remove(KindReactor, oid)
}
