package world

import (
	"go.uber.org/zap"

	"github.com/journeygo/client/internal/core/ecs"
	"github.com/journeygo/client/internal/core/event"
	"github.com/journeygo/client/internal/data"
	"github.com/journeygo/client/internal/physics"
)

const (
	// respawn points outside this band are moved to y = respawnFallbackY
	respawnTop       = -1000
	respawnBottom    = 2000
	respawnFallbackY = 300
)

// Anomaly is a physics safety net that fired for one object during a tick.
type Anomaly struct {
	Kind  Kind
	OID   int32
	Flags physics.Anomaly
	X, Y  float64
}

// Stage holds the current map: its terrain and every object on it. It is
// owned by the tick goroutine.
type Stage struct {
	log   *zap.Logger
	maps  *data.MapDataTable
	mobs  *data.MobTable
	guard physics.Guard
	bus   *event.Bus

	world  *ecs.World
	grid   *viewGrid
	stores [numKinds]*ecs.PtrComponentStore[MapObject]
	index  [numKinds]map[int32]ecs.EntityID

	engine     *physics.Engine
	portals    *data.PortalTable
	mapID      int32
	underwater bool
	loaded     bool
}

// SetMobTable sets the templates consulted by SpawnMob.
func (s *Stage) SetMobTable(t *data.MobTable) { s.mobs = t }

// NewStage creates an empty stage. bus may be nil.
func NewStage(maps *data.MapDataTable, guard physics.Guard, bus *event.Bus, log *zap.Logger) *Stage {
	if maps == nil {
		maps = &data.MapDataTable{}
	}
	s := &Stage{
		log:     log,
		maps:    maps,
		guard:   guard,
		bus:     bus,
		world:   ecs.NewWorld(),
		grid:    newViewGrid(),
		engine:  physics.NewEngine(nil, guard),
		portals: maps.Portals(0),
	}
	for k := range s.stores {
		s.stores[k] = ecs.NewPtrComponentStore[MapObject]()
		s.world.Registry().Register(s.stores[k])
		s.index[k] = make(map[int32]ecs.EntityID)
	}
	return s
}

func (s *Stage) MapID() int32            { return s.mapID }
func (s *Stage) Loaded() bool            { return s.loaded }
func (s *Stage) Underwater() bool        { return s.underwater }
func (s *Stage) Engine() *physics.Engine { return s.engine }

// Load replaces the terrain with mapID's and clears every object except the
// player, then respawns the player at portalID. Unknown maps load with no
// terrain.
func (s *Stage) Load(mapID int32, portalID uint8) physics.Point {
	tree, ok := s.maps.Tree(mapID)
	if !ok {
		s.log.Warn("no terrain for map, simulating without footholds", zap.Int32("map", mapID))
	}
	s.engine = physics.NewEngine(tree, s.guard)
	s.portals = s.maps.Portals(mapID)
	s.underwater = false
	if info := s.maps.GetInfo(mapID); info != nil {
		s.underwater = info.Underwater
	}
	s.mapID = mapID
	s.loaded = true

	for _, k := range Kinds {
		if k == KindPlayer {
			continue
		}
		for oid, id := range s.index[k] {
			s.world.DestroyNow(id)
			delete(s.index[k], oid)
			s.grid.drop(objKey{kind: k, oid: oid})
		}
	}

	pos := s.Respawn(portalID)
	if s.bus != nil {
		event.Emit(s.bus, event.MapChanged{MapID: mapID, Portal: portalID})
	}
	s.log.Debug("stage loaded",
		zap.Int32("map", mapID),
		zap.Uint8("portal", portalID),
		zap.Int("footholds", tree.Len()),
		zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
	return pos
}

// SpawnPoint resolves where a character entering through portalID stands.
// A missing portal falls back to portal 0, then to the origin. The point is
// dropped onto the ground below it, and heights outside the sane band are
// replaced by a fixed one.
func (s *Stage) SpawnPoint(portalID uint8) physics.Point {
	var spawn physics.Point
	if p := s.portals.Get(portalID); p != nil {
		spawn = physics.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	if spawn.X == 0 && spawn.Y == 0 {
		if p := s.portals.Get(0); p != nil {
			spawn = physics.Point{X: float64(p.X), Y: float64(p.Y)}
		}
	}
	start := s.engine.YBelow(spawn)
	if start.Y < respawnTop || start.Y > respawnBottom {
		s.log.Warn("spawn point out of range",
			zap.Int32("map", s.mapID),
			zap.Uint8("portal", portalID),
			zap.Float64("y", start.Y))
		start.Y = respawnFallbackY
	}
	return start
}

// Respawn moves the player to portalID and resets its motion.
func (s *Stage) Respawn(portalID uint8) physics.Point {
	start := s.SpawnPoint(portalID)
	p := s.Player()
	if p == nil {
		return start
	}
	ph := &p.Phys
	ph.HSpeed, ph.VSpeed = 0, 0
	ph.HForce, ph.VForce = 0, 0
	ph.FhID = 0
	ph.OnGround = false
	ph.Type = physics.Normal
	if s.underwater {
		ph.Type = physics.Swimming
	}
	ph.SetPosition(start)
	s.grid.place(objKey{kind: KindPlayer, oid: p.OID}, start.X, start.Y)
	return start
}

// SetPlayer creates or renames the local player.
func (s *Stage) SetPlayer(characterID int32, name string) *MapObject {
	for oid, id := range s.index[KindPlayer] {
		if oid != characterID {
			s.world.DestroyNow(id)
			delete(s.index[KindPlayer], oid)
			s.grid.drop(objKey{kind: KindPlayer, oid: oid})
		}
	}
	obj := s.add(KindPlayer, MapObject{OID: characterID, Name: name})
	return obj
}

// Player returns the local player, or nil before SetPlayer.
func (s *Stage) Player() *MapObject {
	for _, id := range s.index[KindPlayer] {
		obj, _ := s.stores[KindPlayer].Get(id)
		return obj
	}
	return nil
}

// Object looks up a live object by kind and oid.
func (s *Stage) Object(k Kind, oid int32) (*MapObject, bool) {
	if k >= numKinds {
		return nil, false
	}
	id, ok := s.index[k][oid]
	if !ok {
		return nil, false
	}
	return s.stores[k].Get(id)
}

// Count returns the number of live objects of kind k.
func (s *Stage) Count(k Kind) int {
	if k >= numKinds {
		return 0
	}
	return len(s.index[k])
}

// Each visits the live objects of kind k in creation order.
func (s *Stage) Each(k Kind, fn func(*MapObject)) {
	s.stores[k].EachSorted(func(id ecs.EntityID, obj *MapObject) {
		if !s.world.Marked(id) {
			fn(obj)
		}
	})
}

// add inserts obj, replacing any live object of the same kind and oid.
func (s *Stage) add(k Kind, obj MapObject) *MapObject {
	obj.Kind = k
	if id, ok := s.index[k][obj.OID]; ok {
		if cur, ok := s.stores[k].Get(id); ok {
			*cur = obj
			s.grid.place(objKey{kind: k, oid: obj.OID}, obj.Phys.X, obj.Phys.Y)
			return cur
		}
	}
	id := s.world.CreateEntity()
	ptr := &obj
	s.stores[k].Set(id, ptr)
	s.index[k][obj.OID] = id
	s.grid.place(objKey{kind: k, oid: obj.OID}, obj.Phys.X, obj.Phys.Y)
	if s.bus != nil && k != KindPlayer {
		event.Emit(s.bus, event.ObjectSpawned{Kind: k.String(), OID: obj.OID})
	}
	return ptr
}

// remove unlinks the object now and destroys it at the end of the tick.
func (s *Stage) remove(k Kind, oid int32) bool {
	id, ok := s.index[k][oid]
	if !ok {
		return false
	}
	delete(s.index[k], oid)
	s.grid.drop(objKey{kind: k, oid: oid})
	s.world.MarkForDestruction(id)
	if s.bus != nil {
		event.Emit(s.bus, event.ObjectRemoved{Kind: k.String(), OID: oid})
	}
	return true
}

// Tick advances every object once: reactors, npcs, mobs, chars, drops and
// finally the player, each kind in creation order.
func (s *Stage) Tick() []Anomaly {
	var out []Anomaly
	for _, k := range Kinds {
		s.stores[k].EachSorted(func(id ecs.EntityID, obj *MapObject) {
			if s.world.Marked(id) {
				return
			}
			if a := s.engine.MoveObject(&obj.Phys); a != 0 {
				out = append(out, Anomaly{Kind: k, OID: obj.OID, Flags: a, X: obj.Phys.X, Y: obj.Phys.Y})
			}
			if k == KindDrop {
				settleDrop(obj)
			}
			s.grid.place(objKey{kind: k, oid: obj.OID}, obj.Phys.X, obj.Phys.Y)
		})
	}
	return out
}

// Flush destroys objects removed during the tick. Returns how many.
func (s *Stage) Flush() int {
	return s.world.FlushDestroyQueue()
}

// Pending is the number of objects waiting for Flush.
func (s *Stage) Pending() int {
	return s.world.Pending()
}
