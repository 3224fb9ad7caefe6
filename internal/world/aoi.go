package world

import (
	"math"
	"sort"

	"github.com/journeygo/client/internal/physics"
)

// viewCell is the grid cell edge in map units. A 3x3 block of cells covers
// any view range up to this size.
const viewCell = 600

type cellKey struct {
	cx, cy int32
}

type objKey struct {
	kind Kind
	oid  int32
}

func toCell(v float64) int32 {
	return int32(math.Floor(v / viewCell))
}

// viewGrid buckets stage objects by position so range queries only look at
// nearby cells. Accessed only from the tick goroutine, no locks.
type viewGrid struct {
	cells map[cellKey]map[objKey]struct{}
	where map[objKey]cellKey
}

func newViewGrid() *viewGrid {
	return &viewGrid{
		cells: make(map[cellKey]map[objKey]struct{}),
		where: make(map[objKey]cellKey),
	}
}

// place inserts k at (x, y) or moves it there.
func (g *viewGrid) place(k objKey, x, y float64) {
	ck := cellKey{cx: toCell(x), cy: toCell(y)}
	if old, ok := g.where[k]; ok {
		if old == ck {
			return
		}
		g.unlink(k, old)
	}
	cell := g.cells[ck]
	if cell == nil {
		cell = make(map[objKey]struct{})
		g.cells[ck] = cell
	}
	cell[k] = struct{}{}
	g.where[k] = ck
}

func (g *viewGrid) drop(k objKey) {
	if ck, ok := g.where[k]; ok {
		g.unlink(k, ck)
		delete(g.where, k)
	}
}

func (g *viewGrid) unlink(k objKey, ck cellKey) {
	cell := g.cells[ck]
	delete(cell, k)
	if len(cell) == 0 {
		delete(g.cells, ck)
	}
}

// nearby returns the keys in the 3x3 cells around (x, y), ordered by kind
// then oid. Callers filter by exact distance.
func (g *viewGrid) nearby(x, y float64) []objKey {
	cx, cy := toCell(x), toCell(y)
	var out []objKey
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for k := range g.cells[cellKey{cx: cx + dx, cy: cy + dy}] {
				out = append(out, k)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].kind != out[j].kind {
			return out[i].kind < out[j].kind
		}
		return out[i].oid < out[j].oid
	})
	return out
}

func (g *viewGrid) len() int { return len(g.where) }

// Nearby returns the live objects within rng of center on both axes,
// excluding the player. rng is capped at one grid cell.
func (s *Stage) Nearby(center physics.Point, rng float64) []*MapObject {
	rng = min(rng, viewCell)
	var out []*MapObject
	for _, k := range s.grid.nearby(center.X, center.Y) {
		if k.kind == KindPlayer {
			continue
		}
		obj, ok := s.Object(k.kind, k.oid)
		if !ok {
			continue
		}
		if math.Abs(obj.Phys.X-center.X) <= rng && math.Abs(obj.Phys.Y-center.Y) <= rng {
			out = append(out, obj)
		}
	}
	return out
}
