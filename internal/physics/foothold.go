package physics

import (
	"math"
	"sort"
)

// Foothold is one immutable terrain segment. Prev and Next link segments of
// the same platform; zero means none.
type Foothold struct {
	ID    uint16
	Prev  uint16
	Next  uint16
	Layer uint8
	X1    int16
	Y1    int16
	X2    int16
	Y2    int16
}

func (f Foothold) Left() int16   { return min(f.X1, f.X2) }
func (f Foothold) Right() int16  { return max(f.X1, f.X2) }
func (f Foothold) Top() int16    { return min(f.Y1, f.Y2) }
func (f Foothold) Bottom() int16 { return max(f.Y1, f.Y2) }

func (f Foothold) IsWall() bool  { return f.ID != 0 && f.X1 == f.X2 }
func (f Foothold) IsFloor() bool { return f.ID != 0 && f.Y1 == f.Y2 }

func (f Foothold) Slope() float64 {
	if f.IsWall() || f.X1 == f.X2 {
		return 0
	}
	return float64(f.Y2-f.Y1) / float64(f.X2-f.X1)
}

// GroundAt returns the segment's height at horizontal position x.
func (f Foothold) GroundAt(x float64) float64 {
	if f.IsFloor() {
		return float64(f.Y1)
	}
	return f.Slope()*(x-float64(f.X1)) + float64(f.Y1)
}

// IsBlocking reports whether a wall segment overlaps the vertical range
// [top, bottom].
func (f Foothold) IsBlocking(top, bottom int) bool {
	if !f.IsWall() {
		return false
	}
	t, b := int(f.Top()), int(f.Bottom())
	return b >= top && t <= bottom
}

// Tree indexes the footholds of one map. It is read-only after NewTree and
// may be shared by every object on that map.
type Tree struct {
	footholds map[uint16]Foothold
	columns   map[int][]uint16 // integer x -> non-wall segments spanning it

	// walls and borders are inclusive [first, second] ranges
	wallLeft, wallRight   float64
	borderTop, borderBott float64
}

func NewTree(fhs []Foothold) *Tree {
	t := &Tree{
		footholds: make(map[uint16]Foothold, len(fhs)),
		columns:   make(map[int][]uint16),
	}
	left, right := int16(30000), int16(-30000)
	bottom, top := int16(-30000), int16(30000)

	for _, fh := range fhs {
		if fh.ID == 0 {
			continue
		}
		t.footholds[fh.ID] = fh
		left = min(left, fh.Left())
		right = max(right, fh.Right())
		bottom = max(bottom, fh.Bottom())
		top = min(top, fh.Top())
		if fh.IsWall() {
			continue
		}
		for x := int(fh.Left()); x <= int(fh.Right()); x++ {
			t.columns[x] = append(t.columns[x], fh.ID)
		}
	}
	for x := range t.columns {
		ids := t.columns[x]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	t.wallLeft = float64(left) + 25
	t.wallRight = float64(right) - 25
	t.borderTop = float64(top) - 300
	t.borderBott = float64(bottom) + 100
	return t
}

func (t *Tree) Empty() bool { return len(t.footholds) == 0 }

func (t *Tree) Len() int { return len(t.footholds) }

// Foothold returns the segment with the given id.
func (t *Tree) Foothold(id uint16) (Foothold, bool) {
	if id == 0 {
		return Foothold{}, false
	}
	fh, ok := t.footholds[id]
	return fh, ok
}

// Walls returns the horizontal limits of the map.
func (t *Tree) Walls() (left, right float64) { return t.wallLeft, t.wallRight }

// Borders returns the vertical limits of the map.
func (t *Tree) Borders() (top, bottom float64) { return t.borderTop, t.borderBott }

// BelowID finds the nearest segment whose ground at x is at or below y and
// above the bottom border. Ties go to the higher id.
func (t *Tree) BelowID(x, y float64) (uint16, bool) {
	var found uint16
	comp := t.borderBott
	for _, id := range t.columns[int(x)] {
		ground := t.footholds[id].GroundAt(x)
		if comp >= ground && ground >= y {
			comp = ground
			found = id
		}
	}
	return found, found != 0
}

// YBelow returns the ground height under (x, y), or the bottom border when
// nothing is there.
func (t *Tree) YBelow(x, y float64) (float64, bool) {
	if id, ok := t.BelowID(x, y); ok {
		return t.footholds[id].GroundAt(x), true
	}
	return t.borderBott, false
}

// UpdateFoothold resolves which segment supports o and refreshes its slope,
// ground contact, layer and jump-down information.
func (t *Tree) UpdateFoothold(o *Object) {
	if o.Type == Fixated && o.FhID > 0 {
		return
	}

	cur, _ := t.Foothold(o.FhID)
	checkSlope := false
	x, y := o.X, o.Y

	if o.OnGround {
		if math.Floor(x) > float64(cur.Right()) {
			o.FhID = cur.Next
		} else if math.Ceil(x) < float64(cur.Left()) {
			o.FhID = cur.Prev
		}
		if o.FhID == 0 {
			o.FhID, _ = t.BelowID(x, y)
		} else {
			checkSlope = true
		}
	} else {
		o.FhID, _ = t.BelowID(x, y)
		if o.FhID == 0 {
			return
		}
	}

	next, ok := t.Foothold(o.FhID)
	if !ok {
		// Ran off the end of a platform with nothing below: stay on it.
		o.OnGround = false
		o.FhID = cur.ID
		if cur.ID != 0 {
			o.LimitX(float64(cur.X1))
		}
		return
	}

	o.FhSlope = next.Slope()
	ground := next.GroundAt(x)

	if o.VSpeed == 0 && checkSlope {
		vdelta := math.Abs(o.FhSlope)
		if o.FhSlope < 0 {
			vdelta *= ground - y
		} else if o.FhSlope > 0 {
			vdelta *= y - ground
		}
		if cur.Slope() != 0 || next.Slope() != 0 {
			if o.HSpeed > 0 && vdelta <= o.HSpeed {
				o.Y = ground
			} else if o.HSpeed < 0 && vdelta >= o.HSpeed {
				o.Y = ground
			}
		}
	}

	o.OnGround = o.Y == ground

	if o.EnableJD || o.HasFlag(CheckBelow) {
		if belowID, ok := t.BelowID(x, ground+1); ok {
			below := t.footholds[belowID]
			o.EnableJD = below.GroundAt(x)-ground < 600
			o.GroundBelow = ground + 1
		} else {
			o.EnableJD = false
		}
		o.ClearFlag(CheckBelow)
	}

	if o.FhLayer == 0 || o.OnGround {
		o.FhLayer = next.Layer
	}
}

// LimitMovement stops o at walls, platform edges, the ground it is about to
// pass through and the map borders.
func (t *Tree) LimitMovement(o *Object) {
	if o.HMobile() {
		crnt, next := o.X, o.NextX()
		left := o.HSpeed < 0
		wall := t.wall(o.FhID, left, o.NextY())
		collision := crosses(left, crnt, next, wall)

		if !collision && o.HasFlag(TurnAtEdges) {
			wall = t.edge(o.FhID, left)
			collision = crosses(left, crnt, next, wall)
		}
		if collision {
			o.LimitX(wall)
			o.ClearFlag(TurnAtEdges)
		}
	}

	if o.VMobile() {
		crnt, next := o.Y, o.NextY()
		if fh, ok := t.Foothold(o.FhID); ok {
			g1, g2 := fh.GroundAt(o.X), fh.GroundAt(o.NextX())
			if crnt <= g1 && next >= g2 {
				o.LimitY(g2)
				t.LimitMovement(o)
				return
			}
		}
		if next < t.borderTop {
			o.LimitY(t.borderTop)
		} else if next > t.borderBott {
			o.LimitY(t.borderBott)
		}
	}
}

func crosses(left bool, crnt, next, wall float64) bool {
	if left {
		return crnt >= wall && next <= wall
	}
	return crnt <= wall && next >= wall
}

func (t *Tree) wall(id uint16, left bool, fy float64) float64 {
	shorty := int(fy)
	top, bottom := shorty-50, shorty-1
	cur, _ := t.Foothold(id)

	if left {
		prev, _ := t.Foothold(cur.Prev)
		if prev.IsBlocking(top, bottom) {
			return float64(cur.Left())
		}
		prevPrev, _ := t.Foothold(prev.Prev)
		if prevPrev.IsBlocking(top, bottom) {
			return float64(prev.Left())
		}
		return t.wallLeft
	}
	next, _ := t.Foothold(cur.Next)
	if next.IsBlocking(top, bottom) {
		return float64(cur.Right())
	}
	nextNext, _ := t.Foothold(next.Next)
	if nextNext.IsBlocking(top, bottom) {
		return float64(next.Right())
	}
	return t.wallRight
}

func (t *Tree) edge(id uint16, left bool) float64 {
	fh, _ := t.Foothold(id)
	if left {
		if fh.Prev == 0 {
			return float64(fh.Left())
		}
		prev, _ := t.Foothold(fh.Prev)
		if prev.Prev == 0 {
			return float64(prev.Left())
		}
		return t.wallLeft
	}
	if fh.Next == 0 {
		return float64(fh.Right())
	}
	next, _ := t.Foothold(fh.Next)
	if next.Next == 0 {
		return float64(next.Right())
	}
	return t.wallRight
}
