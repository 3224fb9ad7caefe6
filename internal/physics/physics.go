package physics

import "math"

const (
	gravForce     = 0.14
	swimGravForce = 0.03
	friction      = 0.5
	slopeFactor   = 0.1
	groundSlip    = 3.0
	flyFriction   = 0.05
	swimFriction  = 0.08

	// below this speed an axis with no applied force comes to rest
	restSpeed = 0.1

	// vertical safety clamp
	maxY = 5000.0
	minY = -5000.0

	// ground lookups outside this window are treated as missing terrain
	groundWindowTop    = -2000.0
	groundWindowBottom = 3000.0
)

// Anomaly reports which safety nets fired during a tick.
type Anomaly uint8

const (
	AnomalyClampHigh   Anomaly = 1 << iota // next y above +5000
	AnomalyClampLow                        // next y below -5000
	AnomalyOscillation
	AnomalyNonFinite // NaN or infinite force, speed or position dropped
)

func (a Anomaly) Has(b Anomaly) bool { return a&b != 0 }

func (a Anomaly) String() string {
	if a == 0 {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if a.Has(AnomalyClampHigh) {
		add("clamp_high")
	}
	if a.Has(AnomalyClampLow) {
		add("clamp_low")
	}
	if a.Has(AnomalyOscillation) {
		add("oscillation")
	}
	if a.Has(AnomalyNonFinite) {
		add("non_finite")
	}
	return s
}

// Guard holds the oscillation guard thresholds.
type Guard struct {
	Delta    float64 // per-tick vertical jump that counts as a strike
	Strikes  int     // consecutive strikes before snapping
	MidLimit float64 // snap midpoints beyond this magnitude reset to 0
}

func DefaultGuard() Guard {
	return Guard{Delta: 1000, Strikes: 2, MidLimit: 2000}
}

// Engine advances objects on one map. It holds no per-object state.
type Engine struct {
	tree  *Tree
	guard Guard
}

func NewEngine(tree *Tree, guard Guard) *Engine {
	if tree == nil {
		tree = NewTree(nil)
	}
	guard = NewGuard(guard.Delta, guard.Strikes, guard.MidLimit)
	return &Engine{tree: tree, guard: guard}
}

func (e *Engine) Tree() *Tree { return e.tree }

// MoveObject runs one tick for o: foothold resolution, mode-specific
// integration, terrain limits, the vertical safety clamp, the Euler step and
// the oscillation guard.
func (e *Engine) MoveObject(o *Object) Anomaly {
	var anomaly Anomaly

	if dropNonFinite(o) {
		anomaly |= AnomalyNonFinite
	}
	if !o.tracked {
		o.LastY = o.Y
		o.tracked = true
	}

	e.tree.UpdateFoothold(o)

	switch o.Type {
	case Normal:
		moveNormal(o)
	case Flying:
		moveFlying(o)
	case Swimming:
		moveSwimming(o)
	}
	if !finite(o.HSpeed) {
		o.HSpeed = 0
		anomaly |= AnomalyNonFinite
	}
	if o.Type != Fixated && !e.tree.Empty() {
		e.tree.LimitMovement(o)
	}

	if next := o.NextY(); math.IsNaN(next) {
		o.LimitY(safeY(o.LastY))
		anomaly |= AnomalyNonFinite
	} else if next > maxY {
		o.LimitY(maxY)
		anomaly |= AnomalyClampHigh
	} else if next < minY {
		o.LimitY(minY)
		anomaly |= AnomalyClampLow
	}

	o.Move()

	if e.checkOscillation(o) {
		anomaly |= AnomalyOscillation
	}
	return anomaly
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// dropNonFinite zeroes non-finite forces and speeds and pulls a non-finite
// position back into the clamp range. It reports whether anything changed.
func dropNonFinite(o *Object) bool {
	dropped := false
	for _, v := range []*float64{&o.HForce, &o.VForce, &o.HSpeed, &o.VSpeed} {
		if !finite(*v) {
			*v = 0
			dropped = true
		}
	}
	if !finite(o.X) {
		o.X = 0
		dropped = true
	}
	if !finite(o.Y) {
		o.Y = safeY(o.LastY)
		dropped = true
	}
	if !finite(o.LastY) {
		o.LastY = o.Y
	}
	return dropped
}

// safeY is y when it lies inside the clamp range, otherwise 0.
func safeY(y float64) float64 {
	if !finite(y) || y < minY || y > maxY {
		return 0
	}
	return y
}

func (e *Engine) checkOscillation(o *Object) bool {
	prev, cur := o.LastY, o.Y
	snapped := false
	if math.Abs(cur-prev) > e.guard.Delta {
		o.strikes++
		if o.strikes >= e.guard.Strikes {
			mid := (prev + cur) / 2
			if math.Abs(mid) > e.guard.MidLimit {
				mid = 0
			}
			o.LimitY(mid)
			o.HSpeed = 0
			o.OnGround = true
			o.strikes = 0
			snapped = true
		}
	} else {
		o.strikes = 0
	}
	o.LastY = o.Y
	return snapped
}

// YBelow returns the spawn point one unit above the ground under p. Lookups
// outside the sane window fall back to p's own height.
func (e *Engine) YBelow(p Point) Point {
	ground, _ := e.tree.YBelow(p.X, p.Y)
	if ground < groundWindowTop || ground > groundWindowBottom {
		ground = p.Y
	}
	return Point{X: p.X, Y: ground - 1}
}

func moveNormal(o *Object) {
	o.HAcc, o.VAcc = 0, 0
	if o.OnGround {
		o.VAcc += o.VForce
		o.HAcc += o.HForce
		if o.HAcc == 0 && math.Abs(o.HSpeed) < restSpeed {
			o.HSpeed = 0
		} else {
			inertia := o.HSpeed / groundSlip
			slope := max(-0.5, min(0.5, o.FhSlope))
			o.HAcc -= (friction + slopeFactor*(1+slope*-inertia)) * inertia
		}
	} else if !o.HasFlag(NoGravity) {
		o.VAcc += gravForce
	}
	o.HForce, o.VForce = 0, 0
	o.HSpeed += o.HAcc
	o.VSpeed += o.VAcc
}

func moveFlying(o *Object) {
	integrateDrag(o, flyFriction, 0)
}

func moveSwimming(o *Object) {
	gravity := swimGravForce
	if o.HasFlag(NoGravity) {
		gravity = 0
	}
	integrateDrag(o, swimFriction, gravity)
}

// integrateDrag applies force minus speed-proportional drag on both axes. An
// axis with no applied force and near-zero speed comes to rest exactly.
func integrateDrag(o *Object, drag, gravity float64) {
	hforce := o.HForce
	vforce := o.VForce + gravity
	o.HForce, o.VForce = 0, 0

	if hforce == 0 && math.Abs(o.HSpeed) < restSpeed {
		o.HAcc = 0
		o.HSpeed = 0
	} else {
		o.HAcc = hforce - drag*o.HSpeed
		o.HSpeed += o.HAcc
	}
	if vforce == 0 && math.Abs(o.VSpeed) < restSpeed {
		o.VAcc = 0
		o.VSpeed = 0
	} else {
		o.VAcc = vforce - drag*o.VSpeed
		o.VSpeed += o.VAcc
	}
}

// NewGuard builds a guard from configured thresholds, keeping the defaults
// for values that are not positive.
func NewGuard(delta float64, strikes int, midLimit float64) Guard {
	g := DefaultGuard()
	if delta > 0 {
		g.Delta = delta
	}
	if strikes > 0 {
		g.Strikes = strikes
	}
	if midLimit > 0 {
		g.MidLimit = midLimit
	}
	return g
}
