package physics

// Type selects the force model applied to an object each tick.
type Type int

const (
	Normal Type = iota
	Swimming
	Flying
	Fixated
)

func (t Type) String() string {
	switch t {
	case Normal:
		return "normal"
	case Swimming:
		return "swimming"
	case Flying:
		return "flying"
	case Fixated:
		return "fixated"
	default:
		return "unknown"
	}
}

// Flag is a bit set of per-object movement modifiers.
type Flag uint8

const (
	NoGravity   Flag = 1 << iota // never accumulate gravity
	TurnAtEdges                  // treat segment ends as walls until the next collision
	CheckBelow                   // recompute jump-down info on the next foothold update
)

// Point is a position in map coordinates. Y grows downwards.
type Point struct {
	X, Y float64
}

// Object is the kinematic record of any simulated entity.
type Object struct {
	Type  Type
	Flags Flag

	X, Y           float64
	HSpeed, VSpeed float64
	HForce, VForce float64 // consumed and reset every tick
	HAcc, VAcc     float64

	FhID        uint16
	FhSlope     float64
	FhLayer     uint8
	GroundBelow float64
	OnGround    bool
	EnableJD    bool

	// oscillation history
	LastY   float64
	strikes int
	tracked bool
}

func (o *Object) HasFlag(f Flag) bool { return o.Flags&f != 0 }
func (o *Object) SetFlag(f Flag)      { o.Flags |= f }
func (o *Object) ClearFlag(f Flag)    { o.Flags &^= f }

func (o *Object) NextX() float64 { return o.X + o.HSpeed }
func (o *Object) NextY() float64 { return o.Y + o.VSpeed }

func (o *Object) HMobile() bool { return o.HSpeed != 0 }
func (o *Object) VMobile() bool { return o.VSpeed != 0 }

func (o *Object) Position() Point { return Point{X: o.X, Y: o.Y} }

// Move applies one explicit Euler step.
func (o *Object) Move() {
	o.X += o.HSpeed
	o.Y += o.VSpeed
}

// LimitX pins the horizontal position and stops horizontal motion.
func (o *Object) LimitX(x float64) {
	o.X = x
	o.HSpeed = 0
}

// LimitY pins the vertical position and stops vertical motion.
func (o *Object) LimitY(y float64) {
	o.Y = y
	o.VSpeed = 0
}

// SetPosition teleports the object and forgets its oscillation history.
func (o *Object) SetPosition(p Point) {
	o.X, o.Y = p.X, p.Y
	o.tracked = false
	o.strikes = 0
}
