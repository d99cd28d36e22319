package entity

import (
	"math/rand/v2"

	"github.com/Faultbox/rockblast/pkg/math"
)

// Rock physics and play-area constants.
const (
	Gravity        = -0.2
	TimeStep       = 0.0016
	BounceTime     = 1 // clock value after a floor/ceiling bounce
	BreakingFactor = 1 // rocks at least this big split instead of vanishing
	RockBlend      = 0.5

	AreaLeft   = -6
	AreaRight  = 6
	AreaBottom = 1
	AreaTop    = 18
)

// Child rock parameters for a split.
const (
	childScaleBonusA = 0.3
	childScaleBonusB = 0.2
	childXVel        = 0.1
	childYInitA      = 0.4
	childYInitB      = 0.5
)

// Rock is a bouncing obstacle. Its scale doubles as its collision radius.
type Rock struct {
	transform math.Mat4
	scale     float32
	color     math.Color

	xVel  float32
	yVel  float32
	yInit float32
	t     float32 // clock for the current arc
	dead  bool

	rng *rand.Rand
}

// NewRock creates a rock centred at world (x, y). xVel is the per-frame
// horizontal drift and yInit the initial vertical speed of the first arc.
// rng drives the colour and the wall-bounce jitter.
func NewRock(x, y, scale, xVel, yInit float32, rng *rand.Rand) *Rock {
	return &Rock{
		transform: math.Translate(x, y, 0).Mul(math.Scale(scale, scale, scale)),
		scale:     scale,
		color: math.Color{
			R: rng.Float32() * 1.3,
			G: rng.Float32() * 1.2,
			B: rng.Float32() * 1.2,
			A: 1,
		},
		xVel:  xVel,
		yInit: yInit,
		t:     BounceTime,
		rng:   rng,
	}
}

// Update advances the rock one frame.
//
// A dead rock reports StatusSplit or StatusVanish depending on its size and
// does not move. A live rock reports StatusBounced when it hit the play-area
// edge this frame, StatusAlive otherwise.
func (r *Rock) Update() Status {
	if r.dead {
		if r.scale >= BreakingFactor {
			return StatusSplit
		}
		return StatusVanish
	}

	r.t += TimeStep
	// Gravity is damped by 100 in the velocity term only; the arc below
	// uses it undamped. Gameplay is tuned around this mismatch.
	r.yVel = r.yInit + Gravity*(r.t/100)

	bounced := r.checkBoundaries()

	dy := r.yInit*r.t + 0.5*Gravity*r.t*r.t
	target := r.transform.Mul(math.Translate(r.xVel, dy, 0))
	r.transform = r.transform.Mix(target, RockBlend)

	if bounced {
		return StatusBounced
	}
	return StatusAlive
}

// checkBoundaries clamps the rock into the play area. A floor or ceiling hit
// reflects the vertical speed and restarts the arc clock; otherwise a wall
// hit reverses the horizontal drift with a little random extra speed.
func (r *Rock) checkBoundaries() bool {
	correction := 1 - r.scale
	pos := r.transform.Translation()

	bottom, top := AreaBottom+correction, AreaTop+correction
	if pos.Y > top || pos.Y < bottom {
		r.transform.SetTranslation(1, min(max(pos.Y, bottom), top))
		r.yInit = -r.yVel
		r.t = BounceTime
		return true
	}

	left, right := AreaLeft+correction, AreaRight+correction
	if pos.X < left || pos.X > right {
		r.transform.SetTranslation(0, min(max(pos.X, left), right))
		r.xVel += r.rng.Float32() / 20
		r.xVel = -r.xVel
		return true
	}
	return false
}

// CheckBulletCollision tests a bullet position against the rock's square
// footprint and marks the rock dead on a hit. The bullet is left alone.
func (r *Rock) CheckBulletCollision(bx, by float32) bool {
	x, y, rad := r.X(), r.Y(), r.scale
	if bx < x+rad && bx > x-rad && by < y+rad && by > y-rad {
		r.MarkDead()
		return true
	}
	return false
}

// CheckCannonCollision reports whether the rock's bottom is below height
// while its horizontal extent overlaps [cannonX-radius, cannonX+radius].
func (r *Rock) CheckCannonCollision(cannonX, radius, height float32) bool {
	x, y, rad := r.X(), r.Y(), r.scale
	if height <= y-rad {
		return false
	}
	return x-rad < cannonX+radius && x+rad > cannonX-radius
}

// Split returns the two children a dead rock breaks into. They start at
// the parent's position, slightly more than half its size, and drift apart.
func (r *Rock) Split() [2]*Rock {
	x, y, half := r.X(), r.Y(), r.scale/2
	return [2]*Rock{
		NewRock(x, y, half+childScaleBonusA, -childXVel, childYInitA, r.rng),
		NewRock(x, y, half+childScaleBonusB, childXVel, childYInitB, r.rng),
	}
}

// MarkDead flags the rock; its next Update reports how it should go.
func (r *Rock) MarkDead() {
	r.dead = true
}

// Dead reports whether the rock has been hit.
func (r *Rock) Dead() bool {
	return r.dead
}

// X returns the world x position.
func (r *Rock) X() float32 {
	return r.transform.Translation().X
}

// Y returns the world y position.
func (r *Rock) Y() float32 {
	return r.transform.Translation().Y
}

// Scale returns the rock's size, which is also its collision radius.
func (r *Rock) Scale() float32 {
	return r.scale
}

// XVel returns the horizontal drift per frame.
func (r *Rock) XVel() float32 {
	return r.xVel
}

// YInit returns the initial vertical speed of the current arc.
func (r *Rock) YInit() float32 {
	return r.yInit
}

// Color returns the rock's tint.
func (r *Rock) Color() math.Color {
	return r.color
}

// Transform returns the model matrix.
func (r *Rock) Transform() math.Mat4 {
	return r.transform
}
