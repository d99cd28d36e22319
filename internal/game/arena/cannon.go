package arena

import "github.com/Faultbox/rockblast/pkg/math"

// Cannon tuning.
const (
	CannonLimit  = 6   // |x| the cannon may not move beyond
	CannonBlend  = 0.1 // per-frame easing toward the next pose
	CannonRadius = 0.7 // half-width used for rock collisions
	CannonHeight = 2   // rocks whose bottom is lower than this can hit it
	ShotOffset   = 0.1 // muzzle lead in the direction of travel
)

// Direction is the cannon's current drive state.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
)

// Cannon is the player's turret and its two wheels.
type Cannon struct {
	transform math.Mat4
	wheels    [2]math.Mat4
	dir       Direction
}

// NewCannon places the cannon at the centre of the floor.
func NewCannon() *Cannon {
	wheel := math.Scale(0.5, 0.5, 0.5).Mul(math.Translate(0, 1.5, 2))
	return &Cannon{
		transform: math.Translate(0, 1.5, 0),
		wheels:    [2]math.Mat4{wheel, wheel.Mul(math.Translate(0, 0, -4))},
	}
}

// ToggleLeft starts driving left, or stops if already driving left.
func (c *Cannon) ToggleLeft() {
	c.toggle(DirLeft)
}

// ToggleRight starts driving right, or stops if already driving right.
func (c *Cannon) ToggleRight() {
	c.toggle(DirRight)
}

func (c *Cannon) toggle(d Direction) {
	if c.dir == d {
		c.dir = DirNone
		return
	}
	c.dir = d
}

// Stop clears the drive state.
func (c *Cannon) Stop() {
	c.dir = DirNone
}

// Step eases the cannon one frame in its drive direction. Reaching the
// edge of the play area stops it.
func (c *Cannon) Step() {
	switch c.dir {
	case DirLeft:
		if c.X() > -CannonLimit {
			c.move(-1)
		} else {
			c.dir = DirNone
		}
	case DirRight:
		if c.X() < CannonLimit {
			c.move(1)
		} else {
			c.dir = DirNone
		}
	}
}

func (c *Cannon) move(dx float32) {
	c.transform = c.transform.Mix(c.transform.Mul(math.Translate(dx, 0, 0)), CannonBlend)
	// Wheels live in a half-scale frame.
	for i, w := range c.wheels {
		c.wheels[i] = w.Mix(w.Mul(math.Translate(2*dx, 0, 0)), CannonBlend)
	}
}

// Offset returns the horizontal muzzle lead for a shot fired now.
func (c *Cannon) Offset() float32 {
	switch c.dir {
	case DirLeft:
		return -ShotOffset
	case DirRight:
		return ShotOffset
	}
	return 0
}

// Direction returns the current drive state.
func (c *Cannon) Direction() Direction {
	return c.dir
}

// X returns the world x position.
func (c *Cannon) X() float32 {
	return c.transform.Translation().X
}

// Transform returns the cannon's model matrix.
func (c *Cannon) Transform() math.Mat4 {
	return c.transform
}

// Wheels returns the model matrices of both wheels.
func (c *Cannon) Wheels() [2]math.Mat4 {
	return c.wheels
}
