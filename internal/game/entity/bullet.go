package entity

import (
	"github.com/Faultbox/rockblast/pkg/math"
)

// Bullet tuning.
const (
	BulletScale  = 0.3
	BulletStartY = 14   // launch height in the bullet's scaled frame
	BulletMaxY   = 18   // world height past which a bullet is gone
	BulletBlend  = 0.05 // per-frame easing toward the next pose
)

// Bullet is a projectile fired straight up from the cannon.
type Bullet struct {
	transform math.Mat4
	yVel      float32
	dead      bool
}

// NewBullet creates a bullet at world x travelling up at yVel.
//
// The bullet is modelled in a frame squashed to 0.3 x 0.2, so its world
// height starts at 0.2*BulletStartY and every frame moves it by
// BulletBlend*0.2*yVel.
func NewBullet(x, yVel float32) *Bullet {
	return &Bullet{
		transform: math.Scale(BulletScale, BulletScale-0.1, BulletScale).
			Mul(math.Translate(x/BulletScale, BulletStartY, 0)),
		yVel: yVel,
	}
}

// Update advances the bullet one frame and reports whether to keep it.
func (b *Bullet) Update() Status {
	target := b.transform.Mul(math.Translate(0, b.yVel, 0))
	b.transform = b.transform.Mix(target, BulletBlend)

	if b.Y() > BulletMaxY {
		b.dead = true
	}
	if b.dead {
		return StatusRemove
	}
	return StatusKeep
}

// MarkDead flags the bullet for removal on its next Update.
func (b *Bullet) MarkDead() {
	b.dead = true
}

// Dead reports whether the bullet has been flagged for removal.
func (b *Bullet) Dead() bool {
	return b.dead
}

// X returns the world x position.
func (b *Bullet) X() float32 {
	return b.transform.Translation().X
}

// Y returns the world y position.
func (b *Bullet) Y() float32 {
	return b.transform.Translation().Y
}

// Transform returns the model matrix.
func (b *Bullet) Transform() math.Mat4 {
	return b.transform
}
