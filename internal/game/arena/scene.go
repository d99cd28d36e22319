package arena

import (
	"fmt"

	"github.com/Faultbox/rockblast/pkg/math"
)

// ShapeID names a mesh the renderer knows how to draw.
type ShapeID int

const (
	ShapeBox ShapeID = iota
	ShapeRock
	ShapeCannon
	ShapeWheel
	ShapeBullet
	shapeCount
)

// ShapeCount is the number of distinct shapes.
const ShapeCount = int(shapeCount)

func (s ShapeID) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeRock:
		return "rock"
	case ShapeCannon:
		return "cannon"
	case ShapeWheel:
		return "wheel"
	case ShapeBullet:
		return "bullet"
	default:
		return fmt.Sprintf("ShapeID(%d)", int(s))
	}
}

// Renderer draws a shape with a model matrix and a colour override.
// Implementations must skip shapes whose mesh is not ready yet.
type Renderer interface {
	DrawShape(id ShapeID, model math.Mat4, color math.Color)
}

var (
	groundTransform    = math.Scale(60, 0.001, 60)
	groundTopTransform = groundTransform.Mul(math.Translate(0, 10, 0))
	skyTransform       = math.Translate(0, 0, -30).Mul(math.Scale(60, 40, 0.001))
)

// Draw issues draw calls for the current frame.
func (c *Controller) Draw(r Renderer) {
	r.DrawShape(ShapeBox, groundTransform, math.ColorWhite)
	r.DrawShape(ShapeBox, groundTopTransform, math.ColorWhite)
	r.DrawShape(ShapeBox, skyTransform, math.ColorSky)

	switch c.phase {
	case PhasePlaying:
		r.DrawShape(ShapeCannon, c.cannon.Transform(), math.ColorMetal)
		for _, w := range c.cannon.Wheels() {
			r.DrawShape(ShapeWheel, w, math.ColorPlastic)
		}
		for _, b := range c.bullets {
			if b.Dead() {
				continue
			}
			r.DrawShape(ShapeBullet, b.Transform(), math.ColorWhite)
		}
		c.drawRocks(r)
	case PhaseGameOver:
		c.drawRocks(r)
	}
}

func (c *Controller) drawRocks(r Renderer) {
	for _, rock := range c.rocks {
		r.DrawShape(ShapeRock, rock.Transform(), rock.Color())
	}
}
