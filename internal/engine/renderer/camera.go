package renderer

import (
	stdmath "math"

	"github.com/Faultbox/rockblast/pkg/math"
)

// Fixed camera: back 20, up 7, pitched down by pi/20.
const (
	fovY      = stdmath.Pi / 4
	nearPlane = 1
	farPlane  = 100
)

// Scene lighting.
var (
	lightPosition = math.Vec3{X: 10, Y: 10, Z: 10}
	lightColor    = math.Vec3{X: 1, Y: 1, Z: 1}
)

const (
	lightSize  = 1000
	ambient    = 0.4
	diffuse    = 0.6
	specular   = 0.5
	smoothness = 40
)

// ViewMatrix returns the world-to-camera transform.
func ViewMatrix() math.Mat4 {
	return math.Translate(0, -7, -20).Mul(math.RotateX(-stdmath.Pi / 20))
}

// ProjectionMatrix returns the perspective projection for a viewport.
// Degenerate sizes are treated as square.
func ProjectionMatrix(width, height int) math.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(fovY, aspect, nearPlane, farPlane)
}

// CameraPosition returns the eye position in world space.
func CameraPosition(view math.Mat4) math.Vec3 {
	return view.Inverse().Translation()
}
