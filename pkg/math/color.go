package math

// Color represents an RGBA color with float components. Components above 1
// are allowed; the renderer clamps them.
type Color struct {
	R, G, B, A float32
}

// Scene colors.
var (
	ColorWhite   = Color{1, 1, 1, 1}
	ColorSky     = Color{0, 1, 1, 1}
	ColorPlastic = Color{0.54, 0.27, 0.074, 1}
	ColorMetal   = Color{0.5, 0.5, 0.5, 1}
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// Clamped returns the color with every component limited to [0, 1].
func (c Color) Clamped() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
