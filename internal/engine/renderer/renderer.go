// Package renderer draws shapes with a single Phong program over a fixed
// camera. Shapes are uploaded to the GPU the first time they are drawn
// after their mesh becomes ready.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/rockblast/internal/engine/shader"
	"github.com/Faultbox/rockblast/internal/engine/shape"
	"github.com/Faultbox/rockblast/internal/logger"
	"github.com/Faultbox/rockblast/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background math.Color
	Shapes     int // slots reserved up front
}

type slot struct {
	shape *shape.Shape
	gpu   *gpuMesh
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	program *shader.Program
	slots   []slot

	view      math.Mat4
	proj      math.Mat4
	cameraPos math.Vec3

	log *zap.Logger
}

// New creates a renderer. The OpenGL context must already be current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		slots:  make([]slot, max(cfg.Shapes, 0)),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)

	var err error
	r.program, err = shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.view = ViewMatrix()
	r.cameraPos = CameraPosition(r.view)
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// SetShape binds a shape to a slot. Binding replaces any earlier shape and
// drops its GPU copy.
func (r *Renderer) SetShape(id int, s *shape.Shape) {
	if id < 0 {
		return
	}
	if id >= len(r.slots) {
		r.slots = append(r.slots, make([]slot, id+1-len(r.slots))...)
	}
	if old := r.slots[id].gpu; old != nil {
		old.delete()
	}
	r.slots[id] = slot{shape: s}
}

// Resize updates the viewport and projection.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.proj = ProjectionMatrix(width, height)
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the frame and sets the per-frame uniforms. Viewport, clear
// colour and depth test are set again each frame since an overlay pass
// may have changed them.
func (r *Renderer) Begin() {
	bg := r.config.Background
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uView"), 1, false, r.view.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uProj"), 1, false, r.proj.Ptr())
	gl.Uniform3f(p.Uniform("uLightPos"), lightPosition.X, lightPosition.Y, lightPosition.Z)
	gl.Uniform3f(p.Uniform("uLightColor"), lightColor.X, lightColor.Y, lightColor.Z)
	gl.Uniform1f(p.Uniform("uLightSize"), lightSize)
	gl.Uniform3f(p.Uniform("uCameraPos"), r.cameraPos.X, r.cameraPos.Y, r.cameraPos.Z)
	gl.Uniform1f(p.Uniform("uAmbient"), ambient)
	gl.Uniform1f(p.Uniform("uDiffuse"), diffuse)
	gl.Uniform1f(p.Uniform("uSpecular"), specular)
	gl.Uniform1f(p.Uniform("uSmoothness"), smoothness)
}

// Draw renders the shape in slot id. Empty slots and shapes that are still
// loading (or failed to load) are skipped.
func (r *Renderer) Draw(id int, model math.Mat4, color math.Color) {
	if id < 0 || id >= len(r.slots) {
		return
	}
	s := &r.slots[id]
	if s.shape == nil || !s.shape.Ready() {
		return
	}
	if s.gpu == nil {
		s.gpu = upload(s.shape.Mesh())
		r.log.Debug("shape uploaded",
			zap.String("shape", s.shape.Name()),
			zap.Int32("indices", s.gpu.indexCount))
	}

	p := r.program
	normal := model.NormalMatrix()
	c := color.Clamped()
	gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, model.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uNormalMatrix"), 1, false, normal.Ptr())
	gl.Uniform4f(p.Uniform("uColor"), c.R, c.G, c.B, c.A)
	s.gpu.draw()
}

// End finishes the frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for i := range r.slots {
		if g := r.slots[i].gpu; g != nil {
			g.delete()
			r.slots[i].gpu = nil
		}
	}
	if r.program != nil {
		r.program.Delete()
	}
}
