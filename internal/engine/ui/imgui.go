// Package ui wraps the Dear ImGui SDL backend that owns the window and GL
// context in the overlay frontend.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/rockblast/pkg/math"
)

// Backend wraps the ImGui SDL backend for game use.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	title   string
}

// NewBackend creates the window, the GL context and the ImGui context.
// bg is the colour behind every frame.
func NewBackend(title string, width, height int, bg math.Color) (*Backend, error) {
	b := &Backend{title: title}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(bg.R, bg.G, bg.B, bg.A))
	b.backend.CreateWindow(title, width, height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	return b, nil
}

// Run starts the render loop and returns once the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title when it changed.
func (b *Backend) SetWindowTitle(title string) {
	if title == b.title {
		return
	}
	b.title = title
	b.backend.SetWindowTitle(title)
}

// SetTargetFPS caps the frame rate; zero leaves it uncapped.
func (b *Backend) SetTargetFPS(fps int) {
	if fps > 0 {
		b.backend.SetTargetFPS(uint(fps))
	}
}

// Close asks the render loop to stop after the current frame.
func (b *Backend) Close() {
	b.backend.SetShouldClose(true)
}

// GetViewport returns the main viewport work area in window coordinates.
func (b *Backend) GetViewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// FramebufferScale returns pixels per window unit, which differs from one
// on HiDPI displays.
func (b *Backend) FramebufferScale() (x, y float32) {
	scale := imgui.CurrentIO().DisplayFramebufferScale()
	if scale.X <= 0 || scale.Y <= 0 {
		return 1, 1
	}
	return scale.X, scale.Y
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
