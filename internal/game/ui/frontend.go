package ui

import (
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/Faultbox/rockblast/internal/config"
	"github.com/Faultbox/rockblast/internal/engine/framebuffer"
	engineui "github.com/Faultbox/rockblast/internal/engine/ui"
	"github.com/Faultbox/rockblast/internal/game"
	"github.com/Faultbox/rockblast/internal/logger"
	"github.com/Faultbox/rockblast/pkg/math"
)

// ErrUnavailable reports that the ImGui window could not be created. No
// window is left open, so another frontend can take over.
var ErrUnavailable = errors.New("imgui frontend unavailable")

// Frontend runs the game inside an ImGui window. The scene renders into an
// offscreen framebuffer each frame and is shown under the text panels.
type Frontend struct {
	backend *engineui.Backend
	game    *game.Game
	scene   *framebuffer.Framebuffer
	keys    []boundKey
	log     *zap.Logger
}

// NewFrontend creates the ImGui window and the game on its GL context.
func NewFrontend(cfg *config.Config) (*Frontend, error) {
	f := &Frontend{log: logger.Named("ui")}

	var err error
	f.backend, err = engineui.NewBackend(game.Title, cfg.Graphics.Width, cfg.Graphics.Height, math.ColorSky)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	f.backend.SetTargetFPS(cfg.Graphics.FPSLimit)

	f.scene, err = framebuffer.New(cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return nil, fmt.Errorf("scene framebuffer: %w", err)
	}

	w, h := f.scene.Size()
	f.game, err = game.NewHeadless(cfg, w, h)
	if err != nil {
		f.scene.Destroy()
		return nil, err
	}
	f.watchBindings()
	return f, nil
}

// watchBindings refreshes the polled keys from the game's bindings.
func (f *Frontend) watchBindings() {
	var skipped []string
	f.keys, skipped = watchedKeys(f.game.Bindings())
	if len(skipped) > 0 {
		f.log.Warn("bindings have no imgui key", zap.Strings("keys", skipped))
	}
}

// Run drives frames until the window closes.
func (f *Frontend) Run() error {
	f.log.Info("starting imgui frame loop")
	f.backend.Run(f.frame)
	f.game.LogStats()
	return nil
}

func (f *Frontend) frame() {
	x, y, w, h := f.backend.GetViewport()
	sx, sy := f.backend.FramebufferScale()
	if f.scene.Resize(int(w*sx), int(h*sy)) {
		f.game.Resize(f.scene.Size())
	}

	if engineui.IsKeyPressed(escapeKey) {
		f.backend.Close()
	}
	bindings := f.game.Bindings()
	for _, k := range f.keys {
		if engineui.IsKeyPressed(k.key) {
			f.game.Press(k.name)
		}
	}

	restore := f.scene.BindWithViewport()
	f.game.Step()
	restore()

	// A config reload may have swapped the bindings during Step.
	if !maps.Equal(f.game.Bindings(), bindings) {
		f.watchBindings()
	}

	DrawScene(f.scene.ColorTexture(), x, y, w, h)
	RenderOverlay(f.game.Overlay(), x, y, w, h)
	f.backend.SetWindowTitle(f.game.Title())
}

// Close releases the game and the scene framebuffer.
func (f *Frontend) Close() {
	if f.game != nil {
		f.game.Close()
	}
	if f.scene != nil {
		f.scene.Destroy()
	}
}
