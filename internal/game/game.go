// Package game wires the window, input, audio and renderer to the arena
// and runs the frame loop.
package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/rockblast/internal/assets"
	"github.com/Faultbox/rockblast/internal/config"
	"github.com/Faultbox/rockblast/internal/engine/audio"
	"github.com/Faultbox/rockblast/internal/engine/input"
	"github.com/Faultbox/rockblast/internal/engine/primitive"
	"github.com/Faultbox/rockblast/internal/engine/renderer"
	"github.com/Faultbox/rockblast/internal/engine/shape"
	"github.com/Faultbox/rockblast/internal/engine/window"
	"github.com/Faultbox/rockblast/internal/game/arena"
	"github.com/Faultbox/rockblast/internal/logger"
	"github.com/Faultbox/rockblast/pkg/math"
)

// Title is the window title prefix.
const Title = "Rock Blast"

// rockSubdivisions gives the rock sphere 1280 triangles.
const rockSubdivisions = 3

// Game is the main game instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Player
	assets   *assets.Manager
	arena    *arena.Controller
	bindings arena.Bindings
	startKey string
	reloads  chan *config.Config

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// New creates the window and every subsystem, starts asset loading in the
// background and returns without waiting for it. The game then owns the
// frame loop through Run.
func New(cfg *config.Config) (*Game, error) {
	g, err := newGame(cfg)
	if err != nil {
		return nil, err
	}

	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	w, h := g.window.DrawableSize()
	if err := g.start(w, h); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// NewHeadless creates the game without a window. The caller owns the GL
// context and drives frames through Press and Step.
func NewHeadless(cfg *config.Config, width, height int) (*Game, error) {
	g, err := newGame(cfg)
	if err != nil {
		return nil, err
	}
	if err := g.start(width, height); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func newGame(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("ui", cfg.Graphics.UI),
		zap.String("assets", cfg.Assets.Root),
	)

	bindings, err := arena.NewBindings(cfg.Game.Bindings)
	if err != nil {
		return nil, fmt.Errorf("key bindings: %w", err)
	}

	mgr, err := assets.NewManager(cfg.Assets.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open assets: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Game{
		config:   cfg,
		input:    input.New(),
		assets:   mgr,
		bindings: bindings,
		startKey: strings.ToUpper(bindings.KeyFor(arena.ActionStartGame)),
		reloads:  make(chan *config.Config, 1),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}, nil
}

// start brings up the renderer, audio and arena on the current GL context.
func (g *Game) start(width, height int) error {
	cfg := g.config

	var err error
	g.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: math.ColorSky,
		Shapes:     arena.ShapeCount,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	g.bindShapes()

	g.audio = audio.New(audio.Config{
		ThemeVolume:  cfg.Audio.ThemeVolume,
		EffectVolume: cfg.Audio.EffectVolume,
		Muted:        cfg.Audio.Muted,
	})
	if err := g.audio.Init(); err != nil {
		// Play on silently.
		g.log.Warn("audio unavailable", zap.Error(err))
	}
	go g.loadAudio()

	g.arena = arena.New(arena.Config{
		InitialRocks: cfg.Game.InitialRocks,
		MinRocks:     cfg.Game.MinRocks,
		ScoreRate:    cfg.Game.ScoreRate,
		BulletSpeed:  cfg.Game.BulletSpeed,
	}, arena.WithRand(newRand(cfg.Game.Seed)), arena.WithAudio(g.audio), arena.WithLogger(g.log.Named("arena")))

	if cfg.Path != "" {
		go g.watchConfig(cfg.Path)
	}

	g.log.Info("game initialized successfully")
	return nil
}

// bindShapes gives every arena shape a renderer slot. Procedural shapes
// are ready at once; the OBJ meshes pop in when their loads finish.
func (g *Game) bindShapes() {
	a := g.config.Assets
	g.renderer.SetShape(int(arena.ShapeBox), shape.FromMesh("box", primitive.Box()))
	g.renderer.SetShape(int(arena.ShapeRock), shape.FromMesh("rock", primitive.Sphere(rockSubdivisions)))
	g.renderer.SetShape(int(arena.ShapeCannon), shape.Load(g.ctx, g.assets, a.Cannon))
	g.renderer.SetShape(int(arena.ShapeWheel), shape.Load(g.ctx, g.assets, a.Wheel))
	g.renderer.SetShape(int(arena.ShapeBullet), shape.Load(g.ctx, g.assets, a.Bullet))
}

// loadAudio fetches and decodes both clips concurrently. A missing clip
// only costs its sound.
func (g *Game) loadAudio() {
	load := func(name string, set func(string, []byte) error) func() error {
		return func() error {
			data, err := g.assets.Load(g.ctx, name)
			if err != nil {
				return err
			}
			return set(name, data)
		}
	}

	var eg errgroup.Group
	eg.Go(load(g.config.Audio.Theme, g.audio.LoadTheme))
	eg.Go(load(g.config.Audio.Effect, g.audio.LoadEffect))
	if err := eg.Wait(); err != nil {
		g.log.Warn("audio assets incomplete", zap.Error(err))
		return
	}
	g.log.Debug("audio assets loaded")
}

// watchConfig forwards config file edits to the frame loop, keeping only
// the newest when the loop has not caught up.
func (g *Game) watchConfig(path string) {
	err := config.Watch(g.ctx, path, func(cfg *config.Config) {
		for {
			select {
			case g.reloads <- cfg:
				return
			default:
			}
			select {
			case <-g.reloads:
			default:
			}
		}
	})
	if err != nil {
		g.log.Warn("config hot reload disabled", zap.Error(err))
	}
}

// applyConfig takes the settings that can change mid-game: key bindings
// and audio levels.
func (g *Game) applyConfig(cfg *config.Config) {
	bindings, err := arena.NewBindings(cfg.Game.Bindings)
	if err != nil {
		g.log.Warn("keeping previous key bindings", zap.Error(err))
	} else {
		g.bindings = bindings
		g.startKey = strings.ToUpper(bindings.KeyFor(arena.ActionStartGame))
	}
	g.audio.SetVolumes(cfg.Audio.ThemeVolume, cfg.Audio.EffectVolume)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Run starts the main game loop on the game's own window.
func (g *Game) Run() error {
	if g.window == nil {
		return fmt.Errorf("game has no window")
	}
	g.running = true

	limiter := newFrameLimiter(g.config.Graphics.FPSLimit)
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for g.running {
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents(g.input.Events())
		for _, key := range g.input.Pressed() {
			g.Press(key)
		}

		g.Step()
		g.window.SetTitle(g.Title())
		g.window.SwapBuffers()

		if d := limiter.wait(time.Now()); d > 0 {
			time.Sleep(d)
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("rocks", len(g.arena.Rocks())),
				zap.Int("bullets", len(g.arena.Bullets())))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	g.LogStats()
	return nil
}

func (g *Game) handleEvents(events []input.Event) {
	for _, event := range events {
		if event.Type == input.EventWindowResize {
			g.Resize(g.window.DrawableSize())
		}
	}
}

// Press handles a key pressed this frame and returns the action it
// triggered.
func (g *Game) Press(key string) arena.Action {
	return dispatch(g.arena, g.bindings, key)
}

// Step advances one frame: pending config reloads, the arena tick and the
// scene draw into whatever framebuffer is bound.
func (g *Game) Step() {
	select {
	case cfg := <-g.reloads:
		g.applyConfig(cfg)
	default:
	}

	g.arena.Update()
	g.render()
}

// Resize follows a change of the drawable size.
func (g *Game) Resize(width, height int) {
	g.renderer.Resize(width, height)
}

// Title returns the HUD text for the window title.
func (g *Game) Title() string {
	return HUD(g.arena.Phase(), g.arena.Score(), g.arena.HighScore(), g.startKey)
}

// Overlay returns the text panels for the current frame.
func (g *Game) Overlay() arena.Overlay {
	return g.arena.Overlay(g.startKey)
}

// Bindings returns the active key bindings.
func (g *Game) Bindings() arena.Bindings {
	return g.bindings
}

// LogStats logs the session totals.
func (g *Game) LogStats() {
	stats := g.arena.Stats()
	g.log.Info("game loop stopped",
		zap.Int("high_score", g.arena.HighScore()),
		zap.Int("rounds", stats.Rounds),
		zap.Int("bullets_fired", stats.BulletsFired),
		zap.Int("bounces", stats.Bounces))
}

// dispatch sends the action bound to key, if any, to the controller.
func dispatch(c *arena.Controller, b arena.Bindings, key string) arena.Action {
	a := b.Lookup(key)
	if a != arena.ActionNone {
		c.Handle(a)
	}
	return a
}

func (g *Game) render() {
	g.renderer.Begin()
	g.arena.Draw(sceneRenderer{g.renderer})
	g.renderer.End()
}

// sceneRenderer maps arena shape IDs onto renderer slots.
type sceneRenderer struct {
	r *renderer.Renderer
}

func (s sceneRenderer) DrawShape(id arena.ShapeID, model math.Mat4, color math.Color) {
	s.r.Draw(int(id), model, color)
}

// HUD formats the window title for the current state. startKey is the
// key that starts a round; the hint is left out when it is empty.
func HUD(phase arena.Phase, score, highScore int, startKey string) string {
	if phase == arena.PhaseGameOver && startKey != "" {
		return fmt.Sprintf("%s | Press %s to start | Your Score: %d | Your High Score: %d", Title, startKey, score, highScore)
	}
	return fmt.Sprintf("%s | Your Score: %d | Your High Score: %d", Title, score, highScore)
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.cancel != nil {
		g.cancel()
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
}
