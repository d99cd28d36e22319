// Package arena implements the Rock Blast game controller: the phase
// machine, the cannon, and the bullet and rock collections it advances
// every frame.
package arena

import (
	stdmath "math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/rockblast/internal/game/entity"
	"github.com/Faultbox/rockblast/internal/logger"
)

// Spawn parameters.
const (
	spawnHeight  = 13
	spawnXVel    = 0.1
	spawnYInit   = -0.3
	shotClearY   = 5 // newest bullet must be above this before the next shot
	spawnColumns = 10
)

// Config holds the gameplay tuning the controller needs.
type Config struct {
	InitialRocks int
	MinRocks     int
	ScoreRate    float64
	BulletSpeed  float32
}

// DefaultConfig returns the classic tuning.
func DefaultConfig() Config {
	return Config{
		InitialRocks: 2,
		MinRocks:     1,
		ScoreRate:    0.06,
		BulletSpeed:  25,
	}
}

// Audio is the sound collaborator. All methods must be cheap and
// non-blocking; they are called from the frame loop.
type Audio interface {
	StartTheme()
	ToggleMute()
	PlayEffect()
}

type nopAudio struct{}

func (nopAudio) StartTheme() {}
func (nopAudio) ToggleMute() {}
func (nopAudio) PlayEffect() {}

// Stats counts what happened across all rounds.
type Stats struct {
	Rounds         int
	BulletsFired   int
	RocksSplit     int
	RocksDestroyed int
	Bounces        int
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source for spawns, colours and bounce jitter.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = rng
	}
}

// WithLogger replaces the controller's logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAudio sets the sound collaborator.
func WithAudio(a Audio) Option {
	return func(c *Controller) {
		if a != nil {
			c.audio = a
		}
	}
}

// Controller owns the game state. It is not safe for concurrent use; the
// frame loop drives it from a single goroutine.
type Controller struct {
	cfg   Config
	rng   *rand.Rand
	audio Audio
	log   *zap.Logger

	phase        Phase
	score        float64
	highScore    int
	themeStarted bool
	stats        Stats

	cannon  *Cannon
	bullets []*entity.Bullet
	rocks   []*entity.Rock
}

// New creates a controller on the title screen with rocks already bouncing.
func New(cfg Config, opts ...Option) *Controller {
	cfg.MinRocks = max(cfg.MinRocks, 1)
	cfg.InitialRocks = max(cfg.InitialRocks, cfg.MinRocks)

	c := &Controller{
		cfg:   cfg,
		audio: nopAudio{},
		log:   logger.Named("arena"),
		phase: PhaseGameOver,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	c.reset()
	return c
}

// reset rebuilds the round: fresh cannon, InitialRocks rocks, no bullets,
// zero score.
func (c *Controller) reset() {
	c.cannon = NewCannon()
	c.bullets = nil
	c.rocks = make([]*entity.Rock, 0, c.cfg.InitialRocks)
	for range c.cfg.InitialRocks {
		c.CreateRock()
	}
	c.score = 0
}

// Update advances the game by one frame.
func (c *Controller) Update() {
	switch c.phase {
	case PhasePlaying:
		c.cannon.Step()
		c.score += c.cfg.ScoreRate
		c.updateBullets()
		c.updateRocks()
	case PhaseGameOver:
		c.bullets = nil
		c.updateRocks()
	case PhaseRestartPending:
		c.restart()
	}
}

// Handle applies a player action.
func (c *Controller) Handle(a Action) {
	switch a {
	case ActionMoveLeft:
		c.cannon.ToggleLeft()
	case ActionMoveRight:
		c.cannon.ToggleRight()
	case ActionStop:
		c.cannon.Stop()
	case ActionShoot:
		if c.phase == PhasePlaying {
			c.ShootBullet()
		}
	case ActionStartGame:
		if !c.themeStarted {
			c.audio.StartTheme()
			c.themeStarted = true
		}
		c.requestRestart()
	case ActionAddRock:
		c.AddRock()
	case ActionMute:
		c.audio.ToggleMute()
	}
}

// ShootBullet fires from the cannon unless the previous bullet is still
// too close to the muzzle. It reports whether a bullet was fired.
func (c *Controller) ShootBullet() bool {
	if n := len(c.bullets); n > 0 && c.bullets[n-1].Y() <= shotClearY {
		return false
	}
	c.bullets = append(c.bullets, entity.NewBullet(c.cannon.X()+c.cannon.Offset(), c.cfg.BulletSpeed))
	c.stats.BulletsFired++
	return true
}

// CreateRock spawns a rock of random size above one of ten columns.
func (c *Controller) CreateRock() {
	column := float32(c.rng.IntN(spawnColumns) - spawnColumns/2)
	scale := c.rng.Float32()/1.5 + 0.8
	// Column and height are measured in the rock's own scaled frame.
	c.rocks = append(c.rocks, entity.NewRock(column*scale, spawnHeight*scale, scale, spawnXVel, spawnYInit, c.rng))
}

// AddRock drops a unit-sized rock from the top centre.
func (c *Controller) AddRock() {
	c.rocks = append(c.rocks, entity.NewRock(0, spawnHeight, 1, spawnXVel, spawnYInit, c.rng))
}

func (c *Controller) updateBullets() {
	kept := c.bullets[:0]
	for _, b := range c.bullets {
		if b.Update().Dead() {
			continue
		}
		kept = append(kept, b)
	}
	clear(c.bullets[len(kept):])
	c.bullets = kept
}

// updateRocks runs collisions and physics for every rock. Children of a
// split rock join the collection after the pass and move from next frame.
func (c *Controller) updateRocks() {
	next := make([]*entity.Rock, 0, len(c.rocks)+2)
	var children []*entity.Rock

	for _, rock := range c.rocks {
		if rock.CheckCannonCollision(c.cannon.X(), CannonRadius, CannonHeight) {
			c.gameOver()
		}
		for _, b := range c.bullets {
			if rock.CheckBulletCollision(b.X(), b.Y()) {
				b.MarkDead()
			}
		}

		switch status := rock.Update(); status {
		case entity.StatusSplit:
			split := rock.Split()
			children = append(children, split[:]...)
			c.stats.RocksSplit++
			c.audio.PlayEffect()
		case entity.StatusVanish:
			c.stats.RocksDestroyed++
			c.audio.PlayEffect()
		case entity.StatusBounced:
			c.stats.Bounces++
			c.audio.PlayEffect()
			next = append(next, rock)
		default:
			next = append(next, rock)
		}
	}

	c.rocks = append(next, children...)
	for len(c.rocks) < c.cfg.MinRocks {
		c.CreateRock()
	}
}

func (c *Controller) gameOver() {
	if c.phase != PhasePlaying {
		return
	}
	c.phase = PhaseGameOver
	c.highScore = max(c.highScore, c.Score())
	c.stats.Rounds++
	c.log.Info("game over",
		zap.Int("score", c.Score()),
		zap.Int("high_score", c.highScore),
		zap.Int("bullets_fired", c.stats.BulletsFired),
		zap.Int("rocks_destroyed", c.stats.RocksDestroyed),
		zap.Int("rocks_split", c.stats.RocksSplit),
		zap.Int("bounces", c.stats.Bounces))
}

func (c *Controller) requestRestart() {
	if c.phase == PhaseGameOver {
		c.phase = PhaseRestartPending
	}
}

func (c *Controller) restart() {
	c.reset()
	c.phase = PhasePlaying
	c.log.Debug("round started", zap.Int("rocks", len(c.rocks)))
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Score returns the current score rounded up.
func (c *Controller) Score() int {
	return int(stdmath.Ceil(c.score))
}

// HighScore returns the best score of any finished round.
func (c *Controller) HighScore() int {
	return c.highScore
}

// Stats returns a copy of the running counters.
func (c *Controller) Stats() Stats {
	return c.stats
}

// Cannon returns the player's cannon.
func (c *Controller) Cannon() *Cannon {
	return c.cannon
}

// Rocks returns the live rocks. The slice is owned by the controller.
func (c *Controller) Rocks() []*entity.Rock {
	return c.rocks
}

// Bullets returns the live bullets. The slice is owned by the controller.
func (c *Controller) Bullets() []*entity.Bullet {
	return c.bullets
}
