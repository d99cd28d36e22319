package arena

import (
	"errors"
	"math/rand/v2"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/rockblast/internal/game/entity"
	"github.com/Faultbox/rockblast/pkg/math"
)

type fakeAudio struct {
	themes  int
	mutes   int
	effects int
}

func (a *fakeAudio) StartTheme() { a.themes++ }
func (a *fakeAudio) ToggleMute() { a.mutes++ }
func (a *fakeAudio) PlayEffect() { a.effects++ }

type drawCall struct {
	id    ShapeID
	model math.Mat4
	color math.Color
}

type recorder struct {
	calls []drawCall
}

func (r *recorder) DrawShape(id ShapeID, model math.Mat4, color math.Color) {
	r.calls = append(r.calls, drawCall{id, model, color})
}

func (r *recorder) count(id ShapeID) int {
	n := 0
	for _, c := range r.calls {
		if c.id == id {
			n++
		}
	}
	return n
}

func newTestController(t *testing.T, cfg Config) (*Controller, *fakeAudio) {
	t.Helper()
	audio := &fakeAudio{}
	c := New(cfg, WithRand(rand.New(rand.NewPCG(1, 2))), WithAudio(audio))
	return c, audio
}

// startRound moves the controller from the title screen into play.
func startRound(t *testing.T, c *Controller) {
	t.Helper()
	c.Handle(ActionStartGame)
	if c.Phase() != PhaseRestartPending {
		t.Fatalf("expected RestartPending after start, got %v", c.Phase())
	}
	c.Update()
	if c.Phase() != PhasePlaying {
		t.Fatalf("expected Playing after restart tick, got %v", c.Phase())
	}
}

// parkRocks replaces the rocks with one small rock far from the cannon.
func parkRocks(c *Controller) {
	c.rocks = []*entity.Rock{entity.NewRock(-5, 15, 0.5, 0, 0, c.rng)}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhasePlaying, "Playing"},
		{PhaseGameOver, "GameOver"},
		{PhaseRestartPending, "RestartPending"},
		{Phase(9), "Phase(9)"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		want    Action
		wantErr bool
	}{
		{"move_left", ActionMoveLeft, false},
		{"move_right", ActionMoveRight, false},
		{"stop", ActionStop, false},
		{" Shoot ", ActionShoot, false},
		{"start_game", ActionStartGame, false},
		{"add_rock", ActionAddRock, false},
		{"mute", ActionMute, false},
		{"none", ActionNone, true},
		{"jump", ActionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAction) {
					t.Errorf("expected ErrUnknownAction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if back, _ := ParseAction(got.String()); back != got {
				t.Errorf("String() %q does not parse back", got.String())
			}
		})
	}
}

func TestBindings(t *testing.T) {
	b, err := NewBindings(map[string]string{
		"A": "move_left",
		";": "shoot",
		"9": "add_rock",
	})
	if err != nil {
		t.Fatalf("NewBindings failed: %v", err)
	}

	tests := []struct {
		key  string
		want Action
	}{
		{"a", ActionMoveLeft},
		{"A", ActionMoveLeft},
		{";", ActionShoot},
		{"9", ActionAddRock},
		{"Space", ActionNone},
	}
	for _, tt := range tests {
		if got := b.Lookup(tt.key); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}

	if got := b.KeyFor(ActionShoot); got != ";" {
		t.Errorf("KeyFor(shoot) = %q, want \";\"", got)
	}
	if got := b.KeyFor(ActionMute); got != "" {
		t.Errorf("KeyFor(mute) = %q, want empty", got)
	}

	_, err = NewBindings(map[string]string{"x": "fly"})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction for bad binding, got %v", err)
	}
}

func TestNewStartsOnTitleScreen(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())

	if c.Phase() != PhaseGameOver {
		t.Errorf("expected GameOver, got %v", c.Phase())
	}
	if len(c.Rocks()) != 2 {
		t.Errorf("expected 2 rocks, got %d", len(c.Rocks()))
	}
	if c.Score() != 0 || c.HighScore() != 0 {
		t.Errorf("expected zero scores, got %d/%d", c.Score(), c.HighScore())
	}
}

func TestNewClampsRockCounts(t *testing.T) {
	c, _ := newTestController(t, Config{InitialRocks: 0, MinRocks: 0, ScoreRate: 0.06, BulletSpeed: 25})
	if len(c.Rocks()) != 1 {
		t.Errorf("expected at least one rock, got %d", len(c.Rocks()))
	}
}

func TestStartGameStartsThemeOnce(t *testing.T) {
	c, audio := newTestController(t, DefaultConfig())

	startRound(t, c)
	c.gameOver()
	startRound(t, c)

	if audio.themes != 1 {
		t.Errorf("expected theme started once, got %d", audio.themes)
	}
}

func TestStartGameIgnoredWhilePlaying(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)

	c.Handle(ActionStartGame)
	if c.Phase() != PhasePlaying {
		t.Errorf("expected to stay Playing, got %v", c.Phase())
	}
}

func TestScoreAccumulates(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)
	parkRocks(c)

	c.Update()
	if got := c.Score(); got != 1 {
		t.Errorf("expected 0.06 to round up to 1, got %d", got)
	}

	for range 19 {
		c.Update()
	}
	// 20 * 0.06 = 1.2.
	if got := c.Score(); got != 2 {
		t.Errorf("expected score 2, got %d", got)
	}
}

func TestScoreFrozenOnTitleScreen(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	for range 10 {
		c.Update()
	}
	if c.Score() != 0 {
		t.Errorf("expected no score outside play, got %d", c.Score())
	}
}

func TestShootOnlyWhilePlaying(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())

	c.Handle(ActionShoot)
	if len(c.Bullets()) != 0 {
		t.Fatalf("expected no bullets on the title screen, got %d", len(c.Bullets()))
	}

	startRound(t, c)
	c.Handle(ActionShoot)
	if len(c.Bullets()) != 1 {
		t.Fatalf("expected 1 bullet, got %d", len(c.Bullets()))
	}
	if got := c.Stats().BulletsFired; got != 1 {
		t.Errorf("expected BulletsFired 1, got %d", got)
	}
}

func TestShootRateLimit(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)
	parkRocks(c)

	if !c.ShootBullet() {
		t.Fatal("first shot should fire")
	}
	if c.ShootBullet() {
		t.Fatal("second shot should wait for the first to clear the muzzle")
	}

	// 0.25 per frame from 2.8 passes 5 after 9 frames.
	for range 9 {
		c.Update()
	}
	if !c.ShootBullet() {
		t.Errorf("expected shot once the previous bullet is above %d, y=%f", shotClearY, c.Bullets()[0].Y())
	}
	if len(c.Bullets()) != 2 {
		t.Errorf("expected 2 bullets, got %d", len(c.Bullets()))
	}
}

func TestShotLeadsDirection(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)

	c.Handle(ActionMoveRight)
	c.ShootBullet()
	if got := c.Bullets()[0].X(); !near(got, ShotOffset) {
		t.Errorf("expected bullet at x=%f, got %f", ShotOffset, got)
	}
}

func TestBulletsLeaveTheScreen(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)
	parkRocks(c)
	c.ShootBullet()

	for range 70 {
		c.Update()
	}
	if len(c.Bullets()) != 0 {
		t.Errorf("expected bullet removed after leaving the screen, got %d", len(c.Bullets()))
	}
}

func TestBulletSplitsRock(t *testing.T) {
	c, audio := newTestController(t, DefaultConfig())
	startRound(t, c)

	c.bullets = []*entity.Bullet{entity.NewBullet(3, 25)}
	c.rocks = []*entity.Rock{entity.NewRock(3, 2.8, 1.2, 0, 0, c.rng)}

	c.Update()

	if c.Phase() != PhasePlaying {
		t.Fatalf("expected to keep playing, got %v", c.Phase())
	}
	if len(c.Rocks()) != 2 {
		t.Fatalf("expected exactly 2 children, got %d rocks", len(c.Rocks()))
	}
	for i, r := range c.Rocks() {
		if r.X() != 3 || r.Y() != 2.8 {
			t.Errorf("child %d: expected to start at (3, 2.8), got (%f, %f)", i, r.X(), r.Y())
		}
	}
	if !c.Bullets()[0].Dead() {
		t.Error("expected bullet marked dead on hit")
	}
	if got := c.Stats().RocksSplit; got != 1 {
		t.Errorf("expected RocksSplit 1, got %d", got)
	}
	if audio.effects != 1 {
		t.Errorf("expected 1 effect, got %d", audio.effects)
	}

	// The spent bullet is dropped on the next frame.
	c.Update()
	if len(c.Bullets()) != 0 {
		t.Errorf("expected dead bullet removed, got %d", len(c.Bullets()))
	}
}

func TestLastRockVanishingRefills(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)

	c.bullets = []*entity.Bullet{entity.NewBullet(3, 25)}
	c.rocks = []*entity.Rock{entity.NewRock(3, 3, 0.5, 0, 0, c.rng)}

	c.Update()

	if got := c.Stats().RocksDestroyed; got != 1 {
		t.Errorf("expected RocksDestroyed 1, got %d", got)
	}
	if len(c.Rocks()) != 1 {
		t.Fatalf("expected refill to 1 rock, got %d", len(c.Rocks()))
	}
}

func TestRocksNeverEmpty(t *testing.T) {
	c, _ := newTestController(t, Config{InitialRocks: 3, MinRocks: 3, ScoreRate: 0.06, BulletSpeed: 25})
	startRound(t, c)

	for frame := range 500 {
		if c.Phase() == PhaseGameOver {
			startRound(t, c)
		}
		c.Handle(ActionShoot)
		c.Update()
		if len(c.Rocks()) < 3 {
			t.Fatalf("frame %d: rock count fell to %d", frame, len(c.Rocks()))
		}
	}
}

func TestCannonHitEndsRound(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)
	parkRocks(c)

	for range 40 {
		c.Update()
	}
	score := c.Score()

	c.rocks = append(c.rocks, entity.NewRock(0, 2, 1, 0, 0, c.rng))
	c.Update()

	if c.Phase() != PhaseGameOver {
		t.Fatalf("expected GameOver, got %v", c.Phase())
	}
	if c.HighScore() != score {
		t.Errorf("expected high score %d, got %d", score, c.HighScore())
	}
	if c.Stats().Rounds != 1 {
		t.Errorf("expected 1 round, got %d", c.Stats().Rounds)
	}

	// Score stays on display until the next round starts.
	if c.Score() != score {
		t.Errorf("expected score %d kept on game over, got %d", score, c.Score())
	}

	startRound(t, c)
	if c.Score() != 0 {
		t.Errorf("expected score reset on restart, got %d", c.Score())
	}
	if len(c.Rocks()) != 2 {
		t.Errorf("expected InitialRocks after restart, got %d", len(c.Rocks()))
	}

	// A shorter round keeps the old best.
	c.gameOver()
	if c.HighScore() != score {
		t.Errorf("expected high score to stay %d, got %d", score, c.HighScore())
	}
}

func TestGameOverLogsStats(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audio := &fakeAudio{}
	c := New(DefaultConfig(), WithRand(rand.New(rand.NewPCG(1, 2))), WithAudio(audio), WithLogger(zap.New(core)))
	startRound(t, c)
	parkRocks(c)

	// A unit rock below the floor bounces on its first update.
	c.rocks = append(c.rocks, entity.NewRock(-4, 0.5, 1, 0, -0.3, c.rng))
	c.Update()
	if c.Stats().Bounces == 0 {
		t.Fatal("expected the floor bounce to be counted")
	}

	c.rocks = append(c.rocks, entity.NewRock(0, 2, 1, 0, 0, c.rng))
	c.Update()
	if c.Phase() != PhaseGameOver {
		t.Fatalf("expected GameOver, got %v", c.Phase())
	}

	entries := logs.FilterMessage("game over").All()
	if len(entries) != 1 {
		t.Fatalf("expected one game over entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got, ok := fields["bounces"].(int64); !ok || int(got) != c.Stats().Bounces {
		t.Errorf("expected bounces=%d in log, got %v", c.Stats().Bounces, fields["bounces"])
	}
	if _, ok := fields["bullets_fired"]; !ok {
		t.Error("expected bullets_fired in log")
	}
}

func TestOverlay(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())

	o := c.Overlay("G")
	if len(o.Score) != 2 || o.Score[0].Text != "Your Score : 0" || o.Score[1].Text != "Your High Score : 0" {
		t.Errorf("unexpected score lines: %+v", o.Score)
	}
	if len(o.Banner) != 7 {
		t.Fatalf("expected 7 banner lines on the title screen, got %d", len(o.Banner))
	}
	if o.Banner[0].Text != "Welcome to Rock Blast!" || o.Banner[0].Tone != ToneTitle {
		t.Errorf("expected welcome title first, got %+v", o.Banner[0])
	}
	if last := o.Banner[6]; last.Text != "Press G to start" || last.Tone != ToneHint {
		t.Errorf("expected start hint last, got %+v", last)
	}
	for _, line := range o.Banner[1:6] {
		if line.Tone != ToneNormal {
			t.Errorf("expected plain body text, got %+v", line)
		}
	}

	if got := c.Overlay("").Banner; len(got) != 6 {
		t.Errorf("expected no hint without a start key, got %d lines", len(got))
	}

	startRound(t, c)
	parkRocks(c)
	for range 20 {
		c.Update()
	}
	o = c.Overlay("G")
	if o.Banner != nil {
		t.Errorf("expected no banner while playing, got %+v", o.Banner)
	}
	if o.Score[0].Text != "Your Score : 2" {
		t.Errorf("expected live score 2, got %q", o.Score[0].Text)
	}

	c.gameOver()
	o = c.Overlay("G")
	if o.Score[1].Text != "Your High Score : 2" {
		t.Errorf("expected high score 2 after the round, got %q", o.Score[1].Text)
	}
	if len(o.Banner) != 7 {
		t.Errorf("expected the banner back after game over, got %d lines", len(o.Banner))
	}

	c.Handle(ActionStartGame)
	if o := c.Overlay("G"); o.Banner != nil {
		t.Errorf("expected no banner while a restart is pending, got %+v", o.Banner)
	}
}

func TestShapeCount(t *testing.T) {
	if ShapeCount != 5 {
		t.Errorf("expected 5 shapes, got %d", ShapeCount)
	}
	if got := ShapeID(ShapeCount).String(); got != "ShapeID(5)" {
		t.Errorf("expected out-of-range name, got %q", got)
	}
}

func TestGameOverClearsBullets(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)
	parkRocks(c)
	c.ShootBullet()

	c.gameOver()
	c.Update()

	if len(c.Bullets()) != 0 {
		t.Errorf("expected bullets cleared, got %d", len(c.Bullets()))
	}
}

func TestAttractModeKeepsRocksMoving(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	before := c.Rocks()[0].Y()

	c.Update()

	if c.Rocks()[0].Y() == before {
		t.Error("expected rocks to move on the title screen")
	}
	if c.Phase() != PhaseGameOver {
		t.Errorf("expected to stay on the title screen, got %v", c.Phase())
	}
}

func TestAddRock(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	n := len(c.Rocks())

	c.Handle(ActionAddRock)

	if len(c.Rocks()) != n+1 {
		t.Fatalf("expected %d rocks, got %d", n+1, len(c.Rocks()))
	}
	r := c.Rocks()[n]
	if r.X() != 0 || r.Y() != 13 || r.Scale() != 1 {
		t.Errorf("expected unit rock at (0, 13), got scale %f at (%f, %f)", r.Scale(), r.X(), r.Y())
	}
}

func TestMute(t *testing.T) {
	c, audio := newTestController(t, DefaultConfig())
	c.Handle(ActionMute)
	c.Handle(ActionMute)
	if audio.mutes != 2 {
		t.Errorf("expected 2 mute toggles, got %d", audio.mutes)
	}
}

func TestCreateRockSpawnRange(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	c.rocks = nil

	for range 200 {
		c.CreateRock()
	}
	for i, r := range c.Rocks() {
		s := r.Scale()
		if s < 0.8 || s >= 0.8+1/1.5 {
			t.Fatalf("rock %d: scale %f out of range", i, s)
		}
		if !near(r.Y(), spawnHeight*s) {
			t.Errorf("rock %d: expected y %f, got %f", i, spawnHeight*s, r.Y())
		}
		column := r.X() / s
		if column < -5.001 || column > 4.001 {
			t.Errorf("rock %d: column %f out of range", i, column)
		}
	}
}

func TestCannonMovement(t *testing.T) {
	cn := NewCannon()

	cn.ToggleRight()
	cn.Step()
	if !near(cn.X(), 0.1) {
		t.Errorf("expected x 0.1 after one step, got %f", cn.X())
	}

	for range 200 {
		cn.Step()
	}
	if cn.X() < CannonLimit || cn.X() > CannonLimit+0.1 {
		t.Errorf("expected cannon parked at the right edge, got %f", cn.X())
	}
	if cn.Direction() != DirNone {
		t.Errorf("expected drive cleared at the edge, got %v", cn.Direction())
	}
	for i, w := range cn.Wheels() {
		if !near(w.Translation().X, cn.X()) {
			t.Errorf("wheel %d at x=%f, cannon at %f", i, w.Translation().X, cn.X())
		}
	}
}

func TestCannonToggle(t *testing.T) {
	cn := NewCannon()

	cn.ToggleLeft()
	if cn.Direction() != DirLeft || cn.Offset() != -ShotOffset {
		t.Errorf("expected left drive, got %v", cn.Direction())
	}
	cn.ToggleRight()
	if cn.Direction() != DirRight || cn.Offset() != ShotOffset {
		t.Errorf("expected right drive, got %v", cn.Direction())
	}
	cn.ToggleRight()
	if cn.Direction() != DirNone || cn.Offset() != 0 {
		t.Errorf("expected stopped, got %v", cn.Direction())
	}
	cn.ToggleLeft()
	cn.Stop()
	if cn.Direction() != DirNone {
		t.Errorf("expected Stop to clear drive, got %v", cn.Direction())
	}
}

func TestDrawTitleScreen(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	r := &recorder{}

	c.Draw(r)

	if got := r.count(ShapeBox); got != 3 {
		t.Errorf("expected 3 scenery boxes, got %d", got)
	}
	if got := r.count(ShapeRock); got != len(c.Rocks()) {
		t.Errorf("expected %d rocks drawn, got %d", len(c.Rocks()), got)
	}
	if r.count(ShapeCannon) != 0 || r.count(ShapeWheel) != 0 {
		t.Error("cannon should be hidden on the title screen")
	}
}

func TestDrawPlaying(t *testing.T) {
	c, _ := newTestController(t, DefaultConfig())
	startRound(t, c)
	c.ShootBullet()
	r := &recorder{}

	c.Draw(r)

	tests := []struct {
		id   ShapeID
		want int
	}{
		{ShapeBox, 3},
		{ShapeCannon, 1},
		{ShapeWheel, 2},
		{ShapeBullet, 1},
		{ShapeRock, len(c.Rocks())},
	}
	for _, tt := range tests {
		if got := r.count(tt.id); got != tt.want {
			t.Errorf("%v: expected %d draws, got %d", tt.id, tt.want, got)
		}
	}

	for _, call := range r.calls {
		switch call.id {
		case ShapeBullet:
			if call.color != math.ColorWhite {
				t.Errorf("expected white bullet, got %+v", call.color)
			}
		case ShapeRock:
			if call.color.A != 1 {
				t.Errorf("expected opaque rock, got %+v", call.color)
			}
		}
	}
}

func near(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}
