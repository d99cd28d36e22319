package game

import (
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/rockblast/internal/config"
	"github.com/Faultbox/rockblast/internal/engine/primitive"
	"github.com/Faultbox/rockblast/internal/game/arena"
)

func TestFrameLimiter(t *testing.T) {
	l := newFrameLimiter(50) // 20ms frames
	start := time.Unix(0, 0)

	if d := l.wait(start.Add(5 * time.Millisecond)); d != 20*time.Millisecond {
		t.Errorf("first frame: expected 20ms sleep, got %v", d)
	}
	// Next deadline is 45ms; a frame ending at 50ms is late but within one frame.
	if d := l.wait(start.Add(50 * time.Millisecond)); d != 0 {
		t.Errorf("late frame: expected no sleep, got %v", d)
	}
	// Deadline 65ms keeps the 20ms cadence.
	if d := l.wait(start.Add(55 * time.Millisecond)); d != 10*time.Millisecond {
		t.Errorf("catch-up frame: expected 10ms sleep, got %v", d)
	}
}

func TestFrameLimiterResyncs(t *testing.T) {
	l := newFrameLimiter(50)
	start := time.Unix(0, 0)
	l.wait(start)

	// A one-second stall must not be paid back with a burst of frames.
	stalled := start.Add(time.Second)
	if d := l.wait(stalled); d != 0 {
		t.Errorf("stalled frame: expected no sleep, got %v", d)
	}
	if d := l.wait(stalled.Add(5 * time.Millisecond)); d != 15*time.Millisecond {
		t.Errorf("after resync: expected 15ms sleep, got %v", d)
	}
}

func TestFrameLimiterDisabled(t *testing.T) {
	l := newFrameLimiter(0)
	if d := l.wait(time.Now()); d != 0 {
		t.Errorf("expected no sleep with limiting off, got %v", d)
	}
}

func TestHUD(t *testing.T) {
	tests := []struct {
		name     string
		phase    arena.Phase
		key      string
		contains []string
		absent   string
	}{
		{"title screen", arena.PhaseGameOver, "G", []string{"Press G to start", "Your Score: 12", "Your High Score: 40"}, ""},
		{"no start key", arena.PhaseGameOver, "", []string{"Your Score: 12"}, "Press"},
		{"playing", arena.PhasePlaying, "G", []string{"Your Score: 12", "Your High Score: 40"}, "Press"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HUD(tt.phase, 12, 40, tt.key)
			if !strings.HasPrefix(got, Title) {
				t.Errorf("expected title prefix, got %q", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in %q", want, got)
				}
			}
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Errorf("did not expect %q in %q", tt.absent, got)
			}
		})
	}
}

func TestDispatchDefaultBindings(t *testing.T) {
	b, err := arena.NewBindings(config.DefaultBindings())
	if err != nil {
		t.Fatalf("default bindings rejected: %v", err)
	}
	c := arena.New(arena.DefaultConfig(), arena.WithRand(newRand(1)))

	if a := dispatch(c, b, "g"); a != arena.ActionStartGame {
		t.Fatalf("expected start_game for g, got %v", a)
	}
	c.Update()
	if c.Phase() != arena.PhasePlaying {
		t.Fatalf("expected Playing, got %v", c.Phase())
	}

	if a := dispatch(c, b, ";"); a != arena.ActionShoot {
		t.Errorf("expected shoot for ;, got %v", a)
	}
	if len(c.Bullets()) != 1 {
		t.Errorf("expected 1 bullet, got %d", len(c.Bullets()))
	}

	if a := dispatch(c, b, "d"); a != arena.ActionMoveRight {
		t.Errorf("expected move_right for d, got %v", a)
	}
	if c.Cannon().Direction() != arena.DirRight {
		t.Errorf("expected cannon driving right, got %v", c.Cannon().Direction())
	}

	if a := dispatch(c, b, "space"); a != arena.ActionNone {
		t.Errorf("expected unbound key to do nothing, got %v", a)
	}
}

func TestNewRandSeeded(t *testing.T) {
	a, b := newRand(42), newRand(42)
	for range 5 {
		if a.Uint64() != b.Uint64() {
			t.Fatal("same seed should give the same sequence")
		}
	}
}

func TestRockMeshDensity(t *testing.T) {
	if n := primitive.Sphere(rockSubdivisions).TriangleCount(); n != 1280 {
		t.Errorf("expected 1280 rock triangles, got %d", n)
	}
}
