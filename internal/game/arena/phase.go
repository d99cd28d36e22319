package arena

import "fmt"

// Phase is the controller's top-level state.
type Phase int

const (
	// PhasePlaying is an active round.
	PhasePlaying Phase = iota
	// PhaseGameOver is both the title screen and the end-of-round screen.
	// Rocks keep bouncing in the background.
	PhaseGameOver
	// PhaseRestartPending lasts one tick: the next Update starts a new round.
	PhaseRestartPending
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "Playing"
	case PhaseGameOver:
		return "GameOver"
	case PhaseRestartPending:
		return "RestartPending"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}
