package arena

import "fmt"

// Tone tells the overlay how to emphasise a line.
type Tone int

const (
	ToneNormal Tone = iota
	ToneTitle
	ToneHint
)

// OverlayLine is one line of on-screen text.
type OverlayLine struct {
	Text string
	Tone Tone
}

// Overlay is the text drawn over the scene: a score readout in the
// corner and, between rounds, a centred welcome banner.
type Overlay struct {
	Score  []OverlayLine
	Banner []OverlayLine
}

var welcomeText = []string{
	"Rock Blast is an arcade game where",
	"you have to use a cannon",
	"to shoot bombs at giant rocks to",
	"smash them to smithereens, or in",
	"this case, coins.",
}

// Overlay returns the text for the current frame. startKey names the key
// bound to StartGame; the start hint is omitted when it is empty.
func (c *Controller) Overlay(startKey string) Overlay {
	o := Overlay{
		Score: []OverlayLine{
			{Text: fmt.Sprintf("Your Score : %d", c.Score())},
			{Text: fmt.Sprintf("Your High Score : %d", c.highScore)},
		},
	}
	if c.phase != PhaseGameOver {
		return o
	}

	o.Banner = make([]OverlayLine, 0, len(welcomeText)+2)
	o.Banner = append(o.Banner, OverlayLine{Text: "Welcome to Rock Blast!", Tone: ToneTitle})
	for _, line := range welcomeText {
		o.Banner = append(o.Banner, OverlayLine{Text: line})
	}
	if startKey != "" {
		o.Banner = append(o.Banner, OverlayLine{Text: fmt.Sprintf("Press %s to start", startKey), Tone: ToneHint})
	}
	return o
}
