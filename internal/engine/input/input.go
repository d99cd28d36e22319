// Package input polls SDL2 events and reports key presses by name.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    string // lower-case key name, e.g. "a", ";", "space"
	Width  int
	Height int
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, ev)
		if ev.Type == EventQuit || (ev.Type == EventKeyDown && ev.Key == "escape") {
			quit = true
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Pressed returns the names of keys pressed this frame, in order.
func (i *Input) Pressed() []string {
	var keys []string
	for _, e := range i.events {
		if e.Type == EventKeyDown {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		// Bindings toggle state, so auto-repeat would flip them back and forth.
		if e.Repeat != 0 {
			return Event{}, false
		}
		typ := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			typ = EventKeyDown
		}
		return Event{Type: typ, Key: KeyName(e.Keysym.Sym)}, true
	}
	return Event{}, false
}

// KeyName returns the lower-case name of a key. Printable keys map to
// their character so they match the names used in key bindings.
func KeyName(sym sdl.Keycode) string {
	if sym > 32 && sym < 127 {
		return strings.ToLower(string(rune(sym)))
	}
	return strings.ToLower(sdl.GetKeyName(sym))
}
