package arena

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownAction is returned when an action name cannot be parsed.
var ErrUnknownAction = errors.New("unknown action")

// Action is a player command.
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionStop
	ActionShoot
	ActionStartGame
	ActionAddRock
	ActionMute
)

var actionNames = map[Action]string{
	ActionNone:      "none",
	ActionMoveLeft:  "move_left",
	ActionMoveRight: "move_right",
	ActionStop:      "stop",
	ActionShoot:     "shoot",
	ActionStartGame: "start_game",
	ActionAddRock:   "add_rock",
	ActionMute:      "mute",
}

// String returns the config name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction maps a config name such as "move_left" to an Action.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if a != ActionNone && n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Bindings maps normalized key names to actions.
type Bindings map[string]Action

// NewBindings builds bindings from a key name -> action name table.
func NewBindings(table map[string]string) (Bindings, error) {
	b := make(Bindings, len(table))
	for key, name := range table {
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", key, err)
		}
		b[normalizeKey(key)] = a
	}
	return b, nil
}

// Lookup returns the action bound to key, or ActionNone.
func (b Bindings) Lookup(key string) Action {
	return b[normalizeKey(key)]
}

// KeyFor returns a key bound to a, or "" if none is. With several keys
// bound the alphabetically first is returned.
func (b Bindings) KeyFor(a Action) string {
	var keys []string
	for k, bound := range b {
		if bound == a {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)
	return keys[0]
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
