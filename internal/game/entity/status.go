// Package entity implements the game's moving objects: cannon bullets and
// bouncing rocks. Entities are plain state machines advanced once per frame;
// the arena owns them and acts on the Status each update returns.
package entity

import "fmt"

// Status is the per-frame outcome of an entity update.
type Status int

const (
	// StatusBounced means the rock is alive and hit a wall this frame.
	StatusBounced Status = -1
	// StatusAlive means the entity is alive and should be kept.
	StatusAlive Status = 0
	// StatusRemove means the entity is dead and should be dropped.
	StatusRemove Status = 1
	// StatusSplit means a dead rock should be replaced by its two children.
	StatusSplit Status = 2
)

// StatusKeep and StatusVanish name the same codes from the bullet's and the
// small rock's point of view.
const (
	StatusKeep   = StatusAlive
	StatusVanish = StatusRemove
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusBounced:
		return "Bounced"
	case StatusAlive:
		return "Alive"
	case StatusRemove:
		return "Remove"
	case StatusSplit:
		return "Split"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Dead reports whether the status asks the owner to remove the entity.
func (s Status) Dead() bool {
	return s > 0
}
