// Package domain holds the presence entities and wire events. No transport or locking here.
package domain

import "strings"

const (
	MaxUserIDLen      = 64
	MaxDisplayNameLen = 64
)

type UserID string

// Identity is the verified caller attached to a connection.
// It is built once at admission and never mutated afterwards.
type Identity struct {
	ID          UserID `json:"identity"`
	DisplayName string `json:"displayName"`
}

// NewIdentity validates the id and normalizes the display name.
// An empty name falls back to the id.
func NewIdentity(id UserID, displayName string) (Identity, error) {
	if len(id) == 0 {
		return Identity{}, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return Identity{}, ErrUserIDTooLong
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = string(id)
	}
	if r := []rune(name); len(r) > MaxDisplayNameLen {
		name = string(r[:MaxDisplayNameLen])
	}
	return Identity{ID: id, DisplayName: name}, nil
}
