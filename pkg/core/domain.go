// Package core holds the scratchpad domain: the storage port, the
// editing session and its save-status machine.
package core

import "fmt"

// Reserved keys used by the scratchpad itself. Values under these keys
// are plain strings; anything else in a profile belongs to the user.
const (
	// KeyNotes holds the scratchpad text.
	KeyNotes = "scratchpad_notes"

	// KeyTheme holds the appearance preference ("light" or "dark").
	KeyTheme = "scratchpad_theme"
)

// Status represents the save lifecycle state of a session.
type Status string

const (
	// StatusIdle is the resting state: nothing typed since the last
	// settled save, or since load.
	StatusIdle Status = "idle"

	// StatusSaving covers the quiet period after a change plus the
	// write itself.
	StatusSaving Status = "saving"

	// StatusSaved is shown after a successful write until the hold
	// delay expires or new input arrives.
	StatusSaved Status = "saved"

	// StatusError means the last probe or write failed. It sticks until
	// the next input starts a fresh cycle.
	StatusError Status = "error"
)

// Theme is the persisted appearance preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored value to a Theme. Anything unrecognized,
// including the empty string for an absent key, falls back to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// EventType represents the kind of change observed in a store.
type EventType string

const (
	EventSet    EventType = "SET"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a single key, observed from outside the
// process that receives it. Value carries the post-change content for
// EventSet and is empty for EventDelete.
type Event struct {
	Type      EventType
	Key       string
	Value     string
	Timestamp int64 // Unix timestamp
}

// String renders the event for logs. The value itself is elided; only
// its size is shown.
func (e Event) String() string {
	return fmt.Sprintf("%s %s (%d bytes)", e.Type, e.Key, len(e.Value))
}
