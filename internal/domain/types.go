// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

// RequestType identifies which generation template a request selects.
// The set is closed: anything outside these four values is rejected
// before any upstream call is made.
type RequestType string

const (
	// TypeTimer generates a single timer from a description.
	TypeTimer RequestType = "timer"

	// TypeEditTimer modifies one existing timer.
	TypeEditTimer RequestType = "editTimer"

	// TypeEdit modifies an entire room of timers.
	TypeEdit RequestType = "edit"

	// TypeRoom generates a new room of timers from scratch.
	TypeRoom RequestType = "room"
)

// Valid reports whether the request type is one of the supported values.
func (t RequestType) Valid() bool {
	switch t {
	case TypeTimer, TypeEditTimer, TypeEdit, TypeRoom:
		return true
	default:
		return false
	}
}

// GenerateRequest is the body of POST /api/generate.
// Which optional fields are required depends on Type: editTimer needs
// CurrentTimer, edit optionally uses CurrentRoom.
type GenerateRequest struct {
	// Prompt is the user's natural-language instruction.
	Prompt string `json:"prompt"`

	// Type selects the generation template.
	Type RequestType `json:"type"`

	// CurrentRoom is the room being edited (type "edit" only).
	CurrentRoom *RoomSnapshot `json:"currentRoom,omitempty"`

	// CurrentTimer is the timer being edited (type "editTimer" only).
	CurrentTimer *TimerSnapshot `json:"currentTimer,omitempty"`
}

// TimerSnapshot is the client's view of an existing timer.
type TimerSnapshot struct {
	// Title is the timer's display name.
	Title string `json:"title"`

	// Message is an optional description shown while the timer runs.
	Message string `json:"message,omitempty"`

	// TotalSeconds is the timer duration. A pointer so that a missing
	// field is distinguishable from zero; non-numeric JSON fails to bind.
	TotalSeconds *float64 `json:"totalSeconds"`
}

// RoomSnapshot is the client's view of an existing room.
// Timer order is meaningful: ordinal references in edit requests
// ("the first timer") resolve against this exact ordering.
type RoomSnapshot struct {
	// RoomName is the room's display name.
	RoomName string `json:"roomName"`

	// Timers is the ordered timer list.
	Timers []TimerSnapshot `json:"timers"`
}

// GeneratedTimer is the output unit produced by the model.
// It is always built fresh and never aliases an input snapshot.
type GeneratedTimer struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Seconds int    `json:"seconds"`
}

// GeneratedRoom is the model's output for room generation and room edits.
type GeneratedRoom struct {
	RoomName string           `json:"roomName,omitempty"`
	Timers   []GeneratedTimer `json:"timers"`
}
