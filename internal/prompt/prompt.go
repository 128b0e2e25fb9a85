// Package prompt builds the system/user prompt pair for each request type.
package prompt

import (
	"fmt"
	"strings"

	"github.com/meetingtimer/timer-relay/internal/domain"
)

// Token budgets per request type. Room edits carry the full timer list in
// both directions, so they get the largest budget.
const (
	DefaultMaxTokens   = 1000
	TimerMaxTokens     = 300
	EditTimerMaxTokens = 500
	EditMaxTokens      = 1500
)

// Spec is the assembled input for one upstream completion call.
type Spec struct {
	// System is the instruction template for the selected request type.
	System string

	// User is the user prompt, possibly enriched with room context.
	User string

	// MaxTokens is the completion budget for this request type.
	MaxTokens int
}

// ValidationError indicates the request payload cannot produce a prompt.
// It maps to HTTP 400 and is raised before any upstream call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Build produces the prompt spec for a generate request.
// The type set is closed: unknown or missing types are rejected here rather
// than forwarding an empty system instruction upstream.
func Build(req domain.GenerateRequest) (Spec, error) {
	switch req.Type {
	case domain.TypeTimer:
		return Spec{
			System:    timerSystemPrompt,
			User:      req.Prompt,
			MaxTokens: TimerMaxTokens,
		}, nil

	case domain.TypeEditTimer:
		return buildEditTimer(req)

	case domain.TypeEdit:
		return buildEdit(req), nil

	case domain.TypeRoom:
		return Spec{
			System:    roomSystemPrompt,
			User:      req.Prompt,
			MaxTokens: DefaultMaxTokens,
		}, nil

	default:
		return Spec{}, &ValidationError{
			Message: fmt.Sprintf("Invalid request type %q: must be one of timer, editTimer, edit, room", string(req.Type)),
		}
	}
}

// buildEditTimer validates the current timer and embeds it into the system
// prompt so the model changes only what the user asks for.
func buildEditTimer(req domain.GenerateRequest) (Spec, error) {
	t := req.CurrentTimer
	if t == nil || t.Title == "" || t.TotalSeconds == nil {
		return Spec{}, &ValidationError{Message: "Valid current timer data is required"}
	}

	message := t.Message
	if message == "" {
		message = "none"
	}

	seconds := int(*t.TotalSeconds)
	system := fmt.Sprintf(editTimerSystemPrompt, t.Title, message, seconds, clock(seconds))

	return Spec{
		System:    system,
		User:      req.Prompt,
		MaxTokens: EditTimerMaxTokens,
	}, nil
}

// buildEdit prepends the current room state to the user prompt when present,
// so ordinal references like "the first timer" resolve against the exact
// ordering the client displays.
func buildEdit(req domain.GenerateRequest) Spec {
	user := req.Prompt

	if req.CurrentRoom != nil && req.CurrentRoom.Timers != nil {
		user = renderRoomContext(req.CurrentRoom, req.Prompt)
	}

	return Spec{
		System:    editSystemPrompt,
		User:      user,
		MaxTokens: EditMaxTokens,
	}
}

// renderRoomContext renders the 1-indexed timer list plus the room name
// ahead of the edit request.
func renderRoomContext(room *domain.RoomSnapshot, userPrompt string) string {
	lines := make([]string, 0, len(room.Timers))
	for i, t := range room.Timers {
		message := t.Message
		if message == "" {
			message = "no description"
		}

		var seconds int
		if t.TotalSeconds != nil {
			seconds = int(*t.TotalSeconds)
		}

		lines = append(lines, fmt.Sprintf("%d. \"%s\" - %s (%s)", i+1, t.Title, clock(seconds), message))
	}

	return fmt.Sprintf("Current room: \"%s\"\nCurrent timers:\n%s\n\nEdit request: %s",
		room.RoomName, strings.Join(lines, "\n"), userPrompt)
}

// clock formats a duration as minutes:seconds with zero-padded seconds,
// e.g. 300 -> "5:00", 65 -> "1:05".
func clock(totalSeconds int) string {
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
