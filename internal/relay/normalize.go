// Package relay normalizes raw model output into the response body.
package relay

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The model sometimes wraps its JSON in Markdown code fences despite being
// instructed not to. Fence markers are removed wherever they occur, with or
// without the json language tag, before parsing.
var (
	jsonFencePattern = regexp.MustCompile("```json\n?")
	bareFencePattern = regexp.MustCompile("```\n?")
)

// ParseError indicates the model output was not valid JSON after
// fence-stripping. It maps to HTTP 500; malformed text is not retried.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Normalize strips code-fence markers from the raw assistant text and parses
// the remainder as JSON. The parsed value is returned verbatim: there is no
// schema validation, so a well-formed but wrong-shaped object passes through
// to the caller unchanged.
func Normalize(raw string) (json.RawMessage, error) {
	cleaned := jsonFencePattern.ReplaceAllString(raw, "")
	cleaned = bareFencePattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &ParseError{Text: cleaned, Err: err}
	}

	return parsed, nil
}
