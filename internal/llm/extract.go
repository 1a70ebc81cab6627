package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
)

// ExtractArray pulls a JSON array out of a free-text model reply. The reply is
// expected to contain exactly one top-level array; prose before or after it is
// ignored. As a fallback, a single object is accepted: its "scripts" field is
// unwrapped when present, otherwise the object is wrapped into a one-element
// array. Keep the scanning heuristic behind this one function so it can be
// swapped for a structured-output contract without touching callers.
func ExtractArray(text string) ([]json.RawMessage, error) {
	if span, ok := matchSpan(text, '[', ']'); ok {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(span), &items); err == nil {
			if len(items) == 0 {
				return nil, apperr.ErrNoResults
			}
			return items, nil
		}
	}

	if span, ok := matchSpan(text, '{', '}'); ok {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(span), &obj); err == nil {
			if scripts, exists := obj["scripts"]; exists {
				var items []json.RawMessage
				if err := json.Unmarshal(scripts, &items); err == nil {
					if len(items) == 0 {
						return nil, apperr.ErrNoResults
					}
					return items, nil
				}
			}
			return []json.RawMessage{json.RawMessage(span)}, nil
		}
	}

	return nil, fmt.Errorf("%w: no parsable JSON in reply", apperr.ErrMalformedOutput)
}

// matchSpan returns the first bracket-matched span delimited by open/close,
// skipping over JSON string literals and escapes.
func matchSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == open:
			depth++
		case !inString && ch == close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
