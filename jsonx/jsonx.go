// Package jsonx extracts JSON values embedded in freeform model output.
// Reasoning services routinely wrap JSON in prose or code fences, so callers
// cannot trust the whole response to be valid JSON.
package jsonx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoJSON is returned when no JSON object or array can be located.
var ErrNoJSON = errors.New("jsonx: no JSON value found")

// Extract returns the first balanced JSON object or array in s as raw bytes.
// Text before and after the value is ignored.
func Extract(s string) (json.RawMessage, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		end, ok := balancedSpan(s, i)
		if !ok {
			continue
		}
		raw := json.RawMessage(s[i:end])
		if !json.Valid(raw) {
			continue
		}
		return raw, nil
	}
	return nil, ErrNoJSON
}

// Unmarshal extracts the first JSON value in s and decodes it into v.
func Unmarshal(s string, v any) error {
	raw, err := Extract(s)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("jsonx: %w", err)
	}
	return nil
}

// balancedSpan scans from the opener at start and returns the index just past
// the matching closer. String literals and escapes are honored so braces
// inside strings do not affect nesting depth.
func balancedSpan(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
