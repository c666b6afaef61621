package jsonutil

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StripFences removes a surrounding markdown code fence (``` or ```json)
// from an LLM response, if present. Content without a fence is returned
// unchanged apart from whitespace trimming.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the optional language tag on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if first == "" || isFenceTag(first) {
			s = s[i+1:]
		}
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ParseResult is the tagged outcome of parsing an LLM response. Callers
// branch on Success instead of shape-sniffing the payload.
type ParseResult struct {
	Success   bool
	RawOutput string
	Error     error
}

// Parse strips fences from raw and unmarshals the remainder into v.
// The original text is always preserved in RawOutput for diagnostics.
func Parse(raw string, v any) ParseResult {
	stripped := StripFences(raw)
	if err := UnmarshalFlex([]byte(stripped), v); err != nil {
		return ParseResult{Success: false, RawOutput: raw, Error: err}
	}
	return ParseResult{Success: true, RawOutput: raw}
}

// UnmarshalFlex tries a direct unmarshal first, then retries after
// unwrapping a JSON-encoded string payload (models occasionally return
// the object double-encoded).
func UnmarshalFlex(raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	var s string
	if err2 := json.Unmarshal(raw, &s); err2 == nil {
		if err3 := json.Unmarshal([]byte(s), v); err3 == nil {
			return nil
		}
	}
	return err
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into
// < etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
