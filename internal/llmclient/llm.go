package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidJSON = errors.New("invalid json from LLM")

// LLMClient is a single provider. Cross-cutting concerns (retries, rate
// limiting, logging) are applied via middleware in internal/llm.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	CountTokens(text string) int
	TokenCapacity() int
	Close() error
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// TransportError reports that every configured provider failed for one
// call. It wraps the last provider's error.
type TransportError struct {
	Attempts int
	Last     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm: all %d providers failed: %v", e.Attempts, e.Last)
}

func (e *TransportError) Unwrap() error { return e.Last }

// CountTokens is a cheap token estimate shared by clients that do not
// expose a tokenizer (~4 bytes per token).
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
