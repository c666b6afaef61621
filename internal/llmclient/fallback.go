package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

// Response is one completed call with the provider that served it.
type Response struct {
	Raw      json.RawMessage
	Provider string
}

// Fallback tries an ordered chain of providers until one succeeds. It
// fails only on total provider exhaustion, returning *TransportError.
type Fallback struct {
	chain []LLMClient
}

// NewFallback builds a fallback chain. Order matters: the first client is
// the preferred provider.
func NewFallback(clients ...LLMClient) *Fallback {
	out := make([]LLMClient, 0, len(clients))
	for _, c := range clients {
		if c != nil {
			out = append(out, c)
		}
	}
	return &Fallback{chain: out}
}

// Call runs prompt+input against each provider in order and returns the
// first success tagged with its provider name.
func (f *Fallback) Call(ctx context.Context, prompt string, input any) (Response, error) {
	if len(f.chain) == 0 {
		return Response{}, &TransportError{Attempts: 0, Last: errors.New("no providers configured")}
	}
	var last error
	for _, cli := range f.chain {
		if err := ctx.Err(); err != nil {
			return Response{}, err
		}
		raw, err := cli.GenerateJSON(ctx, prompt, input)
		if err == nil {
			return Response{Raw: raw, Provider: cli.Name()}, nil
		}
		last = err
	}
	return Response{}, &TransportError{Attempts: len(f.chain), Last: last}
}

// Close closes every client in the chain, returning the first error.
func (f *Fallback) Close() error {
	var first error
	for _, cli := range f.chain {
		if err := cli.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
