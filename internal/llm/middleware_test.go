package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"stratify/internal/llmclient"
)

type flakyClient struct {
	failCalls int
	calls     int
}

func (m *flakyClient) Name() string             { return "flaky" }
func (m *flakyClient) Close() error             { return nil }
func (m *flakyClient) CountTokens(t string) int { return len(t) / 4 }
func (m *flakyClient) TokenCapacity() int       { return 4096 }
func (m *flakyClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	m.calls++
	if m.failCalls > 0 {
		m.failCalls--
		return nil, fmt.Errorf("transient failure")
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func TestRetry_RecoversFromTransientFailure(t *testing.T) {
	base := &flakyClient{failCalls: 2}
	cli := Wrap(base, Retry(3, time.Millisecond))
	if _, err := cli.GenerateJSON(context.Background(), "p", nil); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if base.calls != 3 {
		t.Fatalf("calls: got %d want 3", base.calls)
	}
}

type permClient struct{ calls int }

func (m *permClient) Name() string             { return "perm" }
func (m *permClient) Close() error             { return nil }
func (m *permClient) CountTokens(t string) int { return len(t) / 4 }
func (m *permClient) TokenCapacity() int       { return 4096 }
func (m *permClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	m.calls++
	return nil, llmclient.NewPermanentError(errors.New("context too large"))
}

func TestRetry_PermanentErrorShortCircuits(t *testing.T) {
	base := &permClient{}
	cli := Wrap(base, Retry(5, time.Millisecond))
	_, err := cli.GenerateJSON(context.Background(), "p", nil)
	var pErr *llmclient.PermanentError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PermanentError, got %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("calls: got %d want 1", base.calls)
	}
}

func TestFakeClient_PhaseDispatch(t *testing.T) {
	f := NewFakeClient(0)
	ctx := WithPhase(context.Background(), "compare")
	raw, err := f.GenerateJSON(ctx, "p", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var out struct {
		Relationship string `json:"relationship"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Relationship != "validates" {
		t.Fatalf("relationship: got %q", out.Relationship)
	}
}
