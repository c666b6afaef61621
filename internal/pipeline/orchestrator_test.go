package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"stratify/internal/llm"
	"stratify/internal/llmclient"
)

// scriptedClient fails for the configured phases and otherwise defers to
// the deterministic fake.
type scriptedClient struct {
	fake       *llm.FakeClient
	failPhases map[string]bool
}

func newScriptedClient(failPhases ...string) *scriptedClient {
	m := make(map[string]bool, len(failPhases))
	for _, p := range failPhases {
		m[p] = true
	}
	return &scriptedClient{fake: llm.NewFakeClient(0), failPhases: m}
}

func (s *scriptedClient) Name() string             { return "Scripted" }
func (s *scriptedClient) Close() error             { return nil }
func (s *scriptedClient) CountTokens(t string) int { return len(t) / 4 }
func (s *scriptedClient) TokenCapacity() int       { return 4096 }
func (s *scriptedClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if s.failPhases[llm.PhaseFrom(ctx)] {
		return nil, fmt.Errorf("scripted failure")
	}
	return s.fake.GenerateJSON(ctx, prompt, input)
}

func fakeOrchestrator(clients ...llmclient.LLMClient) *Orchestrator {
	if len(clients) == 0 {
		clients = []llmclient.LLMClient{llm.NewFakeClient(0)}
	}
	return NewOrchestrator(llmclient.NewFallback(clients...), 0, nil)
}

func TestOrchestrator_RunHappyPath(t *testing.T) {
	o := fakeOrchestrator()
	res, err := o.Run(context.Background(), "u-1", RunInput{ProblemStatement: "demo"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.UnderstandingID != "u-1" || res.RunID == "" {
		t.Fatalf("envelope ids: %+v", res)
	}
	if res.Claims.Count() != 3 {
		t.Fatalf("claims: got %d want 3", res.Claims.Count())
	}
	if len(res.Comparisons) != len(res.Domain.Assumptions) {
		t.Fatalf("one comparison per assumption: %d vs %d", len(res.Comparisons), len(res.Domain.Assumptions))
	}
	if res.CompletedAt.IsZero() {
		t.Fatal("completed_at not set")
	}
	// One call each for domain, claims, synthesize; one per assumption.
	wantCalls := int64(3 + len(res.Domain.Assumptions))
	if res.Telemetry.LLMCalls != wantCalls {
		t.Fatalf("llm calls: got %d want %d", res.Telemetry.LLMCalls, wantCalls)
	}
	if res.Telemetry.ProviderUsage["FakeLLM"] != wantCalls {
		t.Fatalf("provider usage: %v", res.Telemetry.ProviderUsage)
	}
	if res.Telemetry.Retries != 0 {
		t.Fatalf("retries: got %d", res.Telemetry.Retries)
	}
}

func TestOrchestrator_SignificantFilter(t *testing.T) {
	o := fakeOrchestrator()
	res, err := o.Run(context.Background(), "u-2", RunInput{ProblemStatement: "demo"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, c := range res.Significant {
		if c.Confidence < DefaultSignificantThreshold {
			t.Fatalf("sub-threshold comparison in significant set: %+v", c)
		}
	}
	if res.Stats.Total != len(res.Comparisons) {
		t.Fatalf("stats cover the unfiltered set: %d vs %d", res.Stats.Total, len(res.Comparisons))
	}
}

func TestOrchestrator_ClaimFailureIsFatal(t *testing.T) {
	o := fakeOrchestrator(newScriptedClient("claims"))
	_, err := o.Run(context.Background(), "u-3", RunInput{ProblemStatement: "demo"})
	var sf *StageFailure
	if !errors.As(err, &sf) {
		t.Fatalf("expected StageFailure, got %v", err)
	}
	if sf.Stage != "claims" {
		t.Fatalf("stage: got %q", sf.Stage)
	}
}

func TestOrchestrator_CompareFailureDegradesNotFatal(t *testing.T) {
	o := fakeOrchestrator(newScriptedClient("compare"))
	res, err := o.Run(context.Background(), "u-4", RunInput{ProblemStatement: "demo"})
	if err != nil {
		t.Fatalf("comparator failure must not abort the run: %v", err)
	}
	if len(res.Comparisons) == 0 {
		t.Fatal("expected degraded comparisons")
	}
	for _, c := range res.Comparisons {
		if !c.Degraded || c.Confidence != 0 {
			t.Fatalf("expected degraded zero-confidence entry: %+v", c)
		}
	}
	if len(res.Significant) != 0 {
		t.Fatalf("degraded entries must not be significant: %+v", res.Significant)
	}
}

func TestOrchestrator_DomainFailureIncrementsRetryCounter(t *testing.T) {
	// The ledger is not returned on failure, so observe the counter
	// indirectly: the run must abort with the domain stage named.
	o := fakeOrchestrator(newScriptedClient("domain"))
	_, err := o.Run(context.Background(), "u-5", RunInput{ProblemStatement: "demo"})
	var sf *StageFailure
	if !errors.As(err, &sf) || sf.Stage != "domain" {
		t.Fatalf("expected domain StageFailure, got %v", err)
	}
	var te *llmclient.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected wrapped TransportError, got %v", err)
	}
}
