package coach

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"stratify/internal/llmclient"
	"stratify/internal/telemetry"
	"stratify/internal/types"
)

type cannedClient struct {
	raw json.RawMessage
	err error
}

func (c *cannedClient) Name() string             { return "Canned" }
func (c *cannedClient) Close() error             { return nil }
func (c *cannedClient) CountTokens(t string) int { return len(t) / 4 }
func (c *cannedClient) TokenCapacity() int       { return 4096 }
func (c *cannedClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	return c.raw, c.err
}

func newCoach(raw string, err error) *Coach {
	return &Coach{LLM: llmclient.NewFallback(&cannedClient{raw: json.RawMessage(raw), err: err})}
}

func TestValidateWhy_TransportFailureFallsBack(t *testing.T) {
	c := newCoach("", errors.New("provider down"))
	eval := c.ValidateWhy(context.Background(), 1, "the pump seal was worn", nil, "Why did the machine stop?")

	if eval.Verdict != types.VerdictNeedsClarification {
		t.Fatalf("verdict: got %s", eval.Verdict)
	}
	if len(eval.Issues) < 1 {
		t.Fatal("fallback must carry at least one issue")
	}
	if len(eval.FollowUpQuestions) < 1 {
		t.Fatal("fallback must carry at least one follow-up question")
	}
}

func TestValidateWhy_ParseFailureFallsBack(t *testing.T) {
	c := newCoach("this is not json", nil)
	eval := c.ValidateWhy(context.Background(), 1, "the pump seal was worn", nil, "Why did the machine stop?")
	if eval.Verdict != types.VerdictNeedsClarification {
		t.Fatalf("verdict: got %s", eval.Verdict)
	}
}

func TestValidateWhy_UnknownVerdictFallsBack(t *testing.T) {
	c := newCoach(`{"verdict":"excellent","issues":[],"follow_up_questions":[],"reasoning":"r"}`, nil)
	eval := c.ValidateWhy(context.Background(), 1, "the pump seal was worn", nil, "Why did the machine stop?")
	if eval.Verdict != types.VerdictNeedsClarification {
		t.Fatalf("unknown verdict must be rejected, got %s", eval.Verdict)
	}
}

func TestValidateWhy_FencedResponseParsed(t *testing.T) {
	raw := "```json\n{\"verdict\":\"acceptable\",\"issues\":[],\"follow_up_questions\":[],\"reasoning\":\"sound causal step\"}\n```"
	c := newCoach(raw, nil)
	eval := c.ValidateWhy(context.Background(), 2, "the seal was past its service interval", []string{"the pump seal was worn"}, "Why did the machine stop?")
	if eval.Verdict != types.VerdictAcceptable {
		t.Fatalf("verdict: got %s (%+v)", eval.Verdict, eval)
	}
}

func TestValidateWhy_RestatementOfRootIsInvalid(t *testing.T) {
	c := newCoach(`{"verdict":"acceptable","issues":[],"follow_up_questions":[],"reasoning":"r"}`, nil)
	eval := c.ValidateWhy(context.Background(), 1, "Why did the machine stop?", nil, "Why did the machine stop?")

	if eval.Verdict != types.VerdictInvalid {
		t.Fatalf("verdict: got %s", eval.Verdict)
	}
	found := false
	for _, is := range eval.Issues {
		if (is.Type == types.IssueCausality || is.Type == types.IssueDuplication) && is.Severity == types.SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected critical causality/duplication issue: %+v", eval.Issues)
	}
}

func TestValidateWhy_DuplicateOfPreviousWhyIsInvalid(t *testing.T) {
	c := newCoach(`{"verdict":"acceptable","issues":[],"follow_up_questions":[],"reasoning":"r"}`, nil)
	eval := c.ValidateWhy(context.Background(), 3, "The pump seal was worn.", []string{"the pump seal was worn"}, "Why did the machine stop?")
	if eval.Verdict != types.VerdictInvalid {
		t.Fatalf("verdict: got %s", eval.Verdict)
	}
	if eval.Issues[0].Type != types.IssueDuplication {
		t.Fatalf("issue type: got %s", eval.Issues[0].Type)
	}
}

func TestValidateWhy_RecordsProviderOnSuccess(t *testing.T) {
	led := telemetry.NewLedger()
	c := newCoach(`{"verdict":"acceptable","issues":[],"follow_up_questions":[],"reasoning":"r"}`, nil)
	c.Ledger = led
	c.ValidateWhy(context.Background(), 1, "the belt snapped", nil, "Why did the machine stop?")
	snap := led.Snapshot()
	if snap.LLMCalls != 1 || snap.ProviderUsage["Canned"] != 1 {
		t.Fatalf("telemetry: %+v", snap)
	}
}

func TestCoaching_FailureReturnsGenericGuidance(t *testing.T) {
	c := newCoach("", errors.New("provider down"))
	out := c.Coaching(context.Background(), "how do I improve?", "it broke", "Why did the machine stop?", nil)
	if out == "" {
		t.Fatal("guidance must never be empty")
	}
	if out != genericGuidance {
		t.Fatalf("expected generic guidance, got %q", out)
	}
}

func TestCoaching_UsesModelGuidance(t *testing.T) {
	c := newCoach(`{"guidance":"name the specific component that failed"}`, nil)
	out := c.Coaching(context.Background(), "how do I improve?", "it broke", "Why did the machine stop?", []types.CoachingTurn{{Role: "user", Content: "earlier question"}})
	if out != "name the specific component that failed" {
		t.Fatalf("guidance: %q", out)
	}
}
