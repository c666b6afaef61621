package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per phase for
// offline runs and tests.
type FakeClient struct {
	tokenCap int
}

func NewFakeClient(cap int) *FakeClient {
	if cap <= 0 {
		cap = 4096
	}
	return &FakeClient{tokenCap: cap}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }
func (f *FakeClient) CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}
func (f *FakeClient) TokenCapacity() int { return f.tokenCap }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	var obj any
	switch phase {
	case "domain":
		obj = map[string]any{
			"industry":  "fake industry",
			"geography": "global",
			"language":  "en",
			"assumptions": []any{
				map[string]any{"id": "a1", "claim": "fake assumption"},
			},
		}
	case "claims":
		claim := map[string]any{
			"claim":        "fake claim",
			"evidence":     []string{"fake evidence"},
			"sources":      []string{"fake source"},
			"confidence":   "medium",
			"time_horizon": "short",
			"rationale":    "fake rationale",
		}
		obj = map[string]any{
			"political":     []any{claim},
			"economic":      []any{claim},
			"social":        []any{},
			"technological": []any{claim},
			"legal":         []any{},
			"environmental": []any{},
		}
	case "compare":
		obj = map[string]any{
			"relationship":      "validates",
			"related_claim_ids": []string{"political-0"},
			"confidence":        0.8,
			"evidence":          "fake evidence",
			"explanation":       "fake explanation",
		}
	case "synthesize":
		obj = map[string]any{
			"executive_summary":      "fake summary",
			"key_findings":           []string{"fake finding"},
			"strategic_implications": []string{"fake implication"},
			"recommended_actions":    []string{"fake action"},
			"risks":                  []string{"fake risk"},
			"opportunities":          []string{"fake opportunity"},
		}
	case "whys_validate":
		obj = map[string]any{
			"verdict":             "acceptable",
			"issues":              []any{},
			"follow_up_questions": []string{},
			"reasoning":           "fake reasoning",
		}
	case "whys_coaching":
		obj = map[string]any{"guidance": "fake guidance"}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
