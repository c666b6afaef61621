package pipeline

import (
	"context"
	"fmt"
	"time"

	"stratify/internal/llm"
	"stratify/internal/llmclient"
	"stratify/internal/prompt"
	"stratify/internal/telemetry"
	"stratify/internal/types"
	"stratify/internal/util/jsonutil"
)

// RunInput is the raw user-described business problem handed to a run.
type RunInput struct {
	ProblemStatement string   `json:"problem_statement"`
	Background       string   `json:"background,omitempty"`
	Assumptions      []string `json:"assumptions,omitempty"`
}

var domainPromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Normalize a raw business problem description into a structured domain context.",
	Background: "First stage of a strategic-analysis pipeline; later framework stages consume this context verbatim.",
	OutputFields: []prompt.Field{
		{Name: "industry", Type: "string", Required: true, Description: "The industry the problem belongs to."},
		{Name: "geography", Type: "string", Required: true, Description: "Geographic market scope."},
		{Name: "language", Type: "string", Required: true, Description: "BCP-47 language tag of the user's input."},
		{Name: "assumptions", Type: "[]Assumption", Required: true, Description: "User-stated beliefs as {id, claim}; one entry per distinct belief."},
	},
	Constraints: []string{
		"Carry every user-stated assumption through; split compound statements into atomic claims.",
		"Assumption ids are short, stable, and unique within the list.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetNoInvent(), prompt.PresetCautious())

// DomainStage extracts the immutable DomainContext for a run. A failure
// here is fatal: no later stage has a meaningful basis without it.
type DomainStage struct {
	LLM *llmclient.Fallback
}

func (s *DomainStage) Run(ctx context.Context, in RunInput, led *telemetry.Ledger) (types.DomainContext, error) {
	start := time.Now()
	defer func() { led.AddLatency(time.Since(start)) }()
	ctx = llm.WithPhase(ctx, "domain")

	input := map[string]any{
		"problem_statement": in.ProblemStatement,
		"background":        in.Background,
		"assumptions":       in.Assumptions,
	}
	p, err := domainPromptSpec.Build(input)
	if err != nil {
		return types.DomainContext{}, err
	}
	resp, err := s.LLM.Call(ctx, p, input)
	if err != nil {
		return types.DomainContext{}, err
	}
	led.RecordLLMCall(resp.Provider)

	var out types.DomainContext
	if res := jsonutil.Parse(string(resp.Raw), &out); !res.Success {
		return types.DomainContext{}, fmt.Errorf("domain JSON invalid: %w", res.Error)
	}
	for i := range out.Assumptions {
		if out.Assumptions[i].ID == "" {
			out.Assumptions[i].ID = fmt.Sprintf("a%d", i+1)
		}
	}
	return out, nil
}
