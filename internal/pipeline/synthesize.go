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

var synthesisPromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Reduce claims and significant assumption comparisons into an executive synthesis.",
	Background: "Terminal stage of the analysis run. Only comparisons that met the confidence threshold are provided; summary statistics describe the full set.",
	OutputFields: []prompt.Field{
		{Name: "executive_summary", Type: "string", Required: true, Description: "3-5 sentence narrative."},
		{Name: "key_findings", Type: "[]string", Required: true, Description: "Most material findings."},
		{Name: "strategic_implications", Type: "[]string", Required: true, Description: "What the findings mean for the business."},
		{Name: "recommended_actions", Type: "[]string", Required: true, Description: "Concrete next steps."},
		{Name: "risks", Type: "[]string", Required: true, Description: "Principal risks."},
		{Name: "opportunities", Type: "[]string", Required: true, Description: "Principal opportunities."},
	},
	Constraints: []string{
		"Ground every statement in the provided claims or comparisons.",
		"Mention contradicted assumptions explicitly in key_findings.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetNoInvent(), prompt.PresetCautious())

// SynthesisStage produces the terminal narrative artifact. Failures are
// fatal for the run.
type SynthesisStage struct {
	LLM *llmclient.Fallback
}

func (s *SynthesisStage) Run(ctx context.Context, domain types.DomainContext, claims types.ClaimSet, significant []types.Comparison, stats types.ComparisonStats, led *telemetry.Ledger) (types.Synthesis, error) {
	start := time.Now()
	defer func() { led.AddLatency(time.Since(start)) }()
	ctx = llm.WithPhase(ctx, "synthesize")

	input := map[string]any{
		"domain":                  domain,
		"claims":                  claims,
		"significant_comparisons": SortByConfidence(significant),
		"comparison_stats":        stats,
	}
	p, err := synthesisPromptSpec.Build(input)
	if err != nil {
		return types.Synthesis{}, err
	}
	resp, err := s.LLM.Call(ctx, p, input)
	if err != nil {
		return types.Synthesis{}, err
	}
	led.RecordLLMCall(resp.Provider)

	var out types.Synthesis
	if res := jsonutil.Parse(string(resp.Raw), &out); !res.Success {
		return types.Synthesis{}, fmt.Errorf("synthesis JSON invalid: %w", res.Error)
	}
	return out, nil
}
