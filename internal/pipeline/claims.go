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

var claimsPromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Produce a PESTLE claim set for the given domain context.",
	Background: "Each bucket holds categorized claims about external factors affecting the business problem. Downstream stages cross-reference user assumptions against these claims.",
	OutputFields: []prompt.Field{
		{Name: "political", Type: "[]Claim", Required: true, Description: "Political factors."},
		{Name: "economic", Type: "[]Claim", Required: true, Description: "Economic factors."},
		{Name: "social", Type: "[]Claim", Required: true, Description: "Social factors."},
		{Name: "technological", Type: "[]Claim", Required: true, Description: "Technological factors."},
		{Name: "legal", Type: "[]Claim", Required: true, Description: "Legal factors."},
		{Name: "environmental", Type: "[]Claim", Required: true, Description: "Environmental factors."},
	},
	Constraints: []string{
		"Claim objects are {claim, evidence, sources, confidence, time_horizon, rationale}.",
		"confidence is one of high|medium|low; time_horizon is one of short|medium|long.",
		"2-5 claims per bucket; empty buckets are allowed when nothing credible applies.",
		"Order claims within a bucket from most to least material.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetNoInvent(), prompt.PresetCautious())

// ClaimStage generates the categorized claim set. Failures are fatal: the
// rest of the run has no basis without claims.
type ClaimStage struct {
	LLM *llmclient.Fallback
}

func (s *ClaimStage) Run(ctx context.Context, domain types.DomainContext, evidence []string, led *telemetry.Ledger) (types.ClaimSet, error) {
	start := time.Now()
	defer func() { led.AddLatency(time.Since(start)) }()
	ctx = llm.WithPhase(ctx, "claims")

	input := map[string]any{
		"domain":   domain,
		"evidence": evidence,
	}
	p, err := claimsPromptSpec.Build(input)
	if err != nil {
		return types.ClaimSet{}, err
	}
	resp, err := s.LLM.Call(ctx, p, input)
	if err != nil {
		return types.ClaimSet{}, err
	}
	led.RecordLLMCall(resp.Provider)

	var out types.ClaimSet
	if res := jsonutil.Parse(string(resp.Raw), &out); !res.Success {
		return types.ClaimSet{}, fmt.Errorf("claims JSON invalid: %w", res.Error)
	}
	assignClaimIDs(&out)
	return out, nil
}

// assignClaimIDs stamps category and a deterministic id onto every claim,
// preserving generation order within each bucket.
func assignClaimIDs(set *types.ClaimSet) {
	stamp := func(claims []types.Claim, cat types.Category) {
		for i := range claims {
			claims[i].Category = cat
			claims[i].ID = fmt.Sprintf("%s-%d", cat, i)
		}
	}
	stamp(set.Political, types.CategoryPolitical)
	stamp(set.Economic, types.CategoryEconomic)
	stamp(set.Social, types.CategorySocial)
	stamp(set.Technological, types.CategoryTechnological)
	stamp(set.Legal, types.CategoryLegal)
	stamp(set.Environmental, types.CategoryEnvironmental)
}
