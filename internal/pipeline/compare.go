package pipeline

import (
	"context"
	"sort"
	"time"

	"stratify/internal/llm"
	"stratify/internal/llmclient"
	"stratify/internal/prompt"
	"stratify/internal/telemetry"
	"stratify/internal/types"
	"stratify/internal/util/jsonutil"
)

var comparePromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Judge one user assumption against the generated claim set.",
	Background: "The relationship drives how the final synthesis treats the assumption.",
	OutputFields: []prompt.Field{
		{Name: "relationship", Type: "string", Required: true, Description: "One of validates|contradicts|partially_validates."},
		{Name: "related_claim_ids", Type: "[]string", Required: true, Description: "Ids of the claims the judgment rests on."},
		{Name: "confidence", Type: "number", Required: true, Description: "0.0-1.0."},
		{Name: "evidence", Type: "string", Required: true, Description: "The decisive evidence, quoted or paraphrased from the claims."},
		{Name: "explanation", Type: "string", Required: true, Description: "Why the relationship holds."},
	},
	Constraints: []string{
		"related_claim_ids must reference ids present in the input claim list.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetNoInvent(), prompt.PresetCautious())

// compareVerdict is the per-assumption LLM response shape.
type compareVerdict struct {
	Relationship    types.Relationship `json:"relationship"`
	RelatedClaimIDs []string           `json:"related_claim_ids"`
	Confidence      float64            `json:"confidence"`
	Evidence        string             `json:"evidence"`
	Explanation     string             `json:"explanation"`
}

// ComparatorStage cross-references each assumption against the flattened
// claim list. A failed judgment degrades that single assumption instead
// of aborting the run.
type ComparatorStage struct {
	LLM *llmclient.Fallback
}

func (s *ComparatorStage) Run(ctx context.Context, domain types.DomainContext, claims []types.Claim, led *telemetry.Ledger) ([]types.Comparison, error) {
	start := time.Now()
	defer func() { led.AddLatency(time.Since(start)) }()
	ctx = llm.WithPhase(ctx, "compare")

	// Stored in assumption-declaration order, one entry per assumption.
	out := make([]types.Comparison, 0, len(domain.Assumptions))
	for _, a := range domain.Assumptions {
		out = append(out, s.compareOne(ctx, a, claims, led))
	}
	return out, nil
}

func (s *ComparatorStage) compareOne(ctx context.Context, a types.Assumption, claims []types.Claim, led *telemetry.Ledger) types.Comparison {
	input := map[string]any{
		"assumption": a,
		"claims":     claims,
	}
	p, err := comparePromptSpec.Build(input)
	if err != nil {
		return degradedComparison(a.ID)
	}
	resp, err := s.LLM.Call(ctx, p, input)
	if err != nil {
		return degradedComparison(a.ID)
	}
	led.RecordLLMCall(resp.Provider)

	var v compareVerdict
	if res := jsonutil.Parse(string(resp.Raw), &v); !res.Success {
		return degradedComparison(a.ID)
	}
	if !validRelationship(v.Relationship) {
		return degradedComparison(a.ID)
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		v.Confidence = 1
	}
	return types.Comparison{
		AssumptionID:    a.ID,
		Relationship:    v.Relationship,
		RelatedClaimIDs: v.RelatedClaimIDs,
		Confidence:      v.Confidence,
		Evidence:        v.Evidence,
		Explanation:     v.Explanation,
	}
}

func validRelationship(r types.Relationship) bool {
	switch r {
	case types.RelationshipValidates, types.RelationshipContradicts, types.RelationshipPartiallyValidates:
		return true
	}
	return false
}

// degradedComparison is the per-item fallback: the run continues and the
// entry surfaces with a visible low-confidence marker.
func degradedComparison(assumptionID string) types.Comparison {
	return types.Comparison{
		AssumptionID: assumptionID,
		Relationship: types.RelationshipNeutral,
		Confidence:   0,
		Explanation:  "comparison unavailable for this assumption; treat as unverified",
		Degraded:     true,
	}
}

// Significant filters comparisons to those meeting the confidence
// threshold, preserving stored order. The unfiltered set still feeds
// summary statistics.
func Significant(comps []types.Comparison, threshold float64) []types.Comparison {
	out := make([]types.Comparison, 0, len(comps))
	for _, c := range comps {
		if c.Confidence >= threshold {
			out = append(out, c)
		}
	}
	return out
}

// SortByConfidence returns a copy ordered by descending confidence for
// presentation. Stored order stays assumption-declaration order.
func SortByConfidence(comps []types.Comparison) []types.Comparison {
	out := make([]types.Comparison, len(comps))
	copy(out, comps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

// Stats summarizes the unfiltered comparison set.
func Stats(comps []types.Comparison) types.ComparisonStats {
	st := types.ComparisonStats{Total: len(comps)}
	for _, c := range comps {
		switch c.Relationship {
		case types.RelationshipValidates:
			st.Validated++
		case types.RelationshipContradicts:
			st.Contradicted++
		case types.RelationshipPartiallyValidates:
			st.PartiallyValidated++
		default:
			st.Neutral++
		}
	}
	if st.Total > 0 {
		st.ValidatedRate = float64(st.Validated) / float64(st.Total)
		st.ContradictedRate = float64(st.Contradicted) / float64(st.Total)
	}
	return st
}
