// Package bridge turns one framework's finished output into prioritized,
// source-attributed context for a downstream framework.
package bridge

import (
	"fmt"
	"sort"

	"stratify/internal/types"
)

// DefaultTopN caps each derived list. Override via Options.
const DefaultTopN = 5

// Options tunes a derivation.
type Options struct {
	// TopN caps each polarity's list; 0 means DefaultTopN.
	TopN int
}

func (o Options) topN() int {
	if o.TopN > 0 {
		return o.TopN
	}
	return DefaultTopN
}

// candidate is a derived item plus its ranking weight and source
// declaration index (the deterministic tie-breaker).
type candidate struct {
	item   types.DerivedItem
	weight float64
	order  int
}

// Derive builds prioritized opportunity/threat context from a finished
// Porter's analysis, optionally merged with PESTLE-sourced items. It is a
// pure function: identical inputs yield identical ordered output, and
// missing or empty upstream input degrades to empty lists.
func Derive(porters *types.PortersOutput, pestle *types.PestleOutput, opts Options) types.Derivation {
	var opps, threats []candidate
	forcesUsed := []string{}
	factorsUsed := []string{}
	out := types.Derivation{
		DerivedOpportunities: []types.DerivedItem{},
		DerivedThreats:       []types.DerivedItem{},
	}
	order := 0

	if porters != nil {
		for _, nf := range porters.ForcesInOrder() {
			f := nf.Force
			switch f.Level {
			case types.ForceLow:
				// A weak force reduces the corresponding threat, so it
				// surfaces as an opportunity. Weaker forces rank higher.
				opps = append(opps, candidate{
					item: types.DerivedItem{
						Item:            opportunityText(nf),
						SourceAnalysis:  types.SourcePorters,
						SourceReference: nf.Name,
					},
					weight: 10 - forceWeight(f),
					order:  order,
				})
				forcesUsed = append(forcesUsed, nf.Name)
			case types.ForceHigh:
				threats = append(threats, candidate{
					item: types.DerivedItem{
						Item:            threatText(nf),
						SourceAnalysis:  types.SourcePorters,
						SourceReference: nf.Name,
					},
					weight: forceWeight(f),
					order:  order,
				})
				forcesUsed = append(forcesUsed, nf.Name)
			}
			order++
		}
		out.CompetitorInsights = types.CompetitorInsights{
			Competitors: copyList(porters.Competitors),
			Suppliers:   copyList(porters.Suppliers),
			Substitutes: copyList(porters.Substitutes),
		}
		out.MarketContext = porters.MarketAttractiveness
	}

	if pestle != nil {
		for _, it := range pestle.Opportunities {
			opps = append(opps, pestleCandidate(it, order))
			factorsUsed = append(factorsUsed, it.Factor)
			order++
		}
		for _, it := range pestle.Threats {
			threats = append(threats, pestleCandidate(it, order))
			factorsUsed = append(factorsUsed, it.Factor)
			order++
		}
	}

	out.DerivedOpportunities = rank(opps, opts.topN())
	out.DerivedThreats = rank(threats, opts.topN())
	out.SourceForcesUsed = forcesUsed
	out.SourceFactorsUsed = factorsUsed
	return out
}

func pestleCandidate(it types.PestleItem, order int) candidate {
	ref := it.Factor
	if ref == "" {
		ref = "PESTLE factor"
	}
	w := it.Score
	if w <= 0 {
		w = 5
	}
	return candidate{
		item: types.DerivedItem{
			Item:            it.Item,
			SourceAnalysis:  types.SourcePestle,
			SourceReference: ref,
		},
		weight: w,
		order:  order,
	}
}

// forceWeight maps a force to a 0-10 magnitude; the numeric score wins
// when present, the qualitative level otherwise.
func forceWeight(f types.Force) float64 {
	if f.Score > 0 {
		return f.Score
	}
	switch f.Level {
	case types.ForceLow:
		return 3
	case types.ForceMedium:
		return 5
	case types.ForceHigh:
		return 8
	}
	return 5
}

// rank orders candidates by descending weight, ties broken by source
// declaration order, truncates to topN, and assigns ascending priorities
// starting at 1.
func rank(cands []candidate, topN int) []types.DerivedItem {
	sorted := make([]candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].weight != sorted[j].weight {
			return sorted[i].weight > sorted[j].weight
		}
		return sorted[i].order < sorted[j].order
	})
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	out := make([]types.DerivedItem, len(sorted))
	for i, c := range sorted {
		c.item.Priority = i + 1
		out[i] = c.item
	}
	return out
}

func opportunityText(nf types.NamedForce) string {
	if nf.Force.Rationale != "" {
		return fmt.Sprintf("Low %s pressure: %s", nf.Name, nf.Force.Rationale)
	}
	return fmt.Sprintf("Low %s pressure reduces a structural threat", nf.Name)
}

func threatText(nf types.NamedForce) string {
	if nf.Force.Rationale != "" {
		return fmt.Sprintf("High %s pressure: %s", nf.Name, nf.Force.Rationale)
	}
	return fmt.Sprintf("High %s pressure is a structural threat", nf.Name)
}

func copyList(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
