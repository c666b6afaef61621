package bridge

import (
	"fmt"
	"strings"

	"stratify/internal/types"
)

// FormatForSWOT renders a derivation as tagged plain text for direct
// inclusion in a downstream SWOT prompt. Pure projection: no side
// effects, no reordering.
func FormatForSWOT(d types.Derivation) string {
	var b strings.Builder

	b.WriteString("=== DERIVED OPPORTUNITIES ===\n")
	writeItems(&b, d.DerivedOpportunities)
	b.WriteString("\n=== DERIVED THREATS ===\n")
	writeItems(&b, d.DerivedThreats)

	if d.MarketContext.Assessment != "" || d.MarketContext.Score != 0 {
		b.WriteString("\n=== MARKET CONTEXT ===\n")
		fmt.Fprintf(&b, "score: %.1f (%s)\n", d.MarketContext.Score, d.MarketContext.Assessment)
		if d.MarketContext.Rationale != "" {
			fmt.Fprintf(&b, "rationale: %s\n", d.MarketContext.Rationale)
		}
	}

	writeNames(&b, "COMPETITORS", d.CompetitorInsights.Competitors)
	writeNames(&b, "SUPPLIERS", d.CompetitorInsights.Suppliers)
	writeNames(&b, "SUBSTITUTES", d.CompetitorInsights.Substitutes)

	return b.String()
}

func writeItems(b *strings.Builder, items []types.DerivedItem) {
	if len(items) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "[%s] %d. %s (source: %s)\n",
			strings.ToUpper(string(it.SourceAnalysis)), it.Priority, it.Item, it.SourceReference)
	}
}

func writeNames(b *strings.Builder, title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "\n=== %s ===\n%s\n", title, strings.Join(names, ", "))
}
