package bridge

import (
	"encoding/json"
	"strings"
	"testing"

	"stratify/internal/types"
)

func samplePorters() *types.PortersOutput {
	return &types.PortersOutput{
		ThreatOfNewEntrants: types.Force{Level: types.ForceLow, Score: 2, Rationale: "high capital barriers"},
		SupplierPower:       types.Force{Level: types.ForceHigh, Score: 8, Rationale: "two dominant suppliers"},
		BuyerPower:          types.Force{Level: types.ForceMedium, Score: 5},
		ThreatOfSubstitutes: types.Force{Level: types.ForceLow, Score: 3},
		CompetitiveRivalry:  types.Force{Level: types.ForceHigh, Score: 7},
		Competitors:         []string{"Acme", "Globex"},
		Suppliers:           []string{"SupplyCo"},
		MarketAttractiveness: types.MarketAttractiveness{
			Score: 6.5, Assessment: "moderately attractive", Rationale: "growth offsets rivalry",
		},
	}
}

func samplePestle() *types.PestleOutput {
	return &types.PestleOutput{
		Opportunities: []types.PestleItem{
			{Item: "subsidy program expansion", Factor: "political", Score: 9},
		},
		Threats: []types.PestleItem{
			{Item: "tightening data regulation", Factor: "legal", Score: 6},
		},
	}
}

func TestDerive_LowForceBecomesOpportunityHighBecomesThreat(t *testing.T) {
	d := Derive(samplePorters(), nil, Options{})

	foundOpp := false
	for _, o := range d.DerivedOpportunities {
		if o.SourceReference == "New Entrants" {
			foundOpp = true
			if o.SourceAnalysis != types.SourcePorters {
				t.Fatalf("source analysis: %s", o.SourceAnalysis)
			}
		}
	}
	if !foundOpp {
		t.Fatalf("no opportunity referencing New Entrants: %+v", d.DerivedOpportunities)
	}

	foundThreat := false
	for _, th := range d.DerivedThreats {
		if th.SourceReference == "Supplier Power" {
			foundThreat = true
		}
	}
	if !foundThreat {
		t.Fatalf("no threat referencing Supplier Power: %+v", d.DerivedThreats)
	}
}

func TestDerive_CapsAndPriorityOrdering(t *testing.T) {
	pestle := &types.PestleOutput{}
	for i := 0; i < 8; i++ {
		pestle.Opportunities = append(pestle.Opportunities, types.PestleItem{
			Item: "opp", Factor: "economic", Score: float64(i + 1),
		})
	}
	d := Derive(samplePorters(), pestle, Options{})

	if len(d.DerivedOpportunities) > DefaultTopN {
		t.Fatalf("opportunities exceed cap: %d", len(d.DerivedOpportunities))
	}
	if len(d.DerivedThreats) > DefaultTopN {
		t.Fatalf("threats exceed cap: %d", len(d.DerivedThreats))
	}
	for i := 1; i < len(d.DerivedOpportunities); i++ {
		if d.DerivedOpportunities[i].Priority < d.DerivedOpportunities[i-1].Priority {
			t.Fatalf("priorities decrease: %+v", d.DerivedOpportunities)
		}
	}
	for _, it := range append(d.DerivedOpportunities, d.DerivedThreats...) {
		if it.SourceReference == "" {
			t.Fatalf("empty source reference: %+v", it)
		}
	}
}

func TestDerive_EmptyUpstreamDegradesGracefully(t *testing.T) {
	d := Derive(nil, nil, Options{})
	if len(d.DerivedOpportunities) != 0 || len(d.DerivedThreats) != 0 {
		t.Fatalf("expected empty lists: %+v", d)
	}
	if d.SourceFactorsUsed == nil || len(d.SourceFactorsUsed) != 0 {
		t.Fatalf("source factors should be empty, not nil: %#v", d.SourceFactorsUsed)
	}

	d = Derive(&types.PortersOutput{}, nil, Options{})
	if len(d.DerivedOpportunities) != 0 || len(d.DerivedThreats) != 0 {
		t.Fatalf("zero-valued forces must derive nothing: %+v", d)
	}
}

func TestDerive_SecondarySourceMergedVerbatim(t *testing.T) {
	d := Derive(samplePorters(), samplePestle(), Options{})

	var pestleOpp *types.DerivedItem
	for i := range d.DerivedOpportunities {
		if d.DerivedOpportunities[i].SourceAnalysis == types.SourcePestle {
			pestleOpp = &d.DerivedOpportunities[i]
		}
	}
	if pestleOpp == nil {
		t.Fatalf("pestle opportunity missing: %+v", d.DerivedOpportunities)
	}
	if pestleOpp.Item != "subsidy program expansion" || pestleOpp.SourceReference != "political" {
		t.Fatalf("pestle item not merged verbatim: %+v", pestleOpp)
	}
	if len(d.SourceFactorsUsed) != 2 {
		t.Fatalf("source factors: %v", d.SourceFactorsUsed)
	}
}

func TestDerive_MarketContextCarriedUnchanged(t *testing.T) {
	p := samplePorters()
	d := Derive(p, nil, Options{})
	if d.MarketContext != p.MarketAttractiveness {
		t.Fatalf("market context altered: %+v", d.MarketContext)
	}
	if len(d.CompetitorInsights.Competitors) != 2 || d.CompetitorInsights.Competitors[0] != "Acme" {
		t.Fatalf("competitors: %+v", d.CompetitorInsights)
	}
}

func TestDerive_Idempotent(t *testing.T) {
	a, _ := json.Marshal(Derive(samplePorters(), samplePestle(), Options{}))
	b, _ := json.Marshal(Derive(samplePorters(), samplePestle(), Options{}))
	if string(a) != string(b) {
		t.Fatalf("derivation not deterministic:\n%s\n%s", a, b)
	}
}

func TestDerive_TieBrokenBySourceDeclarationOrder(t *testing.T) {
	p := &types.PortersOutput{
		ThreatOfNewEntrants: types.Force{Level: types.ForceHigh, Score: 7},
		SupplierPower:       types.Force{Level: types.ForceHigh, Score: 7},
	}
	d := Derive(p, nil, Options{})
	if len(d.DerivedThreats) != 2 {
		t.Fatalf("threats: %d", len(d.DerivedThreats))
	}
	if d.DerivedThreats[0].SourceReference != "New Entrants" {
		t.Fatalf("tie-break order wrong: %+v", d.DerivedThreats)
	}
}

func TestDerive_CustomTopN(t *testing.T) {
	pestle := samplePestle()
	for i := 0; i < 5; i++ {
		pestle.Opportunities = append(pestle.Opportunities, types.PestleItem{Item: "x", Factor: "social", Score: 4})
	}
	d := Derive(nil, pestle, Options{TopN: 2})
	if len(d.DerivedOpportunities) != 2 {
		t.Fatalf("custom cap ignored: %d", len(d.DerivedOpportunities))
	}
	if strings.Contains(d.DerivedOpportunities[0].Item, "Low ") {
		t.Fatalf("unexpected porters item without porters input: %+v", d.DerivedOpportunities[0])
	}
}
