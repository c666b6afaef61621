package types

// ForceLevel is the qualitative intensity of a competitive force.
type ForceLevel string

const (
	ForceLow    ForceLevel = "low"
	ForceMedium ForceLevel = "medium"
	ForceHigh   ForceLevel = "high"
)

// Force is one of the five competitive forces in a finished Porter's
// analysis.
type Force struct {
	Level      ForceLevel `json:"level"`
	Score      float64    `json:"score"`
	Rationale  string     `json:"rationale"`
	KeyFactors []string   `json:"key_factors"`
}

// PortersOutput is the finished Five Forces framework output consumed by
// the bridge. Field order is the canonical force declaration order used
// for tie-breaking.
type PortersOutput struct {
	ThreatOfNewEntrants Force `json:"threat_of_new_entrants"`
	SupplierPower       Force `json:"supplier_power"`
	BuyerPower          Force `json:"buyer_power"`
	ThreatOfSubstitutes Force `json:"threat_of_substitutes"`
	CompetitiveRivalry  Force `json:"competitive_rivalry"`

	Competitors []string `json:"competitors"`
	Suppliers   []string `json:"suppliers"`
	Substitutes []string `json:"substitutes"`

	MarketAttractiveness MarketAttractiveness `json:"market_attractiveness"`
}

// NamedForce pairs a force with its canonical key and display name.
type NamedForce struct {
	Key   string
	Name  string
	Force Force
}

// ForcesInOrder returns the five forces in declaration order.
func (p *PortersOutput) ForcesInOrder() []NamedForce {
	return []NamedForce{
		{Key: "threatOfNewEntrants", Name: "New Entrants", Force: p.ThreatOfNewEntrants},
		{Key: "supplierPower", Name: "Supplier Power", Force: p.SupplierPower},
		{Key: "buyerPower", Name: "Buyer Power", Force: p.BuyerPower},
		{Key: "threatOfSubstitutes", Name: "Substitutes", Force: p.ThreatOfSubstitutes},
		{Key: "competitiveRivalry", Name: "Competitive Rivalry", Force: p.CompetitiveRivalry},
	}
}

// MarketAttractiveness summarizes how attractive the analyzed market is.
// Carried through the bridge unchanged.
type MarketAttractiveness struct {
	Score      float64 `json:"score"`
	Assessment string  `json:"assessment"`
	Rationale  string  `json:"rationale"`
}

// PestleItem is an opportunity or threat surfaced by a finished PESTLE
// analysis, used as the bridge's secondary source.
type PestleItem struct {
	Item   string  `json:"item"`
	Factor string  `json:"factor"`
	Score  float64 `json:"score"`
}

// PestleOutput is the finished PESTLE framework output consumed as the
// bridge's optional secondary source.
type PestleOutput struct {
	Opportunities []PestleItem `json:"opportunities"`
	Threats       []PestleItem `json:"threats"`
}

// SourceAnalysis tags which upstream framework a derived item came from.
type SourceAnalysis string

const (
	SourcePorters SourceAnalysis = "porters"
	SourcePestle  SourceAnalysis = "pestle"
)

// DerivedItem is a bridge-produced opportunity or threat. Priority is a
// rank: lower means more important. SourceReference is always non-empty.
type DerivedItem struct {
	Item            string         `json:"item"`
	SourceAnalysis  SourceAnalysis `json:"source_analysis"`
	SourceReference string         `json:"source_reference"`
	Priority        int            `json:"priority"`
}

// CompetitorInsights carries named market actors from the upstream
// analysis for downstream narrative use.
type CompetitorInsights struct {
	Competitors []string `json:"competitors"`
	Suppliers   []string `json:"suppliers"`
	Substitutes []string `json:"substitutes"`
}

// Derivation is the bridge output handed to a downstream framework stage.
type Derivation struct {
	DerivedOpportunities []DerivedItem        `json:"derived_opportunities"`
	DerivedThreats       []DerivedItem        `json:"derived_threats"`
	SourceForcesUsed     []string             `json:"source_forces_used"`
	SourceFactorsUsed    []string             `json:"source_factors_used"`
	CompetitorInsights   CompetitorInsights   `json:"competitor_insights"`
	MarketContext        MarketAttractiveness `json:"market_context"`
}
