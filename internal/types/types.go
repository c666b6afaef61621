package types

import "time"

// Confidence is the qualitative confidence bucket attached to a claim.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// TimeHorizon classifies when a claim is expected to matter.
type TimeHorizon string

const (
	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"
)

// Category is one of the six PESTLE buckets.
type Category string

const (
	CategoryPolitical     Category = "political"
	CategoryEconomic      Category = "economic"
	CategorySocial        Category = "social"
	CategoryTechnological Category = "technological"
	CategoryLegal         Category = "legal"
	CategoryEnvironmental Category = "environmental"
)

// Categories is the canonical category enumeration. Flattening and claim
// ids follow this order.
var Categories = []Category{
	CategoryPolitical,
	CategoryEconomic,
	CategorySocial,
	CategoryTechnological,
	CategoryLegal,
	CategoryEnvironmental,
}

// Assumption is an atomic user-stated belief, referenced by id from
// comparisons.
type Assumption struct {
	ID    string `json:"id"`
	Claim string `json:"claim"`
}

// DomainContext is the normalized domain description produced once per run.
// Immutable after extraction.
type DomainContext struct {
	Industry    string       `json:"industry"`
	Geography   string       `json:"geography"`
	Language    string       `json:"language"`
	Assumptions []Assumption `json:"assumptions"`
}

// Claim is a single categorized finding. Immutable once generated.
type Claim struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Claim       string      `json:"claim"`
	Evidence    []string    `json:"evidence"`
	Sources     []string    `json:"sources"`
	Confidence  Confidence  `json:"confidence"`
	TimeHorizon TimeHorizon `json:"time_horizon"`
	Rationale   string      `json:"rationale"`
}

// ClaimSet groups claims into the six PESTLE buckets.
type ClaimSet struct {
	Political     []Claim `json:"political"`
	Economic      []Claim `json:"economic"`
	Social        []Claim `json:"social"`
	Technological []Claim `json:"technological"`
	Legal         []Claim `json:"legal"`
	Environmental []Claim `json:"environmental"`
}

// ByCategory returns the bucket for a category. Unknown categories yield nil.
func (s *ClaimSet) ByCategory(c Category) []Claim {
	switch c {
	case CategoryPolitical:
		return s.Political
	case CategoryEconomic:
		return s.Economic
	case CategorySocial:
		return s.Social
	case CategoryTechnological:
		return s.Technological
	case CategoryLegal:
		return s.Legal
	case CategoryEnvironmental:
		return s.Environmental
	}
	return nil
}

// Flatten returns all claims in canonical category order, preserving
// declaration order within each category.
func (s *ClaimSet) Flatten() []Claim {
	out := make([]Claim, 0, s.Count())
	for _, c := range Categories {
		out = append(out, s.ByCategory(c)...)
	}
	return out
}

// Count is the total number of claims across all buckets.
func (s *ClaimSet) Count() int {
	n := 0
	for _, c := range Categories {
		n += len(s.ByCategory(c))
	}
	return n
}

// Relationship is the comparator's judgment of an assumption against the
// generated claims.
type Relationship string

const (
	RelationshipValidates          Relationship = "validates"
	RelationshipContradicts        Relationship = "contradicts"
	RelationshipPartiallyValidates Relationship = "partially_validates"
	// RelationshipNeutral is the degraded judgment used when the
	// comparator could not evaluate an assumption.
	RelationshipNeutral Relationship = "neutral"
)

// Comparison cross-references one assumption against the claim set.
// Stored in assumption-declaration order; one per assumption per run.
type Comparison struct {
	AssumptionID    string       `json:"assumption_id"`
	Relationship    Relationship `json:"relationship"`
	RelatedClaimIDs []string     `json:"related_claim_ids"`
	Confidence      float64      `json:"confidence"`
	Evidence        string       `json:"evidence"`
	Explanation     string       `json:"explanation"`
	// Degraded marks a per-item fallback: the run continued but this
	// entry carries no real judgment.
	Degraded bool `json:"degraded,omitempty"`
}

// ComparisonStats summarizes the unfiltered comparison set for
// observability. Rates are fractions of Total (0 when Total is 0).
type ComparisonStats struct {
	Total              int     `json:"total"`
	Validated          int     `json:"validated"`
	Contradicted       int     `json:"contradicted"`
	PartiallyValidated int     `json:"partially_validated"`
	Neutral            int     `json:"neutral"`
	ValidatedRate      float64 `json:"validated_rate"`
	ContradictedRate   float64 `json:"contradicted_rate"`
}

// Synthesis is the terminal narrative artifact of a pipeline run.
type Synthesis struct {
	ExecutiveSummary      string   `json:"executive_summary"`
	KeyFindings           []string `json:"key_findings"`
	StrategicImplications []string `json:"strategic_implications"`
	RecommendedActions    []string `json:"recommended_actions"`
	Risks                 []string `json:"risks"`
	Opportunities         []string `json:"opportunities"`
}

// TelemetrySnapshot is the read-only view of a run's telemetry ledger.
type TelemetrySnapshot struct {
	TotalLatencyMS int64            `json:"total_latency_ms"`
	LLMCalls       int64            `json:"llm_calls"`
	ProviderUsage  map[string]int64 `json:"provider_usage"`
	CacheHits      int64            `json:"cache_hits"`
	APICalls       int64            `json:"api_calls"`
	Retries        int64            `json:"retries"`
}

// AnalysisResultVersion identifies the AnalysisResult envelope shape.
// Bump when the envelope changes so downstream consumers never have to
// shape-sniff nested payloads.
const AnalysisResultVersion = 1

// AnalysisResult is the explicit, versioned envelope returned by a
// successful pipeline run.
type AnalysisResult struct {
	Version         int               `json:"version"`
	RunID           string            `json:"run_id"`
	UnderstandingID string            `json:"understanding_id"`
	Domain          DomainContext     `json:"domain"`
	Claims          ClaimSet          `json:"claims"`
	Comparisons     []Comparison      `json:"comparisons"`
	Significant     []Comparison      `json:"significant_comparisons"`
	Stats           ComparisonStats   `json:"comparison_stats"`
	Synthesis       Synthesis         `json:"synthesis"`
	Telemetry       TelemetrySnapshot `json:"telemetry"`
	CompletedAt     time.Time         `json:"completed_at"`
}
