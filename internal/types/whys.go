package types

// Verdict classifies one Five-Whys reasoning step.
type Verdict string

const (
	VerdictAcceptable         Verdict = "acceptable"
	VerdictNeedsClarification Verdict = "needs_clarification"
	VerdictInvalid            Verdict = "invalid"
)

// ValidVerdict reports whether v is one of the three allowed verdicts.
func ValidVerdict(v Verdict) bool {
	switch v {
	case VerdictAcceptable, VerdictNeedsClarification, VerdictInvalid:
		return true
	}
	return false
}

// IssueType is one of the seven rule categories the judge evaluates.
type IssueType string

const (
	IssueCausality     IssueType = "causality"
	IssueRelevance     IssueType = "relevance"
	IssueSpecificity   IssueType = "specificity"
	IssueEvidence      IssueType = "evidence"
	IssueDuplication   IssueType = "duplication"
	IssueContradiction IssueType = "contradiction"
	IssueCircularity   IssueType = "circularity"
)

// IssueTypes lists the rule categories in the order the judge is asked to
// apply them.
var IssueTypes = []IssueType{
	IssueCausality,
	IssueRelevance,
	IssueSpecificity,
	IssueEvidence,
	IssueDuplication,
	IssueContradiction,
	IssueCircularity,
}

// Severity grades an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Issue is a single rule violation found in a candidate answer.
type Issue struct {
	Type     IssueType `json:"type"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// WhyEvaluation is the judge's verdict on one candidate answer. Produced
// fresh per candidate; never persisted by this subsystem.
type WhyEvaluation struct {
	Verdict            Verdict  `json:"verdict"`
	Issues             []Issue  `json:"issues"`
	FollowUpQuestions  []string `json:"follow_up_questions"`
	ImprovedSuggestion string   `json:"improved_suggestion,omitempty"`
	Reasoning          string   `json:"reasoning"`
}

// CoachingTurn is one message of the coaching conversation history,
// supplied by the caller.
type CoachingTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
