// Package coach judges Five-Whys reasoning steps and answers free-form
// coaching questions. It sits in an interactive wizard flow, so every
// failure degrades to a safe generic result instead of an error.
package coach

import (
	"context"
	"strings"
	"unicode"

	"stratify/internal/llm"
	"stratify/internal/llmclient"
	"stratify/internal/prompt"
	"stratify/internal/telemetry"
	"stratify/internal/types"
	"stratify/internal/util/jsonutil"
)

var validatePromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Judge whether a candidate 'why' answer is an acceptable causal step in a Five Whys chain.",
	Background: "The chain starts from a root question; each level must name a cause of the previous level. Evaluate against seven rule categories: causality, relevance, specificity, evidence, duplication, contradiction, circularity.",
	OutputFields: []prompt.Field{
		{Name: "verdict", Type: "string", Required: true, Description: "One of acceptable|needs_clarification|invalid."},
		{Name: "issues", Type: "[]Issue", Required: true, Description: "Violations as {type, message, severity}; type is one of the seven rule categories, severity critical|warning."},
		{Name: "follow_up_questions", Type: "[]string", Required: true, Description: "Questions that would move the user forward."},
		{Name: "improved_suggestion", Type: "string", Required: false, Description: "A stronger phrasing of the answer, when one exists."},
		{Name: "reasoning", Type: "string", Required: true, Description: "Why the verdict holds."},
	},
	Constraints: []string{
		"An answer that merely restates the question or a previous why is invalid.",
		"A verdict of invalid requires at least one critical issue.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetCautious())

var coachingPromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Answer the user's question about how to improve their Five Whys reasoning step.",
	Background: "Supportive coaching inside an interactive wizard. Use the conversation history for context; do not judge, help.",
	OutputFields: []prompt.Field{
		{Name: "guidance", Type: "string", Required: true, Description: "Concrete, encouraging guidance in 2-4 sentences."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON())

// Coach evaluates candidate answers. Construct one per request; it keeps
// no cross-call state beyond what the caller supplies.
type Coach struct {
	LLM *llmclient.Fallback
	// Ledger is optional; when set, successful judge calls are recorded.
	Ledger *telemetry.Ledger
}

// ValidateWhy classifies one candidate answer. It never returns an
// error: when the judge is unreachable or returns garbage, the caller
// gets the deterministic needs_clarification fallback so the wizard can
// always proceed.
func (c *Coach) ValidateWhy(ctx context.Context, level int, candidate string, previousWhys []string, rootQuestion string) types.WhyEvaluation {
	if eval, rejected := preScreen(candidate, previousWhys, rootQuestion); rejected {
		return eval
	}

	ctx = llm.WithPhase(ctx, "whys_validate")
	input := map[string]any{
		"level":         level,
		"candidate":     candidate,
		"previous_whys": previousWhys,
		"root_question": rootQuestion,
		"rule_types":    types.IssueTypes,
	}
	p, err := validatePromptSpec.Build(input)
	if err != nil {
		return fallbackEvaluation()
	}
	resp, err := c.LLM.Call(ctx, p, input)
	if err != nil {
		return fallbackEvaluation()
	}
	if c.Ledger != nil {
		c.Ledger.RecordLLMCall(resp.Provider)
	}

	var out types.WhyEvaluation
	if res := jsonutil.Parse(string(resp.Raw), &out); !res.Success {
		return fallbackEvaluation()
	}
	if !types.ValidVerdict(out.Verdict) {
		return fallbackEvaluation()
	}
	if out.Issues == nil {
		out.Issues = []types.Issue{}
	}
	if out.FollowUpQuestions == nil {
		out.FollowUpQuestions = []string{}
	}
	return out
}

// Coaching answers a free-form user question about improving their
// answer. On any failure it returns generic supportive guidance.
func (c *Coach) Coaching(ctx context.Context, question, candidate, rootQuestion string, history []types.CoachingTurn) string {
	ctx = llm.WithPhase(ctx, "whys_coaching")
	input := map[string]any{
		"question":      question,
		"candidate":     candidate,
		"root_question": rootQuestion,
		"history":       history,
	}
	p, err := coachingPromptSpec.Build(input)
	if err != nil {
		return genericGuidance
	}
	resp, err := c.LLM.Call(ctx, p, input)
	if err != nil {
		return genericGuidance
	}
	if c.Ledger != nil {
		c.Ledger.RecordLLMCall(resp.Provider)
	}
	var out struct {
		Guidance string `json:"guidance"`
	}
	if res := jsonutil.Parse(string(resp.Raw), &out); !res.Success || strings.TrimSpace(out.Guidance) == "" {
		return genericGuidance
	}
	return out.Guidance
}

const genericGuidance = "Focus on what directly caused the situation in the previous step. " +
	"Name a single concrete cause, say who or what was involved, and point to something observable that supports it."

// preScreen rejects pure restatements before spending a judge call: a
// candidate identical to the root question or to a previous why can
// never be a new causal step.
func preScreen(candidate string, previousWhys []string, rootQuestion string) (types.WhyEvaluation, bool) {
	cand := normalize(candidate)
	if cand == "" {
		return types.WhyEvaluation{
			Verdict: types.VerdictNeedsClarification,
			Issues: []types.Issue{{
				Type:     types.IssueSpecificity,
				Message:  "The answer is empty.",
				Severity: types.SeverityWarning,
			}},
			FollowUpQuestions: []string{"What caused the situation described in the previous step?"},
			Reasoning:         "An empty answer cannot be evaluated.",
		}, true
	}
	if cand == normalize(rootQuestion) {
		return types.WhyEvaluation{
			Verdict: types.VerdictInvalid,
			Issues: []types.Issue{{
				Type:     types.IssueCausality,
				Message:  "The answer restates the root question instead of naming a cause.",
				Severity: types.SeverityCritical,
			}},
			FollowUpQuestions: []string{"What underlying cause produced this situation?"},
			Reasoning:         "A restatement of the question introduces no causal step.",
		}, true
	}
	for _, prev := range previousWhys {
		if cand == normalize(prev) {
			return types.WhyEvaluation{
				Verdict: types.VerdictInvalid,
				Issues: []types.Issue{{
					Type:     types.IssueDuplication,
					Message:  "The answer repeats an earlier step in the chain.",
					Severity: types.SeverityCritical,
				}},
				FollowUpQuestions: []string{"What deeper cause lies behind the step you already gave?"},
				Reasoning:         "Repeating an earlier why adds no depth to the chain.",
			}, true
		}
	}
	return types.WhyEvaluation{}, false
}

// fallbackEvaluation is the deterministic verdict used when the judge is
// unavailable. Degraded-but-available beats unavailable in this flow.
func fallbackEvaluation() types.WhyEvaluation {
	return types.WhyEvaluation{
		Verdict: types.VerdictNeedsClarification,
		Issues: []types.Issue{{
			Type:     types.IssueSpecificity,
			Message:  "The answer could not be fully evaluated; add more detail and try again.",
			Severity: types.SeverityWarning,
		}},
		FollowUpQuestions: []string{
			"What directly caused the situation described in the previous step?",
			"What evidence supports this cause?",
		},
		Reasoning: "The evaluation service was unavailable, so the answer is treated as needing clarification.",
	}
}

// normalize lowercases and strips punctuation/whitespace so cosmetic
// differences do not hide a restatement.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
