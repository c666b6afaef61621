package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stratify/internal/llmclient"
	"stratify/internal/telemetry"
	"stratify/internal/types"
)

// DefaultSignificantThreshold is the confidence a comparison needs to be
// eligible for narrative synthesis. Override via Orchestrator.Threshold.
const DefaultSignificantThreshold = 0.6

// Orchestrator sequences the analysis stages for one run: extract domain
// -> generate claims -> compare assumptions -> synthesize. Construct one
// per request; it holds no cross-run state.
type Orchestrator struct {
	Domain  *DomainStage
	Claims  *ClaimStage
	Compare *ComparatorStage
	Synth   *SynthesisStage

	// Threshold for the significant-comparison filter; 0 means
	// DefaultSignificantThreshold.
	Threshold float64

	Log *zap.Logger
}

// NewOrchestrator wires all stages onto one fallback client chain.
func NewOrchestrator(llm *llmclient.Fallback, threshold float64, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		Domain:    &DomainStage{LLM: llm},
		Claims:    &ClaimStage{LLM: llm},
		Compare:   &ComparatorStage{LLM: llm},
		Synth:     &SynthesisStage{LLM: llm},
		Threshold: threshold,
		Log:       log,
	}
}

func (o *Orchestrator) threshold() float64 {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return DefaultSignificantThreshold
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Log != nil {
		return o.Log
	}
	return zap.NewNop()
}

// Run executes the full pipeline for one understanding. The telemetry
// ledger is created here, threaded through every stage by reference, and
// becomes read-only in the returned result. A stage error aborts the run
// as *StageFailure; the ledger's retry counter is incremented once before
// re-raising (stage-internal retries already happened below this level).
func (o *Orchestrator) Run(ctx context.Context, understandingID string, in RunInput) (*types.AnalysisResult, error) {
	log := o.logger().With(zap.String("understanding_id", understandingID))
	led := telemetry.NewLedger()
	runStart := time.Now()

	domain, err := o.Domain.Run(ctx, in, led)
	if err != nil {
		led.RecordRetry()
		return nil, stageFailure("domain", err)
	}
	log.Info("domain extracted",
		zap.String("industry", domain.Industry),
		zap.Int("assumptions", len(domain.Assumptions)))

	claims, err := o.Claims.Run(ctx, domain, nil, led)
	if err != nil {
		led.RecordRetry()
		return nil, stageFailure("claims", err)
	}
	log.Info("claims generated", zap.Int("count", claims.Count()))

	// Canonical flattening: category enumeration order, then declaration
	// order within category.
	flat := claims.Flatten()

	comparisons, err := o.Compare.Run(ctx, domain, flat, led)
	if err != nil {
		led.RecordRetry()
		return nil, stageFailure("compare", err)
	}
	significant := Significant(comparisons, o.threshold())
	stats := Stats(comparisons)
	log.Info("assumptions compared",
		zap.Int("total", stats.Total),
		zap.Int("significant", len(significant)))

	synthesis, err := o.Synth.Run(ctx, domain, claims, significant, stats, led)
	if err != nil {
		led.RecordRetry()
		return nil, stageFailure("synthesize", err)
	}

	snap := led.Snapshot()
	log.Info("run complete",
		zap.Int64("llm_calls", snap.LLMCalls),
		zap.Duration("elapsed", time.Since(runStart)))

	return &types.AnalysisResult{
		Version:         types.AnalysisResultVersion,
		RunID:           uuid.NewString(),
		UnderstandingID: understandingID,
		Domain:          domain,
		Claims:          claims,
		Comparisons:     comparisons,
		Significant:     significant,
		Stats:           stats,
		Synthesis:       synthesis,
		Telemetry:       snap,
		CompletedAt:     time.Now().UTC(),
	}, nil
}
