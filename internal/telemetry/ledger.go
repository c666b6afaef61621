// Package telemetry accumulates per-run pipeline counters: latency, LLM
// call counts with provider attribution, cache hits, external API calls,
// and retries.
package telemetry

import (
	"sync"
	"time"

	"stratify/internal/types"
)

// Ledger is the per-run telemetry accumulator. Stages append to it by
// reference; it is never reset, pooled, or shared across runs. All
// mutators are additive.
type Ledger struct {
	mu            sync.Mutex
	totalLatency  time.Duration
	llmCalls      int64
	providerUsage map[string]int64
	cacheHits     int64
	apiCalls      int64
	retries       int64
}

// NewLedger returns an empty ledger for a single run.
func NewLedger() *Ledger {
	return &Ledger{providerUsage: make(map[string]int64)}
}

// AddLatency adds a stage's elapsed wall-clock time.
func (l *Ledger) AddLatency(d time.Duration) {
	if d < 0 {
		return
	}
	l.mu.Lock()
	l.totalLatency += d
	l.mu.Unlock()
}

// RecordLLMCall records one completed LLM call attributed to provider.
// Called exactly once per call, not once per retry.
func (l *Ledger) RecordLLMCall(provider string) {
	l.mu.Lock()
	l.llmCalls++
	if provider != "" {
		l.providerUsage[provider]++
	}
	l.mu.Unlock()
}

// RecordCacheHit records that a stage consumed a pre-cached upstream
// output instead of re-deriving it.
func (l *Ledger) RecordCacheHit() {
	l.mu.Lock()
	l.cacheHits++
	l.mu.Unlock()
}

// RecordAPICall records one external (non-LLM) API call.
func (l *Ledger) RecordAPICall() {
	l.mu.Lock()
	l.apiCalls++
	l.mu.Unlock()
}

// RecordRetry increments the retry counter. Kept for telemetry
// compatibility; see the orchestrator's failure path.
func (l *Ledger) RecordRetry() {
	l.mu.Lock()
	l.retries++
	l.mu.Unlock()
}

// Snapshot returns a read-only copy of the current counters.
func (l *Ledger) Snapshot() types.TelemetrySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	usage := make(map[string]int64, len(l.providerUsage))
	for k, v := range l.providerUsage {
		usage[k] = v
	}
	return types.TelemetrySnapshot{
		TotalLatencyMS: l.totalLatency.Milliseconds(),
		LLMCalls:       l.llmCalls,
		ProviderUsage:  usage,
		CacheHits:      l.cacheHits,
		APICalls:       l.apiCalls,
		Retries:        l.retries,
	}
}
