package telemetry

import (
	"testing"
	"time"
)

func TestLedger_Accumulates(t *testing.T) {
	l := NewLedger()
	l.AddLatency(120 * time.Millisecond)
	l.AddLatency(80 * time.Millisecond)
	l.RecordLLMCall("Gemini:flash")
	l.RecordLLMCall("Gemini:flash")
	l.RecordLLMCall("Groq:llama")
	l.RecordCacheHit()
	l.RecordAPICall()
	l.RecordRetry()

	snap := l.Snapshot()
	if snap.TotalLatencyMS != 200 {
		t.Fatalf("latency: got %d want 200", snap.TotalLatencyMS)
	}
	if snap.LLMCalls != 3 {
		t.Fatalf("llm calls: got %d want 3", snap.LLMCalls)
	}
	if snap.ProviderUsage["Gemini:flash"] != 2 || snap.ProviderUsage["Groq:llama"] != 1 {
		t.Fatalf("provider usage: %v", snap.ProviderUsage)
	}
	if snap.CacheHits != 1 || snap.APICalls != 1 || snap.Retries != 1 {
		t.Fatalf("counters: %+v", snap)
	}
}

func TestLedger_SnapshotIsCopy(t *testing.T) {
	l := NewLedger()
	l.RecordLLMCall("a")
	snap := l.Snapshot()
	snap.ProviderUsage["a"] = 99
	if got := l.Snapshot().ProviderUsage["a"]; got != 1 {
		t.Fatalf("snapshot leaked mutation: %d", got)
	}
}

func TestLedger_NegativeLatencyIgnored(t *testing.T) {
	l := NewLedger()
	l.AddLatency(-time.Second)
	if got := l.Snapshot().TotalLatencyMS; got != 0 {
		t.Fatalf("latency: got %d want 0", got)
	}
}
