package llm

import "context"

type phaseKey struct{}

// WithPhase tags the context with the current pipeline phase, used for
// logging and fake-client dispatch.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

// PhaseFrom returns the phase tag, or "unknown" when absent.
func PhaseFrom(ctx context.Context) string {
	if v, ok := ctx.Value(phaseKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
