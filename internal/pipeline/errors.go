package pipeline

import "fmt"

// StageFailure is a fatal pipeline error: the named stage could not
// produce its output and the run was aborted. Distinguishable from a
// degraded per-item result, which surfaces as a marked entry in the
// normal result.
type StageFailure struct {
	Stage string
	Err   error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("pipeline: stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageFailure) Unwrap() error { return e.Err }

func stageFailure(stage string, err error) error {
	return &StageFailure{Stage: stage, Err: err}
}
