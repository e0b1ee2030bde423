package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned before any model call when a required
	// field is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrGenerationFailed matches every failure of a model call.
	ErrGenerationFailed = errors.New("generation failed")
)

// Stage names the model call a GenerationError happened in.
type Stage string

const (
	StageDraft  Stage = "draft"
	StageJudge  Stage = "judge"
	StageRevise Stage = "revise"
)

// GenerationError wraps the last upstream failure of a stage.
type GenerationError struct {
	Stage    Stage
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGenerationFailed, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// Retryable reports whether the underlying failure was transient.
func (e *GenerationError) Retryable() bool {
	return IsRetryable(e.Err)
}

// IsRetryable reports whether err carries a transient upstream failure.
func IsRetryable(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	return false
}
