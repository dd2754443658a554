package roadmap

import "fmt"

// Stage identifies a pipeline stage for error reporting.
type Stage string

// Stage constants name the three generation stages.
const (
	StageTierLookup Stage = "tier-lookup"
	StageAllocation Stage = "allocation"
	StageContent    Stage = "content"
)

// ServiceError represents a failed or unparsable reasoning-service call. It is
// fatal to the stage that produced it and aborts the whole request; earlier
// stages' cache entries remain valid for a later retry.
type ServiceError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stage %s failed: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// ValidationError represents malformed graph data reaching the assembler,
// such as a dependency cycle. It is recoverable at the edge level.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
