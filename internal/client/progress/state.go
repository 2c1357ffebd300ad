package progress

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
)

var (
	// ErrMissingArtifact means a terminal event did not say which artifact
	// to read.
	ErrMissingArtifact = errors.New("terminal event carries no artifact id")
	// ErrNotMounted is returned by operations that require a mounted
	// projector.
	ErrNotMounted = errors.New("projector is not mounted")
)

// JobError is a failure reported by the server for the job itself.
type JobError struct {
	Message string
}

func (e *JobError) Error() string {
	if e.Message == "" {
		return "job failed"
	}
	return fmt.Sprintf("job failed: %s", e.Message)
}

// Phase is the lifecycle position of a projection.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseInProgress
	PhaseFetching
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseInProgress:
		return "in progress"
	case PhaseFetching:
		return "fetching result"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether no further transitions will happen.
func (p Phase) Terminal() bool {
	return p == PhaseReady || p == PhaseFailed
}

// State is the projected view state. Result is set in PhaseReady and Err
// in PhaseFailed.
type State[R any] struct {
	Phase    Phase
	Status   models.Status
	Progress int
	Message  string
	Result   *R
	Err      error
}
