package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
)

// Kind classifies session failures.
type Kind int

const (
	// KindAuthentication: bad credentials or an invalid/expired token.
	KindAuthentication Kind = iota + 1
	// KindNetwork: transient transport or server failure; retryable.
	KindNetwork
	// KindAuthorization: the identity lacks a required role.
	KindAuthorization
	// KindValidation: the request was rejected as malformed.
	KindValidation
	// KindStorage: the local credential store could not be read or written.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNetwork:
		return "network"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrNoSession is returned by operations that need an active session.
var ErrNoSession = errors.New("no active session")

// Failure is the typed failure of a session operation. Reason is meant for
// display.
type Failure struct {
	Kind   Kind
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether repeating the operation may succeed.
func (f *Failure) Retryable() bool { return f.Kind == KindNetwork }

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}

// classify maps a REST error to a Failure. fallback is the reason used when
// the server did not supply one.
func classify(err error, fallback string) *Failure {
	f := &Failure{Err: err, Reason: fallback}

	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden), errors.Is(err, client.ErrNotFound):
		f.Kind = KindAuthentication
	case errors.Is(err, client.ErrBadRequest):
		f.Kind = KindValidation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		f.Kind = KindNetwork
		f.Reason = "request cancelled or timed out"
		return f
	case errors.Is(err, client.ErrUnavailable):
		f.Kind = KindNetwork
	default:
		f.Kind = KindNetwork
		f.Reason = "unexpected server response"
		return f
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		f.Reason = apiErr.Detail
	}
	return f
}

func storageFailure(err error, reason string) *Failure {
	return &Failure{Kind: KindStorage, Reason: reason, Err: err}
}

func validation(reason string) *Failure {
	return &Failure{Kind: KindValidation, Reason: reason}
}
