package authflow

import (
	"context"
	"errors"
	"net"

	apperrors "github.com/jrsteele09/go-issue-workspace/internal/errors"
)

var (
	// ErrDuplicateCallback means this code is already being, or has been, exchanged.
	ErrDuplicateCallback = errors.New("authorization callback already handled")
	// ErrAttemptSuperseded means a newer attempt started, or the caller went away,
	// before the exchange returned. The session was left untouched.
	ErrAttemptSuperseded = errors.New("authorization attempt superseded")
)

// temporary is implemented by errors that may succeed on a manual retry.
type temporary interface {
	Temporary() bool
}

// Retryable reports whether err is a transient failure worth offering a retry
// for. Protocol failures always need a fresh attempt and are never retryable.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	switch {
	case errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrMissingVerifier),
		errors.Is(err, apperrors.ErrMissingCode),
		errors.Is(err, apperrors.ErrMissingClientID),
		errors.Is(err, ErrDuplicateCallback),
		errors.Is(err, ErrAttemptSuperseded),
		errors.Is(err, context.Canceled),
		errors.As(err, &pe):
		return false
	}
	// Transport failures reaching the backend are worth a manual retry.
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var t temporary
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
