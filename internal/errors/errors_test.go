package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/jrsteele09/go-issue-workspace/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, errors.Wrapf(nil, "ignored"))

	err := errors.Wrapf(errors.ErrInvalidState, "callback %s", "abc")
	require.EqualError(t, err, "callback abc: invalid state parameter")
	require.ErrorIs(t, err, errors.ErrInvalidState)
	require.False(t, stderrors.Is(err, errors.ErrMissingVerifier))
}

type statusErr struct{ code int }

func (s *statusErr) Error() string { return "status" }

func TestWrapf_KeepsTypedErrors(t *testing.T) {
	err := errors.Wrapf(&statusErr{code: 401}, "fetch")
	var se *statusErr
	require.ErrorAs(t, err, &se)
	require.Equal(t, 401, se.code)
}
