package autherr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Conflict("email already registered"))
	require.ErrorIs(t, err, ErrConflict)
	require.NotErrorIs(t, err, ErrValidation)
	require.Equal(t, KindConflict, KindOf(err))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestTokenValidationReasons(t *testing.T) {
	err := TokenValidation(ReasonInvalidAudience, "audience mismatch")
	require.ErrorIs(t, err, ErrTokenValidation)
	require.ErrorIs(t, err, ErrInvalidAudience)
	require.NotErrorIs(t, err, ErrTokenExpired)
	require.Contains(t, err.Error(), ReasonInvalidAudience)
}

func TestExternalServiceKeepsBody(t *testing.T) {
	cause := errors.New("status 400")
	err := ExternalService("token exchange failed", `{"error":"invalid_grant"}`, cause)
	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, `{"error":"invalid_grant"}`, e.Body)
	require.ErrorIs(t, err, cause)
}
