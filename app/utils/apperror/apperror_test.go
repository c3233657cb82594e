package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad %s", "input"), http.StatusBadRequest},
		{Unauthorized("Token missing"), http.StatusUnauthorized},
		{Forbidden("Access denied"), http.StatusForbidden},
		{NotFound("Perfume not found"), http.StatusNotFound},
		{Conflict("Email already exists"), http.StatusConflict},
		{Internal("Order failed", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Status(), c.err.Message)
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := From(cause)

	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "Internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestFromFindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", NotFound("Perfume ID %d not found or unavailable", 7))

	got := From(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "Perfume ID 7 not found or unavailable", got.Message)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindConflict))
}
