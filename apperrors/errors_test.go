package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		err      *Error
		expected int
	}{
		{Validation("bad", nil), http.StatusBadRequest},
		{Authentication("who", nil), http.StatusUnauthorized},
		{Authorization("no", nil), http.StatusForbidden},
		{NotFound("gone", nil), http.StatusNotFound},
		{Conflict("dup", nil), http.StatusConflict},
		{Internal("oops", nil), http.StatusInternalServerError},
		{External("upstream", nil), http.StatusBadGateway},
		{RateLimit("slow down", nil), http.StatusTooManyRequests},
		{Unavailable("off", nil), http.StatusServiceUnavailable},
		{New(TypeUnknown, "?", nil), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Message, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.StatusCode())
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := External("Quote provider unavailable", cause)

	assert.Equal(t, "Quote provider unavailable: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Ticker not found", NotFound("Ticker not found", nil).Error())
}

func TestError_IsMatchesType(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("Asset not found", nil))

	assert.True(t, errors.Is(err, &Error{Type: TypeNotFound}))
	assert.False(t, errors.Is(err, &Error{Type: TypeConflict}))
}

func TestAs(t *testing.T) {
	appErr := Authorization("Access denied", nil)
	assert.Same(t, appErr, As(fmt.Errorf("ctx: %w", appErr)))

	plain := As(errors.New("boom"))
	assert.Equal(t, TypeInternal, plain.Type)
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode())
	assert.Equal(t, "Internal server error", plain.Message)
}
