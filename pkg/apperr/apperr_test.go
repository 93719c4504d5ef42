package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", BadRequest("nope"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("who"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Classification must survive fmt.Errorf wrapping along the call chain
func TestStatusThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("apply referral: %w", Conflict("already referred"))
	if got := Status(wrapped); got != http.StatusConflict {
		t.Errorf("Status(wrapped) = %d, want %d", got, http.StatusConflict)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := BadRequestWrap("invalid code", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to reach the wrapped cause")
	}
}
