package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("resident", nil), http.StatusNotFound},
		{"bad request", BadRequest("invalid medicine", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"forbidden", Forbidden("permission denied"), http.StatusForbidden},
		{"conflict", Conflict("duplicate", nil), http.StatusConflict},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	cause := fmt.Errorf("pq: relation \"requests\" does not exist")

	assert.Equal(t, "internal server error", PublicMessage(Internal(cause)))
	assert.Equal(t, "internal server error", PublicMessage(cause))
	assert.Equal(t, "resident not found", PublicMessage(fmt.Errorf("lookup: %w", NotFound("resident", cause))))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	appErr, ok := As(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, ErrInternal, appErr.Code)
}
