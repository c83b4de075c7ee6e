package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("who"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"conflict", Conflict("race"), http.StatusConflict},
		{"unprocessable", Unprocessable("edge"), http.StatusUnprocessableEntity},
		{"unavailable", Unavailable("off"), http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped kind", fmt.Errorf("ctx: %w", NotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	err := Wrap(errors.New("dial tcp 10.0.0.3:5432: connection refused"), "load order")

	assert.Equal(t, "Server Error", PublicMessage(err))
	assert.Equal(t, "Server Error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "Order not found", PublicMessage(NotFound("Order not found")))
	assert.Contains(t, err.Error(), "connection refused")
}
