package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type classifiedErr struct{}

func (classifiedErr) Error() string { return "classified" }

func (classifiedErr) DomainError() *DomainError {
	return NewDomainError("CUSTOM", "custom", http.StatusTeapot, nil)
}

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewConflict("dup", nil)), "CONFLICT", http.StatusConflict},
		{"classifier", fmt.Errorf("wrap: %w", classifiedErr{}), "CUSTOM", http.StatusTeapot},
		{"fiber error", fiber.NewError(http.StatusBadRequest, "bad"), "BAD_REQUEST", http.StatusBadRequest},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestNewUnavailable_HidesCause(t *testing.T) {
	err := NewUnavailable(errors.New("dial tcp: refused")).(*DomainError)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
	assert.Equal(t, "service temporarily unavailable", err.Message)
	assert.ErrorContains(t, err, "dial tcp")
}
