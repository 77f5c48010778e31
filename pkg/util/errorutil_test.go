package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"passthrough", NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewConflict("taken", nil)), "CONFLICT", http.StatusConflict},
		{"no rows maps to not found", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"unknown error", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"no agents", NewNoAgentsAvailable(), "NO_AGENTS_AVAILABLE", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", got.Code, tt.wantCode)
			}
			if got.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", got.HTTPStatus, tt.wantStatus)
			}
		})
	}

	if ToDomainError(nil) != nil {
		t.Error("ToDomainError(nil) != nil")
	}
	if MapError(nil) != nil {
		t.Error("MapError(nil) != nil")
	}
}

func TestNotFoundHidesOwnership(t *testing.T) {
	t.Parallel()

	missing := ToDomainError(NewNotFound("ticket", nil))
	notOwned := ToDomainError(NewNotFound("ticket", nil))

	if missing.Code != notOwned.Code || missing.Message != notOwned.Message || missing.HTTPStatus != notOwned.HTTPStatus {
		t.Error("missing and unauthorized resources must be indistinguishable")
	}
}
