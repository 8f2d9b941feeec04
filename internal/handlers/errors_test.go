package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"editor-note/internal/service"
	"editor-note/internal/storage"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "permission", err: &service.PermissionError{Capability: "x"}, wantStatus: http.StatusForbidden},
		{name: "validation", err: &service.ValidationError{Field: "body", Message: "bad"}, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: fmt.Errorf("wrap: %w", service.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "service not found", err: service.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "storage not found", err: fmt.Errorf("get: %w", storage.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "other", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleServiceError(w, context.Background(), tt.err, "failed")
			if w.Code != tt.wantStatus {
				t.Errorf("handleServiceError() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}
