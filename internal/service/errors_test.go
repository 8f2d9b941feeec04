package service

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		want    string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "message",
				Message: "cannot be empty",
			},
			want: "validation error on field message: cannot be empty",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("original error"),
			msg:     "context",
			wantNil: false,
			wantMsg: "context: original error",
		},
		{
			name:    "empty message",
			err:     errors.New("original error"),
			msg:     "",
			wantNil: false,
			wantMsg: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Errorf("WrapError() = nil, want error")
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got.Error(), tt.wantMsg)
			}
			// Verify error wrapping
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() should wrap original error")
			}
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := error(&ValidationError{Field: "body", Message: "required"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
}

func TestPermissionError(t *testing.T) {
	tests := []struct {
		name    string
		err     *PermissionError
		wantMsg string
	}{
		{
			name:    "with capability",
			err:     &PermissionError{Capability: "edit_others_posts"},
			wantMsg: "permission denied: requires edit_others_posts",
		},
		{
			name:    "without capability",
			err:     &PermissionError{},
			wantMsg: "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("PermissionError.Error() = %v, want %v", got, tt.wantMsg)
			}

			wrapped := WrapError(tt.err, "report")
			if !errors.Is(wrapped, ErrPermissionDenied) {
				t.Error("wrapped PermissionError should match ErrPermissionDenied")
			}
			var permErr *PermissionError
			if !errors.As(wrapped, &permErr) || permErr.Capability != tt.err.Capability {
				t.Error("errors.As should recover the PermissionError")
			}
		})
	}
}

func TestErrorConstants(t *testing.T) {
	for _, err := range []error{ErrInvalidInput, ErrNotFound, ErrPermissionDenied} {
		if err == nil {
			t.Fatal("error constants should not be nil")
		}
		if !errors.Is(err, err) {
			t.Errorf("%v should match itself", err)
		}
	}
	if errors.Is(ErrPermissionDenied, ErrInvalidInput) {
		t.Error("ErrPermissionDenied should not match ErrInvalidInput")
	}
}
