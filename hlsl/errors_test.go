// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrTranslation, "Translation"},
		{ErrUnimplemented, "Unimplemented"},
		{ErrBindingLimit, "BindingLimit"},
		{ErrInvalidState, "InvalidState"},
		{ErrInvalidShaderModel, "InvalidShaderModel"},
		{ErrInvalidProgram, "InvalidProgram"},
		{ErrInternalError, "InternalError"},
		{ErrorKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.kind.String()
			if got != tt.want {
				t.Errorf("ErrorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	// Error without clause
	err1 := &Error{
		Kind:    ErrInvalidProgram,
		Message: "program is nil",
	}
	got1 := err1.Error()
	if !strings.Contains(got1, "InvalidProgram") {
		t.Errorf("Error() should contain kind, got %q", got1)
	}
	if !strings.Contains(got1, "program is nil") {
		t.Errorf("Error() should contain message, got %q", got1)
	}

	// Error with clause
	err2 := NewErrorAtClause(ErrUnimplemented, "call", 7)
	got2 := err2.Error()
	if !strings.Contains(got2, "clause 7") {
		t.Errorf("Error() with clause should contain location, got %q", got2)
	}
}

func TestNewError(t *testing.T) {
	err := NewError(ErrInternalError, "indent underflow")

	if err.Kind != ErrInternalError {
		t.Errorf("Kind = %v, want ErrInternalError", err.Kind)
	}
	if err.Message != "indent underflow" {
		t.Errorf("Message = %q, want \"indent underflow\"", err.Message)
	}
	if err.Clause != nil {
		t.Error("Clause should be nil")
	}
}

func TestNewErrorAtClause(t *testing.T) {
	err := NewErrorAtClause(ErrTranslation, "vertex fetch outside vertex shader", 3)

	if err.Kind != ErrTranslation {
		t.Errorf("Kind = %v, want ErrTranslation", err.Kind)
	}
	if err.Clause == nil {
		t.Fatal("Clause should not be nil")
	}
	if *err.Clause != 3 {
		t.Errorf("Clause = %d, want 3", *err.Clause)
	}
}

func TestError_Predicates(t *testing.T) {
	tests := []struct {
		name            string
		err             *Error
		isTranslation   bool
		isUnimplemented bool
		isBindingLimit  bool
		isInternalError bool
	}{
		{
			name:          "translation",
			err:           &Error{Kind: ErrTranslation},
			isTranslation: true,
		},
		{
			name:            "unimplemented",
			err:             &Error{Kind: ErrUnimplemented},
			isUnimplemented: true,
		},
		{
			name:           "binding limit",
			err:            &Error{Kind: ErrBindingLimit},
			isBindingLimit: true,
		},
		{
			name:            "internal error",
			err:             &Error{Kind: ErrInternalError},
			isInternalError: true,
		},
		{
			name: "other error",
			err:  &Error{Kind: ErrInvalidState},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsTranslation(); got != tt.isTranslation {
				t.Errorf("IsTranslation() = %v, want %v", got, tt.isTranslation)
			}
			if got := tt.err.IsUnimplemented(); got != tt.isUnimplemented {
				t.Errorf("IsUnimplemented() = %v, want %v", got, tt.isUnimplemented)
			}
			if got := tt.err.IsBindingLimit(); got != tt.isBindingLimit {
				t.Errorf("IsBindingLimit() = %v, want %v", got, tt.isBindingLimit)
			}
			if got := tt.err.IsInternalError(); got != tt.isInternalError {
				t.Errorf("IsInternalError() = %v, want %v", got, tt.isInternalError)
			}
		})
	}
}
