// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// ErrorKind categorizes HLSL translation errors.
type ErrorKind uint8

const (
	// ErrTranslation indicates a malformed instruction the translator
	// skipped, e.g. a vertex fetch without a fetch constant operand.
	ErrTranslation ErrorKind = iota

	// ErrUnimplemented indicates a construct the translator does not
	// support yet (subroutine calls and returns).
	ErrUnimplemented

	// ErrBindingLimit indicates a shader needs more samplers than the
	// stage may declare.
	ErrBindingLimit

	// ErrInvalidState indicates translator lifecycle misuse.
	ErrInvalidState

	// ErrInvalidShaderModel indicates an invalid or unsupported shader model.
	ErrInvalidShaderModel

	// ErrInvalidProgram indicates the input program is nil or malformed.
	ErrInvalidProgram

	// ErrInternalError indicates an internal translator error.
	ErrInternalError
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrTranslation:
		return "Translation"
	case ErrUnimplemented:
		return "Unimplemented"
	case ErrBindingLimit:
		return "BindingLimit"
	case ErrInvalidState:
		return "InvalidState"
	case ErrInvalidShaderModel:
		return "InvalidShaderModel"
	case ErrInvalidProgram:
		return "InvalidProgram"
	case ErrInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error represents an HLSL translation error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Clause optionally identifies the control flow clause being translated.
	Clause *uint32
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Clause != nil {
		return fmt.Sprintf("hlsl %s at clause %d: %s", e.Kind, *e.Clause, e.Message)
	}
	return fmt.Sprintf("hlsl %s: %s", e.Kind, e.Message)
}

// NewError creates a new HLSL error without clause information.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Clause:  nil,
	}
}

// NewErrorAtClause creates a new HLSL error located at a clause.
func NewErrorAtClause(kind ErrorKind, message string, clause uint32) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Clause:  &clause,
	}
}

// IsTranslation returns true if the error is ErrTranslation.
func (e *Error) IsTranslation() bool {
	return e.Kind == ErrTranslation
}

// IsUnimplemented returns true if the error is ErrUnimplemented.
func (e *Error) IsUnimplemented() bool {
	return e.Kind == ErrUnimplemented
}

// IsBindingLimit returns true if the error is ErrBindingLimit.
func (e *Error) IsBindingLimit() bool {
	return e.Kind == ErrBindingLimit
}

// IsInternalError returns true if the error is ErrInternalError.
func (e *Error) IsInternalError() bool {
	return e.Kind == ErrInternalError
}
