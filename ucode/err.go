// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

import (
	"errors"

	"github.com/gogpu/xenos/internal/translate"
)

var f = translate.From

var (
	// Program errors
	ErrProgramEmpty   = errors.New(f("program has no clauses"))
	ErrClauseIndex    = errors.New(f("clause dword index mismatch"))
	ErrClauseNil      = errors.New(f("clause missing"))
	ErrOperandCount   = errors.New(f("operand count"))
	ErrComponentCount = errors.New(f("swizzle component count"))
	ErrBoolConstant   = errors.New(f("bool constant index out of range"))

	// Listing errors
	ErrListingSyntax     = errors.New(f("listing syntax"))
	ErrClauseKind        = errors.New(f("clause must have exactly one kind"))
	ErrInstructionKind   = errors.New(f("instruction must have exactly one kind"))
	ErrUnknownStage      = errors.New(f("unknown shader stage"))
	ErrUnknownOpcode     = errors.New(f("unknown opcode"))
	ErrUnknownFormat     = errors.New(f("unknown vertex format"))
	ErrUnknownDimension  = errors.New(f("unknown texture dimension"))
	ErrUnknownStorage    = errors.New(f("unknown storage"))
	ErrUnknownAddressing = errors.New(f("unknown addressing mode"))
	ErrUnknownCondition  = errors.New(f("unknown condition type"))
	ErrUnknownAlloc      = errors.New(f("unknown alloc kind"))
	ErrSwizzle           = errors.New(f("invalid swizzle"))
	ErrWriteMask         = errors.New(f("invalid write mask"))
)

// ClauseError locates a program or listing error at a clause.
type ClauseError struct {
	Clause int
	Err    error
}

func (err ClauseError) Error() string {
	return f("clause %d: %v", err.Clause, err.Err)
}

func (err ClauseError) Unwrap() error {
	return err.Err
}

// InstructionError locates an error at an instruction inside an exec clause.
type InstructionError struct {
	Instruction int
	Err         error
}

func (err InstructionError) Error() string {
	return f("instruction %d: %v", err.Instruction, err.Err)
}

func (err InstructionError) Unwrap() error {
	return err.Err
}
