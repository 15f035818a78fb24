// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

import (
	"fmt"
	"slices"
)

// ShaderStage is the pipeline stage a program runs in.
type ShaderStage uint8

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStagePixel
)

// String returns the listing name of the stage.
func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStagePixel:
		return "pixel"
	default:
		return "unknown"
	}
}

// Program is a parsed shader: one clause per control-flow dword index.
type Program struct {
	Stage ShaderStage
	// RegisterCount is the number of temporary registers the shader uses.
	RegisterCount uint32
	Clauses       []Clause
}

// Validate checks the structural invariants the translator relies on:
// every clause sits at its own dword index, conditional clauses test an
// existing bool constant and every instruction carries enough operands for
// its opcode.
func (p *Program) Validate() error {
	if len(p.Clauses) == 0 {
		return ErrProgramEmpty
	}
	for i, c := range p.Clauses {
		if c == nil {
			return ClauseError{Clause: i, Err: ErrClauseNil}
		}
		if c.Index() != uint32(i) { //nolint:gosec // G115: clause count fits the 32-bit dword space
			return ClauseError{Clause: i, Err: fmt.Errorf("%w: has %d", ErrClauseIndex, c.Index())}
		}
		if err := validateBoolConstant(c); err != nil {
			return ClauseError{Clause: i, Err: err}
		}
		exec, ok := c.(ExecInstruction)
		if !ok {
			continue
		}
		for j, instr := range exec.Instructions {
			if err := validateInstruction(instr); err != nil {
				return ClauseError{Clause: i, Err: InstructionError{Instruction: j, Err: err}}
			}
		}
	}
	return nil
}

// BoolConstantCount is the number of bool constants a conditional clause
// can test.
const BoolConstantCount = 256

func validateBoolConstant(c Clause) error {
	var typ ConditionType
	var index uint32
	switch cl := c.(type) {
	case ExecInstruction:
		typ, index = cl.Type, cl.BoolConstantIndex
	case JumpInstruction:
		typ, index = cl.Type, cl.BoolConstantIndex
	case CallInstruction:
		typ, index = cl.Type, cl.BoolConstantIndex
	default:
		return nil
	}
	if typ == ConditionBoolConstant && index >= BoolConstantCount {
		return fmt.Errorf("%w: b%d", ErrBoolConstant, index)
	}
	return nil
}

func validateInstruction(instr Instruction) error {
	var want int
	var operands []Operand
	switch in := instr.(type) {
	case AluInstruction:
		operands = in.Operands
		switch in.Type {
		case AluVector:
			want = in.VectorOpcode.OperandCount()
		case AluScalar:
			want = in.ScalarOpcode.OperandCount()
		}
	case VertexFetchInstruction:
		operands = in.Operands
		want = 2
	case TextureFetchInstruction:
		operands = in.Operands
		want = 2
	default:
		return fmt.Errorf("%w: %T", ErrInstructionKind, instr)
	}
	if len(operands) < want {
		return fmt.Errorf("%w: want %d, have %d", ErrOperandCount, want, len(operands))
	}
	for k := range operands {
		if n := operands[k].ComponentCount; n < 1 || n > 4 {
			return fmt.Errorf("%w: operand %d has %d", ErrComponentCount, k, n)
		}
	}
	return nil
}

// LabelAddresses returns, in ascending order, every clause address control
// can be transferred to other than by falling through: jump and call
// targets, loop skip and body addresses, and the clause after each loop
// start and loop end. Address 0 is always included.
func (p *Program) LabelAddresses() []uint32 {
	set := map[uint32]struct{}{0: {}}
	for _, c := range p.Clauses {
		switch cl := c.(type) {
		case JumpInstruction:
			set[cl.TargetAddress] = struct{}{}
		case CallInstruction:
			set[cl.TargetAddress] = struct{}{}
		case LoopStartInstruction:
			set[cl.LoopSkipAddress] = struct{}{}
			set[cl.DwordIndex+1] = struct{}{}
		case LoopEndInstruction:
			set[cl.LoopBodyAddress] = struct{}{}
			set[cl.DwordIndex+1] = struct{}{}
		}
	}
	labels := make([]uint32, 0, len(set))
	for addr := range set {
		labels = append(labels, addr)
	}
	slices.Sort(labels)
	return labels
}
