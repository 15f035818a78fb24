// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

// Clause is one control-flow instruction. The set of clause kinds is
// closed: ExecInstruction, LoopStartInstruction, LoopEndInstruction,
// CallInstruction, ReturnInstruction, JumpInstruction, AllocInstruction and
// NopInstruction.
type Clause interface {
	// Index returns the clause dword index.
	Index() uint32
	clause()
}

// Instruction is one ALU or fetch instruction run by an exec clause. The set
// is closed: AluInstruction, VertexFetchInstruction, TextureFetchInstruction.
type Instruction interface {
	instruction()
}

// ConditionType says what guards an exec, jump or call.
type ConditionType uint8

const (
	ConditionUnconditional ConditionType = iota
	// ConditionBoolConstant tests one bit of the bool constant bank.
	ConditionBoolConstant
	// ConditionPredicate tests the predicate register p0.
	ConditionPredicate
)

// String returns the listing name of the condition type.
func (c ConditionType) String() string {
	switch c {
	case ConditionUnconditional:
		return "unconditional"
	case ConditionBoolConstant:
		return "conditional"
	case ConditionPredicate:
		return "predicated"
	default:
		return "unknown"
	}
}

// ExecInstruction runs a sequence of ALU and fetch instructions.
type ExecInstruction struct {
	DwordIndex uint32

	Type              ConditionType
	BoolConstantIndex uint32
	// Condition is the value the bool constant or predicate must have.
	Condition bool
	// IsEnd marks the last exec of the shader.
	IsEnd bool

	Instructions []Instruction
}

func (e ExecInstruction) Index() uint32 { return e.DwordIndex }

func (ExecInstruction) clause() {}

// LoopStartInstruction opens a loop driven by an integer loop constant.
type LoopStartInstruction struct {
	DwordIndex        uint32
	LoopConstantIndex uint32
	// IsRepeat keeps the enclosing loop index instead of loading a new one.
	IsRepeat bool
	// LoopSkipAddress is taken when the loop count is zero.
	LoopSkipAddress uint32
}

func (l LoopStartInstruction) Index() uint32 { return l.DwordIndex }

func (LoopStartInstruction) clause() {}

// LoopEndInstruction closes a loop.
type LoopEndInstruction struct {
	DwordIndex        uint32
	LoopConstantIndex uint32
	// IsPredicatedBreak leaves the loop early when p0 equals
	// PredicateCondition.
	IsPredicatedBreak  bool
	PredicateCondition bool
	// LoopBodyAddress is the first clause of the loop body.
	LoopBodyAddress uint32
}

func (l LoopEndInstruction) Index() uint32 { return l.DwordIndex }

func (LoopEndInstruction) clause() {}

// CallInstruction calls a subroutine.
type CallInstruction struct {
	DwordIndex        uint32
	Type              ConditionType
	BoolConstantIndex uint32
	Condition         bool
	TargetAddress     uint32
}

func (c CallInstruction) Index() uint32 { return c.DwordIndex }

func (CallInstruction) clause() {}

// ReturnInstruction returns from a subroutine.
type ReturnInstruction struct {
	DwordIndex uint32
}

func (r ReturnInstruction) Index() uint32 { return r.DwordIndex }

func (ReturnInstruction) clause() {}

// JumpInstruction transfers control to TargetAddress.
type JumpInstruction struct {
	DwordIndex        uint32
	Type              ConditionType
	BoolConstantIndex uint32
	Condition         bool
	TargetAddress     uint32
}

func (j JumpInstruction) Index() uint32 { return j.DwordIndex }

func (JumpInstruction) clause() {}

// AllocType is the kind of export space an alloc clause reserves.
type AllocType uint8

const (
	AllocNone AllocType = iota
	AllocPosition
	AllocInterpolators
	AllocMemory
)

// String returns the listing name of the alloc kind.
func (a AllocType) String() string {
	switch a {
	case AllocNone:
		return "none"
	case AllocPosition:
		return "position"
	case AllocInterpolators:
		return "interpolators"
	case AllocMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// AllocInstruction reserves export space. It has no executable effect.
type AllocInstruction struct {
	DwordIndex uint32
	Type       AllocType
	Size       uint32
}

func (a AllocInstruction) Index() uint32 { return a.DwordIndex }

func (AllocInstruction) clause() {}

// NopInstruction does nothing.
type NopInstruction struct {
	DwordIndex uint32
}

func (n NopInstruction) Index() uint32 { return n.DwordIndex }

func (NopInstruction) clause() {}
