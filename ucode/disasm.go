// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

import (
	"fmt"
	"strings"
)

func conditionPrefix(typ ConditionType, boolIndex uint32, condition bool) string {
	neg := ""
	if !condition {
		neg = "!"
	}
	switch typ {
	case ConditionBoolConstant:
		return fmt.Sprintf("(%sb%d) ", neg, boolIndex)
	case ConditionPredicate:
		return fmt.Sprintf("(%sp0) ", neg)
	default:
		return ""
	}
}

func predicatePrefix(isPredicated, condition bool) string {
	if !isPredicated {
		return ""
	}
	return conditionPrefix(ConditionPredicate, 0, condition)
}

func addressed(base string, index uint32, mode AddressingMode) string {
	switch mode {
	case AddressingAbsolute:
		return fmt.Sprintf("%s[%d+a0]", base, index)
	case AddressingRelative:
		return fmt.Sprintf("%s[%d+aL]", base, index)
	default:
		return fmt.Sprintf("%s%d", base, index)
	}
}

// String returns the operand as written in a disassembly listing,
// e.g. "-|c[4+a0].zw|".
func (op Operand) String() string {
	var sb strings.Builder
	if op.IsNegated {
		sb.WriteByte('-')
	}
	if op.IsAbsoluteValue {
		sb.WriteByte('|')
	}
	sb.WriteString(addressed(op.StorageSource.String(), op.StorageIndex, op.AddressingMode))
	if !op.IsScalarConstant() && !op.IsStandardSwizzle() {
		sb.WriteByte('.')
		n := min(max(op.ComponentCount, 1), 4)
		for i := 0; i < n; i++ {
			sb.WriteByte(op.Components[i].Char())
		}
	}
	if op.IsAbsoluteValue {
		sb.WriteByte('|')
	}
	return sb.String()
}

// String returns the destination as written in a disassembly listing.
// Unwritten lanes print as '_'.
func (r Result) String() string {
	var base string
	switch r.StorageTarget {
	case StorageTargetRegister:
		base = addressed("r", r.StorageIndex, r.AddressingMode)
	case StorageTargetInterpolant:
		base = addressed("o", r.StorageIndex, r.AddressingMode)
	case StorageTargetColorTarget:
		base = addressed("oC", r.StorageIndex, r.AddressingMode)
	case StorageTargetNone:
		return "_"
	default:
		base = r.StorageTarget.String()
	}
	lanes := make([]byte, 4)
	for i := range lanes {
		if r.WriteMask[i] {
			lanes[i] = r.Components[i].Char()
		} else {
			lanes[i] = '_'
		}
	}
	return base + "." + string(lanes)
}

func operandList(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}

func clampSuffix(r Result) string {
	if r.IsClamped {
		return "_sat"
	}
	return ""
}

// String returns the instruction disassembly.
func (a AluInstruction) String() string {
	var name string
	switch a.Type {
	case AluVector:
		name = a.VectorOpcode.String()
	case AluScalar:
		name = a.ScalarOpcode.String()
	default:
		return "nop"
	}
	s := predicatePrefix(a.IsPredicated, a.PredicateCondition) + name + clampSuffix(a.Result) + " " + a.Result.String()
	if len(a.Operands) > 0 {
		s += ", " + operandList(a.Operands)
	}
	return s
}

// String returns the instruction disassembly.
func (v VertexFetchInstruction) String() string {
	var sb strings.Builder
	sb.WriteString(predicatePrefix(v.IsPredicated, v.PredicateCondition))
	sb.WriteString("vfetch ")
	sb.WriteString(v.Result.String())
	if len(v.Operands) > 0 {
		sb.WriteString(", ")
		sb.WriteString(operandList(v.Operands))
	}
	attrs := v.Attributes
	fmt.Fprintf(&sb, " Format=FMT_%s", attrs.DataFormat)
	if attrs.IsSigned {
		sb.WriteString(" Signed")
	}
	if attrs.IsInteger {
		sb.WriteString(" Integer")
	}
	fmt.Fprintf(&sb, " Stride=%d", attrs.Stride)
	if attrs.Offset != 0 {
		fmt.Fprintf(&sb, " Offset=%d", attrs.Offset)
	}
	return sb.String()
}

// String returns the instruction disassembly.
func (t TextureFetchInstruction) String() string {
	s := predicatePrefix(t.IsPredicated, t.PredicateCondition) + t.Opcode.String() + t.Dimension.String() + " " + t.Result.String()
	if len(t.Operands) > 0 {
		s += ", " + operandList(t.Operands)
	}
	return s
}

// String returns the clause disassembly.
func (e ExecInstruction) String() string {
	name := "exec"
	if e.IsEnd {
		name = "exece"
	}
	return fmt.Sprintf("%s%s cnt:%d", conditionPrefix(e.Type, e.BoolConstantIndex, e.Condition), name, len(e.Instructions))
}

// String returns the clause disassembly.
func (l LoopStartInstruction) String() string {
	s := fmt.Sprintf("loop i%d, L%d", l.LoopConstantIndex, l.LoopSkipAddress)
	if l.IsRepeat {
		s += " repeat"
	}
	return s
}

// String returns the clause disassembly.
func (l LoopEndInstruction) String() string {
	return fmt.Sprintf("%sendloop i%d, L%d", predicatePrefix(l.IsPredicatedBreak, l.PredicateCondition), l.LoopConstantIndex, l.LoopBodyAddress)
}

// String returns the clause disassembly.
func (c CallInstruction) String() string {
	return fmt.Sprintf("%scall L%d", conditionPrefix(c.Type, c.BoolConstantIndex, c.Condition), c.TargetAddress)
}

// String returns the clause disassembly.
func (ReturnInstruction) String() string {
	return "ret"
}

// String returns the clause disassembly.
func (j JumpInstruction) String() string {
	return fmt.Sprintf("%sjmp L%d", conditionPrefix(j.Type, j.BoolConstantIndex, j.Condition), j.TargetAddress)
}

// String returns the clause disassembly.
func (a AllocInstruction) String() string {
	return fmt.Sprintf("alloc %s, %d", a.Type, a.Size)
}

// String returns the clause disassembly.
func (NopInstruction) String() string {
	return "cnop"
}
