// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/xenos/ucode"
)

// operandIndexMask returns the mask applied to dynamically computed
// indices of a storage class, and false for classes an ALU cannot read.
func operandIndexMask(source ucode.StorageSource) (uint32, bool) {
	switch source {
	case ucode.StorageSourceRegister:
		return 127, true
	case ucode.StorageSourceConstantFloat, ucode.StorageSourceConstantBool:
		return 255, true
	case ucode.StorageSourceConstantInt:
		return 31, true
	default:
		return 0, false
	}
}

// operandExpression returns the storage read of an operand before
// swizzling. Dynamically addressed operands read through xe_src_index.
// Float and bool constants are addressed as page and slot.
func operandExpression(op *ucode.Operand) string {
	if op.AddressingMode == ucode.AddressingStatic {
		switch op.StorageSource {
		case ucode.StorageSourceRegister:
			return fmt.Sprintf("xe_r[%d]", op.StorageIndex)
		case ucode.StorageSourceConstantFloat:
			return fmt.Sprintf("xe_float_constants[%d].c[%d]", op.StorageIndex>>5, op.StorageIndex&31)
		case ucode.StorageSourceConstantInt:
			return fmt.Sprintf("xe_loop_constants[%d]", op.StorageIndex)
		case ucode.StorageSourceConstantBool:
			return fmt.Sprintf("float((xe_bool_constants[%d] >> %du) & 1u)", op.StorageIndex>>5, op.StorageIndex&31)
		}
		return ""
	}
	switch op.StorageSource {
	case ucode.StorageSourceRegister:
		return "xe_r[xe_src_index]"
	case ucode.StorageSourceConstantFloat:
		return "xe_float_constants[xe_src_index >> 5u].c[xe_src_index & 31u]"
	case ucode.StorageSourceConstantInt:
		return "xe_loop_constants[xe_src_index]"
	case ucode.StorageSourceConstantBool:
		return "float((xe_bool_constants[xe_src_index >> 5u] >> (xe_src_index & 31u)) & 1u)"
	}
	return ""
}

// operandSwizzle returns the swizzle suffix of an operand. Integer and bool
// constants are scalar and broadcast. A short swizzle repeats its last
// selector: x gives .xxxx, zw gives .zwww.
func operandSwizzle(op *ucode.Operand) string {
	if op.IsScalarConstant() {
		return ".xxxx"
	}
	if op.IsStandardSwizzle() {
		return ""
	}
	n := min(max(op.ComponentCount, 1), 4)
	var sb strings.Builder
	sb.WriteByte('.')
	for i := 0; i < 4; i++ {
		sb.WriteByte(op.Components[min(i, n-1)].Char())
	}
	return sb.String()
}

// emitLoadOperand resolves op into xe_src<slot>. Negation and absolute
// value apply after the swizzle.
func (t *Translator) emitLoadOperand(slot int, op *ucode.Operand) bool {
	mask, ok := operandIndexMask(op.StorageSource)
	if !ok {
		t.EmitTranslationError(fmt.Sprintf("operand %d reads %s%d, which is not ALU-readable",
			slot, op.StorageSource, op.StorageIndex))
		return false
	}

	switch op.AddressingMode {
	case ucode.AddressingAbsolute:
		t.usedFeatures |= FeatureDynamicIndexing
		t.writeLine("xe_src_index = uint(%d + xe_a0) & %du;", op.StorageIndex, mask)
	case ucode.AddressingRelative:
		t.usedFeatures |= FeatureDynamicIndexing
		t.writeLine("xe_src_index = uint(%d + xe_aL.x) & %du;", op.StorageIndex, mask)
	}

	var modifiers string
	if op.IsNegated {
		modifiers = "-"
	}
	if op.IsAbsoluteValue {
		modifiers += "abs"
	}
	t.writeLine("xe_src%d = %s(%s)%s;", slot, modifiers, operandExpression(op), operandSwizzle(op))
	return true
}

// emitLoadOperands resolves the first n operands into xe_src0..n-1.
func (t *Translator) emitLoadOperands(operands []ucode.Operand, n int) bool {
	if len(operands) < n {
		t.EmitTranslationError(fmt.Sprintf("instruction needs %d operands, has %d", n, len(operands)))
		return false
	}
	for i := 0; i < n; i++ {
		if !t.emitLoadOperand(i, &operands[i]) {
			return false
		}
	}
	return true
}
