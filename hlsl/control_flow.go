// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/xenos/ucode"
)

// Control flow is emitted as a dispatch loop: every label is a case of
// switch (xe_pc), and every transfer assigns xe_pc and breaks out of the
// switch. Sentinel 0xFFFFu ends the loop.

// ProcessLabel opens the dispatch case for a jump, call or loop target.
// Case 0 is opened by StartTranslation.
func (t *Translator) ProcessLabel(cfIndex uint32) {
	if cfIndex == 0 {
		return
	}
	if !t.cfWrotePC {
		t.writeLine("xe_pc = %du;", cfIndex)
		t.writeLine("break;")
	}
	t.writeLine("case %du:", cfIndex)
	// The new case is entered with xe_pc already selected.
	t.cfWrotePC = false
}

// ProcessControlFlowInstructionBegin starts a clause.
func (t *Translator) ProcessControlFlowInstructionBegin(cfIndex uint32) {
	t.cfIndex = cfIndex
	t.cfWrotePC = false
}

// ProcessControlFlowInstructionEnd finishes a clause. A clause that did not
// assign xe_pc continues into the next one.
func (t *Translator) ProcessControlFlowInstructionEnd(cfIndex uint32) {
	if !t.cfWrotePC {
		t.writeLine("// Falling through to L%d", cfIndex+1)
	}
}

// ProcessControlFlowNopInstruction emits a marker for a cnop clause.
func (t *Translator) ProcessControlFlowNopInstruction(uint32) {
	t.writeLine("// cnop")
}

// conditionExpression returns the HLSL test of a bool constant bit or the
// predicate register.
func conditionExpression(typ ucode.ConditionType, boolIndex uint32, condition bool) string {
	switch typ {
	case ucode.ConditionBoolConstant:
		op := '='
		if condition {
			op = '!'
		}
		return fmt.Sprintf("(xe_bool_constants[%d] & (1u << %du)) %c= 0u", boolIndex>>5, boolIndex&31, op)
	case ucode.ConditionPredicate:
		if condition {
			return "xe_p0"
		}
		return "!xe_p0"
	default:
		return ""
	}
}

// boolConstantIndex reports an index past xe_bool_constants and wraps it
// into range so the emitted read stays inside the declared array.
func (t *Translator) boolConstantIndex(index uint32) uint32 {
	if index >= ucode.BoolConstantCount {
		t.EmitTranslationError(fmt.Sprintf("bool constant b%d out of range", index))
	}
	return index % ucode.BoolConstantCount
}

// ProcessExecInstructionBegin opens the scope of an exec clause.
func (t *Translator) ProcessExecInstructionBegin(instr ucode.ExecInstruction) {
	t.writeDisassembly(instr)

	t.cfExecPred = false
	switch instr.Type {
	case ucode.ConditionUnconditional:
		t.writeLine("{")
	case ucode.ConditionBoolConstant:
		index := t.boolConstantIndex(instr.BoolConstantIndex)
		t.writeLine("if (%s) {", conditionExpression(instr.Type, index, instr.Condition))
	case ucode.ConditionPredicate:
		t.cfExecPred = true
		t.cfExecPredCond = instr.Condition
		t.usedFeatures |= FeaturePredication
		t.writeLine("if (%s) {", conditionExpression(instr.Type, 0, instr.Condition))
	default:
		t.EmitTranslationError(fmt.Sprintf("unknown exec condition type %d", instr.Type))
		t.writeLine("{")
	}
	t.pushIndent()
}

// ProcessExecInstructionEnd closes the scope of an exec clause. An end exec
// stops the shader; only an unconditional one guarantees it.
func (t *Translator) ProcessExecInstructionEnd(instr ucode.ExecInstruction) {
	if instr.IsEnd {
		t.writeLine("xe_pc = 0xFFFFu;")
		t.writeLine("break;")
		if instr.Type == ucode.ConditionUnconditional {
			t.cfWrotePC = true
		}
	}
	t.popIndent()
	t.writeLine("}")
	t.cfExecPred = false
}

// ProcessLoopStartInstruction pushes the loop stacks and either enters the
// loop body or skips the loop when its count is zero.
func (t *Translator) ProcessLoopStartInstruction(instr ucode.LoopStartInstruction) {
	t.writeDisassembly(instr)

	t.usedFeatures |= FeatureLoops
	t.loopDepth++
	if t.loopDepth > maxLoopDepth {
		t.EmitTranslationError(fmt.Sprintf("loop nesting exceeds %d levels", maxLoopDepth))
	}

	t.writeLine("xe_loop_count.yzw = xe_loop_count.xyz;")
	t.writeLine("xe_loop_count.x = xe_loop_constants[%d] & 0xFFu;", instr.LoopConstantIndex)
	t.writeLine("xe_aL = xe_aL.xxyz;")
	if !instr.IsRepeat {
		t.writeLine("xe_aL.x = int((xe_loop_constants[%d] >> 8u) & 0xFFu);", instr.LoopConstantIndex)
	}

	body := instr.DwordIndex + 1
	t.writeLine("if (xe_loop_count.x == 0u) {")
	t.pushIndent()
	t.emitLoopPop()
	t.writeLine("xe_pc = %du;  // Skip loop to L%d", instr.LoopSkipAddress, instr.LoopSkipAddress)
	t.popIndent()
	t.writeLine("} else {")
	t.pushIndent()
	t.writeLine("xe_pc = %du;  // Fallthrough to loop body L%d", body, body)
	t.popIndent()
	t.writeLine("}")
	t.writeLine("break;")
	t.cfWrotePC = true
}

// ProcessLoopEndInstruction counts down the active loop. When it finishes
// or a predicated break fires the stacks are popped, otherwise the loop
// index advances by the signed step and control returns to the body.
func (t *Translator) ProcessLoopEndInstruction(instr ucode.LoopEndInstruction) {
	t.writeDisassembly(instr)

	t.usedFeatures |= FeatureLoops
	if t.loopDepth > 0 {
		t.loopDepth--
	}

	if instr.IsPredicatedBreak {
		t.usedFeatures |= FeaturePredication
		t.writeLine("if (--xe_loop_count.x == 0u || %s) {",
			conditionExpression(ucode.ConditionPredicate, 0, instr.PredicateCondition))
	} else {
		t.writeLine("if (--xe_loop_count.x == 0u) {")
	}
	t.pushIndent()
	exit := instr.DwordIndex + 1
	t.emitLoopPop()
	t.writeLine("xe_pc = %du;  // Exit loop to L%d", exit, exit)
	t.popIndent()
	t.writeLine("} else {")
	t.pushIndent()
	t.writeLine("xe_aL.x += int(xe_loop_constants[%d] << 8u) >> 24;", instr.LoopConstantIndex)
	t.writeLine("xe_pc = %du;  // Loop back to body L%d", instr.LoopBodyAddress, instr.LoopBodyAddress)
	t.popIndent()
	t.writeLine("}")
	t.writeLine("break;")
	t.cfWrotePC = true
}

// emitLoopPop shifts both loop stacks toward .x and clears the top lane.
func (t *Translator) emitLoopPop() {
	t.writeLine("xe_loop_count.xyz = xe_loop_count.yzw;")
	t.writeLine("xe_loop_count.w = 0u;")
	t.writeLine("xe_aL.xyz = xe_aL.yzw;")
	t.writeLine("xe_aL.w = 0;")
}

// ProcessJumpInstruction transfers control to the jump target. Conditional
// jumps fall through to the next clause otherwise.
func (t *Translator) ProcessJumpInstruction(instr ucode.JumpInstruction) {
	t.writeDisassembly(instr)

	conditional := true
	switch instr.Type {
	case ucode.ConditionUnconditional:
		conditional = false
		t.writeLine("{")
	case ucode.ConditionBoolConstant:
		index := t.boolConstantIndex(instr.BoolConstantIndex)
		t.writeLine("if (%s) {", conditionExpression(instr.Type, index, instr.Condition))
	case ucode.ConditionPredicate:
		t.usedFeatures |= FeaturePredication
		t.writeLine("if (%s) {", conditionExpression(instr.Type, 0, instr.Condition))
	default:
		t.EmitTranslationError(fmt.Sprintf("unknown jump condition type %d", instr.Type))
		return
	}
	t.pushIndent()
	t.writeLine("xe_pc = %du;  // L%d", instr.TargetAddress, instr.TargetAddress)
	t.writeLine("break;")
	t.popIndent()
	if conditional {
		next := instr.DwordIndex + 1
		t.writeLine("} else {")
		t.pushIndent()
		t.writeLine("xe_pc = %du;  // Fallthrough to L%d", next, next)
		t.popIndent()
	}
	t.writeLine("}")
	if !conditional {
		t.cfWrotePC = true
	}
}

// ProcessCallInstruction reports subroutine calls as unimplemented.
func (t *Translator) ProcessCallInstruction(instr ucode.CallInstruction) {
	t.writeDisassembly(instr)
	t.EmitUnimplementedTranslationError(fmt.Sprintf("call to L%d", instr.TargetAddress))
}

// ProcessReturnInstruction reports subroutine returns as unimplemented.
func (t *Translator) ProcessReturnInstruction(instr ucode.ReturnInstruction) {
	t.writeDisassembly(instr)
	t.EmitUnimplementedTranslationError("return")
}

// ProcessAllocInstruction only records the allocation in the disassembly.
func (t *Translator) ProcessAllocInstruction(instr ucode.AllocInstruction) {
	t.writeDisassembly(instr)
}

// beginPredicatedInstruction opens a guard for a predicated instruction
// unless the enclosing exec block already tests the same polarity. It
// reports whether a guard was opened.
func (t *Translator) beginPredicatedInstruction(isPredicated, condition bool) bool {
	if !isPredicated || (t.cfExecPred && t.cfExecPredCond == condition) {
		return false
	}
	t.usedFeatures |= FeaturePredication
	t.writeLine("if (%s) {", conditionExpression(ucode.ConditionPredicate, 0, condition))
	t.pushIndent()
	return true
}

// endPredicatedInstruction closes a guard opened by
// beginPredicatedInstruction.
func (t *Translator) endPredicatedInstruction(opened bool) {
	if opened {
		t.popIndent()
		t.writeLine("}")
	}
}
