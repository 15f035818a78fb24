// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/xenos/ucode"
)

// ProcessAluInstruction translates one ALU instruction: operands are
// loaded into xe_src*, the opcode updates xe_pv or xe_ps, and the result is
// stored.
func (t *Translator) ProcessAluInstruction(instr ucode.AluInstruction) {
	t.writeDisassembly(instr)

	switch instr.Type {
	case ucode.AluNop:
	case ucode.AluVector:
		t.processVectorAluInstruction(&instr)
	case ucode.AluScalar:
		t.processScalarAluInstruction(&instr)
	default:
		t.EmitTranslationError(fmt.Sprintf("unknown ALU type %d", instr.Type))
	}
}

func (t *Translator) processVectorAluInstruction(instr *ucode.AluInstruction) {
	guard := t.beginPredicatedInstruction(instr.IsPredicated, instr.PredicateCondition)
	defer t.endPredicatedInstruction(guard)

	if !t.emitLoadOperands(instr.Operands, instr.VectorOpcode.OperandCount()) {
		return
	}

	switch instr.VectorOpcode {
	case ucode.AluVectorAdd:
		t.writeLine("xe_pv = xe_src0 + xe_src1;")
	case ucode.AluVectorMul:
		t.writeLine("xe_pv = xe_src0 * xe_src1;")
	case ucode.AluVectorMax:
		t.writeLine("xe_pv = max(xe_src0, xe_src1);")
	case ucode.AluVectorMin:
		t.writeLine("xe_pv = min(xe_src0, xe_src1);")
	case ucode.AluVectorSeq:
		t.writeLine("xe_pv = float4(xe_src0 == xe_src1);")
	case ucode.AluVectorSgt:
		t.writeLine("xe_pv = float4(xe_src0 > xe_src1);")
	case ucode.AluVectorSge:
		t.writeLine("xe_pv = float4(xe_src0 >= xe_src1);")
	case ucode.AluVectorSne:
		t.writeLine("xe_pv = float4(xe_src0 != xe_src1);")
	case ucode.AluVectorFrc:
		t.writeLine("xe_pv = frac(xe_src0);")
	case ucode.AluVectorTrunc:
		t.writeLine("xe_pv = trunc(xe_src0);")
	case ucode.AluVectorFloor:
		t.writeLine("xe_pv = floor(xe_src0);")
	case ucode.AluVectorMad:
		t.writeLine("xe_pv = xe_src0 * xe_src1 + xe_src2;")
	case ucode.AluVectorCndEq:
		t.writeLine("xe_pv = lerp(xe_src2, xe_src1, float4(xe_src0 == (0.0).xxxx));")
	case ucode.AluVectorCndGe:
		t.writeLine("xe_pv = lerp(xe_src2, xe_src1, float4(xe_src0 >= (0.0).xxxx));")
	case ucode.AluVectorCndGt:
		t.writeLine("xe_pv = lerp(xe_src2, xe_src1, float4(xe_src0 > (0.0).xxxx));")
	case ucode.AluVectorDp4:
		t.writeLine("xe_pv = dot(xe_src0, xe_src1).xxxx;")
	case ucode.AluVectorDp3:
		t.writeLine("xe_pv = dot(xe_src0.xyz, xe_src1.xyz).xxxx;")
	case ucode.AluVectorDp2Add:
		t.writeLine("xe_pv = (dot(xe_src0.xy, xe_src1.xy) + xe_src2.x).xxxx;")
	case ucode.AluVectorCube:
		t.writeLine("xe_pv = XeCubeTo2D(xe_src0.xyz);")
		t.cubeUsed = true
		t.usedFeatures |= FeatureCubeHelpers
	case ucode.AluVectorMax4:
		t.writeLine("xe_pv.xy = max(xe_src0.xy, xe_src0.zw);")
		t.writeLine("xe_pv = max(xe_pv.x, xe_pv.y).xxxx;")
	case ucode.AluVectorSetpEqPush:
		t.emitPredicatePush("==")
	case ucode.AluVectorSetpNePush:
		t.emitPredicatePush("!=")
	case ucode.AluVectorSetpGtPush:
		t.emitPredicatePush(">")
	case ucode.AluVectorSetpGePush:
		t.emitPredicatePush(">=")
	case ucode.AluVectorKillEq:
		t.emitVectorKill("==")
	case ucode.AluVectorKillGt:
		t.emitVectorKill(">")
	case ucode.AluVectorKillGe:
		t.emitVectorKill(">=")
	case ucode.AluVectorKillNe:
		t.emitVectorKill("!=")
	case ucode.AluVectorDst:
		t.writeLine("xe_pv.x = 1.0;")
		t.writeLine("xe_pv.y = xe_src0.y * xe_src1.y;")
		t.writeLine("xe_pv.z = xe_src0.z;")
		t.writeLine("xe_pv.w = xe_src1.w;")
	case ucode.AluVectorMaxA:
		t.writeLine("xe_a0 = clamp(int(round(xe_src0.w)), -256, 255);")
		t.writeLine("xe_pv = max(xe_src0, xe_src1);")
	default:
		t.EmitTranslationError(fmt.Sprintf("unknown vector opcode %d", instr.VectorOpcode))
		return
	}

	t.emitStoreResult(&instr.Result, false)
}

// emitPredicatePush sets p0 from lane w and pushes lane x.
func (t *Translator) emitPredicatePush(op string) {
	t.cfExecPred = false
	t.usedFeatures |= FeaturePredication
	t.writeLine("xe_p0 = xe_src0.w == 0.0 && xe_src1.w %s 0.0;", op)
	t.writeLine("xe_pv = (xe_src0.x == 0.0 && xe_src1.x %s 0.0 ? 0.0 : xe_src0.x + 1.0).xxxx;", op)
}

// emitVectorKill discards the pixel if the comparison holds in any lane.
func (t *Translator) emitVectorKill(op string) {
	t.usedFeatures |= FeatureDiscard
	t.writeLine("xe_pv = float(any(xe_src0 %s xe_src1)).xxxx;", op)
	t.writeLine("clip(-xe_pv.x);")
}

func (t *Translator) processScalarAluInstruction(instr *ucode.AluInstruction) {
	guard := t.beginPredicatedInstruction(instr.IsPredicated, instr.PredicateCondition)
	defer t.endPredicatedInstruction(guard)

	if !t.emitLoadOperands(instr.Operands, instr.ScalarOpcode.OperandCount()) {
		return
	}

	switch instr.ScalarOpcode {
	case ucode.AluScalarAdds:
		t.writeLine("xe_ps = xe_src0.x + xe_src0.y;")
	case ucode.AluScalarAddsPrev:
		t.writeLine("xe_ps += xe_src0.x;")
	case ucode.AluScalarMuls:
		t.writeLine("xe_ps = xe_src0.x * xe_src0.y;")
	case ucode.AluScalarMulsPrev:
		t.writeLine("xe_ps *= xe_src0.x;")
	case ucode.AluScalarMulsPrev2:
		t.writeLine("xe_ps = (xe_ps == -XE_FLT_MAX || (isinf(xe_ps) && xe_ps < 0.0)")
		t.writeLine("    || isnan(xe_ps) || xe_src0.y <= 0.0 || isnan(xe_src0.y)) ?")
		t.writeLine("    -XE_FLT_MAX : xe_src0.x * xe_ps;")
	case ucode.AluScalarMaxs:
		t.writeLine("xe_ps = max(xe_src0.x, xe_src0.y);")
	case ucode.AluScalarMins:
		t.writeLine("xe_ps = min(xe_src0.x, xe_src0.y);")
	case ucode.AluScalarSeqs:
		t.writeLine("xe_ps = float(xe_src0.x == 0.0);")
	case ucode.AluScalarSgts:
		t.writeLine("xe_ps = float(xe_src0.x > 0.0);")
	case ucode.AluScalarSges:
		t.writeLine("xe_ps = float(xe_src0.x >= 0.0);")
	case ucode.AluScalarSnes:
		t.writeLine("xe_ps = float(xe_src0.x != 0.0);")
	case ucode.AluScalarFrcs:
		t.writeLine("xe_ps = frac(xe_src0.x);")
	case ucode.AluScalarTruncs:
		t.writeLine("xe_ps = trunc(xe_src0.x);")
	case ucode.AluScalarFloors:
		t.writeLine("xe_ps = floor(xe_src0.x);")
	case ucode.AluScalarExp:
		t.writeLine("xe_ps = exp2(xe_src0.x);")
	case ucode.AluScalarLogc:
		t.writeLine("xe_ps = log2(xe_src0.x);")
		t.writeLine("xe_ps = (isinf(xe_ps) && xe_ps < 0.0) ? -XE_FLT_MAX : xe_ps;")
	case ucode.AluScalarLog:
		t.writeLine("xe_ps = log2(xe_src0.x);")
	case ucode.AluScalarRcpc:
		t.writeLine("xe_ps = clamp(rcp(xe_src0.x), -XE_FLT_MAX, XE_FLT_MAX);")
	case ucode.AluScalarRcpf:
		t.writeLine("xe_ps = rcp(xe_src0.x);")
		t.writeLine("xe_ps *= float(!isinf(xe_ps));")
	case ucode.AluScalarRcp:
		t.writeLine("xe_ps = rcp(xe_src0.x);")
	case ucode.AluScalarRsqc:
		t.writeLine("xe_ps = clamp(rsqrt(xe_src0.x), -XE_FLT_MAX, XE_FLT_MAX);")
	case ucode.AluScalarRsqf:
		t.writeLine("xe_ps = rsqrt(xe_src0.x);")
		t.writeLine("xe_ps *= float(!isinf(xe_ps));")
	case ucode.AluScalarRsq:
		t.writeLine("xe_ps = rsqrt(xe_src0.x);")
	case ucode.AluScalarMaxAs:
		t.writeLine("xe_a0 = clamp(int(round(xe_src0.x)), -256, 255);")
		t.writeLine("xe_ps = max(xe_src0.x, xe_src0.y);")
	case ucode.AluScalarMaxAsf:
		t.writeLine("xe_a0 = clamp(int(floor(xe_src0.x)), -256, 255);")
		t.writeLine("xe_ps = max(xe_src0.x, xe_src0.y);")
	case ucode.AluScalarSubs:
		t.writeLine("xe_ps = xe_src0.x - xe_src0.y;")
	case ucode.AluScalarSubsPrev:
		t.writeLine("xe_ps = xe_src0.x - xe_ps;")
	case ucode.AluScalarSetpEq:
		t.emitPredicateSet("xe_p0 = xe_src0.x == 0.0;", "xe_ps = float(!xe_p0);")
	case ucode.AluScalarSetpNe:
		t.emitPredicateSet("xe_p0 = xe_src0.x != 0.0;", "xe_ps = float(!xe_p0);")
	case ucode.AluScalarSetpGt:
		t.emitPredicateSet("xe_p0 = xe_src0.x > 0.0;", "xe_ps = float(!xe_p0);")
	case ucode.AluScalarSetpGe:
		t.emitPredicateSet("xe_p0 = xe_src0.x >= 0.0;", "xe_ps = float(!xe_p0);")
	case ucode.AluScalarSetpInv:
		t.emitPredicateSet("xe_p0 = xe_src0.x == 1.0;",
			"xe_ps = float(!xe_p0) * (xe_src0.x == 0.0 ? 1.0 : xe_src0.x);")
	case ucode.AluScalarSetpPop:
		t.emitPredicateSet("xe_ps = max(xe_src0.x - 1.0, 0.0);", "xe_p0 = xe_ps == 0.0;")
	case ucode.AluScalarSetpClr:
		// TODO: verify setp_clr against hardware; the formula is kept as
		// documented and assigns the two registers each other's values.
		t.emitPredicateSet("xe_ps = false;", "xe_p0 = XE_FLT_MAX;")
	case ucode.AluScalarSetpRstr:
		// TODO: verify setp_rstr against hardware alongside setp_clr.
		t.emitPredicateSet("xe_p0 = xe_src0.x == 0.0;", "xe_ps = xe_src0.x;")
	case ucode.AluScalarKillsEq:
		t.emitScalarKill("xe_src0.x == 0.0")
	case ucode.AluScalarKillsGt:
		t.emitScalarKill("xe_src0.x > 0.0")
	case ucode.AluScalarKillsGe:
		t.emitScalarKill("xe_src0.x >= 0.0")
	case ucode.AluScalarKillsNe:
		t.emitScalarKill("xe_src0.x != 0.0")
	case ucode.AluScalarKillsOne:
		t.emitScalarKill("xe_src0.x == 1.0")
	case ucode.AluScalarSqrt:
		t.writeLine("xe_ps = sqrt(xe_src0.x);")
	case ucode.AluScalarMulsc0, ucode.AluScalarMulsc1:
		t.writeLine("xe_ps = xe_src0.x * xe_src1.x;")
	case ucode.AluScalarAddsc0, ucode.AluScalarAddsc1:
		t.writeLine("xe_ps = xe_src0.x + xe_src1.x;")
	case ucode.AluScalarSubsc0, ucode.AluScalarSubsc1:
		t.writeLine("xe_ps = xe_src0.x - xe_src1.x;")
	case ucode.AluScalarSin:
		t.writeLine("xe_ps = sin(xe_src0.x);")
	case ucode.AluScalarCos:
		t.writeLine("xe_ps = cos(xe_src0.x);")
	case ucode.AluScalarRetainPrev:
	default:
		t.EmitTranslationError(fmt.Sprintf("unknown scalar opcode %d", instr.ScalarOpcode))
		return
	}

	t.emitStoreResult(&instr.Result, true)
}

// emitPredicateSet writes a predicate update. p0 changes, so instructions
// after it can no longer rely on the exec block guard.
func (t *Translator) emitPredicateSet(first, second string) {
	t.cfExecPred = false
	t.usedFeatures |= FeaturePredication
	t.writeLine("%s", first)
	t.writeLine("%s", second)
}

// emitScalarKill discards the pixel if cond holds.
func (t *Translator) emitScalarKill(cond string) {
	t.usedFeatures |= FeatureDiscard
	t.writeLine("xe_ps = float(%s);", cond)
	t.writeLine("clip(-xe_ps);")
}
