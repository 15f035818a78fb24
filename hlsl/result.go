// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/xenos/ucode"
)

// resultTarget returns the lvalue of a result without its lane mask.
func resultTarget(r *ucode.Result) string {
	var base string
	switch r.StorageTarget {
	case ucode.StorageTargetRegister:
		base = "xe_r"
	case ucode.StorageTargetInterpolant:
		base = "xe_output.interpolators"
	case ucode.StorageTargetPosition:
		return "xe_output.position"
	case ucode.StorageTargetPointSize:
		return "xe_output.point_size"
	case ucode.StorageTargetColorTarget:
		base = "xe_output.colors"
	case ucode.StorageTargetDepth:
		return "xe_output.depth"
	default:
		return ""
	}
	switch r.AddressingMode {
	case ucode.AddressingAbsolute:
		return fmt.Sprintf("%s[%d + xe_a0]", base, r.StorageIndex)
	case ucode.AddressingRelative:
		return fmt.Sprintf("%s[%d + xe_aL.x]", base, r.StorageIndex)
	default:
		return fmt.Sprintf("%s[%d]", base, r.StorageIndex)
	}
}

// resultLane returns the value stored into one lane: a literal, the
// previous scalar, or a lane of the previous vector.
func resultLane(sel ucode.SwizzleSource, scalar bool) string {
	switch {
	case sel == ucode.Swizzle0:
		return "0.0"
	case sel == ucode.Swizzle1:
		return "1.0"
	case scalar:
		return "xe_ps"
	default:
		return "xe_pv." + string(sel.Char())
	}
}

// resultStatement returns the assignment storing the previous vector or
// scalar result, or false when the result writes nothing.
func resultStatement(r *ucode.Result, scalar bool) (string, bool) {
	target := resultTarget(r)
	if target == "" {
		return "", false
	}

	if r.StorageTarget.IsScalar() {
		if !r.WriteMask[0] {
			return "", false
		}
		value := resultLane(r.Components[0], scalar)
		if r.IsClamped && !r.Components[0].IsLiteral() {
			value = "saturate(" + value + ")"
		}
		return target + " = " + value + ";", true
	}

	count := r.WriteCount()
	if count == 0 {
		return "", false
	}

	var lanes, value strings.Builder
	for i := 0; i < 4; i++ {
		if r.WriteMask[i] {
			lanes.WriteByte(ucode.SwizzleFromComponentIndex(i).Char())
		}
	}

	switch {
	case r.HasLiteralWrites():
		if count > 1 {
			fmt.Fprintf(&value, "float%d(", count)
		}
		first := true
		for i := 0; i < 4; i++ {
			if !r.WriteMask[i] {
				continue
			}
			if !first {
				value.WriteString(", ")
			}
			first = false
			value.WriteString(resultLane(r.Components[i], scalar))
		}
		if count > 1 {
			value.WriteByte(')')
		}
	case scalar:
		value.WriteString("xe_ps")
		if count > 1 {
			value.WriteByte('.')
			value.WriteString(strings.Repeat("x", count))
		}
	default:
		value.WriteString("xe_pv.")
		for i := 0; i < 4; i++ {
			if r.WriteMask[i] {
				value.WriteByte(r.Components[i].Char())
			}
		}
	}

	rhs := value.String()
	if r.IsClamped {
		rhs = "saturate(" + rhs + ")"
	}
	return target + "." + lanes.String() + " = " + rhs + ";", true
}

// resultTargetAvailable reports whether the stage declares the target.
func (t *Translator) resultTargetAvailable(target ucode.StorageTarget) bool {
	switch target {
	case ucode.StorageTargetInterpolant, ucode.StorageTargetPosition, ucode.StorageTargetPointSize:
		return t.stage == ucode.ShaderStageVertex
	case ucode.StorageTargetColorTarget, ucode.StorageTargetDepth:
		return t.stage == ucode.ShaderStagePixel
	default:
		return true
	}
}

// emitStoreResult writes xe_pv, or xe_ps when scalar is set, to the result.
func (t *Translator) emitStoreResult(r *ucode.Result, scalar bool) {
	stmt, ok := resultStatement(r, scalar)
	if !ok {
		return
	}
	if !t.resultTargetAvailable(r.StorageTarget) {
		t.EmitTranslationError(fmt.Sprintf("%s is not an output of the %s shader", r.StorageTarget, t.stage))
		return
	}
	if r.AddressingMode != ucode.AddressingStatic && r.StorageTarget.IsArray() {
		t.usedFeatures |= FeatureDynamicIndexing
	}
	if r.StorageTarget == ucode.StorageTargetDepth {
		t.writesDepth = true
		t.usedFeatures |= FeatureDepthExport
	}
	t.writeLine("%s", stmt)
}
