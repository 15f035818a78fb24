// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"math"

	"github.com/gogpu/xenos/ucode"
)

// vertexLoad returns the lanes of xe_vertex_element a format fills and the
// ByteAddressBuffer Load suffix for its word count.
func vertexLoad(format ucode.VertexFormat) (swizzle, suffix string) {
	switch format.WordCount() {
	case 2:
		return ".xy", "2"
	case 3:
		return ".xyz", "3"
	case 4:
		return "", "4"
	default:
		return ".x", ""
	}
}

// ProcessVertexFetchInstruction loads one vertex element from shared memory
// through its fetch constant, byte swaps it and unpacks it into xe_pv.
func (t *Translator) ProcessVertexFetchInstruction(instr ucode.VertexFetchInstruction) {
	t.writeDisassembly(instr)

	if t.stage != ucode.ShaderStageVertex {
		t.EmitTranslationError("vertex fetch outside the vertex shader")
		return
	}
	if len(instr.Operands) < 2 || instr.Operands[1].StorageSource != ucode.StorageSourceVertexFetchConstant {
		t.EmitTranslationError("vertex fetch without a vertex fetch constant operand")
		return
	}
	fetch := instr.Operands[1].StorageIndex
	if fetch >= vertexFetchConstants {
		t.EmitTranslationError(fmt.Sprintf("vertex fetch constant %d out of range", fetch))
		return
	}
	attrs := instr.Attributes
	if !attrs.DataFormat.IsValid() {
		t.EmitTranslationError(fmt.Sprintf("unknown vertex format %d", attrs.DataFormat))
		return
	}

	guard := t.beginPredicatedInstruction(instr.IsPredicated, instr.PredicateCondition)
	defer t.endPredicatedInstruction(guard)

	t.usedFeatures |= FeatureVertexFetch
	if !t.emitLoadOperand(0, &instr.Operands[0]) {
		return
	}

	swizzle, suffix := vertexLoad(attrs.DataFormat)
	t.writeLine("xe_vertex_element%s = XeByteSwap(xe_shared_memory.Load%s(", swizzle, suffix)
	t.writeIndent()
	t.write("    ((xe_vertex_fetch[%du].x << 2u) & 0x1FFFFFFCu)", fetch)
	if attrs.Stride != 0 {
		t.write(" + uint(xe_src0.x) * %du", attrs.Stride*4)
	}
	if attrs.Offset != 0 {
		t.write(" + %du", attrs.Offset*4)
	}
	t.write("),\n")
	t.writeLine("    xe_vertex_fetch[%du].y);", fetch)

	t.emitVertexUnpack(attrs)
	t.emitStoreResult(&instr.Result, false)
}

// emitVertexUnpack converts the raw words in xe_vertex_element to floats in
// xe_pv. Normalized lanes are divided by the largest code, and signed ones
// are clamped so the most negative code is exactly -1.
func (t *Translator) emitVertexUnpack(attrs ucode.VertexFetchAttributes) {
	signed, integer := attrs.IsSigned, attrs.IsInteger
	normalized := !integer

	switch attrs.DataFormat {
	case ucode.VertexFormat8_8_8_8:
		t.writeLine("xe_vertex_element = (xe_vertex_element.xxxx >>")
		t.writeLine("    uint4(0u, 8u, 16u, 24u)) & 255u;")
		if signed {
			t.writeLine("xe_pv = float4(int4(xe_vertex_element << 24u) >> 24);")
		} else {
			t.writeLine("xe_pv = float4(xe_vertex_element);")
		}
		switch {
		case normalized && signed:
			t.writeLine("xe_pv = max(xe_pv / 127.0, (-1.0).xxxx);")
		case normalized:
			t.writeLine("xe_pv /= 255.0;")
		}

	case ucode.VertexFormat2_10_10_10:
		t.writeLine("xe_vertex_element = (xe_vertex_element.xxxx >>")
		t.writeLine("    uint4(0u, 10u, 20u, 30u)) & uint4((1023u).xxx, 3u);")
		if signed {
			t.writeLine("xe_pv = float4(int4(xe_vertex_element << uint4((22u).xxx, 30u))")
			t.writeLine("    >> int4((22).xxx, 30));")
		} else {
			t.writeLine("xe_pv = float4(xe_vertex_element);")
		}
		switch {
		case normalized && signed:
			t.writeLine("xe_pv = max(xe_pv / float4((511.0).xxx, 1.0), (-1.0).xxxx);")
		case normalized:
			t.writeLine("xe_pv /= float4((1023.0).xxx, 3.0);")
		}

	case ucode.VertexFormat10_11_11:
		t.writeLine("xe_vertex_element.xyz = (xe_vertex_element.xxx >>")
		t.writeLine("    uint3(0u, 11u, 22u)) & uint3(2047u, 2047u, 1023u);")
		if signed {
			t.writeLine("xe_pv.xyz = float3(int3(xe_vertex_element.xyz <<")
			t.writeLine("    uint3(21u, 21u, 22u)) >> int3(21, 21, 22));")
		} else {
			t.writeLine("xe_pv.xyz = float3(xe_vertex_element.xyz);")
		}
		switch {
		case normalized && signed:
			t.writeLine("xe_pv.xyz = max(xe_pv.xyz /")
			t.writeLine("    float3((1023.0).xx, 511.0), (-1.0).xxx);")
		case normalized:
			t.writeLine("xe_pv.xyz /= float3((2047.0).xx, 1023.0);")
		}
		t.writeLine("xe_pv.w = 1.0;")

	case ucode.VertexFormat11_11_10:
		t.writeLine("xe_vertex_element.xyz = (xe_vertex_element.xxx >>")
		t.writeLine("    uint3(0u, 10u, 21u)) & uint3(1023u, 2047u, 2047u);")
		if signed {
			t.writeLine("xe_pv.xyz = float3(int3(xe_vertex_element.xyz <<")
			t.writeLine("    uint3(22u, 21u, 21u)) >> int3(22, 21, 21));")
		} else {
			t.writeLine("xe_pv.xyz = float3(xe_vertex_element.xyz);")
		}
		switch {
		case normalized && signed:
			t.writeLine("xe_pv.xyz = max(xe_pv.xyz /")
			t.writeLine("    float3(511.0, (1023.0).xx), (-1.0).xxx);")
		case normalized:
			t.writeLine("xe_pv.xyz /= float3(1023.0, (2047.0).xx);")
		}
		t.writeLine("xe_pv.w = 1.0;")

	case ucode.VertexFormat16_16:
		t.writeLine("xe_vertex_element.xy = (xe_vertex_element.xx >>")
		t.writeLine("    uint2(0u, 16u)) & 65535u;")
		if signed {
			t.writeLine("xe_pv.xy = float2(int2(xe_vertex_element.xy << 16u) >> 16);")
		} else {
			t.writeLine("xe_pv.xy = float2(xe_vertex_element.xy);")
		}
		switch {
		case normalized && signed:
			t.writeLine("xe_pv.xy = max(xe_pv.xy / 32767.0, (-1.0).xx);")
		case normalized:
			t.writeLine("xe_pv.xy /= 65535.0;")
		}
		t.writeLine("xe_pv.zw = float2(0.0, 1.0);")

	case ucode.VertexFormat16_16_16_16:
		t.writeLine("xe_vertex_element = (xe_vertex_element.xxyy >>")
		t.writeLine("    uint4(0u, 16u, 0u, 16u)) & 65535u;")
		if signed {
			t.writeLine("xe_pv = float4(int4(xe_vertex_element << 16u) >> 16);")
		} else {
			t.writeLine("xe_pv = float4(xe_vertex_element);")
		}
		switch {
		case normalized && signed:
			t.writeLine("xe_pv = max(xe_pv / 32767.0, (-1.0).xxxx);")
		case normalized:
			t.writeLine("xe_pv /= 65535.0;")
		}

	case ucode.VertexFormat16_16Float:
		t.writeLine("xe_vertex_element.xy = (xe_vertex_element.xx >>")
		t.writeLine("    uint2(0u, 16u)) & 65535u;")
		t.writeLine("xe_pv.xy = f16tof32(xe_vertex_element.xy);")
		t.writeLine("xe_pv.zw = float2(0.0, 1.0);")

	case ucode.VertexFormat16_16_16_16Float:
		t.writeLine("xe_vertex_element = (xe_vertex_element.xxyy >>")
		t.writeLine("    uint4(0u, 16u, 0u, 16u)) & 65535u;")
		t.writeLine("xe_pv = f16tof32(xe_vertex_element);")

	case ucode.VertexFormat32, ucode.VertexFormat32_32, ucode.VertexFormat32_32_32_32:
		n := attrs.DataFormat.ComponentCount()
		lanes, vec, ivec := ".x", "float", "int"
		switch n {
		case 2:
			lanes, vec, ivec = ".xy", "float2", "int2"
		case 4:
			lanes, vec, ivec = "", "float4", "int4"
		}
		if signed {
			t.writeLine("xe_pv%s = %s(%s(xe_vertex_element%s));", lanes, vec, ivec, lanes)
		} else {
			t.writeLine("xe_pv%s = %s(xe_vertex_element%s);", lanes, vec, lanes)
		}
		if normalized {
			t.writeLine("xe_pv%s *= asfloat(0x%Xu);", lanes, math.Float32bits(ucode.Normalization32(signed)))
		}
		t.emitVertexDefaults(n)

	case ucode.VertexFormat32Float:
		t.writeLine("xe_pv.x = asfloat(xe_vertex_element.x);")
		t.emitVertexDefaults(1)
	case ucode.VertexFormat32_32Float:
		t.writeLine("xe_pv.xy = asfloat(xe_vertex_element.xy);")
		t.emitVertexDefaults(2)
	case ucode.VertexFormat32_32_32_32Float:
		t.writeLine("xe_pv = asfloat(xe_vertex_element);")
	case ucode.VertexFormat32_32_32Float:
		t.writeLine("xe_pv.xyz = asfloat(xe_vertex_element.xyz);")
		t.emitVertexDefaults(3)
	}
}

// emitVertexDefaults fills the lanes after the first n with (0, 0, 1).
func (t *Translator) emitVertexDefaults(n int) {
	switch n {
	case 1:
		t.writeLine("xe_pv.yzw = float3(0.0, 0.0, 1.0);")
	case 2:
		t.writeLine("xe_pv.zw = float2(0.0, 1.0);")
	case 3:
		t.writeLine("xe_pv.w = 1.0;")
	}
}
