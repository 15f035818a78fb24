// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/xenos/ucode"
)

func vertexFetch(format ucode.VertexFormat, fetchConstant uint32) ucode.VertexFetchInstruction {
	index := swizzled(ucode.StorageSourceRegister, 0, ucode.SwizzleX)
	return ucode.VertexFetchInstruction{
		Attributes: ucode.VertexFetchAttributes{DataFormat: format, Stride: 4},
		Result:     testResult(ucode.StorageTargetRegister, 1, "xyzw"),
		Operands: []ucode.Operand{
			index,
			ucode.NewOperand(ucode.StorageSourceVertexFetchConstant, fetchConstant),
		},
	}
}

func TestVertexLoad(t *testing.T) {
	tests := []struct {
		format  ucode.VertexFormat
		swizzle string
		suffix  string
	}{
		{ucode.VertexFormat8_8_8_8, ".x", ""},
		{ucode.VertexFormat32Float, ".x", ""},
		{ucode.VertexFormat16_16_16_16, ".xy", "2"},
		{ucode.VertexFormat32_32Float, ".xy", "2"},
		{ucode.VertexFormat32_32_32Float, ".xyz", "3"},
		{ucode.VertexFormat32_32_32_32, "", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			swizzle, suffix := vertexLoad(tt.format)
			assert.Equal(t, tt.swizzle, swizzle)
			assert.Equal(t, tt.suffix, suffix)
		})
	}
}

func TestProcessVertexFetchLoad(t *testing.T) {
	instr := vertexFetch(ucode.VertexFormat32_32_32Float, 5)
	instr.Attributes.Offset = 2

	tr := newWriterTranslator(t, ucode.ShaderStageVertex)
	tr.ProcessVertexFetchInstruction(instr)
	require.Empty(t, tr.Diagnostics())

	want := "xe_src0 = (xe_r[0]).xxxx;\n" +
		"xe_vertex_element.xyz = XeByteSwap(xe_shared_memory.Load3(\n" +
		"    ((xe_vertex_fetch[5u].x << 2u) & 0x1FFFFFFCu) + uint(xe_src0.x) * 16u + 8u),\n" +
		"    xe_vertex_fetch[5u].y);\n" +
		"xe_pv.xyz = asfloat(xe_vertex_element.xyz);\n" +
		"xe_pv.w = 1.0;\n" +
		"xe_r[1].xyzw = xe_pv.xyzw;\n"
	assert.Equal(t, want, tr.out.String())
	assert.True(t, tr.UsedFeatures().Has(FeatureVertexFetch))
}

func TestProcessVertexFetchZeroStrideAndOffset(t *testing.T) {
	instr := vertexFetch(ucode.VertexFormat32Float, 0)
	instr.Attributes.Stride = 0

	tr := newWriterTranslator(t, ucode.ShaderStageVertex)
	tr.ProcessVertexFetchInstruction(instr)

	assert.Contains(t, tr.out.String(), "    ((xe_vertex_fetch[0u].x << 2u) & 0x1FFFFFFCu)),\n")
}

func TestVertexUnpack(t *testing.T) {
	tests := []struct {
		name   string
		attrs  ucode.VertexFetchAttributes
		want   []string
		absent []string
	}{
		{
			name:  "8_8_8_8 unorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat8_8_8_8},
			want:  []string{"uint4(0u, 8u, 16u, 24u)) & 255u;", "xe_pv = float4(xe_vertex_element);", "xe_pv /= 255.0;"},
		},
		{
			name:  "8_8_8_8 snorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat8_8_8_8, IsSigned: true},
			want: []string{
				"xe_pv = float4(int4(xe_vertex_element << 24u) >> 24);",
				"xe_pv = max(xe_pv / 127.0, (-1.0).xxxx);",
			},
		},
		{
			name:   "8_8_8_8 integer",
			attrs:  ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat8_8_8_8, IsInteger: true},
			want:   []string{"xe_pv = float4(xe_vertex_element);"},
			absent: []string{"255.0"},
		},
		{
			name:  "2_10_10_10 snorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat2_10_10_10, IsSigned: true},
			want: []string{
				"    >> int4((22).xxx, 30));",
				"xe_pv = max(xe_pv / float4((511.0).xxx, 1.0), (-1.0).xxxx);",
			},
		},
		{
			name:  "10_11_11 unorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat10_11_11},
			want:  []string{"xe_pv.xyz /= float3((2047.0).xx, 1023.0);", "xe_pv.w = 1.0;"},
		},
		{
			name:  "11_11_10 unorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat11_11_10},
			want:  []string{"uint3(0u, 10u, 21u)) & uint3(1023u, 2047u, 2047u);", "xe_pv.xyz /= float3(1023.0, (2047.0).xx);"},
		},
		{
			name:  "16_16 snorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat16_16, IsSigned: true},
			want:  []string{"xe_pv.xy = max(xe_pv.xy / 32767.0, (-1.0).xx);", "xe_pv.zw = float2(0.0, 1.0);"},
		},
		{
			name:  "16_16_16_16 reads two words",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat16_16_16_16},
			want:  []string{"xe_vertex_element = (xe_vertex_element.xxyy >>", "xe_pv /= 65535.0;"},
		},
		{
			name:  "16_16_16_16 float",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat16_16_16_16Float},
			want:  []string{"xe_pv = f16tof32(xe_vertex_element);"},
		},
		{
			name:  "32 unorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat32},
			want:  []string{"xe_pv.x = float(xe_vertex_element.x);", "xe_pv.x *= asfloat(0x2F800000u);", "xe_pv.yzw = float3(0.0, 0.0, 1.0);"},
		},
		{
			name:  "32_32 snorm",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat32_32, IsSigned: true},
			want:  []string{"xe_pv.xy = float2(int2(xe_vertex_element.xy));", "xe_pv.xy *= asfloat(0x30000000u);"},
		},
		{
			name:   "32_32_32_32 signed integer",
			attrs:  ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat32_32_32_32, IsSigned: true, IsInteger: true},
			want:   []string{"xe_pv = float4(int4(xe_vertex_element));"},
			absent: []string{"asfloat", "xe_pv.w = 1.0;"},
		},
		{
			name:  "32_32_FLOAT",
			attrs: ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat32_32Float},
			want:  []string{"xe_pv.xy = asfloat(xe_vertex_element.xy);", "xe_pv.zw = float2(0.0, 1.0);"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newWriterTranslator(t, ucode.ShaderStageVertex)
			tr.emitVertexUnpack(tt.attrs)
			out := tr.out.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w+"\n")
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
		})
	}
}

// emittedDivisors finds the normalizing division in unpack code and returns
// the per-lane divisors it applies and whether the result is clamped to -1.
func emittedDivisors(t *testing.T, code string) ([]float32, bool) {
	t.Helper()
	code = strings.ReplaceAll(code, "\n    ", " ")
	for _, line := range strings.Split(code, "\n") {
		slash := strings.Index(line, "/")
		if slash < 0 {
			continue
		}
		lanes := 4
		if _, mask, ok := strings.Cut(strings.Fields(line)[0], "."); ok {
			lanes = len(mask)
		}
		rest := strings.TrimLeft(line[slash+1:], "= ")
		var expr string
		if strings.HasPrefix(rest, "float") {
			open := strings.Index(rest, "(")
			depth := 0
			for i := open; i < len(rest); i++ {
				switch rest[i] {
				case '(':
					depth++
				case ')':
					depth--
				}
				if depth == 0 {
					expr = rest[open+1 : i]
					break
				}
			}
		} else {
			expr = rest[:strings.IndexAny(rest, ",;")]
		}

		var divisors []float32
		for _, arg := range strings.Split(expr, ", ") {
			repeat := 1
			if value, swizzle, ok := strings.Cut(arg, ")."); ok {
				arg, repeat = strings.TrimPrefix(value, "("), len(swizzle)
			}
			v, err := strconv.ParseFloat(arg, 32)
			require.NoError(t, err, "divisor %q in %q", arg, line)
			for k := 0; k < repeat; k++ {
				divisors = append(divisors, float32(v))
			}
		}
		if len(divisors) == 1 {
			for len(divisors) < lanes {
				divisors = append(divisors, divisors[0])
			}
		}
		require.Len(t, divisors, lanes, "divisor lanes in %q", line)
		clamped := strings.Contains(line, "max(") && strings.Contains(line, "(-1.0).")
		return divisors, clamped
	}
	return nil, false
}

func TestVertexUnpackMatchesDecodeScales(t *testing.T) {
	formats := []ucode.VertexFormat{
		ucode.VertexFormat8_8_8_8,
		ucode.VertexFormat2_10_10_10,
		ucode.VertexFormat10_11_11,
		ucode.VertexFormat11_11_10,
		ucode.VertexFormat16_16,
		ucode.VertexFormat16_16_16_16,
	}
	for _, format := range formats {
		for _, signed := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s signed=%t", format, signed), func(t *testing.T) {
				tr := newWriterTranslator(t, ucode.ShaderStageVertex)
				tr.emitVertexUnpack(ucode.VertexFetchAttributes{DataFormat: format, IsSigned: signed})

				divisors, clamped := emittedDivisors(t, tr.out.String())
				require.NotEmpty(t, divisors, "no normalization emitted:\n%s", tr.out.String())
				scales := format.NormalizationScales(signed)
				assert.Equal(t, scales[:len(divisors)], divisors)
				assert.Equal(t, signed, clamped, "signed lanes clamp to -1")

				tr = newWriterTranslator(t, ucode.ShaderStageVertex)
				tr.emitVertexUnpack(ucode.VertexFetchAttributes{DataFormat: format, IsSigned: signed, IsInteger: true})
				assert.NotContains(t, tr.out.String(), "/", "integer lanes are not normalized")
			})
		}
	}
}

func TestVertexUnpack32MatchesDecodeScale(t *testing.T) {
	for _, signed := range []bool{false, true} {
		tr := newWriterTranslator(t, ucode.ShaderStageVertex)
		tr.emitVertexUnpack(ucode.VertexFetchAttributes{DataFormat: ucode.VertexFormat32_32, IsSigned: signed})

		exp := -32
		if signed {
			exp = -31
		}
		bits := math.Float32bits(float32(math.Ldexp(1, exp)))
		assert.Contains(t, tr.out.String(), fmt.Sprintf("xe_pv.xy *= asfloat(0x%Xu);", bits))
		assert.Equal(t, math.Float32frombits(bits), ucode.Normalization32(signed))
	}
}

func TestProcessVertexFetchErrors(t *testing.T) {
	tests := []struct {
		name  string
		stage ucode.ShaderStage
		instr func() ucode.VertexFetchInstruction
		msg   string
	}{
		{
			name:  "pixel stage",
			stage: ucode.ShaderStagePixel,
			instr: func() ucode.VertexFetchInstruction { return vertexFetch(ucode.VertexFormat32Float, 0) },
			msg:   "outside the vertex shader",
		},
		{
			name:  "missing fetch constant",
			stage: ucode.ShaderStageVertex,
			instr: func() ucode.VertexFetchInstruction {
				instr := vertexFetch(ucode.VertexFormat32Float, 0)
				instr.Operands = instr.Operands[:1]
				return instr
			},
			msg: "without a vertex fetch constant",
		},
		{
			name:  "wrong operand kind",
			stage: ucode.ShaderStageVertex,
			instr: func() ucode.VertexFetchInstruction {
				instr := vertexFetch(ucode.VertexFormat32Float, 0)
				instr.Operands[1].StorageSource = ucode.StorageSourceTextureFetchConstant
				return instr
			},
			msg: "without a vertex fetch constant",
		},
		{
			name:  "fetch constant out of range",
			stage: ucode.ShaderStageVertex,
			instr: func() ucode.VertexFetchInstruction { return vertexFetch(ucode.VertexFormat32Float, 96) },
			msg:   "vertex fetch constant 96 out of range",
		},
		{
			name:  "unknown format",
			stage: ucode.ShaderStageVertex,
			instr: func() ucode.VertexFetchInstruction { return vertexFetch(ucode.VertexFormatUndefined, 0) },
			msg:   "unknown vertex format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newWriterTranslator(t, tt.stage)
			tr.ProcessVertexFetchInstruction(tt.instr())

			require.Len(t, tr.Diagnostics(), 1)
			assert.True(t, tr.Diagnostics()[0].IsTranslation())
			assert.Contains(t, tr.Diagnostics()[0].Message, tt.msg)
			assert.NotContains(t, tr.out.String(), "xe_shared_memory")
			assert.False(t, tr.UsedFeatures().Has(FeatureVertexFetch))
		})
	}
}

func TestProcessVertexFetchPredicated(t *testing.T) {
	instr := vertexFetch(ucode.VertexFormat32Float, 1)
	instr.IsPredicated = true
	instr.PredicateCondition = true

	tr := newWriterTranslator(t, ucode.ShaderStageVertex)
	tr.ProcessVertexFetchInstruction(instr)

	out := tr.out.String()
	assert.Contains(t, out, "if (xe_p0) {\n  xe_src0 = (xe_r[0]).xxxx;\n")
	assert.Contains(t, out, "  xe_r[1].xyzw = xe_pv.xyzw;\n}\n")
}
