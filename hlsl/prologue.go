// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/xenos/ucode"
)

// 3557 is the "loop only executes for 1 iteration" warning caused by the
// dispatch loop.
const preamble = `#pragma warning(disable : 3557)

#define XE_FLT_MAX 3.402823466e+38

`

// XeCubeTo2D emulates the cube ALU instruction, giving
// (t, s, 2 * major axis, face index). XeCubeTo3D undoes it from
// (s, t, face index).
const cubeHelpers = `float4 XeCubeTo2D(float3 xe_cube_3d) {
  float3 xe_cube_3d_abs = abs(xe_cube_3d);
  float4 xe_cube_2d;
  if (xe_cube_3d_abs.x >= xe_cube_3d_abs.y &&
      xe_cube_3d_abs.x >= xe_cube_3d_abs.z) {
    xe_cube_2d.xy = -xe_cube_3d.yz;
    xe_cube_2d.y *= sign(xe_cube_3d.x);
    xe_cube_2d.z = xe_cube_3d.x;
    xe_cube_2d.w = 0.0;
  } else if (xe_cube_3d_abs.y >= xe_cube_3d_abs.z) {
    xe_cube_2d.xyz = xe_cube_3d.zxy;
    xe_cube_2d.x *= sign(xe_cube_3d.y);
    xe_cube_2d.w = 2.0;
  } else {
    xe_cube_2d.x = -xe_cube_3d.y;
    xe_cube_2d.yz = xe_cube_3d.xz;
    xe_cube_2d.y *= sign(xe_cube_3d.z);
    xe_cube_2d.w = 4.0;
  }
  xe_cube_2d.w += saturate(-sign(xe_cube_2d.y));
  xe_cube_2d.z *= 2.0;
  xe_cube_2d.xy -= abs(xe_cube_2d.zz);
  return xe_cube_2d;
}

float3 XeCubeTo3D(float3 xe_cube_2d) {
  xe_cube_2d.xy = (xe_cube_2d.xy * 2.0) + 1.0;
  float3 xe_cube_3d;
  uint xe_cube_face_index = uint(xe_cube_2d.z);
  float xe_cube_ma_sign =
      -(float(xe_cube_face_index & 1u) * 2.0 - 1.0);
  uint xe_cube_ma_index = xe_cube_face_index >> 1u;
  if (xe_cube_ma_index == 0u) {
    xe_cube_3d.x = xe_cube_2d.z;
    xe_cube_3d.yz = -xe_cube_2d.yx;
    xe_cube_3d.xz *= xe_cube_ma_sign;
  } else if (xe_cube_ma_index == 1u) {
    xe_cube_3d = xe_cube_2d.xzy;
    xe_cube_3d.yz *= xe_cube_ma_sign;
  } else {
    xe_cube_3d.xz = xe_cube_2d.xz * xe_cube_ma_sign;
    xe_cube_3d.y = -xe_cube_2d.y;
  }
  return xe_cube_3d;
}

`

// Endian code: bits 0 xor 1 select an 8-in-16 swap, bit 1 a 16-in-32 swap.
const byteSwapHelpers = `#define XE_BYTE_SWAP_OVERLOAD(XeByteSwapType) \
XeByteSwapType XeByteSwap(XeByteSwapType v, uint endian) { \
  [flatten] if (((endian ^ (endian >> 1u)) & 1u) != 0u) { \
    v = ((v & 0x00FF00FFu) << 8u) | ((v & 0xFF00FF00u) >> 8u); \
  } \
  [flatten] if ((endian & 2u) != 0u) { \
    v = (v << 16u) | (v >> 16u); \
  } \
  return v; \
}
XE_BYTE_SWAP_OVERLOAD(uint)
XE_BYTE_SWAP_OVERLOAD(uint2)
XE_BYTE_SWAP_OVERLOAD(uint3)
XE_BYTE_SWAP_OVERLOAD(uint4)

`

// workingState declares the operand temporaries, the previous vector and
// scalar results, the predicate and address registers, the loop stacks
// (.x is the active loop) and the program location, then opens the
// dispatch loop.
const workingState = `  uint xe_src_index;
  float4 xe_src0, xe_src1, xe_src2;
  float4 xe_pv = float4(0.0, 0.0, 0.0, 0.0);
  float xe_ps = 0.0;
  bool xe_p0 = false;
  int xe_a0 = 0;
  int4 xe_aL = int4(0, 0, 0, 0);
  uint4 xe_loop_count = uint4(0u, 0u, 0u, 0u);
  uint xe_pc = 0u;

  do {
    switch (xe_pc) {
`

const epilogue = `      default:
      xe_pc = 0xFFFFu;
      break;
    }
  } while (xe_pc != 0xFFFFu);
  return xe_output;
}
`

// CompleteTranslation assembles the final shader: declarations and the
// stage prologue, knowing now what the body needs, then the body and the
// epilogue. It may be called once per Reset.
func (t *Translator) CompleteTranslation() (string, error) {
	if t.state != stateStarted {
		return "", NewError(ErrInvalidState, "CompleteTranslation called without StartTranslation")
	}
	t.state = stateCompleted

	var src strings.Builder
	src.WriteString(preamble)
	if t.cubeUsed {
		src.WriteString(cubeHelpers)
	}
	writeConstantBuffers(&src)

	switch t.stage {
	case ucode.ShaderStageVertex:
		t.writeVertexPrologue(&src)
	case ucode.ShaderStagePixel:
		t.writePixelPrologue(&src)
	}

	src.WriteString(workingState)
	src.WriteString(t.out.String())
	if !t.cfWrotePC {
		src.WriteString("      xe_pc = 0xFFFFu;\n      break;\n")
	}
	src.WriteString(epilogue)
	return src.String(), nil
}

func writeConstantBuffers(src *strings.Builder) {
	fmt.Fprintf(src, "cbuffer %s : %s {\n", SystemConstantsName, SystemConstantsTarget)
	src.WriteString("  float2 xe_viewport_inv_scale;\n")
	src.WriteString("  uint xe_vertex_index_endian;\n")
	src.WriteString("  uint xe_textures_are_3d;\n")
	src.WriteString("};\n\n")

	fmt.Fprintf(src, "cbuffer %s : %s {\n", LoopBoolConstantsName, LoopBoolConstantsTarget)
	src.WriteString("  uint xe_bool_constants[8];\n")
	src.WriteString("  uint xe_loop_constants[32];\n")
	src.WriteString("};\n\n")

	src.WriteString("struct XeFloatConstantPage {\n")
	src.WriteString("  float4 c[32];\n")
	src.WriteString("};\n")
	fmt.Fprintf(src, "ConstantBuffer<XeFloatConstantPage> %s[%d] : %s;\n\n",
		FloatConstantsName, *FloatConstantsTarget.BindingArraySize, FloatConstantsTarget)
}

// declaredRegisterCount is the size of xe_r. The vertex prologue always
// writes xe_r[0], and HLSL has no zero-sized arrays.
func (t *Translator) declaredRegisterCount() uint32 {
	return max(t.registerCount, 1)
}

// writeVertexPrologue declares vertex fetch resources and the output
// structure, byte swaps the vertex index into r0.x and resets the outputs.
// A point size of -1 selects the global point size downstream.
func (t *Translator) writeVertexPrologue(src *strings.Builder) {
	fmt.Fprintf(src, "cbuffer %s : %s {\n", VertexFetchConstantsName, VertexFetchConstantsTarget)
	fmt.Fprintf(src, "  uint2 xe_vertex_fetch[%d];\n", vertexFetchConstants)
	src.WriteString("};\n\n")
	fmt.Fprintf(src, "ByteAddressBuffer %s : %s;\n\n", SharedMemoryName, SharedMemoryTarget)
	src.WriteString(byteSwapHelpers)

	src.WriteString("struct XeVertexShaderOutput {\n")
	src.WriteString("  float4 position : SV_Position;\n")
	fmt.Fprintf(src, "  float4 interpolators[%d] : TEXCOORD;\n", maxInterpolators)
	src.WriteString("  float point_size : PSIZE;\n")
	src.WriteString("};\n\n")

	src.WriteString("XeVertexShaderOutput main(uint xe_vertex_index_be : SV_VertexID) {\n")
	fmt.Fprintf(src, "  float4 xe_r[%d];\n", t.declaredRegisterCount())
	src.WriteString("  uint xe_vertex_index =\n")
	src.WriteString("      XeByteSwap(xe_vertex_index_be, xe_vertex_index_endian);\n")
	src.WriteString("  uint4 xe_vertex_element;\n")
	src.WriteString("  xe_r[0].r = float(xe_vertex_index);\n")
	src.WriteString("  XeVertexShaderOutput xe_output;\n")
	src.WriteString("  xe_output.position = float4(0.0, 0.0, 0.0, 1.0);\n")
	src.WriteString("  xe_output.point_size = -1.0;\n")
	for i := 0; i < maxInterpolators; i++ {
		fmt.Fprintf(src, "  xe_output.interpolators[%d] = (0.0).xxxx;\n", i)
	}
}

// writePixelPrologue declares the pixel input and output structures, zeroes
// the color outputs, defaults the depth output to the rasterized depth and
// copies the interpolators into the first registers.
func (t *Translator) writePixelPrologue(src *strings.Builder) {
	src.WriteString("struct XePixelShaderInput {\n")
	src.WriteString("  float4 position : SV_Position;\n")
	fmt.Fprintf(src, "  float4 interpolators[%d] : TEXCOORD;\n", maxInterpolators)
	src.WriteString("};\n\n")

	src.WriteString("struct XePixelShaderOutput {\n")
	src.WriteString("  float4 colors[4] : SV_Target;\n")
	if t.writesDepth {
		src.WriteString("  float depth : SV_Depth;\n")
	}
	src.WriteString("};\n\n")

	src.WriteString("XePixelShaderOutput main(XePixelShaderInput xe_input) {\n")
	fmt.Fprintf(src, "  float4 xe_r[%d];\n", t.declaredRegisterCount())
	src.WriteString("  XePixelShaderOutput xe_output;\n")
	for i := 0; i < 4; i++ {
		fmt.Fprintf(src, "  xe_output.colors[%d] = (0.0).xxxx;\n", i)
	}
	if t.writesDepth {
		src.WriteString("  xe_output.depth = xe_input.position.z;\n")
	}
	for i := uint32(0); i < min(t.registerCount, maxInterpolators); i++ {
		fmt.Fprintf(src, "  xe_r[%d] = xe_input.interpolators[%d];\n", i, i)
	}
}
