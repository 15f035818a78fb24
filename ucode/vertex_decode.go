// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// ByteSwap applies the fetch constant endian code to one word.
// Bit 0 xor bit 1 selects an 8-in-16 swap, bit 1 a 16-in-32 swap, so
// Endian8in32 is both.
func ByteSwap(v uint32, endian Endian) uint32 {
	e := uint32(endian)
	if ((e ^ (e >> 1)) & 1) != 0 {
		v = ((v & 0x00FF00FF) << 8) | ((v & 0xFF00FF00) >> 8)
	}
	if (e & 2) != 0 {
		v = (v << 16) | (v >> 16)
	}
	return v
}

// signExtend sign-extends the low width bits of v.
func signExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift //nolint:gosec // G115: two's complement reinterpretation is the point
}

// unpackField extracts one lane and converts it to float, optionally
// normalizing by scale and clamping signed values to -1.
func unpackField(word uint32, offset, width uint, signed, integer bool, scale float32) float32 {
	raw := (word >> offset) & (1<<width - 1)
	var v float32
	if signed {
		v = float32(signExtend(raw, width))
	} else {
		v = float32(raw)
	}
	if integer {
		return v
	}
	v /= scale
	if signed && v < -1 {
		v = -1
	}
	return v
}

// packedLane locates one lane of a packed format: the word it lives in,
// and its bit offset and width inside that word.
type packedLane struct {
	word, offset, width uint
}

var packedLayouts = map[VertexFormat][]packedLane{
	VertexFormat8_8_8_8:     {{0, 0, 8}, {0, 8, 8}, {0, 16, 8}, {0, 24, 8}},
	VertexFormat2_10_10_10:  {{0, 0, 10}, {0, 10, 10}, {0, 20, 10}, {0, 30, 2}},
	VertexFormat10_11_11:    {{0, 0, 11}, {0, 11, 11}, {0, 22, 10}},
	VertexFormat11_11_10:    {{0, 0, 10}, {0, 10, 11}, {0, 21, 11}},
	VertexFormat16_16:       {{0, 0, 16}, {0, 16, 16}},
	VertexFormat16_16_16_16: {{0, 0, 16}, {0, 16, 16}, {1, 0, 16}, {1, 16, 16}},
}

// NormalizationScales returns the divisor of each lane of a packed integer
// format: the largest code of the lane, or of its positive half when
// signed. Lanes the format does not pack, and formats that are not packed
// integers, report 0.
func (f VertexFormat) NormalizationScales(signed bool) [4]float32 {
	var scales [4]float32
	for i, lane := range packedLayouts[f] {
		bits := lane.width
		if signed {
			bits--
		}
		scales[i] = float32(uint32(1)<<bits - 1)
	}
	return scales
}

// Normalization32 returns the factor that normalizes a 32-bit integer lane:
// 2^-32 unsigned or 2^-31 signed, both exact in float.
func Normalization32(signed bool) float32 {
	if signed {
		return math.Float32frombits(0x30000000)
	}
	return math.Float32frombits(0x2F800000)
}

// DecodeVertexElement unpacks one vertex element the way the translated
// shader does. words must already be in host byte order (see ByteSwap).
// Lanes the format does not carry default to (0, 0, 1) for y, z, w.
func DecodeVertexElement(attrs VertexFetchAttributes, words []uint32) ([4]float32, error) {
	out := [4]float32{0, 0, 0, 1}
	format := attrs.DataFormat
	if !format.IsValid() {
		return out, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if len(words) < format.WordCount() {
		return out, fmt.Errorf("%w: %s needs %d words, have %d", ErrOperandCount, format, format.WordCount(), len(words))
	}
	s, n := attrs.IsSigned, attrs.IsInteger

	if layout, ok := packedLayouts[format]; ok {
		scales := format.NormalizationScales(s)
		for i, lane := range layout {
			out[i] = unpackField(words[lane.word], lane.offset, lane.width, s, n, scales[i])
		}
		return out, nil
	}

	switch format {
	case VertexFormat16_16Float, VertexFormat16_16_16_16Float:
		lanes := 2 * format.WordCount()
		for i := 0; i < lanes; i++ {
			half := uint16(words[i/2] >> (16 * (i % 2))) //nolint:gosec // G115: low 16 bits wanted
			out[i] = float16.Frombits(half).Float32()
		}
	case VertexFormat32, VertexFormat32_32, VertexFormat32_32_32_32:
		scale := Normalization32(s)
		for i := 0; i < format.ComponentCount(); i++ {
			var v float32
			if s {
				v = float32(int32(words[i])) //nolint:gosec // G115: two's complement reinterpretation
			} else {
				v = float32(words[i])
			}
			if !n {
				v *= scale
			}
			out[i] = v
		}
	default:
		for i := 0; i < format.ComponentCount(); i++ {
			out[i] = math.Float32frombits(words[i])
		}
	}
	return out, nil
}
