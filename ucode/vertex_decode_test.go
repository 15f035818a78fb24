// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteSwap(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0x11223344), ByteSwap(0x11223344, EndianNone))
	assert.Equal(uint32(0x22114433), ByteSwap(0x11223344, Endian8in16))
	assert.Equal(uint32(0x44332211), ByteSwap(0x11223344, Endian8in32))
	assert.Equal(uint32(0x33441122), ByteSwap(0x11223344, Endian16in32))
}

func decode(t *testing.T, attrs VertexFetchAttributes, words ...uint32) [4]float32 {
	t.Helper()
	v, err := DecodeVertexElement(attrs, words)
	require.NoError(t, err)
	return v
}

func TestDecodeNormalizedExtremes(t *testing.T) {
	assert := assert.New(t)

	// Most negative signed code clamps to exactly -1.
	v := decode(t, VertexFetchAttributes{DataFormat: VertexFormat8_8_8_8, IsSigned: true}, 0x7F80FF00)
	assert.Equal(float32(0), v[0])
	assert.InDelta(-1.0/127.0, v[1], 1e-7)
	assert.Equal(float32(-1), v[2])
	assert.Equal(float32(1), v[3])

	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat16_16}, 0x0000FFFF)
	assert.Equal([4]float32{1, 0, 0, 1}, v)

	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat8_8_8_8}, 0xFF00FF00)
	assert.Equal([4]float32{0, 1, 0, 1}, v)

	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat16_16, IsSigned: true}, 0x80007FFF)
	assert.Equal([4]float32{1, -1, 0, 1}, v)
}

func TestDecode2_10_10_10(t *testing.T) {
	assert := assert.New(t)

	// x=1023 y=0 z=1023 w=3
	word := uint32(1023) | uint32(1023)<<20 | uint32(3)<<30
	v := decode(t, VertexFetchAttributes{DataFormat: VertexFormat2_10_10_10}, word)
	assert.Equal([4]float32{1, 0, 1, 1}, v)

	// The 2-bit lane divides by 3.
	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat2_10_10_10}, uint32(1)<<30)
	assert.InDelta(1.0/3.0, v[3], 1e-7)

	// Signed: x=-512 clamps, w=-2 clamps, y=511 is 1.
	word = uint32(512) | uint32(511)<<10 | uint32(2)<<30
	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat2_10_10_10, IsSigned: true}, word)
	assert.Equal([4]float32{-1, 1, 0, -1}, v)

	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat2_10_10_10, IsInteger: true}, word)
	assert.Equal([4]float32{512, 511, 0, 2}, v)
}

func TestDecodePackedThreeLane(t *testing.T) {
	assert := assert.New(t)

	v := decode(t, VertexFetchAttributes{DataFormat: VertexFormat10_11_11}, 0xFFFFFFFF)
	assert.Equal([4]float32{1, 1, 1, 1}, v)

	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat11_11_10, IsInteger: true}, 0xFFFFFFFF)
	assert.Equal([4]float32{1023, 2047, 2047, 1}, v)
}

func TestDecodeHalfFloat(t *testing.T) {
	assert := assert.New(t)

	// 1.0 = 0x3C00, -2.0 = 0xC000
	v := decode(t, VertexFetchAttributes{DataFormat: VertexFormat16_16Float}, 0xC0003C00)
	assert.Equal([4]float32{1, -2, 0, 1}, v)

	// 0.5 = 0x3800, 0.25 = 0x3400
	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat16_16_16_16Float}, 0xC0003C00, 0x34003800)
	assert.Equal([4]float32{1, -2, 0.5, 0.25}, v)
}

func TestDecode16x4UsesBothWords(t *testing.T) {
	v := decode(t, VertexFetchAttributes{DataFormat: VertexFormat16_16_16_16, IsInteger: true}, 0x00020001, 0x00040003)
	assert.Equal(t, [4]float32{1, 2, 3, 4}, v)
}

func TestDecode32(t *testing.T) {
	assert := assert.New(t)

	v := decode(t, VertexFetchAttributes{DataFormat: VertexFormat32, IsSigned: true}, 0x80000000)
	assert.Equal([4]float32{-1, 0, 0, 1}, v)

	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat32_32, IsInteger: true}, 7, 0xFFFFFFFF)
	assert.Equal([4]float32{7, 4294967295, 0, 1}, v)

	v = decode(t, VertexFetchAttributes{DataFormat: VertexFormat32_32_32Float},
		math.Float32bits(1.5), math.Float32bits(-2), math.Float32bits(8))
	assert.Equal([4]float32{1.5, -2, 8, 1}, v)
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeVertexElement(VertexFetchAttributes{DataFormat: VertexFormat(4)}, []uint32{0})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = DecodeVertexElement(VertexFetchAttributes{DataFormat: VertexFormat32_32_32_32Float}, []uint32{0, 0})
	assert.ErrorIs(t, err, ErrOperandCount)
}

func TestNormalizationScales(t *testing.T) {
	tests := []struct {
		format VertexFormat
		signed bool
		want   [4]float32
	}{
		{VertexFormat8_8_8_8, false, [4]float32{255, 255, 255, 255}},
		{VertexFormat8_8_8_8, true, [4]float32{127, 127, 127, 127}},
		{VertexFormat2_10_10_10, false, [4]float32{1023, 1023, 1023, 3}},
		{VertexFormat2_10_10_10, true, [4]float32{511, 511, 511, 1}},
		{VertexFormat10_11_11, true, [4]float32{1023, 1023, 511, 0}},
		{VertexFormat11_11_10, false, [4]float32{1023, 2047, 2047, 0}},
		{VertexFormat16_16, true, [4]float32{32767, 32767, 0, 0}},
		{VertexFormat16_16_16_16, false, [4]float32{65535, 65535, 65535, 65535}},
		{VertexFormat32_32, false, [4]float32{}},
		{VertexFormat16_16Float, false, [4]float32{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.NormalizationScales(tt.signed), "%s signed=%t", tt.format, tt.signed)
	}

	assert.Equal(t, float32(math.Ldexp(1, -32)), Normalization32(false))
	assert.Equal(t, float32(math.Ldexp(1, -31)), Normalization32(true))
}
