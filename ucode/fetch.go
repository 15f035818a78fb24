// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

// VertexFormat is the memory layout of one vertex element.
type VertexFormat uint8

// Vertex formats, numbered as in the fetch constant encoding.
const (
	VertexFormatUndefined        VertexFormat = 0
	VertexFormat8_8_8_8          VertexFormat = 6
	VertexFormat2_10_10_10       VertexFormat = 7
	VertexFormat10_11_11         VertexFormat = 16
	VertexFormat11_11_10         VertexFormat = 17
	VertexFormat16_16            VertexFormat = 25
	VertexFormat16_16_16_16      VertexFormat = 26
	VertexFormat16_16Float       VertexFormat = 31
	VertexFormat16_16_16_16Float VertexFormat = 32
	VertexFormat32               VertexFormat = 33
	VertexFormat32_32            VertexFormat = 34
	VertexFormat32_32_32_32      VertexFormat = 35
	VertexFormat32Float          VertexFormat = 36
	VertexFormat32_32Float       VertexFormat = 37
	VertexFormat32_32_32_32Float VertexFormat = 38
	VertexFormat32_32_32Float    VertexFormat = 57
)

var vertexFormatNames = map[VertexFormat]string{
	VertexFormat8_8_8_8:          "8_8_8_8",
	VertexFormat2_10_10_10:       "2_10_10_10",
	VertexFormat10_11_11:         "10_11_11",
	VertexFormat11_11_10:         "11_11_10",
	VertexFormat16_16:            "16_16",
	VertexFormat16_16_16_16:      "16_16_16_16",
	VertexFormat16_16Float:       "16_16_FLOAT",
	VertexFormat16_16_16_16Float: "16_16_16_16_FLOAT",
	VertexFormat32:               "32",
	VertexFormat32_32:            "32_32",
	VertexFormat32_32_32_32:      "32_32_32_32",
	VertexFormat32Float:          "32_FLOAT",
	VertexFormat32_32Float:       "32_32_FLOAT",
	VertexFormat32_32_32_32Float: "32_32_32_32_FLOAT",
	VertexFormat32_32_32Float:    "32_32_32_FLOAT",
}

// String returns the format name without the FMT_ prefix.
func (vf VertexFormat) String() string {
	if name, ok := vertexFormatNames[vf]; ok {
		return name
	}
	return "undefined"
}

// IsValid reports whether the format is one the fetch unit understands.
func (vf VertexFormat) IsValid() bool {
	_, ok := vertexFormatNames[vf]
	return ok
}

// WordCount returns the number of 32-bit words one element occupies.
func (vf VertexFormat) WordCount() int {
	switch vf {
	case VertexFormat16_16_16_16, VertexFormat16_16_16_16Float,
		VertexFormat32_32, VertexFormat32_32Float:
		return 2
	case VertexFormat32_32_32Float:
		return 3
	case VertexFormat32_32_32_32, VertexFormat32_32_32_32Float:
		return 4
	default:
		return 1
	}
}

// ComponentCount returns the number of lanes the format carries.
func (vf VertexFormat) ComponentCount() int {
	switch vf {
	case VertexFormat32, VertexFormat32Float:
		return 1
	case VertexFormat16_16, VertexFormat16_16Float, VertexFormat32_32, VertexFormat32_32Float:
		return 2
	case VertexFormat10_11_11, VertexFormat11_11_10, VertexFormat32_32_32Float:
		return 3
	default:
		return 4
	}
}

// IsFloat reports whether the lanes are stored as IEEE floats.
func (vf VertexFormat) IsFloat() bool {
	switch vf {
	case VertexFormat16_16Float, VertexFormat16_16_16_16Float, VertexFormat32Float,
		VertexFormat32_32Float, VertexFormat32_32_32_32Float, VertexFormat32_32_32Float:
		return true
	default:
		return false
	}
}

// ParseVertexFormat looks up a format by name, with or without FMT_.
func ParseVertexFormat(name string) (VertexFormat, bool) {
	if len(name) > 4 && name[:4] == "FMT_" {
		name = name[4:]
	}
	for vf, n := range vertexFormatNames {
		if n == name {
			return vf, true
		}
	}
	return VertexFormatUndefined, false
}

// Endian is the byte order code stored in a vertex fetch constant.
type Endian uint8

const (
	EndianNone Endian = iota
	Endian8in16
	Endian8in32
	Endian16in32
)

// VertexFetchAttributes are the decoded fields of a vertex fetch.
type VertexFetchAttributes struct {
	DataFormat VertexFormat
	// Offset and Stride are in dwords.
	Offset uint32
	Stride uint32

	IsSigned  bool
	IsInteger bool
}

// VertexFetchInstruction loads one vertex element from memory.
//
// Operands[0] supplies the element index, Operands[1] must name the vertex
// fetch constant that describes the buffer.
type VertexFetchInstruction struct {
	IsPredicated       bool
	PredicateCondition bool

	Attributes VertexFetchAttributes

	Result   Result
	Operands []Operand
}

func (VertexFetchInstruction) instruction() {}

// TextureFetchOpcode is the operation of a texture fetch instruction.
type TextureFetchOpcode uint8

const (
	TextureFetch TextureFetchOpcode = iota
	TextureGetBorderColorFrac
	TextureGetComputedLod
	TextureGetGradients
	TextureGetWeights
	TextureSetLod
	TextureSetGradientsHorz
	TextureSetGradientsVert
)

var textureFetchNames = [...]string{
	TextureFetch:              "tfetch",
	TextureGetBorderColorFrac: "getBCF",
	TextureGetComputedLod:     "getCompTexLOD",
	TextureGetGradients:       "getGradients",
	TextureGetWeights:         "getWeights",
	TextureSetLod:             "setTexLOD",
	TextureSetGradientsHorz:   "setGradientH",
	TextureSetGradientsVert:   "setGradientV",
}

// String returns the opcode mnemonic.
func (op TextureFetchOpcode) String() string {
	if int(op) < len(textureFetchNames) {
		return textureFetchNames[op]
	}
	return "tfetch_unknown"
}

// ReadsTexture reports whether the opcode samples or inspects the bound
// texture, as opposed to only updating fetch state.
func (op TextureFetchOpcode) ReadsTexture() bool {
	return op <= TextureGetWeights
}

// ParseTextureFetchOpcode looks up a texture fetch opcode by mnemonic.
func ParseTextureFetchOpcode(name string) (TextureFetchOpcode, bool) {
	for i, n := range textureFetchNames {
		if n == name {
			return TextureFetchOpcode(i), true
		}
	}
	return 0, false
}

// TextureDimension is the dimensionality a texture fetch samples with.
type TextureDimension uint8

const (
	TextureDimension1D TextureDimension = iota
	TextureDimension2D
	TextureDimension3D
	TextureDimensionCube
)

// String returns the dimension suffix used in disassembly.
func (d TextureDimension) String() string {
	switch d {
	case TextureDimension1D:
		return "1D"
	case TextureDimension2D:
		return "2D"
	case TextureDimension3D:
		return "3D"
	case TextureDimensionCube:
		return "Cube"
	default:
		return "unknown"
	}
}

// TextureFetchInstruction samples or queries a texture.
//
// Operands[0] supplies the coordinates, Operands[1] must name the texture
// fetch constant.
type TextureFetchInstruction struct {
	Opcode    TextureFetchOpcode
	Dimension TextureDimension

	IsPredicated       bool
	PredicateCondition bool

	Result   Result
	Operands []Operand
}

func (TextureFetchInstruction) instruction() {}
