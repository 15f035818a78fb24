// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

// StorageSource is where an operand reads from.
type StorageSource uint8

const (
	StorageSourceRegister StorageSource = iota
	StorageSourceConstantFloat
	StorageSourceConstantInt
	StorageSourceConstantBool
	StorageSourceVertexFetchConstant
	StorageSourceTextureFetchConstant
)

// String returns the listing mnemonic of the source.
func (s StorageSource) String() string {
	switch s {
	case StorageSourceRegister:
		return "r"
	case StorageSourceConstantFloat:
		return "c"
	case StorageSourceConstantInt:
		return "i"
	case StorageSourceConstantBool:
		return "b"
	case StorageSourceVertexFetchConstant:
		return "vf"
	case StorageSourceTextureFetchConstant:
		return "tf"
	default:
		return "unknown"
	}
}

// StorageTarget is where a result is written.
type StorageTarget uint8

const (
	StorageTargetNone StorageTarget = iota
	StorageTargetRegister
	StorageTargetInterpolant
	StorageTargetPosition
	StorageTargetPointSize
	StorageTargetColorTarget
	StorageTargetDepth
)

// String returns the listing mnemonic of the target.
func (s StorageTarget) String() string {
	switch s {
	case StorageTargetNone:
		return "none"
	case StorageTargetRegister:
		return "r"
	case StorageTargetInterpolant:
		return "o"
	case StorageTargetPosition:
		return "oPos"
	case StorageTargetPointSize:
		return "oPts"
	case StorageTargetColorTarget:
		return "oC"
	case StorageTargetDepth:
		return "oDepth"
	default:
		return "unknown"
	}
}

// IsScalar reports whether the target holds a single lane.
func (s StorageTarget) IsScalar() bool {
	return s == StorageTargetPointSize || s == StorageTargetDepth
}

// IsArray reports whether the target is indexed by StorageIndex.
func (s StorageTarget) IsArray() bool {
	return s == StorageTargetRegister || s == StorageTargetInterpolant || s == StorageTargetColorTarget
}

// AddressingMode selects how StorageIndex is combined with dynamic state.
type AddressingMode uint8

const (
	// AddressingStatic uses StorageIndex as is.
	AddressingStatic AddressingMode = iota
	// AddressingAbsolute adds the address register a0.
	AddressingAbsolute
	// AddressingRelative adds the active loop index aL.
	AddressingRelative
)

// String returns the listing mnemonic of the mode.
func (m AddressingMode) String() string {
	switch m {
	case AddressingStatic:
		return "static"
	case AddressingAbsolute:
		return "a0"
	case AddressingRelative:
		return "aL"
	default:
		return "unknown"
	}
}

// SwizzleSource selects one lane of a vector, or a literal 0 or 1.
type SwizzleSource uint8

const (
	SwizzleX SwizzleSource = iota
	SwizzleY
	SwizzleZ
	SwizzleW
	Swizzle0
	Swizzle1
)

// Char returns the single character used in swizzle strings.
func (s SwizzleSource) Char() byte {
	switch s {
	case SwizzleX:
		return 'x'
	case SwizzleY:
		return 'y'
	case SwizzleZ:
		return 'z'
	case SwizzleW:
		return 'w'
	case Swizzle0:
		return '0'
	case Swizzle1:
		return '1'
	default:
		return '?'
	}
}

// IsLiteral reports whether the selector is a constant 0 or 1.
func (s SwizzleSource) IsLiteral() bool {
	return s == Swizzle0 || s == Swizzle1
}

// SwizzleFromComponentIndex returns the lane selector for lane i.
func SwizzleFromComponentIndex(i int) SwizzleSource {
	return SwizzleSource(i & 3)
}

// StandardSwizzle is the identity selection xyzw.
var StandardSwizzle = [4]SwizzleSource{SwizzleX, SwizzleY, SwizzleZ, SwizzleW}

// Operand is one source operand of an ALU or fetch instruction.
type Operand struct {
	StorageSource  StorageSource
	StorageIndex   uint32
	AddressingMode AddressingMode

	// ComponentCount is the number of selectors the instruction encodes,
	// 1 to 4. Missing trailing lanes repeat the last selector.
	ComponentCount int
	Components     [4]SwizzleSource

	IsNegated       bool
	IsAbsoluteValue bool
}

// NewOperand returns a statically addressed operand reading all four lanes.
func NewOperand(source StorageSource, index uint32) Operand {
	return Operand{
		StorageSource:  source,
		StorageIndex:   index,
		ComponentCount: 4,
		Components:     StandardSwizzle,
	}
}

// IsStandardSwizzle reports whether the operand reads xyzw unchanged.
func (op *Operand) IsStandardSwizzle() bool {
	return op.ComponentCount == 4 && op.Components == StandardSwizzle
}

// IsScalarConstant reports whether the operand reads an integer or bool
// constant, which hold a single value and cannot be swizzled.
func (op *Operand) IsScalarConstant() bool {
	return op.StorageSource == StorageSourceConstantInt || op.StorageSource == StorageSourceConstantBool
}

// Result is the destination of an ALU or fetch instruction.
type Result struct {
	StorageTarget  StorageTarget
	StorageIndex   uint32
	AddressingMode AddressingMode

	WriteMask [4]bool
	// Components selects, per written lane, which lane of the computed
	// value is stored, or a literal 0 or 1.
	Components [4]SwizzleSource

	IsClamped bool
}

// HasAnyWrites reports whether any lane is written.
func (r *Result) HasAnyWrites() bool {
	return r.WriteMask[0] || r.WriteMask[1] || r.WriteMask[2] || r.WriteMask[3]
}

// WriteCount returns the number of written lanes.
func (r *Result) WriteCount() int {
	n := 0
	for _, w := range r.WriteMask {
		if w {
			n++
		}
	}
	return n
}

// HasLiteralWrites reports whether a written lane stores a literal 0 or 1.
func (r *Result) HasLiteralWrites() bool {
	for i, w := range r.WriteMask {
		if w && r.Components[i].IsLiteral() {
			return true
		}
	}
	return false
}
