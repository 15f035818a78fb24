// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// BindTarget specifies the HLSL register binding for a resource.
// HLSL uses register(x#, space#) syntax for resource binding.
type BindTarget struct {
	// Type is the register class.
	Type RegisterType

	// Space is the register space (0-based).
	// Spaces allow multiple resources to use the same register index.
	Space uint8

	// Register is the register index within the space.
	Register uint32

	// BindingArraySize is the array size for binding arrays.
	// If nil, the resource is not an array.
	BindingArraySize *uint32
}

// RegisterType represents the HLSL register type.
type RegisterType uint8

const (
	// RegisterTypeB is for constant buffers (cbuffer).
	RegisterTypeB RegisterType = iota

	// RegisterTypeT is for textures and shader resource views.
	RegisterTypeT

	// RegisterTypeS is for samplers.
	RegisterTypeS

	// RegisterTypeU is for unordered access views (UAV).
	RegisterTypeU
)

// String returns the single-character register prefix.
func (rt RegisterType) String() string {
	switch rt {
	case RegisterTypeB:
		return "b"
	case RegisterTypeT:
		return "t"
	case RegisterTypeS:
		return "s"
	case RegisterTypeU:
		return "u"
	default:
		return "b"
	}
}

// String returns the register clause, e.g. "register(b2)" or
// "register(t0, space1)". Space 0 is left implicit.
func (bt BindTarget) String() string {
	if bt.Space == 0 {
		return fmt.Sprintf("register(%s%d)", bt.Type, bt.Register)
	}
	return fmt.Sprintf("register(%s%d, space%d)", bt.Type, bt.Register, bt.Space)
}

// DefaultBindTarget returns a BindTarget with default values.
// Defaults to constant buffer register 0 in space 0, no array.
func DefaultBindTarget() BindTarget {
	return BindTarget{
		Type:             RegisterTypeB,
		Space:            0,
		Register:         0,
		BindingArraySize: nil,
	}
}

// WithType returns a copy of the BindTarget with the specified register type.
func (bt BindTarget) WithType(rt RegisterType) BindTarget {
	bt.Type = rt
	return bt
}

// WithSpace returns a copy of the BindTarget with the specified space.
func (bt BindTarget) WithSpace(space uint8) BindTarget {
	bt.Space = space
	return bt
}

// WithRegister returns a copy of the BindTarget with the specified register.
func (bt BindTarget) WithRegister(register uint32) BindTarget {
	bt.Register = register
	return bt
}

// WithArraySize returns a copy of the BindTarget with the specified array size.
func (bt BindTarget) WithArraySize(size uint32) BindTarget {
	bt.BindingArraySize = &size
	return bt
}

// Fixed register slots of every translated shader. Only up to 14 constant
// buffers can be bound on resource binding tiers 1 and 2.
var (
	SystemConstantsTarget      = DefaultBindTarget()
	LoopBoolConstantsTarget    = DefaultBindTarget().WithRegister(1)
	FloatConstantsTarget       = DefaultBindTarget().WithRegister(2).WithArraySize(floatConstantPages)
	VertexFetchConstantsTarget = DefaultBindTarget().WithRegister(10)
	SharedMemoryTarget         = DefaultBindTarget().WithType(RegisterTypeT).WithSpace(1)
)

// Names of the fixed resources, as reported in TranslationInfo.RegisterBindings.
const (
	SystemConstantsName      = "xe_system_constants"
	LoopBoolConstantsName    = "xe_loop_bool_constants"
	FloatConstantsName       = "xe_float_constants"
	VertexFetchConstantsName = "xe_vertex_fetch_constants"
	SharedMemoryName         = "xe_shared_memory"
)
