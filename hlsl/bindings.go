// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"fmt"

	"github.com/gogpu/xenos/ucode"
)

// TextureKind is the shader resource view type of a texture binding.
type TextureKind uint8

const (
	// TextureKind2DArray also serves 1D and 2D fetches.
	TextureKind2DArray TextureKind = iota
	TextureKind3D
	TextureKindCube
)

// String returns the HLSL resource type.
func (k TextureKind) String() string {
	switch k {
	case TextureKind2DArray:
		return "Texture2DArray"
	case TextureKind3D:
		return "Texture3D"
	case TextureKindCube:
		return "TextureCube"
	default:
		return "Unknown"
	}
}

// textureKindForDimension maps a fetch dimension to the view it reads.
func textureKindForDimension(d ucode.TextureDimension) TextureKind {
	switch d {
	case ucode.TextureDimension3D:
		return TextureKind3D
	case ucode.TextureDimensionCube:
		return TextureKindCube
	default:
		return TextureKind2DArray
	}
}

// TextureBinding is one shader resource view the shader reads, keyed by
// kind and fetch constant.
type TextureBinding struct {
	Kind          TextureKind
	FetchConstant uint32
	Target        BindTarget
}

// SamplerBinding is one sampler the shader uses, keyed by fetch constant.
type SamplerBinding struct {
	FetchConstant uint32
	Target        BindTarget
}

// AddTextureBinding returns the index of the (kind, fetchConstant) texture
// binding, appending it if it is new. Indices follow first use.
func (t *Translator) AddTextureBinding(kind TextureKind, fetchConstant uint32) uint32 {
	for i, b := range t.textureBindings {
		if b.Kind == kind && b.FetchConstant == fetchConstant {
			return uint32(i) //nolint:gosec // G115: bounded by fetch constants times kinds
		}
	}
	index := uint32(len(t.textureBindings)) //nolint:gosec // G115: bounded by fetch constants times kinds
	t.textureBindings = append(t.textureBindings, TextureBinding{
		Kind:          kind,
		FetchConstant: fetchConstant,
		Target:        DefaultBindTarget().WithType(RegisterTypeT).WithRegister(index),
	})
	return index
}

// AddSamplerBinding returns the index of the sampler for fetchConstant,
// appending it if it is new. It fails once Options.SamplerLimit samplers
// are in use.
func (t *Translator) AddSamplerBinding(fetchConstant uint32) (uint32, error) {
	for i, b := range t.samplerBindings {
		if b.FetchConstant == fetchConstant {
			return uint32(i), nil //nolint:gosec // G115: bounded by the sampler limit
		}
	}
	limit := t.samplerLimit()
	if uint32(len(t.samplerBindings)) >= limit { //nolint:gosec // G115: bounded by the sampler limit
		return 0, NewErrorAtClause(ErrBindingLimit,
			fmt.Sprintf("sampler for fetch constant %d exceeds the limit of %d", fetchConstant, limit), t.cfIndex)
	}
	index := uint32(len(t.samplerBindings)) //nolint:gosec // G115: bounded by the sampler limit
	t.samplerBindings = append(t.samplerBindings, SamplerBinding{
		FetchConstant: fetchConstant,
		Target:        DefaultBindTarget().WithType(RegisterTypeS).WithRegister(index),
	})
	return index, nil
}

func (t *Translator) samplerLimit() uint32 {
	if t.options.SamplerLimit == 0 {
		return defaultSamplerLimit
	}
	return t.options.SamplerLimit
}

// TextureBindings returns the texture table in index order.
func (t *Translator) TextureBindings() []TextureBinding {
	return t.textureBindings
}

// SamplerBindings returns the sampler table in index order.
func (t *Translator) SamplerBindings() []SamplerBinding {
	return t.samplerBindings
}

// ProcessTextureFetchInstruction allocates the texture and sampler a fetch
// reads and stores opaque white in their place. Opcodes that only set fetch
// state leave nothing but their disassembly.
func (t *Translator) ProcessTextureFetchInstruction(instr ucode.TextureFetchInstruction) {
	t.writeDisassembly(instr)

	if !instr.Opcode.ReadsTexture() {
		return
	}
	if len(instr.Operands) < 2 || instr.Operands[1].StorageSource != ucode.StorageSourceTextureFetchConstant {
		t.EmitTranslationError("texture fetch without a texture fetch constant operand")
		return
	}
	fetch := instr.Operands[1].StorageIndex
	if fetch >= textureFetchConstants {
		t.EmitTranslationError(fmt.Sprintf("texture fetch constant %d out of range", fetch))
		return
	}

	// The sampler goes first: a fetch dropped at the sampler limit must not
	// leave its texture in the table.
	if _, err := t.AddSamplerBinding(fetch); err != nil {
		var bindErr *Error
		if errors.As(err, &bindErr) {
			t.emitError(bindErr.Kind, bindErr.Message)
		}
		return
	}
	t.usedFeatures |= FeatureTextureFetch
	t.AddTextureBinding(textureKindForDimension(instr.Dimension), fetch)

	guard := t.beginPredicatedInstruction(instr.IsPredicated, instr.PredicateCondition)
	defer t.endPredicatedInstruction(guard)

	t.writeLine("xe_pv = (1.0).xxxx;")
	t.emitStoreResult(&instr.Result, false)
}
