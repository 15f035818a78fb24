// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/xenos/ucode"
)

// Options configures HLSL code generation.
type Options struct {
	// ShaderModel specifies the target shader model.
	// Defaults to ShaderModel5_1, the lowest model with register spaces and
	// ConstantBuffer arrays.
	ShaderModel ShaderModel

	// SamplerLimit is the number of samplers the stage may declare.
	// Zero selects 16.
	SamplerLimit uint32

	// EmitDisassembly writes the listing form of every clause and
	// instruction as a comment before its code.
	EmitDisassembly bool
}

// DefaultOptions returns sensible default options for HLSL generation.
func DefaultOptions() *Options {
	return &Options{
		ShaderModel:     ShaderModel5_1,
		SamplerLimit:    defaultSamplerLimit,
		EmitDisassembly: true,
	}
}

// Validate reports options the translator cannot honor.
func (o *Options) Validate() error {
	if !o.ShaderModel.IsValid() {
		return NewError(ErrInvalidShaderModel, fmt.Sprintf("unknown shader model %d", o.ShaderModel))
	}
	if !o.ShaderModel.SupportsResourceSpaces() {
		return NewError(ErrInvalidShaderModel,
			fmt.Sprintf("%s lacks register spaces, need SM 5.1 or later", o.ShaderModel))
	}
	return nil
}

// FeatureFlags indicates which HLSL features are used by the generated code.
type FeatureFlags uint32

const (
	// FeatureNone indicates no special features are used.
	FeatureNone FeatureFlags = 0

	// FeatureCubeHelpers indicates the cube projection helpers are emitted.
	FeatureCubeHelpers FeatureFlags = 1 << (iota - 1)

	// FeatureDiscard indicates a kill instruction may discard the pixel.
	FeatureDiscard

	// FeatureDepthExport indicates the pixel shader writes SV_Depth.
	FeatureDepthExport

	// FeatureVertexFetch indicates vertex data is loaded from shared memory.
	FeatureVertexFetch

	// FeatureTextureFetch indicates texture and sampler bindings are used.
	FeatureTextureFetch

	// FeatureDynamicIndexing indicates registers or constants are indexed
	// through a0 or aL.
	FeatureDynamicIndexing

	// FeatureLoops indicates the loop stacks are used.
	FeatureLoops

	// FeaturePredication indicates the predicate register is set or tested.
	FeaturePredication
)

// Has returns true if the flags contain the specified feature.
func (f FeatureFlags) Has(feature FeatureFlags) bool {
	return f&feature != 0
}

// String returns a human-readable list of enabled features.
func (f FeatureFlags) String() string {
	if f == FeatureNone {
		return "none"
	}

	var features []string
	if f.Has(FeatureCubeHelpers) {
		features = append(features, "CubeHelpers")
	}
	if f.Has(FeatureDiscard) {
		features = append(features, "Discard")
	}
	if f.Has(FeatureDepthExport) {
		features = append(features, "DepthExport")
	}
	if f.Has(FeatureVertexFetch) {
		features = append(features, "VertexFetch")
	}
	if f.Has(FeatureTextureFetch) {
		features = append(features, "TextureFetch")
	}
	if f.Has(FeatureDynamicIndexing) {
		features = append(features, "DynamicIndexing")
	}
	if f.Has(FeatureLoops) {
		features = append(features, "Loops")
	}
	if f.Has(FeaturePredication) {
		features = append(features, "Predication")
	}

	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, ", ")
}

// TranslationInfo contains metadata about the HLSL translation.
type TranslationInfo struct {
	// Profile is the compiler target, for example "ps_5_1".
	Profile string

	// UsedFeatures indicates which shader features are used.
	UsedFeatures FeatureFlags

	// RegisterBindings maps resource names to their HLSL register bindings.
	// Format: "resourceName" -> "register(t0, space1)"
	RegisterBindings map[string]string

	// TextureBindings and SamplerBindings are the binding tables in index
	// order.
	TextureBindings []TextureBinding
	SamplerBindings []SamplerBinding

	// HelperFunctions lists any helper functions that were generated.
	HelperFunctions []string

	// Diagnostics are the non-fatal errors recorded during emission.
	Diagnostics []*Error

	// IsComplete is false when any diagnostic was recorded; the source is
	// still produced so it can be inspected.
	IsComplete bool
}

// Err joins the diagnostics into one error, or returns nil.
func (info *TranslationInfo) Err() error {
	if info == nil || len(info.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(info.Diagnostics))
	for i, d := range info.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Translate generates HLSL source code from a parsed shader program.
// Returns the HLSL source, translation info, or an error. Diagnostics about
// unsupported or malformed instructions do not fail the translation; they
// are reported in TranslationInfo.
func Translate(program *ucode.Program, options *Options) (string, *TranslationInfo, error) {
	if program == nil {
		return "", nil, NewError(ErrInvalidProgram, "program is nil")
	}
	if err := program.Validate(); err != nil {
		return "", nil, fmt.Errorf("hlsl: %w: %w", NewError(ErrInvalidProgram, "program failed validation"), err)
	}

	t, err := NewTranslator(options)
	if err != nil {
		return "", nil, fmt.Errorf("hlsl: %w", err)
	}
	t.Reset(program.Stage, program.RegisterCount)
	if err := t.StartTranslation(); err != nil {
		return "", nil, fmt.Errorf("hlsl: %w", err)
	}

	t.processProgram(program)

	source, err := t.CompleteTranslation()
	if err != nil {
		return "", nil, fmt.Errorf("hlsl: %w", err)
	}

	info := &TranslationInfo{
		Profile:          t.options.ShaderModel.Profile(program.Stage),
		UsedFeatures:     t.usedFeatures,
		RegisterBindings: t.registerBindings(),
		TextureBindings:  t.textureBindings,
		SamplerBindings:  t.samplerBindings,
		HelperFunctions:  t.helperFunctions(),
		Diagnostics:      t.diagnostics,
		IsComplete:       t.IsComplete(),
	}
	return source, info, nil
}

// processProgram emits every clause in order, opening a dispatch case
// before each label address.
func (t *Translator) processProgram(program *ucode.Program) {
	labels := program.LabelAddresses()
	next := 0
	for _, clause := range program.Clauses {
		index := clause.Index()
		for next < len(labels) && labels[next] <= index {
			if labels[next] == index {
				t.ProcessLabel(index)
			}
			next++
		}
		t.ProcessControlFlowInstructionBegin(index)
		t.processClause(clause)
		t.ProcessControlFlowInstructionEnd(index)
	}
	// Targets past the last clause still need a case to land on.
	for ; next < len(labels); next++ {
		t.ProcessLabel(labels[next])
	}
}

// processClause dispatches one clause, and for exec clauses the
// instructions it runs.
func (t *Translator) processClause(clause ucode.Clause) {
	switch c := clause.(type) {
	case ucode.ExecInstruction:
		t.ProcessExecInstructionBegin(c)
		for _, instr := range c.Instructions {
			switch in := instr.(type) {
			case ucode.AluInstruction:
				t.ProcessAluInstruction(in)
			case ucode.VertexFetchInstruction:
				t.ProcessVertexFetchInstruction(in)
			case ucode.TextureFetchInstruction:
				t.ProcessTextureFetchInstruction(in)
			}
		}
		t.ProcessExecInstructionEnd(c)
	case ucode.LoopStartInstruction:
		t.ProcessLoopStartInstruction(c)
	case ucode.LoopEndInstruction:
		t.ProcessLoopEndInstruction(c)
	case ucode.JumpInstruction:
		t.ProcessJumpInstruction(c)
	case ucode.CallInstruction:
		t.ProcessCallInstruction(c)
	case ucode.ReturnInstruction:
		t.ProcessReturnInstruction(c)
	case ucode.AllocInstruction:
		t.ProcessAllocInstruction(c)
	case ucode.NopInstruction:
		t.ProcessControlFlowNopInstruction(c.DwordIndex)
	}
}

// registerBindings lists every declared resource with its register.
func (t *Translator) registerBindings() map[string]string {
	bindings := map[string]string{
		SystemConstantsName:   SystemConstantsTarget.String(),
		LoopBoolConstantsName: LoopBoolConstantsTarget.String(),
		FloatConstantsName:    FloatConstantsTarget.String(),
	}
	if t.stage == ucode.ShaderStageVertex {
		bindings[VertexFetchConstantsName] = VertexFetchConstantsTarget.String()
		bindings[SharedMemoryName] = SharedMemoryTarget.String()
	}
	for i, b := range t.textureBindings {
		bindings[fmt.Sprintf("xe_texture%d", i)] = b.Target.String()
	}
	for i, b := range t.samplerBindings {
		bindings[fmt.Sprintf("xe_sampler%d", i)] = b.Target.String()
	}
	return bindings
}

// helperFunctions lists the helpers emitted into the shader.
func (t *Translator) helperFunctions() []string {
	var helpers []string
	if t.cubeUsed {
		helpers = append(helpers, "XeCubeTo2D", "XeCubeTo3D")
	}
	if t.stage == ucode.ShaderStageVertex {
		helpers = append(helpers, "XeByteSwap")
	}
	return helpers
}
