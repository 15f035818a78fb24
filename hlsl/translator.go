// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/xenos/ucode"
)

const (
	// maxInterpolators is the number of interpolator registers shared
	// between the vertex and pixel stages.
	maxInterpolators = 16

	// floatConstantPages is the number of 32-constant float pages.
	floatConstantPages = 8

	// vertexFetchConstants is the number of vertex fetch constants.
	vertexFetchConstants = 96

	// textureFetchConstants is the number of texture fetch constants.
	textureFetchConstants = 32

	// maxLoopDepth is the depth of the loop index and count stacks.
	maxLoopDepth = 4

	// maxIndentDepth bounds the nesting of emitted blocks: function body,
	// dispatch loop, switch, exec block, predication guard and loop branch
	// leave headroom under it.
	maxIndentDepth = 8

	// defaultSamplerLimit is the sampler count a shader stage may declare.
	defaultSamplerLimit = 16
)

type translatorState uint8

const (
	stateIdle translatorState = iota
	stateReset
	stateStarted
	stateCompleted
)

// Translator converts one parsed shader at a time into HLSL.
//
// The driver calls Reset, StartTranslation, then the Process* methods in
// clause order, and finally CompleteTranslation. Translate does all of this
// for a ucode.Program. A Translator is not safe for concurrent use; run one
// per goroutine.
type Translator struct {
	options *Options

	stage         ucode.ShaderStage
	registerCount uint32

	out    strings.Builder
	indent int

	// cfWrotePC is set once the current clause has assigned xe_pc and left
	// the switch, so no fallthrough transition is needed.
	cfWrotePC bool
	// cfExecPred is set inside an exec block guarded by p0 == cfExecPredCond,
	// letting instructions with the same predicate skip their own guard.
	cfExecPred     bool
	cfExecPredCond bool
	loopDepth      int

	writesDepth  bool
	cubeUsed     bool
	usedFeatures FeatureFlags

	textureBindings []TextureBinding
	samplerBindings []SamplerBinding

	diagnostics []*Error
	cfIndex     uint32
	state       translatorState
}

// NewTranslator creates a translator. Nil options select DefaultOptions.
func NewTranslator(options *Options) (*Translator, error) {
	if options == nil {
		options = DefaultOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &Translator{options: options}, nil
}

// Reset clears all per-shader state and prepares a new translation.
func (t *Translator) Reset(stage ucode.ShaderStage, registerCount uint32) {
	t.stage = stage
	t.registerCount = registerCount

	t.out.Reset()
	t.indent = 0

	t.cfWrotePC = false
	t.cfExecPred = false
	t.cfExecPredCond = false
	t.loopDepth = 0

	t.writesDepth = false
	t.cubeUsed = false
	t.usedFeatures = FeatureNone

	t.textureBindings = t.textureBindings[:0]
	t.samplerBindings = t.samplerBindings[:0]

	t.diagnostics = nil
	t.cfIndex = 0
	t.state = stateReset
}

// StartTranslation opens the function body, the dispatch loop and the
// dispatch switch, and emits the entry branch.
func (t *Translator) StartTranslation() error {
	if t.state != stateReset {
		return NewError(ErrInvalidState, "StartTranslation called without Reset")
	}
	t.state = stateStarted
	t.pushIndent() // main function
	t.pushIndent() // do while (xe_pc != 0xFFFFu)
	t.pushIndent() // switch (xe_pc)
	t.writeLine("case 0u:")
	return nil
}

// Diagnostics returns the translation and unimplemented-feature errors
// recorded so far, in emission order.
func (t *Translator) Diagnostics() []*Error {
	return t.diagnostics
}

// IsComplete reports whether no diagnostics were recorded.
func (t *Translator) IsComplete() bool {
	return len(t.diagnostics) == 0
}

// WritesDepth reports whether the shader writes the depth output.
func (t *Translator) WritesDepth() bool {
	return t.writesDepth
}

// UsesCubeHelpers reports whether the cube projection helpers are needed.
func (t *Translator) UsesCubeHelpers() bool {
	return t.cubeUsed
}

// UsedFeatures returns the features the emitted code relies on.
func (t *Translator) UsedFeatures() FeatureFlags {
	return t.usedFeatures
}

// EmitTranslationError records a malformed-input diagnostic and leaves a
// marker comment at the current position. Emission continues.
func (t *Translator) EmitTranslationError(message string) {
	t.emitError(ErrTranslation, message)
}

// EmitUnimplementedTranslationError records that an unsupported construct
// was skipped and leaves a marker comment at the current position.
func (t *Translator) EmitUnimplementedTranslationError(what string) {
	t.diagnostics = append(t.diagnostics, NewErrorAtClause(ErrUnimplemented, what, t.cfIndex))
	t.writeLine("// UNIMPLEMENTED TRANSLATION")
}

func (t *Translator) emitError(kind ErrorKind, message string) {
	t.diagnostics = append(t.diagnostics, NewErrorAtClause(kind, message, t.cfIndex))
	t.writeLine("// TRANSLATION ERROR: %s", message)
}

// write writes a formatted string without indentation or newline.
func (t *Translator) write(format string, args ...any) {
	if len(args) == 0 {
		t.out.WriteString(format)
	} else {
		fmt.Fprintf(&t.out, format, args...)
	}
}

// writeLine writes an indented line with optional format args and a newline.
//
//nolint:goprintffuncname
func (t *Translator) writeLine(format string, args ...any) {
	t.writeIndent()
	t.write(format, args...)
	t.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (t *Translator) writeIndent() {
	for i := 0; i < t.indent; i++ {
		t.out.WriteString("  ")
	}
}

// writeDisassembly writes the listing form of a clause or instruction as a
// comment, unless disabled in Options.
func (t *Translator) writeDisassembly(d fmt.Stringer) {
	if t.options.EmitDisassembly {
		t.writeLine("// %s", d)
	}
}

// pushIndent increases indentation.
func (t *Translator) pushIndent() {
	t.indent++
	if t.indent == maxIndentDepth+1 {
		t.diagnostics = append(t.diagnostics, NewErrorAtClause(ErrInternalError,
			fmt.Sprintf("block nesting exceeds %d levels", maxIndentDepth), t.cfIndex))
	}
}

// popIndent decreases indentation.
func (t *Translator) popIndent() {
	if t.indent > 0 {
		t.indent--
	}
}
