// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/xenos/ucode"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts == nil {
		t.Fatal("DefaultOptions() returned nil")
	}

	if opts.ShaderModel != ShaderModel5_1 {
		t.Errorf("ShaderModel = %v, want ShaderModel5_1", opts.ShaderModel)
	}

	if opts.SamplerLimit != 16 {
		t.Errorf("SamplerLimit = %d, want 16", opts.SamplerLimit)
	}

	if !opts.EmitDisassembly {
		t.Error("EmitDisassembly should be true by default")
	}

	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sm      ShaderModel
		wantErr bool
	}{
		{"SM 5.0 has no register spaces", ShaderModel5_0, true},
		{"SM 5.1", ShaderModel5_1, false},
		{"SM 6.0", ShaderModel6_0, false},
		{"SM 6.7", ShaderModel6_7, false},
		{"unknown", ShaderModel(200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.ShaderModel = tt.sm
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var hlslErr *Error
			if !errors.As(err, &hlslErr) || hlslErr.Kind != ErrInvalidShaderModel {
				t.Errorf("error = %v, want InvalidShaderModel", err)
			}
		})
	}
}

func TestFeatureFlags_Has(t *testing.T) {
	tests := []struct {
		name   string
		flags  FeatureFlags
		check  FeatureFlags
		expect bool
	}{
		{"none has none", FeatureNone, FeatureNone, false},
		{"loops has loops", FeatureLoops, FeatureLoops, true},
		{"loops has none", FeatureLoops, FeatureNone, false},
		{"combined has loops", FeatureLoops | FeatureDiscard, FeatureLoops, true},
		{"combined has discard", FeatureLoops | FeatureDiscard, FeatureDiscard, true},
		{"combined no cube", FeatureLoops | FeatureDiscard, FeatureCubeHelpers, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.flags.Has(tt.check)
			if got != tt.expect {
				t.Errorf("Has() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestFeatureFlags_String(t *testing.T) {
	tests := []struct {
		name  string
		flags FeatureFlags
		want  string
	}{
		{"none", FeatureNone, "none"},
		{"cube", FeatureCubeHelpers, "CubeHelpers"},
		{"discard", FeatureDiscard, "Discard"},
		{"depth", FeatureDepthExport, "DepthExport"},
		{"vertex fetch", FeatureVertexFetch, "VertexFetch"},
		{"predication", FeaturePredication, "Predication"},
		{"combined", FeatureCubeHelpers | FeatureLoops, "CubeHelpers, Loops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.flags.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslate_NilProgram(t *testing.T) {
	_, _, err := Translate(nil, nil)
	if err == nil {
		t.Error("expected error for nil program")
		return
	}

	var hlslErr *Error
	if !errors.As(err, &hlslErr) {
		t.Errorf("expected *Error, got %T", err)
		return
	}

	if hlslErr.Kind != ErrInvalidProgram {
		t.Errorf("error kind = %v, want ErrInvalidProgram", hlslErr.Kind)
	}
}

func TestTranslate_EmptyProgram(t *testing.T) {
	_, _, err := Translate(&ucode.Program{Stage: ucode.ShaderStagePixel}, nil)
	if err == nil {
		t.Fatal("expected error for program without clauses")
	}
	if !errors.Is(err, ucode.ErrProgramEmpty) {
		t.Errorf("error = %v, want ucode.ErrProgramEmpty in chain", err)
	}
	var hlslErr *Error
	if !errors.As(err, &hlslErr) || hlslErr.Kind != ErrInvalidProgram {
		t.Errorf("error = %v, want InvalidProgram", err)
	}
}

func TestTranslate_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.ShaderModel = ShaderModel5_0

	_, _, err := Translate(simpleProgram(), opts)
	if err == nil {
		t.Fatal("expected error for SM 5.0")
	}
}

// simpleProgram is a pixel shader that ends immediately.
func simpleProgram() *ucode.Program {
	return &ucode.Program{
		Stage:         ucode.ShaderStagePixel,
		RegisterCount: 1,
		Clauses: []ucode.Clause{
			ucode.ExecInstruction{DwordIndex: 0, Condition: true, IsEnd: true},
		},
	}
}

func TestTranslate_SimpleProgram(t *testing.T) {
	code, info, err := Translate(simpleProgram(), nil)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	if code == "" {
		t.Error("expected non-empty output")
	}

	if info == nil {
		t.Fatal("expected non-nil TranslationInfo")
	}

	if info.Profile != "ps_5_1" {
		t.Errorf("Profile = %q, want ps_5_1", info.Profile)
	}

	if !info.IsComplete {
		t.Errorf("IsComplete = false, diagnostics: %v", info.Err())
	}

	if info.UsedFeatures != FeatureNone {
		t.Errorf("UsedFeatures = %v, want none", info.UsedFeatures)
	}

	if len(info.HelperFunctions) != 0 {
		t.Errorf("HelperFunctions = %v, want none", info.HelperFunctions)
	}

	if !containsSubstring(code, "XePixelShaderOutput main(XePixelShaderInput xe_input)") {
		t.Error("expected pixel entry point")
	}
}

func TestTranslate_RegisterBindings(t *testing.T) {
	program := simpleProgram()
	program.Stage = ucode.ShaderStageVertex

	_, info, err := Translate(program, nil)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	want := map[string]string{
		SystemConstantsName:      "register(b0)",
		LoopBoolConstantsName:    "register(b1)",
		FloatConstantsName:       "register(b2)",
		VertexFetchConstantsName: "register(b10)",
		SharedMemoryName:         "register(t0, space1)",
	}
	for name, reg := range want {
		if got := info.RegisterBindings[name]; got != reg {
			t.Errorf("RegisterBindings[%q] = %q, want %q", name, got, reg)
		}
	}

	if info.Profile != "vs_5_1" {
		t.Errorf("Profile = %q, want vs_5_1", info.Profile)
	}
	if len(info.HelperFunctions) != 1 || info.HelperFunctions[0] != "XeByteSwap" {
		t.Errorf("HelperFunctions = %v, want [XeByteSwap]", info.HelperFunctions)
	}
}

func TestTranslationInfo_Err(t *testing.T) {
	var nilInfo *TranslationInfo
	if nilInfo.Err() != nil {
		t.Error("nil info should have no error")
	}

	info := &TranslationInfo{
		Diagnostics: []*Error{
			NewErrorAtClause(ErrUnimplemented, "call to L3", 1),
			NewErrorAtClause(ErrTranslation, "bad operand", 2),
		},
	}
	err := info.Err()
	if err == nil {
		t.Fatal("expected joined error")
	}
	if !containsSubstring(err.Error(), "call to L3") || !containsSubstring(err.Error(), "bad operand") {
		t.Errorf("joined error = %q", err)
	}
	var hlslErr *Error
	if !errors.As(err, &hlslErr) || hlslErr.Kind != ErrUnimplemented {
		t.Errorf("errors.As should find the first diagnostic, got %v", hlslErr)
	}
}

func containsSubstring(s, substr string) bool {
	return strings.Contains(s, substr)
}
