// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package xenos provides a Pure Go translator from Xenos GPU shader
// microcode to HLSL.
//
// xenos reads a parsed microcode program, written as a YAML listing, and
// emits an HLSL shader that reproduces the microcode's control flow with a
// dispatch loop over clause labels. The output targets Shader Model 5.1 or
// later.
//
// The package provides a simple, high-level API for translation as well as
// lower-level access to the individual stages.
//
// Example usage:
//
//	source := `
//	stage: pixel
//	registers: 1
//	clauses:
//	  - exec:
//	      end: true
//	      instructions:
//	        - alu:
//	            vector: mul
//	            dst: {target: oC, index: 0}
//	            src:
//	              - {src: r, index: 0}
//	              - {src: c, index: 0}
//	`
//	code, err := xenos.Compile(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For translation details (bindings, features, diagnostics), use the hlsl
// package directly:
//
//	program, _ := xenos.Parse(source)
//	code, info, err := hlsl.Translate(program, hlsl.DefaultOptions())
package xenos

import (
	"fmt"
	"strings"

	"github.com/gogpu/xenos/hlsl"
	"github.com/gogpu/xenos/ucode"
)

// CompileOptions configures shader translation.
type CompileOptions struct {
	// ShaderModel is the target HLSL shader model (default: 5.1)
	ShaderModel hlsl.ShaderModel

	// SamplerLimit caps the samplers one shader may use (default: 16)
	SamplerLimit uint32

	// Disassembly writes each clause and instruction as a comment before
	// its translation
	Disassembly bool

	// Strict fails the translation when it recorded any diagnostic
	Strict bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		ShaderModel:  hlsl.ShaderModel5_1,
		SamplerLimit: 16,
		Disassembly:  true,
		Strict:       false,
	}
}

// Compile translates a YAML microcode listing to HLSL using default
// options.
//
// This is the simplest way to translate a shader. For more control, use
// CompileWithOptions or the individual Parse/Validate/GenerateHLSL
// functions.
func Compile(source string) (string, error) {
	code, _, err := CompileWithOptions(source, DefaultOptions())
	return code, err
}

// CompileWithOptions translates a YAML microcode listing to HLSL with
// custom options.
//
// The pipeline is:
//  1. Parse the listing into a program
//  2. Validate the program
//  3. Generate HLSL
//
// Translation diagnostics do not stop generation; the returned info lists
// them. With Strict set they are also returned as an error, alongside the
// code.
func CompileWithOptions(source string, opts CompileOptions) (string, *hlsl.TranslationInfo, error) {
	// Parse listing to program
	program, err := Parse(source)
	if err != nil {
		return "", nil, fmt.Errorf("parse error: %w", err)
	}

	// Validate program
	if err := Validate(program); err != nil {
		return "", nil, fmt.Errorf("validation error: %w", err)
	}

	// Generate HLSL
	hlslOpts := &hlsl.Options{
		ShaderModel:     opts.ShaderModel,
		SamplerLimit:    opts.SamplerLimit,
		EmitDisassembly: opts.Disassembly,
	}
	code, info, err := GenerateHLSL(program, hlslOpts)
	if err != nil {
		return "", nil, err
	}

	if opts.Strict {
		if err := info.Err(); err != nil {
			return code, info, fmt.Errorf("translation incomplete: %w", err)
		}
	}
	return code, info, nil
}

// Parse reads a YAML microcode listing into a program.
//
// This is the first stage of translation. Opcode, format and storage names
// are resolved here; unknown names and keys are rejected.
func Parse(source string) (*ucode.Program, error) {
	return ucode.ParseListing(strings.NewReader(source))
}

// Validate checks a program for structural correctness.
//
// Validation checks include:
//   - At least one clause
//   - Clause dword indices matching clause positions
//   - Operand counts of every instruction
//   - Swizzle component counts
func Validate(program *ucode.Program) error {
	if program == nil {
		return ucode.ErrProgramEmpty
	}
	return program.Validate()
}

// GenerateHLSL translates a program to HLSL.
//
// This is the final stage of translation. Nil options select
// hlsl.DefaultOptions.
func GenerateHLSL(program *ucode.Program, opts *hlsl.Options) (string, *hlsl.TranslationInfo, error) {
	code, info, err := hlsl.Translate(program, opts)
	if err != nil {
		return "", nil, fmt.Errorf("HLSL generation error: %w", err)
	}
	return code, info, nil
}
