// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl translates parsed Xenos shader microcode into HLSL
// (High-Level Shading Language) source for Direct3D 12.
//
// The microcode allows arbitrary forward and backward jumps, loops with a
// hardware index stack, and predicated execution. HLSL only has structured
// control flow, so the generated shader is an interpreter loop: xe_pc holds
// the current clause address, every jump, call or loop target becomes a case
// of one switch, and every transfer assigns xe_pc and breaks out of it.
//
//	do {
//	  switch (xe_pc) {
//	    case 0u:
//	      ...
//	      xe_pc = 0xFFFFu;
//	      break;
//	    default:
//	      xe_pc = 0xFFFFu;
//	      break;
//	  }
//	} while (xe_pc != 0xFFFFu);
//
// # Shader Model Support
//
// Shader Model 5.1 or later is required: float constants are declared as an
// array of ConstantBuffer pages and shared memory lives in register space 1.
//
// # Usage
//
//	program, err := ucode.ParseListing(r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	source, info, err := hlsl.Translate(program, hlsl.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !info.IsComplete {
//	    log.Print(info.Err())
//	}
//
// Translation errors and unimplemented instructions (call and return) do not
// stop emission: a marker comment is written where they occur and they are
// collected in TranslationInfo.Diagnostics.
//
// For callers that sequence clauses themselves, Translator exposes the
// Reset, StartTranslation, Process* and CompleteTranslation steps that
// Translate drives.
//
// # Register Binding
//
// Bindings are fixed so the shader text is stable across translations:
//
//	cbuffer xe_system_constants            : register(b0)
//	cbuffer xe_loop_bool_constants         : register(b1)
//	ConstantBuffer xe_float_constants[8]   : register(b2)
//	cbuffer xe_vertex_fetch_constants      : register(b10)          // vertex
//	ByteAddressBuffer xe_shared_memory     : register(t0, space1)   // vertex
//
// Texture and sampler tables are allocated in first-use order and reported
// in TranslationInfo.
package hlsl
