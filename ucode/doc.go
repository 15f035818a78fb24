// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ucode defines the parsed form of Xenos GPU microcode consumed by
// the HLSL translator.
//
// A shader is a Program: an ordered list of control-flow clauses, one per
// clause dword index. Exec clauses own the ALU, vertex fetch and texture
// fetch instructions they run. Everything here is already decoded; turning
// raw microcode words into these values is the job of an external parser.
//
// # Structure
//
//	Program
//	  Clauses []Clause          // ExecInstruction, LoopStartInstruction, ...
//	    ExecInstruction.Instructions []Instruction
//	                            // AluInstruction, VertexFetchInstruction,
//	                            // TextureFetchInstruction
//
// Operands read from registers or constant pools and are described by an
// Operand. Destinations are described by a Result, which carries the write
// mask and the per-lane source selector.
//
// # Listings
//
// ParseListing reads a YAML listing that spells out the parsed fields of
// every clause and instruction. It is the input format of cmd/xenosc and a
// convenient way to write test programs.
package ucode
