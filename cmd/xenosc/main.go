// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command xenosc is the Xenos microcode to HLSL translator CLI.
//
// Usage:
//
//	xenosc [options] <input.yaml>
//
// Examples:
//
//	xenosc shader.yaml                   # Translate to stdout
//	xenosc -o shader.hlsl shader.yaml    # Translate to file
//	xenosc -sm 6.0 -strict shader.yaml   # Target SM 6.0, fail on diagnostics
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/gogpu/xenos"
	"github.com/gogpu/xenos/hlsl"
	"github.com/gogpu/xenos/internal/translate"
)

var f = translate.From

var (
	output   = flag.String("o", "", "output file (default: stdout)")
	model    = flag.String("sm", "5.1", "target shader model (5.1 to 6.7)")
	strict   = flag.Bool("strict", false, "fail when the translation is incomplete")
	noDisasm = flag.Bool("no-disasm", false, "omit disassembly comments")
	version  = flag.Bool("version", false, "print version")
)

const xenosVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("xenosc version %s\n", xenosVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, f("Error: no input file specified"))
		usage()
		os.Exit(1)
	}

	sm, ok := hlsl.ParseShaderModel(*model)
	if !ok {
		fmt.Fprintln(os.Stderr, f("Error: unknown shader model %q", *model))
		os.Exit(1)
	}

	inputPath := args[0]

	// Read input file
	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, f("Error reading file: %v", err))
		os.Exit(1)
	}

	// Translate listing to HLSL
	opts := xenos.DefaultOptions()
	opts.ShaderModel = sm
	opts.Strict = *strict
	opts.Disassembly = !*noDisasm
	code, info, err := xenos.CompileWithOptions(string(source), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, f("Translation error: %v", err))
		os.Exit(1)
	}

	for _, d := range info.Diagnostics {
		fmt.Fprintln(os.Stderr, f("warning: %v", d))
	}

	// Write output
	if *output != "" {
		err = os.WriteFile(*output, []byte(code), 0o644) //nolint:gosec // G306: shader source is not secret
		if err != nil {
			fmt.Fprintln(os.Stderr, f("Error writing output: %v", err))
			os.Exit(1)
		}
		fmt.Println(f("Successfully translated %s to %s (%d bytes)", inputPath, *output, len(code)))
		summary(info)
		return
	}

	if _, err = os.Stdout.WriteString(code); err != nil {
		fmt.Fprintln(os.Stderr, f("Error writing output: %v", err))
		os.Exit(1)
	}
}

// summary prints the profile and resources of a translation when stdout is
// an interactive terminal, so piped output stays plain.
func summary(info *hlsl.TranslationInfo) {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec // G115: file descriptors fit in int
		return
	}
	fmt.Println(f("  profile:  %s", info.Profile))
	fmt.Println(f("  features: %s", info.UsedFeatures))
	fmt.Println(f("  textures: %d, samplers: %d", len(info.TextureBindings), len(info.SamplerBindings)))
	if !info.IsComplete {
		fmt.Println(f("  incomplete: %d diagnostics", len(info.Diagnostics)))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: xenosc [options] <input.yaml>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  xenosc shader.yaml                  Translate to stdout\n")
	fmt.Fprintf(os.Stderr, "  xenosc -o shader.hlsl shader.yaml   Translate to file\n")
	fmt.Fprintf(os.Stderr, "  xenosc -sm 6.0 -strict shader.yaml  Target SM 6.0, fail on diagnostics\n")
}
