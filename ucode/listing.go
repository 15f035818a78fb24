// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Listing document shape. Every clause and instruction is a single-key map
// naming its kind; the clause position is its dword index.
type listing struct {
	Stage     string          `yaml:"stage"`
	Registers uint32          `yaml:"registers"`
	Clauses   []listingClause `yaml:"clauses"`
}

type listingClause struct {
	Exec      *listingExec      `yaml:"exec"`
	LoopStart *listingLoopStart `yaml:"loop_start"`
	LoopEnd   *listingLoopEnd   `yaml:"loop_end"`
	Jump      *listingBranch    `yaml:"jump"`
	Call      *listingBranch    `yaml:"call"`
	Return    *struct{}         `yaml:"return"`
	Alloc     *listingAlloc     `yaml:"alloc"`
	Nop       *struct{}         `yaml:"nop"`
}

type listingExec struct {
	Type         string               `yaml:"type"`
	Bool         uint32               `yaml:"bool"`
	Condition    *bool                `yaml:"condition"`
	End          bool                 `yaml:"end"`
	Instructions []listingInstruction `yaml:"instructions"`
}

type listingLoopStart struct {
	Constant uint32 `yaml:"constant"`
	Repeat   bool   `yaml:"repeat"`
	Skip     uint32 `yaml:"skip"`
}

type listingLoopEnd struct {
	Constant        uint32 `yaml:"constant"`
	Body            uint32 `yaml:"body"`
	PredicatedBreak bool   `yaml:"predicated_break"`
	Condition       *bool  `yaml:"condition"`
}

type listingBranch struct {
	Type      string `yaml:"type"`
	Bool      uint32 `yaml:"bool"`
	Condition *bool  `yaml:"condition"`
	Target    uint32 `yaml:"target"`
}

type listingAlloc struct {
	Kind string `yaml:"kind"`
	Size uint32 `yaml:"size"`
}

type listingInstruction struct {
	Alu    *listingAlu    `yaml:"alu"`
	VFetch *listingVFetch `yaml:"vfetch"`
	TFetch *listingTFetch `yaml:"tfetch"`
}

type listingAlu struct {
	Vector     string           `yaml:"vector"`
	Scalar     string           `yaml:"scalar"`
	Predicated bool             `yaml:"predicated"`
	Condition  *bool            `yaml:"condition"`
	Dst        *listingResult   `yaml:"dst"`
	Src        []listingOperand `yaml:"src"`
}

type listingVFetch struct {
	Format     string           `yaml:"format"`
	Signed     bool             `yaml:"signed"`
	Integer    bool             `yaml:"integer"`
	Stride     uint32           `yaml:"stride"`
	Offset     uint32           `yaml:"offset"`
	Predicated bool             `yaml:"predicated"`
	Condition  *bool            `yaml:"condition"`
	Dst        *listingResult   `yaml:"dst"`
	Src        []listingOperand `yaml:"src"`
}

type listingTFetch struct {
	Opcode     string           `yaml:"opcode"`
	Dimension  string           `yaml:"dimension"`
	Predicated bool             `yaml:"predicated"`
	Condition  *bool            `yaml:"condition"`
	Dst        *listingResult   `yaml:"dst"`
	Src        []listingOperand `yaml:"src"`
}

type listingResult struct {
	Target  string `yaml:"target"`
	Index   uint32 `yaml:"index"`
	Addr    string `yaml:"addr"`
	Mask    string `yaml:"mask"`
	Swizzle string `yaml:"swizzle"`
	Clamp   bool   `yaml:"clamp"`
}

type listingOperand struct {
	Src     string `yaml:"src"`
	Index   uint32 `yaml:"index"`
	Addr    string `yaml:"addr"`
	Swizzle string `yaml:"swizzle"`
	Neg     bool   `yaml:"neg"`
	Abs     bool   `yaml:"abs"`
}

// ParseListing reads a YAML listing and returns the validated program.
// Unknown keys are rejected.
func ParseListing(r io.Reader) (*Program, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc listing
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrProgramEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrListingSyntax, err)
	}

	stage, ok := ParseShaderStage(doc.Stage)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, doc.Stage)
	}
	p := &Program{
		Stage:         stage,
		RegisterCount: doc.Registers,
		Clauses:       make([]Clause, 0, len(doc.Clauses)),
	}
	for i := range doc.Clauses {
		c, err := doc.Clauses[i].build(uint32(i)) //nolint:gosec // G115: clause count fits the 32-bit dword space
		if err != nil {
			return nil, ClauseError{Clause: i, Err: err}
		}
		p.Clauses = append(p.Clauses, c)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseShaderStage looks up a stage by its listing name.
func ParseShaderStage(name string) (ShaderStage, bool) {
	switch name {
	case "vertex":
		return ShaderStageVertex, true
	case "pixel":
		return ShaderStagePixel, true
	default:
		return 0, false
	}
}

func condition(c *bool) bool {
	return c == nil || *c
}

func (lc *listingClause) build(index uint32) (Clause, error) {
	var out Clause
	kinds := 0
	set := func(c Clause) {
		out = c
		kinds++
	}

	if lc.Exec != nil {
		typ, err := parseConditionType(lc.Exec.Type)
		if err != nil {
			return nil, err
		}
		exec := ExecInstruction{
			DwordIndex:        index,
			Type:              typ,
			BoolConstantIndex: lc.Exec.Bool,
			Condition:         condition(lc.Exec.Condition),
			IsEnd:             lc.Exec.End,
			Instructions:      make([]Instruction, 0, len(lc.Exec.Instructions)),
		}
		for j := range lc.Exec.Instructions {
			instr, err := lc.Exec.Instructions[j].build()
			if err != nil {
				return nil, InstructionError{Instruction: j, Err: err}
			}
			exec.Instructions = append(exec.Instructions, instr)
		}
		set(exec)
	}
	if ls := lc.LoopStart; ls != nil {
		set(LoopStartInstruction{
			DwordIndex:        index,
			LoopConstantIndex: ls.Constant,
			IsRepeat:          ls.Repeat,
			LoopSkipAddress:   ls.Skip,
		})
	}
	if le := lc.LoopEnd; le != nil {
		set(LoopEndInstruction{
			DwordIndex:         index,
			LoopConstantIndex:  le.Constant,
			IsPredicatedBreak:  le.PredicatedBreak,
			PredicateCondition: condition(le.Condition),
			LoopBodyAddress:    le.Body,
		})
	}
	if j := lc.Jump; j != nil {
		typ, err := parseConditionType(j.Type)
		if err != nil {
			return nil, err
		}
		set(JumpInstruction{
			DwordIndex:        index,
			Type:              typ,
			BoolConstantIndex: j.Bool,
			Condition:         condition(j.Condition),
			TargetAddress:     j.Target,
		})
	}
	if c := lc.Call; c != nil {
		typ, err := parseConditionType(c.Type)
		if err != nil {
			return nil, err
		}
		set(CallInstruction{
			DwordIndex:        index,
			Type:              typ,
			BoolConstantIndex: c.Bool,
			Condition:         condition(c.Condition),
			TargetAddress:     c.Target,
		})
	}
	if lc.Return != nil {
		set(ReturnInstruction{DwordIndex: index})
	}
	if a := lc.Alloc; a != nil {
		kind, err := parseAllocType(a.Kind)
		if err != nil {
			return nil, err
		}
		set(AllocInstruction{DwordIndex: index, Type: kind, Size: a.Size})
	}
	if lc.Nop != nil {
		set(NopInstruction{DwordIndex: index})
	}

	if kinds != 1 {
		return nil, ErrClauseKind
	}
	return out, nil
}

func (li *listingInstruction) build() (Instruction, error) {
	kinds := 0
	for _, present := range []bool{li.Alu != nil, li.VFetch != nil, li.TFetch != nil} {
		if present {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, ErrInstructionKind
	}

	switch {
	case li.Alu != nil:
		return li.Alu.build()
	case li.VFetch != nil:
		return li.VFetch.build()
	default:
		return li.TFetch.build()
	}
}

func (la *listingAlu) build() (Instruction, error) {
	in := AluInstruction{
		IsPredicated:       la.Predicated,
		PredicateCondition: condition(la.Condition),
	}
	switch {
	case la.Vector != "" && la.Scalar != "":
		return nil, fmt.Errorf("%w: both vector %q and scalar %q", ErrInstructionKind, la.Vector, la.Scalar)
	case la.Vector != "":
		op, ok := ParseAluVectorOpcode(la.Vector)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOpcode, la.Vector)
		}
		in.Type, in.VectorOpcode = AluVector, op
	case la.Scalar != "":
		op, ok := ParseAluScalarOpcode(la.Scalar)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOpcode, la.Scalar)
		}
		in.Type, in.ScalarOpcode = AluScalar, op
	default:
		in.Type = AluNop
	}

	var err error
	if in.Result, err = la.Dst.build(); err != nil {
		return nil, err
	}
	if in.Operands, err = buildOperands(la.Src); err != nil {
		return nil, err
	}
	return in, nil
}

func (lv *listingVFetch) build() (Instruction, error) {
	format, ok := ParseVertexFormat(lv.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, lv.Format)
	}
	in := VertexFetchInstruction{
		IsPredicated:       lv.Predicated,
		PredicateCondition: condition(lv.Condition),
		Attributes: VertexFetchAttributes{
			DataFormat: format,
			Offset:     lv.Offset,
			Stride:     lv.Stride,
			IsSigned:   lv.Signed,
			IsInteger:  lv.Integer,
		},
	}
	var err error
	if in.Result, err = lv.Dst.build(); err != nil {
		return nil, err
	}
	if in.Operands, err = buildOperands(lv.Src); err != nil {
		return nil, err
	}
	return in, nil
}

func (lt *listingTFetch) build() (Instruction, error) {
	in := TextureFetchInstruction{
		IsPredicated:       lt.Predicated,
		PredicateCondition: condition(lt.Condition),
	}
	if lt.Opcode != "" {
		op, ok := ParseTextureFetchOpcode(lt.Opcode)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOpcode, lt.Opcode)
		}
		in.Opcode = op
	}
	switch strings.ToLower(lt.Dimension) {
	case "1d":
		in.Dimension = TextureDimension1D
	case "", "2d":
		in.Dimension = TextureDimension2D
	case "3d":
		in.Dimension = TextureDimension3D
	case "cube":
		in.Dimension = TextureDimensionCube
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, lt.Dimension)
	}
	var err error
	if in.Result, err = lt.Dst.build(); err != nil {
		return nil, err
	}
	if in.Operands, err = buildOperands(lt.Src); err != nil {
		return nil, err
	}
	return in, nil
}

// build converts a destination. A missing destination writes nothing.
func (lr *listingResult) build() (Result, error) {
	var r Result
	if lr == nil {
		return r, nil
	}
	switch lr.Target {
	case "", "none":
		r.StorageTarget = StorageTargetNone
	case "r":
		r.StorageTarget = StorageTargetRegister
	case "o":
		r.StorageTarget = StorageTargetInterpolant
	case "oPos":
		r.StorageTarget = StorageTargetPosition
	case "oPts":
		r.StorageTarget = StorageTargetPointSize
	case "oC":
		r.StorageTarget = StorageTargetColorTarget
	case "oDepth":
		r.StorageTarget = StorageTargetDepth
	default:
		return r, fmt.Errorf("%w: target %q", ErrUnknownStorage, lr.Target)
	}
	r.StorageIndex = lr.Index
	r.IsClamped = lr.Clamp

	var err error
	if r.AddressingMode, err = parseAddressing(lr.Addr); err != nil {
		return r, err
	}
	if r.StorageTarget == StorageTargetNone {
		return r, nil
	}
	if r.WriteMask, err = parseWriteMask(lr.Mask); err != nil {
		return r, err
	}
	r.Components = StandardSwizzle
	if lr.Swizzle != "" {
		if len(lr.Swizzle) != 4 {
			return r, fmt.Errorf("%w: result swizzle %q needs 4 selectors", ErrSwizzle, lr.Swizzle)
		}
		for i := 0; i < 4; i++ {
			s, ok := parseSwizzleChar(lr.Swizzle[i], true)
			if !ok {
				return r, fmt.Errorf("%w: %q", ErrSwizzle, lr.Swizzle)
			}
			r.Components[i] = s
		}
	}
	return r, nil
}

func buildOperands(src []listingOperand) ([]Operand, error) {
	ops := make([]Operand, 0, len(src))
	for k := range src {
		op, err := src[k].build()
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", k, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (lo *listingOperand) build() (Operand, error) {
	var source StorageSource
	switch lo.Src {
	case "r":
		source = StorageSourceRegister
	case "c":
		source = StorageSourceConstantFloat
	case "i":
		source = StorageSourceConstantInt
	case "b":
		source = StorageSourceConstantBool
	case "vf":
		source = StorageSourceVertexFetchConstant
	case "tf":
		source = StorageSourceTextureFetchConstant
	default:
		return Operand{}, fmt.Errorf("%w: source %q", ErrUnknownStorage, lo.Src)
	}
	op := NewOperand(source, lo.Index)
	op.IsNegated = lo.Neg
	op.IsAbsoluteValue = lo.Abs

	var err error
	if op.AddressingMode, err = parseAddressing(lo.Addr); err != nil {
		return op, err
	}
	if lo.Swizzle == "" {
		return op, nil
	}
	if len(lo.Swizzle) > 4 {
		return op, fmt.Errorf("%w: %q", ErrSwizzle, lo.Swizzle)
	}
	op.ComponentCount = len(lo.Swizzle)
	for i := 0; i < 4; i++ {
		c := lo.Swizzle[min(i, len(lo.Swizzle)-1)]
		s, ok := parseSwizzleChar(c, false)
		if !ok {
			return op, fmt.Errorf("%w: %q", ErrSwizzle, lo.Swizzle)
		}
		op.Components[i] = s
	}
	return op, nil
}

func parseSwizzleChar(c byte, literals bool) (SwizzleSource, bool) {
	switch c {
	case 'x', 'r':
		return SwizzleX, true
	case 'y', 'g':
		return SwizzleY, true
	case 'z', 'b':
		return SwizzleZ, true
	case 'w', 'a':
		return SwizzleW, true
	case '0':
		return Swizzle0, literals
	case '1':
		return Swizzle1, literals
	default:
		return 0, false
	}
}

// parseWriteMask accepts either the written lane letters ("xz") or a
// positional mask with '_' for skipped lanes ("x_z_"). Empty means xyzw.
func parseWriteMask(s string) ([4]bool, error) {
	var mask [4]bool
	if s == "" {
		return [4]bool{true, true, true, true}, nil
	}
	if len(s) == 4 && strings.ContainsRune(s, '_') {
		for i := 0; i < 4; i++ {
			switch s[i] {
			case '_':
			case "xyzw"[i]:
				mask[i] = true
			default:
				return mask, fmt.Errorf("%w: %q", ErrWriteMask, s)
			}
		}
		return mask, nil
	}
	for i := 0; i < len(s); i++ {
		lane := strings.IndexByte("xyzw", s[i])
		if lane < 0 || mask[lane] {
			return mask, fmt.Errorf("%w: %q", ErrWriteMask, s)
		}
		mask[lane] = true
	}
	return mask, nil
}

func parseAddressing(s string) (AddressingMode, error) {
	switch s {
	case "", "static":
		return AddressingStatic, nil
	case "a0":
		return AddressingAbsolute, nil
	case "aL":
		return AddressingRelative, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAddressing, s)
	}
}

func parseConditionType(s string) (ConditionType, error) {
	switch s {
	case "", "unconditional":
		return ConditionUnconditional, nil
	case "conditional":
		return ConditionBoolConstant, nil
	case "predicated":
		return ConditionPredicate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCondition, s)
	}
}

func parseAllocType(s string) (AllocType, error) {
	for _, t := range []AllocType{AllocNone, AllocPosition, AllocInterpolators, AllocMemory} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlloc, s)
}
