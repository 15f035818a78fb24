// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ucode

// AluVectorOpcode is an opcode of the vector ALU pipe.
type AluVectorOpcode uint8

// Vector opcodes, numbered as in the microcode.
const (
	AluVectorAdd AluVectorOpcode = iota
	AluVectorMul
	AluVectorMax
	AluVectorMin
	AluVectorSeq
	AluVectorSgt
	AluVectorSge
	AluVectorSne
	AluVectorFrc
	AluVectorTrunc
	AluVectorFloor
	AluVectorMad
	AluVectorCndEq
	AluVectorCndGe
	AluVectorCndGt
	AluVectorDp4
	AluVectorDp3
	AluVectorDp2Add
	AluVectorCube
	AluVectorMax4
	AluVectorSetpEqPush
	AluVectorSetpNePush
	AluVectorSetpGtPush
	AluVectorSetpGePush
	AluVectorKillEq
	AluVectorKillGt
	AluVectorKillGe
	AluVectorKillNe
	AluVectorDst
	AluVectorMaxA
)

var aluVectorNames = [...]string{
	AluVectorAdd:        "add",
	AluVectorMul:        "mul",
	AluVectorMax:        "max",
	AluVectorMin:        "min",
	AluVectorSeq:        "seq",
	AluVectorSgt:        "sgt",
	AluVectorSge:        "sge",
	AluVectorSne:        "sne",
	AluVectorFrc:        "frc",
	AluVectorTrunc:      "trunc",
	AluVectorFloor:      "floor",
	AluVectorMad:        "mad",
	AluVectorCndEq:      "cndeq",
	AluVectorCndGe:      "cndge",
	AluVectorCndGt:      "cndgt",
	AluVectorDp4:        "dp4",
	AluVectorDp3:        "dp3",
	AluVectorDp2Add:     "dp2add",
	AluVectorCube:       "cube",
	AluVectorMax4:       "max4",
	AluVectorSetpEqPush: "setp_eq_push",
	AluVectorSetpNePush: "setp_ne_push",
	AluVectorSetpGtPush: "setp_gt_push",
	AluVectorSetpGePush: "setp_ge_push",
	AluVectorKillEq:     "kill_eq",
	AluVectorKillGt:     "kill_gt",
	AluVectorKillGe:     "kill_ge",
	AluVectorKillNe:     "kill_ne",
	AluVectorDst:        "dst",
	AluVectorMaxA:       "maxa",
}

// String returns the opcode mnemonic.
func (op AluVectorOpcode) String() string {
	if int(op) < len(aluVectorNames) {
		return aluVectorNames[op]
	}
	return "vector_unknown"
}

// OperandCount returns the number of source operands the opcode reads.
func (op AluVectorOpcode) OperandCount() int {
	switch op {
	case AluVectorFrc, AluVectorTrunc, AluVectorFloor, AluVectorMax4:
		return 1
	case AluVectorMad, AluVectorCndEq, AluVectorCndGe, AluVectorCndGt, AluVectorDp2Add:
		return 3
	default:
		return 2
	}
}

// ParseAluVectorOpcode looks up a vector opcode by mnemonic.
func ParseAluVectorOpcode(name string) (AluVectorOpcode, bool) {
	for i, n := range aluVectorNames {
		if n == name {
			return AluVectorOpcode(i), true
		}
	}
	return 0, false
}

// AluScalarOpcode is an opcode of the scalar ALU pipe.
type AluScalarOpcode uint8

// Scalar opcodes, numbered as in the microcode. 41 is unused.
const (
	AluScalarAdds AluScalarOpcode = iota
	AluScalarAddsPrev
	AluScalarMuls
	AluScalarMulsPrev
	AluScalarMulsPrev2
	AluScalarMaxs
	AluScalarMins
	AluScalarSeqs
	AluScalarSgts
	AluScalarSges
	AluScalarSnes
	AluScalarFrcs
	AluScalarTruncs
	AluScalarFloors
	AluScalarExp
	AluScalarLogc
	AluScalarLog
	AluScalarRcpc
	AluScalarRcpf
	AluScalarRcp
	AluScalarRsqc
	AluScalarRsqf
	AluScalarRsq
	AluScalarMaxAs
	AluScalarMaxAsf
	AluScalarSubs
	AluScalarSubsPrev
	AluScalarSetpEq
	AluScalarSetpNe
	AluScalarSetpGt
	AluScalarSetpGe
	AluScalarSetpInv
	AluScalarSetpPop
	AluScalarSetpClr
	AluScalarSetpRstr
	AluScalarKillsEq
	AluScalarKillsGt
	AluScalarKillsGe
	AluScalarKillsNe
	AluScalarKillsOne
	AluScalarSqrt
	_
	AluScalarMulsc0
	AluScalarMulsc1
	AluScalarAddsc0
	AluScalarAddsc1
	AluScalarSubsc0
	AluScalarSubsc1
	AluScalarSin
	AluScalarCos
	AluScalarRetainPrev
)

var aluScalarNames = [...]string{
	AluScalarAdds:       "adds",
	AluScalarAddsPrev:   "adds_prev",
	AluScalarMuls:       "muls",
	AluScalarMulsPrev:   "muls_prev",
	AluScalarMulsPrev2:  "muls_prev2",
	AluScalarMaxs:       "maxs",
	AluScalarMins:       "mins",
	AluScalarSeqs:       "seqs",
	AluScalarSgts:       "sgts",
	AluScalarSges:       "sges",
	AluScalarSnes:       "snes",
	AluScalarFrcs:       "frcs",
	AluScalarTruncs:     "truncs",
	AluScalarFloors:     "floors",
	AluScalarExp:        "exp",
	AluScalarLogc:       "logc",
	AluScalarLog:        "log",
	AluScalarRcpc:       "rcpc",
	AluScalarRcpf:       "rcpf",
	AluScalarRcp:        "rcp",
	AluScalarRsqc:       "rsqc",
	AluScalarRsqf:       "rsqf",
	AluScalarRsq:        "rsq",
	AluScalarMaxAs:      "maxas",
	AluScalarMaxAsf:     "maxasf",
	AluScalarSubs:       "subs",
	AluScalarSubsPrev:   "subs_prev",
	AluScalarSetpEq:     "setp_eq",
	AluScalarSetpNe:     "setp_ne",
	AluScalarSetpGt:     "setp_gt",
	AluScalarSetpGe:     "setp_ge",
	AluScalarSetpInv:    "setp_inv",
	AluScalarSetpPop:    "setp_pop",
	AluScalarSetpClr:    "setp_clr",
	AluScalarSetpRstr:   "setp_rstr",
	AluScalarKillsEq:    "kills_eq",
	AluScalarKillsGt:    "kills_gt",
	AluScalarKillsGe:    "kills_ge",
	AluScalarKillsNe:    "kills_ne",
	AluScalarKillsOne:   "kills_one",
	AluScalarSqrt:       "sqrt",
	AluScalarMulsc0:     "mulsc0",
	AluScalarMulsc1:     "mulsc1",
	AluScalarAddsc0:     "addsc0",
	AluScalarAddsc1:     "addsc1",
	AluScalarSubsc0:     "subsc0",
	AluScalarSubsc1:     "subsc1",
	AluScalarSin:        "sin",
	AluScalarCos:        "cos",
	AluScalarRetainPrev: "retain_prev",
}

// String returns the opcode mnemonic.
func (op AluScalarOpcode) String() string {
	if int(op) < len(aluScalarNames) && aluScalarNames[op] != "" {
		return aluScalarNames[op]
	}
	return "scalar_unknown"
}

// OperandCount returns the number of source operands the opcode reads.
func (op AluScalarOpcode) OperandCount() int {
	switch op {
	case AluScalarRetainPrev:
		return 0
	case AluScalarMulsc0, AluScalarMulsc1, AluScalarAddsc0, AluScalarAddsc1,
		AluScalarSubsc0, AluScalarSubsc1:
		return 2
	default:
		return 1
	}
}

// IsPredicateSet reports whether the opcode writes the predicate register.
func (op AluScalarOpcode) IsPredicateSet() bool {
	return op >= AluScalarSetpEq && op <= AluScalarSetpRstr
}

// ParseAluScalarOpcode looks up a scalar opcode by mnemonic.
func ParseAluScalarOpcode(name string) (AluScalarOpcode, bool) {
	if name == "" {
		return 0, false
	}
	for i, n := range aluScalarNames {
		if n == name {
			return AluScalarOpcode(i), true
		}
	}
	return 0, false
}

// AluType says which ALU pipe an instruction uses.
type AluType uint8

const (
	AluNop AluType = iota
	AluVector
	AluScalar
)

// AluInstruction is one ALU operation inside an exec clause.
//
// The microcode co-issues a vector and a scalar operation in one slot; the
// parser splits them so each AluInstruction drives exactly one pipe.
type AluInstruction struct {
	Type         AluType
	VectorOpcode AluVectorOpcode
	ScalarOpcode AluScalarOpcode

	IsPredicated       bool
	PredicateCondition bool

	Result   Result
	Operands []Operand
}

func (AluInstruction) instruction() {}
