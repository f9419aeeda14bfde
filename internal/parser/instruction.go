package parser

import "strconv"

// Op is one of the closed set of instructions from spec §3.
type Op int

const (
	OpPush Op = iota
	OpCopy
	OpSlide
	OpDup
	OpSwap
	OpDiscard

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	OpStore
	OpLoad

	OpCall
	OpJump
	OpJz
	OpJn
	OpRet
	OpHalt

	OpReadChar
	OpReadInt
	OpWriteChar
	OpWriteInt
)

var opNames = map[Op]string{
	OpPush:      "push",
	OpCopy:      "copy",
	OpSlide:     "slide",
	OpDup:       "dup",
	OpSwap:      "swap",
	OpDiscard:   "discard",
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpDiv:       "div",
	OpMod:       "mod",
	OpStore:     "store",
	OpLoad:      "load",
	OpCall:      "call",
	OpJump:      "jump",
	OpJz:        "jz",
	OpJn:        "jn",
	OpRet:       "ret",
	OpHalt:      "halt",
	OpReadChar:  "read_char",
	OpReadInt:   "read_int",
	OpWriteChar: "write_char",
	OpWriteInt:  "write_int",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "?"
}

// hasImmediate reports whether the instruction carries an Arg cell: a
// signed literal for the stack ops, a resolved instruction index for the
// control-flow ops, or nothing for everything else (spec §3).
func (o Op) hasImmediate() bool {
	switch o {
	case OpPush, OpCopy, OpSlide, OpCall, OpJump, OpJz, OpJn:
		return true
	default:
		return false
	}
}

// Instruction is one tagged cell of the finalised instruction array.
//
// Arg holds the signed literal for Push/Copy/Slide, or the resolved
// absolute instruction index for Call/Jump/Jz/Jn. It is unused otherwise.
type Instruction struct {
	Op  Op
	Arg int32
}

func (i Instruction) String() string {
	if i.Op.hasImmediate() {
		return i.Op.String() + " " + strconv.FormatInt(int64(i.Arg), 10)
	}
	return i.Op.String()
}

// Program is the finalised, read-only output of a successful parse.
type Program struct {
	Instructions []Instruction
}
