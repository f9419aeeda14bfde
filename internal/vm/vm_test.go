package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RicardoLuis0/whitespace/internal/ioport"
	"github.com/RicardoLuis0/whitespace/internal/parser"
)

func run(t *testing.T, instrs []parser.Instruction, in string) string {
	t.Helper()
	prog := &parser.Program{Instructions: instrs}
	port := ioport.NewStringBacked(in)
	m := New(prog, port, port, 0)
	require.NoError(t, m.Run())
	return port.Output()
}

func TestPushWriteCharHalt(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 65},
		{Op: parser.OpWriteChar},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "A", out)
}

func TestImplicitHaltAtEndOfProgram(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 66},
		{Op: parser.OpWriteChar},
	}, "")
	require.Equal(t, "B", out)
}

func TestArithmetic(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 3},
		{Op: parser.OpPush, Arg: 4},
		{Op: parser.OpAdd},
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "7", out)
}

func TestFlooredDivision(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: -7},
		{Op: parser.OpPush, Arg: 2},
		{Op: parser.OpDiv},
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "-4", out)
}

func TestKnuthModulo(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: -7},
		{Op: parser.OpPush, Arg: 2},
		{Op: parser.OpMod},
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "1", out)
}

func TestDivisionByZero(t *testing.T) {
	prog := &parser.Program{Instructions: []parser.Instruction{
		{Op: parser.OpPush, Arg: 1},
		{Op: parser.OpPush, Arg: 0},
		{Op: parser.OpDiv},
	}}
	port := ioport.NewStringBacked("")
	m := New(prog, port, port, 0)
	require.ErrorIs(t, m.Run(), ErrDivisionByZero)
}

func TestHeapStoreLoad(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 10},  // address
		{Op: parser.OpPush, Arg: 99},  // value
		{Op: parser.OpStore},
		{Op: parser.OpPush, Arg: 10},  // address
		{Op: parser.OpLoad},
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "99", out)
}

func TestUnmappedHeapRead(t *testing.T) {
	prog := &parser.Program{Instructions: []parser.Instruction{
		{Op: parser.OpPush, Arg: 1},
		{Op: parser.OpLoad},
	}}
	port := ioport.NewStringBacked("")
	m := New(prog, port, port, 0)
	require.ErrorIs(t, m.Run(), ErrUnmappedHeapRead)
}

func TestDupSwapDiscard(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 1},
		{Op: parser.OpPush, Arg: 2},
		{Op: parser.OpPush, Arg: 3},
		{Op: parser.OpDiscard}, // drops 3
		{Op: parser.OpSwap},
		{Op: parser.OpWriteInt}, // 1
		{Op: parser.OpDup},
		{Op: parser.OpWriteInt}, // 2
		{Op: parser.OpWriteInt}, // 2
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "122", out)
}

func TestCopyNth(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 10},
		{Op: parser.OpPush, Arg: 20},
		{Op: parser.OpPush, Arg: 30},
		{Op: parser.OpCopy, Arg: 2}, // copies 10
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "10", out)
}

func TestSlideKeepsTopDropsBeneath(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 1},
		{Op: parser.OpPush, Arg: 2},
		{Op: parser.OpPush, Arg: 3},
		{Op: parser.OpSlide, Arg: 2}, // drop 1, 2; keep 3
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "3", out)
}

func TestSlideClampsOutOfRangeInsteadOfErroring(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 1},
		{Op: parser.OpPush, Arg: 2},
		{Op: parser.OpSlide, Arg: 100}, // only 1 item beneath the top exists
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "2", out)
}

func TestSlideNegativeCountClearsStack(t *testing.T) {
	// Only the saved top ("3") should survive slide(-1); popping twice more
	// must underflow rather than find the discarded 1 and 2 still there.
	prog := &parser.Program{Instructions: []parser.Instruction{
		{Op: parser.OpPush, Arg: 1},
		{Op: parser.OpPush, Arg: 2},
		{Op: parser.OpPush, Arg: 3},
		{Op: parser.OpSlide, Arg: -1},
		{Op: parser.OpDiscard}, // pops the saved top (3)
		{Op: parser.OpDiscard}, // stack is empty: underflow
	}}
	port := ioport.NewStringBacked("")
	m := New(prog, port, port, 0)
	require.ErrorIs(t, m.Run(), ErrStackUnderflow)
}

func TestCallRet(t *testing.T) {
	// call L; halt; label L: push 9; write_int; ret
	out := run(t, []parser.Instruction{
		{Op: parser.OpCall, Arg: 2},
		{Op: parser.OpHalt},
		{Op: parser.OpPush, Arg: 9},
		{Op: parser.OpWriteInt},
		{Op: parser.OpRet},
	}, "")
	require.Equal(t, "9", out)
}

func TestRetWithoutCall(t *testing.T) {
	prog := &parser.Program{Instructions: []parser.Instruction{
		{Op: parser.OpRet},
	}}
	port := ioport.NewStringBacked("")
	m := New(prog, port, port, 0)
	require.ErrorIs(t, m.Run(), ErrCallStackUnderflow)
}

func TestJzJn(t *testing.T) {
	// push 0; jz L1; push 1; write_int; halt;
	// label L1: push 2; write_int; push -1; jn L2; push 3; write_int;
	// label L2: halt
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 0},
		{Op: parser.OpJz, Arg: 5},
		{Op: parser.OpPush, Arg: 1},
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
		{Op: parser.OpPush, Arg: 2},
		{Op: parser.OpWriteInt},
		{Op: parser.OpPush, Arg: -1},
		{Op: parser.OpJn, Arg: 11},
		{Op: parser.OpPush, Arg: 3},
		{Op: parser.OpWriteInt},
		{Op: parser.OpHalt},
	}, "")
	require.Equal(t, "2", out)
}

func TestReadCharStoresAtAddress(t *testing.T) {
	out := run(t, []parser.Instruction{
		{Op: parser.OpPush, Arg: 7}, // address
		{Op: parser.OpReadChar},
		{Op: parser.OpPush, Arg: 7},
		{Op: parser.OpLoad},
		{Op: parser.OpWriteChar},
		{Op: parser.OpHalt},
	}, "Z")
	require.Equal(t, "Z", out)
}

func TestStackUnderflow(t *testing.T) {
	prog := &parser.Program{Instructions: []parser.Instruction{
		{Op: parser.OpAdd},
	}}
	port := ioport.NewStringBacked("")
	m := New(prog, port, port, 0)
	require.ErrorIs(t, m.Run(), ErrStackUnderflow)
}
