// Package vm executes a finalised parser.Program against a value stack, a
// sparse heap, and a separate call stack (spec §4.3, §9).
//
// The fetch-decode-advance-execute step loop and its sentinel-error driver
// are grounded on the teacher's (KTStephano-GVM) execNextInstruction/
// execInstructions shape in vm/exec.go and vm/run.go: fetch the instruction
// at pc, advance pc, dispatch on opcode, and let a single typed error
// unwind the whole run. The teacher's register file and byte-addressed
// stack memory have no counterpart here — this machine's stack is a plain
// []int32 and its heap a map[int32]int32, per spec §9's sparse-heap
// guidance, not a flat addressable byte segment.
package vm

import (
	"github.com/RicardoLuis0/whitespace/internal/ioport"
	"github.com/RicardoLuis0/whitespace/internal/parser"
)

// VM executes one parser.Program to completion or to the first error.
type VM struct {
	prog  *parser.Program
	stack []int32
	heap  map[int32]int32
	calls []int

	pc int

	In  ioport.InputPort
	Out ioport.OutputPort

	// Debug, when set, makes Step report the instruction it's about to
	// execute through Trace before executing it.
	Debug bool
	Trace func(pc int, instr parser.Instruction)
}

// New builds a VM ready to execute prog. in/out are borrowed, not owned:
// the VM never closes or releases them. heapSizeHint preallocates the heap map's bucket count; 0 is a
// reasonable default for small programs.
func New(prog *parser.Program, in ioport.InputPort, out ioport.OutputPort, heapSizeHint int) *VM {
	return &VM{
		prog: prog,
		heap: make(map[int32]int32, heapSizeHint),
		In:   in,
		Out:  out,
	}
}

// Run executes the program to completion: a clean halt returns nil, a
// program that runs off the end of the instruction array without hitting
// halt also returns nil (spec §4.3's "implicit halt"), and anything else
// returns the error that stopped it.
func (m *VM) Run() error {
	for {
		done, err := m.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step executes exactly one instruction. done is true once the program has
// halted, explicitly or by falling off the end of the instruction array.
func (m *VM) Step() (done bool, err error) {
	if m.pc >= len(m.prog.Instructions) {
		return true, nil
	}

	instr := m.prog.Instructions[m.pc]
	if m.Debug && m.Trace != nil {
		m.Trace(m.pc, instr)
	}
	m.pc++

	switch instr.Op {
	case parser.OpPush:
		m.push(instr.Arg)
	case parser.OpCopy:
		return false, m.copyNth(instr.Arg)
	case parser.OpSlide:
		return false, m.slide(instr.Arg)
	case parser.OpDup:
		top, err := m.peek()
		if err != nil {
			return false, err
		}
		m.push(top)
	case parser.OpSwap:
		return false, m.swap()
	case parser.OpDiscard:
		_, err := m.pop()
		return false, err

	case parser.OpAdd:
		return false, m.binary(func(a, b int32) int32 { return a + b })
	case parser.OpSub:
		return false, m.binary(func(a, b int32) int32 { return a - b })
	case parser.OpMul:
		return false, m.binary(func(a, b int32) int32 { return a * b })
	case parser.OpDiv:
		return false, m.binaryErr(floorDiv)
	case parser.OpMod:
		return false, m.binaryErr(knuthMod)

	case parser.OpStore:
		return false, m.store()
	case parser.OpLoad:
		return false, m.load()

	case parser.OpCall:
		m.calls = append(m.calls, m.pc)
		m.pc = int(instr.Arg)
	case parser.OpJump:
		m.pc = int(instr.Arg)
	case parser.OpJz:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		if v == 0 {
			m.pc = int(instr.Arg)
		}
	case parser.OpJn:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		if v < 0 {
			m.pc = int(instr.Arg)
		}
	case parser.OpRet:
		if len(m.calls) == 0 {
			return false, ErrCallStackUnderflow
		}
		m.pc = m.calls[len(m.calls)-1]
		m.calls = m.calls[:len(m.calls)-1]
	case parser.OpHalt:
		return true, nil

	case parser.OpReadChar:
		return false, m.readInto(m.In.NextChar)
	case parser.OpReadInt:
		return false, m.readInto(m.In.NextInt)
	case parser.OpWriteChar:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		return false, m.Out.WriteChar(v)
	case parser.OpWriteInt:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		return false, m.Out.WriteInt(v)

	default:
		return false, ErrInvalidInstruction
	}

	return false, nil
}

func (m *VM) push(v int32) {
	m.stack = append(m.stack, v)
}

func (m *VM) pop() (int32, error) {
	if len(m.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *VM) peek() (int32, error) {
	if len(m.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	return m.stack[len(m.stack)-1], nil
}

func (m *VM) copyNth(n int32) error {
	if n < 0 || int(n) >= len(m.stack) {
		return ErrStackUnderflow
	}
	m.push(m.stack[len(m.stack)-1-int(n)])
	return nil
}

// slide discards n items from beneath the top of the stack, keeping the top
// value. n < 0 or a request larger than what lies beneath the top clears
// the entire stack down to the saved top, rather than erroring (spec §9
// Open Question: behavior preserved, not "fixed").
func (m *VM) slide(n int32) error {
	top, err := m.pop()
	if err != nil {
		return err
	}
	drop := int(n)
	if drop < 0 || drop > len(m.stack) {
		drop = len(m.stack)
	}
	m.stack = m.stack[:len(m.stack)-drop]
	m.push(top)
	return nil
}

func (m *VM) swap() error {
	if len(m.stack) < 2 {
		return ErrStackUnderflow
	}
	n := len(m.stack)
	m.stack[n-1], m.stack[n-2] = m.stack[n-2], m.stack[n-1]
	return nil
}

// binary pops b then a (a was pushed first) and pushes f(a, b).
func (m *VM) binary(f func(a, b int32) int32) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	m.push(f(a, b))
	return nil
}

func (m *VM) binaryErr(f func(a, b int32) (int32, error)) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	r, err := f(a, b)
	if err != nil {
		return err
	}
	m.push(r)
	return nil
}

func (m *VM) store() error {
	value, err := m.pop()
	if err != nil {
		return err
	}
	addr, err := m.pop()
	if err != nil {
		return err
	}
	m.heap[addr] = value
	return nil
}

func (m *VM) load() error {
	addr, err := m.pop()
	if err != nil {
		return err
	}
	v, ok := m.heap[addr]
	if !ok {
		return ErrUnmappedHeapRead
	}
	m.push(v)
	return nil
}

func (m *VM) readInto(read func() (int32, error)) error {
	addr, err := m.pop()
	if err != nil {
		return err
	}
	v, err := read()
	if err != nil {
		return err
	}
	m.heap[addr] = v
	return nil
}

// floorDiv rounds toward negative infinity, unlike Go's native truncating
// "/" (spec §4.3: -7 div 2 == -4).
func floorDiv(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q, nil
}

// knuthMod follows the sign of the divisor, unlike Go's native "%" which
// follows the sign of the dividend (spec §4.3: -7 mod 2 == 1).
func knuthMod(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}
