// Package parser assembles a Whitespace token stream into a finalised,
// flat instruction array (spec §4.2).
//
// Label references are resolved in a single pass: each call/jump to an
// undefined label gets a placeholder cell recorded in a back-patch table;
// when the label is later defined, every recorded cell is patched and the
// label drops out of the table. Parsing only succeeds once the table is
// empty. This mirrors the back-patching scheme described in spec §9,
// generalized from the teacher's (KTStephano-GVM) tagged-cell instruction
// encoding — the teacher itself resolves labels with a regex text
// substitution prepass, which cannot do this in one pass, so that part is
// not reused.
package parser

import (
	"strings"

	"github.com/RicardoLuis0/whitespace/internal/token"
)

type parser struct {
	r *token.Reader

	instrs []Instruction

	defined map[string]int   // label -> resolved instruction index
	pending map[string][]int // label -> instruction-array positions awaiting patch
}

// Parse assembles src into a finalised Program.
func Parse(src []byte) (*Program, error) {
	p := &parser{
		r:       token.NewReader(src),
		defined: make(map[string]int),
		pending: make(map[string][]int),
	}
	return p.run()
}

func (p *parser) run() (*Program, error) {
	for {
		t1, ok := p.next()
		if !ok {
			break
		}
		if err := p.decodeInstruction(t1); err != nil {
			return nil, err
		}
	}

	if len(p.instrs) == 0 {
		return nil, ErrEmptyProgram
	}
	if len(p.pending) != 0 {
		return nil, ErrUnresolvedLabel
	}

	return &Program{Instructions: p.instrs}, nil
}

func (p *parser) next() (token.Token, bool) {
	return p.r.Next()
}

// require reads the next token, translating end-of-input into
// ErrUnexpectedEOF since we're always called mid-instruction.
func (p *parser) require() (token.Token, error) {
	t, ok := p.next()
	if !ok {
		return 0, ErrUnexpectedEOF
	}
	return t, nil
}

func (p *parser) emit(instr Instruction) {
	p.instrs = append(p.instrs, instr)
}

func (p *parser) decodeInstruction(imp1 token.Token) error {
	switch imp1 {
	case token.S:
		return p.decodeStack()
	case token.T:
		return p.decodeArithOrHeapOrIO()
	case token.N:
		return p.decodeFlow()
	default:
		return ErrMalformedOpcode
	}
}

func (p *parser) decodeStack() error {
	t2, err := p.require()
	if err != nil {
		return err
	}
	switch t2 {
	case token.S:
		n, err := p.decodeNumber()
		if err != nil {
			return err
		}
		p.emit(Instruction{Op: OpPush, Arg: n})
		return nil
	case token.T:
		t3, err := p.require()
		if err != nil {
			return err
		}
		switch t3 {
		case token.S:
			n, err := p.decodeNumber()
			if err != nil {
				return err
			}
			p.emit(Instruction{Op: OpCopy, Arg: n})
			return nil
		case token.N:
			n, err := p.decodeNumber()
			if err != nil {
				return err
			}
			p.emit(Instruction{Op: OpSlide, Arg: n})
			return nil
		default:
			return ErrMalformedOpcode
		}
	case token.N:
		t3, err := p.require()
		if err != nil {
			return err
		}
		switch t3 {
		case token.S:
			p.emit(Instruction{Op: OpDup})
		case token.T:
			p.emit(Instruction{Op: OpSwap})
		case token.N:
			p.emit(Instruction{Op: OpDiscard})
		default:
			return ErrMalformedOpcode
		}
		return nil
	default:
		return ErrMalformedOpcode
	}
}

func (p *parser) decodeArithOrHeapOrIO() error {
	t2, err := p.require()
	if err != nil {
		return err
	}
	switch t2 {
	case token.S:
		return p.decodeArith()
	case token.T:
		t3, err := p.require()
		if err != nil {
			return err
		}
		switch t3 {
		case token.S:
			p.emit(Instruction{Op: OpStore})
		case token.T:
			p.emit(Instruction{Op: OpLoad})
		default:
			return ErrMalformedOpcode
		}
		return nil
	case token.N:
		return p.decodeIO()
	default:
		return ErrMalformedOpcode
	}
}

func (p *parser) decodeArith() error {
	t3, err := p.require()
	if err != nil {
		return err
	}
	t4, err := p.require()
	if err != nil {
		return err
	}
	switch {
	case t3 == token.S && t4 == token.S:
		p.emit(Instruction{Op: OpAdd})
	case t3 == token.S && t4 == token.T:
		p.emit(Instruction{Op: OpSub})
	case t3 == token.S && t4 == token.N:
		p.emit(Instruction{Op: OpMul})
	case t3 == token.T && t4 == token.S:
		p.emit(Instruction{Op: OpDiv})
	case t3 == token.T && t4 == token.T:
		p.emit(Instruction{Op: OpMod})
	default:
		return ErrMalformedOpcode
	}
	return nil
}

func (p *parser) decodeIO() error {
	t3, err := p.require()
	if err != nil {
		return err
	}
	t4, err := p.require()
	if err != nil {
		return err
	}
	switch {
	case t3 == token.S && t4 == token.S:
		p.emit(Instruction{Op: OpWriteChar})
	case t3 == token.S && t4 == token.T:
		p.emit(Instruction{Op: OpWriteInt})
	case t3 == token.T && t4 == token.S:
		p.emit(Instruction{Op: OpReadChar})
	case t3 == token.T && t4 == token.T:
		p.emit(Instruction{Op: OpReadInt})
	default:
		return ErrMalformedOpcode
	}
	return nil
}

func (p *parser) decodeFlow() error {
	t2, err := p.require()
	if err != nil {
		return err
	}
	switch t2 {
	case token.S:
		t3, err := p.require()
		if err != nil {
			return err
		}
		switch t3 {
		case token.S:
			lbl, err := p.decodeLabel()
			if err != nil {
				return err
			}
			return p.defineLabel(lbl)
		case token.T:
			lbl, err := p.decodeLabel()
			if err != nil {
				return err
			}
			return p.emitLabelRef(OpCall, lbl)
		case token.N:
			lbl, err := p.decodeLabel()
			if err != nil {
				return err
			}
			return p.emitLabelRef(OpJump, lbl)
		default:
			return ErrMalformedOpcode
		}
	case token.T:
		t3, err := p.require()
		if err != nil {
			return err
		}
		switch t3 {
		case token.S:
			lbl, err := p.decodeLabel()
			if err != nil {
				return err
			}
			return p.emitLabelRef(OpJz, lbl)
		case token.T:
			lbl, err := p.decodeLabel()
			if err != nil {
				return err
			}
			return p.emitLabelRef(OpJn, lbl)
		case token.N:
			p.emit(Instruction{Op: OpRet})
			return nil
		default:
			return ErrMalformedOpcode
		}
	case token.N:
		t3, err := p.require()
		if err != nil {
			return err
		}
		if t3 != token.N {
			return ErrMalformedOpcode
		}
		p.emit(Instruction{Op: OpHalt})
		return nil
	default:
		return ErrMalformedOpcode
	}
}

// decodeNumber reads a signed integer literal: a sign token, a magnitude of
// up to 31 {S,T} bits MSB-first, terminated by N (spec §4.2).
func (p *parser) decodeNumber() (int32, error) {
	sign, err := p.require()
	if err != nil {
		return 0, err
	}
	var negative bool
	switch sign {
	case token.S:
		negative = false
	case token.T:
		negative = true
	default: // token.N
		return 0, ErrMalformedNumber
	}

	var mag uint32
	bits := 0
	for {
		t, err := p.require()
		if err != nil {
			return 0, err
		}
		if t == token.N {
			break
		}
		if bits >= 31 {
			return 0, ErrNumberTooLarge
		}
		mag <<= 1
		if t == token.T {
			mag |= 1
		}
		bits++
	}

	v := int32(mag)
	if negative {
		v = -v
	}
	return v, nil
}

// decodeLabel reads a bit-string label: zero or more {S,T} tokens
// terminated by N. Labels compare as bit-strings, never as numbers.
func (p *parser) decodeLabel() (string, error) {
	var sb strings.Builder
	for {
		t, err := p.require()
		if err != nil {
			return "", err
		}
		if t == token.N {
			break
		}
		if t == token.S {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String(), nil
}

func (p *parser) defineLabel(label string) error {
	if _, ok := p.defined[label]; ok {
		return ErrLabelRedefinition
	}
	idx := len(p.instrs)
	p.defined[label] = idx

	if positions, ok := p.pending[label]; ok {
		for _, pos := range positions {
			p.instrs[pos].Arg = int32(idx)
		}
		delete(p.pending, label)
	}
	return nil
}

func (p *parser) emitLabelRef(op Op, label string) error {
	pos := len(p.instrs)
	if idx, ok := p.defined[label]; ok {
		p.emit(Instruction{Op: op, Arg: int32(idx)})
		return nil
	}

	// Placeholder value is irrelevant: it is unconditionally overwritten by
	// defineLabel before the program is ever returned to a caller.
	p.emit(Instruction{Op: op, Arg: -1})
	p.pending[label] = append(p.pending[label], pos)
	return nil
}
