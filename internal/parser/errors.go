package parser

import "errors"

// Parse errors (spec §4.2, §7).
var (
	ErrMalformedOpcode   = errors.New("malformed opcode")
	ErrMalformedNumber   = errors.New("malformed number")
	ErrNumberTooLarge    = errors.New("number too large")
	ErrLabelRedefinition = errors.New("label redefinition")
	ErrUnresolvedLabel   = errors.New("unresolved label")
	ErrEmptyProgram      = errors.New("empty program")

	// ErrUnexpectedEOF is raised when the token stream ends partway through
	// an instruction, integer literal, or label literal — as opposed to
	// cleanly between instructions, which is not an error.
	ErrUnexpectedEOF = errors.New("unexpected end of program")
)
