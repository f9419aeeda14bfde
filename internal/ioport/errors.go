package ioport

import "errors"

var (
	// ErrEndOfInput is returned once an input source is exhausted.
	ErrEndOfInput = errors.New("end of input")

	// ErrInputNotImplemented is returned by Null, for drivers that never
	// expect a program to read input.
	ErrInputNotImplemented = errors.New("input not implemented")

	// ErrMalformedInt is returned by read_int when the next line of input
	// isn't a valid signed decimal integer or "0x"-prefixed hexadecimal one.
	ErrMalformedInt = errors.New("malformed integer input")
)
