// Package ioport supplies the blocking input/output backends a Whitespace
// program's read_char/read_int/write_char/write_int instructions are wired
// to. Execution is single-threaded and synchronous throughout: a port call
// blocks the calling goroutine until it has an answer, exactly like the
// teacher's console device, but without the teacher's goroutine/channel
// request-response plumbing, which has no role once nothing else runs
// concurrently with the VM.
package ioport

// InputPort supplies the two forms of blocking input a Whitespace program
// can request.
type InputPort interface {
	// NextChar returns the next raw input byte as an int32 code point.
	NextChar() (int32, error)

	// NextInt reads and parses the next whole line of input as a signed
	// decimal integer, or as hexadecimal when it carries a "0x" prefix.
	NextInt() (int32, error)
}

// OutputPort supplies the two forms of blocking output a Whitespace program
// can request.
type OutputPort interface {
	WriteChar(c int32) error
	WriteInt(n int32) error
}
