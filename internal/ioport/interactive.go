package ioport

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// TTY is the minimal surface Interactive needs from *os.File, kept as its
// own interface so tests can substitute a non-terminal reader without a
// real TTY.
type TTY interface {
	io.Reader
	Fd() uintptr
}

// Interactive drives a real terminal: read_char takes one raw keystroke
// without waiting for Enter, read_int re-prompts until it parses a line as a
// signed decimal (or "0x"-prefixed hexadecimal) integer, and both writers flush immediately so prompts and
// program output interleave the way a user watching the terminal expects.
type Interactive struct {
	in     TTY
	out    io.Writer
	r      *bufio.Reader
	prompt bool
}

// NewInteractive wraps in/out for a program run against a real terminal.
// prompt, when true, writes a "> " cue before each read_int so a human
// typing at the keyboard has a visual anchor; it's disabled for
// scripted/piped input.
func NewInteractive(in TTY, out io.Writer, prompt bool) *Interactive {
	return &Interactive{in: in, out: out, r: bufio.NewReader(in), prompt: prompt}
}

// NextChar reads one raw byte. If in is a real TTY, the terminal is put into
// raw mode for the duration of the read (no line buffering, no echoed
// Enter) and restored immediately after.
func (ia *Interactive) NextChar() (int32, error) {
	fd := int(ia.in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, state)
		}
	}
	b, err := ia.r.ReadByte()
	if err != nil {
		return 0, ErrEndOfInput
	}
	return int32(b), nil
}

func (ia *Interactive) NextInt() (int32, error) {
	for {
		if ia.prompt {
			fmt.Fprint(ia.out, "> ")
		}
		line, err := ia.r.ReadString('\n')
		if line == "" && err != nil {
			return 0, ErrEndOfInput
		}
		line = strings.TrimSpace(line)
		n, ok := parseInt(line)
		if !ok {
			fmt.Fprintln(ia.out, "expected a whole number, try again")
			continue
		}
		return n, nil
	}
}

func (ia *Interactive) WriteChar(c int32) error {
	_, err := ia.out.Write([]byte{byte(c)})
	return err
}

func (ia *Interactive) WriteInt(n int32) error {
	_, err := fmt.Fprint(ia.out, n)
	return err
}
