package ioport

import (
	"bufio"
	"strconv"
	"strings"
)

// StringBacked serves input from an in-memory buffer and captures output to
// an in-memory buffer. It's the port used by tests and by any batch/scripted
// run that supplies its input up front instead of from a terminal.
type StringBacked struct {
	r    *bufio.Reader
	out  strings.Builder
	line int
}

// NewStringBacked wraps in as the input source. Output accumulates in an
// internal buffer, retrievable with Output.
func NewStringBacked(in string) *StringBacked {
	return &StringBacked{r: bufio.NewReader(strings.NewReader(in))}
}

func (s *StringBacked) NextChar() (int32, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, ErrEndOfInput
	}
	return int32(b), nil
}

func (s *StringBacked) NextInt() (int32, error) {
	s.line++
	line, err := s.r.ReadString('\n')
	if line == "" && err != nil {
		return 0, ErrEndOfInput
	}
	line = strings.TrimRight(line, "\r\n")
	n, ok := parseInt(strings.TrimSpace(line))
	if !ok {
		return 0, ErrMalformedInt
	}
	return n, nil
}

func (s *StringBacked) WriteChar(c int32) error {
	s.out.WriteByte(byte(c))
	return nil
}

func (s *StringBacked) WriteInt(n int32) error {
	s.out.WriteString(strconv.FormatInt(int64(n), 10))
	return nil
}

// Output returns everything written so far.
func (s *StringBacked) Output() string {
	return s.out.String()
}

// parseInt parses a signed decimal integer, or, if the (optionally signed)
// line begins with "0x", a hexadecimal one. Unlike strconv's base-0
// detection, a bare leading zero ("0100") is decimal, never octal: only an
// explicit "0x"/"-0x" prefix switches the base (spec §4.4/§6).
func parseInt(s string) (int32, bool) {
	base := 10
	digits := s
	negative := false
	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	if negative {
		digits = "-" + digits
	}

	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
