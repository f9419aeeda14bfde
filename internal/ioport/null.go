package ioport

// Null rejects every read and discards every write. It's wired in when a
// driver is certain a program performs no I/O and wants a hard failure if
// that assumption is wrong, rather than silently blocking on a terminal.
type Null struct{}

func (Null) NextChar() (int32, error) { return 0, ErrInputNotImplemented }
func (Null) NextInt() (int32, error)  { return 0, ErrInputNotImplemented }
func (Null) WriteChar(int32) error    { return nil }
func (Null) WriteInt(int32) error     { return nil }
