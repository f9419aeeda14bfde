package ioport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringBackedNextChar(t *testing.T) {
	p := NewStringBacked("AB")
	c, err := p.NextChar()
	require.NoError(t, err)
	require.Equal(t, int32('A'), c)
	c, err = p.NextChar()
	require.NoError(t, err)
	require.Equal(t, int32('B'), c)
	_, err = p.NextChar()
	require.ErrorIs(t, err, ErrEndOfInput)
}

func TestStringBackedNextInt(t *testing.T) {
	p := NewStringBacked("42\n-7\n")
	n, err := p.NextInt()
	require.NoError(t, err)
	require.Equal(t, int32(42), n)
	n, err = p.NextInt()
	require.NoError(t, err)
	require.Equal(t, int32(-7), n)
}

func TestStringBackedNextIntMalformed(t *testing.T) {
	p := NewStringBacked("not a number\n")
	_, err := p.NextInt()
	require.ErrorIs(t, err, ErrMalformedInt)
}

func TestStringBackedNextIntHexPrefixIsUnconditional(t *testing.T) {
	p := NewStringBacked("0x1A\n-0x1A\n")
	n, err := p.NextInt()
	require.NoError(t, err)
	require.Equal(t, int32(26), n)
	n, err = p.NextInt()
	require.NoError(t, err)
	require.Equal(t, int32(-26), n)
}

func TestStringBackedNextIntLeadingZeroIsDecimalNotOctal(t *testing.T) {
	p := NewStringBacked("0100\n")
	n, err := p.NextInt()
	require.NoError(t, err)
	require.Equal(t, int32(100), n)
}

func TestStringBackedWrites(t *testing.T) {
	p := NewStringBacked("")
	require.NoError(t, p.WriteChar('A'))
	require.NoError(t, p.WriteInt(-5))
	require.Equal(t, "A-5", p.Output())
}

func TestNullRejectsInput(t *testing.T) {
	var n Null
	_, err := n.NextChar()
	require.ErrorIs(t, err, ErrInputNotImplemented)
	_, err = n.NextInt()
	require.ErrorIs(t, err, ErrInputNotImplemented)
}

func TestNullAcceptsOutput(t *testing.T) {
	var n Null
	require.NoError(t, n.WriteChar('x'))
	require.NoError(t, n.WriteInt(1))
}
