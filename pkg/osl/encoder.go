package osl

import (
	"encoding/binary"
	"io"
	"math"
)

// Encoder writes big-endian scalars to a sink.
// It does no buffering of its own; wrap the sink in a bufio.Writer if needed.
type Encoder struct {
	w       io.Writer
	buf     [ScalarSize]byte
	written int64
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteFloat32 writes v as an IEEE-754 single precision big-endian value.
func (e *Encoder) WriteFloat32(v float32) error {
	return e.writeBits(math.Float32bits(v))
}

// WriteInt32 writes v as a two's-complement big-endian value.
func (e *Encoder) WriteInt32(v int32) error {
	return e.writeBits(uint32(v))
}

// WriteScalar writes s according to its kind.
func (e *Encoder) WriteScalar(s Scalar) error {
	return e.writeBits(s.bits)
}

// Written returns the number of bytes successfully written so far.
func (e *Encoder) Written() int64 {
	return e.written
}

func (e *Encoder) writeBits(bits uint32) error {
	binary.BigEndian.PutUint32(e.buf[:], bits)
	n, err := e.w.Write(e.buf[:])
	e.written += int64(n)
	if err != nil {
		return &IOError{Err: err}
	}
	if n != ScalarSize {
		return &IOError{Err: io.ErrShortWrite}
	}
	return nil
}

// WriteFloat32 writes a single big-endian float32 to w.
func WriteFloat32(w io.Writer, v float32) error {
	return NewEncoder(w).WriteFloat32(v)
}

// WriteInt32 writes a single big-endian int32 to w.
func WriteInt32(w io.Writer, v int32) error {
	return NewEncoder(w).WriteInt32(v)
}
