package osl

import (
	"io"

	"github.com/Faultbox/oslexport/pkg/math"
)

// Record is an ordered, append-only list of scalars forming one logical
// entry of a section (material, triangle, light or camera).
//
// A Record does not validate what is pushed; field order is entirely up
// to the caller.
type Record struct {
	values []Scalar
}

// NewRecord returns an empty record with room for n values.
func NewRecord(n int) *Record {
	return &Record{values: make([]Scalar, 0, n)}
}

// PushFloat appends a float32 value.
func (r *Record) PushFloat(v float32) *Record {
	r.values = append(r.values, Float(v))
	return r
}

// PushInt appends an int32 value.
func (r *Record) PushInt(v int32) *Record {
	r.values = append(r.values, Int(v))
	return r
}

// PushVec3 appends the X, Y and Z components as floats.
func (r *Record) PushVec3(v math.Vec3) *Record {
	return r.PushFloat(v.X).PushFloat(v.Y).PushFloat(v.Z)
}

// Len returns the number of scalars in the record.
func (r *Record) Len() int {
	return len(r.values)
}

// ByteLength returns the encoded size of the record.
func (r *Record) ByteLength() int {
	return len(r.values) * ScalarSize
}

// Values returns a copy of the record contents.
func (r *Record) Values() []Scalar {
	out := make([]Scalar, len(r.values))
	copy(out, r.values)
	return out
}

// At returns the scalar at index i.
func (r *Record) At(i int) Scalar {
	return r.values[i]
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	return &Record{values: r.Values()}
}

// WriteTo writes every value in append order. The record is left intact and
// may be written again.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	enc := NewEncoder(w)
	err := r.encode(enc)
	return enc.Written(), err
}

func (r *Record) encode(enc *Encoder) error {
	for _, v := range r.values {
		if err := enc.WriteScalar(v); err != nil {
			return err
		}
	}
	return nil
}
