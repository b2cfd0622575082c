package osl

import (
	"fmt"
	"math"
)

// ScalarSize is the encoded width of every scalar in the format.
const ScalarSize = 4

// Kind identifies the numeric type stored in a Scalar.
type Kind uint8

// Scalar kinds.
const (
	KindFloat32 Kind = iota
	KindInt32
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat32:
		return "float32"
	case KindInt32:
		return "int32"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Scalar is a single typed value: either a float32 or an int32.
type Scalar struct {
	kind Kind
	bits uint32
}

// Float returns a float32 scalar.
func Float(v float32) Scalar {
	return Scalar{kind: KindFloat32, bits: math.Float32bits(v)}
}

// Int returns an int32 scalar.
func Int(v int32) Scalar {
	return Scalar{kind: KindInt32, bits: uint32(v)}
}

// Kind returns the stored numeric type.
func (s Scalar) Kind() Kind {
	return s.kind
}

// Float32 returns the value as a float32.
// Int32 scalars are converted numerically.
func (s Scalar) Float32() float32 {
	if s.kind == KindInt32 {
		return float32(int32(s.bits))
	}
	return math.Float32frombits(s.bits)
}

// Int32 returns the value as an int32.
// Float32 scalars are truncated toward zero.
func (s Scalar) Int32() int32 {
	if s.kind == KindFloat32 {
		return int32(math.Float32frombits(s.bits))
	}
	return int32(s.bits)
}

// Bits returns the raw 32-bit pattern that is written to the sink.
func (s Scalar) Bits() uint32 {
	return s.bits
}

// Size returns the encoded width in bytes.
func (s Scalar) Size() int {
	return ScalarSize
}

// String formats the scalar for debugging.
func (s Scalar) String() string {
	if s.kind == KindInt32 {
		return fmt.Sprintf("i32(%d)", int32(s.bits))
	}
	return fmt.Sprintf("f32(%g)", math.Float32frombits(s.bits))
}
