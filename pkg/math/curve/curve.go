package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve is a prime order group together with its scalar field.
type Curve interface {
	NewPoint() Point
	NewBasePoint() Point
	NewScalar() Scalar
	Name() string
	// ScalarBits is the bit length of the group order.
	ScalarBits() int
	// SafeScalarBytes is the number of random bytes to read in order to sample
	// a scalar with negligible bias.
	SafeScalarBytes() int
	Order() *saferith.Modulus
}

// Scalar is an element of the field ℤ_q, where q is the order of the group.
//
// Arithmetic methods modify the receiver and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Negate() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	// SetNat sets the receiver to x (mod q).
	SetNat(x *saferith.Nat) Scalar
	// Act returns s⋅P.
	Act(Point) Point
	// ActOnBase returns s⋅G.
	ActOnBase() Point
}

// Point is an element of the group.
//
// Unlike Scalar, the group operations return a new Point.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Set(Point) Point
	Negate() Point
	Equal(Point) bool
	IsIdentity() bool
}

// MakeInt converts a scalar into its canonical integer representative in [0, q).
func MakeInt(s Scalar) *saferith.Int {
	bytes, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return new(saferith.Int).SetBytes(bytes)
}

// MakeNat is like MakeInt, but returns a natural number.
func MakeNat(s Scalar) *saferith.Nat {
	bytes, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return new(saferith.Nat).SetBytes(bytes)
}
