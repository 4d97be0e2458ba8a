package ecc

import "math/big"

// Point is the set of group operations the homomorphic layer needs from an
// elliptic curve element. Implementations hold affine coordinates and
// mutate the receiver, following the math/big convention.
type Point interface {
	// New returns a fresh zero element of the same curve.
	New() Point

	// Order returns the order of the group.
	Order() *big.Int

	// Add sets the receiver to a+b.
	Add(a, b Point)

	// SafeAdd is Add with exclusive access to the receiver, safe for use
	// on elements shared between goroutines.
	SafeAdd(a, b Point)

	// ScalarMult sets the receiver to scalar*a.
	ScalarMult(a Point, scalar *big.Int)

	// ScalarBaseMult sets the receiver to scalar*G, with G the generator.
	ScalarBaseMult(scalar *big.Int)

	// Equal reports whether the receiver and a are the same element.
	Equal(a Point) bool

	// Neg sets the receiver to -a.
	Neg(a Point)

	// SetZero sets the receiver to the identity element.
	SetZero()

	// Set copies a into the receiver.
	Set(a Point)

	// SetGenerator sets the receiver to the group generator.
	SetGenerator()

	// Marshal serializes the element to its canonical byte form.
	Marshal() []byte

	// Unmarshal deserializes a canonical byte form into the receiver.
	Unmarshal(buf []byte) error

	// Point returns the affine coordinates of the element.
	Point() (x, y *big.Int)

	// SetPoint builds a new element from affine coordinates.
	SetPoint(x, y *big.Int) Point

	// String returns a short human-readable form, for logs.
	String() string
}
