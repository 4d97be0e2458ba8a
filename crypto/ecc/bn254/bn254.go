// Package bn254 wraps the gnark-crypto BN254 G1 group as a curve.Point.
// It is the only curve the ledger uses: ciphertexts, aggregates and
// decryption proofs all live on this group.
package bn254

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"

	curve "github.com/cipherstake/cipherstake/crypto/ecc"
)

var generator bn254.G1Jac

func init() {
	generator.X.SetOne()
	generator.Y.SetUint64(2)
	generator.Z.SetOne()
}

// G1 is the affine representation of a BN254 G1 group element.
type G1 struct {
	inner *bn254.G1Affine
	lock  sync.Mutex
}

// New returns a G1 element set to the identity.
func New() *G1 {
	return &G1{inner: new(bn254.G1Affine)}
}

func (g *G1) New() curve.Point {
	return New()
}

func (g *G1) Order() *big.Int {
	return fr.Modulus()
}

func (g *G1) Add(a, b curve.Point) {
	sum := new(bn254.G1Affine)
	sum.Add(a.(*G1).inner, b.(*G1).inner)
	*g.inner = *sum
}

func (g *G1) SafeAdd(a, b curve.Point) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.inner.Add(a.(*G1).inner, b.(*G1).inner)
}

func (g *G1) ScalarMult(a curve.Point, scalar *big.Int) {
	res := new(bn254.G1Affine)
	res.ScalarMultiplication(a.(*G1).inner, scalar)
	*g.inner = *res
}

func (g *G1) ScalarBaseMult(scalar *big.Int) {
	g.inner.ScalarMultiplicationBase(scalar)
}

func (g *G1) Equal(a curve.Point) bool {
	return g.inner.Equal(a.(*G1).inner)
}

func (g *G1) Neg(a curve.Point) {
	g.inner.Neg(a.(*G1).inner)
}

func (g *G1) SetZero() {
	g.inner.X.SetZero()
	g.inner.Y.SetZero()
}

func (g *G1) Set(a curve.Point) {
	g.inner.X.Set(&a.(*G1).inner.X)
	g.inner.Y.Set(&a.(*G1).inner.Y)
}

func (g *G1) SetGenerator() {
	g.inner.FromJacobian(&generator)
}

// Marshal returns the canonical uncompressed encoding of the element.
func (g *G1) Marshal() []byte {
	return g.inner.Marshal()
}

// Unmarshal sets the element from its canonical encoding.
func (g *G1) Unmarshal(buf []byte) error {
	if g.inner == nil {
		g.inner = new(bn254.G1Affine)
	}
	_, err := g.inner.SetBytes(buf)
	return err
}

func (g *G1) Point() (*big.Int, *big.Int) {
	return g.inner.X.BigInt(new(big.Int)), g.inner.Y.BigInt(new(big.Int))
}

func (g *G1) SetPoint(x, y *big.Int) curve.Point {
	p := &G1{inner: new(bn254.G1Affine)}
	p.inner.X.SetBigInt(x)
	p.inner.Y.SetBigInt(y)
	return p
}

func (g *G1) String() string {
	x, y := g.Point()
	return fmt.Sprintf("(%s,%s)", x.String(), y.String())
}

func (g *G1) MarshalJSON() ([]byte, error) {
	x, y := g.Point()
	return json.Marshal([]string{x.String(), y.String()})
}

func (g *G1) UnmarshalJSON(buf []byte) error {
	if g.inner == nil {
		g.inner = new(bn254.G1Affine)
	}
	var coords []string
	if err := json.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	x, ok := new(big.Int).SetString(coords[0], 10)
	if !ok {
		return fmt.Errorf("invalid x coordinate %q", coords[0])
	}
	y, ok := new(big.Int).SetString(coords[1], 10)
	if !ok {
		return fmt.Errorf("invalid y coordinate %q", coords[1])
	}
	g.inner.X.SetBigInt(x)
	g.inner.Y.SetBigInt(y)
	return nil
}

func (g *G1) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(g.Marshal())
}

func (g *G1) UnmarshalCBOR(buf []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(buf, &raw); err != nil {
		return err
	}
	return g.Unmarshal(raw)
}
