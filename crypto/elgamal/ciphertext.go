package elgamal

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/arbo"

	"github.com/cipherstake/cipherstake/crypto/ecc"
	"github.com/cipherstake/cipherstake/crypto/ecc/bn254"
)

// Supported message-space widths in bits. The width is a declared bound on
// the encrypted value, carried with the ciphertext so that narrow values can
// be promoted before entering a wide accumulator. Promotion changes only the
// tag; the group elements are untouched, so the encrypted value is preserved
// and nothing leaks.
const (
	Width32 = 32
	Width64 = 64
)

// sizes in bytes of the serialized form: one width byte plus the four
// affine coordinates C1.X, C1.Y, C2.X, C2.Y.
const (
	sizeCoord      = 32
	SizeCiphertext = 1 + 4*sizeCoord
)

// ErrEmptyInput is returned by Sum when given no ciphertexts.
var ErrEmptyInput = errors.New("empty ciphertext input")

// Ciphertext is a width-tagged ElGamal ciphertext with homomorphic
// addition. The zero value is not usable; construct with Zero, Encrypt or
// DeserializeCiphertext.
type Ciphertext struct {
	C1    ecc.Point `json:"c1"`
	C2    ecc.Point `json:"c2"`
	Width uint8     `json:"width"`
}

// Zero returns the canonical encryption of zero at the given width: both
// group elements are the identity, which any private key decrypts to 0.
func Zero(width uint8) *Ciphertext {
	z := &Ciphertext{C1: bn254.New(), C2: bn254.New(), Width: width}
	z.C1.SetZero()
	z.C2.SetZero()
	return z
}

// Encrypt encrypts message under publicKey at the given width. The message
// must lie in [0, 2^width). The randomness k can be provided, or nil to
// generate a fresh one.
func Encrypt(message *big.Int, publicKey ecc.Point, width uint8, k *big.Int) (*Ciphertext, error) {
	if message.Sign() < 0 || message.BitLen() > int(width) {
		return nil, fmt.Errorf("message out of range for width %d", width)
	}
	var err error
	if k == nil {
		k, err = RandK(publicKey.Order())
		if err != nil {
			return nil, fmt.Errorf("elgamal encryption failed: %w", err)
		}
	}
	c1, c2 := encryptWithK(publicKey, message, k)
	return &Ciphertext{C1: c1, C2: c2, Width: width}, nil
}

// Add returns the homomorphic sum of x and y, which must share a width.
func Add(x, y *Ciphertext) (*Ciphertext, error) {
	if x.Width != y.Width {
		return nil, fmt.Errorf("width mismatch: %d != %d", x.Width, y.Width)
	}
	z := Zero(x.Width)
	z.C1.SafeAdd(x.C1, y.C1)
	z.C2.SafeAdd(x.C2, y.C2)
	return z, nil
}

// Sum folds a non-empty ordered sequence of ciphertexts into their
// homomorphic sum. All elements must share a width. It fails with
// ErrEmptyInput on an empty sequence.
func Sum(cts []*Ciphertext) (*Ciphertext, error) {
	if len(cts) == 0 {
		return nil, ErrEmptyInput
	}
	acc := Zero(cts[0].Width)
	for _, ct := range cts {
		var err error
		acc, err = Add(acc, ct)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Promote widens the declared message space of the ciphertext from its
// current width to the given one. Narrowing is not allowed.
func (z *Ciphertext) Promote(to uint8) (*Ciphertext, error) {
	if to < z.Width {
		return nil, fmt.Errorf("cannot narrow ciphertext from %d to %d bits", z.Width, to)
	}
	c := Zero(to)
	c.C1.Set(z.C1)
	c.C2.Set(z.C2)
	return c, nil
}

// Serialize returns the handle form of the ciphertext: the width byte
// followed by the four affine coordinates as 32-byte little-endian values.
func (z *Ciphertext) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteByte(z.Width)
	c1x, c1y := z.C1.Point()
	c2x, c2y := z.C2.Point()
	for _, coord := range []*big.Int{c1x, c1y, c2x, c2y} {
		buf.Write(arbo.BigIntToBytes(sizeCoord, coord))
	}
	return buf.Bytes()
}

// Deserialize reconstructs a ciphertext from its handle form.
func (z *Ciphertext) Deserialize(data []byte) error {
	if len(data) != SizeCiphertext {
		return fmt.Errorf("invalid input length: got %d bytes, expected %d", len(data), SizeCiphertext)
	}
	z.Width = data[0]
	coords := data[1:]
	readCoord := func(i int) *big.Int {
		return arbo.BytesToBigInt(coords[i*sizeCoord : (i+1)*sizeCoord])
	}
	base := bn254.New()
	z.C1 = base.SetPoint(readCoord(0), readCoord(1))
	z.C2 = base.SetPoint(readCoord(2), readCoord(3))
	return nil
}

// DeserializeCiphertext is a convenience wrapper around Deserialize.
func DeserializeCiphertext(data []byte) (*Ciphertext, error) {
	z := &Ciphertext{}
	if err := z.Deserialize(data); err != nil {
		return nil, err
	}
	return z, nil
}

// Equal reports whether both ciphertexts hold the same group elements and
// width.
func (z *Ciphertext) Equal(other *Ciphertext) bool {
	if z == nil || other == nil {
		return z == other
	}
	return z.Width == other.Width && z.C1.Equal(other.C1) && z.C2.Equal(other.C2)
}

// String returns a short representation for logs.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{nil}"
	}
	return fmt.Sprintf("{w%d %s %s}", z.Width, z.C1.String(), z.C2.String())
}

// MarshalCBOR implements cbor.Marshaler using the handle form.
func (z *Ciphertext) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(z.Serialize())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (z *Ciphertext) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	return z.Deserialize(raw)
}
