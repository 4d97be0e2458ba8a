package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals JSON as a decimal string and
// CBOR as a big-endian byte slice.
type BigInt big.Int

// MathBigInt converts b to a *big.Int.
func (b *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(b)
}

// SetUint64 sets b to x and returns b.
func (b *BigInt) SetUint64(x uint64) *BigInt {
	return (*BigInt)(b.MathBigInt().SetUint64(x))
}

// String returns the decimal representation of b.
func (b *BigInt) String() string {
	return b.MathBigInt().String()
}

// MarshalJSON implements json.Marshaler.
func (b *BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts both quoted and
// unquoted decimal numbers.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	if _, ok := b.MathBigInt().SetString(string(data), 10); !ok {
		return fmt.Errorf("invalid decimal number: %q", data)
	}
	return nil
}

// MarshalCBOR implements cbor.Marshaler.
func (b *BigInt) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(b.MathBigInt().Bytes())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (b *BigInt) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return err
	}
	b.MathBigInt().SetBytes(buf)
	return nil
}
