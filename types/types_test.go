package types

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
)

func TestHexBytesJSON(t *testing.T) {
	c := qt.New(t)

	b := HexStringToHexBytes("0xdeadbeef")
	data, err := json.Marshal(b)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"deadbeef"`)

	var back HexBytes
	c.Assert(json.Unmarshal(data, &back), qt.IsNil)
	c.Assert(back.Equal(b), qt.IsTrue)

	// the 0x prefix is accepted on input
	c.Assert(json.Unmarshal([]byte(`"0xDEADBEEF"`), &back), qt.IsNil)
	c.Assert(back.Equal(b), qt.IsTrue)

	c.Assert(json.Unmarshal([]byte(`"zz"`), &back), qt.IsNotNil)
	c.Assert(json.Unmarshal([]byte(`42`), &back), qt.IsNotNil)
}

func TestBigIntJSON(t *testing.T) {
	c := qt.New(t)

	v := new(BigInt).SetUint64(18446744073709551615)
	data, err := json.Marshal(v)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"18446744073709551615"`)

	var back BigInt
	c.Assert(json.Unmarshal(data, &back), qt.IsNil)
	c.Assert(back.MathBigInt().Cmp(v.MathBigInt()), qt.Equals, 0)

	c.Assert(json.Unmarshal([]byte(`"not a number"`), &back), qt.IsNotNil)
}

func TestBigIntCBOR(t *testing.T) {
	c := qt.New(t)

	v := new(BigInt).SetUint64(987654321)
	data, err := cbor.Marshal(v)
	c.Assert(err, qt.IsNil)

	var back BigInt
	c.Assert(cbor.Unmarshal(data, &back), qt.IsNil)
	c.Assert(back.MathBigInt().Cmp(v.MathBigInt()), qt.Equals, 0)
}
