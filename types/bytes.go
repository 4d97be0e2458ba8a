package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// HexBytes is a []byte which encodes as hexadecimal in JSON. It is used for
// the opaque identifier handles and ciphertext payloads that travel through
// the API: the ledger never interprets their contents.
type HexBytes []byte

// String returns the hexadecimal string representation of the bytes.
func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

// Equal reports whether b and other contain the same bytes.
func (b HexBytes) Equal(other HexBytes) bool {
	return bytes.Equal(b, other)
}

// MarshalJSON encodes the bytes as a quoted hexadecimal string.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	enc := make([]byte, hex.EncodedLen(len(b))+2)
	enc[0] = '"'
	hex.Encode(enc[1:], b)
	enc[len(enc)-1] = '"'
	return enc, nil
}

// UnmarshalJSON decodes a quoted hexadecimal string, with or without the
// leading "0x" prefix.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	data = data[1 : len(data)-1]
	if len(data) >= 2 && data[0] == '0' && (data[1] == 'x' || data[1] == 'X') {
		data = data[2:]
	}
	decoded := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(decoded, data); err != nil {
		return err
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes converts a hex string to HexBytes. It strips a leading
// "0x" or "0X" if present. It panics if the string is not valid hexadecimal,
// so it should only be used with hardcoded values.
func HexStringToHexBytes(s string) HexBytes {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("invalid hex string %q: %v", s, err))
	}
	return b
}
