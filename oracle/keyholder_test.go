package oracle

import (
	"math/big"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/cipherstake/cipherstake/crypto/elgamal"
)

func TestKeyHolderServesBatch(t *testing.T) {
	c := qt.New(t)
	kh, err := NewKeyHolder(1 << 20)
	c.Assert(err, qt.IsNil)

	values := []int64{7, 0, 123456}
	handles := make([][]byte, len(values))
	cts := make([]*elgamal.Ciphertext, len(values))
	for i, v := range values {
		ct, err := elgamal.Encrypt(big.NewInt(v), kh.PublicKey(), elgamal.Width32, nil)
		c.Assert(err, qt.IsNil)
		cts[i] = ct
		handles[i] = ct.Serialize()
	}

	var mu sync.Mutex
	var gotID string
	var gotCleartexts []*big.Int
	var gotProofs []*elgamal.DecryptionProof
	requestID, err := kh.SubmitBatch(handles, func(id string, cleartexts []*big.Int, proofs []*elgamal.DecryptionProof) error {
		mu.Lock()
		defer mu.Unlock()
		gotID, gotCleartexts, gotProofs = id, cleartexts, proofs
		return nil
	})
	c.Assert(err, qt.IsNil)
	kh.Wait()

	mu.Lock()
	defer mu.Unlock()
	c.Assert(gotID, qt.Equals, requestID)
	c.Assert(gotCleartexts, qt.HasLen, len(values))
	for i, v := range values {
		c.Assert(gotCleartexts[i].Int64(), qt.Equals, v)
		c.Assert(elgamal.VerifyDecryption(kh.PublicKey(), cts[i], gotCleartexts[i], gotProofs[i]), qt.IsTrue)
	}
}

func TestKeyHolderUniqueRequestIDs(t *testing.T) {
	c := qt.New(t)
	kh, err := NewKeyHolder(1 << 10)
	c.Assert(err, qt.IsNil)

	ct, err := elgamal.Encrypt(big.NewInt(1), kh.PublicKey(), elgamal.Width32, nil)
	c.Assert(err, qt.IsNil)
	handle := ct.Serialize()

	noop := func(string, []*big.Int, []*elgamal.DecryptionProof) error { return nil }
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id, err := kh.SubmitBatch([][]byte{handle}, noop)
		c.Assert(err, qt.IsNil)
		c.Assert(seen[id], qt.IsFalse)
		seen[id] = true
	}
	kh.Wait()
}

func TestKeyHolderRejectsMalformedHandles(t *testing.T) {
	c := qt.New(t)
	kh, err := NewKeyHolder(1 << 10)
	c.Assert(err, qt.IsNil)

	noop := func(string, []*big.Int, []*elgamal.DecryptionProof) error { return nil }
	_, err = kh.SubmitBatch(nil, noop)
	c.Assert(err, qt.IsNotNil)
	_, err = kh.SubmitBatch([][]byte{{0x01, 0x02}}, noop)
	c.Assert(err, qt.IsNotNil)
}
