// Package oracle defines the boundary to the external decryption authority
// and provides an in-process implementation holding the ElGamal private
// key. The ledger never sees the key: it submits ciphertext handles and
// receives cleartexts with correctness proofs through an asynchronous
// callback, which it must verify before trusting.
package oracle

import (
	"math/big"

	"github.com/cipherstake/cipherstake/crypto/elgamal"
)

// Callback receives the result of a decryption request: the cleartexts in
// batch order and one correctness proof per element. The returned error is
// only advisory to the oracle; the receiver owns the decision to reject.
type Callback func(requestID string, cleartexts []*big.Int, proofs []*elgamal.DecryptionProof) error

// Oracle is the decryption authority boundary. SubmitBatch accepts a batch
// of serialized ciphertext handles and returns a globally unique, never
// reused request id. The result is delivered asynchronously through the
// callback: possibly late, possibly never, in no guaranteed order relative
// to other requests.
type Oracle interface {
	SubmitBatch(handles [][]byte, callback Callback) (requestID string, err error)
}
