package oracle

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/crypto/ecc"
	"github.com/cipherstake/cipherstake/crypto/ecc/bn254"
	"github.com/cipherstake/cipherstake/crypto/elgamal"
)

// KeyHolder is an in-process Oracle implementation owning an ElGamal key
// pair. Callers encrypt against its public key; decryption requests are
// served on a background goroutine, each cleartext accompanied by a
// Chaum-Pedersen proof of correct decryption.
type KeyHolder struct {
	pub        ecc.Point
	priv       *big.Int
	maxMessage uint64
	wg         sync.WaitGroup
}

// NewKeyHolder generates a fresh key pair. maxMessage bounds the discrete
// logarithm search during decryption; values above it fail to decrypt.
func NewKeyHolder(maxMessage uint64) (*KeyHolder, error) {
	pub, priv, err := elgamal.GenerateKey(bn254.New())
	if err != nil {
		return nil, fmt.Errorf("keyholder: %w", err)
	}
	return &KeyHolder{pub: pub, priv: priv, maxMessage: maxMessage}, nil
}

// PublicKey returns the encryption public key.
func (h *KeyHolder) PublicKey() ecc.Point {
	return h.pub
}

// SubmitBatch parses the handles, assigns a unique request id and schedules
// the decryption. Malformed handles fail synchronously; everything after
// the id is returned happens on the oracle's own goroutine.
func (h *KeyHolder) SubmitBatch(handles [][]byte, callback Callback) (string, error) {
	if len(handles) == 0 {
		return "", fmt.Errorf("empty batch")
	}
	batch := make([]*elgamal.Ciphertext, len(handles))
	for i, handle := range handles {
		ct, err := elgamal.DeserializeCiphertext(handle)
		if err != nil {
			return "", fmt.Errorf("handle %d: %w", i, err)
		}
		batch[i] = ct
	}
	requestID := uuid.NewString()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.serve(requestID, batch, callback)
	}()
	return requestID, nil
}

func (h *KeyHolder) serve(requestID string, batch []*elgamal.Ciphertext, callback Callback) {
	cleartexts := make([]*big.Int, len(batch))
	proofs := make([]*elgamal.DecryptionProof, len(batch))
	for i, ct := range batch {
		msg, proof, err := elgamal.ProveDecryption(h.priv, h.pub, ct, h.maxMessage)
		if err != nil {
			log.Warnw("oracle could not decrypt batch element",
				"requestId", requestID, "element", i, "error", err.Error())
			return
		}
		cleartexts[i] = msg
		proofs[i] = proof
	}
	if err := callback(requestID, cleartexts, proofs); err != nil {
		log.Warnw("decryption callback rejected",
			"requestId", requestID, "error", err.Error())
	}
}

// Wait blocks until every scheduled decryption has been delivered. Used by
// tests to join the asynchronous boundary.
func (h *KeyHolder) Wait() {
	h.wg.Wait()
}
