package elgamal

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/cipherstake/cipherstake/crypto/ecc"
)

// DecryptionProof is a Chaum-Pedersen proof that a cleartext was obtained by
// decrypting a ciphertext with the private key matching a known public key.
// It proves log_G(P) == log_C1(S) for the decryption share S = d*C1, made
// non-interactive with a Fiat-Shamir challenge. Anyone holding the public
// key and the original ciphertext can verify it; nobody can forge it for a
// cleartext the ciphertext does not contain.
type DecryptionProof struct {
	S  ecc.Point `json:"s"`  // decryption share d*C1
	A1 ecc.Point `json:"a1"` // commitment r*G
	A2 ecc.Point `json:"a2"` // commitment r*C1
	Z  *big.Int  `json:"z"`  // response r + e*d mod order
}

// challenge computes the Fiat-Shamir challenge scalar binding the public
// key, the ciphertext and the prover's commitments.
func challenge(publicKey ecc.Point, ct *Ciphertext, s, a1, a2 ecc.Point) *big.Int {
	h := ethcrypto.Keccak256(
		publicKey.Marshal(),
		ct.C1.Marshal(),
		ct.C2.Marshal(),
		s.Marshal(),
		a1.Marshal(),
		a2.Marshal(),
	)
	e := new(big.Int).SetBytes(h)
	return e.Mod(e, publicKey.Order())
}

// ProveDecryption decrypts ct with privateKey and produces the cleartext
// together with a proof of correct decryption. The discrete logarithm
// search is bounded by maxMessage.
func ProveDecryption(privateKey *big.Int, publicKey ecc.Point, ct *Ciphertext, maxMessage uint64) (*big.Int, *DecryptionProof, error) {
	order := publicKey.Order()

	// decryption share and message point
	s := ct.C1.New()
	s.ScalarMult(ct.C1, privateKey)
	m := decryptPoint(privateKey, ct.C1, ct.C2)

	g := ct.C1.New()
	g.SetGenerator()
	message, err := BabyStepGiantStep(m, g, maxMessage)
	if err != nil {
		return nil, nil, fmt.Errorf("prove decryption: %w", err)
	}

	// commitments
	r, err := RandK(order)
	if err != nil {
		return nil, nil, fmt.Errorf("prove decryption: %w", err)
	}
	a1 := ct.C1.New()
	a1.ScalarBaseMult(r)
	a2 := ct.C1.New()
	a2.ScalarMult(ct.C1, r)

	e := challenge(publicKey, ct, s, a1, a2)
	z := new(big.Int).Mul(e, privateKey)
	z.Add(z, r)
	z.Mod(z, order)

	return message, &DecryptionProof{S: s, A1: a1, A2: a2, Z: z}, nil
}

// VerifyDecryption checks that proof authenticates message as the
// decryption of ct under publicKey. It returns false on any mismatch; a
// false result means the cleartext must not be trusted.
func VerifyDecryption(publicKey ecc.Point, ct *Ciphertext, message *big.Int, proof *DecryptionProof) bool {
	if ct == nil || proof == nil || proof.S == nil || proof.A1 == nil || proof.A2 == nil || proof.Z == nil {
		return false
	}
	e := challenge(publicKey, ct, proof.S, proof.A1, proof.A2)

	// z*G == A1 + e*P
	left := publicKey.New()
	left.ScalarBaseMult(proof.Z)
	right := publicKey.New()
	right.ScalarMult(publicKey, e)
	right.Add(proof.A1, right)
	if !left.Equal(right) {
		return false
	}

	// z*C1 == A2 + e*S
	left.ScalarMult(ct.C1, proof.Z)
	right.ScalarMult(proof.S, e)
	right.Add(proof.A2, right)
	if !left.Equal(right) {
		return false
	}

	// C2 - S == message*G
	negS := proof.S.New()
	negS.Neg(proof.S)
	mPoint := ct.C2.New()
	mPoint.Add(ct.C2, negS)
	expected := ct.C2.New()
	expected.ScalarBaseMult(message)
	return mPoint.Equal(expected)
}
