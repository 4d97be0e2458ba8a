// Package elgamal implements the additively homomorphic encryption used by
// the ledger: exponential EC-ElGamal over BN254 G1. Messages are encoded as
// m*G, so ciphertexts add point-wise and decryption ends with a bounded
// discrete logarithm search.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/cipherstake/cipherstake/crypto/ecc"
)

// GenerateKey generates a new ElGamal key pair on the curve of the given
// point.
func GenerateKey(curve ecc.Point) (publicKey ecc.Point, privateKey *big.Int, err error) {
	order := curve.Order()
	d, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, nil, fmt.Errorf("generate private scalar: %w", err)
	}
	if d.Sign() == 0 {
		d = big.NewInt(1)
	}
	publicKey = curve.New()
	publicKey.ScalarBaseMult(d)
	return publicKey, d, nil
}

// RandK returns a fresh encryption randomness in [1, order).
func RandK(order *big.Int) (*big.Int, error) {
	k, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, fmt.Errorf("generate random k: %w", err)
	}
	if k.Sign() == 0 {
		k = big.NewInt(1)
	}
	return k, nil
}

// encryptWithK computes (C1, C2) = (k*G, m*G + k*pubKey).
func encryptWithK(pubKey ecc.Point, msg, k *big.Int) (ecc.Point, ecc.Point) {
	c1 := pubKey.New()
	c1.ScalarBaseMult(k)
	s := pubKey.New()
	s.ScalarMult(pubKey, k)
	m := pubKey.New()
	m.ScalarBaseMult(msg)
	c2 := pubKey.New()
	c2.Add(m, s)
	return c1, c2
}

// decryptPoint removes the shared secret from the ciphertext, returning the
// message point M = C2 - d*C1.
func decryptPoint(privateKey *big.Int, c1, c2 ecc.Point) ecc.Point {
	s := c1.New()
	s.ScalarMult(c1, privateKey)
	s.Neg(s)
	m := c2.New()
	m.Set(c2)
	m.Add(m, s)
	return m
}

// BabyStepGiantStep solves M = x*G for x in [0, maxMessage] using the
// baby-step giant-step algorithm. It returns an error if no solution exists
// within the bound.
func BabyStepGiantStep(M, G ecc.Point, maxMessage uint64) (*big.Int, error) {
	mSqrt := uint64(math.Sqrt(float64(maxMessage))) + 1

	babySteps := make(map[string]uint64, mSqrt)
	babyStep := M.New()
	babyStep.SetZero()
	for j := uint64(0); j < mSqrt; j++ {
		babySteps[string(babyStep.Marshal())] = j
		babyStep.Add(babyStep, G)
	}

	// giant step: -mSqrt*G
	giantStride := G.New()
	giantStride.ScalarMult(G, new(big.Int).SetUint64(mSqrt))
	giantStride.Neg(giantStride)

	current := M.New()
	current.Set(M)
	for i := uint64(0); i <= mSqrt; i++ {
		if j, ok := babySteps[string(current.Marshal())]; ok {
			x := i*mSqrt + j
			if x > maxMessage {
				break
			}
			return new(big.Int).SetUint64(x), nil
		}
		current.Add(current, giantStride)
	}
	return nil, fmt.Errorf("no discrete log solution within bound %d", maxMessage)
}

// Decrypt recovers the plaintext of ct with the private key. The search for
// the discrete logarithm is bounded by maxMessage; decryption of a value
// above the bound fails.
func Decrypt(privateKey *big.Int, ct *Ciphertext, maxMessage uint64) (*big.Int, error) {
	if ct == nil || ct.C1 == nil || ct.C2 == nil {
		return nil, fmt.Errorf("nil ciphertext")
	}
	m := decryptPoint(privateKey, ct.C1, ct.C2)
	g := ct.C1.New()
	g.SetGenerator()
	msg, err := BabyStepGiantStep(m, g, maxMessage)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return msg, nil
}
