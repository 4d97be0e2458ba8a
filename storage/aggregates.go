package storage

import (
	"github.com/cipherstake/cipherstake/crypto/elgamal"
	"github.com/cipherstake/cipherstake/types"
)

// AggregateWeight returns the running encrypted weight aggregate of the
// given delegatee. Returns ErrNotFound if the delegatee has never been
// delegated to (which is distinct from holding an encrypted zero).
func (s *Storage) AggregateWeight(delegatee types.HexBytes) (*elgamal.Ciphertext, error) {
	ct := &elgamal.Ciphertext{}
	if err := s.getArtifact(weightPrefix, delegatee, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// SetAggregateWeight stores the aggregate weight of a delegatee. Normal
// accumulation goes through AppendDelegation; this standalone setter exists
// for administrative repair and tests.
func (s *Storage) SetAggregateWeight(delegatee types.HexBytes, ct *elgamal.Ciphertext) error {
	return s.setArtifact(weightPrefix, delegatee, ct)
}

// DeleteAggregateWeight removes the aggregate of a delegatee, returning it
// to the uninitialized state. Deleting a missing aggregate is a no-op.
func (s *Storage) DeleteAggregateWeight(delegatee types.HexBytes) error {
	return s.deleteArtifact(weightPrefix, delegatee)
}
