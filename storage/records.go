package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/cipherstake/cipherstake/crypto/elgamal"
	"github.com/cipherstake/cipherstake/types"
)

// AppendStake stores a new stake record, assigning it the next stake index.
// The counter bump and the record write commit atomically.
func (s *Storage) AppendStake(owner types.HexBytes, amount *elgamal.Ciphertext) (uint64, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	index, err := bumpCounter(wTx, CounterStake)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	rec := &StakeRecord{Index: index, Owner: owner, Amount: amount}
	data, err := encodeArtifact(rec)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, stakePrefix).Set(indexKey(index), data); err != nil {
		wTx.Discard()
		return 0, err
	}
	return index, wTx.Commit()
}

// Stake retrieves a stake record by index. Returns ErrNotFound if the index
// was never assigned.
func (s *Storage) Stake(index uint64) (*StakeRecord, error) {
	rec := &StakeRecord{}
	if err := s.getArtifact(stakePrefix, indexKey(index), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AppendDelegation stores a new delegation record and the updated aggregate
// weight of the delegatee in a single transaction, assigning the next
// delegation index. Either both land or neither does.
func (s *Storage) AppendDelegation(delegator, delegatee types.HexBytes,
	weight, aggregate *elgamal.Ciphertext,
) (uint64, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	index, err := bumpCounter(wTx, CounterDelegation)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	rec := &DelegationRecord{
		Index:     index,
		Delegator: delegator,
		Delegatee: delegatee,
		Weight:    weight,
		CreatedAt: time.Now().UTC(),
	}
	data, err := encodeArtifact(rec)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, delegPrefix).Set(indexKey(index), data); err != nil {
		wTx.Discard()
		return 0, err
	}
	aggData, err := encodeArtifact(aggregate)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, weightPrefix).Set(delegatee, aggData); err != nil {
		wTx.Discard()
		return 0, err
	}
	return index, wTx.Commit()
}

// Delegation retrieves a delegation record by index.
func (s *Storage) Delegation(index uint64) (*DelegationRecord, error) {
	rec := &DelegationRecord{}
	if err := s.getArtifact(delegPrefix, indexKey(index), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AppendVote stores a new vote record and its entry in the proposal vote
// index, assigning the next vote index. The caller is responsible for
// having validated the proposal reference.
func (s *Storage) AppendVote(voter types.HexBytes, proposalID uint64, choice *elgamal.Ciphertext) (uint64, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	index, err := bumpCounter(wTx, CounterVote)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	rec := &VoteRecord{
		Index:      index,
		Voter:      voter,
		ProposalID: proposalID,
		Choice:     choice,
		CreatedAt:  time.Now().UTC(),
	}
	data, err := encodeArtifact(rec)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, votePrefix).Set(indexKey(index), data); err != nil {
		wTx.Discard()
		return 0, err
	}
	// secondary index: proposalID | voteIndex, both big-endian so that
	// iteration yields submission order
	idxKey := append(indexKey(proposalID), indexKey(index)...)
	if err := prefixeddb.NewPrefixedWriteTx(wTx, voteIndexPrefix).Set(idxKey, []byte{}); err != nil {
		wTx.Discard()
		return 0, err
	}
	return index, wTx.Commit()
}

// Vote retrieves a vote record by index.
func (s *Storage) Vote(index uint64) (*VoteRecord, error) {
	rec := &VoteRecord{}
	if err := s.getArtifact(votePrefix, indexKey(index), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// VotesByProposal returns the indices of every vote submitted on the given
// proposal, in submission order, read from the secondary index.
func (s *Storage) VotesByProposal(proposalID uint64) ([]uint64, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, voteIndexPrefix)
	var indices []uint64
	if err := rd.Iterate(indexKey(proposalID), func(k, _ []byte) bool {
		if len(k) == 8 {
			indices = append(indices, binary.BigEndian.Uint64(k))
		}
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate vote index: %w", err)
	}
	return indices, nil
}

// AppendProposal stores a new proposal, assigning it the next proposal id.
// Active starts true and is never transitioned here.
func (s *Storage) AppendProposal(metadata types.HexBytes) (uint64, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	id, err := bumpCounter(wTx, CounterProposal)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	prop := &Proposal{
		ID:        id,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}
	data, err := encodeArtifact(prop)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, proposalPrefix).Set(indexKey(id), data); err != nil {
		wTx.Discard()
		return 0, err
	}
	return id, wTx.Commit()
}

// Proposal retrieves a proposal by id.
func (s *Storage) Proposal(id uint64) (*Proposal, error) {
	prop := &Proposal{}
	if err := s.getArtifact(proposalPrefix, indexKey(id), prop); err != nil {
		return nil, err
	}
	return prop, nil
}
