// Package ledger implements the encrypted governance state machine: the
// append-only record store with its per-category counters, the homomorphic
// aggregation of delegated weight, and the decryption orchestrator. All
// sensitive quantities enter and leave as ciphertexts; only plaintext
// linkage fields (proposal references, identifier handles) are validated.
//
// Every exported operation executes atomically under a single mutex, so an
// embedding host observes the same linearized behavior as the sequential
// reference execution. The only asynchronous boundary is between issuing a
// decryption request and receiving its callback.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/crypto/ecc"
	"github.com/cipherstake/cipherstake/crypto/elgamal"
	"github.com/cipherstake/cipherstake/oracle"
	"github.com/cipherstake/cipherstake/storage"
	"github.com/cipherstake/cipherstake/types"
)

var (
	// ErrInvalidProposal is returned for a zero proposal reference.
	ErrInvalidProposal = errors.New("invalid proposal id")
	// ErrProposalNotFound is returned when the proposal reference exceeds
	// the proposal counter.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrNoWeight is returned when requesting decryption for a delegatee
	// that has never been delegated to.
	ErrNoWeight = errors.New("no aggregate weight for delegatee")
	// ErrNoVotes is returned when requesting decryption for a proposal
	// without votes.
	ErrNoVotes = errors.New("no votes for proposal")
	// ErrUnknownRequest is returned by the callback path for request ids
	// that were never issued or are already finalized.
	ErrUnknownRequest = errors.New("unknown decryption request")
	// ErrProofInvalid is returned when a callback proof does not
	// authenticate the cleartexts against the submitted batch. The
	// callback changes no state in that case.
	ErrProofInvalid = errors.New("invalid decryption proof")
)

// Ledger is the encrypted governance state machine.
type Ledger struct {
	stg  *storage.Storage
	orc  oracle.Oracle
	pub  ecc.Point
	mu   sync.Mutex
	feed event.Feed
}

// New creates a Ledger over the given storage and decryption oracle.
// publicKey is the encryption key ciphertexts are submitted under; the
// ledger uses it solely to verify decryption proofs.
func New(stg *storage.Storage, orc oracle.Oracle, publicKey ecc.Point) *Ledger {
	return &Ledger{stg: stg, orc: orc, pub: publicKey}
}

// checkWidth rejects ciphertexts whose declared width does not match the
// operation. The width tag is structural metadata; the encrypted contents
// are never inspected.
func checkWidth(ct *elgamal.Ciphertext, width uint8) error {
	if ct == nil || ct.C1 == nil || ct.C2 == nil {
		return fmt.Errorf("nil ciphertext")
	}
	if ct.Width != width {
		return fmt.Errorf("expected %d-bit ciphertext, got %d-bit", width, ct.Width)
	}
	return nil
}

// SubmitStake appends a stake record and returns its 1-based index.
func (l *Ledger) SubmitStake(owner types.HexBytes, amount *elgamal.Ciphertext) (uint64, error) {
	if err := checkWidth(amount, types.AmountWidth); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.stg.AppendStake(owner, amount)
	if err != nil {
		return 0, fmt.Errorf("submit stake: %w", err)
	}
	log.Debugw("stake submitted", "index", index, "owner", owner.String())
	l.feed.Send(Event{Type: EventStakeSubmitted, Index: index})
	return index, nil
}

// SubmitDelegation appends a delegation record and folds its weight into
// the delegatee's running aggregate. The aggregate is lazily initialized to
// an encrypted zero at the wide width on the first delegation; the incoming
// 32-bit weight is promoted before accumulation. Record and aggregate
// commit atomically.
func (l *Ledger) SubmitDelegation(delegator, delegatee types.HexBytes, weight *elgamal.Ciphertext) (uint64, error) {
	if err := checkWidth(weight, types.WeightWidth); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	aggregate, err := l.stg.AggregateWeight(delegatee)
	if errors.Is(err, storage.ErrNotFound) {
		aggregate = elgamal.Zero(types.AmountWidth)
	} else if err != nil {
		return 0, fmt.Errorf("load aggregate: %w", err)
	}
	promoted, err := weight.Promote(types.AmountWidth)
	if err != nil {
		return 0, fmt.Errorf("promote weight: %w", err)
	}
	aggregate, err = elgamal.Add(aggregate, promoted)
	if err != nil {
		return 0, fmt.Errorf("accumulate weight: %w", err)
	}

	index, err := l.stg.AppendDelegation(delegator, delegatee, weight, aggregate)
	if err != nil {
		return 0, fmt.Errorf("submit delegation: %w", err)
	}
	log.Debugw("delegation submitted", "index", index,
		"delegator", delegator.String(), "delegatee", delegatee.String())
	l.feed.Send(Event{Type: EventDelegationSubmitted, Index: index})
	return index, nil
}

// SubmitVote appends a vote record for an existing proposal. A zero
// proposal reference fails ErrInvalidProposal; a reference beyond the
// proposal counter fails ErrProposalNotFound. Neither failure changes
// state.
func (l *Ledger) SubmitVote(voter types.HexBytes, proposalID uint64, choice *elgamal.Ciphertext) (uint64, error) {
	if err := checkWidth(choice, types.WeightWidth); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkProposalRef(proposalID); err != nil {
		return 0, err
	}
	index, err := l.stg.AppendVote(voter, proposalID, choice)
	if err != nil {
		return 0, fmt.Errorf("submit vote: %w", err)
	}
	log.Debugw("vote submitted", "index", index, "proposalId", proposalID)
	l.feed.Send(Event{Type: EventVoteSubmitted, Index: index})
	return index, nil
}

// checkProposalRef validates a plaintext proposal reference against the
// proposal counter. Callers must hold l.mu.
func (l *Ledger) checkProposalRef(proposalID uint64) error {
	if proposalID == 0 {
		return ErrInvalidProposal
	}
	count, err := l.stg.Count(storage.CounterProposal)
	if err != nil {
		return fmt.Errorf("read proposal counter: %w", err)
	}
	if proposalID > count {
		return ErrProposalNotFound
	}
	return nil
}

// CreateProposal stores a new proposal with the opaque metadata blob and
// returns its 1-based id. The proposal starts active.
func (l *Ledger) CreateProposal(metadata types.HexBytes) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.stg.AppendProposal(metadata)
	if err != nil {
		return 0, fmt.Errorf("create proposal: %w", err)
	}
	log.Debugw("proposal created", "id", id)
	l.feed.Send(Event{Type: EventProposalCreated, Index: id})
	return id, nil
}

// ResetWeights deletes the aggregate of each named delegatee, returning it
// to the uninitialized state. Missing aggregates are skipped without error.
// The core performs no authorization; embedders must gate this behind an
// access-control policy.
func (l *Ledger) ResetWeights(delegatees ...types.HexBytes) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, delegatee := range delegatees {
		if err := l.stg.DeleteAggregateWeight(delegatee); err != nil {
			return fmt.Errorf("reset weight of %s: %w", delegatee.String(), err)
		}
		log.Infow("aggregate weight reset", "delegatee", delegatee.String())
	}
	return nil
}

// Stake returns the stake record at the given index.
func (l *Ledger) Stake(index uint64) (*storage.StakeRecord, error) {
	return l.stg.Stake(index)
}

// Delegation returns the delegation record at the given index.
func (l *Ledger) Delegation(index uint64) (*storage.DelegationRecord, error) {
	return l.stg.Delegation(index)
}

// Vote returns the vote record at the given index.
func (l *Ledger) Vote(index uint64) (*storage.VoteRecord, error) {
	return l.stg.Vote(index)
}

// Proposal returns the proposal with the given id.
func (l *Ledger) Proposal(id uint64) (*storage.Proposal, error) {
	return l.stg.Proposal(id)
}

// AggregateWeight returns the current encrypted aggregate of a delegatee,
// or ErrNoWeight if it was never delegated to.
func (l *Ledger) AggregateWeight(delegatee types.HexBytes) (*elgamal.Ciphertext, error) {
	ct, err := l.stg.AggregateWeight(delegatee)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoWeight
	}
	return ct, err
}

// Count returns the current value of the given counter category.
func (l *Ledger) Count(kind string) (uint64, error) {
	return l.stg.Count(kind)
}
