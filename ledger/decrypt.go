package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/crypto/elgamal"
	"github.com/cipherstake/cipherstake/storage"
	"github.com/cipherstake/cipherstake/types"
)

// purposeTag derives the audit tag correlating a decryption request with
// its issuing reason. The monotonic sequence keeps tags of requests issued
// for the same subject within the same second distinguishable; the oracle
// request id remains the authoritative key, tags are audit metadata only.
func purposeTag(kind string, subject types.HexBytes, issuedAt time.Time, seq uint64) types.HexBytes {
	meta := make([]byte, 16)
	binary.BigEndian.PutUint64(meta[:8], uint64(issuedAt.Unix()))
	binary.BigEndian.PutUint64(meta[8:], seq)
	return ethcrypto.Keccak256([]byte(kind), subject, meta)
}

// RequestValidatorWeight asks the oracle to decrypt the current aggregate
// weight of a delegatee. It fails ErrNoWeight if the delegatee has never
// been delegated to. It returns the oracle request id and the purpose tag;
// completion is observed only through the DecryptionCompleted event.
func (l *Ledger) RequestValidatorWeight(delegatee types.HexBytes) (string, types.HexBytes, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	aggregate, err := l.stg.AggregateWeight(delegatee)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, ErrNoWeight
	} else if err != nil {
		return "", nil, fmt.Errorf("load aggregate: %w", err)
	}
	return l.submitDecryption(types.RequestKindValidatorWeight, delegatee,
		[]*elgamal.Ciphertext{aggregate})
}

// RequestProposalVotes asks the oracle to decrypt every vote submitted on a
// proposal, in submission order. It fails ErrInvalidProposal or
// ErrProposalNotFound on a bad reference and ErrNoVotes if the proposal has
// no votes.
func (l *Ledger) RequestProposalVotes(proposalID uint64) (string, types.HexBytes, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkProposalRef(proposalID); err != nil {
		return "", nil, err
	}
	indices, err := l.stg.VotesByProposal(proposalID)
	if err != nil {
		return "", nil, fmt.Errorf("collect votes: %w", err)
	}
	if len(indices) == 0 {
		return "", nil, ErrNoVotes
	}
	batch := make([]*elgamal.Ciphertext, len(indices))
	for i, index := range indices {
		vote, err := l.stg.Vote(index)
		if err != nil {
			return "", nil, fmt.Errorf("load vote %d: %w", index, err)
		}
		batch[i] = vote.Choice
	}
	subject := make(types.HexBytes, 8)
	binary.BigEndian.PutUint64(subject, proposalID)
	return l.submitDecryption(types.RequestKindProposalVotes, subject, batch)
}

// submitDecryption sends a ciphertext batch to the oracle and records the
// pending request. Callers must hold l.mu: the oracle may fire the callback
// immediately on its own goroutine, and the lock guarantees the pending
// request is persisted before the callback can look it up.
func (l *Ledger) submitDecryption(kind string, subject types.HexBytes, batch []*elgamal.Ciphertext) (string, types.HexBytes, error) {
	seq, err := l.stg.NextRequestSeq()
	if err != nil {
		return "", nil, fmt.Errorf("request sequence: %w", err)
	}
	now := time.Now().UTC()
	tag := purposeTag(kind, subject, now, seq)

	handles := make([][]byte, len(batch))
	for i, ct := range batch {
		handles[i] = ct.Serialize()
	}
	requestID, err := l.orc.SubmitBatch(handles, l.HandleDecryptionResult)
	if err != nil {
		return "", nil, fmt.Errorf("submit batch: %w", err)
	}
	if err := l.stg.SetPendingRequest(&storage.PendingRequest{
		RequestID:  requestID,
		Kind:       kind,
		Subject:    subject,
		PurposeTag: tag,
		Batch:      batch,
		Seq:        seq,
		CreatedAt:  now,
	}); err != nil {
		return "", nil, fmt.Errorf("record pending request: %w", err)
	}
	log.Infow("decryption requested", "requestId", requestID,
		"kind", kind, "purposeTag", tag.String(), "batchSize", len(batch))
	l.feed.Send(Event{Type: EventDecryptionRequested, RequestID: requestID, PurposeTag: tag})
	return requestID, tag, nil
}

// HandleDecryptionResult is the oracle callback. It fails ErrUnknownRequest
// for ids never issued or already finalized, and ErrProofInvalid when the
// proofs do not authenticate the cleartexts against the batch originally
// submitted for the id. A failed proof changes no state and raises no
// event. On success the pending request is purged, so a replayed callback
// for the same id fails ErrUnknownRequest, and DecryptionCompleted is
// raised carrying the cleartexts.
func (l *Ledger) HandleDecryptionResult(requestID string, cleartexts []*big.Int, proofs []*elgamal.DecryptionProof) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, err := l.stg.PendingRequest(requestID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warnw("callback for unknown decryption request", "requestId", requestID)
		return ErrUnknownRequest
	} else if err != nil {
		return fmt.Errorf("load pending request: %w", err)
	}

	if len(cleartexts) != len(req.Batch) || len(proofs) != len(req.Batch) {
		log.Warnw("callback batch size mismatch", "requestId", requestID,
			"expected", len(req.Batch), "cleartexts", len(cleartexts), "proofs", len(proofs))
		return ErrProofInvalid
	}
	for i, ct := range req.Batch {
		if !elgamal.VerifyDecryption(l.pub, ct, cleartexts[i], proofs[i]) {
			log.Warnw("decryption proof rejected", "requestId", requestID, "element", i)
			return ErrProofInvalid
		}
	}

	if err := l.stg.FinalizePendingRequest(requestID); err != nil {
		return fmt.Errorf("finalize request: %w", err)
	}
	log.Infow("decryption completed", "requestId", requestID,
		"kind", req.Kind, "purposeTag", req.PurposeTag.String())
	l.feed.Send(Event{
		Type:       EventDecryptionCompleted,
		RequestID:  requestID,
		PurposeTag: req.PurposeTag,
		Cleartexts: cleartexts,
	})
	return nil
}
