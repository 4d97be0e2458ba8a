package storage

import (
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// SetPendingRequest stores a decryption request awaiting its callback and
// bumps the request sequence counter in the same transaction. The request
// stays resident until FinalizePendingRequest; an unanswered request is
// never expired.
func (s *Storage) SetPendingRequest(req *PendingRequest) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	data, err := encodeArtifact(req)
	if err != nil {
		wTx.Discard()
		return err
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, requestPrefix).Set([]byte(req.RequestID), data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// NextRequestSeq bumps and returns the monotonic request sequence. It is
// folded into purpose tags so that requests issued for the same subject in
// the same second remain distinguishable in the audit trail.
func (s *Storage) NextRequestSeq() (uint64, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	seq, err := bumpCounter(wTx, CounterRequest)
	if err != nil {
		wTx.Discard()
		return 0, err
	}
	return seq, wTx.Commit()
}

// PendingRequest retrieves a pending decryption request by its oracle
// request id. Returns ErrNotFound for unknown or already finalized ids.
func (s *Storage) PendingRequest(requestID string) (*PendingRequest, error) {
	req := &PendingRequest{}
	if err := s.getArtifact(requestPrefix, []byte(requestID), req); err != nil {
		return nil, err
	}
	return req, nil
}

// FinalizePendingRequest purges a pending request after its callback has
// been verified. A later callback for the same id will find nothing and be
// rejected as unknown.
func (s *Storage) FinalizePendingRequest(requestID string) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.deleteArtifact(requestPrefix, []byte(requestID))
}
