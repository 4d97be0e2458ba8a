// Package storage persists the encrypted governance ledger in a prefixed
// key-value store. It holds the per-category counters, the append-only
// stake, delegation, vote and proposal records, the per-delegatee aggregate
// weights, a proposal-to-votes index, and the pending decryption request
// registry. The following prefixes are used:
//   - 'k/' for counters
//   - 's/' for stake records
//   - 'd/' for delegation records
//   - 'v/' for vote records
//   - 'p/' for proposals
//   - 'vi/' for the proposal -> vote index
//   - 'w/' for aggregate weights, keyed by delegatee
//   - 'r/' for pending decryption requests
//
// Records are immutable after insertion; only the aggregate weights are
// ever rewritten (accumulation and administrative reset).
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	counterPrefix   = []byte("k/")
	stakePrefix     = []byte("s/")
	delegPrefix     = []byte("d/")
	votePrefix      = []byte("v/")
	proposalPrefix  = []byte("p/")
	voteIndexPrefix = []byte("vi/")
	weightPrefix    = []byte("w/")
	requestPrefix   = []byte("r/")
)

// Counter categories. Each holds a dense 1-based sequence; 0 means absent.
const (
	CounterStake      = "stake"
	CounterDelegation = "delegation"
	CounterVote       = "vote"
	CounterProposal   = "proposal"
	CounterRequest    = "request"
)

// ErrNotFound is returned when the requested artifact does not exist.
var ErrNotFound = errors.New("not found")

// Storage wraps the underlying database with the ledger's access patterns.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
}

// New creates a new Storage instance on top of the given database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// indexKey encodes a record index as a big-endian key, so that iteration
// order matches submission order.
func indexKey(i uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, i)
	return k
}

// encodeArtifact serializes an artifact with deterministic CBOR.
func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

// decodeArtifact deserializes an artifact encoded by encodeArtifact.
func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// getArtifact reads and decodes one artifact. Returns ErrNotFound if the
// key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := rd.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get artifact: %w", err)
	}
	return decodeArtifact(data, out)
}

// setArtifact encodes and stores one artifact in its own transaction.
func (s *Storage) setArtifact(prefix, key []byte, a any) error {
	data, err := encodeArtifact(a)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// deleteArtifact removes one artifact. Deleting a missing key is not an
// error.
func (s *Storage) deleteArtifact(prefix, key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Delete(key); err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// readCounter returns the current value of a counter within a read view.
func (s *Storage) readCounter(kind string) (uint64, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, counterPrefix)
	data, err := rd.Get([]byte(kind))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read counter %s: %w", kind, err)
	}
	return binary.BigEndian.Uint64(data), nil
}

// bumpCounter increments a counter inside the given write transaction and
// returns the new value. Counters start at 1.
func bumpCounter(wTx db.WriteTx, kind string) (uint64, error) {
	ctrTx := prefixeddb.NewPrefixedWriteTx(wTx, counterPrefix)
	var next uint64 = 1
	if data, err := ctrTx.Get([]byte(kind)); err == nil {
		next = binary.BigEndian.Uint64(data) + 1
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return 0, fmt.Errorf("bump counter %s: %w", kind, err)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := ctrTx.Set([]byte(kind), buf); err != nil {
		return 0, err
	}
	return next, nil
}

// Count returns the current value of the given counter category.
func (s *Storage) Count(kind string) (uint64, error) {
	return s.readCounter(kind)
}
