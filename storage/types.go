package storage

import (
	"time"

	"github.com/cipherstake/cipherstake/crypto/elgamal"
	"github.com/cipherstake/cipherstake/types"
)

// StakeRecord is an immutable stake submission. The amount is a 64-bit
// ciphertext; its contents are never validated or read by the ledger.
type StakeRecord struct {
	Index  uint64              `json:"index"  cbor:"0,keyasint"`
	Owner  types.HexBytes      `json:"owner"  cbor:"1,keyasint"`
	Amount *elgamal.Ciphertext `json:"amount" cbor:"2,keyasint"`
}

// DelegationRecord is an immutable delegation of encrypted weight from a
// delegator to a delegatee.
type DelegationRecord struct {
	Index     uint64              `json:"index"     cbor:"0,keyasint"`
	Delegator types.HexBytes      `json:"delegator" cbor:"1,keyasint"`
	Delegatee types.HexBytes      `json:"delegatee" cbor:"2,keyasint"`
	Weight    *elgamal.Ciphertext `json:"weight"    cbor:"3,keyasint"`
	CreatedAt time.Time           `json:"createdAt" cbor:"4,keyasint"`
}

// VoteRecord is an immutable encrypted vote on an existing proposal.
type VoteRecord struct {
	Index      uint64              `json:"index"      cbor:"0,keyasint"`
	Voter      types.HexBytes      `json:"voter"      cbor:"1,keyasint"`
	ProposalID uint64              `json:"proposalId" cbor:"2,keyasint"`
	Choice     *elgamal.Ciphertext `json:"choice"     cbor:"3,keyasint"`
	CreatedAt  time.Time           `json:"createdAt"  cbor:"4,keyasint"`
}

// Proposal carries an opaque metadata blob. Active is set at creation and
// never transitioned by the ledger.
type Proposal struct {
	ID        uint64         `json:"id"        cbor:"0,keyasint"`
	Metadata  types.HexBytes `json:"metadata"  cbor:"1,keyasint"`
	CreatedAt time.Time      `json:"createdAt" cbor:"2,keyasint"`
	Active    bool           `json:"active"    cbor:"3,keyasint"`
}

// PendingRequest is a decryption request awaiting its oracle callback. It
// retains the originally submitted batch so the callback proof can be
// verified against it, and the purpose tag correlating the request with its
// issuing reason. It is deleted when the callback finalizes.
type PendingRequest struct {
	RequestID  string                `json:"requestId"  cbor:"0,keyasint"`
	Kind       string                `json:"kind"       cbor:"1,keyasint"`
	Subject    types.HexBytes        `json:"subject"    cbor:"2,keyasint"`
	PurposeTag types.HexBytes        `json:"purposeTag" cbor:"3,keyasint"`
	Batch      []*elgamal.Ciphertext `json:"batch"      cbor:"4,keyasint"`
	Seq        uint64                `json:"seq"        cbor:"5,keyasint"`
	CreatedAt  time.Time             `json:"createdAt"  cbor:"6,keyasint"`
}
