package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/event"

	"github.com/cipherstake/cipherstake/types"
)

// EventType identifies an audit event raised by the ledger.
type EventType string

const (
	EventStakeSubmitted      EventType = "stake_submitted"
	EventDelegationSubmitted EventType = "delegation_submitted"
	EventVoteSubmitted       EventType = "vote_submitted"
	EventProposalCreated     EventType = "proposal_created"
	EventDecryptionRequested EventType = "decryption_requested"
	EventDecryptionCompleted EventType = "decryption_completed"
)

// Event is an audit record of a completed ledger operation. Record
// submissions carry the assigned index; decryption events carry the request
// id and purpose tag, and completions additionally the cleartexts for
// off-chain consumption. The ledger does not decode or interpret the
// cleartexts by kind.
type Event struct {
	Type       EventType      `json:"type"`
	Index      uint64         `json:"index,omitempty"`
	RequestID  string         `json:"requestId,omitempty"`
	PurposeTag types.HexBytes `json:"purposeTag,omitempty"`
	Cleartexts []*big.Int     `json:"cleartexts,omitempty"`
}

// Subscribe registers a channel to receive every audit event raised after
// the call. Completion of asynchronous decryption work is observable only
// through these events.
func (l *Ledger) Subscribe(ch chan<- Event) event.Subscription {
	return l.feed.Subscribe(ch)
}
