package api

import (
	"github.com/cipherstake/cipherstake/types"
)

// Ciphertexts travel through the API as opaque serialized handles; the
// server never inspects their contents, only their declared width.

// StakeRequest is the body to submit a stake record.
type StakeRequest struct {
	Owner  types.HexBytes `json:"owner"`
	Amount types.HexBytes `json:"amount"`
}

// DelegationRequest is the body to submit a delegation record.
type DelegationRequest struct {
	Delegator types.HexBytes `json:"delegator"`
	Delegatee types.HexBytes `json:"delegatee"`
	Weight    types.HexBytes `json:"weight"`
}

// VoteRequest is the body to submit a vote.
type VoteRequest struct {
	Voter      types.HexBytes `json:"voter"`
	ProposalID uint64         `json:"proposalId"`
	Choice     types.HexBytes `json:"choice"`
}

// ProposalRequest is the body to create a proposal.
type ProposalRequest struct {
	Metadata types.HexBytes `json:"metadata"`
}

// IndexResponse carries the 1-based index assigned to a submitted record.
type IndexResponse struct {
	Index uint64 `json:"index"`
}

// StakeResponse is a stored stake record.
type StakeResponse struct {
	Index  uint64         `json:"index"`
	Owner  types.HexBytes `json:"owner"`
	Amount types.HexBytes `json:"amount"`
}

// DelegationResponse is a stored delegation record.
type DelegationResponse struct {
	Index     uint64         `json:"index"`
	Delegator types.HexBytes `json:"delegator"`
	Delegatee types.HexBytes `json:"delegatee"`
	Weight    types.HexBytes `json:"weight"`
}

// VoteResponse is a stored vote record.
type VoteResponse struct {
	Index      uint64         `json:"index"`
	Voter      types.HexBytes `json:"voter"`
	ProposalID uint64         `json:"proposalId"`
	Choice     types.HexBytes `json:"choice"`
}

// ProposalResponse is a stored proposal.
type ProposalResponse struct {
	ProposalID uint64         `json:"proposalId"`
	Metadata   types.HexBytes `json:"metadata"`
	CreatedAt  int64          `json:"createdAt"`
	Active     bool           `json:"active"`
}

// WeightResponse carries the encrypted aggregate weight of a delegatee.
type WeightResponse struct {
	Delegatee types.HexBytes `json:"delegatee"`
	Weight    types.HexBytes `json:"weight"`
}

// DecryptWeightRequest asks for decryption of a delegatee's aggregate.
type DecryptWeightRequest struct {
	Delegatee types.HexBytes `json:"delegatee"`
}

// DecryptVotesRequest asks for decryption of every vote on a proposal.
type DecryptVotesRequest struct {
	ProposalID uint64 `json:"proposalId"`
}

// DecryptionResponse is the acknowledgment of an issued decryption request.
// Completion is delivered asynchronously through the audit event stream.
type DecryptionResponse struct {
	RequestID  string         `json:"requestId"`
	PurposeTag types.HexBytes `json:"purposeTag"`
}

// ResetWeightsRequest names the delegatees whose aggregates are deleted.
type ResetWeightsRequest struct {
	Delegatees []types.HexBytes `json:"delegatees"`
}

// CountersResponse holds the current value of every record counter.
type CountersResponse struct {
	Stakes      uint64 `json:"stakes"`
	Delegations uint64 `json:"delegations"`
	Votes       uint64 `json:"votes"`
	Proposals   uint64 `json:"proposals"`
}
