package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// StakesEndpoint is the endpoint for submitting a stake record
	StakesEndpoint = "/stakes"
	// StakeEndpoint is the endpoint to get a stake record by index
	IndexURLParam = "index"
	StakeEndpoint = "/stakes/{" + IndexURLParam + "}"
	// DelegationsEndpoint is the endpoint for submitting a delegation record
	DelegationsEndpoint = "/delegations"
	DelegationEndpoint  = "/delegations/{" + IndexURLParam + "}"
	// VotesEndpoint is the endpoint for submitting a vote
	VotesEndpoint = "/votes"
	VoteEndpoint  = "/votes/{" + IndexURLParam + "}"
	// ProposalsEndpoint is the endpoint for creating a proposal
	ProposalsEndpoint = "/proposals"
	ProposalURLParam  = "proposalId"
	ProposalEndpoint  = "/proposals/{" + ProposalURLParam + "}"
	// WeightEndpoint is the endpoint to get the encrypted aggregate weight
	// of a delegatee. WeightsEndpoint resets aggregates (admin only).
	DelegateeURLParam = "delegatee"
	WeightEndpoint    = "/delegatees/{" + DelegateeURLParam + "}/weight"
	WeightsEndpoint   = "/delegatees/weights"
	// DecryptWeightEndpoint and DecryptVotesEndpoint issue asynchronous
	// decryption requests to the oracle
	DecryptWeightEndpoint = "/decryptions/weight"
	DecryptVotesEndpoint  = "/decryptions/votes"
	// CountersEndpoint is the endpoint to get the record counters
	CountersEndpoint = "/counters"
)

// AdminTokenHeader carries the bearer token gating administrative endpoints.
const AdminTokenHeader = "X-Admin-Token"
