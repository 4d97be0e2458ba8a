package types

const (
	// WeightWidth is the message-space width in bits of delegation weight
	// and vote choice ciphertexts as submitted by callers.
	WeightWidth = 32
	// AmountWidth is the message-space width in bits of stake amounts and
	// of the per-delegatee aggregate weight. Weights are promoted to this
	// width before accumulation.
	AmountWidth = 64
	// IdentifierLen is the length in bytes of the opaque identifier handles
	// (owner, delegator, delegatee, voter).
	IdentifierLen = 32
	// PurposeTagLen is the length in bytes of a decryption purpose tag.
	PurposeTagLen = 32
)

// Decryption request kinds, folded into the purpose tag preimage.
const (
	RequestKindValidatorWeight = "validator_weight"
	RequestKindProposalVotes   = "proposal_votes"
)
