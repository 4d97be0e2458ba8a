package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/crypto/elgamal"
	"github.com/cipherstake/cipherstake/ledger"
	"github.com/cipherstake/cipherstake/storage"
	"github.com/cipherstake/cipherstake/types"
)

// decodeCiphertext parses an opaque serialized ciphertext handle.
func decodeCiphertext(handle types.HexBytes) (*elgamal.Ciphertext, error) {
	return elgamal.DeserializeCiphertext(handle)
}

// submitStake appends a stake record
// POST /stakes
func (a *API) submitStake(w http.ResponseWriter, r *http.Request) {
	req := &StakeRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	amount, err := decodeCiphertext(req.Amount)
	if err != nil {
		ErrMalformedCiphertext.WithErr(err).Write(w)
		return
	}
	index, err := a.ledger.SubmitStake(req.Owner, amount)
	if err != nil {
		ErrMalformedCiphertext.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &IndexResponse{Index: index})
}

// stake returns a stake record by index
// GET /stakes/{index}
func (a *API) stake(w http.ResponseWriter, r *http.Request) {
	index, err := urlParamUint64(r, IndexURLParam)
	if err != nil {
		ErrMalformedIndex.WithErr(err).Write(w)
		return
	}
	rec, err := a.ledger.Stake(index)
	if err != nil {
		ErrResourceNotFound.Withf("stake %d", index).Write(w)
		return
	}
	httpWriteJSON(w, &StakeResponse{
		Index:  index,
		Owner:  rec.Owner,
		Amount: rec.Amount.Serialize(),
	})
}

// submitDelegation appends a delegation record and updates the aggregate
// POST /delegations
func (a *API) submitDelegation(w http.ResponseWriter, r *http.Request) {
	req := &DelegationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	weight, err := decodeCiphertext(req.Weight)
	if err != nil {
		ErrMalformedCiphertext.WithErr(err).Write(w)
		return
	}
	index, err := a.ledger.SubmitDelegation(req.Delegator, req.Delegatee, weight)
	if err != nil {
		ErrMalformedCiphertext.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &IndexResponse{Index: index})
}

// delegation returns a delegation record by index
// GET /delegations/{index}
func (a *API) delegation(w http.ResponseWriter, r *http.Request) {
	index, err := urlParamUint64(r, IndexURLParam)
	if err != nil {
		ErrMalformedIndex.WithErr(err).Write(w)
		return
	}
	rec, err := a.ledger.Delegation(index)
	if err != nil {
		ErrResourceNotFound.Withf("delegation %d", index).Write(w)
		return
	}
	httpWriteJSON(w, &DelegationResponse{
		Index:     index,
		Delegator: rec.Delegator,
		Delegatee: rec.Delegatee,
		Weight:    rec.Weight.Serialize(),
	})
}

// submitVote appends a vote for an existing proposal
// POST /votes
func (a *API) submitVote(w http.ResponseWriter, r *http.Request) {
	req := &VoteRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	choice, err := decodeCiphertext(req.Choice)
	if err != nil {
		ErrMalformedCiphertext.WithErr(err).Write(w)
		return
	}
	index, err := a.ledger.SubmitVote(req.Voter, req.ProposalID, choice)
	switch {
	case errors.Is(err, ledger.ErrInvalidProposal):
		ErrInvalidProposalID.Write(w)
		return
	case errors.Is(err, ledger.ErrProposalNotFound):
		ErrProposalNotFound.Withf("%d", req.ProposalID).Write(w)
		return
	case err != nil:
		ErrMalformedCiphertext.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &IndexResponse{Index: index})
}

// vote returns a vote record by index
// GET /votes/{index}
func (a *API) vote(w http.ResponseWriter, r *http.Request) {
	index, err := urlParamUint64(r, IndexURLParam)
	if err != nil {
		ErrMalformedIndex.WithErr(err).Write(w)
		return
	}
	rec, err := a.ledger.Vote(index)
	if err != nil {
		ErrResourceNotFound.Withf("vote %d", index).Write(w)
		return
	}
	httpWriteJSON(w, &VoteResponse{
		Index:      index,
		Voter:      rec.Voter,
		ProposalID: rec.ProposalID,
		Choice:     rec.Choice.Serialize(),
	})
}

// createProposal stores a new proposal
// POST /proposals
func (a *API) createProposal(w http.ResponseWriter, r *http.Request) {
	req := &ProposalRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	id, err := a.ledger.CreateProposal(req.Metadata)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	log.Infow("new proposal", "proposalId", id)
	httpWriteJSON(w, &ProposalResponse{ProposalID: id, Metadata: req.Metadata, Active: true})
}

// proposal returns a proposal by id
// GET /proposals/{proposalId}
func (a *API) proposal(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamUint64(r, ProposalURLParam)
	if err != nil {
		ErrMalformedIndex.WithErr(err).Write(w)
		return
	}
	p, err := a.ledger.Proposal(id)
	if err != nil {
		ErrProposalNotFound.Withf("%d", id).Write(w)
		return
	}
	httpWriteJSON(w, &ProposalResponse{
		ProposalID: p.ID,
		Metadata:   p.Metadata,
		CreatedAt:  p.CreatedAt.Unix(),
		Active:     p.Active,
	})
}

// counters returns the current record counters
// GET /counters
func (a *API) counters(w http.ResponseWriter, r *http.Request) {
	resp := &CountersResponse{}
	for _, c := range []struct {
		kind string
		dst  *uint64
	}{
		{storage.CounterStake, &resp.Stakes},
		{storage.CounterDelegation, &resp.Delegations},
		{storage.CounterVote, &resp.Votes},
		{storage.CounterProposal, &resp.Proposals},
	} {
		count, err := a.ledger.Count(c.kind)
		if err != nil {
			ErrGenericInternalServerError.WithErr(err).Write(w)
			return
		}
		*c.dst = count
	}
	httpWriteJSON(w, resp)
}
