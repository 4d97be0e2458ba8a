package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/ledger"
	"github.com/cipherstake/cipherstake/util"
)

// aggregateWeight returns the encrypted aggregate weight of a delegatee
// GET /delegatees/{delegatee}/weight
func (a *API) aggregateWeight(w http.ResponseWriter, r *http.Request) {
	delegatee, err := hex.DecodeString(util.TrimHex(chi.URLParam(r, DelegateeURLParam)))
	if err != nil {
		ErrMalformedIdentifier.WithErr(err).Write(w)
		return
	}
	ct, err := a.ledger.AggregateWeight(delegatee)
	if errors.Is(err, ledger.ErrNoWeight) {
		ErrNoAggregateWeight.Withf("%x", delegatee).Write(w)
		return
	} else if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &WeightResponse{
		Delegatee: delegatee,
		Weight:    ct.Serialize(),
	})
}

// resetWeights deletes the aggregates of the named delegatees. Gated by the
// admin token.
// DELETE /delegatees/weights
func (a *API) resetWeights(w http.ResponseWriter, r *http.Request) {
	if !a.isAdmin(r) {
		ErrUnauthorized.Write(w)
		return
	}
	req := &ResetWeightsRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.ledger.ResetWeights(req.Delegatees...); err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	log.Infow("aggregate weights reset", "delegatees", len(req.Delegatees))
	httpWriteOK(w)
}

// decryptWeight issues a decryption request for a delegatee's aggregate
// POST /decryptions/weight
func (a *API) decryptWeight(w http.ResponseWriter, r *http.Request) {
	req := &DecryptWeightRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	requestID, tag, err := a.ledger.RequestValidatorWeight(req.Delegatee)
	if errors.Is(err, ledger.ErrNoWeight) {
		ErrNoAggregateWeight.Withf("%s", req.Delegatee.String()).Write(w)
		return
	} else if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &DecryptionResponse{RequestID: requestID, PurposeTag: tag})
}

// decryptVotes issues a decryption request for every vote on a proposal
// POST /decryptions/votes
func (a *API) decryptVotes(w http.ResponseWriter, r *http.Request) {
	req := &DecryptVotesRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	requestID, tag, err := a.ledger.RequestProposalVotes(req.ProposalID)
	switch {
	case errors.Is(err, ledger.ErrInvalidProposal):
		ErrInvalidProposalID.Write(w)
		return
	case errors.Is(err, ledger.ErrProposalNotFound):
		ErrProposalNotFound.Withf("%d", req.ProposalID).Write(w)
		return
	case errors.Is(err, ledger.ErrNoVotes):
		ErrNoVotesForProposal.Withf("%d", req.ProposalID).Write(w)
		return
	case err != nil:
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &DecryptionResponse{RequestID: requestID, PurposeTag: tag})
}
