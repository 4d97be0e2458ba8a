//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// If you notice there's a gap, DON'T fill it in, that code was used in the past and shouldn't be reused.
var (
	ErrResourceNotFound     = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody        = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedIndex       = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed record index")}
	ErrMalformedCiphertext  = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed ciphertext handle")}
	ErrInvalidProposalID    = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid proposal id")}
	ErrProposalNotFound     = Error{Code: 40006, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("proposal not found")}
	ErrNoAggregateWeight    = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("no aggregate weight for delegatee")}
	ErrNoVotesForProposal   = Error{Code: 40008, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("no votes for proposal")}
	ErrUnauthorized         = Error{Code: 40009, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid admin token")}
	ErrMalformedIdentifier  = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed identifier")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)
