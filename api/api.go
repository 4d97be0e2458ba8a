// Package api exposes the encrypted governance ledger over HTTP. Record
// submissions and queries move ciphertexts as opaque hex handles; decryption
// requests are acknowledged with a request id and complete asynchronously.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/ledger"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host   string
	Port   int
	Ledger *ledger.Ledger
	// AdminToken gates the administrative endpoints. When empty they
	// respond 401 unconditionally.
	AdminToken string
}

// API type represents the API HTTP server.
type API struct {
	router     *chi.Mux
	ledger     *ledger.Ledger
	adminToken string
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Ledger == nil {
		return nil, fmt.Errorf("missing ledger instance")
	}
	a := &API{
		ledger:     conf.Ledger,
		adminToken: conf.AdminToken,
	}

	a.initRouter()
	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", StakesEndpoint, "method", "POST")
	a.router.Post(StakesEndpoint, a.submitStake)
	log.Infow("register handler", "endpoint", StakeEndpoint, "method", "GET")
	a.router.Get(StakeEndpoint, a.stake)
	log.Infow("register handler", "endpoint", DelegationsEndpoint, "method", "POST")
	a.router.Post(DelegationsEndpoint, a.submitDelegation)
	log.Infow("register handler", "endpoint", DelegationEndpoint, "method", "GET")
	a.router.Get(DelegationEndpoint, a.delegation)
	log.Infow("register handler", "endpoint", VotesEndpoint, "method", "POST")
	a.router.Post(VotesEndpoint, a.submitVote)
	log.Infow("register handler", "endpoint", VoteEndpoint, "method", "GET")
	a.router.Get(VoteEndpoint, a.vote)
	log.Infow("register handler", "endpoint", ProposalsEndpoint, "method", "POST")
	a.router.Post(ProposalsEndpoint, a.createProposal)
	log.Infow("register handler", "endpoint", ProposalEndpoint, "method", "GET")
	a.router.Get(ProposalEndpoint, a.proposal)
	log.Infow("register handler", "endpoint", WeightEndpoint, "method", "GET")
	a.router.Get(WeightEndpoint, a.aggregateWeight)
	log.Infow("register handler", "endpoint", WeightsEndpoint, "method", "DELETE")
	a.router.Delete(WeightsEndpoint, a.resetWeights)
	log.Infow("register handler", "endpoint", DecryptWeightEndpoint, "method", "POST")
	a.router.Post(DecryptWeightEndpoint, a.decryptWeight)
	log.Infow("register handler", "endpoint", DecryptVotesEndpoint, "method", "POST")
	a.router.Post(DecryptVotesEndpoint, a.decryptVotes)
	log.Infow("register handler", "endpoint", CountersEndpoint, "method", "GET")
	a.router.Get(CountersEndpoint, a.counters)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", AdminTokenHeader},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}

// isAdmin reports whether the request carries the configured admin token.
func (a *API) isAdmin(r *http.Request) bool {
	return a.adminToken != "" && r.Header.Get(AdminTokenHeader) == a.adminToken
}
