// Package service wires the ledger, the decryption oracle and the HTTP API
// into start/stoppable units for the daemon.
package service

import (
	"context"
	"fmt"
	"sync"

	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/api"
	"github.com/cipherstake/cipherstake/ledger"
	"github.com/cipherstake/cipherstake/storage"
)

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	storage    *storage.Storage
	ledger     *ledger.Ledger
	api        *api.API
	mu         sync.Mutex
	cancel     context.CancelFunc
	host       string
	port       int
	adminToken string
}

// NewAPI creates a new APIService instance.
func NewAPI(stg *storage.Storage, l *ledger.Ledger, host string, port int, adminToken string) *APIService {
	return &APIService{
		storage:    stg,
		ledger:     l,
		host:       host,
		port:       port,
		adminToken: adminToken,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	_, as.cancel = context.WithCancel(ctx)

	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:       as.host,
		Port:       as.port,
		Ledger:     as.ledger,
		AdminToken: as.adminToken,
	})
	if err != nil {
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}

	return nil
}

// Stop halts the API server and closes the underlying storage.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
	if err := as.storage.Close(); err != nil {
		log.Warnw("failed to close storage", "error", err.Error())
	}
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
