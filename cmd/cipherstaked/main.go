package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/ledger"
	"github.com/cipherstake/cipherstake/oracle"
	"github.com/cipherstake/cipherstake/service"
	"github.com/cipherstake/cipherstake/storage"
)

func main() {
	host := flag.String("host", "0.0.0.0", "API host to bind")
	port := flag.Int("port", 9095, "API port to bind")
	dataDir := flag.String("datadir", func() string {
		home, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}
		return filepath.Join(home, ".cipherstake")
	}(), "data directory for the ledger database")
	logLevel := flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	adminToken := flag.String("admin-token", "", "token gating administrative endpoints; empty disables them")
	maxMessage := flag.Uint64("max-message", 1<<32, "upper bound for decryptable cleartext values")
	flag.Parse()
	log.Init(*logLevel, "stdout", nil)

	database, err := metadb.New(db.TypePebble, filepath.Join(*dataDir, "ledger"))
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	stg := storage.New(database)

	keyHolder, err := oracle.NewKeyHolder(*maxMessage)
	if err != nil {
		log.Fatalf("could not create decryption oracle: %v", err)
	}
	ldg := ledger.New(stg, keyHolder, keyHolder.PublicKey())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := service.NewEventMonitor(ldg)
	if err := monitor.Start(ctx); err != nil {
		log.Fatalf("could not start event monitor: %v", err)
	}
	apiSrv := service.NewAPI(stg, ldg, *host, *port, *adminToken)
	if err := apiSrv.Start(ctx); err != nil {
		log.Fatalf("could not start API service: %v", err)
	}
	log.Infow("cipherstaked running", "host", *host, "port", *port, "datadir", *dataDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	monitor.Stop()
	apiSrv.Stop()
}
