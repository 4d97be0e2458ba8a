package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.vocdoni.io/dvote/log"

	"github.com/cipherstake/cipherstake/ledger"
)

// EventMonitor represents a service that consumes the ledger audit event
// stream and logs every entry. Decryption completions are the only place
// cleartexts surface, so the monitor is the daemon's audit trail.
type EventMonitor struct {
	ledger *ledger.Ledger
	mu     sync.Mutex
	cancel context.CancelFunc
	seen   atomic.Uint64
}

// NewEventMonitor creates a new EventMonitor service.
func NewEventMonitor(l *ledger.Ledger) *EventMonitor {
	return &EventMonitor{ledger: l}
}

// Start begins consuming audit events. It returns an error if the service
// is already running.
func (em *EventMonitor) Start(ctx context.Context) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.cancel != nil {
		return fmt.Errorf("service already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	em.cancel = cancel

	ch := make(chan ledger.Event, 256)
	sub := em.ledger.Subscribe(ch)
	go em.consume(ctx, sub.Unsubscribe, ch)
	return nil
}

// Stop halts the monitoring service.
func (em *EventMonitor) Stop() {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.cancel != nil {
		em.cancel()
		em.cancel = nil
	}
}

// Seen returns the number of audit events consumed since Start.
func (em *EventMonitor) Seen() uint64 {
	return em.seen.Load()
}

func (em *EventMonitor) consume(ctx context.Context, unsubscribe func(), ch <-chan ledger.Event) {
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			em.seen.Add(1)
			switch ev.Type {
			case ledger.EventDecryptionCompleted:
				log.Infow("audit event", "type", string(ev.Type),
					"requestId", ev.RequestID, "purposeTag", ev.PurposeTag.String(),
					"cleartexts", len(ev.Cleartexts))
			case ledger.EventDecryptionRequested:
				log.Infow("audit event", "type", string(ev.Type),
					"requestId", ev.RequestID, "purposeTag", ev.PurposeTag.String())
			default:
				log.Debugw("audit event", "type", string(ev.Type), "index", ev.Index)
			}
		}
	}
}
