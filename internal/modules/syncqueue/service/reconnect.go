package service

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"ansitzplaner/internal/modules/syncqueue/domain"
	syncout "ansitzplaner/internal/modules/syncqueue/port/out"
	"ansitzplaner/internal/platform/logging"
)

type drainer interface {
	Drain(ctx context.Context, onConflict func(message string)) (domain.DrainResult, error)
}

// ReconnectTrigger drains the queue whenever connectivity comes back. It
// holds at most one subscription.
type ReconnectTrigger struct {
	drainer      drainer
	connectivity syncout.Connectivity
	onConflict   func(message string)
	logger       hclog.Logger

	mu          sync.Mutex
	unsubscribe func()
}

func NewReconnectTrigger(d drainer, connectivity syncout.Connectivity, onConflict func(message string), logger hclog.Logger) *ReconnectTrigger {
	return &ReconnectTrigger{drainer: d, connectivity: connectivity, onConflict: onConflict, logger: logging.OrNull(logger)}
}

// Register subscribes to connectivity changes; drains triggered by the
// subscription run with ctx. Registering twice is a no-op and returns false.
func (t *ReconnectTrigger) Register(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unsubscribe != nil {
		return false
	}
	t.unsubscribe = t.connectivity.Subscribe(func(online bool) {
		if !online {
			t.logger.Info("remote store unreachable")
			return
		}
		t.logger.Info("remote store reachable again, draining queue")
		if _, err := t.drainer.Drain(ctx, t.onConflict); err != nil {
			t.logger.Error("drain after reconnect failed", "error", err)
		}
	})
	return true
}

// Unregister removes the subscription. Calling it when not registered does
// nothing.
func (t *ReconnectTrigger) Unregister() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unsubscribe == nil {
		return
	}
	t.unsubscribe()
	t.unsubscribe = nil
}

func (t *ReconnectTrigger) Registered() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unsubscribe != nil
}
