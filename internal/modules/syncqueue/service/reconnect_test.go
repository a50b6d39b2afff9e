package service_test

import (
	"context"
	"sync"
	"testing"

	"ansitzplaner/internal/modules/syncqueue/domain"
	"ansitzplaner/internal/modules/syncqueue/service"
)

type countingDrainer struct {
	mu    sync.Mutex
	calls int
}

func (d *countingDrainer) Drain(context.Context, func(string)) (domain.DrainResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return domain.DrainResult{}, nil
}

func (d *countingDrainer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func TestReconnectTriggerDrainsOnlyWhenComingOnline(t *testing.T) {
	t.Parallel()
	conn := &fakeConnectivity{}
	drainer := &countingDrainer{}
	trigger := service.NewReconnectTrigger(drainer, conn, nil, nil)

	if !trigger.Register(context.Background()) {
		t.Fatalf("first register must subscribe")
	}
	conn.set(false)
	if drainer.count() != 0 {
		t.Fatalf("going offline must not drain")
	}
	conn.set(true)
	if drainer.count() != 1 {
		t.Fatalf("expected one drain after reconnect, got %d", drainer.count())
	}
}

func TestReconnectTriggerRegisterIsIdempotentAndUnregisterIsClean(t *testing.T) {
	t.Parallel()
	conn := &fakeConnectivity{}
	drainer := &countingDrainer{}
	trigger := service.NewReconnectTrigger(drainer, conn, nil, nil)

	trigger.Register(context.Background())
	if trigger.Register(context.Background()) {
		t.Fatalf("second register must be a no-op")
	}
	if conn.subscribers() != 1 {
		t.Fatalf("expected exactly one subscription, got %d", conn.subscribers())
	}
	conn.set(true)
	if drainer.count() != 1 {
		t.Fatalf("expected one drain per transition, got %d", drainer.count())
	}

	trigger.Unregister()
	trigger.Unregister()
	if conn.subscribers() != 0 || trigger.Registered() {
		t.Fatalf("expected no subscription after unregister")
	}
	conn.set(true)
	if drainer.count() != 1 {
		t.Fatalf("no drain expected after unregister, got %d", drainer.count())
	}

	if !trigger.Register(context.Background()) {
		t.Fatalf("register after unregister must subscribe again")
	}
}
