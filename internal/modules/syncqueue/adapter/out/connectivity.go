package out

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	syncout "ansitzplaner/internal/modules/syncqueue/port/out"
	"ansitzplaner/internal/platform/logging"
)

// Probe returns nil when the remote store is reachable.
type Probe func(ctx context.Context) error

// DialProbe checks that a TCP connection to address can be opened.
func DialProbe(address string) Probe {
	return func(ctx context.Context) error {
		d := net.Dialer{}
		conn, err := d.DialContext(ctx, "tcp", address)
		if err != nil {
			return fmt.Errorf("dial %s: %w", address, err)
		}
		return conn.Close()
	}
}

// Monitor polls a probe and notifies subscribers on every change of
// reachability. The first successful observation counts as coming online.
type Monitor struct {
	probe    Probe
	interval time.Duration
	timeout  time.Duration
	logger   hclog.Logger

	mu     sync.Mutex
	known  bool
	online bool
	subs   map[int]func(online bool)
	nextID int
}

var _ syncout.Connectivity = (*Monitor)(nil)

func NewMonitor(probe Probe, interval, timeout time.Duration, logger hclog.Logger) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		timeout:  timeout,
		logger:   logging.OrNull(logger),
		subs:     map[int]func(bool){},
	}
}

// Online returns the last observed state, probing once if nothing has been
// observed yet.
func (m *Monitor) Online(ctx context.Context) bool {
	m.mu.Lock()
	known, online := m.known, m.online
	m.mu.Unlock()
	if known {
		return online
	}
	return m.Check(ctx)
}

// Check probes now and publishes a transition if the state changed.
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.probe(probeCtx)
	cancel()
	online := err == nil

	m.mu.Lock()
	changed := !m.known && online || m.known && m.online != online
	m.known = true
	m.online = online
	subs := make([]func(bool), 0, len(m.subs))
	if changed {
		for _, fn := range m.subs {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	if changed {
		m.logger.Debug("connectivity changed", "online", online, "error", err)
	}
	for _, fn := range subs {
		fn(online)
	}
	return online
}

// Run polls until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}
