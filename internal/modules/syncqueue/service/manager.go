package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	remotein "ansitzplaner/internal/modules/remote/port/in"
	"ansitzplaner/internal/modules/syncqueue/domain"
	syncout "ansitzplaner/internal/modules/syncqueue/port/out"
	"ansitzplaner/internal/platform/clock"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/id"
	"ansitzplaner/internal/platform/logging"
)

// Manager owns the queue of failed remote writes and replays it against the
// remote store. At most one drain runs at a time per Manager.
type Manager struct {
	queue         syncout.Queue
	confirmations syncout.ConfirmationStore
	remote        remotein.Store
	connectivity  syncout.Connectivity
	clock         clock.Clock
	ids           id.Generator
	logger        hclog.Logger

	draining atomic.Bool

	mu          sync.Mutex
	lastDrainAt time.Time
	replayed    int
	conflicts   int
}

func NewManager(
	queue syncout.Queue,
	confirmations syncout.ConfirmationStore,
	remote remotein.Store,
	connectivity syncout.Connectivity,
	clk clock.Clock,
	ids id.Generator,
	logger hclog.Logger,
) *Manager {
	return &Manager{
		queue:         queue,
		confirmations: confirmations,
		remote:        remote,
		connectivity:  connectivity,
		clock:         clk,
		ids:           ids,
		logger:        logging.OrNull(logger),
	}
}

// Enqueue persists a new operation. A failing local store is returned to
// the caller; there is nowhere else to keep the write.
func (m *Manager) Enqueue(ctx context.Context, table string, kind domain.Kind, payload map[string]any) (domain.Operation, error) {
	copied := make(map[string]any, len(payload))
	for k, v := range payload {
		copied[k] = v
	}
	op := domain.Operation{
		ID:        m.ids.New(),
		Table:     table,
		Kind:      kind,
		Payload:   copied,
		CreatedAt: m.clock.Now(),
	}
	if err := op.Validate(); err != nil {
		return domain.Operation{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := m.queue.Append(ctx, op); err != nil {
		return domain.Operation{}, fmt.Errorf("enqueue %s %s: %w", op.Kind, op.Table, err)
	}
	m.logger.Debug("operation queued", "id", op.ID, "table", op.Table, "kind", op.Kind, "record", op.RecordID())
	return op, nil
}

// Confirm marks a record as acknowledged by the remote store.
func (m *Manager) Confirm(ctx context.Context, table, recordID string) error {
	return m.confirmations.Confirm(ctx, domain.Confirmation{Table: table, RecordID: recordID, ConfirmedAt: m.clock.Now()})
}

// Drain replays queued operations oldest first. Offline or concurrent calls
// return immediately without touching the queue. A failing operation stays
// queued and does not stop the pass.
func (m *Manager) Drain(ctx context.Context, onConflict func(message string)) (domain.DrainResult, error) {
	if !m.draining.CompareAndSwap(false, true) {
		m.logger.Debug("drain already in flight")
		return domain.DrainResult{Skipped: true}, nil
	}
	defer m.draining.Store(false)

	if !m.connectivity.Online(ctx) {
		return domain.DrainResult{Offline: true}, nil
	}
	ops, err := m.queue.List(ctx)
	if err != nil {
		return domain.DrainResult{}, fmt.Errorf("list sync queue: %w", err)
	}

	result := domain.DrainResult{}
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			m.finish(result)
			return result, err
		}
		result.Attempted++
		err := m.replay(ctx, op)
		switch {
		case err == nil:
			if err := m.settle(ctx, op); err != nil {
				m.finish(result)
				return result, err
			}
			result.Replayed++
		case errors.Is(err, apperrors.ErrConflict) && op.Upserts():
			if err := m.remote.Upsert(ctx, op.Table, op.Payload); err != nil {
				m.logger.Warn("forced overwrite failed, keeping operation", "id", op.ID, "table", op.Table, "error", err)
				result.Failed++
				continue
			}
			if err := m.settle(ctx, op); err != nil {
				m.finish(result)
				return result, err
			}
			result.Conflicts++
			m.logger.Info("conflict resolved by overwrite", "id", op.ID, "table", op.Table, "record", op.RecordID())
			if onConflict != nil {
				onConflict(domain.ConflictMessage)
			}
		default:
			result.Failed++
			m.logger.Warn("replay failed, keeping operation", "id", op.ID, "table", op.Table, "kind", op.Kind, "error", err)
		}
	}
	m.finish(result)
	if result.Attempted > 0 {
		m.logger.Info("drain finished", "attempted", result.Attempted, "replayed", result.Replayed, "conflicts", result.Conflicts, "failed", result.Failed)
	}
	return result, nil
}

func (m *Manager) replay(ctx context.Context, op domain.Operation) error {
	if op.Upserts() {
		return m.remote.Upsert(ctx, op.Table, op.Payload)
	}
	return m.remote.Delete(ctx, op.Table, op.RecordID())
}

func (m *Manager) settle(ctx context.Context, op domain.Operation) error {
	if err := m.queue.Remove(ctx, op.ID); err != nil {
		return fmt.Errorf("remove replayed operation %s: %w", op.ID, err)
	}
	if err := m.Confirm(ctx, op.Table, op.RecordID()); err != nil {
		return fmt.Errorf("confirm %s %s: %w", op.Table, op.RecordID(), err)
	}
	return nil
}

func (m *Manager) finish(result domain.DrainResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDrainAt = m.clock.Now()
	m.replayed += result.Replayed
	m.conflicts += result.Conflicts
}

// Discard drops a queued operation without replaying it. It is the manual
// way out for an operation the remote keeps rejecting.
func (m *Manager) Discard(ctx context.Context, operationID string) (domain.Operation, error) {
	op, err := m.queue.Get(ctx, operationID)
	if err != nil {
		return domain.Operation{}, err
	}
	if err := m.queue.Remove(ctx, op.ID); err != nil {
		return domain.Operation{}, fmt.Errorf("discard operation %s: %w", op.ID, err)
	}
	m.logger.Info("operation discarded", "id", op.ID, "table", op.Table, "kind", op.Kind, "record", op.RecordID())
	return op, nil
}

func (m *Manager) Pending(ctx context.Context) ([]domain.Operation, error) {
	return m.queue.List(ctx)
}

func (m *Manager) Online(ctx context.Context) bool {
	return m.connectivity.Online(ctx)
}

// Totals returns the time of the last drain pass and the cumulative replay
// and conflict counts of this process.
func (m *Manager) Totals() (time.Time, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastDrainAt, m.replayed, m.conflicts
}

func (m *Manager) State(ctx context.Context, table, recordID string) (domain.RecordState, error) {
	pending, err := m.queue.List(ctx)
	if err != nil {
		return domain.RecordState{}, err
	}
	confirmed, err := m.confirmations.Confirmed(ctx, table, recordID)
	if err != nil {
		return domain.RecordState{}, err
	}
	return domain.Reconcile(table, recordID, pending, confirmed), nil
}

func (m *Manager) Now() time.Time {
	return m.clock.Now()
}
