package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	remotedto "ansitzplaner/internal/modules/remote/dto"
	remotein "ansitzplaner/internal/modules/remote/port/in"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
)

// replicator pairs the remote store with the sync queue: a failed remote
// write becomes a queued operation, a successful one a confirmation.
type replicator struct {
	remote remotein.Store
	sync   syncin.Usecase
	logger hclog.Logger
}

func (r replicator) enqueue(ctx context.Context, table, kind string, payload remotedto.Record) (string, error) {
	op, err := r.sync.Enqueue(ctx, syncdto.EnqueueInput{Table: table, Kind: kind, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("enqueue %s %s: %w", kind, table, err)
	}
	r.logger.Debug("queued operation", "table", table, "operation", kind, "id", op.ID, "record", op.RecordID)
	return op.ID, nil
}

func (r replicator) confirm(ctx context.Context, table string, ids ...string) error {
	for _, id := range ids {
		if err := r.sync.Confirm(ctx, table, id); err != nil {
			return fmt.Errorf("confirm %s %s: %w", table, id, err)
		}
	}
	return nil
}

// keepPending appends cached records that are still waiting in the queue
// and therefore missing from a fresh remote read.
func keepPending[T any](ctx context.Context, r replicator, table string, fetched, cached []T, idOf func(T) string) ([]T, error) {
	seen := make(map[string]struct{}, len(fetched))
	for _, v := range fetched {
		seen[idOf(v)] = struct{}{}
	}
	out := fetched
	for _, v := range cached {
		if _, ok := seen[idOf(v)]; ok {
			continue
		}
		state, err := r.sync.RecordState(ctx, table, idOf(v))
		if err != nil {
			return nil, fmt.Errorf("record state %s %s: %w", table, idOf(v), err)
		}
		if state.State == syncdto.StatePending {
			out = append(out, v)
		}
	}
	return out, nil
}

func toRecord(v any) (remotedto.Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	record := remotedto.Record{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}

func fromRecords[T any](records []remotedto.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, record := range records {
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode record %v: %w", record["id"], err)
		}
		out = append(out, v)
	}
	return out, nil
}
