package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ansitzplaner/internal/modules/hunting/domain"
	remotedto "ansitzplaner/internal/modules/remote/dto"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	apperrors "ansitzplaner/internal/platform/errors"
)

type remoteCall struct {
	op    string
	table string
	ids   []string
}

type fakeRemote struct {
	mu      sync.Mutex
	calls   []remoteCall
	failFor map[string]error // keyed by "op/table"
	rows    map[string][]remotedto.Record
}

func (f *fakeRemote) fail(op, table string) error {
	if f.failFor == nil {
		return nil
	}
	return f.failFor[op+"/"+table]
}

func (f *fakeRemote) record(op, table string, ids ...string) {
	f.calls = append(f.calls, remoteCall{op: op, table: table, ids: ids})
}

func (f *fakeRemote) Select(_ context.Context, in remotedto.SelectInput) ([]remotedto.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("select", in.Table)
	if err := f.fail("select", in.Table); err != nil {
		return nil, err
	}
	return f.rows[in.Table], nil
}

func (f *fakeRemote) Insert(_ context.Context, table string, records ...remotedto.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, fmt.Sprint(r["id"]))
	}
	f.record("insert", table, ids...)
	return f.fail("insert", table)
}

func (f *fakeRemote) Update(_ context.Context, table, id string, _ remotedto.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update", table, id)
	return f.fail("update", table)
}

func (f *fakeRemote) Delete(_ context.Context, table, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete", table, id)
	return f.fail("delete", table)
}

func (f *fakeRemote) Upsert(_ context.Context, table string, r remotedto.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("upsert", table, fmt.Sprint(r["id"]))
	return f.fail("upsert", table)
}

type fakeSync struct {
	mu         sync.Mutex
	enqueued   []syncdto.EnqueueInput
	confirmed  []string
	enqueueErr error
}

func (f *fakeSync) Enqueue(_ context.Context, in syncdto.EnqueueInput) (syncdto.OperationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return syncdto.OperationOutput{}, f.enqueueErr
	}
	f.enqueued = append(f.enqueued, in)
	return syncdto.OperationOutput{
		ID:       fmt.Sprintf("op-%d", len(f.enqueued)),
		Table:    in.Table,
		Kind:     in.Kind,
		RecordID: fmt.Sprint(in.Payload["id"]),
	}, nil
}

func (f *fakeSync) Confirm(_ context.Context, table, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, table+"/"+recordID)
	return nil
}

func (f *fakeSync) Drain(context.Context, func(string)) (syncdto.DrainOutput, error) {
	return syncdto.DrainOutput{}, nil
}

func (f *fakeSync) Discard(context.Context, string) error { return nil }

func (f *fakeSync) Status(context.Context) (syncdto.StatusOutput, error) {
	return syncdto.StatusOutput{}, nil
}

func (f *fakeSync) RecordState(_ context.Context, table, recordID string) (syncdto.RecordStateOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := syncdto.RecordStateOutput{Table: table, RecordID: recordID, State: syncdto.StateLocal}
	for i, in := range f.enqueued {
		if in.Table == table && fmt.Sprint(in.Payload["id"]) == recordID {
			out.State = syncdto.StatePending
			out.OperationID = fmt.Sprintf("op-%d", i+1)
		}
	}
	return out, nil
}

type memLocal struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	stands   map[string]domain.Stand
	saveErr  error
}

func newMemLocal() *memLocal {
	return &memLocal{sessions: map[string]domain.Session{}, stands: map[string]domain.Stand{}}
}

func (m *memLocal) SaveSession(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memLocal) Sessions(_ context.Context, groundID string) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Session{}
	for _, s := range m.sessions {
		if s.GroundID == groundID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memLocal) Sightings(_ context.Context, sessionID string) ([]domain.Sighting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID].Sightings, nil
}

func (m *memLocal) SaveStands(_ context.Context, stands ...domain.Stand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, st := range stands {
		m.stands[st.ID] = st
	}
	return nil
}

func (m *memLocal) Stand(_ context.Context, id string) (domain.Stand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stands[id]
	if !ok {
		return domain.Stand{}, apperrors.ErrNotFound
	}
	return st, nil
}

func (m *memLocal) Stands(_ context.Context, groundID string) ([]domain.Stand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Stand{}
	for _, st := range m.stands {
		if st.GroundID == groundID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memLocal) DeleteStand(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stands, id)
	return nil
}

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}
