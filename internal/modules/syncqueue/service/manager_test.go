package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ansitzplaner/internal/modules/remote/dto"
	"ansitzplaner/internal/modules/syncqueue/domain"
	"ansitzplaner/internal/modules/syncqueue/service"
	"ansitzplaner/internal/platform/clock"
	apperrors "ansitzplaner/internal/platform/errors"
)

type memQueue struct {
	mu        sync.Mutex
	ops       []domain.Operation
	appendErr error
}

func (q *memQueue) Append(_ context.Context, op domain.Operation) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.appendErr != nil {
		return q.appendErr
	}
	q.ops = append(q.ops, op)
	return nil
}

func (q *memQueue) List(context.Context) ([]domain.Operation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Operation(nil), q.ops...), nil
}

func (q *memQueue) Get(_ context.Context, id string) (domain.Operation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, op := range q.ops {
		if op.ID == id {
			return op, nil
		}
	}
	return domain.Operation{}, apperrors.ErrNotFound
}

func (q *memQueue) Remove(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, op := range q.ops {
		if op.ID == id {
			q.ops = append(q.ops[:i], q.ops[i+1:]...)
			return nil
		}
	}
	return nil
}

type memConfirmations struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (c *memConfirmations) Confirm(_ context.Context, conf domain.Confirmation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keys == nil {
		c.keys = map[string]bool{}
	}
	c.keys[domain.ConfirmationKey(conf.Table, conf.RecordID)] = true
	return nil
}

func (c *memConfirmations) Confirmed(_ context.Context, table, recordID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys[domain.ConfirmationKey(table, recordID)], nil
}

type call struct {
	verb  string
	table string
	id    string
}

// fakeRemote answers each call with the next queued error for the record
// id, or nil when none is left.
type fakeRemote struct {
	mu      sync.Mutex
	errs    map[string][]error
	calls   []call
	entered chan struct{}
	release chan struct{}
}

func (f *fakeRemote) next(verb, table, id string) error {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{verb: verb, table: table, id: id})
	queue := f.errs[id]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	f.errs[id] = queue[1:]
	return err
}

func (f *fakeRemote) Select(context.Context, dto.SelectInput) ([]dto.Record, error) { return nil, nil }
func (f *fakeRemote) Insert(_ context.Context, table string, records ...dto.Record) error {
	return f.next("insert", table, "")
}
func (f *fakeRemote) Update(_ context.Context, table, id string, _ dto.Record) error {
	return f.next("update", table, id)
}
func (f *fakeRemote) Delete(_ context.Context, table, id string) error {
	return f.next("delete", table, id)
}
func (f *fakeRemote) Upsert(_ context.Context, table string, record dto.Record) error {
	id, _ := record["id"].(string)
	return f.next("upsert", table, id)
}

func (f *fakeRemote) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type fakeConnectivity struct {
	mu     sync.Mutex
	online bool
	subs   map[int]func(bool)
	next   int
}

func (c *fakeConnectivity) Online(context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *fakeConnectivity) Subscribe(fn func(bool)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = map[int]func(bool){}
	}
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *fakeConnectivity) set(online bool) {
	c.mu.Lock()
	c.online = online
	subs := make([]func(bool), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(online)
	}
}

func (c *fakeConnectivity) subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("op-%d", s.n)
}

var t0 = time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)

func newManager(queue *memQueue, remote *fakeRemote, conn *fakeConnectivity) (*service.Manager, *memConfirmations) {
	confirmations := &memConfirmations{}
	return service.NewManager(queue, confirmations, remote, conn, clock.Fixed(t0), &seqID{}, nil), confirmations
}

func enqueue(t *testing.T, m *service.Manager, table string, kind domain.Kind, id string) domain.Operation {
	t.Helper()
	op, err := m.Enqueue(context.Background(), table, kind, map[string]any{"id": id})
	if err != nil {
		t.Fatalf("enqueue %s: %v", id, err)
	}
	return op
}

func TestDrainKeepsFailedOperationAndPreservesOrder(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	remote := &fakeRemote{errs: map[string][]error{"a2": {apperrors.ErrRemoteUnavailable}}}
	m, _ := newManager(queue, remote, &fakeConnectivity{online: true})
	enqueue(t, m, dto.TableSessions, domain.KindInsert, "a1")
	failing := enqueue(t, m, dto.TableSessions, domain.KindInsert, "a2")
	enqueue(t, m, dto.TableSightings, domain.KindInsert, "b1")

	result, err := m.Drain(context.Background(), nil)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Attempted != 3 || result.Replayed != 2 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	left, _ := queue.List(context.Background())
	if len(left) != 1 || left[0].ID != failing.ID {
		t.Fatalf("expected only the failed op to remain, got %+v", left)
	}
	calls := remote.recorded()
	if len(calls) != 3 || calls[0].id != "a1" || calls[1].id != "a2" || calls[2].id != "b1" {
		t.Fatalf("expected creation order replay, got %+v", calls)
	}
	if left[0].Payload["id"] != "a2" || left[0].Kind != domain.KindInsert {
		t.Fatalf("failed op must stay unchanged, got %+v", left[0])
	}

	result, err = m.Drain(context.Background(), nil)
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if result.Replayed != 1 {
		t.Fatalf("expected retry on the next drain, got %+v", result)
	}
}

func TestDrainResolvesConflictByOverwrite(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	remote := &fakeRemote{errs: map[string][]error{"e1": {fmt.Errorf("upsert: %w", apperrors.ErrConflict)}}}
	m, confirmations := newManager(queue, remote, &fakeConnectivity{online: true})
	enqueue(t, m, dto.TableStands, domain.KindUpdate, "e1")

	messages := []string{}
	result, err := m.Drain(context.Background(), func(msg string) { messages = append(messages, msg) })
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Conflicts != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(messages) != 1 || messages[0] != domain.ConflictMessage {
		t.Fatalf("expected one conflict message, got %v", messages)
	}
	calls := remote.recorded()
	if len(calls) != 2 || calls[1].verb != "upsert" {
		t.Fatalf("expected a forced upsert after the conflict, got %+v", calls)
	}
	if left, _ := queue.List(context.Background()); len(left) != 0 {
		t.Fatalf("expected empty queue, got %d", len(left))
	}
	if ok, _ := confirmations.Confirmed(context.Background(), dto.TableStands, "e1"); !ok {
		t.Fatalf("expected record to be confirmed")
	}
}

func TestDrainKeepsOperationWhenForcedOverwriteFails(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	remote := &fakeRemote{errs: map[string][]error{"e1": {apperrors.ErrConflict, apperrors.ErrRemoteUnavailable}}}
	m, _ := newManager(queue, remote, &fakeConnectivity{online: true})
	enqueue(t, m, dto.TableStands, domain.KindInsert, "e1")

	called := 0
	result, err := m.Drain(context.Background(), func(string) { called++ })
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Failed != 1 || called != 0 {
		t.Fatalf("expected failure without notification, got %+v, %d", result, called)
	}
	if left, _ := queue.List(context.Background()); len(left) != 1 {
		t.Fatalf("expected op to stay queued")
	}
}

func TestDrainReplaysDeleteByID(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	remote := &fakeRemote{}
	m, _ := newManager(queue, remote, &fakeConnectivity{online: true})
	enqueue(t, m, dto.TableStands, domain.KindDelete, "e9")

	if _, err := m.Drain(context.Background(), nil); err != nil {
		t.Fatalf("drain: %v", err)
	}
	calls := remote.recorded()
	if len(calls) != 1 || calls[0].verb != "delete" || calls[0].id != "e9" {
		t.Fatalf("expected delete by id, got %+v", calls)
	}
}

func TestDrainOfflineIsNoop(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	remote := &fakeRemote{}
	m, _ := newManager(queue, remote, &fakeConnectivity{online: false})
	enqueue(t, m, dto.TableSessions, domain.KindInsert, "a1")

	result, err := m.Drain(context.Background(), nil)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if !result.Offline || result.Attempted != 0 {
		t.Fatalf("expected offline no-op, got %+v", result)
	}
	if len(remote.recorded()) != 0 {
		t.Fatalf("remote must not be contacted while offline")
	}
	if left, _ := queue.List(context.Background()); len(left) != 1 {
		t.Fatalf("queue must be untouched")
	}
}

func TestConcurrentDrainIsSkipped(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	remote := &fakeRemote{entered: make(chan struct{}), release: make(chan struct{})}
	m, _ := newManager(queue, remote, &fakeConnectivity{online: true})
	enqueue(t, m, dto.TableSessions, domain.KindInsert, "a1")

	done := make(chan domain.DrainResult, 1)
	go func() {
		result, _ := m.Drain(context.Background(), nil)
		done <- result
	}()
	<-remote.entered

	second, err := m.Drain(context.Background(), nil)
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if !second.Skipped {
		t.Fatalf("expected concurrent drain to be skipped, got %+v", second)
	}
	close(remote.release)
	first := <-done
	if first.Replayed != 1 {
		t.Fatalf("expected first drain to replay the op, got %+v", first)
	}
}

func TestEnqueueValidatesAndPropagatesLocalFailure(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	m, _ := newManager(queue, &fakeRemote{}, &fakeConnectivity{})

	payload := map[string]any{"id": "a1", "erfolg": true}
	op, err := m.Enqueue(context.Background(), dto.TableSessions, domain.KindInsert, payload)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if op.ID == "" || !op.CreatedAt.Equal(t0) {
		t.Fatalf("expected id and timestamp, got %+v", op)
	}
	payload["erfolg"] = false
	if op.Payload["erfolg"] != true {
		t.Fatalf("queued payload must not alias the caller's map")
	}

	if _, err := m.Enqueue(context.Background(), dto.TableSessions, "MERGE", map[string]any{"id": "a2"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	queue.appendErr = fmt.Errorf("disk full: %w", apperrors.ErrLocalStorage)
	if _, err := m.Enqueue(context.Background(), dto.TableSessions, domain.KindInsert, map[string]any{"id": "a3"}); !errors.Is(err, apperrors.ErrLocalStorage) {
		t.Fatalf("expected local storage failure, got %v", err)
	}
}

func TestDiscardAndRecordState(t *testing.T) {
	t.Parallel()
	queue := &memQueue{}
	m, _ := newManager(queue, &fakeRemote{}, &fakeConnectivity{online: true})
	ctx := context.Background()

	state, err := m.State(ctx, dto.TableStands, "e1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.State != domain.StateLocal {
		t.Fatalf("expected local, got %s", state.State)
	}

	op := enqueue(t, m, dto.TableStands, domain.KindInsert, "e1")
	state, _ = m.State(ctx, dto.TableStands, "e1")
	if state.State != domain.StatePending || state.OperationID != op.ID {
		t.Fatalf("expected pending on %s, got %+v", op.ID, state)
	}

	if _, err := m.Discard(ctx, op.ID); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if _, err := m.Discard(ctx, op.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on second discard, got %v", err)
	}

	enqueue(t, m, dto.TableStands, domain.KindInsert, "e1")
	if _, err := m.Drain(ctx, nil); err != nil {
		t.Fatalf("drain: %v", err)
	}
	state, _ = m.State(ctx, dto.TableStands, "e1")
	if state.State != domain.StateConfirmed {
		t.Fatalf("expected confirmed after replay, got %s", state.State)
	}
	last, replayed, _ := m.Totals()
	if !last.Equal(t0) || replayed != 1 {
		t.Fatalf("unexpected totals: %v %d", last, replayed)
	}
}
