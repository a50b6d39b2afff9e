package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ansitzplaner/internal/modules/remote/domain"
	"ansitzplaner/internal/modules/remote/dto"
	"ansitzplaner/internal/modules/remote/usecase"
	apperrors "ansitzplaner/internal/platform/errors"
)

type fakeBackend struct {
	err      error
	rows     []domain.Record
	inserted []domain.Record
	deadline bool
}

func (f *fakeBackend) Select(ctx context.Context, _ domain.Query) ([]domain.Record, error) {
	_, f.deadline = ctx.Deadline()
	return f.rows, f.err
}
func (f *fakeBackend) Insert(_ context.Context, _ string, records []domain.Record) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, records...)
	return nil
}
func (f *fakeBackend) Update(context.Context, string, string, domain.Record) error { return f.err }
func (f *fakeBackend) Delete(context.Context, string, string) error                { return f.err }
func (f *fakeBackend) Upsert(context.Context, string, domain.Record) error         { return f.err }

func TestClassifiesAlreadyExistsAsConflict(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{err: status.Error(codes.AlreadyExists, "duplicate key")}
	store := usecase.NewInteractor(backend, time.Second, nil)
	err := store.Insert(context.Background(), dto.TableSessions, dto.Record{"id": "s1"})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("conflict must not be classified as unavailable")
	}
}

func TestClassifiesOtherFailuresAsUnavailable(t *testing.T) {
	t.Parallel()
	cases := []error{
		status.Error(codes.Unavailable, "connection refused"),
		status.Error(codes.DeadlineExceeded, "timeout"),
		errors.New("plain failure"),
	}
	for _, cause := range cases {
		store := usecase.NewInteractor(&fakeBackend{err: cause}, time.Second, nil)
		if err := store.Upsert(context.Background(), dto.TableStands, dto.Record{"id": "e1"}); !errors.Is(err, apperrors.ErrRemoteUnavailable) {
			t.Fatalf("expected unavailable for %v, got %v", cause, err)
		}
	}
}

func TestNilBackendIsUnavailable(t *testing.T) {
	t.Parallel()
	store := usecase.NewInteractor(nil, 0, nil)
	if _, err := store.Select(context.Background(), dto.SelectInput{Table: dto.TableStands}); !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if err := store.Delete(context.Background(), dto.TableStands, "e1"); !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestRejectsInvalidInputBeforeCallingBackend(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{}
	store := usecase.NewInteractor(backend, time.Second, nil)
	if err := store.Insert(context.Background(), "profiles", dto.Record{"id": "x"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown table, got %v", err)
	}
	if err := store.Insert(context.Background(), dto.TableSessions, dto.Record{"erfolg": true}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing id, got %v", err)
	}
	if len(backend.inserted) != 0 {
		t.Fatalf("backend must not be called, got %d rows", len(backend.inserted))
	}
}

func TestSelectAppliesCallDeadline(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{rows: []domain.Record{{"id": "a"}, {"id": "b"}}}
	store := usecase.NewInteractor(backend, time.Second, nil)
	rows, err := store.Select(context.Background(), dto.SelectInput{Table: dto.TableSessions, Eq: map[string]string{"revier_id": "r1"}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 2 || rows[1]["id"] != "b" {
		t.Fatalf("unexpected rows: %v", rows)
	}
	if !backend.deadline {
		t.Fatalf("expected call context with deadline")
	}
}
