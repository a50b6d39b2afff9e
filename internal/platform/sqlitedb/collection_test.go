package sqlitedb_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/sqlitedb"
)

type doc struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newCollection(t *testing.T) (*sqlitedb.Collection[doc], func()) {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	c, err := sqlitedb.NewCollection[doc](context.Background(), db, "docs")
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	return c, func() { _ = db.Close() }
}

func TestCollectionPutIsIdempotentUpsert(t *testing.T) {
	t.Parallel()
	c, done := newCollection(t)
	defer done()
	ctx := context.Background()

	if err := c.Put(ctx, "a", "g1", doc{ID: "a", Name: "first"}); err != nil {
		t.Fatalf("put a: %v", err)
	}
	if err := c.Put(ctx, "b", "g1", doc{ID: "b", Name: "second"}); err != nil {
		t.Fatalf("put b: %v", err)
	}
	if err := c.Put(ctx, "a", "g1", doc{ID: "a", Name: "first", Count: 2}); err != nil {
		t.Fatalf("re-put a: %v", err)
	}

	got, err := c.ListByIndex(ctx, "g1")
	if err != nil {
		t.Fatalf("list by index: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[0].Count != 2 || got[1].ID != "b" {
		t.Fatalf("unexpected docs: %+v", got)
	}
	n, err := c.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 docs, got %d (%v)", n, err)
	}
}

func TestCollectionGetMissingIsNotFound(t *testing.T) {
	t.Parallel()
	c, done := newCollection(t)
	defer done()

	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCollectionDeleteAndIndexIsolation(t *testing.T) {
	t.Parallel()
	c, done := newCollection(t)
	defer done()
	ctx := context.Background()

	_ = c.Put(ctx, "a", "g1", doc{ID: "a"})
	_ = c.Put(ctx, "b", "g2", doc{ID: "b"})
	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	g1, _ := c.ListByIndex(ctx, "g1")
	g2, _ := c.ListByIndex(ctx, "g2")
	if len(g1) != 0 || len(g2) != 1 {
		t.Fatalf("unexpected index contents: g1=%v g2=%v", g1, g2)
	}
}

func TestTxManagerRollsBack(t *testing.T) {
	t.Parallel()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	c, err := sqlitedb.NewCollection[doc](ctx, db, "docs")
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}

	boom := errors.New("boom")
	err = sqlitedb.NewTxManager(db).Within(ctx, func(ctx context.Context) error {
		if err := c.Put(ctx, "a", "", doc{ID: "a"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n, _ := c.Count(ctx); n != 0 {
		t.Fatalf("expected rollback, found %d docs", n)
	}
}
