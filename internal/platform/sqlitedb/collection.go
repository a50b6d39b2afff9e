package sqlitedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	apperrors "ansitzplaner/internal/platform/errors"
)

var tableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Collection is a keyed set of JSON documents with one secondary grouping
// key. Puts are idempotent upserts; list results come back in first-insert
// order. Every failure is wrapped with apperrors.ErrLocalStorage.
type Collection[T any] struct {
	db    *sql.DB
	table string
}

func NewCollection[T any](ctx context.Context, db *sql.DB, table string) (*Collection[T], error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: table name %q", apperrors.ErrInvalidInput, table)
	}
	c := &Collection[T]{db: db, table: table}
	if err := c.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collection[T]) ensureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			group_key TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL
		)`, c.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_group ON %s(group_key)`, c.table, c.table),
	}
	for _, stmt := range stmts {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w: %w", c.table, apperrors.ErrLocalStorage, err)
		}
	}
	return nil
}

func (c *Collection[T]) Put(ctx context.Context, id, group string, value T) error {
	if id == "" {
		return fmt.Errorf("%w: empty key for %s", apperrors.ErrInvalidInput, c.table)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", c.table, id, err)
	}
	query := fmt.Sprintf(`INSERT INTO %s(id, group_key, payload) VALUES(?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET group_key=excluded.group_key, payload=excluded.payload`, c.table)
	if _, err := conn(ctx, c.db).ExecContext(ctx, query, id, group, string(payload)); err != nil {
		return fmt.Errorf("put %s %s: %w: %w", c.table, id, apperrors.ErrLocalStorage, err)
	}
	return nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var payload string
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE id = ?`, c.table)
	err := conn(ctx, c.db).QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%s %s: %w", c.table, id, apperrors.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("get %s %s: %w: %w", c.table, id, apperrors.ErrLocalStorage, err)
	}
	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return zero, fmt.Errorf("decode %s %s: %w: %w", c.table, id, apperrors.ErrLocalStorage, err)
	}
	return out, nil
}

// ListByIndex returns every document whose grouping key equals group.
func (c *Collection[T]) ListByIndex(ctx context.Context, group string) ([]T, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE group_key = ? ORDER BY seq`, c.table)
	return c.list(ctx, query, group)
}

// List returns the whole collection.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s ORDER BY seq`, c.table)
	return c.list(ctx, query)
}

func (c *Collection[T]) list(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := conn(ctx, c.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w: %w", c.table, apperrors.ErrLocalStorage, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w: %w", c.table, apperrors.ErrLocalStorage, err)
		}
		var item T
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w: %w", c.table, apperrors.ErrLocalStorage, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w: %w", c.table, apperrors.ErrLocalStorage, err)
	}
	return out, nil
}

// Delete removes id; deleting a missing key is not an error.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, c.table)
	if _, err := conn(ctx, c.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s %s: %w: %w", c.table, id, apperrors.ErrLocalStorage, err)
	}
	return nil
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, c.table)
	if err := conn(ctx, c.db).QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w: %w", c.table, apperrors.ErrLocalStorage, err)
	}
	return n, nil
}
