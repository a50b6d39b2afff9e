package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ansitzplaner/internal/modules/remote/domain"
	remoteout "ansitzplaner/internal/modules/remote/port/out"
)

// SQLiteBackend is the server-side store: one table per collection, rows
// kept as JSON documents. It reports failures as gRPC status errors so the
// in-process and remote paths classify identically.
type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteBackend(ctx context.Context, db *sql.DB) (remoteout.Backend, error) {
	b := &SQLiteBackend{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := b.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) ensureSchema(ctx context.Context) error {
	for _, table := range domain.Tables() {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`, table)
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", table, err)
		}
	}
	return nil
}

func (b *SQLiteBackend) Select(ctx context.Context, query domain.Query) ([]domain.Record, error) {
	if err := query.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	fields := make([]string, 0, len(query.Eq))
	for field := range query.Eq {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "SELECT payload FROM %s", query.Table)
	args := make([]any, 0, len(fields))
	for i, field := range fields {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "json_extract(payload, '$.%s') = ?", field)
		args = append(args, query.Eq[field])
	}
	if query.OrderBy != "" {
		direction := "ASC"
		if query.Descending {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY json_extract(payload, '$.%s') %s, rowid", query.OrderBy, direction)
	} else {
		sb.WriteString(" ORDER BY rowid")
	}

	rows, err := b.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "select %s: %v", query.Table, err)
	}
	defer rows.Close()
	out := []domain.Record{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, status.Errorf(codes.Internal, "scan %s: %v", query.Table, err)
		}
		record := domain.Record{}
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, status.Errorf(codes.DataLoss, "decode %s: %v", query.Table, err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, status.Errorf(codes.Internal, "iterate %s: %v", query.Table, err)
	}
	return out, nil
}

func (b *SQLiteBackend) Insert(ctx context.Context, table string, records []domain.Record) error {
	if err := domain.ValidateTable(table); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return b.within(ctx, func(tx *sql.Tx) error {
		stmt := fmt.Sprintf(`INSERT INTO %s(id, payload, updated_at) VALUES(?, ?, ?)`, table)
		for _, record := range records {
			if record.ID() == "" {
				return status.Error(codes.InvalidArgument, domain.ErrMissingID.Error())
			}
			payload, err := json.Marshal(record)
			if err != nil {
				return status.Errorf(codes.InvalidArgument, "encode %s: %v", record.ID(), err)
			}
			if _, err := tx.ExecContext(ctx, stmt, record.ID(), string(payload), b.stamp()); err != nil {
				if isUniqueViolation(err) {
					return status.Errorf(codes.AlreadyExists, "%s %s already exists", table, record.ID())
				}
				return status.Errorf(codes.Internal, "insert %s %s: %v", table, record.ID(), err)
			}
		}
		return nil
	})
}

func (b *SQLiteBackend) Update(ctx context.Context, table, id string, patch domain.Record) error {
	if err := domain.ValidateTable(table); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return b.within(ctx, func(tx *sql.Tx) error {
		var payload string
		err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT payload FROM %s WHERE id = ?`, table), id).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			return status.Errorf(codes.NotFound, "%s %s not found", table, id)
		}
		if err != nil {
			return status.Errorf(codes.Internal, "load %s %s: %v", table, id, err)
		}
		current := domain.Record{}
		if err := json.Unmarshal([]byte(payload), &current); err != nil {
			return status.Errorf(codes.DataLoss, "decode %s %s: %v", table, id, err)
		}
		merged, err := json.Marshal(current.Merge(patch))
		if err != nil {
			return status.Errorf(codes.InvalidArgument, "encode %s %s: %v", table, id, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET payload = ?, updated_at = ? WHERE id = ?`, table), string(merged), b.stamp(), id); err != nil {
			return status.Errorf(codes.Internal, "update %s %s: %v", table, id, err)
		}
		return nil
	})
}

func (b *SQLiteBackend) Delete(ctx context.Context, table, id string) error {
	if err := domain.ValidateTable(table); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if _, err := b.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id); err != nil {
		return status.Errorf(codes.Internal, "delete %s %s: %v", table, id, err)
	}
	return nil
}

// Upsert inserts record or, when the id exists, overwrites the fields the
// record carries and keeps the rest. The last writer wins per field.
func (b *SQLiteBackend) Upsert(ctx context.Context, table string, record domain.Record) error {
	if err := domain.ValidateTable(table); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if record.ID() == "" {
		return status.Error(codes.InvalidArgument, domain.ErrMissingID.Error())
	}
	return b.within(ctx, func(tx *sql.Tx) error {
		merged := record
		var payload string
		err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT payload FROM %s WHERE id = ?`, table), record.ID()).Scan(&payload)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return status.Errorf(codes.Internal, "load %s %s: %v", table, record.ID(), err)
		default:
			current := domain.Record{}
			if err := json.Unmarshal([]byte(payload), &current); err != nil {
				return status.Errorf(codes.DataLoss, "decode %s %s: %v", table, record.ID(), err)
			}
			merged = current.Merge(record)
		}
		raw, err := json.Marshal(merged)
		if err != nil {
			return status.Errorf(codes.InvalidArgument, "encode %s: %v", record.ID(), err)
		}
		stmt := fmt.Sprintf(`INSERT INTO %s(id, payload, updated_at) VALUES(?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`, table)
		if _, err := tx.ExecContext(ctx, stmt, record.ID(), string(raw), b.stamp()); err != nil {
			return status.Errorf(codes.Internal, "upsert %s %s: %v", table, record.ID(), err)
		}
		return nil
	})
}

func (b *SQLiteBackend) within(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return status.Errorf(codes.Unavailable, "begin tx: %v", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return status.Errorf(codes.Internal, "commit tx: %v", err)
	}
	return nil
}

func (b *SQLiteBackend) stamp() string {
	return b.now().Format(time.RFC3339Nano)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
