package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// Table names mirror the collections of the hosted backend.
const (
	TableSessions  = "ansitze"
	TableSightings = "beobachtungen"
	TableStands    = "ansitzeinrichtungen"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrMissingID    = errors.New("record id is required")
)

var fieldName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Record is one row as a JSON object keyed by column name.
type Record map[string]any

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Merge returns a copy of r with every key of patch applied on top. The id
// is never overwritten.
func (r Record) Merge(patch Record) Record {
	out := Record{}
	for k, v := range r {
		out[k] = v
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// Query selects rows of one table by equality on top-level fields.
type Query struct {
	Table      string
	Eq         map[string]string
	OrderBy    string
	Descending bool
}

func Tables() []string {
	return []string{TableSessions, TableSightings, TableStands}
}

func ValidateTable(table string) error {
	for _, t := range Tables() {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

func ValidateField(name string) error {
	if !fieldName.MatchString(name) {
		return fmt.Errorf("invalid field name %q", name)
	}
	return nil
}

func (q Query) Validate() error {
	if err := ValidateTable(q.Table); err != nil {
		return err
	}
	for field := range q.Eq {
		if err := ValidateField(field); err != nil {
			return err
		}
	}
	if q.OrderBy != "" {
		if err := ValidateField(q.OrderBy); err != nil {
			return err
		}
	}
	return nil
}
