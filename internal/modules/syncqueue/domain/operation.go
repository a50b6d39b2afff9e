package domain

import (
	"errors"
	"fmt"
	"time"
)

type Kind string

const (
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

// ConflictMessage is shown to the user after a conflict was resolved by
// overwriting the remote copy.
const ConflictMessage = "Daten wurden aktualisiert (Konflikt aufgelöst)."

var ErrOperationNotFound = errors.New("sync operation not found")

// Operation is a remote mutation that could not be applied when issued. It
// is created once and removed after a successful replay; it is never edited.
type Operation struct {
	ID        string         `json:"id"`
	Table     string         `json:"table"`
	Kind      Kind           `json:"operation"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

func (k Kind) Validate() error {
	switch k {
	case KindInsert, KindUpdate, KindDelete:
		return nil
	default:
		return fmt.Errorf("unknown operation kind: %s", k)
	}
}

func (o Operation) Validate() error {
	if o.Table == "" {
		return fmt.Errorf("operation table is required")
	}
	if err := o.Kind.Validate(); err != nil {
		return err
	}
	if o.RecordID() == "" {
		return fmt.Errorf("operation payload needs an id")
	}
	return nil
}

// RecordID is the primary key of the row the operation targets.
func (o Operation) RecordID() string {
	id, _ := o.Payload["id"].(string)
	return id
}

// Upserts reports whether the replay writes the payload. Deletes only
// carry the id.
func (o Operation) Upserts() bool {
	return o.Kind == KindInsert || o.Kind == KindUpdate
}
