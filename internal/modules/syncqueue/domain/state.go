package domain

import "time"

// State is the reconciliation state of a locally known record.
type State string

const (
	StateLocal     State = "local"
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
)

type RecordState struct {
	Table       string
	RecordID    string
	State       State
	OperationID string
}

// Confirmation records that the remote store acknowledged a write.
type Confirmation struct {
	Table       string    `json:"table"`
	RecordID    string    `json:"record_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

func ConfirmationKey(table, recordID string) string {
	return table + "/" + recordID
}

// Reconcile derives a record's state. A queued operation outranks an older
// confirmation; the newest queued operation is reported.
func Reconcile(table, recordID string, queued []Operation, confirmed bool) RecordState {
	state := RecordState{Table: table, RecordID: recordID, State: StateLocal}
	if confirmed {
		state.State = StateConfirmed
	}
	for _, op := range queued {
		if op.Table == table && op.RecordID() == recordID {
			state.State = StatePending
			state.OperationID = op.ID
		}
	}
	return state
}
