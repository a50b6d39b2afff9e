package dto

import "time"

// Operation kinds accepted by Enqueue.
const (
	KindInsert = "INSERT"
	KindUpdate = "UPDATE"
	KindDelete = "DELETE"
)

// Reconciliation states reported by RecordState.
const (
	StateLocal     = "local"
	StatePending   = "pending"
	StateConfirmed = "confirmed"
)

type EnqueueInput struct {
	Table   string
	Kind    string
	Payload map[string]any
}

type OperationOutput struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	Kind      string    `json:"operation"`
	RecordID  string    `json:"record_id"`
	CreatedAt time.Time `json:"created_at"`
}

type DrainOutput struct {
	Attempted int      `json:"attempted"`
	Replayed  int      `json:"replayed"`
	Conflicts int      `json:"conflicts"`
	Failed    int      `json:"failed"`
	Remaining int      `json:"remaining"`
	Offline   bool     `json:"offline"`
	Skipped   bool     `json:"skipped"`
	Messages  []string `json:"messages,omitempty"`
}

type StatusOutput struct {
	Online      bool              `json:"online"`
	Health      string            `json:"health"`
	Reason      string            `json:"reason"`
	Pending     []OperationOutput `json:"pending"`
	LastDrainAt time.Time         `json:"last_drain_at"`
	Replayed    int               `json:"replayed_total"`
	Conflicts   int               `json:"conflicts_total"`
}

type RecordStateOutput struct {
	Table       string `json:"table"`
	RecordID    string `json:"record_id"`
	State       string `json:"state"`
	OperationID string `json:"operation_id,omitempty"`
}
