package dto

// Table names accepted by the remote store.
const (
	TableSessions  = "ansitze"
	TableSightings = "beobachtungen"
	TableStands    = "ansitzeinrichtungen"
)

type Record = map[string]any

type SelectInput struct {
	Table      string
	Eq         map[string]string
	OrderBy    string
	Descending bool
}

type DriverInfo struct {
	Name    string
	Version string
	Binary  string
	Enabled bool
}
