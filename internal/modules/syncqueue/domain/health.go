package domain

import "time"

type Health string

const (
	HealthGood     Health = "good"
	HealthDegraded Health = "degraded"
	HealthDown     Health = "down"
)

const (
	backlogDegraded = 10
	backlogDown     = 100
	ageDegraded     = time.Hour
	ageDown         = 24 * time.Hour
)

// DrainResult counts what one drain pass did.
type DrainResult struct {
	Attempted int
	Replayed  int
	Conflicts int
	Failed    int
	Offline   bool
	Skipped   bool
}

// AssessHealth grades the queue from connectivity, backlog size and the age
// of the oldest queued operation.
func AssessHealth(online bool, pending []Operation, now time.Time) (Health, string) {
	if !online {
		return HealthDown, "offline"
	}
	var oldest time.Duration
	if len(pending) > 0 {
		oldest = now.Sub(pending[0].CreatedAt)
	}
	switch {
	case len(pending) >= backlogDown || oldest >= ageDown:
		return HealthDown, "backlog not draining"
	case len(pending) >= backlogDegraded || oldest >= ageDegraded:
		return HealthDegraded, "backlog growing"
	}
	return HealthGood, "in sync"
}
