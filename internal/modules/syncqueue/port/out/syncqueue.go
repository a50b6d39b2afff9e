package out

import (
	"context"

	"ansitzplaner/internal/modules/syncqueue/domain"
)

// Queue persists operations in creation order.
type Queue interface {
	Append(ctx context.Context, op domain.Operation) error
	List(ctx context.Context) ([]domain.Operation, error)
	Get(ctx context.Context, id string) (domain.Operation, error)
	Remove(ctx context.Context, id string) error
}

type ConfirmationStore interface {
	Confirm(ctx context.Context, c domain.Confirmation) error
	Confirmed(ctx context.Context, table, recordID string) (bool, error)
}

// Connectivity reports reachability of the remote store. Subscribers are
// called with the new state on every transition.
type Connectivity interface {
	Online(ctx context.Context) bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}
