package ports

import (
	"context"

	"github.com/nexustrade/orderflow/pkg/domain"
)

// OrderStore defines the interface for persisting order workflow state.
// It is the only resource shared across concurrent workflow invocations,
// so every implementation must serialize mutating access per order ID:
// readers observe either a fully-prior or fully-post state of a key,
// never a partial merge.
type OrderStore interface {
	// Put creates or fully replaces the record stored under id.
	Put(ctx context.Context, id string, rec *domain.OrderRecord) error

	// Merge overlays the patch onto the existing record under a single
	// atomic critical section, creating the record if absent. It returns
	// the merged result.
	Merge(ctx context.Context, id string, patch domain.OrderPatch) (*domain.OrderRecord, error)

	// Get retrieves the record for id.
	// Returns domain.ErrOrderNotFound if the order does not exist.
	Get(ctx context.Context, id string) (*domain.OrderRecord, error)

	// Delete removes the record for id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
