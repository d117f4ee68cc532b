package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/misrentas/misrentas-backend/internal/domain"
)

// ListingStore is the remote document-store boundary for listings.
//
// Subscribe establishes a live query: the callback receives the complete
// current collection immediately and again after every change, never a delta.
// An empty collection is a valid push, not an error. The returned cancel
// function releases the subscription and is safe to call more than once.
//
// Writes either persist or fail; a caller must not assume success until the
// call returns. A read-only store rejects every write with domain.ErrDemoMode.
type ListingStore interface {
	Subscribe(ctx context.Context, onChange func([]domain.Listing)) (cancel func(), err error)
	Create(ctx context.Context, rec domain.ListingRecord) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, rec domain.ListingRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	Demo() bool
}
