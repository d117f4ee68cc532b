// Package demo provides the read-only fallback listing store used when no
// live store is configured or reachable.
package demo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/repository/ports"
)

var demoOriginalPrice = 4500.0

// dataset is the fixed sample collection. Every subscriber sees exactly this.
var dataset = []domain.Listing{
	{
		ID:            uuid.MustParse("6f1b0a52-9a40-4f5e-8c1d-3d2aa1e0de01"),
		Title:         "Sample Villa (Demo Mode)",
		Location:      "Mazatlán, Zona Dorada",
		Description:   "This is a sample property. Configure the store credentials to persist real listings.",
		Price:         3500,
		OriginalPrice: &demoOriginalPrice,
		Category:      domain.CategoryPool,
		Media:         domain.StringList{"https://images.unsplash.com/photo-1613490493576-7fde63acd811?q=80&w=1600&auto=format&fit=crop"},
		ImageURL:      "https://images.unsplash.com/photo-1613490493576-7fde63acd811?q=80&w=1600&auto=format&fit=crop",
		Amenities:     domain.StringList{"Wifi", "Pool", "Demo"},
		HostPhone:     "521234567890",
		CreatedAt:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	},
}

// Dataset returns a copy of the fixed fallback collection.
func Dataset() []domain.Listing {
	out := make([]domain.Listing, len(dataset))
	copy(out, dataset)
	return out
}

// Store serves the fixed dataset and refuses every write. It never touches
// the network.
type Store struct{}

func NewStore() *Store { return &Store{} }

func (s *Store) Subscribe(ctx context.Context, onChange func([]domain.Listing)) (func(), error) {
	onChange(Dataset())
	return func() {}, nil
}

func (s *Store) Create(ctx context.Context, rec domain.ListingRecord) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrDemoMode
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, rec domain.ListingRecord) error {
	return domain.ErrDemoMode
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	return domain.ErrDemoMode
}

func (s *Store) Demo() bool { return true }

var _ ports.ListingStore = (*Store)(nil)
