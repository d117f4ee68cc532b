package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDemoMode is returned by the demo store for every write. Demo mode is
// read-only: nothing the caller submits is persisted anywhere.
var ErrDemoMode = errors.New("demo mode: changes are not persisted")

type Category string

const (
	CategoryAll    Category = "all"
	CategoryBeach  Category = "beach"
	CategoryPool   Category = "pool"
	CategoryCabin  Category = "cabin"
	CategoryLuxury Category = "luxury"
)

// DefaultCategory is applied to drafts that do not name a category.
const DefaultCategory = CategoryBeach

// Categories lists every category in display order. CategoryAll is a filter
// value only and is never stored on a listing.
func Categories() []Category {
	return []Category{CategoryAll, CategoryBeach, CategoryPool, CategoryCabin, CategoryLuxury}
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case CategoryAll, CategoryBeach, CategoryPool, CategoryCabin, CategoryLuxury:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Storable reports whether the category may be written on a listing.
func (c Category) Storable() bool {
	return c != CategoryAll && c != ""
}

// StringList maps a Postgres text[] column onto an ordered []string. Order is
// preserved and duplicates are kept.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(value any) error {
	return (*pq.StringArray)(l).Scan(value)
}

// Listing is the persisted rental-property entity. Field names on the wire
// match the stored document shape.
type Listing struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Location      string     `db:"location" json:"location"`
	Description   string     `db:"description" json:"description"`
	Price         float64    `db:"price" json:"price"`
	OriginalPrice *float64   `db:"original_price" json:"originalPrice,omitempty"`
	Category      Category   `db:"category" json:"category"`
	Media         StringList `db:"media" json:"media"`
	ImageURL      string     `db:"image_url" json:"imageUrl"`
	Amenities     StringList `db:"amenities" json:"amenities"`
	HostPhone     string     `db:"host_phone" json:"hostPhone"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsOnOffer reports whether the listing carries a struck-through price.
func (l Listing) IsOnOffer() bool {
	return l.OriginalPrice != nil && *l.OriginalPrice > l.Price
}

// ListingRecord is the coerced write-side shape handed to a store. It carries
// no id and no timestamps: the store assigns both.
type ListingRecord struct {
	Title         string
	Location      string
	Description   string
	Price         float64
	OriginalPrice *float64
	Category      Category
	Media         []string
	ImageURL      string
	Amenities     []string
	HostPhone     string
}

// ListingDraft is the transient text-entry form representation of a listing.
// MediaURLs holds one URL per line; Amenities is a single comma-separated
// string. EditingID marks an update; when nil, submission creates.
type ListingDraft struct {
	Title         string     `json:"title"`
	Location      string     `json:"location"`
	Price         string     `json:"price"`
	OriginalPrice string     `json:"originalPrice"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	MediaURLs     string     `json:"mediaUrls"`
	Amenities     string     `json:"amenities"`
	HostPhone     string     `json:"hostPhone"`
	EditingID     *uuid.UUID `json:"editingId,omitempty"`
}

// SplitMediaURLs breaks the draft's newline-delimited URL block into an
// ordered list. Lines are trimmed and blank lines dropped.
func SplitMediaURLs(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinMediaURLs is the inverse of SplitMediaURLs for any list it can produce.
func JoinMediaURLs(media []string) string {
	return strings.Join(media, "\n")
}

// SplitAmenities breaks the draft's comma-separated amenity string into
// trimmed tokens. Empty tokens from trailing or doubled commas are kept;
// display order is the user's entry order.
func SplitAmenities(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// JoinAmenities is the inverse of SplitAmenities for lists of non-empty
// trimmed tokens.
func JoinAmenities(amenities []string) string {
	return strings.Join(amenities, ", ")
}
