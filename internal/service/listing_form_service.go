package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/repository/ports"
)

// ListingFormService reconciles the free-text listing form with the stored
// entity shape: it owns the open draft, coerces text fields on submit, and
// dispatches create vs. update on the presence of an editing id.
type ListingFormService struct {
	store ports.ListingStore

	mu        sync.Mutex
	open      bool
	draft     domain.ListingDraft
	submitSeq uint64
}

func NewListingFormService(store ports.ListingStore) *ListingFormService {
	return &ListingFormService{store: store}
}

// DefaultDraft is the empty creation form with the original defaults
// prefilled.
func DefaultDraft() domain.ListingDraft {
	return domain.ListingDraft{
		Category:  string(domain.DefaultCategory),
		Amenities: "Wifi, Air Conditioning",
		HostPhone: "521234567890",
	}
}

// Open resets the form to a fresh creation draft.
func (s *ListingFormService) Open() domain.ListingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.draft = DefaultDraft()
	return s.draft
}

// OpenForEdit maps an existing listing back into draft text. The mapping is
// the exact inverse of the submit-time split for any value the split can
// produce: media joined with newlines, amenities with ", ".
func (s *ListingFormService) OpenForEdit(listing domain.Listing) domain.ListingDraft {
	mediaURLs := domain.JoinMediaURLs(listing.Media)
	if mediaURLs == "" {
		mediaURLs = listing.ImageURL
	}
	originalPrice := ""
	if listing.OriginalPrice != nil {
		originalPrice = formatPrice(*listing.OriginalPrice)
	}
	hostPhone := listing.HostPhone
	if hostPhone == "" {
		hostPhone = "521234567890"
	}
	id := listing.ID

	draft := domain.ListingDraft{
		Title:         listing.Title,
		Location:      listing.Location,
		Price:         formatPrice(listing.Price),
		OriginalPrice: originalPrice,
		Category:      string(listing.Category),
		Description:   listing.Description,
		MediaURLs:     mediaURLs,
		Amenities:     domain.JoinAmenities(listing.Amenities),
		HostPhone:     hostPhone,
		EditingID:     &id,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.draft = draft
	return draft
}

// SetDraft replaces the open draft without submitting it, keeping in-progress
// edits across reads of the form state.
func (s *ListingFormService) SetDraft(draft domain.ListingDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.draft = draft
}

// Draft returns the current draft and whether the form is open.
func (s *ListingFormService) Draft() (domain.ListingDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft, s.open
}

// Close discards the draft.
func (s *ListingFormService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.draft = domain.ListingDraft{}
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	ID         uuid.UUID
	Created    bool
	Superseded bool
}

// Submit coerces the draft and writes it through the store. On success the
// form is cleared and closed. On a write failure the draft stays populated so
// the user can retry without re-entering anything. A submission superseded by
// a newer one is ignored: its outcome touches no form state.
func (s *ListingFormService) Submit(ctx context.Context, draft domain.ListingDraft) (*SubmitResult, error) {
	s.mu.Lock()
	s.open = true
	s.draft = draft
	s.submitSeq++
	seq := s.submitSeq
	s.mu.Unlock()

	rec, err := ParseDraft(draft)
	if err != nil {
		return nil, err
	}

	var (
		id      uuid.UUID
		created bool
	)
	if draft.EditingID != nil {
		id = *draft.EditingID
		err = s.store.Update(ctx, id, rec)
	} else {
		id, err = s.store.Create(ctx, rec)
		created = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.submitSeq {
		return &SubmitResult{Superseded: true}, nil
	}

	switch {
	case err == nil:
		s.open = false
		s.draft = domain.ListingDraft{}
		return &SubmitResult{ID: id, Created: created}, nil
	case errors.Is(err, domain.ErrDemoMode):
		// Nothing was attempted against the store; close the form the way
		// the demo-mode save path always has.
		s.open = false
		s.draft = domain.ListingDraft{}
		return nil, err
	case isNotFound(err):
		return nil, ErrListingNotFound
	default:
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
}

// Delete removes a listing permanently. There is no soft delete.
func (s *ListingFormService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDemoMode):
		return err
	case isNotFound(err):
		return ErrListingNotFound
	default:
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
}

// ParseDraft coerces the text draft into the stored entity shape: media split
// on newlines (trimmed, blanks dropped, first URL mirrored into the legacy
// image field), amenities split on commas (trimmed, empty tokens kept),
// prices coerced to numbers with an empty original price becoming absent
// rather than zero.
func ParseDraft(draft domain.ListingDraft) (domain.ListingRecord, error) {
	var rec domain.ListingRecord

	title := strings.TrimSpace(draft.Title)
	location := strings.TrimSpace(draft.Location)
	description := strings.TrimSpace(draft.Description)
	if title == "" || location == "" || description == "" {
		return rec, fmt.Errorf("%w: title, location and description are required", ErrDraftValidation)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if err != nil || price <= 0 {
		return rec, fmt.Errorf("%w: price must be a positive number", ErrDraftValidation)
	}

	var originalPrice *float64
	if raw := strings.TrimSpace(draft.OriginalPrice); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, fmt.Errorf("%w: original price must be a number", ErrDraftValidation)
		}
		originalPrice = &parsed
	}

	category := domain.DefaultCategory
	if raw := strings.TrimSpace(draft.Category); raw != "" {
		parsed, err := domain.ParseCategory(raw)
		if err != nil || !parsed.Storable() {
			return rec, fmt.Errorf("%w: category %q is not assignable", ErrDraftValidation, raw)
		}
		category = parsed
	}

	media := domain.SplitMediaURLs(draft.MediaURLs)
	imageURL := ""
	if len(media) > 0 {
		imageURL = media[0]
	}

	rec = domain.ListingRecord{
		Title:         title,
		Location:      location,
		Description:   description,
		Price:         price,
		OriginalPrice: originalPrice,
		Category:      category,
		Media:         media,
		ImageURL:      imageURL,
		Amenities:     domain.SplitAmenities(draft.Amenities),
		HostPhone:     strings.TrimSpace(draft.HostPhone),
	}
	return rec, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
