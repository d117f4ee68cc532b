package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/repository/demo"
)

type stubGate struct {
	calls int
	err   error
}

func (g *stubGate) EnsureSession(ctx context.Context) (*domain.Session, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Session{ID: uuid.New(), Role: domain.SessionRoleGuest}, nil
}

// fakeListingStore lets a test drive subscription pushes by hand.
type fakeListingStore struct {
	subscribeErr error
	onChange     func([]domain.Listing)
	cancelCalls  int
	initial      []domain.Listing
}

func (s *fakeListingStore) Subscribe(ctx context.Context, onChange func([]domain.Listing)) (func(), error) {
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	s.onChange = onChange
	onChange(s.initial)
	return func() { s.cancelCalls++ }, nil
}

func (s *fakeListingStore) Create(ctx context.Context, rec domain.ListingRecord) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *fakeListingStore) Update(ctx context.Context, id uuid.UUID, rec domain.ListingRecord) error {
	return nil
}

func (s *fakeListingStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *fakeListingStore) Demo() bool { return false }

func makeListings(n int) []domain.Listing {
	out := make([]domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Listing{ID: uuid.New(), Title: "Listing", Price: 100})
	}
	return out
}

func TestSyncServiceReachesLive(t *testing.T) {
	store := &fakeListingStore{initial: makeListings(2)}
	svc := NewSyncService(&stubGate{}, store)

	if svc.State() != SyncStateUninitialized {
		t.Fatalf("expected uninitialized before start, got %s", svc.State())
	}

	svc.Start(context.Background())

	if svc.State() != SyncStateLive {
		t.Fatalf("expected live state, got %s", svc.State())
	}
	snapshot := svc.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(snapshot))
	}
	for _, item := range snapshot {
		if item.ID == uuid.Nil {
			t.Fatalf("expected every synced listing to carry an id")
		}
	}
}

func TestSyncServiceReplacesCollectionWholesale(t *testing.T) {
	store := &fakeListingStore{initial: makeListings(3)}
	svc := NewSyncService(&stubGate{}, store)
	svc.Start(context.Background())

	if got := len(svc.Snapshot()); got != 3 {
		t.Fatalf("expected 3 listings after first push, got %d", got)
	}

	store.onChange(makeListings(1))

	if got := len(svc.Snapshot()); got != 1 {
		t.Fatalf("expected full replace to leave 1 listing, got %d", got)
	}
}

func TestSyncServiceFallsBackToDemoOnSessionFailure(t *testing.T) {
	gate := &stubGate{err: ErrAuth}
	store := &fakeListingStore{initial: makeListings(1)}
	svc := NewSyncService(gate, store)

	svc.Start(context.Background())

	if svc.State() != SyncStateDemo {
		t.Fatalf("expected demo state, got %s", svc.State())
	}
	if store.onChange != nil {
		t.Fatalf("subscribe must not be attempted when the session gate fails")
	}
	if len(svc.Snapshot()) != len(demo.Dataset()) {
		t.Fatalf("expected the fallback dataset to be loaded")
	}
}

func TestSyncServiceFallsBackToDemoOnSubscribeFailure(t *testing.T) {
	store := &fakeListingStore{subscribeErr: errors.New("permission denied")}
	svc := NewSyncService(&stubGate{}, store)

	svc.Start(context.Background())

	if svc.State() != SyncStateDemo {
		t.Fatalf("expected demo state, got %s", svc.State())
	}
	if !svc.Demo() {
		t.Fatalf("expected Demo() to report true")
	}
}

func TestSyncServiceWithDemoStore(t *testing.T) {
	svc := NewSyncService(&stubGate{}, demo.NewStore())
	svc.Start(context.Background())

	if svc.State() != SyncStateDemo {
		t.Fatalf("expected demo state, got %s", svc.State())
	}

	want := demo.Dataset()
	got := svc.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("expected %d demo listings, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title {
			t.Fatalf("demo snapshot diverged at %d: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestSyncServiceStopCancelsOnce(t *testing.T) {
	store := &fakeListingStore{initial: makeListings(1)}
	svc := NewSyncService(&stubGate{}, store)
	svc.Start(context.Background())

	svc.Stop()
	svc.Stop()

	if store.cancelCalls != 1 {
		t.Fatalf("expected unsubscribe exactly once, got %d", store.cancelCalls)
	}
}

func TestSyncServiceSnapshotIsACopy(t *testing.T) {
	store := &fakeListingStore{initial: makeListings(2)}
	svc := NewSyncService(&stubGate{}, store)
	svc.Start(context.Background())

	snapshot := svc.Snapshot()
	snapshot[0].Title = "mutated"

	if svc.Snapshot()[0].Title == "mutated" {
		t.Fatalf("snapshot must not alias internal state")
	}
}
