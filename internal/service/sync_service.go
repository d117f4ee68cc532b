package service

import (
	"context"
	"log"
	"sync"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/repository/demo"
	"github.com/misrentas/misrentas-backend/internal/repository/ports"
)

type SyncState string

const (
	SyncStateUninitialized SyncState = "uninitialized"
	SyncStateLoading       SyncState = "loading"
	SyncStateLive          SyncState = "live"
	SyncStateDemo          SyncState = "demo"
)

// SessionGate establishes an identity before any subscription is attempted.
type SessionGate interface {
	EnsureSession(ctx context.Context) (*domain.Session, error)
}

// SyncService keeps the authoritative in-memory listing collection in step
// with the store's live query. Every push replaces the collection wholesale;
// the subscription callback is the only writer.
//
// There is no reconnect policy: a failed subscription falls back to the demo
// dataset once and stays there. Callers wanting resilience wrap the store.
type SyncService struct {
	sessions SessionGate
	store    ports.ListingStore

	mu    sync.RWMutex
	state SyncState
	items []domain.Listing

	cancel   func()
	stopOnce sync.Once
}

func NewSyncService(sessions SessionGate, store ports.ListingStore) *SyncService {
	return &SyncService{
		sessions: sessions,
		store:    store,
		state:    SyncStateUninitialized,
		items:    []domain.Listing{},
	}
}

// Start gates on a session, then subscribes. Both failure paths land in demo
// state with the fallback dataset loaded; Start itself never fails.
func (s *SyncService) Start(ctx context.Context) {
	s.setState(SyncStateLoading)

	if _, err := s.sessions.EnsureSession(ctx); err != nil {
		log.Printf("sync: session gate failed, entering demo mode: %v", err)
		s.fallbackToDemo()
		return
	}

	cancel, err := s.store.Subscribe(ctx, s.apply)
	if err != nil {
		log.Printf("sync: subscription failed, entering demo mode: %v", err)
		s.fallbackToDemo()
		return
	}
	s.cancel = cancel
}

// Snapshot returns a copy of the current collection.
func (s *SyncService) Snapshot() []domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Listing, len(s.items))
	copy(out, s.items)
	return out
}

func (s *SyncService) State() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SyncService) Demo() bool {
	return s.State() == SyncStateDemo
}

// Stop releases the live query. Safe to call more than once; the underlying
// unsubscribe runs exactly once.
func (s *SyncService) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// apply is the subscription callback: the pushed collection replaces the
// in-memory one atomically, never merged.
func (s *SyncService) apply(items []domain.Listing) {
	next := make([]domain.Listing, len(items))
	copy(next, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = next
	if s.store.Demo() {
		s.state = SyncStateDemo
	} else {
		s.state = SyncStateLive
	}
}

func (s *SyncService) fallbackToDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = demo.Dataset()
	s.state = SyncStateDemo
}

func (s *SyncService) setState(state SyncState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}
