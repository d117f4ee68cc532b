package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/util"
)

// TokenSigner mints and verifies session tokens.
type TokenSigner interface {
	Generate(sessionID uuid.UUID, role string) (string, time.Time, error)
	Parse(token string) (*util.Claims, error)
}

// SessionService is the session gate: every identity it hands out is
// anonymous, minted server-side with no credentials involved.
type SessionService struct {
	tokens TokenSigner
	gate   *util.AccessCodeGate

	mu      sync.Mutex
	current *domain.Session
}

// NewSessionService builds the gate. accessGate may be nil, in which case
// admin elevation is disabled.
func NewSessionService(tokens TokenSigner, accessGate *util.AccessCodeGate) *SessionService {
	return &SessionService{tokens: tokens, gate: accessGate}
}

// EnsureSession returns the process-wide anonymous identity, minting it on
// first use. Subsequent calls return the cached session without touching the
// signer again.
func (s *SessionService) EnsureSession(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return s.current, nil
	}

	session, err := s.mintLocked(domain.SessionRoleGuest)
	if err != nil {
		return nil, err
	}
	s.current = session
	return session, nil
}

// NewGuestSession mints a fresh anonymous identity for an individual client.
func (s *SessionService) NewGuestSession(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked(domain.SessionRoleGuest)
}

// ElevateToAdmin exchanges the configured access code for an admin session.
func (s *SessionService) ElevateToAdmin(ctx context.Context, accessCode string) (*domain.Session, error) {
	if s.gate == nil || !s.gate.Verify(accessCode) {
		return nil, ErrInvalidAccessCode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked(domain.SessionRoleAdmin)
}

// Authenticate resolves a bearer token back into a session identity.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	session := &domain.Session{
		ID:    claims.SessionID,
		Role:  domain.SessionRole(claims.Role),
		Token: token,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *SessionService) mintLocked(role domain.SessionRole) (*domain.Session, error) {
	id := uuid.New()
	token, expiresAt, err := s.tokens.Generate(id, string(role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return &domain.Session{
		ID:        id,
		Role:      role,
		Token:     token,
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}
