package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionRole string

const (
	SessionRoleGuest SessionRole = "guest"
	SessionRoleAdmin SessionRole = "admin"
)

// Session is an anonymous identity issued by the session gate. No credentials
// are collected; the id is opaque and minted server-side.
type Session struct {
	ID        uuid.UUID   `json:"id"`
	Role      SessionRole `json:"role"`
	Token     string      `json:"token"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == SessionRoleAdmin
}
