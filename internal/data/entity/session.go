package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login; Token travels in the cookie or bearer header.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// SessionIdentity is a valid session joined with its owner's role.
type SessionIdentity struct {
	Session
	Role     UserRole `db:"role"`
	IsActive bool     `db:"is_active"`
}
