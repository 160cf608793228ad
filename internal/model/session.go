package model

import (
	"time"
)

type Session struct {
	ID               string     `db:"id" json:"id"`
	SessionTokenHash string     `db:"session_token_hash" json:"-"`
	UserID           string     `db:"user_id" json:"userId"`
	ExpiresAt        time.Time  `db:"expires_at" json:"expiresAt"`
	LastSeenAt       *time.Time `db:"last_seen_at" json:"lastSeenAt,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
}

type CreateSessionParams struct {
	SessionTokenHash string
	UserID           string
	ExpiresAt        time.Time
}

// IsExpired reports whether the session is no longer usable at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
