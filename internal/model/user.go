package model

import (
	"time"
)

type User struct {
	ID        string     `db:"id" json:"id"`
	Status    UserStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

type CreateUserParams struct {
	ID     string
	Status UserStatus
}

// AccountIdentity binds the keyed hash of an account number to a user. The
// account number itself is never stored.
type AccountIdentity struct {
	UserID      string    `db:"user_id" json:"userId"`
	LookupToken string    `db:"lookup_token" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreateAccountIdentityParams struct {
	UserID      string
	LookupToken string
}

// Identity is what downstream handlers see for an authenticated request.
type Identity struct {
	UserID    string `json:"id"`
	SessionID string `json:"-"`
}
