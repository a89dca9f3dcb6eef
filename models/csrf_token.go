package models

import "time"

// CsrfToken is a single-use token scoped to a user. A token validates at
// most once: successful validation deletes the row in the same statement.
type CsrfToken struct {
	TokenID   int64     `json:"-"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the CsrfToken model.
func (t CsrfToken) TableName() string {
	return "csrf_tokens"
}
