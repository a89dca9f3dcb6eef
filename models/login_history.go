package models

import "time"

// LoginHistoryEntry is an immutable audit record of a single login attempt.
// Rows are append-only; nothing in the application mutates or deletes them.
//
// UserID is nil when the attempt targeted an email that resolves to no
// account. Recording the row anyway keeps failed-attempt auditing complete
// without revealing whether the account exists.
type LoginHistoryEntry struct {
	EntryID   int64     `json:"-"`
	UserID    *int64    `json:"-"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the LoginHistoryEntry model.
func (e LoginHistoryEntry) TableName() string {
	return "login_history"
}
