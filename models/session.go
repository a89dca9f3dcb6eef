package models

import "time"

// Session is a server-side login session identified by an opaque random
// token. A session authorizes requests only while Active is true and the
// expiry lies in the future; an inactive or expired row must be treated
// identically to a missing one.
type Session struct {
	// SessionID is the internal unique identifier of the session row.
	SessionID int64 `json:"-"`

	// UserID is the owner of the session.
	UserID int64 `json:"user_id"`

	// Token is the opaque random value presented by the client.
	// Never exposed via JSON; it travels only inside the signed credential.
	Token string `json:"-"`

	// IPAddress and UserAgent record where the session was issued from.
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`

	// Active is cleared on logout or on a password reset.
	Active bool `json:"-"`

	// ExpiresAt is the hard expiry of the session.
	ExpiresAt time.Time `json:"expires_at"`

	// CreatedAt is the timestamp when the session was issued.
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the session authorizes requests at the given
// instant.
func (s Session) Usable(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
