package entity

import "time"

const (
	// SessionTTL is how long a login session stays valid.
	SessionTTL = 3600 * time.Second
	// LastLoginLayout formats the last_login session marker.
	LastLoginLayout = "2006-01-02 15:04:05"
)

// Session is the identity carried by a signed session cookie.
type Session struct {
	AccountID uint
	LastLogin string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
