package service

import (
	"time"

	"library/internal/domain/entity"
)

// SessionTokenService issues and verifies signed login sessions.
type SessionTokenService interface {
	// Issue creates a session for accountID that starts at loginAt and expires after entity.SessionTTL.
	Issue(accountID uint, loginAt time.Time) (token string, session *entity.Session, err error)

	// Parse verifies the token signature and expiry.
	Parse(token string) (*entity.Session, error)
}
