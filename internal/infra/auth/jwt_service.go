package auth

import (
	"strconv"
	"time"

	"library/config"
	"library/internal/domain/entity"
	"library/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const sessionTokenType = "session"

// ErrInvalidSession is returned for tokens that are malformed, forged or expired.
var ErrInvalidSession = errors.New("invalid session token")

// sessionClaims carries the account id in sub and the login marker.
type sessionClaims struct {
	LastLogin string `json:"last_login"`
	Type      string `json:"type"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the SessionTokenService interface using the JWT standard.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.SessionTokenService, error) {
	if cfg.Session == nil || cfg.Session.Secret == "" {
		return nil, errors.New("session secret must be provided")
	}

	return NewJWTServiceWithClock(cfg.Session.Secret, time.Now), nil
}

// NewJWTServiceWithClock creates a service whose expiry checks use now.
func NewJWTServiceWithClock(secret string, now func() time.Time) service.SessionTokenService {
	return &jwtService{
		secret: []byte(secret),
		ttl:    entity.SessionTTL,
		now:    now,
	}
}

// Issue signs a session starting at loginAt, truncated to whole seconds.
func (s *jwtService) Issue(accountID uint, loginAt time.Time) (string, *entity.Session, error) {
	issuedAt := loginAt.Truncate(time.Second)
	session := &entity.Session{
		AccountID: accountID,
		LastLogin: issuedAt.Format(entity.LastLoginLayout),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	}

	claims := sessionClaims{
		LastLogin: session.LastLogin,
		Type:      sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to sign session token")
	}

	return token, session, nil
}

// Parse validates the signature and that now is strictly before the expiry.
func (s *jwtService) Parse(tokenString string) (*entity.Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSession, err.Error())
	}
	if claims.Type != sessionTokenType {
		return nil, errors.Wrap(ErrInvalidSession, "unexpected token type")
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || accountID == 0 {
		return nil, errors.Wrap(ErrInvalidSession, "invalid subject")
	}

	session := &entity.Session{
		AccountID: uint(accountID),
		LastLogin: claims.LastLogin,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}

	return session, nil
}
