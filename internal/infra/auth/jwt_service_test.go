package auth

import (
	"testing"
	"time"

	"library/config"
	"library/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_session_secret_key_very_long_for_testing"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func TestJWTService_IssueAndParse(t *testing.T) {
	loginAt := time.Date(2024, 3, 9, 14, 30, 5, 250_000_000, time.UTC)
	clock := &fakeClock{now: loginAt}
	svc := NewJWTServiceWithClock(testSecret, clock.Now)

	token, issued, err := svc.Issue(42, loginAt)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "2024-03-09 14:30:05", issued.LastLogin)
	assert.Equal(t, entity.SessionTTL, issued.ExpiresAt.Sub(issued.IssuedAt))

	parsed, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), parsed.AccountID)
	assert.Equal(t, issued.LastLogin, parsed.LastLogin)
	assert.True(t, issued.ExpiresAt.Equal(parsed.ExpiresAt))
}

func TestJWTService_ExpiryBoundary(t *testing.T) {
	loginAt := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
	clock := &fakeClock{now: loginAt}
	svc := NewJWTServiceWithClock(testSecret, clock.Now)

	token, _, err := svc.Issue(7, loginAt)
	require.NoError(t, err)

	tests := []struct {
		name    string
		elapsed time.Duration
		valid   bool
	}{
		{name: "fresh", elapsed: 0, valid: true},
		{name: "3599 seconds", elapsed: 3599 * time.Second, valid: true},
		{name: "3600 seconds", elapsed: 3600 * time.Second, valid: false},
		{name: "two hours", elapsed: 2 * time.Hour, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.now = loginAt.Add(tt.elapsed)
			_, err := svc.Parse(token)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidSession))
			}
		})
	}
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	now := time.Now()
	svc := NewJWTServiceWithClock(testSecret, func() time.Time { return now })

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTServiceWithClock("another_secret_entirely_different", func() time.Time { return now })
		token, _, err := other.Issue(1, now)
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-token")
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})

	t.Run("wrong type", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":  "1",
			"type": "access",
			"exp":  now.Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "1", "type": sessionTokenType}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)

	svc, err := NewJWTService(&config.Config{Session: &config.SessionConfig{Secret: testSecret}})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
