// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"library/config"
	"library/internal/domain/service"
)

const (
	defaultMinPasswordLength = 8
	// bcrypt rejects inputs longer than 72 bytes.
	defaultMaxPasswordLength = 72
	defaultMaxSimilarity     = 0.7
)

// PasswordRules configures ValidateStrength.
type PasswordRules struct {
	MinLength     int
	MaxLength     int
	MaxSimilarity float64
}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost  int
	rules PasswordRules
}

// NewBcryptHasher builds the hasher from the auth and password strength config.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	var rules PasswordRules
	if cfg.PasswordStrength != nil {
		rules = PasswordRules{
			MinLength:     cfg.PasswordStrength.MinLength,
			MaxLength:     cfg.PasswordStrength.MaxLength,
			MaxSimilarity: cfg.PasswordStrength.MaxSimilarity,
		}
	}

	return NewBcryptHasherWithCost(cost, rules)
}

// NewBcryptHasherWithCost creates a hasher with an explicit cost. Zero rule values take defaults.
func NewBcryptHasherWithCost(cost int, rules PasswordRules) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if rules.MinLength <= 0 {
		rules.MinLength = defaultMinPasswordLength
	}
	if rules.MaxLength <= 0 || rules.MaxLength > defaultMaxPasswordLength {
		rules.MaxLength = defaultMaxPasswordLength
	}
	if rules.MaxSimilarity <= 0 {
		rules.MaxSimilarity = defaultMaxSimilarity
	}

	return &bcryptHasher{cost: cost, rules: rules}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateStrength applies the length, numeric, common-password and username similarity rules.
func (h *bcryptHasher) ValidateStrength(password, username string) []string {
	var problems []string

	if len(password) < h.rules.MinLength {
		problems = append(problems, "This password is too short. It must contain at least "+strconv.Itoa(h.rules.MinLength)+" characters.")
	}
	if len(password) > h.rules.MaxLength {
		problems = append(problems, "This password is too long. It must contain at most "+strconv.Itoa(h.rules.MaxLength)+" characters.")
	}
	if username != "" && tooSimilar(password, username, h.rules.MaxSimilarity) {
		problems = append(problems, "The password is too similar to the username.")
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// tooSimilar compares the password with the username and each of its word parts.
func tooSimilar(password, username string, maxSimilarity float64) bool {
	p := strings.ToLower(password)
	candidates := append([]string{username}, strings.FieldsFunc(username, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})...)

	for _, c := range candidates {
		c = strings.ToLower(c)
		if c == "" {
			continue
		}
		if similarity(p, c) >= maxSimilarity {
			return true
		}
	}

	return false
}

// similarity is 2*LCS/(len(a)+len(b)), in [0, 1].
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return 2 * float64(prev[len(rb)]) / float64(len(ra)+len(rb))
}
