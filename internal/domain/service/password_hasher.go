// Package service declares the capabilities the use cases need from
// infrastructure: password hashing, session tokens and image storage.
package service

// PasswordHasher stores and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches a hash produced by Hash.
	Check(password, hash string) bool

	// ValidateStrength lists the reasons password is too weak for username,
	// or nothing when it is acceptable.
	ValidateStrength(password, username string) []string
}
