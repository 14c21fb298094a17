package service

import (
	"context"
	"io"
)

// ProfileImagePrefix is the storage namespace for uploaded member images.
const ProfileImagePrefix = "profile_image/"

// ImageStore persists uploaded images. The contents are never interpreted.
type ImageStore interface {
	// Save writes r under the profile image namespace and returns the stored key.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Delete removes a stored key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
