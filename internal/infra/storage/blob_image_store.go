// Package storage keeps uploaded member images in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"library/config"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/lifecycle"
	"library/internal/domain/service"
	"library/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// blobImageStore implements service.ImageStore on top of a blob bucket.
type blobImageStore struct {
	bucket *blob.Bucket
	newKey func(ext string) string
	logger *slog.Logger
}

// New opens the configured bucket and closes it when the application stops.
func New(params Params) (service.ImageStore, error) {
	bucketURL := params.Config.Storage.BucketURL

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image bucket %q", bucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := bucket.Close(); err != nil {
				return errors.Wrap(err, "failed to close image bucket")
			}

			return nil
		},
	})

	return NewWithBucket(bucket, params.Logger), nil
}

// NewWithBucket wraps an already opened bucket.
func NewWithBucket(bucket *blob.Bucket, logger *slog.Logger) service.ImageStore {
	return &blobImageStore{
		bucket: bucket,
		newKey: func(ext string) string {
			return service.ProfileImagePrefix + uuid.NewString() + ext
		},
		logger: logger,
	}
}

func (s *blobImageStore) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Save streams r to a fresh key. Only the extension of filename is kept.
func (s *blobImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := s.newKey(ext)

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(writeCtx, key, &blob.WriterOptions{ContentType: contentType(ext)})
	if err != nil {
		return "", errors.Wrap(err, "failed to open image writer")
	}

	hr := util.NewHashingReader(r)
	if _, err := io.Copy(w, hr); err != nil {
		// Cancelling before Close discards the partial object.
		cancel()
		_ = w.Close()

		return "", errors.Wrap(err, "failed to write image")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to commit image")
	}

	s.log(ctx).Info("Profile image stored",
		slog.String("key", key),
		slog.String("size", util.FormatBytes(hr.Size())),
		slog.String("sha256", hr.Checksum()),
	)

	return key, nil
}

// Delete removes key. A missing key is not an error.
func (s *blobImageStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "failed to delete image %q", key)
	}

	return nil
}

func contentType(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
