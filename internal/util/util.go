// Package util holds small helpers shared by the storage layer and the admin CLI.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"time"
)

// HashingReader counts and SHA256-hashes every byte read through it.
type HashingReader struct {
	r    io.Reader
	hash hash.Hash
	size int64
}

// NewHashingReader wraps r.
func NewHashingReader(r io.Reader) *HashingReader {
	return &HashingReader{r: r, hash: sha256.New()}
}

func (hr *HashingReader) Read(p []byte) (int, error) {
	n, err := hr.r.Read(p)
	if n > 0 {
		hr.hash.Write(p[:n])
		hr.size += int64(n)
	}

	return n, err
}

// Size is the number of bytes read so far.
func (hr *HashingReader) Size() int64 {
	return hr.size
}

// Checksum is the hex SHA256 of the bytes read so far.
func (hr *HashingReader) Checksum() string {
	return hex.EncodeToString(hr.hash.Sum(nil))
}

// FormatBytes renders a size with binary units, one decimal above 1 KB:
// 512 B, 1.5 KB, 2.0 MB.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n)
	for _, unit := range []string{"KB", "MB", "GB", "TB", "PB"} {
		value /= 1024
		if value < 1024 || unit == "PB" {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}

	return ""
}

// FormatDuration renders short CLI timings: 850ms below a second, then whole
// seconds (45s), then minutes and seconds (5m10s).
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	secs := int64(d.Round(time.Second) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}

	return fmt.Sprintf("%dm%ds", secs/60, secs%60)
}
