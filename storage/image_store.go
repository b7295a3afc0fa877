package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ImageStore persists an uploaded image and returns its public URL. Failures
// propagate to the caller as post-creation failure.
type ImageStore interface {
	Store(filename string, r io.Reader) (string, error)
}

// LocalImageStore writes images under a date-partitioned directory tree and
// serves them as /static/uploads/... paths.
type LocalImageStore struct {
	baseDir  string
	maxBytes int64
}

// NewLocalImageStore creates a store rooted at baseDir with a per-file size
// limit in megabytes.
func NewLocalImageStore(baseDir string, maxSizeMB int) *LocalImageStore {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	return &LocalImageStore{baseDir: baseDir, maxBytes: int64(maxSizeMB) * 1024 * 1024}
}

// Store saves the image bytes and returns the public URL.
func (s *LocalImageStore) Store(filename string, r io.Reader) (string, error) {
	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	day := now.Format("02")
	dir := filepath.Join(s.baseDir, year, month, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	fname := filepath.Base(filename)
	if fname == "." || fname == "" {
		fname = "image"
	}
	safeName := fmt.Sprintf("%s_%s", uuid.NewString(), fname)
	dstPath := filepath.Join(dir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer out.Close()

	lr := &io.LimitedReader{R: r, N: s.maxBytes + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("image exceeds %d bytes", s.maxBytes)
	}

	return fmt.Sprintf("/static/uploads/%s/%s/%s/%s", year, month, day, safeName), nil
}
