// Package avatar stores uploaded profile pictures on local disk. Files are
// sniffed for their real content type; only common web image formats are
// accepted.
package avatar

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mwielgos/kinoteka/internal/logger"
)

// PublicPrefix is the URL path avatars are served under.
const PublicPrefix = "/uploads/avatars"

var (
	ErrTooLarge        = errors.New("avatar exceeds the maximum allowed size")
	ErrUnsupportedType = errors.New("avatar must be a JPEG, PNG or WebP image")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store writes avatars to a directory on disk.
type Store struct {
	dir      string
	maxBytes int64
	logger   *logger.Logger
}

// NewStore creates a store rooted at dir. maxBytes caps uploads; zero means
// 2 MiB.
func NewStore(dir string, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &Store{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger.AppLogger(),
	}
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save stores an uploaded avatar for the given account and returns its
// public URL path. A previously stored local avatar is removed; externally
// hosted images (OAuth profile pictures) are left alone.
func (s *Store) Save(userID string, r io.Reader, previousImage *string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	mime := mimetype.Detect(data)
	ext, ok := extensions[mime.String()]
	if !ok {
		return "", ErrUnsupportedType
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create avatar directory: %w", err)
	}

	filename := userID + ext
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	publicPath := PublicPrefix + "/" + filename
	if previousImage != nil && *previousImage != publicPath {
		s.Remove(*previousImage)
	}

	return publicPath, nil
}

// Remove deletes a stored avatar given its public URL path. External URLs
// and paths outside the avatar prefix are ignored.
func (s *Store) Remove(image string) {
	name, ok := localFilename(image)
	if !ok {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		s.logger.WithFields(map[string]interface{}{
			"file":  name,
			"error": err.Error(),
		}).Warn("failed to remove stored avatar")
	}
}

// localFilename extracts the bare filename from a public avatar path.
// Anything that is not directly under the avatar prefix is rejected.
func localFilename(image string) (string, bool) {
	rest, ok := strings.CutPrefix(image, PublicPrefix+"/")
	if !ok || rest == "" {
		return "", false
	}
	if rest != filepath.Base(rest) {
		return "", false
	}
	return rest, true
}
