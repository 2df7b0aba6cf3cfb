package photos

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultMaxPhotoBytes caps the size of an uploaded contact photo when
// no explicit limit is configured.
const DefaultMaxPhotoBytes = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ErrUnsupportedType is returned when the uploaded data is not a known image format.
var ErrUnsupportedType = fmt.Errorf("unsupported image type")

// ErrTooLarge is returned when the uploaded data exceeds the store's size limit.
var ErrTooLarge = fmt.Errorf("photo exceeds size limit")

// Store handles local storage of contact photos.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates a photo store at the specified directory. maxBytes
// caps uploads; zero or negative means DefaultMaxPhotoBytes.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create photos dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Save sniffs the image type, writes the photo atomically, and returns
// the stored file path. Any previous photo for the contact is removed.
func (s *Store) Save(contactID uint, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	hash := sha256.Sum256(data)
	filename := fmt.Sprintf("photo_%d_%x%s", contactID, hash[:8], ext)
	path := filepath.Join(s.dir, filename)

	// Drop any previous photo first so a format change doesn't leave
	// a stale file behind.
	if err := s.Remove(contactID); err != nil {
		return "", err
	}

	// Temp file in the same directory for atomic rename
	tmpFile, err := os.CreateTemp(s.dir, "photo_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, bytes.NewReader(data)); err != nil {
		return "", err
	}
	tmpFile.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		return "", err
	}
	return path, nil
}

// Path returns the stored photo path for a contact, or empty string if none exists.
func (s *Store) Path(contactID uint) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, fmt.Sprintf("photo_%d_*", contactID)))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0], nil
}

// Remove deletes the stored photo for a contact, if any.
func (s *Store) Remove(contactID uint) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, fmt.Sprintf("photo_%d_*", contactID)))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Dir returns the photo storage directory.
func (s *Store) Dir() string {
	return s.dir
}
