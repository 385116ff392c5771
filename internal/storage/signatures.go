// Package storage keeps uploaded signature images on the local filesystem.
// Stored paths are relative to the upload root, e.g. "signatures/<uuid>.png".
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const signatureDir = "signatures"

// MaxSignatureBytes bounds a single uploaded signature.
const MaxSignatureBytes = 5 << 20

var (
	ErrEmptyUpload   = errors.New("uploaded file is empty")
	ErrTooLarge      = errors.New("uploaded file is too large")
	ErrNotAnImage    = errors.New("uploaded file is not a PNG or JPEG image")
	ErrInvalidPath   = errors.New("invalid stored path")
	extensionForType = map[string]string{
		"image/png":  ".png",
		"image/jpeg": ".jpg",
	}
)

// SignatureStore saves and opens signature images under a root directory.
type SignatureStore struct {
	root string
}

// NewSignatureStore returns a store rooted at dir. The directory is created
// on first save.
func NewSignatureStore(dir string) *SignatureStore {
	return &SignatureStore{root: dir}
}

// Save writes the image read from r under a fresh name and returns its
// stored path. Only PNG and JPEG content is accepted.
func (s *SignatureStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSignatureBytes+1))
	if err != nil {
		return "", fmt.Errorf("read signature upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	if len(data) > MaxSignatureBytes {
		return "", ErrTooLarge
	}
	ext, ok := extensionForType[http.DetectContentType(data)]
	if !ok {
		return "", ErrNotAnImage
	}

	dir := filepath.Join(s.root, signatureDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create signature directory: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write signature %s: %w", name, err)
	}
	return path.Join(signatureDir, name), nil
}

// Open reads a previously stored signature.
func (s *SignatureStore) Open(stored string) (io.ReadCloser, error) {
	full, err := s.resolve(stored)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open signature %s: %w", stored, err)
	}
	return f, nil
}

// Load returns the full contents of a stored signature.
func (s *SignatureStore) Load(stored string) ([]byte, error) {
	rc, err := s.Open(stored)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("read signature %s: %w", stored, err)
	}
	return buf.Bytes(), nil
}

// Remove deletes a stored signature. Removing a missing file is not an error.
func (s *SignatureStore) Remove(stored string) error {
	full, err := s.resolve(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove signature %s: %w", stored, err)
	}
	return nil
}

// resolve maps a stored path to the filesystem, refusing anything that
// would escape the upload root.
func (s *SignatureStore) resolve(stored string) (string, error) {
	clean := path.Clean("/" + stored)[1:]
	if stored == "" || clean != stored || !strings.HasPrefix(clean, signatureDir+"/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, stored)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
