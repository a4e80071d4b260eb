package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore holds product image binaries keyed by opaque object keys.
type BlobStore interface {
	Save(key string, r io.Reader) error
	Delete(key string) error
}

// NewObjectKey generates a unique object key preserving the upload's
// file extension.
func NewObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}

// DiskStore keeps blobs as files under a single media directory.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) path(key string) string {
	// Object keys are generated server side, but never trust them as paths.
	return filepath.Join(s.root, filepath.Base(key))
}

func (s *DiskStore) Save(key string, r io.Reader) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	return f.Close()
}

// Delete removes the stored blob. A missing blob is not an error so that
// row cleanup stays idempotent.
func (s *DiskStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
