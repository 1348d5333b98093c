// Package storage keeps uploaded event images on local disk. Files are
// written under a configured directory with random names; rows reference
// them by relative path and deleting a row releases its file.
package storage

import (
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore writes and removes image files under Dir.
type ImageStore struct {
	Dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{Dir: dir}, nil
}

// Save copies an uploaded file into the store under a random name,
// keeping the original extension, and returns the relative path to
// persist on the owning row.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. A missing file is not an error: the row
// is already gone and that is the state we want.
func (s *ImageStore) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.Dir, path)); err != nil && !os.IsNotExist(err) {
		log.Printf("storage: remove image %s: %v", path, err)
	}
}

// RemoveAll deletes a batch of stored files.
func (s *ImageStore) RemoveAll(paths []string) {
	for _, p := range paths {
		s.Remove(p)
	}
}
