package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrFileTooLarge        = errors.New("file is too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrOutsideStorage      = errors.New("path is outside of the upload directory")
)

var (
	ImageTypes = []string{"image/jpeg", "image/png"}
	MediaTypes = []string{"image/jpeg", "image/png", "video/mp4", "video/quicktime"}
)

// Local stores uploaded files on the local filesystem under a root directory.
type Local struct {
	root     string
	maxBytes int64
}

// NewLocal creates a file store rooted at root that refuses files larger than maxBytes.
func NewLocal(root string, maxBytes int64) *Local {
	return &Local{root: filepath.Clean(root), maxBytes: maxBytes}
}

// MaxBytes reports the upload size limit.
func (s *Local) MaxBytes() int64 {
	return s.maxBytes
}

// Save sniffs the content of r, checks it against allowed MIME types and writes it
// under root/dir with a random name. It returns the stored path.
func (s *Local) Save(dir string, r io.Reader, allowed []string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !slices.ContainsFunc(allowed, func(a string) bool { return mtype.Is(a) }) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, mtype.String())
	}

	target := filepath.Join(s.root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := filepath.Join(target, uuid.NewString()+mtype.Extension())
	if err := writeNewFile(name, bytes.NewReader(data)); err != nil {
		return "", err
	}

	return filepath.ToSlash(name), nil
}

// writeNewFile creates name and fills it from r. Nothing is left behind on failure.
func writeNewFile(name string, r io.Reader) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}

	_, err = io.Copy(f, r)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close upload file: %w", closeErr)
	} else if err != nil {
		err = fmt.Errorf("failed to write upload file: %w", err)
	}

	if err != nil {
		_ = os.Remove(name)
		return err
	}

	return nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *Local) Remove(path string) error {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean != s.root && !strings.HasPrefix(clean, s.root+string(filepath.Separator)) {
		return ErrOutsideStorage
	}

	if err := os.Remove(clean); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}
