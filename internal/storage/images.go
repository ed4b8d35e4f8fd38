// Package storage keeps uploaded post images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 10 << 20

var (
	ErrNotImage      = errors.New("upload a valid image, the file is either not an image or corrupted")
	ErrImageTooLarge = errors.New("image must be 10MB or smaller")
)

// ImageStore saves an upload and returns its path relative to the media root.
type ImageStore interface {
	Save(ctx context.Context, header *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, name string) error
}

// Local writes images under Root/posts/.
type Local struct {
	Root string
}

func NewLocal(root string) *Local {
	return &Local{Root: root}
}

func (s *Local) Save(_ context.Context, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect image type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	rel := path.Join("posts", uuid.NewString()+mtype.Extension())
	dst := filepath.Join(s.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	if err := writeFile(dst, src); err != nil {
		return "", err
	}
	return rel, nil
}

// Delete removes an image saved by Save. A missing file is not an error.
func (s *Local) Delete(_ context.Context, name string) error {
	if name == "" {
		return nil
	}
	clean := path.Clean("/" + name)[1:]
	if clean != name || !strings.HasPrefix(clean, "posts/") {
		return fmt.Errorf("refusing to delete %q outside the media root", name)
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// writeFile copies src to dst and leaves nothing behind on failure.
func writeFile(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	_, err = io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
