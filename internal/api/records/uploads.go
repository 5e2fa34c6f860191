package records

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"heritage-gallery/internal/domain/media"
)

const imageField = "image"

// storeUpload copies an uploaded image into dir under a random name. The
// returned Image is not persisted yet.
func storeUpload(dir string, fh *multipart.FileHeader) (*media.Image, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &fieldError{imageField, "must be an image file"}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src))
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("write media file: %w", err)
	}

	return &media.Image{
		StoredName:   name,
		OriginalName: filepath.Base(fh.Filename),
		ContentType:  contentType,
		Size:         written,
	}, nil
}
