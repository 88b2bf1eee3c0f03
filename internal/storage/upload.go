package storage

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize bounds uploaded images.
const MaxImageSize = 2 << 20

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// UploadImage validates an uploaded image and stores it under prefix with a
// fresh name. It returns the public URL.
func (r *R2Client) UploadImage(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	if file.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := imageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := path.Join(prefix, uuid.New().String()+ext)
	return r.Upload(ctx, key, f, contentType)
}
