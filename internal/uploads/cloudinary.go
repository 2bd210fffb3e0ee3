// Package uploads hosts product images: the primary path uploads to
// Cloudinary, and a local-disk variant exists as a dev/fallback path.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	// ErrNotImage is returned when the uploaded bytes are not an image.
	ErrNotImage = errors.New("file is not an image")
	// ErrUploadFailed wraps provider failures so callers can map them to a
	// dependency error instead of a generic one.
	ErrUploadFailed = errors.New("image upload failed")
)

// Uploader stores raw image bytes under a folder namespace and returns a
// stable public URL.
type Uploader interface {
	UploadImage(ctx context.Context, data []byte, name, folder string) (string, error)
}

// SniffImage checks the leading bytes of an upload and returns the detected
// content type, rejecting anything that is not image/*.
func SniffImage(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return contentType, ErrNotImage
	}
	return contentType, nil
}

// CloudinaryUploader implements Uploader against the Cloudinary API.
// Every upload is capped at 800x800 with automatic quality optimization.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// PublicID derives a readable, unique Cloudinary public id from the
// uploaded file name ("Red Dress.jpg" -> "red-dress-1a2b3c4d").
func PublicID(name string) string {
	base := slug.Make(strings.TrimSuffix(name, extension(name)))
	if base == "" {
		base = "image"
	}
	return base + "-" + uuid.New().String()[:8]
}

func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, data []byte, name, folder string) (string, error) {
	if _, err := SniffImage(data); err != nil {
		return "", err
	}

	resp, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         folder,
		PublicID:       PublicID(name),
		Transformation: "c_limit,w_800,h_800,q_auto",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, resp.Error.Message)
	}
	return resp.SecureURL, nil
}
