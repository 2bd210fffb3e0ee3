package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalUploader writes image bytes to a local uploads directory and returns
// a path under the server's base URL. Dev/fallback only; the returned paths
// are not reconciled with the Cloudinary URL format.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{Dir: dir, BaseURL: baseURL}
}

func (u *LocalUploader) UploadImage(_ context.Context, data []byte, name, folder string) (string, error) {
	if _, err := SniffImage(data); err != nil {
		return "", err
	}

	dir := filepath.Join(u.Dir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	// uuid + original extension keeps filenames safe and collision-free
	filename := uuid.New().String() + extension(name)
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", u.BaseURL, folder, filename), nil
}
