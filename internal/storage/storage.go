package storage

import (
	"alcyxob/fitness-backend/internal/config"
	"context"
	"errors"
	"fmt"
)

// Bound box applied to every uploaded image. Images are shrunk to fit,
// preserving aspect ratio, and never enlarged.
const (
	MaxImageWidth  = 800
	MaxImageHeight = 800
)

// UploadRequest describes one image to store.
type UploadRequest struct {
	Data   []byte
	Folder string // e.g. "exercises"
	Name   string // asset name inside the folder, without extension
}

// ImageStorage defines the operations the app needs from a remote media host.
type ImageStorage interface {
	// Upload stores the image, applying the bound-box resize and quality
	// optimisation, and returns the public URL of the stored asset.
	Upload(ctx context.Context, req UploadRequest) (string, error)

	// Destroy removes the asset with the given identifier ("<folder>/<name>").
	Destroy(ctx context.Context, assetID string) error
}

var (
	ErrNotConfigured    = errors.New("image storage is not configured")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// New builds the ImageStorage selected by cfg.Provider.
func New(ctx context.Context, cfg config.MediaConfig) (ImageStorage, error) {
	switch cfg.Provider {
	case config.ProviderCloudinary:
		return NewCloudinaryStorage(cfg.Cloudinary)
	case config.ProviderS3:
		return NewS3Storage(ctx, cfg.S3)
	case config.ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}

// Disabled is used when no media host is configured. Uploads fail and
// deletes are no-ops, so records without images keep working.
type Disabled struct{}

func (Disabled) Upload(context.Context, UploadRequest) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Destroy(context.Context, string) error {
	return nil
}
