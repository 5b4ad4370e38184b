package storage

import (
	"alcyxob/fitness-backend/internal/config"
	"alcyxob/fitness-backend/pkg/logger"
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sirupsen/logrus"
)

// cloudinaryTransformation limits the image to the bound box and lets the
// host pick the quality.
var cloudinaryTransformation = fmt.Sprintf("c_limit,h_%d,w_%d/q_auto", MaxImageHeight, MaxImageWidth)

// cloudinaryAPI is the subset of the Cloudinary upload API we call.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// cloudinaryStorage implements ImageStorage on Cloudinary.
type cloudinaryStorage struct {
	api cloudinaryAPI
}

// NewCloudinaryStorage creates a Cloudinary-backed storage from either the
// cloudinary:// URL or the split credentials.
func NewCloudinaryStorage(cfg config.CloudinaryConfig) (ImageStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
			return nil, errors.New("cloudinary requires url or cloud_name, api_key and api_secret")
		}
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	logger.Log.WithField("cloud", cld.Config.Cloud.CloudName).Info("Cloudinary image storage initialized")
	return &cloudinaryStorage{api: &cld.Upload}, nil
}

// Upload sends the raw bytes; resizing happens on Cloudinary's side.
func (s *cloudinaryStorage) Upload(ctx context.Context, req UploadRequest) (string, error) {
	resp, err := s.api.Upload(ctx, bytes.NewReader(req.Data), uploader.UploadParams{
		Folder:         req.Folder,
		PublicID:       req.Name,
		ResourceType:   "image",
		Transformation: cloudinaryTransformation,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("cloudinary returned no upload result")
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// Destroy deletes an asset by public id. An asset that is already gone counts as deleted.
func (s *cloudinaryStorage) Destroy(ctx context.Context, assetID string) error {
	resp, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     assetID,
		ResourceType: "image",
	})
	if err != nil {
		return err
	}
	if resp == nil {
		return errors.New("cloudinary returned no destroy result")
	}
	if resp.Error.Message != "" {
		return errors.New(resp.Error.Message)
	}
	switch resp.Result {
	case "ok":
		return nil
	case "not found":
		logger.Log.WithFields(logrus.Fields{"asset_id": assetID}).Debug("Cloudinary asset already absent")
		return nil
	default:
		return fmt.Errorf("cloudinary destroy %q: %s", assetID, resp.Result)
	}
}
