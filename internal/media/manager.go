// Package media owns the lifecycle of images kept on the remote media host:
// uploading new ones and releasing stale ones.
package media

import (
	"alcyxob/fitness-backend/internal/storage"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrUpload matches every *UploadError.
var ErrUpload = errors.New("image upload failed")

// UploadError reports a failed remote upload. No record may reference the
// asset it was meant to create.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "Image upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Is(target error) bool { return target == ErrUpload }

// DeleteOutcome is the non-fatal result of releasing a remote asset.
// Callers log it; it never becomes an error of the parent operation.
type DeleteOutcome int

const (
	// DeleteSkipped: no image, or its id could not be derived from the URL.
	DeleteSkipped DeleteOutcome = iota
	// DeleteCompleted: the host confirmed the deletion.
	DeleteCompleted
	// DeleteDegraded: the host call failed and the asset may be orphaned.
	DeleteDegraded
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteCompleted:
		return "completed"
	case DeleteDegraded:
		return "degraded"
	default:
		return "skipped"
	}
}

// Manager mediates between inbound image bytes and the remote media host.
type Manager struct {
	storage storage.ImageStorage
	log     logrus.FieldLogger
}

// NewManager creates a Manager on top of an ImageStorage backend.
func NewManager(st storage.ImageStorage, log logrus.FieldLogger) *Manager {
	if st == nil {
		st = storage.Disabled{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{storage: st, log: log}
}

// Upload stores data as folder/name and returns the stored URL.
// Any failure is reported as an *UploadError.
func (m *Manager) Upload(ctx context.Context, data []byte, folder, name string) (string, error) {
	url, err := m.storage.Upload(ctx, storage.UploadRequest{Data: data, Folder: folder, Name: name})
	if err != nil {
		return "", &UploadError{Err: err}
	}
	m.log.WithFields(logrus.Fields{"folder": folder, "name": name, "url": url}).Info("Uploaded image")
	return url, nil
}

// Delete removes an asset by id. Failures are logged and swallowed.
func (m *Manager) Delete(ctx context.Context, assetID string) DeleteOutcome {
	if assetID == "" {
		return DeleteSkipped
	}
	if err := m.storage.Destroy(ctx, assetID); err != nil {
		m.log.WithError(err).WithField("asset_id", assetID).Error("Error deleting image from media host")
		return DeleteDegraded
	}
	m.log.WithField("asset_id", assetID).Info("Deleted image from media host")
	return DeleteCompleted
}

// Release deletes the asset behind a stored URL, if one can be derived.
func (m *Manager) Release(ctx context.Context, storedURL string) DeleteOutcome {
	if storedURL == "" {
		return DeleteSkipped
	}
	assetID, ok := DeriveAssetID(storedURL)
	if !ok {
		m.log.WithField("url", storedURL).Warn("Could not derive asset id from image URL, skipping delete")
		return DeleteSkipped
	}
	return m.Delete(ctx, assetID)
}
