package media

import (
	"alcyxob/fitness-backend/internal/storage"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAssetID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://host/x/upload/v123/exercises/abc.png", "exercises/abc", true},
		{"https://host/x/upload/exercises/abc.png", "exercises/abc", true},
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/exercises/exercise-1712345678.jpg", "exercises/exercise-1712345678", true},
		{"https://host/upload/exercises/abc", "exercises/abc", true},
		{"https://host/upload/exercises/abc.tar.gz", "exercises/abc.tar", true},
		{"https://host/upload/v12/abc.png?x=1#frag", "abc", true},
		{"https://host/upload/video/abc.png", "video/abc", true},
		{"https://host/upload/v/abc.png", "v/abc", true},
		{"", "", false},
		{"https://host/images/exercises/abc.png", "", false},
		{"https://host/uploads/abc.png", "", false},
		{"https://host/upload/", "", false},
		{"not a url", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := DeriveAssetID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeStorage struct {
	url        string
	uploadErr  error
	destroyErr error
	destroyed  []string
}

func (f *fakeStorage) Upload(_ context.Context, req storage.UploadRequest) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.url, nil
}

func (f *fakeStorage) Destroy(_ context.Context, id string) error {
	f.destroyed = append(f.destroyed, id)
	return f.destroyErr
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func TestManagerUploadWrapsErrors(t *testing.T) {
	m := NewManager(&fakeStorage{uploadErr: errors.New("quota exceeded")}, quietLogger())
	_, err := m.Upload(context.Background(), []byte("x"), "exercises", "e")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpload)
	assert.EqualError(t, err, "Image upload failed: quota exceeded")
}

func TestManagerUpload(t *testing.T) {
	m := NewManager(&fakeStorage{url: "https://h/upload/exercises/e.png"}, quietLogger())
	url, err := m.Upload(context.Background(), []byte("x"), "exercises", "e")
	require.NoError(t, err)
	assert.Equal(t, "https://h/upload/exercises/e.png", url)
}

func TestManagerReleaseOutcomes(t *testing.T) {
	st := &fakeStorage{}
	m := NewManager(st, quietLogger())
	ctx := context.Background()

	assert.Equal(t, DeleteSkipped, m.Release(ctx, ""))
	assert.Equal(t, DeleteSkipped, m.Release(ctx, "https://host/no-segment/a.png"))
	assert.Empty(t, st.destroyed)

	assert.Equal(t, DeleteCompleted, m.Release(ctx, "https://host/upload/v9/exercises/a.png"))
	assert.Equal(t, []string{"exercises/a"}, st.destroyed)

	st.destroyErr = errors.New("host down")
	assert.Equal(t, DeleteDegraded, m.Release(ctx, "https://host/upload/exercises/b.png"))
	assert.Equal(t, "degraded", DeleteDegraded.String())
}

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(nil, nil)
	_, err := m.Upload(context.Background(), []byte("x"), "exercises", "e")
	assert.ErrorIs(t, err, ErrUpload)
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
	assert.Equal(t, DeleteCompleted, m.Delete(context.Background(), "exercises/e"))
}
