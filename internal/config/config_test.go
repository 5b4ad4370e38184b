package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, ProviderNone, cfg.Media.Provider)
	assert.Equal(t, "exercises", cfg.Media.Folder)
	assert.Equal(t, int64(5*1024*1024), cfg.Media.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
database:
  name: from-file
media:
  provider: s3
  s3:
    bucket_name: images
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("MEDIA_S3_REGION", "eu-west-1")
	t.Setenv("JWT_SECRET", "shh")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Database.Name)
	assert.Equal(t, ProviderS3, cfg.Media.Provider)
	assert.Equal(t, "images", cfg.Media.S3.BucketName)
	assert.Equal(t, "eu-west-1", cfg.Media.S3.Region)
	assert.Equal(t, "shh", cfg.JWT.Secret)
}

func TestLoadConfigLegacyEnv(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("PORT", "8081")
	t.Setenv("USE_MOCK_DATA", "true")
	t.Setenv("CLOUDINARY_URL", "cloudinary://k:s@demo")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	assert.Equal(t, ":8081", cfg.Server.Address)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "cloudinary://k:s@demo", cfg.Media.Cloudinary.URL)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}
