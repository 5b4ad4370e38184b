package storage

import (
	"alcyxob/fitness-backend/internal/config"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestScaledSize(t *testing.T) {
	tests := []struct{ w, h, wantW, wantH int }{
		{400, 300, 400, 300},
		{800, 800, 800, 800},
		{1600, 900, 800, 450},
		{900, 1800, 400, 800},
		{5000, 1, 800, 1},
	}
	for _, tt := range tests {
		w, h := scaledSize(tt.w, tt.h, 800, 800)
		assert.Equal(t, tt.wantW, w, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "%dx%d", tt.w, tt.h)
	}
}

func TestFitWithinShrinksLargePNG(t *testing.T) {
	out, err := fitWithin(pngBytes(t, 1600, 900), MaxImageWidth, MaxImageHeight)
	require.NoError(t, err)
	assert.Equal(t, ".png", out.ext)
	assert.Equal(t, "image/png", out.contentType)

	cfg, err := png.DecodeConfig(bytes.NewReader(out.data))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 450, cfg.Height)
}

func TestFitWithinNeverUpscales(t *testing.T) {
	out, err := fitWithin(jpegBytes(t, 320, 240), MaxImageWidth, MaxImageHeight)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", out.ext)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.data))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestFitWithinRejectsNonImages(t *testing.T) {
	_, err := fitWithin([]byte("%PDF-1.4 not an image"), MaxImageWidth, MaxImageHeight)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	bodies  [][]byte
	objects []string
	deleted []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for _, key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3UploadBuildsUploadURL(t *testing.T) {
	client := &fakeS3{}
	st := newS3Storage(client, "media", "https://cdn.example.com/")

	url, err := st.Upload(context.Background(), UploadRequest{Data: pngBytes(t, 10, 10), Folder: "exercises", Name: "exercise-1"})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/upload/exercises/exercise-1.png", url)
	require.Len(t, client.puts, 1)
	assert.Equal(t, "upload/exercises/exercise-1.png", aws.ToString(client.puts[0].Key))
	assert.Equal(t, "image/png", aws.ToString(client.puts[0].ContentType))
	assert.NotEmpty(t, client.bodies[0])
}

func TestS3UploadPropagatesErrors(t *testing.T) {
	st := newS3Storage(&fakeS3{putErr: errors.New("bucket gone")}, "media", "https://cdn")
	_, err := st.Upload(context.Background(), UploadRequest{Data: pngBytes(t, 4, 4), Folder: "exercises", Name: "x"})
	assert.EqualError(t, err, "bucket gone")
}

func TestS3DestroyMatchesAnyExtensionOnly(t *testing.T) {
	client := &fakeS3{objects: []string{
		"upload/exercises/abc.png",
		"upload/exercises/abc.d/other.png",
		"upload/exercises/abcdef.png",
	}}
	st := newS3Storage(client, "media", "https://cdn")

	require.NoError(t, st.Destroy(context.Background(), "exercises/abc"))
	assert.Equal(t, []string{"upload/exercises/abc.png"}, client.deleted)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn", publicBaseURL(config.S3Config{PublicBaseURL: "https://cdn"}, ""))
	assert.Equal(t, "http://minio:9000/media", publicBaseURL(config.S3Config{BucketName: "media"}, endpointURL("minio:9000", false)))
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com", publicBaseURL(config.S3Config{BucketName: "media", Region: "eu-west-1"}, ""))
}

type fakeCloudinary struct {
	uploadParams  uploader.UploadParams
	uploadResult  *uploader.UploadResult
	destroyResult *uploader.DestroyResult
	destroyed     string
}

func (f *fakeCloudinary) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploadParams = p
	return f.uploadResult, nil
}

func (f *fakeCloudinary) Destroy(_ context.Context, p uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = p.PublicID
	return f.destroyResult, nil
}

func TestCloudinaryUploadSendsTransformation(t *testing.T) {
	api := &fakeCloudinary{uploadResult: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/exercises/e.jpg"}}
	st := &cloudinaryStorage{api: api}

	url, err := st.Upload(context.Background(), UploadRequest{Data: []byte("img"), Folder: "exercises", Name: "e"})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/exercises/e.jpg", url)
	assert.Equal(t, "exercises", api.uploadParams.Folder)
	assert.Equal(t, "e", api.uploadParams.PublicID)
	assert.Equal(t, "c_limit,h_800,w_800/q_auto", api.uploadParams.Transformation)
}

func TestCloudinaryUploadSurfacesAPIError(t *testing.T) {
	res := &uploader.UploadResult{}
	res.Error.Message = "Invalid image file"
	st := &cloudinaryStorage{api: &fakeCloudinary{uploadResult: res}}

	_, err := st.Upload(context.Background(), UploadRequest{Data: []byte("img")})
	assert.EqualError(t, err, "Invalid image file")
}

func TestCloudinaryDestroy(t *testing.T) {
	api := &fakeCloudinary{destroyResult: &uploader.DestroyResult{Result: "not found"}}
	st := &cloudinaryStorage{api: api}
	require.NoError(t, st.Destroy(context.Background(), "exercises/e"))
	assert.Equal(t, "exercises/e", api.destroyed)

	api.destroyResult = &uploader.DestroyResult{Result: "error"}
	assert.Error(t, st.Destroy(context.Background(), "exercises/e"))
}

func TestNewSelectsProvider(t *testing.T) {
	st, err := New(context.Background(), config.MediaConfig{Provider: config.ProviderNone})
	require.NoError(t, err)
	_, err = st.Upload(context.Background(), UploadRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, st.Destroy(context.Background(), "anything"))

	_, err = New(context.Background(), config.MediaConfig{Provider: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.MediaConfig{Provider: config.ProviderCloudinary})
	assert.Error(t, err)
}
