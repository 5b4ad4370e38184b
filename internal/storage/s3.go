package storage

import (
	"alcyxob/fitness-backend/internal/config"
	"alcyxob/fitness-backend/pkg/logger"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// uploadPrefix is the first key segment of every stored image. It mirrors the
// ".../upload/<folder>/<name>.<ext>" URL shape asset ids are recovered from.
const uploadPrefix = "upload"

// s3API is the subset of the S3 client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Storage implements ImageStorage using an S3-compatible backend.
// Images are resized locally before the PUT because S3 has no
// upload-time transformations.
type s3Storage struct {
	client     s3API
	bucketName string
	baseURL    string // public URL prefix, object keys are appended to it
}

// NewS3Storage creates a new S3 storage service instance.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (ImageStorage, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket_name is required")
	}
	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)

	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// Path-style addressing is required by most S3-compatible services.
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	st := newS3Storage(s3Client, cfg.BucketName, publicBaseURL(cfg, endpoint))
	logger.Log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"base_url": st.baseURL,
	}).Info("S3 image storage initialized")
	return st, nil
}

func newS3Storage(client s3API, bucket, baseURL string) *s3Storage {
	return &s3Storage{
		client:     client,
		bucketName: bucket,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func publicBaseURL(cfg config.S3Config, endpoint string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case endpoint != "":
		return strings.TrimRight(endpoint, "/") + "/" + cfg.BucketName
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.BucketName, cfg.Region)
	}
}

// Upload resizes the image into the bound box and stores it under
// upload/<folder>/<name>.<ext>.
func (s *s3Storage) Upload(ctx context.Context, req UploadRequest) (string, error) {
	img, err := fitWithin(req.Data, MaxImageWidth, MaxImageHeight)
	if err != nil {
		return "", err
	}

	objectKey := path.Join(uploadPrefix, req.Folder, req.Name+img.ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(img.data),
		ContentType: aws.String(img.contentType),
	})
	if err != nil {
		logger.Log.WithError(err).WithField("key", objectKey).Error("Failed to put object")
		return "", err
	}

	logger.Log.WithFields(logrus.Fields{"key": objectKey, "bytes": len(img.data)}).Info("Stored image object")
	return s.baseURL + "/" + objectKey, nil
}

// Destroy removes every object stored for assetID, whatever its extension.
func (s *s3Storage) Destroy(ctx context.Context, assetID string) error {
	prefix := path.Join(uploadPrefix, assetID) + "."
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return err
	}

	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		// "exercises/abc." must not match "exercises/abc.d/other.png"
		if strings.Contains(strings.TrimPrefix(key, prefix), "/") {
			continue
		}
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(key),
		}); err != nil {
			return err
		}
		logger.Log.WithFields(logrus.Fields{"key": key, "bucket": s.bucketName}).Info("Deleted image object")
	}
	return nil
}
