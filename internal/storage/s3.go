// Package storage issues presigned upload URLs for catalog and store images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	appconfig "storefront-admin/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrContentType = errors.New("only image files are allowed (JPEG, PNG, GIF, WEBP)")
	ErrFolder      = errors.New("unknown upload folder")
)

var (
	imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	folders    = []string{"categories", "subcategories", "stores", "products"}
)

const defaultFolder = "products"

// PresignedUpload is returned to the dashboard, which PUTs the file to
// UploadURL and stores FileURL on the entity.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

type S3Storage struct {
	presign   *s3.PresignClient
	bucket    string
	region    string
	publicURL string
	expiry    time.Duration
}

// NewS3Storage uses static credentials when both keys are configured and the
// default AWS credential chain otherwise. A custom endpoint switches to path
// style addressing for MinIO and LocalStack.
func NewS3Storage(ctx context.Context, cfg appconfig.StorageConfig) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &S3Storage{
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		expiry:    expiry,
	}, nil
}

// PresignUpload signs a PUT for a new object under folder. The object key is
// a fresh uuid keeping the extension of filename.
func (s *S3Storage) PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedUpload, error) {
	if err := ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if folder == "" {
		folder = defaultFolder
	}
	if !slices.Contains(folders, folder) {
		return nil, fmt.Errorf("%w: %s", ErrFolder, folder)
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), strings.ToLower(path.Ext(filename)))

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ValidateContentType accepts the image types the dashboard can upload
func ValidateContentType(contentType string) error {
	if !slices.Contains(imageTypes, strings.ToLower(strings.TrimSpace(contentType))) {
		return ErrContentType
	}
	return nil
}
