package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Archive keeps an off-machine copy of exported documents
type Archive interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// DriveArchive uploads exports into a Google Drive folder
type DriveArchive struct {
	client   *drive.Service
	folderID string
	logger   *zap.Logger
}

// NewDriveArchive creates a Drive archive.
// credentialsPath should be the path to the Service Account JSON file.
func NewDriveArchive(ctx context.Context, credentialsPath, folderID string, logger *zap.Logger) (*DriveArchive, error) {
	if folderID == "" {
		return nil, errors.New("drive folder id is required")
	}
	client, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return NewDriveArchiveWithService(client, folderID, logger), nil
}

// NewDriveArchiveWithService creates a Drive archive over an existing service
func NewDriveArchiveWithService(client *drive.Service, folderID string, logger *zap.Logger) *DriveArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriveArchive{client: client, folderID: folderID, logger: logger}
}

// Upload creates the file in the folder and returns its view link
func (a *DriveArchive) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	file := &drive.File{
		Name:     name,
		MimeType: contentType,
		Parents:  []string{a.folderID},
	}
	created, err := a.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload to drive: %w", err)
	}

	link := created.WebViewLink
	if link == "" {
		link = fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id)
	}
	a.logger.Info("ArchiveExport: uploaded to drive", zap.String("name", name), zap.String("fileId", created.Id))
	return link, nil
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Prefix       string
	UsePathStyle bool
}

// S3Archive uploads exports to an S3-compatible bucket
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
	base   string
	logger *zap.Logger
}

// S3ArchiveOption is a functional option for configuring S3Archive
type S3ArchiveOption func(*S3Archive)

// WithS3Logger sets a custom logger for S3Archive
func WithS3Logger(logger *zap.Logger) S3ArchiveOption {
	return func(a *S3Archive) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewS3Archive creates an S3 archive from configuration
func NewS3Archive(ctx context.Context, cfg S3Config, opts ...S3ArchiveOption) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	if cfg.Endpoint != "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	a := &S3Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		base:   base,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ObjectKey is the bucket key an export is stored under
func (a *S3Archive) ObjectKey(name string) string {
	if a.prefix == "" {
		return name
	}
	return path.Join(a.prefix, name)
}

// Upload puts the object and returns its URL
func (a *S3Archive) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := a.ObjectKey(name)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	a.logger.Info("ArchiveExport: uploaded to s3", zap.String("bucket", a.bucket), zap.String("key", key))
	return a.base + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}

var (
	_ Archive = (*DriveArchive)(nil)
	_ Archive = (*S3Archive)(nil)
)
