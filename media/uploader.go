// Package media integrates with the external media hosting service that
// stores user avatars and cover images. The backing store is any
// S3-compatible object storage; the rest of the application only sees the
// Uploader interface and the public URL of an uploaded object.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/config"
)

// uploadTimeout bounds a single object upload so a stalled media backend
// surfaces as an error instead of hanging the request.
const uploadTimeout = 30 * time.Second

// Uploader stores a media object and returns its publicly reachable URL.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

// S3Uploader implements Uploader against S3-compatible object storage.
type S3Uploader struct {
	cfg    *config.MediaConfig
	client *s3.Client
}

// NewS3Uploader builds the S3 client from the media configuration. Static
// credentials and a custom base endpoint support MinIO and other
// S3-compatible backends.
func NewS3Uploader(cfg *config.MediaConfig) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load media storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{cfg: cfg, client: client}, nil
}

// storageKey builds a collision-free object key, grouping uploads by date to
// keep bucket listings navigable.
func storageKey(folder, filename string) string {
	d := time.Now()
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	return fmt.Sprintf("%s/%d/%02d/%v%s", folder, d.Year(), int(d.Month()), uuid.New(), ext)
}

// publicURL derives the client-facing URL of an uploaded object.
func (u *S3Uploader) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", u.cfg.PublicBaseURL, u.cfg.Bucket, key)
}

// Upload stores the object and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key := storageKey(folder, filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return u.publicURL(key), nil
}
