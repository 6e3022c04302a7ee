package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DefaultMaxImageMB caps uploaded image size.
const DefaultMaxImageMB = 10

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidationResult reports whether a file is acceptable for upload.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Service stores image files in S3 and produces viewable URLs.
type Service struct {
	client       *s3.Client
	bucket       string
	mediaBaseURL string
}

func NewService(client *s3.Client, bucket, mediaBaseURL string) *Service {
	return &Service{
		client:       client,
		bucket:       bucket,
		mediaBaseURL: strings.TrimSuffix(mediaBaseURL, "/"),
	}
}

// Upload stores the file and returns its generated file ID.
func (s *Service) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	fileID := uuid.New().String()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fileID),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	return fileID, nil
}

// Delete removes a stored file.
func (s *Service) Delete(ctx context.Context, fileID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// ViewURL returns a presigned URL for viewing the full file.
func (s *Service) ViewURL(ctx context.Context, fileID string) (string, error) {
	req, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign file url: %w", err)
	}
	return req.URL, nil
}

// PreviewURL returns a dimensioned preview URL served by the media proxy.
func (s *Service) PreviewURL(fileID string, width, height int) string {
	if width <= 0 {
		width = 500
	}
	if height <= 0 {
		height = 500
	}
	return fmt.Sprintf("%s/files/%s/preview?width=%d&height=%d", s.mediaBaseURL, fileID, width, height)
}

// ValidateImage checks content type and size before upload.
func ValidateImage(contentType string, size int64, maxSizeMB int) ValidationResult {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxImageMB
	}

	if !validImageTypes[strings.ToLower(contentType)] {
		return ValidationResult{
			Valid: false,
			Error: "Invalid file type. Please upload a JPEG, PNG, WebP, or GIF image.",
		}
	}

	maxSizeBytes := int64(maxSizeMB) * 1024 * 1024
	if size > maxSizeBytes {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("File size exceeds %dMB. Please upload a smaller image.", maxSizeMB),
		}
	}

	return ValidationResult{Valid: true}
}

// UniqueFilename builds a collision-resistant name keeping the original
// extension.
func UniqueFilename(original string) string {
	ext := strings.TrimPrefix(path.Ext(original), ".")
	suffix := fmt.Sprintf("%06x", rand.Intn(1<<24))
	if ext == "" {
		return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), suffix)
	}
	return fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), suffix, ext)
}
