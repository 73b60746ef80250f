package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/macrosnap/backend/config"
)

// PhotoService stores uploaded meal photos in S3. Upload failure is not
// fatal to an analysis; callers log and keep the record without a photo URL.
type PhotoService struct {
	s3Config *config.S3Config
}

// Ensure PhotoService implements IPhotoStore
var _ IPhotoStore = (*PhotoService)(nil)

// NewPhotoService creates a new PhotoService instance
func NewPhotoService(s3Config *config.S3Config) *PhotoService {
	return &PhotoService{s3Config: s3Config}
}

// Store uploads the photo bytes and returns the object URL
func (s *PhotoService) Store(ctx context.Context, image []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("meal-photos/%s%s", uuid.New().String(), extensionFor(contentType))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo to S3: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[PhotoService] Stored meal photo at %s", url)
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
