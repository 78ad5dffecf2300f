package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageService stores base64-encoded recipe images in S3 and hands back
// the public URL that gets persisted on the recipe row.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// IsDataURL reports whether the payload is an inline base64 image rather
// than an already-stored URL.
func IsDataURL(payload string) bool {
	return strings.HasPrefix(payload, "data:image/")
}

// StoreDataURL decodes a "data:image/<ext>;base64,<data>" payload and
// uploads it, returning the public URL.
func (s *ImageService) StoreDataURL(ctx context.Context, payload string) (string, error) {
	header, data, found := strings.Cut(payload, ",")
	if !found {
		return "", fmt.Errorf("malformed image payload")
	}

	ext := "png"
	if rest, ok := strings.CutPrefix(header, "data:image/"); ok {
		mediatype, _, _ := strings.Cut(rest, ";")
		if mediatype != "" {
			ext = mediatype
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	return s.upload(ctx, decoded, fileName, "image/"+ext)
}

func (s *ImageService) upload(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] uploaded image to %s", publicURL)
	return publicURL, nil
}
