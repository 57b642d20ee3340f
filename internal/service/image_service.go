package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/metrics"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/openai"
)

// Default image parameters
const (
	DefaultImageSize    = "1024x1024"
	DefaultImageQuality = "standard"
)

// ImageGenerator is the image generation call
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, size, quality string) (*openai.Image, error)
}

// Uploader stores an object and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error)
}

// ImageService generates images and stores them
type ImageService struct {
	api    ImageGenerator
	store  Uploader
	bucket string
}

// NewImageService creates a new image service
func NewImageService(api ImageGenerator, store Uploader, bucket string) *ImageService {
	return &ImageService{api: api, store: store, bucket: bucket}
}

// Generate creates an image and uploads it. When the upload fails the image is
// returned inline as a data URL with Stored set to false.
func (s *ImageService) Generate(ctx context.Context, req models.ImageRequest) (*models.ImageResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, models.ErrMissingPrompt
	}
	size := req.Size
	if size == "" {
		size = DefaultImageSize
	}
	quality := req.Quality
	if quality == "" {
		quality = DefaultImageQuality
	}

	img, err := s.api.GenerateImage(ctx, prompt, size, quality)
	if err != nil {
		return nil, err
	}

	if img.B64JSON == "" {
		if img.URL == "" {
			return nil, fmt.Errorf("image response contained no data")
		}
		return &models.ImageResult{ImageURL: img.URL, RevisedPrompt: img.RevisedPrompt}, nil
	}

	data, err := base64.StdEncoding.DecodeString(img.B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	key := uuid.NewString() + ".png"
	url, err := s.store.Upload(ctx, s.bucket, key, "image/png", data)
	if err != nil {
		metrics.ImageUploadFallbacks.Inc()
		logging.With("image").Warn().Err(err).Str("bucket", s.bucket).Msg("Image upload failed, returning inline image")
		return &models.ImageResult{
			ImageURL:      "data:image/png;base64," + img.B64JSON,
			Stored:        false,
			RevisedPrompt: img.RevisedPrompt,
		}, nil
	}

	return &models.ImageResult{
		ImageURL:      url,
		Stored:        true,
		RevisedPrompt: img.RevisedPrompt,
	}, nil
}
