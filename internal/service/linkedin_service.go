package service

import (
	"context"
	"fmt"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
	"github.com/jengzang/thinking-wizard-backend-go/internal/spatial"
)

// LinkedInService imports the profiles and posts the analysis consumes
type LinkedInService struct {
	repo *repository.LinkedInRepository
}

// NewLinkedInService creates a new LinkedIn import service
func NewLinkedInService(repo *repository.LinkedInRepository) *LinkedInService {
	return &LinkedInService{repo: repo}
}

// ImportProfiles validates and stores profiles, returning their IDs
func (s *LinkedInService) ImportProfiles(ctx context.Context, profiles []models.LinkedInProfile) ([]int64, error) {
	for i, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: profile %d: name is required", models.ErrInvalidInput, i)
		}
		if (p.Latitude == nil) != (p.Longitude == nil) {
			return nil, fmt.Errorf("%w: profile %d: latitude and longitude must be set together", models.ErrInvalidInput, i)
		}
		if p.Latitude != nil && !spatial.ValidCoordinate(*p.Latitude, *p.Longitude) {
			return nil, fmt.Errorf("%w: profile %d: invalid coordinate", models.ErrInvalidInput, i)
		}
	}
	return s.repo.InsertProfiles(ctx, profiles)
}

// ImportPosts validates and stores posts, returning their IDs
func (s *LinkedInService) ImportPosts(ctx context.Context, posts []models.LinkedInPost) ([]int64, error) {
	for i, p := range posts {
		if p.ProfileID == 0 || p.Content == "" || p.PostedAt.IsZero() {
			return nil, fmt.Errorf("%w: post %d: profile_id, content and posted_at are required", models.ErrInvalidInput, i)
		}
		if p.Likes < 0 || p.Comments < 0 || p.Shares < 0 {
			return nil, fmt.Errorf("%w: post %d: engagement counts must not be negative", models.ErrInvalidInput, i)
		}
	}
	return s.repo.InsertPosts(ctx, posts)
}
