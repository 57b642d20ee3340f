package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
)

// ReflectionService handles reflection business logic
type ReflectionService struct {
	repo *repository.ReflectionRepository
}

// NewReflectionService creates a new reflection service
func NewReflectionService(repo *repository.ReflectionRepository) *ReflectionService {
	return &ReflectionService{repo: repo}
}

// Save upserts a reflection; an existing row for the same key is replaced
func (s *ReflectionService) Save(ctx context.Context, ref models.Reflection) error {
	if err := validateKey(ref.ReflectionKey); err != nil {
		return err
	}
	ref.UpdatedAt = time.Now().UTC()
	return s.repo.Upsert(ctx, ref)
}

// Get retrieves one reflection
func (s *ReflectionService) Get(ctx context.Context, key models.ReflectionKey) (*models.Reflection, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// List retrieves all reflections of a user
func (s *ReflectionService) List(ctx context.Context, userID string) ([]models.Reflection, error) {
	return s.repo.ListByUser(ctx, userID)
}

func validateKey(key models.ReflectionKey) error {
	if key.UserID == "" {
		return fmt.Errorf("%w: user id is required", models.ErrInvalidInput)
	}
	if key.SessionNumber < 1 || key.LectureNumber < 1 {
		return fmt.Errorf("%w: session and lecture numbers must be positive", models.ErrInvalidInput)
	}
	return nil
}
