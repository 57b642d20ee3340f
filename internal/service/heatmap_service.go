package service

import (
	"context"

	"github.com/jengzang/thinking-wizard-backend-go/internal/heatmap"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
)

// HeatmapService handles heatmap read business logic
type HeatmapService struct {
	repo *repository.HeatmapRepository
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(repo *repository.HeatmapRepository) *HeatmapService {
	return &HeatmapService{repo: repo}
}

// GetPoints returns the points matching the filters
func (s *HeatmapService) GetPoints(ctx context.Context, filters models.HeatmapFilters) ([]models.HeatmapPoint, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	return s.repo.QueryPoints(ctx, filters)
}

// GetLayers projects the matching points onto the three visualization layers
func (s *HeatmapService) GetLayers(ctx context.Context, filters models.HeatmapFilters) (models.HeatmapLayers, error) {
	points, err := s.GetPoints(ctx, filters)
	if err != nil {
		return models.HeatmapLayers{}, err
	}
	return heatmap.BuildLayers(points), nil
}

// GetTopKeywords ranks keywords of the matching points by summed density
func (s *HeatmapService) GetTopKeywords(ctx context.Context, filters models.HeatmapFilters) ([]models.KeywordScore, error) {
	points, err := s.GetPoints(ctx, filters)
	if err != nil {
		return nil, err
	}
	return heatmap.TopKeywords(points), nil
}
