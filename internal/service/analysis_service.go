package service

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/analysis"
	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/metrics"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
)

// AnalysisService handles analysis trigger business logic
type AnalysisService struct {
	processor        *analysis.Processor
	runs             *repository.AnalysisRunRepository
	defaultBatchSize int
	maxBatchSize     int
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(processor *analysis.Processor, runs *repository.AnalysisRunRepository, defaultBatchSize, maxBatchSize int) *AnalysisService {
	return &AnalysisService{
		processor:        processor,
		runs:             runs,
		defaultBatchSize: defaultBatchSize,
		maxBatchSize:     maxBatchSize,
	}
}

// Trigger validates the request, runs the action synchronously and records the run
func (s *AnalysisService) Trigger(ctx context.Context, req models.AnalysisRequest, createdBy string) (interface{}, error) {
	action, err := models.ParseAnalysisAction(string(req.Action))
	if err != nil {
		return nil, err
	}

	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = s.defaultBatchSize
	}
	if batchSize < 1 || batchSize > s.maxBatchSize {
		return nil, fmt.Errorf("%w: must be between 1 and %d, got %d", models.ErrInvalidBatchSize, s.maxBatchSize, req.BatchSize)
	}

	run := &models.AnalysisRun{
		Action:    action,
		BatchSize: batchSize,
		CreatedBy: createdBy,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	log := logging.With("analysis")
	log.Info().Int64("run_id", run.ID).Str("action", string(action)).Int("batch_size", batchSize).Msg("Analysis started")

	result, err := s.processor.Run(ctx, action, batchSize)
	if err != nil {
		metrics.AnalysisRuns.WithLabelValues(string(action), models.RunStatusFailed).Inc()
		log.Error().Err(err).Int64("run_id", run.ID).Msg("Analysis failed")
		// Use a fresh context so a cancelled request still records the failure
		if markErr := s.runs.MarkAsFailed(context.WithoutCancel(ctx), run.ID, err.Error()); markErr != nil {
			log.Error().Err(markErr).Int64("run_id", run.ID).Msg("Failed to record analysis failure")
		}
		return nil, err
	}

	summary, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	if err := s.runs.MarkAsCompleted(ctx, run.ID, string(summary)); err != nil {
		return nil, err
	}

	metrics.AnalysisRuns.WithLabelValues(string(action), models.RunStatusCompleted).Inc()
	if n := pointsGenerated(result); n > 0 {
		metrics.HeatmapPointsGenerated.Add(float64(n))
	}
	log.Info().Int64("run_id", run.ID).RawJSON("result", summary).Msg("Analysis completed")

	return result, nil
}

// GetRun retrieves one recorded run
func (s *AnalysisService) GetRun(ctx context.Context, id int64) (*models.AnalysisRun, error) {
	return s.runs.GetByID(ctx, id)
}

// ListRuns lists recorded runs, newest first
func (s *AnalysisService) ListRuns(ctx context.Context, action, status string, limit, offset int) ([]*models.AnalysisRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.runs.List(ctx, action, status, limit, offset)
}

func pointsGenerated(result interface{}) int {
	switch r := result.(type) {
	case *models.HeatmapResult:
		return r.PointsGenerated
	case *models.FullAnalysisResult:
		return r.Heatmap.PointsGenerated
	}
	return 0
}
