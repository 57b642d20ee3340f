package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ActionFunc runs one analysis action over at most batchSize rows
type ActionFunc func(ctx context.Context, batchSize int) (interface{}, error)

// Processor runs the LinkedIn analysis actions
type Processor struct {
	linkedin  *repository.LinkedInRepository
	heatmap   *repository.HeatmapRepository
	extractor Extractor
	cellLevel int
	actions   map[models.AnalysisAction]ActionFunc
}

// NewProcessor creates a processor and registers its actions
func NewProcessor(linkedin *repository.LinkedInRepository, heatmap *repository.HeatmapRepository, extractor Extractor, cellLevel int) *Processor {
	p := &Processor{
		linkedin:  linkedin,
		heatmap:   heatmap,
		extractor: extractor,
		cellLevel: cellLevel,
	}
	p.actions = map[models.AnalysisAction]ActionFunc{
		models.ActionProcessProfiles: func(ctx context.Context, n int) (interface{}, error) { return p.ProcessProfiles(ctx, n) },
		models.ActionProcessPosts:    func(ctx context.Context, n int) (interface{}, error) { return p.ProcessPosts(ctx, n) },
		models.ActionGenerateHeatmap: func(ctx context.Context, _ int) (interface{}, error) { return p.GenerateHeatmap(ctx) },
		models.ActionFullAnalysis:    func(ctx context.Context, n int) (interface{}, error) { return p.FullAnalysis(ctx, n) },
	}
	return p
}

// Run dispatches a named action
func (p *Processor) Run(ctx context.Context, action models.AnalysisAction, batchSize int) (interface{}, error) {
	fn, ok := p.actions[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidAction, action)
	}
	return fn(ctx, batchSize)
}

// ProcessProfiles extracts keywords from the headline and summary of unprocessed profiles.
// A profile whose extraction fails stays unprocessed, behind untried rows, until
// it reaches repository.MaxExtractionAttempts.
func (p *Processor) ProcessProfiles(ctx context.Context, batchSize int) (*models.BatchResult, error) {
	profiles, err := p.linkedin.ListUnprocessedProfiles(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	log := logging.With("analysis")
	result := &models.BatchResult{}
	var failures int
	for _, profile := range profiles {
		text := strings.TrimSpace(profile.Headline + "\n" + profile.Summary)
		ex, err := p.extractor.Extract(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures++
			log.Warn().Err(err).Int64("profile_id", profile.ID).Msg("Profile extraction failed")
			if err := p.linkedin.RecordProfileFailure(ctx, profile.ID, err); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.linkedin.MarkProfileProcessed(ctx, profile.ID, ex.Keywords); err != nil {
			return nil, err
		}
		result.Processed++
		result.KeywordsExtracted += len(ex.Keywords)
	}

	if failures > 0 && result.Processed == 0 {
		return nil, fmt.Errorf("keyword extraction failed for all %d profiles", failures)
	}
	return result, nil
}

// ProcessPosts extracts keywords and sentiment from unprocessed posts
func (p *Processor) ProcessPosts(ctx context.Context, batchSize int) (*models.BatchResult, error) {
	posts, err := p.linkedin.ListUnprocessedPosts(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	log := logging.With("analysis")
	result := &models.BatchResult{}
	var failures int
	for _, post := range posts {
		ex, err := p.extractor.Extract(ctx, post.Content)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures++
			log.Warn().Err(err).Int64("post_id", post.ID).Msg("Post extraction failed")
			if err := p.linkedin.RecordPostFailure(ctx, post.ID, err); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.linkedin.MarkPostProcessed(ctx, post.ID, ex.Keywords, ex.Sentiment); err != nil {
			return nil, err
		}
		result.Processed++
		result.KeywordsExtracted += len(ex.Keywords)
	}

	if failures > 0 && result.Processed == 0 {
		return nil, fmt.Errorf("keyword extraction failed for all %d posts", failures)
	}
	return result, nil
}

// GenerateHeatmap rebuilds heatmap points from every processed, located post
func (p *Processor) GenerateHeatmap(ctx context.Context) (*models.HeatmapResult, error) {
	observations, err := p.linkedin.ListObservations(ctx)
	if err != nil {
		return nil, err
	}

	points := BuildHeatmapPoints(observations, p.cellLevel)
	if err := p.heatmap.UpsertPoints(ctx, points); err != nil {
		return nil, err
	}

	log := logging.With("analysis")
	log.Info().
		Int("observations", len(observations)).
		Int("points", len(points)).
		Msg("Heatmap generated")

	return &models.HeatmapResult{
		PointsGenerated: len(points),
		Snapshots:       CountSnapshots(points),
	}, nil
}

// FullAnalysis processes profiles and posts concurrently, then regenerates the heatmap
func (p *Processor) FullAnalysis(ctx context.Context, batchSize int) (*models.FullAnalysisResult, error) {
	var profiles, posts *models.BatchResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = p.ProcessProfiles(gctx, batchSize)
		if err != nil {
			return fmt.Errorf("process profiles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		posts, err = p.ProcessPosts(gctx, batchSize)
		if err != nil {
			return fmt.Errorf("process posts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	heatmap, err := p.GenerateHeatmap(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate heatmap: %w", err)
	}

	return &models.FullAnalysisResult{
		Profiles: *profiles,
		Posts:    *posts,
		Heatmap:  *heatmap,
	}, nil
}

// IsInputError reports whether err was caused by the request rather than the server
func IsInputError(err error) bool {
	return errors.Is(err, models.ErrInvalidAction) || errors.Is(err, models.ErrInvalidBatchSize)
}
