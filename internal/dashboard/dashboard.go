// Package dashboard holds the client-side heatmap state: the current filters,
// the fetched points and the projections derived from them.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/heatmap"
	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// AnalysisBatchSize is the batch size sent with every analysis trigger
const AnalysisBatchSize = 50

// PointSource reads heatmap points matching filters
type PointSource interface {
	FetchPoints(ctx context.Context, f models.HeatmapFilters) ([]models.HeatmapPoint, error)
}

// AnalysisTrigger invokes the remote analysis endpoint
type AnalysisTrigger interface {
	TriggerAnalysis(ctx context.Context, action models.AnalysisAction, batchSize int) (*models.AnalysisEnvelope, error)
}

// AnalysisOutcome is the result of TriggerAnalysis
type AnalysisOutcome struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Dashboard is safe for concurrent use
type Dashboard struct {
	source  PointSource
	trigger AnalysisTrigger

	mu         sync.Mutex
	filters    models.HeatmapFilters
	data       []models.HeatmapPoint
	inflight   int
	generation uint64
}

// New creates a dashboard with the default filters for now
func New(source PointSource, trigger AnalysisTrigger, now time.Time) *Dashboard {
	return &Dashboard{
		source:  source,
		trigger: trigger,
		filters: models.DefaultHeatmapFilters(now),
		data:    []models.HeatmapPoint{},
	}
}

// Fetch replaces the data with the points matching the current filters.
// On failure the previous data is kept. A response overtaken by a later
// fetch is discarded.
func (d *Dashboard) Fetch(ctx context.Context) error {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	filters := d.filters
	d.inflight++
	d.mu.Unlock()

	points, err := d.source.FetchPoints(ctx, filters)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--

	log := logging.With("dashboard")
	if err != nil {
		log.Error().Err(err).Msg("Error fetching heatmap data")
		return err
	}
	if gen != d.generation {
		log.Debug().Uint64("generation", gen).Uint64("current", d.generation).Msg("Discarding stale heatmap response")
		return nil
	}
	d.data = heatmap.Filter(points, filters)
	return nil
}

// SetFilters validates and replaces the filters, then refetches
func (d *Dashboard) SetFilters(ctx context.Context, f models.HeatmapFilters) error {
	if err := f.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	d.filters = f
	d.mu.Unlock()
	return d.Fetch(ctx)
}

// TriggerAnalysis runs an analysis action remotely and refetches on success.
// Failures are reported in the outcome, never as an error.
func (d *Dashboard) TriggerAnalysis(ctx context.Context, action models.AnalysisAction) AnalysisOutcome {
	log := logging.With("dashboard")

	env, err := d.trigger.TriggerAnalysis(ctx, action, AnalysisBatchSize)
	if err != nil {
		log.Error().Err(err).Str("action", string(action)).Msg("Error triggering analysis")
		return AnalysisOutcome{Success: false, Error: err.Error()}
	}
	if !env.Success {
		log.Warn().Str("action", string(action)).Str("error", env.Error).Msg("Analysis failed")
		return AnalysisOutcome{Success: false, Error: env.Error}
	}

	// Fetch logs its own failure; the analysis itself succeeded
	_ = d.Fetch(ctx)

	return AnalysisOutcome{Success: true, Data: env.Data}
}

// Data returns a copy of the current points
func (d *Dashboard) Data() []models.HeatmapPoint {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.HeatmapPoint, len(d.data))
	copy(out, d.data)
	return out
}

// Filters returns the current filters
func (d *Dashboard) Filters() models.HeatmapFilters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filters
}

// Loading reports whether a fetch is in flight
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inflight > 0
}

// TopKeywords ranks keywords of the current data by summed density
func (d *Dashboard) TopKeywords() []models.KeywordScore {
	return heatmap.TopKeywords(d.Data())
}

// Layers projects the current data onto the visualization layers
func (d *Dashboard) Layers() models.HeatmapLayers {
	return heatmap.BuildLayers(d.Data())
}
