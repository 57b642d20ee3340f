package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu     sync.Mutex
	points []models.HeatmapPoint
	err    error
	calls  []models.HeatmapFilters
	// block, when set, holds the first call until released
	block chan struct{}
}

func (s *fakeSource) FetchPoints(_ context.Context, f models.HeatmapFilters) ([]models.HeatmapPoint, error) {
	s.mu.Lock()
	s.calls = append(s.calls, f)
	block := s.block
	s.block = nil
	points, err := s.points, s.err
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return points, err
}

type fakeTrigger struct {
	env    *models.AnalysisEnvelope
	err    error
	action models.AnalysisAction
	batch  int
}

func (f *fakeTrigger) TriggerAnalysis(_ context.Context, action models.AnalysisAction, batch int) (*models.AnalysisEnvelope, error) {
	f.action, f.batch = action, batch
	return f.env, f.err
}

func point(keyword, date string, density float64) models.HeatmapPoint {
	return models.HeatmapPoint{Keyword: keyword, SnapshotDate: date, DensityScore: density, EngagementScore: 1}
}

func TestFetch_ReplacesData(t *testing.T) {
	src := &fakeSource{points: []models.HeatmapPoint{point("logic", "2026-10-10", 1), point("bias", "2026-10-11", 0.5)}}
	d := New(src, &fakeTrigger{}, now)

	require.NoError(t, d.Fetch(context.Background()))
	assert.Len(t, d.Data(), 2)
	assert.False(t, d.Loading())
	assert.Equal(t, models.DefaultHeatmapFilters(now), src.calls[0])
}

func TestFetch_FailureKeepsData(t *testing.T) {
	src := &fakeSource{points: []models.HeatmapPoint{point("logic", "2026-10-10", 1)}}
	d := New(src, &fakeTrigger{}, now)
	require.NoError(t, d.Fetch(context.Background()))

	src.err = errors.New("network down")
	assert.Error(t, d.Fetch(context.Background()))
	assert.Len(t, d.Data(), 1)
	assert.False(t, d.Loading())
}

func TestFetch_DropsPointsOutsideFilters(t *testing.T) {
	src := &fakeSource{points: []models.HeatmapPoint{point("logic", "2026-10-10", 1), point("logic", "2025-01-01", 1)}}
	d := New(src, &fakeTrigger{}, now)
	require.NoError(t, d.Fetch(context.Background()))
	assert.Len(t, d.Data(), 1)
}

func TestFetch_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{
		points: []models.HeatmapPoint{point("stale", "2026-10-10", 1)},
		block:  release,
	}
	d := New(src, &fakeTrigger{}, now)

	done := make(chan error)
	go func() { done <- d.Fetch(context.Background()) }()

	// Wait for the first fetch to be in flight
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return len(src.calls) == 1
	}, time.Second, time.Millisecond)
	assert.True(t, d.Loading())

	src.mu.Lock()
	src.points = []models.HeatmapPoint{point("fresh", "2026-10-10", 1)}
	src.mu.Unlock()

	f := models.DefaultHeatmapFilters(now)
	f.Keywords = []string{"fresh"}
	require.NoError(t, d.SetFilters(context.Background(), f))

	close(release)
	require.NoError(t, <-done)

	data := d.Data()
	require.Len(t, data, 1)
	assert.Equal(t, "fresh", data[0].Keyword)
	assert.False(t, d.Loading())
}

func TestSetFilters_RejectsInvalid(t *testing.T) {
	src := &fakeSource{}
	d := New(src, &fakeTrigger{}, now)

	f := models.DefaultHeatmapFilters(now)
	f.MinSentiment, f.MaxSentiment = 0.5, -0.5
	assert.ErrorIs(t, d.SetFilters(context.Background(), f), models.ErrInvalidFilters)
	assert.Empty(t, src.calls)
	assert.Equal(t, models.DefaultHeatmapFilters(now), d.Filters())
}

func TestTriggerAnalysis_SuccessRefetches(t *testing.T) {
	src := &fakeSource{points: []models.HeatmapPoint{point("logic", "2026-10-10", 1)}}
	trig := &fakeTrigger{env: &models.AnalysisEnvelope{Success: true, Data: json.RawMessage(`{"points_generated":1}`)}}
	d := New(src, trig, now)

	out := d.TriggerAnalysis(context.Background(), models.ActionGenerateHeatmap)
	assert.True(t, out.Success)
	assert.JSONEq(t, `{"points_generated":1}`, string(out.Data))
	assert.Equal(t, AnalysisBatchSize, trig.batch)
	assert.Equal(t, models.ActionGenerateHeatmap, trig.action)
	assert.Len(t, src.calls, 1)
	assert.Len(t, d.Data(), 1)
}

func TestTriggerAnalysis_FailureLeavesDataUnchanged(t *testing.T) {
	src := &fakeSource{points: []models.HeatmapPoint{point("logic", "2026-10-10", 1)}}
	d := New(src, &fakeTrigger{env: &models.AnalysisEnvelope{Success: false, Error: "boom"}}, now)
	require.NoError(t, d.Fetch(context.Background()))

	out := d.TriggerAnalysis(context.Background(), models.ActionFullAnalysis)
	assert.False(t, out.Success)
	assert.Equal(t, "boom", out.Error)
	assert.Len(t, src.calls, 1, "no refetch after a failed analysis")
	assert.Len(t, d.Data(), 1)

	d.trigger = &fakeTrigger{err: errors.New("connection refused")}
	out = d.TriggerAnalysis(context.Background(), models.ActionFullAnalysis)
	assert.False(t, out.Success)
	assert.Equal(t, "connection refused", out.Error)
}

func TestProjections(t *testing.T) {
	d := New(&fakeSource{}, &fakeTrigger{}, now)
	layers := d.Layers()
	assert.NotNil(t, layers.Density)
	assert.Empty(t, layers.Density)
	assert.Empty(t, d.TopKeywords())

	d.data = []models.HeatmapPoint{point("b", "2026-10-10", 1), point("a", "2026-10-10", 1), point("b", "2026-10-11", 0.5)}
	top := d.TopKeywords()
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Keyword)
	assert.Equal(t, 1.5, top[0].Density)
	assert.Len(t, d.Layers().Engagement, 3)
}
