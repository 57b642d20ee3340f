package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHeatmapFilters(t *testing.T) {
	now := time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC)
	f := DefaultHeatmapFilters(now)

	assert.Equal(t, "2026-09-16", f.StartKey())
	assert.Equal(t, "2026-10-16", f.EndKey())
	assert.Equal(t, -1.0, f.MinSentiment)
	assert.Equal(t, 1.0, f.MaxSentiment)
	assert.Zero(t, f.MinEngagement)
	assert.Empty(t, f.Keywords)
	assert.NoError(t, f.Validate())
}

func TestHeatmapFilters_ValidateInvariants(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	f := DefaultHeatmapFilters(now)
	f.StartDate, f.EndDate = f.EndDate, f.StartDate
	assert.True(t, errors.Is(f.Validate(), ErrInvalidFilters))

	f = DefaultHeatmapFilters(now)
	f.MinSentiment, f.MaxSentiment = 0.5, -0.5
	assert.Error(t, f.Validate())

	f = DefaultHeatmapFilters(now)
	f.MaxSentiment = 1.5
	assert.Error(t, f.Validate())

	f = DefaultHeatmapFilters(now)
	f.MinEngagement = -1
	assert.Error(t, f.Validate())
}

func TestHeatmapQuery_ToFilters(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	minS, minE := -0.2, 5.0
	q := HeatmapQuery{
		Keywords:      " logic, ,bias ",
		Start:         "2026-10-01",
		MinSentiment:  &minS,
		MinEngagement: &minE,
	}

	f, err := q.ToFilters(now)
	require.NoError(t, err)
	assert.Equal(t, []string{"logic", "bias"}, f.Keywords)
	assert.Equal(t, "2026-10-01", f.StartKey())
	assert.Equal(t, "2026-10-16", f.EndKey())
	assert.Equal(t, -0.2, f.MinSentiment)
	assert.Equal(t, 1.0, f.MaxSentiment)
	assert.Equal(t, 5.0, f.MinEngagement)

	_, err = HeatmapQuery{Start: "16/10/2026"}.ToFilters(now)
	assert.ErrorIs(t, err, ErrInvalidFilters)
}

func TestParseAnalysisAction(t *testing.T) {
	for _, a := range AnalysisActions {
		got, err := ParseAnalysisAction(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAnalysisAction("delete_everything")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestParseUIMode(t *testing.T) {
	assert.Equal(t, ModeAdmin, ParseUIMode("admin"))
	assert.Equal(t, ModeStudent, ParseUIMode("authenticated"))
	assert.Equal(t, "student", ModeStudent.String())
}
