package heatmap

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var base = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

var keywordPool = []string{"logic", "bias", "evidence", "fallacy", "inference", "argument"}

func genPoint() *rapid.Generator[models.HeatmapPoint] {
	return rapid.Custom(func(t *rapid.T) models.HeatmapPoint {
		return models.HeatmapPoint{
			Latitude:        rapid.Float64Range(-90, 90).Draw(t, "lat"),
			Longitude:       rapid.Float64Range(-180, 180).Draw(t, "lng"),
			Keyword:         rapid.SampledFrom(keywordPool).Draw(t, "keyword"),
			DensityScore:    rapid.Float64Range(0, 1).Draw(t, "density"),
			EngagementScore: rapid.OneOf(rapid.Just(0.0), rapid.Float64Range(-5, 500)).Draw(t, "engagement"),
			SentimentAvg:    rapid.Float64Range(-1, 1).Draw(t, "sentiment"),
			SnapshotDate:    base.AddDate(0, 0, rapid.IntRange(0, 90).Draw(t, "day")).Format(models.DateLayout),
		}
	})
}

func genFilters() *rapid.Generator[models.HeatmapFilters] {
	return rapid.Custom(func(t *rapid.T) models.HeatmapFilters {
		start := rapid.IntRange(0, 90).Draw(t, "start")
		end := rapid.IntRange(start, 90).Draw(t, "end")
		lo := rapid.Float64Range(-1, 1).Draw(t, "lo")
		hi := rapid.Float64Range(lo, 1).Draw(t, "hi")
		return models.HeatmapFilters{
			Keywords:      rapid.SliceOfNDistinct(rapid.SampledFrom(keywordPool), 0, 3, rapid.ID[string]).Draw(t, "keywords"),
			StartDate:     base.AddDate(0, 0, start),
			EndDate:       base.AddDate(0, 0, end),
			MinSentiment:  lo,
			MaxSentiment:  hi,
			MinEngagement: rapid.Float64Range(0, 100).Draw(t, "threshold"),
		}
	})
}

func TestFilter_EveryPointSatisfiesFilters(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.SliceOfN(genPoint(), 0, 50).Draw(t, "points")
		f := genFilters().Draw(t, "filters")

		for _, p := range Filter(points, f) {
			if p.SnapshotDate < f.StartKey() || p.SnapshotDate > f.EndKey() {
				t.Fatalf("date %s outside [%s, %s]", p.SnapshotDate, f.StartKey(), f.EndKey())
			}
			if p.SentimentAvg < f.MinSentiment || p.SentimentAvg > f.MaxSentiment {
				t.Fatalf("sentiment %v outside [%v, %v]", p.SentimentAvg, f.MinSentiment, f.MaxSentiment)
			}
			if p.EngagementScore < f.MinEngagement {
				t.Fatalf("engagement %v below %v", p.EngagementScore, f.MinEngagement)
			}
			if len(f.Keywords) > 0 {
				found := false
				for _, k := range f.Keywords {
					found = found || k == p.Keyword
				}
				if !found {
					t.Fatalf("keyword %q not in %v", p.Keyword, f.Keywords)
				}
			}
		}
	})
}

func TestFilter_DefaultFiltersKeepWholeWindow(t *testing.T) {
	now := time.Date(2026, 5, 31, 15, 4, 0, 0, time.UTC)
	f := models.DefaultHeatmapFilters(now)

	points := []models.HeatmapPoint{
		{Keyword: "logic", SnapshotDate: "2026-05-01", SentimentAvg: -1},
		{Keyword: "bias", SnapshotDate: "2026-05-31", SentimentAvg: 1, EngagementScore: 12},
		{Keyword: "evidence", SnapshotDate: "2026-05-15"},
		{Keyword: "logic", SnapshotDate: "2026-04-30"},
		{Keyword: "logic", SnapshotDate: "2026-06-01"},
	}

	got := Filter(points, f)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-05-01", got[0].SnapshotDate)
	assert.Equal(t, "2026-05-31", got[1].SnapshotDate)
}

func TestBuildLayers_Empty(t *testing.T) {
	layers := BuildLayers(nil)
	assert.NotNil(t, layers.Density)
	assert.NotNil(t, layers.Engagement)
	assert.NotNil(t, layers.Sentiment)
	assert.Empty(t, layers.Density)
	assert.Empty(t, layers.Engagement)
	assert.Empty(t, layers.Sentiment)
}

func TestBuildLayers_Weights(t *testing.T) {
	points := []models.HeatmapPoint{
		{Latitude: 1, Longitude: 2, Keyword: "logic", DensityScore: 0.5, EngagementScore: math.E - 1, SentimentAvg: -0.4},
		{Latitude: 3, Longitude: 4, Keyword: "bias", DensityScore: 0.2, EngagementScore: 0, SentimentAvg: 0.3},
	}

	layers := BuildLayers(points)
	require.Len(t, layers.Density, 2)
	require.Len(t, layers.Engagement, 1)
	require.Len(t, layers.Sentiment, 2)

	assert.Equal(t, 0.5, layers.Density[0].Weight)
	assert.InDelta(t, 1.0, layers.Engagement[0].Weight, 1e-9)
	assert.Equal(t, "logic", layers.Engagement[0].Point.Keyword)
	assert.InDelta(t, 0.4, layers.Sentiment[0].Weight, 1e-9)
	assert.Equal(t, 3.0, layers.Sentiment[1].Lat)
}

func TestBuildLayers_TinyEngagementKeepsPositiveWeight(t *testing.T) {
	for _, score := range []float64{1.1102230246251565e-16, 1e-300, math.SmallestNonzeroFloat64} {
		layers := BuildLayers([]models.HeatmapPoint{{Keyword: "logic", EngagementScore: score}})
		require.Len(t, layers.Engagement, 1)
		assert.Greater(t, layers.Engagement[0].Weight, 0.0, "score %g", score)
	}
}

func TestBuildLayers_EngagementExcludesNonPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.SliceOfN(genPoint(), 0, 50).Draw(t, "points")
		layers := BuildLayers(points)

		positive := 0
		for _, p := range points {
			if p.EngagementScore > 0 {
				positive++
			}
		}
		if len(layers.Engagement) != positive {
			t.Fatalf("engagement layer has %d entries, want %d", len(layers.Engagement), positive)
		}
		for _, e := range layers.Engagement {
			if e.Point.EngagementScore <= 0 || e.Weight <= 0 {
				t.Fatalf("non-positive engagement entry %+v", e)
			}
		}
		if len(layers.Density) != len(points) || len(layers.Sentiment) != len(points) {
			t.Fatalf("density/sentiment layers must cover every point")
		}
	})
}

func TestTopKeywords_SortedAndCapped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 60).Draw(t, "n")
		var points []models.HeatmapPoint
		for i := 0; i < n; i++ {
			points = append(points, models.HeatmapPoint{
				Keyword:      fmt.Sprintf("kw%d", rapid.IntRange(0, 40).Draw(t, "kw")),
				DensityScore: rapid.Float64Range(0, 1).Draw(t, "density"),
			})
		}

		top := TopKeywords(points)
		if len(top) > TopKeywordLimit {
			t.Fatalf("got %d keywords", len(top))
		}
		for i := 1; i < len(top); i++ {
			if top[i].Density > top[i-1].Density {
				t.Fatalf("not descending at %d: %v", i, top)
			}
		}
	})
}

func TestTopKeywords_AggregatesAndBreaksTiesByKeyword(t *testing.T) {
	points := []models.HeatmapPoint{
		{Keyword: "logic", DensityScore: 0.5},
		{Keyword: "bias", DensityScore: 0.25},
		{Keyword: "logic", DensityScore: 0.25},
		{Keyword: "argument", DensityScore: 0.5},
		{Keyword: "bias", DensityScore: 0.25},
	}

	top := TopKeywords(points)
	require.Len(t, top, 3)
	assert.Equal(t, models.KeywordScore{Keyword: "logic", Density: 0.75}, top[0])
	assert.Equal(t, "argument", top[1].Keyword)
	assert.Equal(t, "bias", top[2].Keyword)
}
