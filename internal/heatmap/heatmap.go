// Package heatmap holds the pure projections over heatmap points shared by the
// API handlers and the dashboard client.
package heatmap

import (
	"math"
	"sort"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// TopKeywordLimit caps TopKeywords
const TopKeywordLimit = 20

// Matches reports whether p satisfies every filter bound (all inclusive)
func Matches(p models.HeatmapPoint, f models.HeatmapFilters) bool {
	if p.SnapshotDate < f.StartKey() || p.SnapshotDate > f.EndKey() {
		return false
	}
	if p.SentimentAvg < f.MinSentiment || p.SentimentAvg > f.MaxSentiment {
		return false
	}
	if p.EngagementScore < f.MinEngagement {
		return false
	}
	if len(f.Keywords) == 0 {
		return true
	}
	for _, k := range f.Keywords {
		if k == p.Keyword {
			return true
		}
	}
	return false
}

// Filter returns the points matching f, in input order
func Filter(points []models.HeatmapPoint, f models.HeatmapFilters) []models.HeatmapPoint {
	out := make([]models.HeatmapPoint, 0, len(points))
	for _, p := range points {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// BuildLayers projects points into the density, engagement and sentiment layers.
// Engagement drops non-positive scores and is log-compressed; sentiment uses magnitude.
func BuildLayers(points []models.HeatmapPoint) models.HeatmapLayers {
	layers := models.HeatmapLayers{
		Density:    make([]models.LayerEntry, 0, len(points)),
		Engagement: make([]models.LayerEntry, 0, len(points)),
		Sentiment:  make([]models.LayerEntry, 0, len(points)),
	}

	for _, p := range points {
		layers.Density = append(layers.Density, entry(p, p.DensityScore))
		if p.EngagementScore > 0 {
			layers.Engagement = append(layers.Engagement, entry(p, math.Log1p(p.EngagementScore)))
		}
		layers.Sentiment = append(layers.Sentiment, entry(p, math.Abs(p.SentimentAvg)))
	}
	return layers
}

func entry(p models.HeatmapPoint, weight float64) models.LayerEntry {
	return models.LayerEntry{Lat: p.Latitude, Lng: p.Longitude, Weight: weight, Point: p}
}

// TopKeywords sums density per keyword and returns at most TopKeywordLimit
// keywords by descending total. Equal totals are ordered by keyword.
func TopKeywords(points []models.HeatmapPoint) []models.KeywordScore {
	totals := make(map[string]float64)
	for _, p := range points {
		totals[p.Keyword] += p.DensityScore
	}

	scores := make([]models.KeywordScore, 0, len(totals))
	for k, d := range totals {
		scores = append(scores, models.KeywordScore{Keyword: k, Density: d})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Density != scores[j].Density {
			return scores[i].Density > scores[j].Density
		}
		return scores[i].Keyword < scores[j].Keyword
	})

	if len(scores) > TopKeywordLimit {
		scores = scores[:TopKeywordLimit]
	}
	return scores
}
