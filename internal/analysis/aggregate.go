package analysis

import (
	"sort"

	"github.com/golang/geo/s2"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/spatial"
	"gonum.org/v1/gonum/stat"
)

type groupKey struct {
	cell    s2.CellID
	keyword string
	date    string
}

type group struct {
	posts      int
	profiles   map[int64]struct{}
	engagement float64
	sentiments []float64
	locations  map[string]int
}

// BuildHeatmapPoints aggregates processed posts into one point per
// (S2 cell, keyword, posted date). Observations with invalid coordinates are skipped.
func BuildHeatmapPoints(observations []models.PostObservation, cellLevel int) []models.HeatmapPoint {
	groups := make(map[groupKey]*group)

	for _, obs := range observations {
		if !spatial.ValidCoordinate(obs.Latitude, obs.Longitude) {
			continue
		}
		cell := spatial.CellID(obs.Latitude, obs.Longitude, cellLevel)
		date := obs.PostedAt.UTC().Format(models.DateLayout)

		for _, kw := range normalizeKeywords(obs.Keywords) {
			key := groupKey{cell: cell, keyword: kw, date: date}
			g, ok := groups[key]
			if !ok {
				g = &group{
					profiles:  make(map[int64]struct{}),
					locations: make(map[string]int),
				}
				groups[key] = g
			}
			g.posts++
			g.profiles[obs.ProfileID] = struct{}{}
			g.engagement += obs.Engagement
			g.sentiments = append(g.sentiments, obs.Sentiment)
			if obs.LocationName != "" {
				g.locations[obs.LocationName]++
			}
		}
	}

	// Density is relative to the busiest group of the same day
	maxPosts := make(map[string]int)
	for key, g := range groups {
		if g.posts > maxPosts[key.date] {
			maxPosts[key.date] = g.posts
		}
	}

	points := make([]models.HeatmapPoint, 0, len(groups))
	for key, g := range groups {
		lat, lng := spatial.CellCenter(key.cell)
		points = append(points, models.HeatmapPoint{
			Latitude:        lat,
			Longitude:       lng,
			LocationName:    mostCommon(g.locations),
			Keyword:         key.keyword,
			DensityScore:    float64(g.posts) / float64(maxPosts[key.date]),
			EngagementScore: g.engagement / float64(g.posts),
			SentimentAvg:    clampSentiment(stat.Mean(g.sentiments, nil)),
			ProfileCount:    len(g.profiles),
			PostCount:       g.posts,
			SnapshotDate:    key.date,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.SnapshotDate != b.SnapshotDate {
			return a.SnapshotDate < b.SnapshotDate
		}
		if a.Keyword != b.Keyword {
			return a.Keyword < b.Keyword
		}
		if a.Latitude != b.Latitude {
			return a.Latitude < b.Latitude
		}
		return a.Longitude < b.Longitude
	})
	return points
}

// CountSnapshots returns the number of distinct snapshot dates
func CountSnapshots(points []models.HeatmapPoint) int {
	dates := make(map[string]struct{})
	for _, p := range points {
		dates[p.SnapshotDate] = struct{}{}
	}
	return len(dates)
}

// mostCommon picks the most frequent name, ties broken alphabetically
func mostCommon(counts map[string]int) string {
	best, bestN := "", 0
	for name, n := range counts {
		if n > bestN || (n == bestN && name < best) {
			best, bestN = name, n
		}
	}
	return best
}
