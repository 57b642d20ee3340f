package models

// DateLayout is the layout of snapshot dates and date filters
const DateLayout = "2006-01-02"

// HeatmapPoint is one aggregated (location, keyword, date) observation
type HeatmapPoint struct {
	ID              int64   `json:"id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	LocationName    string  `json:"location_name,omitempty"`
	Keyword         string  `json:"keyword"`
	DensityScore    float64 `json:"density_score"`
	EngagementScore float64 `json:"engagement_score"`
	SentimentAvg    float64 `json:"sentiment_avg"` // -1 to 1
	ProfileCount    int     `json:"profile_count"`
	PostCount       int     `json:"post_count"`
	SnapshotDate    string  `json:"snapshot_date"` // YYYY-MM-DD
}

// LayerEntry projects a point onto a single weight for one visualization layer
type LayerEntry struct {
	Lat    float64      `json:"lat"`
	Lng    float64      `json:"lng"`
	Weight float64      `json:"weight"`
	Point  HeatmapPoint `json:"point"`
}

// HeatmapLayers groups the three derived layers
type HeatmapLayers struct {
	Density    []LayerEntry `json:"density"`
	Engagement []LayerEntry `json:"engagement"`
	Sentiment  []LayerEntry `json:"sentiment"`
}

// KeywordScore is a keyword with its aggregate density
type KeywordScore struct {
	Keyword string  `json:"keyword"`
	Density float64 `json:"density"`
}

// HeatmapResponse represents the points API response
type HeatmapResponse struct {
	Points  []HeatmapPoint `json:"points"`
	Count   int            `json:"count"`
	Filters HeatmapFilters `json:"filters"`
}
