package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultWindowDays is the trailing window of the default filters
const DefaultWindowDays = 30

// HeatmapFilters is the client-side query over heatmap points.
// Date bounds are inclusive calendar dates.
type HeatmapFilters struct {
	Keywords      []string  `json:"keywords"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	MinSentiment  float64   `json:"min_sentiment" validate:"gte=-1,lte=1"`
	MaxSentiment  float64   `json:"max_sentiment" validate:"gte=-1,lte=1,gtefield=MinSentiment"`
	MinEngagement float64   `json:"min_engagement" validate:"gte=0"`
}

var filterValidator = validator.New(validator.WithRequiredStructEnabled())

// DefaultHeatmapFilters returns the last 30 days ending on now's date, full sentiment range, no threshold
func DefaultHeatmapFilters(now time.Time) HeatmapFilters {
	end := truncateDay(now)
	return HeatmapFilters{
		StartDate:     end.AddDate(0, 0, -DefaultWindowDays),
		EndDate:       end,
		MinSentiment:  -1,
		MaxSentiment:  1,
		MinEngagement: 0,
	}
}

// Validate checks the filter invariants
func (f HeatmapFilters) Validate() error {
	if err := filterValidator.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilters, err)
	}
	return nil
}

// StartKey and EndKey are the inclusive date bounds in DateLayout
func (f HeatmapFilters) StartKey() string { return f.StartDate.Format(DateLayout) }
func (f HeatmapFilters) EndKey() string   { return f.EndDate.Format(DateLayout) }

// HeatmapQuery binds heatmap filters from a query string
type HeatmapQuery struct {
	Keywords      string   `form:"keywords"` // comma separated
	Start         string   `form:"start"`    // YYYY-MM-DD
	End           string   `form:"end"`      // YYYY-MM-DD
	MinSentiment  *float64 `form:"min_sentiment"`
	MaxSentiment  *float64 `form:"max_sentiment"`
	MinEngagement *float64 `form:"min_engagement"`
}

// ToFilters fills missing parameters from the defaults and validates the result
func (q HeatmapQuery) ToFilters(now time.Time) (HeatmapFilters, error) {
	f := DefaultHeatmapFilters(now)

	for _, k := range strings.Split(q.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			f.Keywords = append(f.Keywords, k)
		}
	}
	if q.Start != "" {
		t, err := time.Parse(DateLayout, q.Start)
		if err != nil {
			return f, fmt.Errorf("%w: start: %v", ErrInvalidFilters, err)
		}
		f.StartDate = t
	}
	if q.End != "" {
		t, err := time.Parse(DateLayout, q.End)
		if err != nil {
			return f, fmt.Errorf("%w: end: %v", ErrInvalidFilters, err)
		}
		f.EndDate = t
	}
	if q.MinSentiment != nil {
		f.MinSentiment = *q.MinSentiment
	}
	if q.MaxSentiment != nil {
		f.MaxSentiment = *q.MaxSentiment
	}
	if q.MinEngagement != nil {
		f.MinEngagement = *q.MinEngagement
	}
	return f, f.Validate()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
