package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// AnalysisAction is a named unit of server-side batch processing
type AnalysisAction string

// Analysis actions
const (
	ActionProcessProfiles AnalysisAction = "process_profiles"
	ActionProcessPosts    AnalysisAction = "process_posts"
	ActionGenerateHeatmap AnalysisAction = "generate_heatmap"
	ActionFullAnalysis    AnalysisAction = "full_analysis"
)

// AnalysisActions lists every valid action
var AnalysisActions = []AnalysisAction{
	ActionProcessProfiles,
	ActionProcessPosts,
	ActionGenerateHeatmap,
	ActionFullAnalysis,
}

// Valid reports whether a is one of the known actions
func (a AnalysisAction) Valid() bool {
	for _, known := range AnalysisActions {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAnalysisAction validates a raw action name
func ParseAnalysisAction(s string) (AnalysisAction, error) {
	a := AnalysisAction(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}

// AnalysisRequest is the body of the analysis trigger endpoint
type AnalysisRequest struct {
	Action    AnalysisAction `json:"action" binding:"required"`
	BatchSize int            `json:"batch_size"`
}

// AnalysisEnvelope is the analysis trigger response
type AnalysisEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BatchResult is the result of process_profiles and process_posts
type BatchResult struct {
	Processed         int `json:"processed"`
	KeywordsExtracted int `json:"keywords_extracted"`
}

// HeatmapResult is the result of generate_heatmap
type HeatmapResult struct {
	PointsGenerated int `json:"points_generated"`
	Snapshots       int `json:"snapshots"`
}

// FullAnalysisResult is the result of full_analysis
type FullAnalysisResult struct {
	Profiles BatchResult   `json:"profiles"`
	Posts    BatchResult   `json:"posts"`
	Heatmap  HeatmapResult `json:"heatmap"`
}

// AnalysisRun records one analysis trigger
type AnalysisRun struct {
	ID            int64          `json:"id" db:"id"`
	Action        AnalysisAction `json:"action" db:"action"`
	BatchSize     int            `json:"batch_size" db:"batch_size"`
	Status        string         `json:"status" db:"status"` // running, completed, failed
	ResultSummary string         `json:"result_summary,omitempty" db:"result_summary"`
	ErrorMessage  string         `json:"error_message,omitempty" db:"error_message"`
	CreatedBy     string         `json:"created_by,omitempty" db:"created_by"`
	StartTime     int64          `json:"start_time" db:"start_time"`       // Unix timestamp
	EndTime       int64          `json:"end_time,omitempty" db:"end_time"` // Unix timestamp
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
