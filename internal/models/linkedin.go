package models

import "time"

// LinkedInProfile is an imported LinkedIn profile row
type LinkedInProfile struct {
	ID           int64      `json:"id"`
	ExternalID   string     `json:"external_id,omitempty"`
	Name         string     `json:"name"`
	Headline     string     `json:"headline"`
	Summary      string     `json:"summary"`
	LocationName string     `json:"location_name,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64   `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	Keywords     []string   `json:"keywords,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// LinkedInPost is an imported LinkedIn post row
type LinkedInPost struct {
	ID          int64      `json:"id"`
	ExternalID  string     `json:"external_id,omitempty"`
	ProfileID   int64      `json:"profile_id" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	Likes       int        `json:"likes" binding:"gte=0"`
	Comments    int        `json:"comments" binding:"gte=0"`
	Shares      int        `json:"shares" binding:"gte=0"`
	PostedAt    time.Time  `json:"posted_at" binding:"required"`
	Keywords    []string   `json:"keywords,omitempty"`
	Sentiment   *float64   `json:"sentiment,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Engagement weighs reactions: likes 1, comments 2, shares 3
func (p LinkedInPost) Engagement() float64 {
	return float64(p.Likes + 2*p.Comments + 3*p.Shares)
}

// PostObservation is a processed post joined with its author's location
type PostObservation struct {
	PostID       int64
	ProfileID    int64
	Latitude     float64
	Longitude    float64
	LocationName string
	Keywords     []string
	Sentiment    float64
	Engagement   float64
	PostedAt     time.Time
}
