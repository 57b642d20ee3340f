package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/database"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// MaxExtractionAttempts is how many failed extractions a row gets before analysis skips it
const MaxExtractionAttempts = 3

// LinkedInRepository handles database operations for imported profiles and posts
type LinkedInRepository struct {
	db *sql.DB
}

// NewLinkedInRepository creates a new LinkedIn repository
func NewLinkedInRepository(db *sql.DB) *LinkedInRepository {
	return &LinkedInRepository{db: db}
}

// InsertProfiles imports profiles; rows with a known external_id are updated in place
func (r *LinkedInRepository) InsertProfiles(ctx context.Context, profiles []models.LinkedInProfile) ([]int64, error) {
	query := `INSERT INTO linkedin_profiles (external_id, name, headline, summary, location_name, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_id) DO UPDATE SET
			name = excluded.name,
			headline = excluded.headline,
			summary = excluded.summary,
			location_name = excluded.location_name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			processed_at = NULL
		RETURNING id`

	ids := make([]int64, 0, len(profiles))
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, p := range profiles {
			var id int64
			err := tx.QueryRowContext(ctx, query,
				nullString(p.ExternalID), p.Name, p.Headline, p.Summary,
				nullString(p.LocationName), p.Latitude, p.Longitude,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to insert profile %q: %w", p.Name, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertPosts imports posts; rows with a known external_id are updated in place
func (r *LinkedInRepository) InsertPosts(ctx context.Context, posts []models.LinkedInPost) ([]int64, error) {
	query := `INSERT INTO linkedin_posts (external_id, profile_id, content, likes, comments, shares, posted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_id) DO UPDATE SET
			content = excluded.content,
			likes = excluded.likes,
			comments = excluded.comments,
			shares = excluded.shares,
			posted_at = excluded.posted_at,
			processed_at = NULL
		RETURNING id`

	ids := make([]int64, 0, len(posts))
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, p := range posts {
			var id int64
			err := tx.QueryRowContext(ctx, query,
				nullString(p.ExternalID), p.ProfileID, p.Content,
				p.Likes, p.Comments, p.Shares, p.PostedAt.UTC(),
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to insert post for profile %d: %w", p.ProfileID, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListUnprocessedProfiles returns up to limit profiles without extracted keywords.
// Rows with fewer failed attempts come first; rows at MaxExtractionAttempts are skipped.
func (r *LinkedInRepository) ListUnprocessedProfiles(ctx context.Context, limit int) ([]models.LinkedInProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, headline, summary, location_name, latitude, longitude
		FROM linkedin_profiles WHERE processed_at IS NULL AND extraction_attempts < ?
		ORDER BY extraction_attempts, id LIMIT ?`, MaxExtractionAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.LinkedInProfile
	for rows.Next() {
		var p models.LinkedInProfile
		var location sql.NullString
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Name, &p.Headline, &p.Summary, &location, &lat, &lng); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.LocationName = location.String
		if lat.Valid && lng.Valid {
			p.Latitude, p.Longitude = &lat.Float64, &lng.Float64
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// MarkProfileProcessed stores extracted keywords for a profile
func (r *LinkedInRepository) MarkProfileProcessed(ctx context.Context, id int64, keywords []string) error {
	data, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `UPDATE linkedin_profiles SET keywords = ?, processed_at = ? WHERE id = ?`,
		string(data), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark profile %d processed: %w", id, err)
	}
	return nil
}

// RecordProfileFailure counts a failed extraction so the profile yields to untried rows
func (r *LinkedInRepository) RecordProfileFailure(ctx context.Context, id int64, cause error) error {
	_, err := r.db.ExecContext(ctx, `UPDATE linkedin_profiles
		SET extraction_attempts = extraction_attempts + 1, last_error = ? WHERE id = ?`, cause.Error(), id)
	if err != nil {
		return fmt.Errorf("failed to record failure for profile %d: %w", id, err)
	}
	return nil
}

// ListUnprocessedPosts returns up to limit posts without extracted keywords, ordered like profiles
func (r *LinkedInRepository) ListUnprocessedPosts(ctx context.Context, limit int) ([]models.LinkedInPost, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, profile_id, content, likes, comments, shares, posted_at
		FROM linkedin_posts WHERE processed_at IS NULL AND extraction_attempts < ?
		ORDER BY extraction_attempts, id LIMIT ?`, MaxExtractionAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed posts: %w", err)
	}
	defer rows.Close()

	var posts []models.LinkedInPost
	for rows.Next() {
		var p models.LinkedInPost
		if err := rows.Scan(&p.ID, &p.ProfileID, &p.Content, &p.Likes, &p.Comments, &p.Shares, &p.PostedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// MarkPostProcessed stores extracted keywords and sentiment for a post
func (r *LinkedInRepository) MarkPostProcessed(ctx context.Context, id int64, keywords []string, sentiment float64) error {
	data, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `UPDATE linkedin_posts SET keywords = ?, sentiment = ?, processed_at = ? WHERE id = ?`,
		string(data), sentiment, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark post %d processed: %w", id, err)
	}
	return nil
}

// RecordPostFailure counts a failed extraction so the post yields to untried rows
func (r *LinkedInRepository) RecordPostFailure(ctx context.Context, id int64, cause error) error {
	_, err := r.db.ExecContext(ctx, `UPDATE linkedin_posts
		SET extraction_attempts = extraction_attempts + 1, last_error = ? WHERE id = ?`, cause.Error(), id)
	if err != nil {
		return fmt.Errorf("failed to record failure for post %d: %w", id, err)
	}
	return nil
}

// ListObservations joins processed posts with located authors
func (r *LinkedInRepository) ListObservations(ctx context.Context) ([]models.PostObservation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT p.id, p.profile_id, pr.latitude, pr.longitude, pr.location_name,
			p.keywords, p.sentiment, p.likes, p.comments, p.shares, p.posted_at
		FROM linkedin_posts p
		JOIN linkedin_profiles pr ON pr.id = p.profile_id
		WHERE p.processed_at IS NOT NULL
			AND pr.latitude IS NOT NULL AND pr.longitude IS NOT NULL
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query post observations: %w", err)
	}
	defer rows.Close()

	var out []models.PostObservation
	for rows.Next() {
		var o models.PostObservation
		var location, keywords sql.NullString
		var sentiment sql.NullFloat64
		post := models.LinkedInPost{}
		err := rows.Scan(&o.PostID, &o.ProfileID, &o.Latitude, &o.Longitude, &location,
			&keywords, &sentiment, &post.Likes, &post.Comments, &post.Shares, &o.PostedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post observation: %w", err)
		}
		if keywords.Valid && keywords.String != "" {
			if err := json.Unmarshal([]byte(keywords.String), &o.Keywords); err != nil {
				return nil, fmt.Errorf("failed to decode keywords of post %d: %w", o.PostID, err)
			}
		}
		o.LocationName = location.String
		o.Sentiment = sentiment.Float64
		o.Engagement = post.Engagement()
		out = append(out, o)
	}
	return out, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
