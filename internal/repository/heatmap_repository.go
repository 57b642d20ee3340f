package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/thinking-wizard-backend-go/internal/database"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// HeatmapRepository handles database operations for heatmap points
type HeatmapRepository struct {
	db *sql.DB
}

// NewHeatmapRepository creates a new heatmap repository
func NewHeatmapRepository(db *sql.DB) *HeatmapRepository {
	return &HeatmapRepository{db: db}
}

// QueryPoints retrieves the points matching every filter bound
func (r *HeatmapRepository) QueryPoints(ctx context.Context, filter models.HeatmapFilters) ([]models.HeatmapPoint, error) {
	query := `SELECT id, latitude, longitude, location_name, keyword,
		density_score, engagement_score, sentiment_avg,
		profile_count, post_count, snapshot_date
		FROM heatmap_points`

	conditions := []string{
		"snapshot_date >= ?",
		"snapshot_date <= ?",
		"sentiment_avg >= ?",
		"sentiment_avg <= ?",
		"engagement_score >= ?",
	}
	args := []interface{}{
		filter.StartKey(),
		filter.EndKey(),
		filter.MinSentiment,
		filter.MaxSentiment,
		filter.MinEngagement,
	}

	if len(filter.Keywords) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Keywords)), ",")
		conditions = append(conditions, "keyword IN ("+placeholders+")")
		for _, k := range filter.Keywords {
			args = append(args, k)
		}
	}

	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY snapshot_date ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query heatmap points: %w", err)
	}
	defer rows.Close()

	points := []models.HeatmapPoint{}
	for rows.Next() {
		var p models.HeatmapPoint
		var location sql.NullString
		err := rows.Scan(
			&p.ID, &p.Latitude, &p.Longitude, &location, &p.Keyword,
			&p.DensityScore, &p.EngagementScore, &p.SentimentAvg,
			&p.ProfileCount, &p.PostCount, &p.SnapshotDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan heatmap point: %w", err)
		}
		p.LocationName = location.String
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heatmap points: %w", err)
	}
	return points, nil
}

// UpsertPoints writes points, replacing rows with the same location, keyword and date
func (r *HeatmapRepository) UpsertPoints(ctx context.Context, points []models.HeatmapPoint) error {
	query := `INSERT INTO heatmap_points (
			latitude, longitude, location_name, keyword,
			density_score, engagement_score, sentiment_avg,
			profile_count, post_count, snapshot_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (latitude, longitude, keyword, snapshot_date) DO UPDATE SET
			location_name = excluded.location_name,
			density_score = excluded.density_score,
			engagement_score = excluded.engagement_score,
			sentiment_avg = excluded.sentiment_avg,
			profile_count = excluded.profile_count,
			post_count = excluded.post_count,
			updated_at = CURRENT_TIMESTAMP`

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare heatmap upsert: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			var location interface{}
			if p.LocationName != "" {
				location = p.LocationName
			}
			_, err := stmt.ExecContext(ctx,
				p.Latitude, p.Longitude, location, p.Keyword,
				p.DensityScore, p.EngagementScore, p.SentimentAvg,
				p.ProfileCount, p.PostCount, p.SnapshotDate,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert heatmap point %s@%s: %w", p.Keyword, p.SnapshotDate, err)
			}
		}
		return nil
	})
}
