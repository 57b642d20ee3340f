package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// ReflectionRepository handles database operations for reflections
type ReflectionRepository struct {
	db *sql.DB
}

// NewReflectionRepository creates a new reflection repository
func NewReflectionRepository(db *sql.DB) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

// Upsert writes a reflection, replacing the content of an existing (user, session, lecture) row
func (r *ReflectionRepository) Upsert(ctx context.Context, ref models.Reflection) error {
	if ref.UpdatedAt.IsZero() {
		ref.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO reflections (user_id, session_number, lecture_number, content, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, session_number, lecture_number) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at`,
		ref.UserID, ref.SessionNumber, ref.LectureNumber, ref.Content, ref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert reflection: %w", err)
	}
	return nil
}

// Get retrieves one reflection
func (r *ReflectionRepository) Get(ctx context.Context, key models.ReflectionKey) (*models.Reflection, error) {
	ref := models.Reflection{ReflectionKey: key}
	err := r.db.QueryRowContext(ctx, `SELECT content, updated_at FROM reflections
		WHERE user_id = ? AND session_number = ? AND lecture_number = ?`,
		key.UserID, key.SessionNumber, key.LectureNumber).Scan(&ref.Content, &ref.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reflection: %w", err)
	}
	return &ref, nil
}

// ListByUser retrieves a user's reflections ordered by session and lecture
func (r *ReflectionRepository) ListByUser(ctx context.Context, userID string) ([]models.Reflection, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT session_number, lecture_number, content, updated_at
		FROM reflections WHERE user_id = ? ORDER BY session_number, lecture_number`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reflections: %w", err)
	}
	defer rows.Close()

	refs := []models.Reflection{}
	for rows.Next() {
		ref := models.Reflection{ReflectionKey: models.ReflectionKey{UserID: userID}}
		if err := rows.Scan(&ref.SessionNumber, &ref.LectureNumber, &ref.Content, &ref.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reflection: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
