package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// AnalysisRunRepository handles database operations for analysis runs
type AnalysisRunRepository struct {
	db *sql.DB
}

// NewAnalysisRunRepository creates a new analysis run repository
func NewAnalysisRunRepository(db *sql.DB) *AnalysisRunRepository {
	return &AnalysisRunRepository{db: db}
}

// Create inserts a running analysis run and sets its ID
func (r *AnalysisRunRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	if run.Status == "" {
		run.Status = models.RunStatusRunning
	}
	if run.StartTime == 0 {
		run.StartTime = time.Now().Unix()
	}

	result, err := r.db.ExecContext(ctx, `INSERT INTO analysis_runs (action, batch_size, status, created_by, start_time)
		VALUES (?, ?, ?, ?, ?)`,
		string(run.Action), run.BatchSize, run.Status, run.CreatedBy, run.StartTime)
	if err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	run.ID = id
	return nil
}

// MarkAsCompleted stores the run's result summary
func (r *AnalysisRunRepository) MarkAsCompleted(ctx context.Context, id int64, summary string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE analysis_runs SET status = ?, result_summary = ?, end_time = ? WHERE id = ?`,
		models.RunStatusCompleted, summary, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark analysis run %d completed: %w", id, err)
	}
	return nil
}

// MarkAsFailed stores the run's error message
func (r *AnalysisRunRepository) MarkAsFailed(ctx context.Context, id int64, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE analysis_runs SET status = ?, error_message = ?, end_time = ? WHERE id = ?`,
		models.RunStatusFailed, errorMsg, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark analysis run %d failed: %w", id, err)
	}
	return nil
}

const runColumns = `id, action, batch_size, status, result_summary, error_message, created_by, start_time, end_time, created_at`

func scanRun(scan func(dest ...interface{}) error) (*models.AnalysisRun, error) {
	run := &models.AnalysisRun{}
	var action string
	var summary, errMsg sql.NullString
	var endTime sql.NullInt64
	err := scan(&run.ID, &action, &run.BatchSize, &run.Status, &summary, &errMsg,
		&run.CreatedBy, &run.StartTime, &endTime, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	run.Action = models.AnalysisAction(action)
	run.ResultSummary = summary.String
	run.ErrorMessage = errMsg.String
	run.EndTime = endTime.Int64
	return run, nil
}

// GetByID retrieves an analysis run by ID
func (r *AnalysisRunRepository) GetByID(ctx context.Context, id int64) (*models.AnalysisRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis run %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return run, nil
}

// List retrieves analysis runs with optional action and status filters, newest first
func (r *AnalysisRunRepository) List(ctx context.Context, action, status string, limit, offset int) ([]*models.AnalysisRun, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs WHERE 1=1`
	args := []interface{}{}
	if action != "" {
		query += " AND action = ?"
		args = append(args, action)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.AnalysisRun{}
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
