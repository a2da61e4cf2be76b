package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const itemColumns = `id, job_id, kind, url, quality, format, audio_only, status,
    output_path, error_message, created_at, updated_at, completed_at`

// NewJob inserts a pending history row for an accepted download request.
func (s *Store) NewJob(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item required")
	}
	if strings.TrimSpace(item.JobID) == "" {
		return errors.New("job id required")
	}
	if strings.TrimSpace(item.URL) == "" {
		return errors.New("url required")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO download_jobs (
            job_id, kind, url, quality, format, audio_only, status,
            output_path, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.JobID,
		item.Kind,
		item.URL,
		item.Quality,
		item.Format,
		boolToInt(item.AudioOnly),
		StatusPending,
		item.OutputPath,
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert download job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	item.ID = id
	item.Status = StatusPending
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// MarkRunning transitions a row to running.
func (s *Store) MarkRunning(ctx context.Context, jobID string) error {
	return s.transition(ctx, jobID, StatusRunning, "", false)
}

// MarkCompleted transitions a row to its successful terminal state.
func (s *Store) MarkCompleted(ctx context.Context, jobID string) error {
	return s.transition(ctx, jobID, StatusCompleted, "", true)
}

// MarkFailed transitions a row to failed with the terminal error message.
func (s *Store) MarkFailed(ctx context.Context, jobID, message string) error {
	return s.transition(ctx, jobID, StatusFailed, message, true)
}

// MarkCancelled transitions a row to cancelled.
func (s *Store) MarkCancelled(ctx context.Context, jobID string) error {
	return s.transition(ctx, jobID, StatusCancelled, "", true)
}

func (s *Store) transition(ctx context.Context, jobID string, status Status, message string, terminal bool) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	var completedAt any
	if terminal {
		completedAt = now
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE download_jobs
         SET status = ?, error_message = ?, updated_at = ?, completed_at = COALESCE(?, completed_at)
         WHERE job_id = ?`,
		status,
		message,
		now,
		completedAt,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("transition %s to %s: %w", jobID, status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("job %s not found", jobID)
	}
	return nil
}

// GetByJobID returns the history row for the given job id, or nil when no
// such row exists.
func (s *Store) GetByJobID(ctx context.Context, jobID string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM download_jobs WHERE job_id = ?`,
		jobID,
	)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return item, nil
}

// List returns history rows newest first, optionally filtered by status,
// bounded by limit (0 means no bound).
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM download_jobs`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list download jobs: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item        Item
		audioOnly   int
		createdAt   string
		updatedAt   string
		completedAt sql.NullString
	)
	if err := row.Scan(
		&item.ID,
		&item.JobID,
		&item.Kind,
		&item.URL,
		&item.Quality,
		&item.Format,
		&audioOnly,
		&item.Status,
		&item.OutputPath,
		&item.ErrorMessage,
		&createdAt,
		&updatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}
	item.AudioOnly = audioOnly != 0
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	if completedAt.Valid && completedAt.String != "" {
		parsed := parseTimestamp(completedAt.String)
		item.CompletedAt = &parsed
	}
	return &item, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
