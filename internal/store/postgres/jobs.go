package postgres

import (
	"context"
	"database/sql"
	"errors"

	"funcplane/internal/store"
)

// SaveJob writes a finished job record.
func (s *Store) SaveJob(ctx context.Context, job *store.Job) error {
	query := `
		INSERT INTO jobs (id, title, status, logs, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Status,
		job.Logs,
		job.Result,
		job.CreatedAt,
	)
	return err
}

// GetJobByID returns a job by its ID.
func (s *Store) GetJobByID(ctx context.Context, id string) (*store.Job, error) {
	query := `
		SELECT id, title, status, logs, result, created_at
		FROM jobs
		WHERE id = $1
	`

	var job store.Job
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.Title,
		&job.Status,
		&job.Logs,
		&job.Result,
		&job.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns all job records in insertion order.
func (s *Store) ListJobs(ctx context.Context) ([]*store.Job, error) {
	query := `
		SELECT id, title, status, logs, result, created_at
		FROM jobs
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*store.Job
	for rows.Next() {
		var job store.Job
		if err := rows.Scan(&job.ID, &job.Title, &job.Status, &job.Logs, &job.Result, &job.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}
