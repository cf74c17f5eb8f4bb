// Package store provides PostgreSQL persistence for interview runs and
// their stage outputs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-agents/internal/types"
)

// Interview statuses.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Interview is a persisted interview run.
type Interview struct {
	ID          uuid.UUID  `json:"id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	JobID       uuid.UUID  `json:"job_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SaveCandidate stores a parsed candidate profile and returns its ID.
func (s *Store) SaveCandidate(ctx context.Context, info types.CandidateInfo) (uuid.UUID, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal candidate: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO candidates (profile) VALUES ($1) RETURNING id`,
		data,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save candidate: %w", err)
	}
	return id, nil
}

// SaveJobDescription stores parsed job requirements and returns their ID.
func (s *Store) SaveJobDescription(ctx context.Context, sourceURL string, req types.JobRequirements) (uuid.UUID, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal job description: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (source_url, requirements) VALUES ($1, $2) RETURNING id`,
		sourceURL, data,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save job description: %w", err)
	}
	return id, nil
}

// CreateInterview creates a new interview record in the planned state.
func (s *Store) CreateInterview(ctx context.Context, candidateID, jobID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO interviews (candidate_id, job_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		candidateID, jobID, StatusPlanned,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return id, nil
}

// SetStatus updates the interview status, stamping completion time for
// terminal states.
func (s *Store) SetStatus(ctx context.Context, interviewID uuid.UUID, status string) error {
	var err error
	if status == StatusCompleted || status == StatusFailed {
		_, err = s.pool.Exec(ctx,
			`UPDATE interviews SET status = $1, completed_at = NOW() WHERE id = $2`,
			status, interviewID,
		)
	} else {
		_, err = s.pool.Exec(ctx,
			`UPDATE interviews SET status = $1 WHERE id = $2`,
			status, interviewID,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update interview status: %w", err)
	}
	return nil
}

// SaveStageReport stores one agent's stage output for an interview.
func (s *Store) SaveStageReport(ctx context.Context, interviewID uuid.UUID, report types.StageReport) error {
	data, err := json.Marshal(report.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal stage data: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO stage_reports (interview_id, agent, response, data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (interview_id, agent) DO UPDATE SET response = $3, data = $4, created_at = NOW()`,
		interviewID, report.Agent, report.Response, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save stage report for %s: %w", report.Agent, err)
	}
	return nil
}

// GetInterview retrieves an interview by ID. Returns nil when not found.
func (s *Store) GetInterview(ctx context.Context, interviewID uuid.UUID) (*Interview, error) {
	var iv Interview
	err := s.pool.QueryRow(ctx,
		`SELECT id, candidate_id, job_id, status, created_at, completed_at
		 FROM interviews WHERE id = $1`,
		interviewID,
	).Scan(&iv.ID, &iv.CandidateID, &iv.JobID, &iv.Status, &iv.CreatedAt, &iv.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return &iv, nil
}

// GetStageReports retrieves the stage reports for an interview in insertion
// order.
func (s *Store) GetStageReports(ctx context.Context, interviewID uuid.UUID) ([]types.StageReport, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT agent, response, data FROM stage_reports
		 WHERE interview_id = $1 ORDER BY created_at ASC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage reports: %w", err)
	}
	defer rows.Close()

	var reports []types.StageReport
	for rows.Next() {
		var report types.StageReport
		var data []byte
		if err := rows.Scan(&report.Agent, &report.Response, &data); err != nil {
			return nil, fmt.Errorf("failed to scan stage report: %w", err)
		}
		if len(data) > 0 {
			var content any
			if err := json.Unmarshal(data, &content); err == nil {
				report.Data = content
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ListInterviews retrieves recent interviews, newest first.
func (s *Store) ListInterviews(ctx context.Context, limit int) ([]Interview, error) {
	if limit == 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, candidate_id, job_id, status, created_at, completed_at
		 FROM interviews ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []Interview
	for rows.Next() {
		var iv Interview
		if err := rows.Scan(&iv.ID, &iv.CandidateID, &iv.JobID, &iv.Status, &iv.CreatedAt, &iv.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, iv)
	}
	return interviews, nil
}

// DeleteInterview deletes an interview and its stage reports (via cascade).
func (s *Store) DeleteInterview(ctx context.Context, interviewID uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, interviewID)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("interview %s: %w", interviewID, ErrNotFound)
	}
	return nil
}
