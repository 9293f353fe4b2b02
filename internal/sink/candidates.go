// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sink

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CandidateStore persists candidate records in Postgres. The same applicant
// reapplying to the same job updates the existing row instead of inserting a
// second one.
type CandidateStore struct {
	pool *pgxpool.Pool
}

// NewCandidateStore creates the store and ensures the candidates table exists.
func NewCandidateStore(ctx context.Context, pool *pgxpool.Pool) (*CandidateStore, error) {
	s := &CandidateStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure candidates schema: %w", err)
	}
	return s, nil
}

func (s *CandidateStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS candidates (
			id                    UUID PRIMARY KEY,
			name                  TEXT NOT NULL,
			title                 TEXT NOT NULL DEFAULT '',
			location              TEXT NOT NULL DEFAULT '',
			expected_compensation TEXT NOT NULL DEFAULT '',
			project_id            TEXT NOT NULL DEFAULT '',
			screening_questions   TEXT NOT NULL DEFAULT '',
			email                 TEXT NOT NULL,
			mobile_number         TEXT NOT NULL DEFAULT '',
			linkedin_url          TEXT NOT NULL DEFAULT '',
			resume_text           TEXT NOT NULL DEFAULT '',
			resume_link           TEXT NOT NULL DEFAULT '',
			message_id            TEXT NOT NULL,
			processed_at          TIMESTAMPTZ NOT NULL,
			UNIQUE (email, project_id)
		);
		CREATE INDEX IF NOT EXISTS idx_candidates_project ON candidates(project_id);
	`)
	return err
}

// Upsert writes one record keyed on (email, project_id).
func (s *CandidateStore) Upsert(ctx context.Context, rec *models.CandidateRecord) error {
	query, args, err := upsertQuery(rec)
	if err != nil {
		return fmt.Errorf("build candidate upsert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert candidate %s: %w", rec.MessageID, err)
	}
	return nil
}

// upsertQuery builds the insert-or-update statement. Split out for testing.
func upsertQuery(rec *models.CandidateRecord) (string, []interface{}, error) {
	return psql.Insert("candidates").
		Columns(
			"id", "name", "title", "location", "expected_compensation",
			"project_id", "screening_questions", "email", "mobile_number",
			"linkedin_url", "resume_text", "resume_link", "message_id",
			"processed_at",
		).
		Values(
			uuid.New(), rec.Name, rec.Title, rec.Location, rec.ExpectedCompensation,
			rec.ProjectID, rec.ScreeningQuestions, rec.Email, rec.MobileNumber,
			rec.LinkedInURL, rec.ResumeText, rec.ResumeStorageLink, rec.MessageID,
			rec.ProcessedAt,
		).
		Suffix(`ON CONFLICT (email, project_id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			expected_compensation = EXCLUDED.expected_compensation,
			screening_questions = EXCLUDED.screening_questions,
			mobile_number = EXCLUDED.mobile_number,
			linkedin_url = EXCLUDED.linkedin_url,
			resume_text = EXCLUDED.resume_text,
			resume_link = EXCLUDED.resume_link,
			message_id = EXCLUDED.message_id,
			processed_at = EXCLUDED.processed_at`).
		ToSql()
}

// Exists reports whether a row already exists for the applicant and project.
// Used as a soft duplicate guard; callers treat lookup errors as "not found".
func (s *CandidateStore) Exists(ctx context.Context, email, projectID string) (bool, error) {
	query, args, err := psql.Select("1").
		From("candidates").
		Where(sq.Eq{"email": email, "project_id": projectID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build candidate lookup: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("candidate lookup: %w", err)
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("candidate lookup: %w", err)
	}
	return found, nil
}

// Count returns the total number of stored candidates, for the run report.
func (s *CandidateStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n); err != nil {
		slog.Warn("candidate count failed", "error", err)
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return n, nil
}
