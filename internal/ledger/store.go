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

// Package ledger provides the persistent idempotency ledger keyed by message
// ID. Postgres is authoritative; an optional Redis seen-cache answers the
// common "already processed" check without a database round trip.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// Tracker records processing outcomes and answers dedup checks.
type Tracker struct {
	pool  *pgxpool.Pool
	cache *SeenCache // may be nil
}

// NewTracker creates the ledger tracker and ensures the ledger table exists.
func NewTracker(ctx context.Context, pool *pgxpool.Pool, cache *SeenCache) (*Tracker, error) {
	t := &Tracker{pool: pool, cache: cache}
	if err := t.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure ledger schema: %w", err)
	}
	slog.Info("processing ledger initialised", "seen_cache", cache != nil)
	return t, nil
}

func (t *Tracker) ensureSchema(ctx context.Context) error {
	_, err := t.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS processing_ledger (
			message_id   TEXT PRIMARY KEY,
			status       TEXT NOT NULL,
			processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			metadata     JSONB NOT NULL DEFAULT '{}'::jsonb
		);
		CREATE INDEX IF NOT EXISTS idx_ledger_processed_at ON processing_ledger(processed_at);
		CREATE INDEX IF NOT EXISTS idx_ledger_status ON processing_ledger(status);
	`)
	return err
}

// IsProcessed reports whether any terminal status has been recorded for the
// message. The cache is consulted first; Postgres remains authoritative on
// a cache miss, and hits found only in Postgres are backfilled.
func (t *Tracker) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	if t.cache != nil {
		seen, err := t.cache.Seen(ctx, messageID)
		if err != nil {
			slog.Warn("seen-cache check failed, falling through to ledger", "error", err)
		} else if seen {
			return true, nil
		}
	}

	var exists bool
	err := t.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM processing_ledger WHERE message_id = $1)
	`, messageID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ledger lookup %s: %w", messageID, err)
	}

	if exists && t.cache != nil {
		if err := t.cache.Mark(ctx, messageID); err != nil {
			slog.Debug("seen-cache backfill failed", "error", err)
		}
	}
	return exists, nil
}

// MarkProcessed upserts the outcome for a message. A later attempt of the
// same message overwrites the previous status, so reruns stay safe.
func (t *Tracker) MarkProcessed(ctx context.Context, messageID string, status models.Status, metadata map[string]string) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal ledger metadata: %w", err)
	}

	query, args := upsertEntry(messageID, status, meta)
	if _, err := t.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ledger upsert %s: %w", messageID, err)
	}

	if t.cache != nil {
		if err := t.cache.Mark(ctx, messageID); err != nil {
			slog.Debug("seen-cache mark failed", "error", err)
		}
	}
	return nil
}

// upsertEntry builds the ledger upsert statement. Split out for testing.
func upsertEntry(messageID string, status models.Status, meta []byte) (string, []any) {
	return `
		INSERT INTO processing_ledger (message_id, status, processed_at, metadata)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (message_id) DO UPDATE SET
			status       = EXCLUDED.status,
			processed_at = NOW(),
			metadata     = EXCLUDED.metadata
	`, []any{messageID, string(status), meta}
}

// Stats returns outcome counts since the given time.
func (t *Tracker) Stats(ctx context.Context, since time.Time) (map[models.Status]int, error) {
	rows, err := t.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM processing_ledger
		WHERE processed_at >= $1
		GROUP BY status
	`, since)
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan ledger stats: %w", err)
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}

// Recent returns the most recent ledger entries for the end-of-run report.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	rows, err := t.pool.Query(ctx, `
		SELECT message_id, status, processed_at, metadata
		FROM processing_ledger
		ORDER BY processed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger recent: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Sweep deletes entries older than the cutoff and returns how many went.
// This is the only path that ever removes ledger rows.
func (t *Tracker) Sweep(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := t.pool.Exec(ctx, `
		DELETE FROM processing_ledger WHERE processed_at < $1
	`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("ledger sweep: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanEntry(row pgx.Row) (models.LedgerEntry, error) {
	var (
		entry models.LedgerEntry
		stat  string
		meta  []byte
	)
	if err := row.Scan(&entry.MessageID, &stat, &entry.ProcessedAt, &meta); err != nil {
		return entry, fmt.Errorf("scan ledger entry: %w", err)
	}
	entry.Status = models.Status(stat)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &entry.Metadata); err != nil {
			return entry, fmt.Errorf("decode ledger metadata: %w", err)
		}
	}
	return entry, nil
}
