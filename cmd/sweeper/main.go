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

// Ledger Sweeper
//
// Maintenance job that trims old entries from the processing ledger. Runs
// as a separate scheduled binary so retention never competes with a
// processing run. Entries inside the retention window are untouchable; they
// are what makes reruns idempotent.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/thetrajectory/applicant-processor/internal/config"
	"github.com/thetrajectory/applicant-processor/internal/ledger"
	"github.com/thetrajectory/applicant-processor/internal/models"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create Postgres pool", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	tracker, err := ledger.NewTracker(ctx, pgPool, nil)
	if err != nil {
		slog.Error("failed to initialise processing ledger", "error", err)
		os.Exit(1)
	}

	cutoff := time.Now().AddDate(0, 0, -cfg.LedgerRetentionDays)
	removed, err := tracker.Sweep(ctx, cutoff)
	if err != nil {
		slog.Error("ledger sweep failed", "error", err)
		os.Exit(1)
	}

	counts, err := tracker.Stats(ctx, cutoff)
	if err != nil {
		slog.Warn("failed to read post-sweep stats", "error", err)
		counts = map[models.Status]int{}
	}

	slog.Info("ledger sweep complete",
		"removed", removed,
		"cutoff", cutoff.Format(time.RFC3339),
		"retention_days", cfg.LedgerRetentionDays,
		"remaining_success", counts[models.StatusSuccess],
		"remaining_skipped", counts[models.StatusSkipped],
		"remaining_duplicate", counts[models.StatusDuplicate],
		"remaining_error", counts[models.StatusError],
	)
}
