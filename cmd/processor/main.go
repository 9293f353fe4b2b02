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

// Applicant Processor
//
// Entry point for the scheduled batch run. It:
//  1. Loads configuration from config.yaml and environment variables
//  2. Connects to PostgreSQL (critical) and Redis (optional seen-cache)
//  3. Builds the Gmail, Sheets, and Drive clients from one OAuth token
//  4. Runs the processing pipeline over one batch of messages
//  5. Reports run statistics, optionally to Telegram
//
// It is a batch job: it runs one pass and exits. Scheduling is external.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/thetrajectory/applicant-processor/internal/config"
	"github.com/thetrajectory/applicant-processor/internal/contact"
	"github.com/thetrajectory/applicant-processor/internal/gmail"
	"github.com/thetrajectory/applicant-processor/internal/ledger"
	"github.com/thetrajectory/applicant-processor/internal/llm"
	"github.com/thetrajectory/applicant-processor/internal/notify"
	"github.com/thetrajectory/applicant-processor/internal/pipeline"
	"github.com/thetrajectory/applicant-processor/internal/resume"
	"github.com/thetrajectory/applicant-processor/internal/retry"
	"github.com/thetrajectory/applicant-processor/internal/sink"
	"github.com/thetrajectory/applicant-processor/internal/storage"
)

func main() {
	// A .env file is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.DebugMode {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	slog.Info("starting applicant processor",
		"batch_size", cfg.BatchSize,
		"max_email_age_days", cfg.MaxEmailAgeDays,
		"dry_run", cfg.DryRun,
		"ocr", cfg.EnableOCR,
		"gpt", cfg.EnableGPT,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// --- Connect to PostgreSQL (critical: ledger and candidate store) ---
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
	slog.Info("connected to PostgreSQL")

	// --- Redis seen-cache (optional: the ledger works without it) ---
	var seenCache *ledger.SeenCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Warn("invalid REDIS_URL, running without seen-cache", "error", err)
		} else {
			rdb := redis.NewClient(opt)
			defer rdb.Close()

			cache := ledger.NewSeenCache(rdb, 0)
			if err := cache.Ping(ctx); err != nil {
				slog.Warn("Redis unavailable, running without seen-cache", "error", err)
			} else {
				seenCache = cache
				slog.Info("connected to Redis")
			}
		}
	}

	tracker, err := ledger.NewTracker(ctx, pgPool, seenCache)
	if err != nil {
		slog.Error("failed to initialise processing ledger", "error", err)
		os.Exit(1)
	}

	candidates, err := sink.NewCandidateStore(ctx, pgPool)
	if err != nil {
		slog.Error("failed to initialise candidate store", "error", err)
		os.Exit(1)
	}

	// --- Google clients (one OAuth token covers mail, sheet, and drive) ---
	googleClient, err := gmail.NewHTTPClient(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile)
	if err != nil {
		slog.Error("failed to build Google API client", "error", err)
		os.Exit(1)
	}

	fetcher, err := gmail.NewFetcher(ctx, googleClient, gmail.FetcherConfig{
		Query:           cfg.GmailQuery,
		MaxEmailAgeDays: cfg.MaxEmailAgeDays,
		BatchSize:       cfg.BatchSize,
		Concurrency:     cfg.FetchConcurrency,
		BatchDelay:      cfg.FetchBatchDelay,
	})
	if err != nil {
		slog.Error("failed to create Gmail fetcher", "error", err)
		os.Exit(1)
	}

	// --- Row sink: the shared sheet, or a local workbook on dry runs ---
	var rows pipeline.RowSink
	var workbook *sink.WorkbookWriter
	if cfg.DryRun {
		workbook, err = sink.NewWorkbookWriter(cfg.WorkbookPath, cfg.SheetName)
		if err != nil {
			slog.Error("failed to create dry-run workbook", "error", err)
			os.Exit(1)
		}
		rows = workbook
	} else {
		sheet, err := sink.NewSheetWriter(ctx, googleClient, cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			slog.Error("failed to initialise sheet writer", "error", err)
			os.Exit(1)
		}
		rows = sheet
	}

	// --- Drive backup (non-critical: degrade to placeholder resume text) ---
	var backup resume.Backup
	if drive, err := storage.NewDriveStore(ctx, googleClient, cfg.DriveFolderID); err != nil {
		slog.Warn("Drive backup unavailable, resumes will not be stored", "error", err)
	} else {
		backup = drive
	}
	resumes := resume.New(fetcher, backup, cfg.EnableOCR)

	// --- Contact resolution, with or without the LLM stage ---
	var chat contact.ChatClient
	if cfg.EnableGPT && cfg.OpenAIAPIKey != "" {
		chat = llm.NewClient(llm.Config{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.LLMTimeout,
		})
	} else {
		slog.Info("LLM contact extraction disabled")
	}
	contacts := contact.NewResolver(chat)

	orchestrator := pipeline.New(pipeline.Config{
		MaxEmailAgeDays: cfg.MaxEmailAgeDays,
		DryRun:          cfg.DryRun,
		Retry: retry.Policy{
			Attempts:  cfg.RetryAttempts,
			BaseDelay: cfg.RetryBaseDelay,
		},
	}, fetcher, tracker, resumes, contacts, rows, candidates)

	stats, err := orchestrator.Run(ctx)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	if workbook != nil {
		if err := workbook.Close(); err != nil {
			slog.Error("failed to write dry-run workbook", "error", err)
		}
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		if tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID); err != nil {
			slog.Warn("telegram notifier unavailable", "error", err)
		} else {
			tg.SendRunReport(stats)
		}
	}

	if stats.Errors > 0 {
		slog.Warn("run finished with message-level errors", "errors", stats.Errors)
	}
	slog.Info("applicant processor stopped")
}
