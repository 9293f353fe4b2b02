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

// Package pipeline sequences one batch run: fetch, dedup, classify, extract,
// resolve, persist. Messages are processed one at a time; a failure on one
// message is recorded and never aborts the batch.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/thetrajectory/applicant-processor/internal/classify"
	"github.com/thetrajectory/applicant-processor/internal/extract"
	"github.com/thetrajectory/applicant-processor/internal/models"
	"github.com/thetrajectory/applicant-processor/internal/resume"
	"github.com/thetrajectory/applicant-processor/internal/retry"
)

// MessageSource lists and hydrates mailbox messages. Implemented by
// gmail.Fetcher.
type MessageSource interface {
	ListIDs(ctx context.Context) ([]string, error)
	FetchBatch(ctx context.Context, ids []string) ([]*models.NormalizedMessage, error)
}

// Ledger is the message-level idempotency record. Implemented by
// ledger.Tracker.
type Ledger interface {
	IsProcessed(ctx context.Context, messageID string) (bool, error)
	MarkProcessed(ctx context.Context, messageID string, status models.Status, metadata map[string]string) error
}

// RowSink appends finished records to a spreadsheet-shaped destination.
// Implemented by sink.SheetWriter and sink.WorkbookWriter.
type RowSink interface {
	Append(ctx context.Context, rec *models.CandidateRecord) error
}

// CandidateSink is the relational destination with the applicant-level
// duplicate guard. Implemented by sink.CandidateStore.
type CandidateSink interface {
	Upsert(ctx context.Context, rec *models.CandidateRecord) error
	Exists(ctx context.Context, email, projectID string) (bool, error)
}

// ContactResolver derives contact fields. Implemented by contact.Resolver.
type ContactResolver interface {
	Resolve(ctx context.Context, msg *models.NormalizedMessage, resumeText string) models.ContactInfo
}

// ResumeStage runs the attachment pipeline. Implemented by resume.Pipeline.
type ResumeStage interface {
	Process(ctx context.Context, msg *models.NormalizedMessage) resume.Result
}

// Config holds orchestrator settings.
type Config struct {
	MaxEmailAgeDays int
	DryRun          bool
	Retry           retry.Policy
}

// Orchestrator wires the stages together.
type Orchestrator struct {
	cfg        Config
	source     MessageSource
	ledger     Ledger
	classifier *classify.Classifier
	extractor  *extract.Extractor
	resumes    ResumeStage
	contacts   ContactResolver
	rows       RowSink
	candidates CandidateSink
}

// New creates an orchestrator. The classifier and extractor are concrete
// because they are pure; every collaborator that does IO comes in behind an
// interface.
func New(cfg Config, source MessageSource, ledger Ledger, resumes ResumeStage,
	contacts ContactResolver, rows RowSink, candidates CandidateSink) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		source:     source,
		ledger:     ledger,
		classifier: classify.New(),
		extractor:  extract.New(),
		resumes:    resumes,
		contacts:   contacts,
		rows:       rows,
		candidates: candidates,
	}
}

// Run executes one batch and returns the accumulated statistics. Only a
// failure before the per-message loop (listing or hydrating the batch)
// returns an error. The fetch phase runs under the same retry policy as
// persistence.
func (o *Orchestrator) Run(ctx context.Context) (*RunStats, error) {
	ids, err := retry.DoValue(ctx, o.cfg.Retry, "list messages", o.source.ListIDs)
	if err != nil {
		return nil, err
	}

	messages, err := retry.DoValue(ctx, o.cfg.Retry, "fetch batch",
		func(ctx context.Context) ([]*models.NormalizedMessage, error) {
			return o.source.FetchBatch(ctx, ids)
		})
	if err != nil {
		return nil, err
	}

	stats := newRunStats(len(messages))
	slog.Info("batch hydrated", "listed", len(ids), "fetched", len(messages), "dry_run", o.cfg.DryRun)

	for _, msg := range messages {
		o.processOne(ctx, msg, stats)
	}

	stats.Report()
	return stats, nil
}

func (o *Orchestrator) processOne(ctx context.Context, msg *models.NormalizedMessage, stats *RunStats) {
	log := slog.With("message_id", msg.ID)

	seen, err := o.ledger.IsProcessed(ctx, msg.ID)
	if err != nil {
		log.Error("ledger check failed", "error", err)
		stats.Errors++
		return
	}
	if seen {
		log.Debug("already processed")
		stats.Skipped++
		return
	}

	if o.tooOld(msg) {
		o.finish(ctx, msg.ID, models.StatusSkipped, map[string]string{"reason": "too old"}, stats, &stats.Skipped)
		return
	}

	if !o.classifier.IsApplication(msg) {
		log.Debug("not a job application", "subject", msg.Subject)
		o.finish(ctx, msg.ID, models.StatusSkipped, map[string]string{"reason": "not an application"}, stats, &stats.Skipped)
		return
	}

	rec := o.extractor.Extract(msg)
	if rec.Name == "" {
		o.finish(ctx, msg.ID, models.StatusSkipped, map[string]string{"reason": "no name extracted"}, stats, &stats.Skipped)
		return
	}

	res := o.resumes.Process(ctx, msg)
	rec.ResumeText = res.Text
	rec.ResumeStorageLink = res.Link

	resumeForContact := res.Text
	if resumeForContact == resume.FailedPlaceholder {
		resumeForContact = ""
	}
	rec.SetContact(o.contacts.Resolve(ctx, msg, resumeForContact))

	if rec.Email == "" {
		o.finish(ctx, msg.ID, models.StatusSkipped, map[string]string{"reason": "no email resolved"}, stats, &stats.Skipped)
		return
	}

	// Soft business-key guard. A lookup failure means assume-not-duplicate;
	// dropping a real applicant is worse than a second row.
	if dup, err := o.candidates.Exists(ctx, rec.Email, rec.ProjectID); err != nil {
		log.Warn("duplicate check failed, assuming new applicant", "error", err)
	} else if dup {
		log.Info("duplicate applicant", "email", rec.Email, "project_id", rec.ProjectID)
		o.finish(ctx, msg.ID, models.StatusDuplicate, map[string]string{"email": rec.Email}, stats, &stats.Duplicates)
		return
	}

	rec.ProcessedAt = time.Now().UTC()
	stats.recordFields(&rec)

	if err := o.persist(ctx, &rec); err != nil {
		log.Error("persist failed", "error", err)
		o.finish(ctx, msg.ID, models.StatusError, map[string]string{"error": err.Error()}, stats, &stats.Errors)
		return
	}

	log.Info("candidate processed", "name", rec.Name, "email", rec.Email)
	o.finish(ctx, msg.ID, models.StatusSuccess, map[string]string{"name": rec.Name}, stats, &stats.Processed)
}

// persist writes both sinks, each under the retry policy. On a dry run the
// relational sink is skipped and the row sink is expected to be the local
// workbook.
func (o *Orchestrator) persist(ctx context.Context, rec *models.CandidateRecord) error {
	if err := o.cfg.Retry.Do(ctx, "append row", func(ctx context.Context) error {
		return o.rows.Append(ctx, rec)
	}); err != nil {
		return err
	}

	if o.cfg.DryRun {
		return nil
	}
	return o.cfg.Retry.Do(ctx, "upsert candidate", func(ctx context.Context) error {
		return o.candidates.Upsert(ctx, rec)
	})
}

// finish records the terminal status and bumps the matching counter. Dry
// runs leave the ledger untouched so the same batch can be replayed.
func (o *Orchestrator) finish(ctx context.Context, messageID string, status models.Status, metadata map[string]string, stats *RunStats, counter *int) {
	*counter++
	if o.cfg.DryRun {
		return
	}
	if err := o.ledger.MarkProcessed(ctx, messageID, status, metadata); err != nil {
		slog.Error("failed to record ledger status", "message_id", messageID, "status", status, "error", err)
	}
}

func (o *Orchestrator) tooOld(msg *models.NormalizedMessage) bool {
	if o.cfg.MaxEmailAgeDays <= 0 || msg.Date.IsZero() {
		return false
	}
	cutoff := time.Now().AddDate(0, 0, -o.cfg.MaxEmailAgeDays)
	return msg.Date.Before(cutoff)
}
