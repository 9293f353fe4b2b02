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

package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

const gmailUser = "me"

// defaultQuery is the fixed sender/subject heuristic for application mail:
// the job board's notification senders, or application language in the
// subject for mail forwarded from elsewhere.
const defaultQuery = `from:(jobs-noreply@linkedin.com OR jobapplications@linkedin.com) OR subject:(application OR applicant)`

// FetcherConfig holds fetch tuning.
type FetcherConfig struct {
	Query           string
	MaxEmailAgeDays int
	BatchSize       int
	Concurrency     int
	BatchDelay      time.Duration
}

// Fetcher lists and hydrates Gmail messages.
type Fetcher struct {
	svc *gmailapi.Service
	cfg FetcherConfig
}

// NewFetcher creates a fetcher over an authenticated HTTP client.
func NewFetcher(ctx context.Context, client *http.Client, cfg FetcherConfig) (*Fetcher, error) {
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Fetcher{svc: svc, cfg: cfg}, nil
}

// BuildQuery combines the base query with the age window. An empty base
// selects the built-in sender/subject heuristic. The base is parenthesised
// before the age term because Gmail's OR binds tighter than juxtaposition.
func BuildQuery(base string, maxAgeDays int) string {
	if base == "" {
		base = defaultQuery
	}
	if maxAgeDays <= 0 {
		return base
	}
	return fmt.Sprintf("(%s) newer_than:%dd", base, maxAgeDays)
}

// ListIDs pages through the search results up to the batch size and returns
// matching message IDs.
func (f *Fetcher) ListIDs(ctx context.Context) ([]string, error) {
	query := BuildQuery(f.cfg.Query, f.cfg.MaxEmailAgeDays)
	slog.Info("listing messages", "query", query, "batch_size", f.cfg.BatchSize)

	var (
		ids       []string
		pageToken string
	)
	for {
		call := f.svc.Users.Messages.List(gmailUser).Q(query).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}

		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
			if f.cfg.BatchSize > 0 && len(ids) >= f.cfg.BatchSize {
				return ids, nil
			}
		}
		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

// FetchBatch hydrates the given IDs into normalized messages. Hydration runs
// with bounded concurrency and a small delay per fetch to stay under API
// quota. A message that fails to fetch is logged and dropped; it will be
// picked up again on the next run because nothing was recorded for it.
func (f *Fetcher) FetchBatch(ctx context.Context, ids []string) ([]*models.NormalizedMessage, error) {
	var (
		mu       sync.Mutex
		messages []*models.NormalizedMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)

	for _, id := range ids {
		g.Go(func() error {
			msg, err := f.fetchOne(gctx, id)
			if err != nil {
				slog.Warn("failed to fetch message, skipping", "message_id", id, "error", err)
				return nil
			}
			mu.Lock()
			messages = append(messages, msg)
			mu.Unlock()

			if f.cfg.BatchDelay > 0 {
				select {
				case <-time.After(f.cfg.BatchDelay):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}

	// Concurrent hydration interleaves arbitrarily; order chronologically.
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Date.Before(messages[j].Date)
	})
	return messages, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, id string) (*models.NormalizedMessage, error) {
	raw, err := f.svc.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return parseMessage(raw), nil
}

// GetAttachment downloads and decodes one attachment body.
func (f *Fetcher) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	att, err := f.svc.Users.Messages.Attachments.Get(gmailUser, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	data, err := base64.URLEncoding.DecodeString(att.Data)
	if err != nil {
		return nil, fmt.Errorf("decode attachment: %w", err)
	}
	return data, nil
}
