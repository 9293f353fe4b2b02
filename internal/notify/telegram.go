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

// Package notify posts run summaries to a Telegram chat. Notification is
// optional and strictly best-effort.
package notify

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/thetrajectory/applicant-processor/internal/pipeline"
)

// Telegram sends run reports to a single chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram connects the bot. Returns an error only on a bad token.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// SendRunReport posts the end-of-run summary. Failures are logged, never
// returned; a missed notification must not fail the run.
func (t *Telegram) SendRunReport(stats *pipeline.RunStats) {
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, formatReport(stats))); err != nil {
		slog.Warn("failed to send telegram report", "error", err)
	}
}

func formatReport(stats *pipeline.RunStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applicant run finished\n")
	fmt.Fprintf(&b, "Found: %d\n", stats.Found)
	fmt.Fprintf(&b, "Processed: %d\n", stats.Processed)
	fmt.Fprintf(&b, "Skipped: %d\n", stats.Skipped)
	fmt.Fprintf(&b, "Duplicates: %d\n", stats.Duplicates)
	fmt.Fprintf(&b, "Errors: %d\n", stats.Errors)

	if len(stats.FieldHits) > 0 {
		fields := make([]string, 0, len(stats.FieldHits))
		for f := range stats.FieldHits {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		b.WriteString("Field hits:\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "  %s: %d\n", f, stats.FieldHits[f])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
