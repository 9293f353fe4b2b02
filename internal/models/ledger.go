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

package models

import "time"

// Status is the terminal outcome recorded for one processing attempt.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusDuplicate Status = "duplicate"
	StatusSkipped   Status = "skipped"
	StatusError     Status = "error"
)

// LedgerEntry is one row of the processing ledger, keyed by message ID.
// A later attempt of the same message upserts over the previous entry.
type LedgerEntry struct {
	MessageID   string            `json:"message_id"`
	Status      Status            `json:"status"`
	ProcessedAt time.Time         `json:"processed_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
