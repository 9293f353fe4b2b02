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

// Package models defines the data structures shared across the processor.
package models

import "time"

// Attachment describes a file attached to a message. The content itself is
// fetched separately via the attachment ID.
type Attachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	AttachmentID string `json:"attachment_id"`
	SizeBytes    int64  `json:"size_bytes"`
}

// NormalizedMessage is a decoded email message as produced by the Gmail
// fetcher. BodyText and BodyHTML are already base64url-decoded; either may
// be empty. ID is the provider message ID and is the sole dedup key.
type NormalizedMessage struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	From        string       `json:"from"`
	Date        time.Time    `json:"date"`
	BodyText    string       `json:"body_text"`
	BodyHTML    string       `json:"body_html"`
	Attachments []Attachment `json:"attachments"`
}

// HasAttachments reports whether the message carries at least one attachment.
func (m *NormalizedMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
