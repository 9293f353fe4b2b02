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

// Package resume handles a message's resume attachment: pick it, back it up,
// and pull its text out. Everything here is best-effort; a broken attachment
// must never stop the message from being processed.
package resume

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// FailedPlaceholder marks records whose resume could not be processed, so
// downstream readers can tell "no resume" from "resume lost".
const FailedPlaceholder = "[resume processing failed]"

// maxAttachmentBytes guards against oversized uploads; real resumes are
// well under this.
const maxAttachmentBytes = 20 << 20

// AttachmentFetcher downloads attachment bytes. Implemented by gmail.Fetcher.
type AttachmentFetcher interface {
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// Backup stores resume files and extracts text. Implemented by
// storage.DriveStore.
type Backup interface {
	Upload(ctx context.Context, filename, mimeType string, data []byte) (string, error)
	ExtractText(ctx context.Context, filename, mimeType string, data []byte) (string, error)
}

// Pipeline runs the attachment stage for one message.
type Pipeline struct {
	fetcher   AttachmentFetcher
	backup    Backup // nil when backup storage is unavailable
	enableOCR bool
}

// New creates the pipeline. backup may be nil; the stage then only reports
// placeholders for messages with attachments.
func New(fetcher AttachmentFetcher, backup Backup, enableOCR bool) *Pipeline {
	return &Pipeline{fetcher: fetcher, backup: backup, enableOCR: enableOCR}
}

// Result carries the resume outputs merged into the candidate record.
type Result struct {
	Text string
	Link string
}

// Process picks the most likely resume attachment, backs it up, and extracts
// its text. A message without a suitable attachment returns an empty result;
// a processing failure returns the error placeholder as the text.
func (p *Pipeline) Process(ctx context.Context, msg *models.NormalizedMessage) Result {
	att := pickResume(msg.Attachments)
	if att == nil {
		return Result{}
	}
	if p.backup == nil {
		slog.Warn("resume attachment present but backup storage unavailable",
			"message_id", msg.ID, "file", att.Filename)
		return Result{Text: FailedPlaceholder}
	}

	log := slog.With("message_id", msg.ID, "file", att.Filename)

	data, err := p.fetcher.GetAttachment(ctx, msg.ID, att.AttachmentID)
	if err != nil {
		log.Warn("failed to download resume", "error", err)
		return Result{Text: FailedPlaceholder}
	}

	res := Result{}
	link, err := p.backup.Upload(ctx, att.Filename, att.MimeType, data)
	if err != nil {
		log.Warn("failed to back up resume", "error", err)
	} else {
		res.Link = link
	}

	if p.enableOCR {
		text, err := p.backup.ExtractText(ctx, att.Filename, att.MimeType, data)
		if err != nil {
			log.Warn("failed to extract resume text", "error", err)
			res.Text = FailedPlaceholder
		} else {
			res.Text = strings.TrimSpace(text)
		}
	}
	return res
}

// resumeExtensions are document types a resume plausibly arrives as.
var resumeExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".rtf": true, ".odt": true,
}

// pickResume chooses the attachment most likely to be the resume: a document
// whose name says resume or cv wins; otherwise the first document attachment.
func pickResume(atts []models.Attachment) *models.Attachment {
	var fallback *models.Attachment
	for i := range atts {
		att := &atts[i]
		ext := strings.ToLower(filepath.Ext(att.Filename))
		if !resumeExtensions[ext] || att.SizeBytes > maxAttachmentBytes || att.AttachmentID == "" {
			continue
		}

		lower := strings.ToLower(att.Filename)
		if strings.Contains(lower, "resume") || strings.Contains(lower, "cv") {
			return att
		}
		if fallback == nil {
			fallback = att
		}
	}
	return fallback
}
