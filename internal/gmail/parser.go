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
	"encoding/base64"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// parseMessage flattens the Gmail MIME tree into the pipeline's normalized
// shape. Multiple parts of the same type are concatenated in tree order.
func parseMessage(raw *gmailapi.Message) *models.NormalizedMessage {
	msg := &models.NormalizedMessage{
		ID:   raw.Id,
		Date: time.UnixMilli(raw.InternalDate),
	}

	if raw.Payload == nil {
		return msg
	}

	for _, h := range raw.Payload.Headers {
		switch h.Name {
		case "Subject":
			msg.Subject = h.Value
		case "From":
			msg.From = h.Value
		}
	}

	var text, html strings.Builder
	walkPart(raw.Payload, &text, &html, msg)
	msg.BodyText = text.String()
	msg.BodyHTML = html.String()
	return msg
}

func walkPart(part *gmailapi.MessagePart, text, html *strings.Builder, msg *models.NormalizedMessage) {
	if part == nil {
		return
	}

	// An attachment part carries a filename and a body reference instead of
	// inline data.
	if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
		msg.Attachments = append(msg.Attachments, models.Attachment{
			Filename:     part.Filename,
			MimeType:     part.MimeType,
			AttachmentID: part.Body.AttachmentId,
			SizeBytes:    part.Body.Size,
		})
		return
	}

	if part.Body != nil && part.Body.Data != "" {
		decoded, err := decodeBody(part.Body.Data)
		if err == nil {
			switch {
			case strings.HasPrefix(part.MimeType, "text/plain"):
				text.WriteString(decoded)
			case strings.HasPrefix(part.MimeType, "text/html"):
				html.WriteString(decoded)
			}
		}
	}

	for _, child := range part.Parts {
		walkPart(child, text, html, msg)
	}
}

// decodeBody handles both padded and unpadded URL-safe base64; the API
// normally strips padding.
func decodeBody(data string) (string, error) {
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b), nil
	}
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
