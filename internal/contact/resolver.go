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

// Package contact derives candidate contact fields from message content and
// resume text. A direct regex scan runs first; an LLM extraction pass then
// refines the result when enabled. Resolution is best-effort and never fails
// the message pipeline.
package contact

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// ChatClient is the LLM collaborator boundary. Implemented by llm.Client.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	mailtoPattern = regexp.MustCompile(`(?i)mailto:([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	// contextualPattern anchors on an explicit label preceding the address.
	contextualPattern = regexp.MustCompile(`(?i)(?:e-?mail|contact)\s*[:\-]\s*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
)

// blockedLocalPrefixes are sender classes that are never a candidate's own
// address: automated senders and the job board's notification plumbing.
var blockedLocalPrefixes = []string{
	"noreply", "no-reply", "donotreply", "do-not-reply", "notification",
	"notifications", "jobs-noreply", "jobapplications", "mailer-daemon",
	"postmaster", "bounce",
}

// blockedDomains are platform domains whose addresses belong to the job
// board, not the applicant.
var blockedDomains = []string{
	"linkedin.com", "bounce.linkedin.com", "e.linkedin.com",
}

// extractionPrompt instructs the model to return strict JSON. The resume
// text is appended verbatim.
const extractionPrompt = `Extract the candidate's contact details from the resume text below.
Respond with ONLY a JSON object in exactly this shape, using null for any
field you cannot find:
{"mobile_number": null, "email": null, "linkedin_url": null}

Resume text:
`

// llmContact mirrors the JSON object the model is asked to return.
type llmContact struct {
	MobileNumber *string `json:"mobile_number"`
	Email        *string `json:"email"`
	LinkedInURL  *string `json:"linkedin_url"`
}

// Resolver combines direct scanning with LLM extraction.
type Resolver struct {
	chat ChatClient // nil disables the LLM stage
}

// NewResolver creates a contact resolver. Pass a nil chat client to run
// with the direct scan only.
func NewResolver(chat ChatClient) *Resolver {
	return &Resolver{chat: chat}
}

// Resolve derives contact fields for one message. It never returns an
// error: on total failure every field is empty.
func (r *Resolver) Resolve(ctx context.Context, msg *models.NormalizedMessage, resumeText string) models.ContactInfo {
	info := models.ContactInfo{
		Email: r.directScan(msg, resumeText),
	}

	if r.chat == nil || strings.TrimSpace(resumeText) == "" {
		return info
	}

	fromLLM, ok := r.llmExtract(ctx, resumeText)
	if !ok {
		return info
	}

	// The LLM sees the full resume and wins on email; mobile and LinkedIn
	// are only attempted by the LLM stage.
	if fromLLM.Email != nil && emailPattern.MatchString(*fromLLM.Email) {
		info.Email = strings.TrimSpace(*fromLLM.Email)
	}
	if fromLLM.MobileNumber != nil {
		info.MobileNumber = strings.TrimSpace(*fromLLM.MobileNumber)
	}
	if fromLLM.LinkedInURL != nil {
		info.LinkedInURL = strings.TrimSpace(*fromLLM.LinkedInURL)
	}

	return info
}

// directScan looks for the candidate's email in hyperlinks first (most
// reliable, sender-authored), then bare matches, then labelled matches.
func (r *Resolver) directScan(msg *models.NormalizedMessage, resumeText string) string {
	sources := []string{msg.BodyHTML, msg.BodyText, resumeText}

	for _, text := range sources {
		for _, m := range mailtoPattern.FindAllStringSubmatch(text, -1) {
			if email := acceptEmail(m[1]); email != "" {
				return email
			}
		}
	}
	for _, text := range sources {
		for _, m := range emailPattern.FindAllString(text, -1) {
			if email := acceptEmail(m); email != "" {
				return email
			}
		}
	}
	for _, text := range sources {
		for _, m := range contextualPattern.FindAllStringSubmatch(text, -1) {
			if email := acceptEmail(m[1]); email != "" {
				return email
			}
		}
	}
	return ""
}

// llmExtract sends the resume to the chat model and parses its JSON reply.
// Any failure is swallowed; contact resolution must not fail the pipeline.
func (r *Resolver) llmExtract(ctx context.Context, resumeText string) (llmContact, bool) {
	reply, err := r.chat.Complete(ctx, extractionPrompt+resumeText)
	if err != nil {
		slog.Warn("llm contact extraction failed", "error", err)
		return llmContact{}, false
	}

	var parsed llmContact
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &parsed); err != nil {
		slog.Warn("llm contact reply was not valid JSON", "error", err)
		return llmContact{}, false
	}
	return parsed, true
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "javascript", or empty)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// acceptEmail validates shape and rejects system and platform addresses.
func acceptEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(email) {
		return ""
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]

	for _, prefix := range blockedLocalPrefixes {
		if strings.HasPrefix(local, prefix) {
			return ""
		}
	}
	for _, blocked := range blockedDomains {
		if domain == blocked || strings.HasSuffix(domain, "."+blocked) {
			return ""
		}
	}
	return email
}
