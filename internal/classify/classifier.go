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

// Package classify decides whether a message is a job-application
// notification. The rules are layered so unambiguous signals short-circuit
// before the noisier general heuristic, and promotional mail is excluded
// before the permissive fallback bucket.
package classify

import (
	"regexp"
	"strings"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// senderAllowlist holds job-notification sender domains and addresses.
// A match here classifies the message immediately, regardless of content.
var senderAllowlist = []string{
	"jobs-noreply@linkedin.com",
	"jobapplications@linkedin.com",
	"jobs-listings@linkedin.com",
	"@jobs.linkedin.com",
	"@talent.linkedin.com",
}

// strongSubjectPattern matches unambiguous application-intent subjects.
var strongSubjectPattern = regexp.MustCompile(`(?i)\b(new application|job application|your application|applicant|applied (to|for))\b`)

// exclusionPattern matches promotional, billing, and subscription language
// that disqualifies a message before the general heuristic runs.
var exclusionPattern = regexp.MustCompile(`(?i)\b(unsubscribe from (promotional|marketing)|premium subscription|free trial|invoice|billing|receipt for|sales navigator|learning course|webinar|newsletter|limited[- ]time offer|discount)\b`)

// brandPattern matches the provider's notification branding.
var brandPattern = regexp.MustCompile(`(?i)linkedin`)

// jobKeywordPattern matches job-domain vocabulary.
var jobKeywordPattern = regexp.MustCompile(`(?i)\b(job|position|role|vacancy|opening|candidate|recruit(er|ment)?|hiring)\b`)

// intentKeywordPattern matches application-intent vocabulary.
var intentKeywordPattern = regexp.MustCompile(`(?i)\b(appl(y|ied|ication|icant)|resume|cv|cover letter|interested in)\b`)

// Classifier decides message relevance. It is a pure function of message
// content and holds no state beyond the compiled patterns.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// IsApplication reports whether the message looks like a job application.
// Rules are evaluated in order and short-circuit:
//
//  1. sender on the job-notification allowlist → true
//  2. strong application-intent subject → true
//  3. promotional/billing exclusion anywhere → false
//  4. brand match, or job+intent keywords, or attachments+job keyword → true
func (c *Classifier) IsApplication(msg *models.NormalizedMessage) bool {
	from := strings.ToLower(msg.From)
	for _, sender := range senderAllowlist {
		if strings.Contains(from, sender) {
			return true
		}
	}

	if strongSubjectPattern.MatchString(msg.Subject) {
		return true
	}

	combined := msg.Subject + "\n" + msg.From + "\n" + msg.BodyText + "\n" + msg.BodyHTML
	if exclusionPattern.MatchString(combined) {
		return false
	}

	hasJobKeyword := jobKeywordPattern.MatchString(combined)
	switch {
	case brandPattern.MatchString(combined):
		return true
	case hasJobKeyword && intentKeywordPattern.MatchString(combined):
		return true
	case msg.HasAttachments() && hasJobKeyword:
		return true
	}

	return false
}
