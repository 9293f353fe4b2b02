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

package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// fakeChat returns a canned reply or error.
type fakeChat struct {
	reply string
	err   error
}

func (f *fakeChat) Complete(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

// TestResolve_MailtoPrecedence verifies hyperlink addresses beat bare
// matches found earlier in the text.
func TestResolve_MailtoPrecedence(t *testing.T) {
	r := NewResolver(nil)

	msg := &models.NormalizedMessage{
		BodyText: "Reach me at other.address@example.org",
		BodyHTML: `<a href="mailto:candidate@gmail.com">Email John</a>`,
	}

	info := r.Resolve(context.Background(), msg, "")
	assert.Equal(t, "candidate@gmail.com", info.Email)
}

// TestResolve_RejectsPlatformAddresses verifies the job board's own
// notification addresses are never resolved as the candidate's.
func TestResolve_RejectsPlatformAddresses(t *testing.T) {
	r := NewResolver(nil)

	msg := &models.NormalizedMessage{
		From:     "LinkedIn <jobs-noreply@linkedin.com>",
		BodyText: "This mail was sent by jobs-noreply@linkedin.com. Contact: john.smith@example.com",
	}

	info := r.Resolve(context.Background(), msg, "")
	assert.Equal(t, "john.smith@example.com", info.Email)

	// Only platform addresses present → nothing resolved
	msg = &models.NormalizedMessage{
		BodyText: "Sent by notifications@e.linkedin.com and noreply@acme.example",
	}
	info = r.Resolve(context.Background(), msg, "")
	assert.Empty(t, info.Email)
}

// TestResolve_LLMOverridesDirectScan is the email precedence scenario: the
// LLM result wins over the direct scan.
func TestResolve_LLMOverridesDirectScan(t *testing.T) {
	chat := &fakeChat{reply: `{"mobile_number": "+91 98765 43210", "email": "other@site.com", "linkedin_url": "https://linkedin.com/in/jsmith"}`}
	r := NewResolver(chat)

	msg := &models.NormalizedMessage{
		BodyText: "candidate@gmail.com",
	}

	info := r.Resolve(context.Background(), msg, "resume text here")
	assert.Equal(t, "other@site.com", info.Email)
	assert.Equal(t, "+91 98765 43210", info.MobileNumber)
	assert.Equal(t, "https://linkedin.com/in/jsmith", info.LinkedInURL)
}

// TestResolve_FencedJSONReply verifies markdown fences are stripped before
// parsing.
func TestResolve_FencedJSONReply(t *testing.T) {
	chat := &fakeChat{reply: "```json\n{\"mobile_number\": null, \"email\": \"jane@example.com\", \"linkedin_url\": null}\n```"}
	r := NewResolver(chat)

	info := r.Resolve(context.Background(), &models.NormalizedMessage{}, "resume")
	assert.Equal(t, "jane@example.com", info.Email)
	assert.Empty(t, info.MobileNumber)
	assert.Empty(t, info.LinkedInURL)
}

// TestResolve_LLMFailureSoft verifies LLM errors and malformed replies fall
// back to the direct-scan result.
func TestResolve_LLMFailureSoft(t *testing.T) {
	msg := &models.NormalizedMessage{BodyText: "candidate@gmail.com"}

	r := NewResolver(&fakeChat{err: errors.New("timeout")})
	info := r.Resolve(context.Background(), msg, "resume")
	assert.Equal(t, "candidate@gmail.com", info.Email)

	r = NewResolver(&fakeChat{reply: "I could not find any contact details."})
	info = r.Resolve(context.Background(), msg, "resume")
	assert.Equal(t, "candidate@gmail.com", info.Email)
}

// TestResolve_NoLLMWithoutResume verifies the LLM stage is skipped when
// there is no resume text.
func TestResolve_NoLLMWithoutResume(t *testing.T) {
	chat := &fakeChat{reply: `{"email": "should-not-be-used@example.com"}`}
	r := NewResolver(chat)

	info := r.Resolve(context.Background(), &models.NormalizedMessage{BodyText: "direct@example.com"}, "")
	assert.Equal(t, "direct@example.com", info.Email)
}

// TestResolve_TotalFailure verifies an all-empty result on messages with
// no contact signal at all.
func TestResolve_TotalFailure(t *testing.T) {
	r := NewResolver(nil)
	info := r.Resolve(context.Background(), &models.NormalizedMessage{}, "")
	assert.Empty(t, info.Email)
	assert.Empty(t, info.MobileNumber)
	assert.Empty(t, info.LinkedInURL)
}

// TestStripCodeFences covers fence variants.
func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
