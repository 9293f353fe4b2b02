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

package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// TestExtract_Totality verifies extraction never fails, even on a message
// with every source empty.
func TestExtract_Totality(t *testing.T) {
	e := New()

	rec := e.Extract(&models.NormalizedMessage{ID: "m1"})
	assert.Equal(t, "m1", rec.MessageID)
	assert.Empty(t, rec.Name)
	assert.Empty(t, rec.Title)
	assert.Empty(t, rec.Location)
	assert.Empty(t, rec.ExpectedCompensation)
	assert.Empty(t, rec.ProjectID)
	assert.Empty(t, rec.ScreeningQuestions)
}

// TestExtract_ApplicationNotification is the end-to-end extraction scenario:
// a typical notification email yields name, title, location, and
// compensation in one pass.
func TestExtract_ApplicationNotification(t *testing.T) {
	e := New()

	msg := &models.NormalizedMessage{
		ID:      "m2",
		Subject: "New application: Senior Python Developer from John Smith",
		BodyText: strings.Join([]string{
			"John Smith",
			"Bangalore, Karnataka, India",
			"Current CTC 12 LPA",
		}, "\n"),
		Attachments: []models.Attachment{{Filename: "john_smith_resume.pdf"}},
	}

	rec := e.Extract(msg)
	assert.Equal(t, "John Smith", rec.Name)
	assert.Contains(t, rec.Title, "Developer")
	assert.Equal(t, "Bangalore, Karnataka, India", rec.Location)
	assert.Equal(t, "12", rec.ExpectedCompensation)
}

// TestExtract_NameValidation verifies stopword lines and numeric tokens are
// never accepted as names.
func TestExtract_NameValidation(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		msg  models.NormalizedMessage
		want string
	}{
		{
			name: "degree suffix line",
			msg:  models.NormalizedMessage{BodyText: "Priya Sharma · 1st\nApplied 2 days ago"},
			want: "Priya Sharma",
		},
		{
			name: "emphasised name in html",
			msg:  models.NormalizedMessage{BodyHTML: "<html><body><b>Rahul Verma</b> applied</body></html>"},
			want: "Rahul Verma",
		},
		{
			name: "stopword line rejected",
			msg:  models.NormalizedMessage{BodyText: "New Application\nView Profile"},
			want: "",
		},
		{
			name: "numeric line rejected",
			msg:  models.NormalizedMessage{BodyText: "12345 67890"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Extract(&tt.msg)
			assert.Equal(t, tt.want, rec.Name)
		})
	}
}

// TestExtract_CompensationBounds verifies non-positive and out-of-range
// values are rejected under the lakh-denominated assumption.
func TestExtract_CompensationBounds(t *testing.T) {
	e := New()

	tests := []struct {
		body string
		want string
	}{
		{"Current CTC 12 LPA", "12"},
		{"Expected CTC: 12.5 LPA", "12.5"},
		{"CTC 0 LPA", ""},
		{"CTC 1,200 LPA", ""},
		{"salary discussed on call", ""},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := e.Extract(&models.NormalizedMessage{BodyText: tt.body})
			assert.Equal(t, tt.want, rec.ExpectedCompensation)
		})
	}
}

// TestExtract_LocationRejectsJobTerms verifies skill phrases are never
// accepted as locations, even with comma-separated structure.
func TestExtract_LocationRejectsJobTerms(t *testing.T) {
	e := New()

	rec := e.Extract(&models.NormalizedMessage{
		BodyText: "Strategic Marketing Transformation, India",
	})
	assert.Empty(t, rec.Location)
}

// TestExtract_LocationSources verifies labelled fields and stripped HTML
// both feed the location patterns.
func TestExtract_LocationSources(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		msg  models.NormalizedMessage
		want string
	}{
		{
			name: "labelled body field",
			msg:  models.NormalizedMessage{BodyText: "Location: Mumbai, Maharashtra"},
			want: "Mumbai, Maharashtra",
		},
		{
			name: "html body",
			msg:  models.NormalizedMessage{BodyHTML: "<p>Location: Pune, Maharashtra</p>"},
			want: "Pune, Maharashtra",
		},
		{
			name: "single known city",
			msg:  models.NormalizedMessage{BodyText: "Location: Hyderabad"},
			want: "Hyderabad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Extract(&tt.msg)
			assert.Equal(t, tt.want, rec.Location)
		})
	}
}

// TestExtract_ProjectID verifies ids come out of link paths and query
// parameters within the digit-length bounds.
func TestExtract_ProjectID(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		msg  models.NormalizedMessage
		want string
	}{
		{
			name: "job view path in html",
			msg:  models.NormalizedMessage{BodyHTML: `<a href="https://www.linkedin.com/jobs/view/3721509281?refId=x">View job</a>`},
			want: "3721509281",
		},
		{
			name: "query parameter",
			msg:  models.NormalizedMessage{BodyHTML: `<a href="https://www.linkedin.com/talent/hire?projectId=687219043">Open project</a>`},
			want: "687219043",
		},
		{
			name: "id vocabulary in plain text",
			msg:  models.NormalizedMessage{BodyText: "Project ID: 123456789"},
			want: "123456789",
		},
		{
			name: "too short",
			msg:  models.NormalizedMessage{BodyText: "Project ID: 12345"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Extract(&tt.msg)
			assert.Equal(t, tt.want, rec.ProjectID)
		})
	}
}

// TestExtract_ScreeningQuestions verifies section capture between the
// opening marker and the first close marker, with the minimum-length guard.
func TestExtract_ScreeningQuestions(t *testing.T) {
	e := New()

	body := strings.Join([]string{
		"3 out of 5 preferred qualifications met",
		"Do you have 5+ years with Python? Yes",
		"Are you willing to relocate? No",
		"Skills",
		"Python, Django, SQL",
	}, "\n")

	rec := e.Extract(&models.NormalizedMessage{BodyText: body})
	assert.Contains(t, rec.ScreeningQuestions, "Do you have 5+ years with Python? Yes")
	assert.Contains(t, rec.ScreeningQuestions, "relocate? No")
	assert.NotContains(t, rec.ScreeningQuestions, "Django")

	// Too short to be real screening content
	rec = e.Extract(&models.NormalizedMessage{BodyText: "Screening questions: n/a Skills"})
	assert.Empty(t, rec.ScreeningQuestions)
}

// TestStripHTML verifies tag removal, entity decoding, and block line breaks.
func TestStripHTML(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>` +
		`<p>John&nbsp;Smith</p><div>Bangalore, Karnataka, India</div>` +
		`<script>alert(1)</script></body></html>`

	text := stripHTML(html)
	assert.Contains(t, text, "John Smith")
	assert.Contains(t, text, "Bangalore, Karnataka, India")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color")
}
