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

// ContactInfo holds the contact fields derived by the contact resolver.
// Any field may be empty; resolution is best-effort.
type ContactInfo struct {
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	LinkedInURL  string `json:"linkedin_url"`
}

// CandidateRecord is the structured extraction result for one applicant.
// Every field is best-effort: an empty string means the field could not be
// extracted. A record is only eligible for persistence once both Name and
// Email are non-empty.
type CandidateRecord struct {
	Name                 string    `json:"name"`
	Title                string    `json:"title"`
	Location             string    `json:"location"`
	ExpectedCompensation string    `json:"expected_compensation"`
	ProjectID            string    `json:"project_id"`
	ScreeningQuestions   string    `json:"screening_questions"`
	Email                string    `json:"email"`
	MobileNumber         string    `json:"mobile_number"`
	LinkedInURL          string    `json:"linkedin_url"`
	ResumeText           string    `json:"resume_text"`
	ResumeStorageLink    string    `json:"resume_storage_link"`
	MessageID            string    `json:"message_id"`
	ProcessedAt          time.Time `json:"processed_at"`
}

// Persistable reports whether the record satisfies the minimum requirements
// for being written to the sinks.
func (r *CandidateRecord) Persistable() bool {
	return r.Name != "" && r.Email != ""
}

// SetContact merges resolved contact fields into the record.
func (r *CandidateRecord) SetContact(c ContactInfo) {
	r.Email = c.Email
	r.MobileNumber = c.MobileNumber
	r.LinkedInURL = c.LinkedInURL
}

// SheetColumns is the fixed column order shared by the spreadsheet sink and
// the dry-run workbook.
var SheetColumns = []string{
	"Name", "Title", "Location", "Expected Compensation", "Project ID",
	"Screening Questions", "Resume Text", "Resume Link", "Mobile", "Email",
	"LinkedIn URL", "Processed At", "Message ID",
}

// SheetRow returns the record's values in SheetColumns order.
func (r *CandidateRecord) SheetRow() []interface{} {
	return []interface{}{
		r.Name,
		r.Title,
		r.Location,
		r.ExpectedCompensation,
		r.ProjectID,
		r.ScreeningQuestions,
		r.ResumeText,
		r.ResumeStorageLink,
		r.MobileNumber,
		r.Email,
		r.LinkedInURL,
		r.ProcessedAt.UTC().Format(time.RFC3339),
		r.MessageID,
	}
}
