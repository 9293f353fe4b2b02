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

// Package extract pulls structured candidate fields out of unstructured,
// inconsistently formatted application emails. Each field runs an ordered
// pattern table against the subject, plain body, and stripped HTML in
// priority order; the first match that survives cleaning and validation
// wins. Extraction is total: a field that cannot be extracted is empty,
// never an error.
package extract

import (
	"log/slog"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// maxMatchesPerSource bounds how many matches of one pattern are offered to
// the validator before moving on. Later matches in a noisy body are rarely
// better.
const maxMatchesPerSource = 8

// Extractor applies the pattern tables. It is stateless and safe for reuse.
type Extractor struct{}

// New creates a field extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns a partially populated CandidateRecord. Contact fields are
// left for the contact resolver; resume fields for the attachment pipeline.
func (e *Extractor) Extract(msg *models.NormalizedMessage) models.CandidateRecord {
	src := map[source]string{
		srcSubject:  msg.Subject,
		srcBody:     msg.BodyText,
		srcHTMLText: stripHTML(msg.BodyHTML),
		srcHTMLRaw:  msg.BodyHTML,
	}

	rec := models.CandidateRecord{
		MessageID:            msg.ID,
		Name:                 firstMatch(nameRules, src, acceptName),
		Title:                firstMatch(titleRules, src, acceptTitle),
		Location:             firstMatch(locationRules, src, acceptLocation),
		ExpectedCompensation: firstMatch(compensationRules, src, acceptCompensation),
		ProjectID:            firstMatch(projectIDRules, src, acceptProjectID),
		ScreeningQuestions:   firstMatch(screeningRules, src, acceptScreening),
	}

	for field, value := range map[string]string{
		"name":         rec.Name,
		"title":        rec.Title,
		"location":     rec.Location,
		"compensation": rec.ExpectedCompensation,
		"project_id":   rec.ProjectID,
		"screening":    rec.ScreeningQuestions,
	} {
		if value == "" {
			slog.Debug("field not extracted", "message_id", msg.ID, "field", field)
		}
	}

	return rec
}

// firstMatch walks the rule table in order, trying each rule against its
// sources in order, and returns the first candidate accepted by the
// field's clean+validate function.
func firstMatch(rules []rule, src map[source]string, accept func(string) (string, bool)) string {
	for _, r := range rules {
		for _, s := range r.sources {
			text := src[s]
			if text == "" {
				continue
			}
			for _, m := range r.re.FindAllStringSubmatch(text, maxMatchesPerSource) {
				candidate := m[0]
				if len(m) > 1 {
					candidate = m[1]
				}
				if value, ok := accept(candidate); ok {
					return value
				}
			}
		}
	}
	return ""
}
