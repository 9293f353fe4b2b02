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

package pipeline

import (
	"log/slog"
	"time"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// RunStats accumulates outcome counts and per-field extraction hits for one
// run. Only the processing loop writes to it.
type RunStats struct {
	Started    time.Time
	Found      int
	Processed  int
	Skipped    int
	Duplicates int
	Errors     int
	FieldHits  map[string]int
}

func newRunStats(found int) *RunStats {
	return &RunStats{
		Started:   time.Now(),
		Found:     found,
		FieldHits: make(map[string]int),
	}
}

// recordFields counts which fields extraction and resolution populated, for
// the hit-rate section of the run report.
func (s *RunStats) recordFields(rec *models.CandidateRecord) {
	fields := map[string]string{
		"name":         rec.Name,
		"title":        rec.Title,
		"location":     rec.Location,
		"compensation": rec.ExpectedCompensation,
		"project_id":   rec.ProjectID,
		"screening":    rec.ScreeningQuestions,
		"email":        rec.Email,
		"mobile":       rec.MobileNumber,
		"linkedin":     rec.LinkedInURL,
	}
	for name, value := range fields {
		if value != "" {
			s.FieldHits[name]++
		}
	}
}

// Report logs the structured end-of-run summary.
func (s *RunStats) Report() {
	attrs := []any{
		"found", s.Found,
		"processed", s.Processed,
		"skipped", s.Skipped,
		"duplicates", s.Duplicates,
		"errors", s.Errors,
		"elapsed", time.Since(s.Started).Round(time.Millisecond).String(),
	}
	for field, hits := range s.FieldHits {
		attrs = append(attrs, "hits_"+field, hits)
	}
	slog.Info("run complete", attrs...)
}
