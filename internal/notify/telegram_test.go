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

package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thetrajectory/applicant-processor/internal/pipeline"
)

// TestFormatReport verifies counts and sorted field hits in the message body.
func TestFormatReport(t *testing.T) {
	stats := &pipeline.RunStats{
		Found:     10,
		Processed: 6,
		Skipped:   3,
		Errors:    1,
		FieldHits: map[string]int{"name": 6, "email": 5, "location": 4},
	}

	text := formatReport(stats)
	assert.Contains(t, text, "Found: 10")
	assert.Contains(t, text, "Processed: 6")
	assert.Contains(t, text, "Errors: 1")
	assert.Contains(t, text, "email: 5")
	// alphabetical field order
	assert.Less(t, strings.Index(text, "email:"), strings.Index(text, "name:"))
}
