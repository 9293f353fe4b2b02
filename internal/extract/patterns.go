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

import "regexp"

// source identifies where a pattern is applied. Patterns carry an explicit
// source order; the first pattern+source combination whose match survives
// cleaning and validation wins.
type source int

const (
	srcSubject source = iota
	srcBody           // decoded text/plain part
	srcHTMLText       // HTML part stripped to plain text
	srcHTMLRaw        // original HTML, for markup-anchored patterns
)

// rule pairs one pattern with the sources it is tried against, in order.
// The first capture group is the candidate value; group 0 is used when the
// pattern has no groups.
type rule struct {
	re      *regexp.Regexp
	sources []source
}

// The pattern tables below are a tuned heuristic layer, not a grammar.
// Order matters: specific, high-confidence patterns come first and the
// extraction loop stops at the first validated match.

var nameRules = []rule{
	// "New application: <title> from <Name>"
	{regexp.MustCompile(`\b[Ff]rom\s+([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+){0,3})\s*$`), []source{srcSubject}},
	// "<Name> applied to/for ..."
	{regexp.MustCompile(`^(?:[Ff]wd:\s*|[Rr]e:\s*)?([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+){1,3})\s+(?:has\s+)?applied\b`), []source{srcSubject}},
	// Connection-degree suffix line: "John Smith · 1st"
	{regexp.MustCompile(`(?m)^([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+){1,3})\s*(?:·|&middot;)?\s*(?:1st|2nd|3rd)\b`), []source{srcBody, srcHTMLText}},
	// Emphasised candidate name in HTML
	{regexp.MustCompile(`<(?:b|strong)[^>]*>\s*([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+){1,3})\s*</(?:b|strong)>`), []source{srcHTMLRaw}},
	// Standalone capitalized line near the top of the body
	{regexp.MustCompile(`(?m)^([A-Z][a-z]+(?:\s+[A-Z][A-Za-z'.-]+){1,2})$`), []source{srcBody, srcHTMLText}},
}

var titleRules = []rule{
	// "New application: <title> from <name>"
	{regexp.MustCompile(`(?i)(?:new\s+)?application(?:\s+received)?:\s*(.+?)\s+from\s+`), []source{srcSubject}},
	// "<name> applied to/for <title> [at <company>]"
	{regexp.MustCompile(`(?i)\bapplied\s+(?:to|for)\s+(?:the\s+)?(.+?)(?:\s+at\s+[A-Z].*)?$`), []source{srcSubject}},
	// "Application for <title>"
	{regexp.MustCompile(`(?i)\bapplication\s+for\s+(.+?)(?:\s+from\s+.*)?$`), []source{srcSubject}},
	// Labelled field in the body
	{regexp.MustCompile(`(?im)^(?:position|role|job\s*title)\s*[:\-]\s*(.+)$`), []source{srcBody, srcHTMLText}},
	// Vocabulary-anchored title phrase in free text
	{regexp.MustCompile(`(?m)^((?:[A-Z][A-Za-z/&.-]*\s+){0,4}(?:Developer|Engineer|Manager|Designer|Analyst|Architect|Consultant|Scientist|Specialist|Executive|Officer|Recruiter|Accountant|Administrator|Intern|Lead|Director)(?:\s+\((?:Remote|Hybrid|On-?site)\))?)\s*$`), []source{srcBody, srcHTMLText}},
}

var locationRules = []rule{
	// City, State, Country
	{regexp.MustCompile(`([A-Z][A-Za-z .'-]{1,30},\s*[A-Z][A-Za-z .'-]{1,30},\s*[A-Z][A-Za-z .'-]{1,30})`), []source{srcSubject, srcBody, srcHTMLText}},
	// Labelled location field
	{regexp.MustCompile(`(?im)^location\s*[:\-]\s*(.+)$`), []source{srcBody, srcHTMLText}},
	// City, Region pair
	{regexp.MustCompile(`(?m)([A-Z][A-Za-z .'-]{1,30},\s*[A-Z][A-Za-z .'-]{1,30})`), []source{srcBody, srcHTMLText}},
}

var compensationRules = []rule{
	{regexp.MustCompile(`(?i)(?:current|expected)\s+CTC\D{0,12}?([\d,]+(?:\.\d+)?)`), []source{srcSubject, srcBody, srcHTMLText}},
	{regexp.MustCompile(`(?i)\bCTC\D{0,12}?([\d,]+(?:\.\d+)?)`), []source{srcBody, srcHTMLText}},
	{regexp.MustCompile(`(?i)(?:₹|INR|Rs\.?)\s*([\d,]+(?:\.\d+)?)\s*(?:LPA|lakhs?|lacs?)?`), []source{srcBody, srcHTMLText}},
	{regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:LPA|lakhs?|lacs?)\b`), []source{srcBody, srcHTMLText}},
}

var projectIDRules = []rule{
	// Job/project id in link query parameters
	{regexp.MustCompile(`[?&](?:currentJobId|jobId|projectId|postingId)=(\d{6,15})\b`), []source{srcHTMLRaw, srcBody}},
	// Path-style job links: /jobs/view/123456789
	{regexp.MustCompile(`/(?:jobs?|projects?|postings?)/(?:view/)?(\d{6,15})\b`), []source{srcHTMLRaw, srcBody}},
	// Id vocabulary in link text or plain body
	{regexp.MustCompile(`(?i)\b(?:project|job|posting)\s*(?:id)?\s*[#:]\s*(\d{6,15})\b`), []source{srcBody, srcHTMLText, srcSubject}},
}

// screeningRules capture free text between a screening-section opening
// marker and the first closing marker. (?s) lets the capture span lines.
var screeningRules = []rule{
	{regexp.MustCompile(`(?is)\d+\s+out\s+of\s+\d+\s+preferred\s+qualifications\s+met\s*:?\s*(.+?)(?:\bskills\b|\beducation\b|contact\s+information|regards|sincerely|view\s+(?:full\s+)?profile|download\s+resume|$)`), []source{srcBody, srcHTMLText}},
	{regexp.MustCompile(`(?is)screening\s+(?:qualifications?|questions?)\s*:?\s*(.+?)(?:\bskills\b|\beducation\b|contact\s+information|regards|sincerely|view\s+(?:full\s+)?profile|download\s+resume|$)`), []source{srcBody, srcHTMLText}},
}
