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
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// nameStopwords disqualify a name candidate when any token matches. They
// cover job-title fragments and generic notification vocabulary that the
// loose capitalized-line patterns tend to pick up.
var nameStopwords = wordSet(
	"new", "application", "applications", "applicant", "job", "jobs",
	"the", "your", "dear", "hello", "hi", "team", "candidate", "resume",
	"linkedin", "hiring", "notification", "developer", "engineer",
	"manager", "designer", "analyst", "consultant", "architect",
	"recruiter", "senior", "junior", "lead", "principal", "staff",
	"regards", "thanks", "thank", "best", "sincerely", "view", "profile",
)

// titleVocab lists job-function and seniority terms; a title candidate must
// contain at least one of them.
var titleVocab = wordSet(
	"developer", "engineer", "engineering", "programmer", "manager",
	"designer", "analyst", "architect", "consultant", "scientist",
	"specialist", "executive", "officer", "recruiter", "accountant",
	"administrator", "intern", "director", "lead", "head", "chief",
	"senior", "junior", "principal", "staff", "associate", "assistant",
	"marketing", "sales", "finance", "product", "data", "software",
	"devops", "qa", "backend", "frontend", "fullstack",
)

// titleBoilerplate tokens carry no title signal on their own.
var titleBoilerplate = wordSet(
	"new", "application", "applications", "the", "a", "an", "your",
	"from", "at", "for", "job", "position", "role", "opening", "urgent",
	"immediate", "required", "wanted", "hiring",
)

// jobSkillVocab rejects job/skill/technology phrases misidentified as
// locations ("Strategic Marketing Transformation" is not a city).
var jobSkillVocab = wordSet(
	"developer", "engineer", "engineering", "manager", "management",
	"marketing", "sales", "software", "java", "python", "golang",
	"javascript", "react", "node", "data", "analytics", "analyst",
	"transformation", "strategy", "strategic", "consultant", "designer",
	"devops", "cloud", "aws", "azure", "testing", "qa", "finance",
	"accounting", "recruiter", "intern", "architect", "lead", "senior",
	"junior", "digital", "automation", "operations",
)

// geoVocab is the closed geographic vocabulary: countries, Indian states,
// and cities that dominate the mailbox. A location candidate matching any
// entry is accepted without requiring multi-part structure.
var geoVocab = wordSet(
	// countries
	"india", "usa", "canada", "uk", "germany", "france", "australia",
	"singapore", "netherlands", "uae", "remote",
	// states
	"karnataka", "maharashtra", "telangana", "haryana", "gujarat",
	"kerala", "punjab", "rajasthan", "delhi", "california", "texas",
	"washington", "ontario",
	// cities
	"bangalore", "bengaluru", "mumbai", "pune", "hyderabad", "chennai",
	"gurgaon", "gurugram", "noida", "kolkata", "ahmedabad", "london",
	"toronto", "sydney", "berlin", "amsterdam", "dubai", "seattle",
)

var (
	numericToken    = regexp.MustCompile(`^\d+$`)
	legalSuffix     = regexp.MustCompile(`(?i)[,\s]*\b(pvt\.?|private|ltd\.?|limited|inc\.?|llc|llp|corp\.?|gmbh)\b\.?`)
	htmlEntity      = regexp.MustCompile(`&[a-z]+;|&#\d+;`)
	inlineEmail     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	inlinePhone     = regexp.MustCompile(`\+?\d[\d\s()./-]{7,}\d`)
	inlineURL       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	multiSpace      = regexp.MustCompile(`\s+`)
	trailingPunct   = "-–|:;,. \t"
	thousandsCommas = strings.NewReplacer(",", "")
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsAny(s string, vocab map[string]bool) bool {
	for _, tok := range tokenize(s) {
		if vocab[tok] {
			return true
		}
	}
	return false
}

// acceptName cleans and validates a name candidate.
func acceptName(raw string) (string, bool) {
	name := strings.Trim(multiSpace.ReplaceAllString(raw, " "), trailingPunct)
	tokens := strings.Fields(name)
	if len(tokens) == 0 || len(tokens) > 4 {
		return "", false
	}

	capitalized := false
	for _, tok := range tokens {
		bare := strings.Trim(tok, ".,'")
		if bare == "" || numericToken.MatchString(bare) {
			return "", false
		}
		if nameStopwords[strings.ToLower(bare)] {
			return "", false
		}
		runes := []rune(bare)
		if len(runes) == 1 && !strings.HasSuffix(tok, ".") {
			// Single letters are only acceptable as initials ("J. Smith")
			return "", false
		}
		if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsLower(runes[1]) {
			capitalized = true
		}
	}

	if !capitalized {
		return "", false
	}
	return name, true
}

// acceptTitle strips legal-entity suffixes and noise, then requires at least
// one recognized role or seniority term.
func acceptTitle(raw string) (string, bool) {
	title := legalSuffix.ReplaceAllString(raw, "")
	title = strings.Trim(multiSpace.ReplaceAllString(title, " "), trailingPunct)
	if title == "" {
		return "", false
	}

	hasRoleTerm := false
	allBoilerplate := true
	for _, tok := range tokenize(title) {
		if titleVocab[tok] {
			hasRoleTerm = true
		}
		if !titleBoilerplate[tok] {
			allBoilerplate = false
		}
	}
	if !hasRoleTerm || allBoilerplate {
		return "", false
	}
	return title, true
}

// acceptLocation cleans inline noise out of a location candidate and
// validates it against the geographic vocabulary or multi-part structure.
func acceptLocation(raw string) (string, bool) {
	loc := htmlEntity.ReplaceAllString(raw, " ")
	loc = inlineURL.ReplaceAllString(loc, "")
	loc = inlineEmail.ReplaceAllString(loc, "")
	loc = inlinePhone.ReplaceAllString(loc, "")
	loc = strings.Trim(multiSpace.ReplaceAllString(loc, " "), trailingPunct)

	if !strings.ContainsFunc(loc, unicode.IsLetter) {
		return "", false
	}
	// Titles and skill phrases are never locations, comma-separated or not.
	if containsAny(loc, jobSkillVocab) {
		return "", false
	}

	if containsAny(loc, geoVocab) {
		return loc, true
	}

	// No vocabulary hit: accept only comma-separated capitalized parts.
	parts := strings.Split(loc, ",")
	if len(parts) < 2 {
		return "", false
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", false
		}
		if r := []rune(part)[0]; !unicode.IsUpper(r) {
			return "", false
		}
	}
	return loc, true
}

// acceptCompensation strips thousands separators and enforces the plausible
// lakh-denominated range: positive and below 1000.
func acceptCompensation(raw string) (string, bool) {
	cleaned := thousandsCommas.Replace(strings.TrimSpace(raw))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "", false
	}
	if value <= 0 || value >= 1000 {
		return "", false
	}
	return strconv.FormatFloat(value, 'f', -1, 64), true
}

// acceptProjectID passes through; digit-length bounds live in the patterns.
func acceptProjectID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	return id, id != ""
}

// acceptScreening normalizes whitespace and rejects captures too short to be
// real screening content.
func acceptScreening(raw string) (string, bool) {
	const minLength = 15

	text := htmlEntity.ReplaceAllString(raw, " ")
	text = strings.Trim(multiSpace.ReplaceAllString(text, " "), trailingPunct)
	if len(text) <= minLength {
		return "", false
	}
	return text, true
}
