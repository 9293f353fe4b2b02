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
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLinePattern  = regexp.MustCompile(`\n{3,}`)
)

// stripHTML converts an HTML body into line-oriented plain text so the same
// pattern tables can run against it. Script and style content is dropped;
// block elements become line breaks.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Malformed enough that the parser gave up; a crude tag strip still
		// beats handing markup to the pattern tables.
		return normalizeText(tagPattern.ReplaceAllString(html, " "))
	}

	doc.Find("script, style, head").Remove()

	// Force line structure so "standalone line" patterns keep working.
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, tr, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return normalizeText(doc.Text())
}

// normalizeText collapses runs of spaces, trims each line, and squeezes
// excess blank lines.
func normalizeText(text string) string {
	text = whitespacePattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(blankLinePattern.ReplaceAllString(text, "\n\n"))
}
