// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format derives display-ready and persistence-ready fields from raw
// records. Every function here is pure and deterministic.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/refbridge/pkg/types"
)

// titleSuffix is the fixed classification tag appended to every page title.
const titleSuffix = " [[zotero]]"

// ImportableFields holds the derived values persisted with an imported page.
// Computed once per import attempt from a Record.
type ImportableFields struct {
	PageTitle        string
	AuthorsDisplay   string
	Year             *int
	MarkdownAbstract string
}

// Derive computes all importable fields for a record.
func Derive(rec types.Record) ImportableFields {
	f := ImportableFields{
		PageTitle:        PageTitle(rec),
		AuthorsDisplay:   AuthorsDisplay(rec.Creators),
		MarkdownAbstract: MarkdownAbstract(rec.Abstract),
	}
	if y, ok := ExtractYear(rec.Date); ok {
		f.Year = &y
	}
	return f
}

// AuthorsDisplay joins the display names of all creators with role "author".
// Split names render as "First Last"; institutional creators use their single
// Name. Creators with other roles are dropped. An empty creator list yields "".
func AuthorsDisplay(creators []types.Creator) string {
	var names []string
	for _, c := range creators {
		if c.Role != "author" {
			continue
		}
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		if name == "" {
			name = strings.TrimSpace(c.Name)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

var yearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// ExtractYear returns the first plausible publication year found in the
// store's free-text date field. Dates without a 19xx/20xx run yield ok=false.
func ExtractYear(date string) (int, bool) {
	m := yearRe.FindString(date)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// PageTitle returns the human-visible page name for a record: its title, or a
// placeholder carrying the record ID when the title is absent, plus the
// classification tag suffix.
func PageTitle(rec types.Record) string {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = fmt.Sprintf("Untitled Zotero Item %s", rec.ID)
	}
	return title + titleSuffix
}

// Inline tag substitutions for abstract text. The store allows a small fixed
// set of HTML tags; anything else passes through unchanged. Regex substitution
// is deliberate: nested or malformed tags are not guaranteed to round-trip.
var abstractRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?s)<a\s+href="([^"]*)"[^>]*>(.*?)</a>`), "[$2]($1)"},
	{regexp.MustCompile(`(?s)<(?:b|strong)>(.*?)</(?:b|strong)>`), "**$1**"},
	{regexp.MustCompile(`(?s)<(?:i|em)>(.*?)</(?:i|em)>`), "*$1*"},
	{regexp.MustCompile(`(?s)<sup>(.*?)</sup>`), "^$1^"},
	{regexp.MustCompile(`(?s)<sub>(.*?)</sub>`), "~$1~"},
}

var (
	brRe         = regexp.MustCompile(`<br\s*/?>`)
	paraOpenRe   = regexp.MustCompile(`<p(?:\s[^>]*)?>`)
	paraCloseRe  = regexp.MustCompile(`</p>`)
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
)

// MarkdownAbstract converts the store's inline-HTML abstract to Markdown.
// Italic, bold, superscript, subscript, and hyperlink tags are substituted;
// line breaks and paragraphs normalize to newlines; unmatched tags are left
// as-is.
func MarkdownAbstract(abstract string) string {
	if abstract == "" {
		return ""
	}
	s := abstract
	for _, rule := range abstractRules {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	s = brRe.ReplaceAllString(s, "\n")
	s = paraCloseRe.ReplaceAllString(s, "\n\n")
	s = paraOpenRe.ReplaceAllString(s, "")
	s = multiBlankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
