// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"testing"

	"github.com/pdiddy/refbridge/pkg/types"
)

func TestAuthorsDisplay(t *testing.T) {
	tests := []struct {
		name     string
		creators []types.Creator
		want     string
	}{
		{
			"filters non-authors",
			[]types.Creator{
				{Role: "author", FirstName: "Ada", LastName: "Lovelace"},
				{Role: "editor", Name: "Bob"},
			},
			"Ada Lovelace",
		},
		{
			"single name form",
			[]types.Creator{{Role: "author", Name: "OECD"}},
			"OECD",
		},
		{
			"multiple authors joined",
			[]types.Creator{
				{Role: "author", FirstName: "Ada", LastName: "Lovelace"},
				{Role: "author", FirstName: "Alan", LastName: "Turing"},
			},
			"Ada Lovelace, Alan Turing",
		},
		{"empty list", nil, ""},
		{
			"last name only",
			[]types.Creator{{Role: "author", LastName: "Aristotle"}},
			"Aristotle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorsDisplay(tt.creators); got != tt.want {
				t.Errorf("AuthorsDisplay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		date   string
		want   int
		wantOK bool
	}{
		{"Published 2021-05", 2021, true},
		{"1997", 1997, true},
		{"March 3, 2019", 2019, true},
		{"n.d.", 0, false},
		{"", 0, false},
		{"3000", 0, false},
		{"18th century, 1789 edition", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, ok := ExtractYear(tt.date)
			if ok != tt.wantOK {
				t.Fatalf("ExtractYear(%q) ok = %v, want %v", tt.date, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractYear(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestPageTitle(t *testing.T) {
	rec := types.Record{ID: "ABCD1234", Title: "Deglobalization Reconsidered"}
	if got := PageTitle(rec); got != "Deglobalization Reconsidered [[zotero]]" {
		t.Errorf("PageTitle() = %q", got)
	}

	rec.Title = ""
	if got := PageTitle(rec); got != "Untitled Zotero Item ABCD1234 [[zotero]]" {
		t.Errorf("PageTitle() placeholder = %q", got)
	}
}

func TestMarkdownAbstract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold and italic", "<b>Risk</b> and <i>policy</i>", "**Risk** and *policy*"},
		{"em and strong", "<strong>a</strong> <em>b</em>", "**a** *b*"},
		{"superscript", "x<sup>2</sup>", "x^2^"},
		{"subscript", "H<sub>2</sub>O", "H~2~O"},
		{"hyperlink", `see <a href="https://example.org">the report</a>`, "see [the report](https://example.org)"},
		{"line break", "one<br/>two", "one\ntwo"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"unmatched tag passes through", "a <u>b</u> c", "a <u>b</u> c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownAbstract(tt.in); got != tt.want {
				t.Errorf("MarkdownAbstract(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	rec := types.Record{
		ID:       "KEY1",
		Title:    "Trade Winds",
		Date:     "2020-01-02",
		Abstract: "<i>shifts</i> in flows",
		Creators: []types.Creator{{Role: "author", FirstName: "Joan", LastName: "Robinson"}},
	}

	f := Derive(rec)
	if f.PageTitle != "Trade Winds [[zotero]]" {
		t.Errorf("PageTitle = %q", f.PageTitle)
	}
	if f.AuthorsDisplay != "Joan Robinson" {
		t.Errorf("AuthorsDisplay = %q", f.AuthorsDisplay)
	}
	if f.Year == nil || *f.Year != 2020 {
		t.Errorf("Year = %v, want 2020", f.Year)
	}
	if f.MarkdownAbstract != "*shifts* in flows" {
		t.Errorf("MarkdownAbstract = %q", f.MarkdownAbstract)
	}

	rec.Date = "n.d."
	if f := Derive(rec); f.Year != nil {
		t.Errorf("Year = %v, want nil for undated record", f.Year)
	}
}
