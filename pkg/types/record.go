// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the refbridge pipeline.
package types

// Creator is one contributor entry on a Record. Role distinguishes authors
// from editors, translators, and other contributor types. The store sends
// either FirstName+LastName or a single Name, never both.
type Creator struct {
	// Role is the contributor type as named by the store (e.g. "author", "editor").
	Role string `json:"creatorType" yaml:"role"`

	// FirstName and LastName are the split name form.
	FirstName string `json:"firstName,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"last_name,omitempty"`

	// Name is the single full-name form used for institutional creators.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Record is one bibliographic entity returned by the record store. Records
// are created and owned by the store; refbridge never mutates them.
type Record struct {
	// ID is the stable opaque identifier issued by the store. It is the
	// primary identity key for deduplication.
	ID string `json:"key" yaml:"id"`

	// ItemType is the store's category label (e.g. "journalArticle").
	ItemType string `json:"itemType" yaml:"item_type"`

	// Title is the display title. May be empty.
	Title string `json:"title" yaml:"title"`

	// Creators lists contributors in store order.
	Creators []Creator `json:"creators" yaml:"creators"`

	// Date is free-text and not guaranteed to be ISO formatted.
	Date string `json:"date" yaml:"date"`

	// URL is the source link, if any.
	URL string `json:"url" yaml:"url"`

	// Abstract may contain a small set of inline HTML tags.
	Abstract string `json:"abstractNote" yaml:"abstract"`
}
