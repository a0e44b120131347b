// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph abstracts the knowledge-base host's page and block
// persistence primitives. Two backends implement the Graph interface: an
// HTTP client for the host application's local API, and a SQLite mirror for
// standalone use.
package graph

import (
	"context"
	"fmt"
	"strconv"
)

// Page is the handle the host returns for a knowledge-base page.
type Page struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
}

// PageProperties is the fixed set of properties written at page creation.
// Each field has one serialization rule; there is no runtime type inference.
type PageProperties struct {
	Title    string
	Authors  string
	Year     *int
	ItemType string

	// ExternalID is the record's store identifier, the dedupe identity key.
	ExternalID string

	// ExternalLink is the deep link back into the store application.
	ExternalLink string

	URL string
}

// Map serializes the properties for persistence. Empty fields and an absent
// year are omitted rather than written as empty values.
func (p PageProperties) Map(idKey string) map[string]string {
	m := make(map[string]string)
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("title", p.Title)
	put("authors", p.Authors)
	if p.Year != nil {
		m["year"] = strconv.Itoa(*p.Year)
	}
	put("item-type", p.ItemType)
	put(idKey, p.ExternalID)
	put("zotero-link", p.ExternalLink)
	put("url", p.URL)
	return m
}

// CreateOptions controls page creation side effects. Both default to off for
// imports: the UI must not navigate away, and the page must start without an
// auto-created empty first block.
type CreateOptions struct {
	Redirect         bool
	CreateFirstBlock bool
}

// Graph is the narrow interface the import pipeline consumes. Find methods
// return (nil, nil) when no page matches; CreatePage may return (nil, nil)
// when the host accepts the call but produces no handle, which callers treat
// as a persistence failure.
type Graph interface {
	FindPageByProperty(ctx context.Context, key, value string) (*Page, error)
	FindPageByTitle(ctx context.Context, title string) (*Page, error)
	CreatePage(ctx context.Context, name string, props map[string]string, opts CreateOptions) (*Page, error)

	// AppendBlock adds one block to the page with optional nested children.
	AppendBlock(ctx context.Context, pageUUID, content string, children []string) error
}

// DeepLink returns the store's item deep link for a record ID.
func DeepLink(recordID string) string {
	return fmt.Sprintf("zotero://select/library/items/%s", recordID)
}
