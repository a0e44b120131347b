// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero queries the local record store's search API and returns
// typed candidate records.
//
// The store is a desktop companion process reached over loopback HTTP. Calls
// carry a fixed header asserting plugin origin. There is no retry: repeated
// failure means the store is not running, which only the user can fix.
package zotero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/refbridge/pkg/types"
)

// allowedRequestHeader marks requests as plugin-originated; the store rejects
// browser-originated API calls without it.
const allowedRequestHeader = "Zotero-Allowed-Request"

var (
	// ErrInvalidQuery is returned for empty or whitespace-only queries,
	// before any request is made.
	ErrInvalidQuery = errors.New("search query is empty")

	// ErrStoreUnavailable is returned when the store cannot be reached.
	// The usual cause is that the desktop application is not running.
	ErrStoreUnavailable = errors.New("record store unreachable: is the application running?")
)

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("record store returned HTTP %d", e.Code)
}

// Client searches the record store. It is safe for concurrent use.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	cache      *gocache.Cache
	cacheTTL   time.Duration
}

// New builds a client from config. A zero CacheTTL disables response caching.
func New(cfg types.StoreConfig) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{},
		cacheTTL:   cfg.CacheTTL,
	}
	if c.maxResults <= 0 {
		c.maxResults = 25
	}
	if cfg.CacheTTL > 0 {
		c.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// item is the store's wire envelope: metadata wraps the record proper.
type item struct {
	Key  string       `json:"key"`
	Data types.Record `json:"data"`
}

// Search queries the store for records matching query, in the store's own
// recency-descending order. An empty result is a valid outcome and returns a
// nil slice with a nil error. Connection failures wrap ErrStoreUnavailable;
// non-2xx responses return a *StatusError.
func (c *Client) Search(ctx context.Context, query string) ([]types.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(query); ok {
			return cached.([]types.Record), nil
		}
	}

	params := url.Values{
		"q":         {query},
		"qmode":     {"everything"},
		"sort":      {"dateAdded"},
		"direction": {"desc"},
		"limit":     {fmt.Sprintf("%d", c.maxResults)},
	}
	reqURL := c.baseURL + "/users/0/items?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(allowedRequestHeader, "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var items []item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing store response: %w", err)
	}

	var records []types.Record
	for _, it := range items {
		rec := it.Data
		if rec.ID == "" {
			rec.ID = it.Key
		}
		if rec.ID == "" {
			continue
		}
		records = append(records, rec)
	}

	if c.cache != nil {
		c.cache.Set(query, records, c.cacheTTL)
	}
	return records, nil
}
