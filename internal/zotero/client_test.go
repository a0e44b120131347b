// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/refbridge/pkg/types"
)

const sampleResponse = `[
	{"key": "AAAA1111", "data": {"key": "AAAA1111", "itemType": "journalArticle",
		"title": "Deglobalization and Trade", "date": "2021-03-01",
		"creators": [{"creatorType": "author", "firstName": "Joan", "lastName": "Robinson"}],
		"abstractNote": "<b>Risk</b> rising."}},
	{"key": "BBBB2222", "data": {"itemType": "book", "title": "Open Markets", "date": "n.d."}}
]`

func newTestClient(baseURL string, ttl time.Duration) *Client {
	return New(types.StoreConfig{BaseURL: baseURL, MaxResults: 25, CacheTTL: ttl})
}

func TestSearchParsesRecords(t *testing.T) {
	var gotHeader, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("Zotero-Allowed-Request")
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, 0)
	records, err := c.Search(context.Background(), "deglobalization")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotHeader != "true" {
		t.Errorf("plugin-origin header = %q, want %q", gotHeader, "true")
	}
	if gotQuery != "deglobalization" {
		t.Errorf("query param = %q", gotQuery)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ID != "AAAA1111" || records[0].Title != "Deglobalization and Trade" {
		t.Errorf("records[0] = %+v", records[0])
	}
	// ID falls back to the envelope key when the data block omits it.
	if records[1].ID != "BBBB2222" {
		t.Errorf("records[1].ID = %q, want envelope key", records[1].ID)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, 0)
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := c.Search(context.Background(), q); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Search(%q) error = %v, want ErrInvalidQuery", q, err)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("store was called %d times for invalid queries, want 0", calls)
	}
}

func TestSearchStoreUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // closed immediately: connection refused

	c := newTestClient(ts.URL, 0)
	_, err := c.Search(context.Background(), "anything")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Search() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestSearchStoreError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, 0)
	_, err := c.Search(context.Background(), "anything")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Search() error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusInternalServerError {
		t.Errorf("StatusError.Code = %d, want 500", se.Code)
	}
}

func TestSearchEmptyResultIsNotError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, 0)
	records, err := c.Search(context.Background(), "no such thing")
	if err != nil {
		t.Fatalf("Search() error = %v, want nil", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestSearchCacheHitSkipsNetwork(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), "deglobalization"); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("store called %d times, want 1 (cache should serve repeats)", n)
	}
}
