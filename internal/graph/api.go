// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/refbridge/internal/httputil"
	"github.com/pdiddy/refbridge/pkg/types"
)

// APIGraph talks to the host application's local HTTP API. Every call is one
// POST to /api with a method name and positional args, authenticated with a
// bearer token. Calls are rate limited so a burst of existence checks cannot
// flood the host.
type APIGraph struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIGraph builds an API-mode graph client from config.
func NewAPIGraph(cfg types.GraphConfig) *APIGraph {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	return &APIGraph{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.APIToken,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// call invokes one host API method and decodes the JSON result into out.
// A JSON "null" result leaves out untouched.
func (g *APIGraph) call(ctx context.Context, method string, args []any, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{"method": method, "args": args})
	if err != nil {
		return fmt.Errorf("encoding %s call: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := httputil.DoWithRetry(ctx, g.httpClient, req, 0)
	if err != nil {
		return fmt.Errorf("%s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("host API %s returned HTTP %d", method, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("parsing %s response: %w", method, err)
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", method, err)
	}
	return nil
}

// apiPage is the host's page shape; only the fields the pipeline needs.
type apiPage struct {
	UUID string `json:"uuid"`
	Name string `json:"originalName"`
}

func (p *apiPage) toPage() *Page {
	if p == nil || p.UUID == "" {
		return nil
	}
	return &Page{UUID: p.UUID, Name: p.Name}
}

// FindPageByProperty runs a datascript property query and returns the first
// matching page, or (nil, nil) when none match.
func (g *APIGraph) FindPageByProperty(ctx context.Context, key, value string) (*Page, error) {
	q := fmt.Sprintf("(property %s %q)", key, value)
	var results []apiPage
	if err := g.call(ctx, "logseq.DB.q", []any{q}, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0].toPage(), nil
}

// FindPageByTitle looks a page up by its exact name, or (nil, nil) when absent.
func (g *APIGraph) FindPageByTitle(ctx context.Context, title string) (*Page, error) {
	var p apiPage
	if err := g.call(ctx, "logseq.Editor.getPage", []any{title}, &p); err != nil {
		return nil, err
	}
	return p.toPage(), nil
}

// CreatePage asks the host to create a page with the given properties.
// A "null" reply yields (nil, nil): the call landed but no page handle came
// back, which the import layer reports as a persistence failure.
func (g *APIGraph) CreatePage(ctx context.Context, name string, props map[string]string, opts CreateOptions) (*Page, error) {
	args := []any{
		name,
		props,
		map[string]bool{
			"redirect":         opts.Redirect,
			"createFirstBlock": opts.CreateFirstBlock,
		},
	}
	var p apiPage
	if err := g.call(ctx, "logseq.Editor.createPage", args, &p); err != nil {
		return nil, err
	}
	return p.toPage(), nil
}

// AppendBlock appends one block to the page, then inserts each child nested
// under it.
func (g *APIGraph) AppendBlock(ctx context.Context, pageUUID, content string, children []string) error {
	var parent struct {
		UUID string `json:"uuid"`
	}
	if err := g.call(ctx, "logseq.Editor.appendBlockInPage", []any{pageUUID, content}, &parent); err != nil {
		return err
	}
	if parent.UUID == "" {
		return fmt.Errorf("host API returned no block handle for page %s", pageUUID)
	}
	for _, child := range children {
		opts := map[string]bool{"sibling": false}
		if err := g.call(ctx, "logseq.Editor.insertBlock", []any{parent.UUID, child, opts}, nil); err != nil {
			return err
		}
	}
	return nil
}
