// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/refbridge/pkg/types"
)

// SQLiteGraph is a local graph mirror: pages, their properties, and nested
// blocks in a SQLite database. It serves standalone use without the host
// application running, and as the storage backend in tests.
type SQLiteGraph struct {
	db *sql.DB
}

// NewSQLiteGraph opens or creates the graph database at cfg.DBPath, creating
// parent directories and the schema as needed.
func NewSQLiteGraph(cfg types.GraphConfig) (*SQLiteGraph, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating graph directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening graph database: %w", err)
	}

	g := &SQLiteGraph{db: db}
	if err := g.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating graph schema: %w", err)
	}
	return g, nil
}

// Close releases the database connection.
func (g *SQLiteGraph) Close() error {
	return g.db.Close()
}

func (g *SQLiteGraph) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			uuid TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE TABLE IF NOT EXISTS page_properties (
			page_uuid TEXT NOT NULL REFERENCES pages(uuid) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (page_uuid, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_kv ON page_properties(key, value)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			page_uuid TEXT NOT NULL REFERENCES pages(uuid) ON DELETE CASCADE,
			parent_id INTEGER REFERENCES blocks(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			seq INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_page ON blocks(page_uuid)`,
	}
	for _, stmt := range statements {
		if _, err := g.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// FindPageByProperty returns the first page carrying key=value, or (nil, nil).
func (g *SQLiteGraph) FindPageByProperty(ctx context.Context, key, value string) (*Page, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT p.uuid, p.name FROM pages p
		 JOIN page_properties pp ON pp.page_uuid = p.uuid
		 WHERE pp.key = ? AND pp.value = ?
		 ORDER BY p.created_at LIMIT 1`, key, value)
	return scanPage(row)
}

// FindPageByTitle returns the page with the exact name, or (nil, nil).
func (g *SQLiteGraph) FindPageByTitle(ctx context.Context, title string) (*Page, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT uuid, name FROM pages WHERE name = ?`, title)
	return scanPage(row)
}

func scanPage(row *sql.Row) (*Page, error) {
	var p Page
	if err := row.Scan(&p.UUID, &p.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning page: %w", err)
	}
	return &p, nil
}

// CreatePage inserts the page and its properties in one transaction.
// CreateOptions are UI concerns and have no effect in local mode.
func (g *SQLiteGraph) CreatePage(ctx context.Context, name string, props map[string]string, _ CreateOptions) (*Page, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	uuid, err := newUUID()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pages (uuid, name) VALUES (?, ?)`, uuid, name); err != nil {
		return nil, fmt.Errorf("inserting page %q: %w", name, err)
	}

	for key, value := range props {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO page_properties (page_uuid, key, value) VALUES (?, ?, ?)`,
			uuid, key, value); err != nil {
			return nil, fmt.Errorf("inserting property %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing page %q: %w", name, err)
	}
	return &Page{UUID: uuid, Name: name}, nil
}

// AppendBlock appends a block to the page, with children nested under it.
func (g *SQLiteGraph) AppendBlock(ctx context.Context, pageUUID, content string, children []string) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM pages WHERE uuid = ?`, pageUUID).Scan(&exists); err != nil {
		return fmt.Errorf("checking page: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("page %s not found", pageUUID)
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT coalesce(max(seq), 0) + 1 FROM blocks WHERE page_uuid = ? AND parent_id IS NULL`,
		pageUUID).Scan(&seq); err != nil {
		return fmt.Errorf("computing block position: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO blocks (page_uuid, parent_id, content, seq) VALUES (?, NULL, ?, ?)`,
		pageUUID, content, seq)
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}
	parentID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("resolving block id: %w", err)
	}

	for i, child := range children {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO blocks (page_uuid, parent_id, content, seq) VALUES (?, ?, ?, ?)`,
			pageUUID, parentID, child, i+1); err != nil {
			return fmt.Errorf("inserting child block: %w", err)
		}
	}

	return tx.Commit()
}

// PageBlocks returns the page's top-level block contents paired with their
// nested children, in insertion order. Used by the CLI to show what an
// import produced.
func (g *SQLiteGraph) PageBlocks(ctx context.Context, pageUUID string) (map[string][]string, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT b.content, coalesce(c.content, '')
		 FROM blocks b
		 LEFT JOIN blocks c ON c.parent_id = b.id
		 WHERE b.page_uuid = ? AND b.parent_id IS NULL
		 ORDER BY b.seq, c.seq`, pageUUID)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer rows.Close()

	blocks := make(map[string][]string)
	for rows.Next() {
		var parent, child string
		if err := rows.Scan(&parent, &child); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		if _, ok := blocks[parent]; !ok {
			blocks[parent] = nil
		}
		if child != "" {
			blocks[parent] = append(blocks[parent], child)
		}
	}
	return blocks, rows.Err()
}

// newUUID returns a random RFC 4122 version 4 UUID string.
func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generating uuid: %w", err)
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
