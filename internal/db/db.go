// Package db provides SQLite storage for the board: projects, cards, votes
// and comments.
//
// The database is stored at ~/.board/board.db by default.
// Use Open() to connect and Init() to create the schema.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/baiirun/board/internal/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is wrapped by every lookup or mutation that targets a missing row.
var ErrNotFound = model.ErrNotFound

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '#71717A',
	icon TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	project_id TEXT NOT NULL REFERENCES projects(id),
	status TEXT NOT NULL DEFAULT 'idea',
	priority TEXT NOT NULL DEFAULT 'medium',
	position REAL NOT NULL DEFAULT 0,
	created_by TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS votes (
	id TEXT PRIMARY KEY,
	card_id TEXT NOT NULL REFERENCES cards(id),
	voter_identity TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (card_id, voter_identity)
);

CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	card_id TEXT NOT NULL REFERENCES cards(id),
	author TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cards_project ON cards(project_id);
CREATE INDEX IF NOT EXISTS idx_cards_status ON cards(status);
CREATE INDEX IF NOT EXISTS idx_votes_card ON votes(card_id);
CREATE INDEX IF NOT EXISTS idx_comments_card ON comments(card_id, created_at);
`

// DefaultProjects are seeded by Init so a fresh board has somewhere to put cards.
var DefaultProjects = []struct {
	ID, Slug, Name, Color, Icon string
}{
	{"1", "trendwatcher", "TrendWatcher", "#8B5CF6", "📈"},
	{"2", "hackerstack", "HackerStack", "#00C9FF", "🛠️"},
	{"3", "autonomous", "Autonomous Agent", "#EC4899", "🤖"},
	{"4", "calm", "Calm Under Pressure", "#22C55E", "👕"},
	{"5", "general", "General", "#71717A", "📝"},
}

// DB wraps a SQL database connection with board-specific operations.
type DB struct {
	*sql.DB
}

// DefaultPath returns the default database path (~/.board/board.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".board", "board.db"), nil
}

// Open opens or creates the database at the given path
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has one writer, and pragmas are per connection.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

// Init creates the schema and seeds the default projects.
func (db *DB) Init() error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := db.seedProjects(); err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}

	return nil
}

// seedProjects inserts any default project that is not there yet.
func (db *DB) seedProjects() error {
	for _, p := range DefaultProjects {
		if _, err := db.Exec(`
			INSERT OR IGNORE INTO projects (id, slug, name, color, icon)
			VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Slug, p.Name, p.Color, p.Icon,
		); err != nil {
			return err
		}
	}
	return nil
}

func notFound(kind, id, listCmd string) error {
	return fmt.Errorf("%s %w: %s (use 'board %s' to see available %ss)", kind, ErrNotFound, id, listCmd, kind)
}
