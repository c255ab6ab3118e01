// Package library persists the installed games catalog. Each game
// records which runner it uses, where it lives on disk, and the config ID
// naming its game-level config file.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a game slug is not in the library.
var ErrNotFound = errors.New("game not found")

// Game is one catalog entry.
type Game struct {
	ID        string
	Slug      string
	Name      string
	Runner    string
	Directory string
	ConfigID  string
}

// Library is the sqlite-backed games catalog.
type Library struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id        TEXT PRIMARY KEY,
	slug      TEXT NOT NULL UNIQUE,
	name      TEXT NOT NULL,
	runner    TEXT NOT NULL,
	directory TEXT NOT NULL DEFAULT '',
	config_id TEXT NOT NULL
);
`

// Open opens or creates the library database at path, creating the
// parent directory when needed.
func Open(path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating library: %w", err)
	}
	return &Library{db: db}, nil
}

// Close closes the database.
func (l *Library) Close() error { return l.db.Close() }

// Add inserts a game. Empty ID and ConfigID fields are generated; the
// stored game is returned.
func (l *Library) Add(g Game) (Game, error) {
	if g.Slug == "" {
		return Game{}, errors.New("game slug is required")
	}
	if g.Runner == "" {
		return Game{}, errors.New("game runner is required")
	}
	if g.Name == "" {
		g.Name = g.Slug
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.ConfigID == "" {
		g.ConfigID = newConfigID(g.Slug)
	}

	_, err := l.db.Exec(
		`INSERT INTO games (id, slug, name, runner, directory, config_id) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Slug, g.Name, g.Runner, g.Directory, g.ConfigID,
	)
	if err != nil {
		return Game{}, fmt.Errorf("adding game %q: %w", g.Slug, err)
	}
	return g, nil
}

// newConfigID derives a config file name from the slug plus a short
// unique suffix, so reinstalling a game never reuses an old config file.
func newConfigID(slug string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return slug + "-" + suffix
}

// Get looks a game up by slug.
func (l *Library) Get(slug string) (Game, error) {
	row := l.db.QueryRow(
		`SELECT id, slug, name, runner, directory, config_id FROM games WHERE slug = ?`, slug)
	var g Game
	err := row.Scan(&g.ID, &g.Slug, &g.Name, &g.Runner, &g.Directory, &g.ConfigID)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	if err != nil {
		return Game{}, fmt.Errorf("loading game %q: %w", slug, err)
	}
	return g, nil
}

// List returns every game ordered by name.
func (l *Library) List() ([]Game, error) {
	rows, err := l.db.Query(
		`SELECT id, slug, name, runner, directory, config_id FROM games ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.Runner, &g.Directory, &g.ConfigID); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Remove deletes a game by slug.
func (l *Library) Remove(slug string) error {
	res, err := l.db.Exec(`DELETE FROM games WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("removing game %q: %w", slug, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return nil
}
