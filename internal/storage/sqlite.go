// Package storage provides SQLite-based persistence for finished matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a match ID is unknown.
var ErrNotFound = errors.New("storage: match not found")

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchRecord is one finished (or abandoned) match as seen by this console.
type MatchRecord struct {
	ID        string
	Mode      string
	Role      string // empty outside network matches
	Scored    int    // balls the opponent let through
	Conceded  int    // balls this console let through
	EndReason string // "quit", "match_over", "disconnected", "cancelled"
	Duration  time.Duration
	CreatedAt time.Time
}

// Won reports whether this console let fewer balls through.
func (r MatchRecord) Won() bool {
	return r.Scored > r.Conceded
}

// ModeStats aggregates the history of one mode.
type ModeStats struct {
	Mode       string
	Matches    int
	Wins       int
	Scored     int
	Conceded   int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// DefaultPath returns ~/.brickgame/history.db.
func DefaultPath() string {
	return filepath.Join("~", ".brickgame", "history.db")
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			scored INTEGER NOT NULL DEFAULT 0,
			conceded INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_mode ON matches(mode);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a match and returns its ID. A record without an ID gets
// a fresh UUID; a zero CreatedAt means now.
func (s *Store) SaveMatch(r MatchRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO matches (id, mode, role, scored, conceded, end_reason, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Mode, r.Role, r.Scored, r.Conceded, r.EndReason,
		r.Duration.Milliseconds(), r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save match: %w", err)
	}
	return r.ID, nil
}

const timeLayout = "2006-01-02 15:04:05"

const selectMatch = `SELECT id, mode, role, scored, conceded, end_reason, duration_ms, created_at FROM matches`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var r MatchRecord
	var durationMs int64
	var createdAt any
	if err := row.Scan(&r.ID, &r.Mode, &r.Role, &r.Scored, &r.Conceded, &r.EndReason, &durationMs, &createdAt); err != nil {
		return MatchRecord{}, err
	}
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both driver-parsed and textual datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves one match.
func (s *Store) MatchByID(id string) (MatchRecord, error) {
	r, err := scanMatch(s.db.QueryRow(selectMatch+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, ErrNotFound
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return r, nil
}

// RecentMatches retrieves the newest matches first. An empty mode means all
// modes.
func (s *Store) RecentMatches(mode string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := selectMatch + ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args := []any{limit}
	if mode != "" {
		query = selectMatch + ` WHERE mode = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`
		args = []any{mode, limit}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Stats aggregates the history per mode.
func (s *Store) Stats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), COALESCE(SUM(scored > conceded), 0),
		        COALESCE(SUM(scored), 0), COALESCE(SUM(conceded), 0), MAX(created_at)
		 FROM matches
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var m ModeStats
		var lastPlayed any
		if err := rows.Scan(&m.Mode, &m.Matches, &m.Wins, &m.Scored, &m.Conceded, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.Mode] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearMatches deletes the history of one mode, or everything for "".
func (s *Store) ClearMatches(mode string) error {
	var err error
	if mode == "" {
		_, err = s.db.Exec("DELETE FROM matches")
	} else {
		_, err = s.db.Exec("DELETE FROM matches WHERE mode = ?", mode)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}
