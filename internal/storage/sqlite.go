// Package storage provides SQLite-based persistence for episode results.
// Only the final summary of each episode is kept, never its history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for episode records.
type Store struct {
	db *sql.DB
}

// Episode is the summary of one finished or abandoned episode.
type Episode struct {
	ID        int64
	Scenario  string
	Seed      int64
	Ticks     int
	Reward    float64
	Terminal  bool // false if the run was stopped before the episode ended
	CreatedAt time.Time
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	Scenario   string
	Episodes   int
	BestReward float64
	AvgReward  float64
	AvgTicks   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
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

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			reward REAL NOT NULL,
			terminal INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_scenario ON episodes(scenario);
		CREATE INDEX IF NOT EXISTS idx_episodes_top ON episodes(scenario, reward DESC);
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

// SaveEpisode records an episode summary. ID and CreatedAt are ignored.
// Returns the ID of the inserted record.
func (s *Store) SaveEpisode(e Episode) (int64, error) {
	if e.Scenario == "" {
		return 0, errors.New("storage: episode has no scenario")
	}

	result, err := s.db.Exec(
		"INSERT INTO episodes (scenario, seed, ticks, reward, terminal) VALUES (?, ?, ?, ?, ?)",
		e.Scenario, e.Seed, e.Ticks, e.Reward, e.Terminal,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const episodeColumns = "id, scenario, seed, ticks, reward, terminal, created_at"

// TopEpisodes retrieves the N best episodes of a scenario.
// Results are ordered by reward descending, shorter episodes first on ties.
func (s *Store) TopEpisodes(scenario string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 WHERE scenario = ?
		 ORDER BY reward DESC, ticks ASC, id ASC
		 LIMIT ?`,
		scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	return scanEpisodes(rows)
}

// RecentEpisodes retrieves the most recent episodes across all scenarios.
func (s *Store) RecentEpisodes(limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	return scanEpisodes(rows)
}

// BestReward returns the highest reward recorded for a scenario.
// ok is false if no episodes exist.
func (s *Store) BestReward(scenario string) (best float64, ok bool, err error) {
	var reward sql.NullFloat64
	err = s.db.QueryRow(
		"SELECT MAX(reward) FROM episodes WHERE scenario = ?",
		scenario,
	).Scan(&reward)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best reward: %w", err)
	}

	if !reward.Valid {
		return 0, false, nil
	}
	return reward.Float64, true, nil
}

// Stats retrieves aggregated statistics for a scenario.
func (s *Store) Stats(scenario string) (*ScenarioStats, error) {
	stats := &ScenarioStats{Scenario: scenario}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(reward), 0), COALESCE(AVG(reward), 0),
		        COALESCE(AVG(ticks), 0), MAX(created_at)
		 FROM episodes WHERE scenario = ?`,
		scenario,
	).Scan(&stats.Episodes, &stats.BestReward, &stats.AvgReward, &stats.AvgTicks, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// ClearEpisodes deletes all episodes of a scenario.
func (s *Store) ClearEpisodes(scenario string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE scenario = ?", scenario)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

func scanEpisodes(rows *sql.Rows) ([]Episode, error) {
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var e Episode
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Scenario, &e.Seed, &e.Ticks, &e.Reward, &e.Terminal, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		episodes = append(episodes, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return episodes, nil
}

// parseTime handles the datetime as either time.Time or string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
