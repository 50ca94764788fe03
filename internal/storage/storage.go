/*
Package storage persists the function catalog and trained Markov
transition counts in SQLite.

The database defaults to ~/.markovsuggestor/catalog.db and uses
modernc.org/sqlite (pure Go, CGo-free). If the database cannot be opened
the store disables itself and every operation degrades to a no-op or an
empty result, so a broken disk never takes down a suggestion request.
*/
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/Nika3406/MarkovSuggestor/internal/logger"
	"github.com/Nika3406/MarkovSuggestor/internal/markov"
	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence layer.
type Store struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
	log      *log.Logger
}

// NewStore creates a store at the given path. The directory is created
// on Init.
func NewStore(path string) *Store {
	return &Store{
		dbPath:  path,
		enabled: true,
		log:     logger.New("storage"),
	}
}

// Init opens the database and runs migrations. On failure the store is
// disabled and subsequent operations become no-ops.
func (s *Store) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			s.log.Warn("storage disabled", "err", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			s.log.Warn("storage disabled", "err", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			s.log.Warn("storage disabled", "err", initErr)
			return
		}
	})

	return initErr
}

// Enabled reports whether the store is usable.
func (s *Store) Enabled() bool {
	return s.enabled
}

// Close closes the database connection.
func (s *Store) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}

// ReplaceCatalog swaps the persisted catalog wholesale inside one
// transaction, mirroring the in-memory atomic snapshot swap.
func (s *Store) ReplaceCatalog(entries []catalog.Entry) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM catalog_entries"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO catalog_entries (position, name, description, library, vector)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(i, e.Name, e.Description, e.Library, vectorToJSON(e.Embedding)); err != nil {
			return fmt.Errorf("failed to insert entry %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads the persisted catalog in insertion order. A disabled
// store yields an empty catalog.
func (s *Store) LoadCatalog() ([]catalog.Entry, error) {
	if !s.enabled || s.db == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT name, description, library, vector
		FROM catalog_entries
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		var vectorJSON string
		if err := rows.Scan(&e.Name, &e.Description, &e.Library, &vectorJSON); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		vec, err := jsonToVector(vectorJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to parse vector for %q: %w", e.Name, err)
		}
		e.Embedding = vec
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceTransitions swaps the persisted Markov counts wholesale.
func (s *Store) ReplaceTransitions(transitions []markov.Transition) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM markov_transitions"); err != nil {
		return fmt.Errorf("failed to clear transitions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO markov_transitions (kind, ord, state, next, count)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range transitions {
		if _, err := stmt.Exec(t.Kind, t.Order, t.State, t.Next, t.Count); err != nil {
			return fmt.Errorf("failed to insert transition: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transitions: %w", err)
	}
	return nil
}

// LoadTransitions reads the persisted Markov counts.
func (s *Store) LoadTransitions() ([]markov.Transition, error) {
	if !s.enabled || s.db == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT kind, ord, state, next, count
		FROM markov_transitions
		ORDER BY kind, ord, state, next
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	var transitions []markov.Transition
	for rows.Next() {
		var t markov.Transition
		if err := rows.Scan(&t.Kind, &t.Order, &t.State, &t.Next, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		transitions = append(transitions, t)
	}
	return transitions, rows.Err()
}

func vectorToJSON(vector []float32) string {
	data, err := json.Marshal(vector)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func jsonToVector(jsonStr string) ([]float32, error) {
	var vector []float32
	if err := json.Unmarshal([]byte(jsonStr), &vector); err != nil {
		return nil, err
	}
	return vector, nil
}
