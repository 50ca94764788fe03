package storage

import "fmt"

// runMigrations executes database schema migrations in order.
func (s *Store) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.currentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			s.log.Debug("running migration", "version", m.version, "name", m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version); err != nil {
				return err
			}
		}
	}

	return nil
}

type migration struct {
	version int
	name    string
	up      func() error
}

func (s *Store) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

func (s *Store) currentMigrationVersion() (int, error) {
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (s *Store) setMigrationVersion(version int) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		version, fmt.Sprintf("migration_%d", version))
	return err
}

// migration001InitialSchema creates the catalog and transition tables.
func (s *Store) migration001InitialSchema() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS catalog_entries (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			library TEXT NOT NULL DEFAULT '',
			vector TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create catalog_entries table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_catalog_entries_name
		ON catalog_entries(name)
	`); err != nil {
		return fmt.Errorf("failed to create catalog name index: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS markov_transitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			ord INTEGER NOT NULL,
			state TEXT NOT NULL,
			next TEXT NOT NULL,
			count INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create markov_transitions table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_markov_transitions_state
		ON markov_transitions(kind, ord, state)
	`); err != nil {
		return fmt.Errorf("failed to create transition state index: %w", err)
	}

	return nil
}
