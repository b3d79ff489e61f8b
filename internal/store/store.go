// Package store is the relational persistence layer: projects, files,
// code blocks, and relationships, backed by SQLite in WAL mode with a
// single-writer discipline, grounded on the teacher's own store package
// idiom (sql.Open DSN flags, Migrate-from-a-DDL-const, per-row Exec
// helpers inside an explicit transaction).
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the project/file/code_block/
// relationship schema.
type Store struct {
	db         *sql.DB
	batchSize  int
	maxRetries int
	retryDelay time.Duration
}

// Options tunes the batch/retry behavior of bulk operations, sourced from
// the configuration document's database.{batch_size,max_retries,retry_delay}
// group. A zero Options value falls back to DefaultBatchSize and the
// package's default retry budget.
type Options struct {
	BatchSize  int
	MaxRetries int
	RetryDelay time.Duration
}

// NewStore opens a SQLite database at dbPath with WAL mode, foreign keys,
// and a busy timeout enabled, matching the "single-writer; readers may run
// concurrently under a reader lock" concurrency model.
func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithOptions(dbPath, Options{})
}

// NewStoreWithOptions is NewStore with explicit batch/retry tuning.
func NewStoreWithOptions(dbPath string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{
		db:         db,
		batchSize:  opts.BatchSize,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	if s.maxRetries <= 0 {
		s.maxRetries = defaultMaxRetryAttempts
	}
	if s.retryDelay <= 0 {
		s.retryDelay = defaultRetryDelay
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for callers that need a raw handle
// (e.g. tests seeding fixtures directly).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the schema and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS projects (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  name        TEXT NOT NULL UNIQUE,
  path        TEXT NOT NULL,
  language    TEXT,
  version     TEXT,
  description TEXT,
  source_file TEXT,
  created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS files (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  project_id   INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  file_path    TEXT NOT NULL,
  content_hash TEXT NOT NULL,
  language     TEXT NOT NULL,
  size         INTEGER,
  unsupported  BOOLEAN NOT NULL DEFAULT 0,
  UNIQUE(project_id, file_path)
);

CREATE TABLE IF NOT EXISTS code_blocks (
  id         INTEGER PRIMARY KEY,
  file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  parent_id  INTEGER REFERENCES code_blocks(id) ON DELETE CASCADE,
  type       TEXT NOT NULL,
  name       TEXT NOT NULL,
  content    TEXT NOT NULL,
  start_line INTEGER NOT NULL,
  end_line   INTEGER NOT NULL,
  start_col  INTEGER NOT NULL,
  end_col    INTEGER NOT NULL,
  properties TEXT
);

CREATE TABLE IF NOT EXISTS relationships (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  source_id      INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  target_id      INTEGER REFERENCES files(id),
  kind           TEXT NOT NULL DEFAULT 'import',
  import_content TEXT
);

CREATE INDEX IF NOT EXISTS idx_files_project_path ON files(project_id, file_path);
CREATE INDEX IF NOT EXISTS idx_files_content_hash ON files(content_hash);
CREATE INDEX IF NOT EXISTS idx_code_blocks_file_id ON code_blocks(file_id);
CREATE INDEX IF NOT EXISTS idx_code_blocks_name ON code_blocks(name);
CREATE INDEX IF NOT EXISTS idx_relationships_source_id ON relationships(source_id);
CREATE INDEX IF NOT EXISTS idx_relationships_target_id ON relationships(target_id);
`
