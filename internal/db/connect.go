package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:quizsheets.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizsheets?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// single writer connection for sqlite
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  course TEXT NOT NULL,
  year INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE (name, course, year)
);

CREATE TABLE IF NOT EXISTS authors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  initials TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_authors (
  id TEXT PRIMARY KEY,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
  author_id TEXT NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
  file_path TEXT NOT NULL,
  template TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE (quiz_id, author_id, file_path)
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  quiz_author_id TEXT NOT NULL REFERENCES quiz_authors(id) ON DELETE CASCADE,
  kind TEXT NOT NULL,
  row_no INTEGER NOT NULL,
  sheet_row INTEGER NOT NULL,
  course TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  options_json TEXT NOT NULL,
  weight_true REAL,
  weight_false REAL
);

CREATE TABLE IF NOT EXISTS quiz_errors (
  id TEXT PRIMARY KEY,
  quiz_author_id TEXT REFERENCES quiz_authors(id) ON DELETE CASCADE,
  question_id TEXT,
  row_no INTEGER NOT NULL,
  description TEXT NOT NULL,
  file_path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_questions_qa ON questions(quiz_author_id);
CREATE INDEX IF NOT EXISTS idx_quiz_errors_qa ON quiz_errors(quiz_author_id);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  course TEXT NOT NULL,
  year INTEGER NOT NULL,
  created_at BIGINT NOT NULL,
  UNIQUE (name, course, year)
);

CREATE TABLE IF NOT EXISTS authors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  initials TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_authors (
  id TEXT PRIMARY KEY,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
  author_id TEXT NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
  file_path TEXT NOT NULL,
  template TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  UNIQUE (quiz_id, author_id, file_path)
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  quiz_author_id TEXT NOT NULL REFERENCES quiz_authors(id) ON DELETE CASCADE,
  kind TEXT NOT NULL,
  row_no INTEGER NOT NULL,
  sheet_row INTEGER NOT NULL,
  course TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  options_json TEXT NOT NULL,
  weight_true DOUBLE PRECISION,
  weight_false DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS quiz_errors (
  id TEXT PRIMARY KEY,
  quiz_author_id TEXT REFERENCES quiz_authors(id) ON DELETE CASCADE,
  question_id TEXT,
  row_no INTEGER NOT NULL,
  description TEXT NOT NULL,
  file_path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_questions_qa ON questions(quiz_author_id);
CREATE INDEX IF NOT EXISTS idx_quiz_errors_qa ON quiz_errors(quiz_author_id);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
