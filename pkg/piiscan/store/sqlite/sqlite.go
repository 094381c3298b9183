package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
	"github.com/cognicore/piiscan/pkg/piiscan/store"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	language TEXT NOT NULL,
	created_at TEXT NOT NULL,
	text_length INTEGER NOT NULL,
	entities TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

CREATE TABLE IF NOT EXISTS findings (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	entity_type TEXT NOT NULL,
	start_offset INTEGER NOT NULL,
	end_offset INTEGER NOT NULL,
	score REAL NOT NULL,
	recognizer TEXT,
	context_word TEXT,
	PRIMARY KEY(run_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts a run and its findings in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if err := r.Validate(); err != nil {
		return err
	}

	entities, err := json.Marshal(r.Entities)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, r.ID).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("run %s: %w", r.ID, internalerr.ErrDuplicate)
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	const runStmt = `
INSERT INTO runs (id, language, created_at, text_length, entities)
VALUES (?, ?, ?, ?, ?);
`
	if _, err := tx.ExecContext(ctx, runStmt,
		r.ID,
		r.Language,
		r.CreatedAt.UTC().Format(timeLayout),
		r.TextLength,
		string(entities),
	); err != nil {
		return err
	}

	if err := insertFindings(ctx, tx, r.ID, r.Findings); err != nil {
		return err
	}

	return tx.Commit()
}

func insertFindings(ctx context.Context, tx *sql.Tx, runID string, findings []store.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO findings (run_id, seq, entity_type, start_offset, end_offset, score, recognizer, context_word)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, f := range findings {
		if _, err := stmt.ExecContext(ctx, runID, i, f.EntityType, f.Start, f.End, f.Score, f.Recognizer, f.ContextWord); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, language, created_at, text_length, entities
FROM runs
WHERE id = ?;
`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	r.Findings, err = s.loadFindings(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	return r, nil
}

// ListRuns returns the newest runs first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, language, created_at, text_length, entities
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		runs[i].Findings, err = s.loadFindings(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r        store.Run
		created  string
		entities sql.NullString
	)
	if err := sc.Scan(&r.ID, &r.Language, &created, &r.TextLength, &entities); err != nil {
		return store.Run{}, err
	}
	if parsed, err := time.Parse(timeLayout, created); err == nil {
		r.CreatedAt = parsed
	}
	if entities.Valid && entities.String != "" {
		if err := json.Unmarshal([]byte(entities.String), &r.Entities); err != nil {
			return store.Run{}, fmt.Errorf("decode entities of run %s: %w", r.ID, err)
		}
	}
	return r, nil
}

func (s *sqliteStore) loadFindings(ctx context.Context, runID string) ([]store.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT entity_type, start_offset, end_offset, score, recognizer, context_word
FROM findings
WHERE run_id = ?
ORDER BY seq;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Finding
	for rows.Next() {
		var (
			f          store.Finding
			recognizer sql.NullString
			word       sql.NullString
		)
		if err := rows.Scan(&f.EntityType, &f.Start, &f.End, &f.Score, &recognizer, &word); err != nil {
			return nil, err
		}
		f.Recognizer = recognizer.String
		f.ContextWord = word.String
		out = append(out, f)
	}
	return out, rows.Err()
}
