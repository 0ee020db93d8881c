package results

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/enflow/enflow/internal/engine"
)

//go:embed schema.sql
var schemaSQL string

// Run is one persisted evaluation.
type Run struct {
	ID        uuid.UUID
	CreatedAt time.Time
	ModelPath string
	Usage     *engine.RunUsage
}

// RunInfo is the listing view of a run, without the usage payload.
type RunInfo struct {
	ID        uuid.UUID
	CreatedAt time.Time
	ModelPath string
}

// Store is a SQLite-backed run store. A single writer connection is kept;
// SQLite serializes writes anyway and one connection avoids SQLITE_BUSY.
type Store struct {
	db *sql.DB
}

// Open creates or opens the run store at path. Idempotent: pragmas and
// schema are applied on every open.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to run store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying run store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store. Safe to call more than once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveRun assigns a fresh run ID, persists the usage and returns the ID.
// The whole run goes in one transaction so a partial run is never visible.
func (s *Store) SaveRun(modelPath string, usage *engine.RunUsage) (uuid.UUID, error) {
	id := uuid.New()
	createdAt := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, created_at, model_path) VALUES (?, ?, ?)`,
		id.String(), createdAt.Format(time.RFC3339), modelPath,
	); err != nil {
		return uuid.Nil, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO usage (run_id, consumer, unit, idx, time, usage, valid) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("preparing usage insert: %w", err)
	}
	defer stmt.Close()

	for _, consumer := range usage.Consumers {
		for i := range usage.Times {
			valid := 0
			if consumer.Valid[i] {
				valid = 1
			}
			if _, err := stmt.Exec(
				id.String(), consumer.Name, consumer.Unit, i,
				usage.Times[i].UTC().Format(time.RFC3339), consumer.Usage[i], valid,
			); err != nil {
				return uuid.Nil, fmt.Errorf("inserting usage for %s: %w", consumer.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// LoadRun reads a complete run back.
func (s *Store) LoadRun(id uuid.UUID) (*Run, error) {
	run := &Run{ID: id, Usage: &engine.RunUsage{}}

	var createdAt string
	err := s.db.QueryRow(
		`SELECT created_at, model_path FROM runs WHERE id = ?`, id.String(),
	).Scan(&createdAt, &run.ModelPath)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing run timestamp: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT consumer, unit, idx, time, usage, valid FROM usage WHERE run_id = ? ORDER BY consumer, idx`,
		id.String())
	if err != nil {
		return nil, fmt.Errorf("reading usage: %w", err)
	}
	defer rows.Close()

	byName := map[string]*engine.ConsumerUsage{}
	var order []string
	for rows.Next() {
		var (
			name, unit, ts string
			idx, valid     int
			value          float64
		)
		if err := rows.Scan(&name, &unit, &idx, &ts, &value, &valid); err != nil {
			return nil, fmt.Errorf("scanning usage row: %w", err)
		}
		cu, ok := byName[name]
		if !ok {
			cu = &engine.ConsumerUsage{Name: name, Unit: unit}
			byName[name] = cu
			order = append(order, name)
		}
		cu.Usage = append(cu.Usage, value)
		cu.Valid = append(cu.Valid, valid != 0)

		// The time vector is shared; fill it from the first consumer.
		if len(order) == 1 {
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return nil, fmt.Errorf("parsing usage timestamp: %w", err)
			}
			run.Usage.Times = append(run.Usage.Times, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage rows: %w", err)
	}

	for _, name := range order {
		run.Usage.Consumers = append(run.Usage.Consumers, *byName[name])
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]RunInfo, error) {
	rows, err := s.db.Query(`SELECT id, created_at, model_path FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var idStr, createdAt string
		var info RunInfo
		if err := rows.Scan(&idStr, &createdAt, &info.ModelPath); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if info.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parsing run ID: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
