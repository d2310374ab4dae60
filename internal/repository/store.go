// Package repository persists extraction runs. The store is write-once per
// run: a run row is inserted after its result is assembled and never
// updated, matching the immutable-result lifecycle of the pipeline.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Run is one persisted document-processing run.
type Run struct {
	ID              uuid.UUID
	SourcePath      string
	Mode            string
	Products        int
	Services        int
	Inconsistencies int
	ResultJSON      []byte
	StartedAt       time.Time
	FinishedAt      time.Time
}

type RunStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const runsDDL = `
CREATE TABLE IF NOT EXISTS extraction_runs (
	id              TEXT PRIMARY KEY,
	source_path     TEXT NOT NULL,
	mode            TEXT NOT NULL,
	products        INTEGER NOT NULL,
	services        INTEGER NOT NULL,
	inconsistencies INTEGER NOT NULL,
	result_json     TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	finished_at     TEXT NOT NULL
)`

// Open connects to the run store and ensures the schema exists.
// postgres:// DSNs go through pgx's database/sql driver; anything else is a
// sqlite path (":memory:" for throwaway runs).
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*RunStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if driver == "sqlite" {
		// single writer; also keeps ":memory:" from fanning out into one
		// empty database per pooled connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, runsDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate runs table: %w", err)
	}

	logger.Info("store.open", "driver", driver)
	return &RunStore{db: db, logger: logger}, nil
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts one finished run.
func (s *RunStore) SaveRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_runs
		 (id, source_path, mode, products, services, inconsistencies, result_json, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID.String(), r.SourcePath, r.Mode,
		r.Products, r.Services, r.Inconsistencies,
		string(r.ResultJSON),
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Error("store.save_run_failed", "run_id", r.ID, "err", err)
		return err
	}
	s.logger.Info("store.run_saved", "run_id", r.ID, "source", r.SourcePath, "mode", r.Mode)
	return nil
}

// ListRuns returns all stored runs in insertion-time order.
func (s *RunStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, mode, products, services, inconsistencies, result_json, started_at, finished_at
		 FROM extraction_runs ORDER BY started_at, id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			id       string
			body     string
			started  string
			finished string
		)
		if err := rows.Scan(&id, &r.SourcePath, &r.Mode, &r.Products, &r.Services,
			&r.Inconsistencies, &body, &started, &finished); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("bad run id %q: %w", id, err)
		}
		r.ID = parsed
		r.ResultJSON = []byte(body)
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("bad started_at %q: %w", started, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("bad finished_at %q: %w", finished, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
