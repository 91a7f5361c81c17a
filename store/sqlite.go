package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/bobbiec/white-elephant/evaluation"
)

var ErrRunNotFound = eris.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	players         INTEGER NOT NULL,
	last_steal_rule INTEGER NOT NULL,
	started_at      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	run_id             TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seed               INTEGER NOT NULL,
	score              INTEGER NOT NULL,
	rank               INTEGER NOT NULL,
	total_options      INTEGER NOT NULL,
	percentile         REAL NOT NULL,
	best               INTEGER NOT NULL,
	percent_of_best    REAL NOT NULL,
	median             REAL NOT NULL,
	percent_of_median  REAL NOT NULL,
	pareto_optimal     INTEGER NOT NULL,
	top_n              TEXT NOT NULL,
	PRIMARY KEY (run_id, seed)
);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// SQLiteStore keeps every run of every variant in one database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, eris.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite db")
	}
	// One connection keeps in-memory databases coherent and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "apply schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRun registers run and returns a writer that inserts its games inside
// one transaction, committed on Close. Only one run may be open at a time.
func (s *SQLiteStore) NewRun(ctx context.Context, run Run) (*SQLiteRunWriter, error) {
	if strings.TrimSpace(run.ID) == "" {
		return nil, eris.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "begin run")
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, players, last_steal_rule, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Players, run.LastStealRule, toMillis(run.StartedAt),
	)
	if err != nil {
		_ = tx.Rollback()
		return nil, eris.Wrapf(err, "insert run %s", run.ID)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO games (
		   run_id, seed, score, rank, total_options, percentile, best,
		   percent_of_best, median, percent_of_median, pareto_optimal, top_n
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return nil, eris.Wrap(err, "prepare game insert")
	}

	return &SQLiteRunWriter{store: s, run: run, tx: tx, stmt: stmt}, nil
}

// SQLiteRunWriter is the RecordWriter for one run
type SQLiteRunWriter struct {
	store     *SQLiteStore
	run       Run
	tx        *sql.Tx
	stmt      *sql.Stmt
	ownsStore bool
	closed    bool
}

func (w *SQLiteRunWriter) Write(ctx context.Context, s evaluation.Stats) error {
	if w.closed {
		return ErrClosed
	}

	topN, err := json.Marshal(s.TopN)
	if err != nil {
		return eris.Wrap(err, "marshal top_n")
	}

	_, err = w.stmt.ExecContext(ctx,
		w.run.ID, s.Seed, s.Score, s.Rank, s.TotalOptions, s.Percentile, s.Best,
		s.PercentOfBest, s.Median, s.PercentOfMedian, s.ParetoOptimal, string(topN),
	)
	if err != nil {
		return eris.Wrapf(err, "insert seed %d", s.Seed)
	}
	return nil
}

// Close commits the run
func (w *SQLiteRunWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_ = w.stmt.Close()
	err := w.tx.Commit()
	if err != nil {
		err = eris.Wrapf(err, "commit run %s", w.run.ID)
	}
	if w.ownsStore {
		if cerr := w.store.Close(); err == nil && cerr != nil {
			err = eris.Wrap(cerr, "close sqlite db")
		}
	}
	return err
}

// Runs lists stored runs, oldest first
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, players, last_steal_rule, started_at FROM runs ORDER BY started_at, players, last_steal_rule DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started int64
		if err := rows.Scan(&run.ID, &run.Players, &run.LastStealRule, &started); err != nil {
			return nil, eris.Wrap(err, "scan run")
		}
		run.StartedAt = fromMillis(started)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate runs")
	}
	return runs, nil
}

// Games returns a run's records in seed order
func (s *SQLiteStore) Games(ctx context.Context, runID string) ([]evaluation.Stats, error) {
	var run Run
	err := s.db.QueryRowContext(ctx,
		`SELECT players, last_steal_rule FROM runs WHERE id = ?`, runID,
	).Scan(&run.Players, &run.LastStealRule)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrRunNotFound, "%s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "load run %s", runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seed, score, rank, total_options, percentile, best, percent_of_best,
		        median, percent_of_median, pareto_optimal, top_n
		 FROM games WHERE run_id = ? ORDER BY seed`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "list games for %s", runID)
	}
	defer rows.Close()

	var games []evaluation.Stats
	for rows.Next() {
		st := evaluation.Stats{PlayerCount: run.Players, LastStealRule: run.LastStealRule}
		var topN string
		if err := rows.Scan(&st.Seed, &st.Score, &st.Rank, &st.TotalOptions, &st.Percentile, &st.Best,
			&st.PercentOfBest, &st.Median, &st.PercentOfMedian, &st.ParetoOptimal, &topN); err != nil {
			return nil, eris.Wrap(err, "scan game")
		}
		if err := json.Unmarshal([]byte(topN), &st.TopN); err != nil {
			return nil, eris.Wrapf(err, "decode top_n for seed %d", st.Seed)
		}
		games = append(games, st)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate games")
	}
	return games, nil
}

// Ranks returns the rank column for a run and its option count
func (s *SQLiteStore) Ranks(ctx context.Context, runID string) ([]int, int, error) {
	games, err := s.Games(ctx, runID)
	if err != nil {
		return nil, 0, err
	}
	ranks := make([]int, len(games))
	total := 0
	for i, g := range games {
		ranks[i] = g.Rank
		total = g.TotalOptions
	}
	return ranks, total, nil
}
