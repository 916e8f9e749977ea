package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nixlim/prof-top/internal/stats"
)

// Store records completed analysis runs and lists them back.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database and prunes
// runs older than retentionDays. Pruning happens here rather than in a
// background loop because prof-top is a one-shot tool.
func Open(dbPath string, retentionDays int) (*Store, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.pruneOldRuns(retentionDays); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// RecordRun stores one analysis run with its ranked operations and
// returns the run id.
func (s *Store) RecordRun(tracePath string, analyzedAt time.Time, rep stats.Report) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO runs (trace_path, analyzed_at, total_events, complete_events, distinct_ops, memory_events, bottlenecks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, tracePath, analyzedAt.UTC().Format(time.RFC3339), rep.TotalEvents, rep.CompleteEvents,
		rep.DistinctOps, rep.MemoryEvents, len(rep.Bottlenecks))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for rank, op := range rep.TopOps {
		_, err := tx.Exec(`
			INSERT INTO run_ops (run_id, rank, name, count, avg_ms, max_ms, total_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, rank+1, op.Name, op.Count, op.AvgMS, op.MaxMS, op.TotalMS)
		if err != nil {
			return 0, fmt.Errorf("inserting run op %q: %w", op.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

func (s *Store) pruneOldRuns(retentionDays int) error {
	cutoff := time.Now().AddDate(0, 0, -retentionDays).UTC().Format(time.RFC3339)
	if _, err := s.db.Exec("DELETE FROM runs WHERE analyzed_at < ?", cutoff); err != nil {
		return fmt.Errorf("pruning old runs: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
