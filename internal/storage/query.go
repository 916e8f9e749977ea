package storage

import (
	"fmt"
	"time"
)

// RunSummary is one recorded analysis run, as listed by --history.
type RunSummary struct {
	ID             int64
	TracePath      string
	AnalyzedAt     time.Time
	TotalEvents    int
	CompleteEvents int
	DistinctOps    int
	MemoryEvents   int
	Bottlenecks    int
}

// RecentRuns lists the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, trace_path, analyzed_at, total_events, complete_events, distinct_ops, memory_events, bottlenecks
		FROM runs
		ORDER BY analyzed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var (
			r  RunSummary
			ts string
		)
		if err := rows.Scan(&r.ID, &r.TracePath, &ts, &r.TotalEvents, &r.CompleteEvents,
			&r.DistinctOps, &r.MemoryEvents, &r.Bottlenecks); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			r.AnalyzedAt = parsed
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}
