package db

import (
	"context"
	"fmt"
	"log"
)

// Cleanup deletes all but the newest keepRuns runs. Routes, stops and
// diagnostics of deleted runs go with them.
func (db *DB) Cleanup(ctx context.Context, keepRuns int) error {
	if keepRuns < 1 {
		keepRuns = 1
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	stale := `SELECT run_id FROM runs ORDER BY generated_at_utc DESC, rowid DESC LIMIT -1 OFFSET ?`

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queries := []struct {
		name  string
		query string
	}{
		{name: "stops", query: "DELETE FROM stops WHERE run_id IN (" + stale + ")"},
		{name: "routes", query: "DELETE FROM routes WHERE run_id IN (" + stale + ")"},
		{name: "diagnostics", query: "DELETE FROM diagnostics WHERE run_id IN (" + stale + ")"},
		{name: "runs", query: "DELETE FROM runs WHERE run_id IN (" + stale + ")"},
	}

	var deletedRuns int64
	for _, q := range queries {
		result, err := tx.ExecContext(ctx, q.query, keepRuns)
		if err != nil {
			return fmt.Errorf("failed to cleanup %s: %w", q.name, err)
		}
		if q.name == "runs" {
			deletedRuns, _ = result.RowsAffected()
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cleanup: %w", err)
	}

	if deletedRuns > 0 {
		log.Printf("Cleanup: deleted %d runs, keeping newest %d", deletedRuns, keepRuns)
	}
	return nil
}
