package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/curator/internal/ports/secondary"
)

// IndexRepository implements secondary.IndexRepository with SQLite.
type IndexRepository struct {
	db *sql.DB
}

// NewIndexRepository creates a new SQLite index snapshot repository.
func NewIndexRepository(db *sql.DB) *IndexRepository {
	return &IndexRepository{db: db}
}

// ReplaceSnapshot atomically swaps the stored snapshot for a fresh scan.
func (r *IndexRepository) ReplaceSnapshot(ctx context.Context, records []*secondary.IndexRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM index_snapshot"); err != nil {
		return fmt.Errorf("failed to clear index snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO index_snapshot (path_key, path, remote_id, registered_at, refreshed_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err := stmt.ExecContext(ctx, record.PathKey, record.Path, record.RemoteID, record.RegisteredAt)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot row %s: %w", record.PathKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot replace: %w", err)
	}

	return nil
}

// LoadSnapshot retrieves every stored registration in its original
// registration order, so callers replaying the rows rebuild the same
// index, duplicate groups and primaries included.
func (r *IndexRepository) LoadSnapshot(ctx context.Context) ([]*secondary.IndexRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT path_key, path, remote_id, registered_at, refreshed_at
		 FROM index_snapshot ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load index snapshot: %w", err)
	}
	defer rows.Close()

	var records []*secondary.IndexRecord
	for rows.Next() {
		var (
			registeredAt time.Time
			refreshedAt  sql.NullTime
		)

		record := &secondary.IndexRecord{}
		err := rows.Scan(&record.PathKey, &record.Path, &record.RemoteID, &registeredAt, &refreshedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		record.RegisteredAt = registeredAt.Format(time.RFC3339)
		if refreshedAt.Valid {
			record.RefreshedAt = refreshedAt.Time.Format(time.RFC3339)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// Register upserts a single registration, for incremental updates
// between full scans (e.g. after the executor creates a folder). A new
// remote ID at a known path adds a row rather than replacing one.
func (r *IndexRepository) Register(ctx context.Context, record *secondary.IndexRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO index_snapshot (path_key, path, remote_id, registered_at, refreshed_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(path_key, remote_id) DO UPDATE SET
		   path = excluded.path,
		   refreshed_at = CURRENT_TIMESTAMP`,
		record.PathKey, record.Path, record.RemoteID, record.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to register folder %s: %w", record.Path, err)
	}
	return nil
}

// Count returns the number of folders in the stored snapshot.
func (r *IndexRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_snapshot").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count index snapshot: %w", err)
	}
	return n, nil
}

// Ensure IndexRepository implements the interface
var _ secondary.IndexRepository = (*IndexRepository)(nil)
