package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/workshop/pkg/models"
	"github.com/garnizeh/workshop/pkg/repository"
)

func appendHistory(ctx context.Context, tx *sql.Tx, jobID, status string, notes *string, changedBy, ts string) error {
	var by any
	if changedBy != "" {
		by = changedBy
	}

	_, err := tx.ExecContext(ctx, `INSERT INTO repair_status_history (job_id, status, notes, changed_by, changed_at) VALUES (?, ?, ?, ?, ?)`, jobID, status, notes, by, ts)
	if err != nil {
		return fmt.Errorf("append history for %s: %w", jobID, err)
	}
	return nil
}

// ListHistory returns the status history of a job, oldest first.
func (r *SQLiteRepo) ListHistory(ctx context.Context, jobID string) ([]models.StatusHistoryEntry, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, job_id, status, notes, changed_by, changed_at FROM repair_status_history WHERE job_id = ? ORDER BY changed_at ASC, id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := []models.StatusHistoryEntry{}
	for rows.Next() {
		var (
			h         models.StatusHistoryEntry
			notes, by sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.JobID, &h.Status, &notes, &by, &h.ChangedAt); err != nil {
			return nil, err
		}
		h.Notes = nullString(notes)
		h.ChangedBy = nullString(by)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		var count int
		if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM repair_jobs WHERE job_id = ?`, jobID).Scan(&count); err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, repository.ErrNotFound
		}
	}

	return out, nil
}
