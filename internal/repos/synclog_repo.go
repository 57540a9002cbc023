package repos

import (
	"database/sql"
	"time"

	"noc-sync/internal/models"
)

// SyncLogRepo maintains the append-only sync run log. Each row is written
// exactly twice: inserted as running, then updated once to completed or
// failed. Nothing here deletes rows.
type SyncLogRepo struct {
	store *Store
}

func NewSyncLogRepo(store *Store) *SyncLogRepo {
	return &SyncLogRepo{store: store}
}

// StartRun inserts a running record and returns its id.
func (r *SyncLogRepo) StartRun(syncType string) (int64, error) {
	res, err := r.store.db.Exec(`
		INSERT INTO sync_log (sync_type, status, started_at)
		VALUES (?, ?, ?)
	`, syncType, models.RunStatusRunning, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SyncLogRepo) CompleteRun(id int64, recordsSynced int) error {
	_, err := r.store.db.Exec(`
		UPDATE sync_log
		SET status = ?, records_synced = ?, completed_at = ?
		WHERE id = ?
	`, models.RunStatusCompleted, recordsSynced, time.Now().UTC(), id)
	return err
}

func (r *SyncLogRepo) FailRun(id int64, errorMessage string) error {
	_, err := r.store.db.Exec(`
		UPDATE sync_log
		SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ?
	`, models.RunStatusFailed, errorMessage, time.Now().UTC(), id)
	return err
}

// History returns the most recent runs, newest started first. started_at
// has second resolution, so id breaks ties.
func (r *SyncLogRepo) History(limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.store.db.Query(`
		SELECT id, sync_type, status, records_synced, error_message, started_at, completed_at
		FROM sync_log
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]models.SyncRun, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun looks up a single run record.
func (r *SyncLogRepo) GetRun(id int64) (*models.SyncRun, error) {
	rows, err := r.store.db.Query(`
		SELECT id, sync_type, status, records_synced, error_message, started_at, completed_at
		FROM sync_log WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanRun(rows)
}

func scanRun(rows *sql.Rows) (*models.SyncRun, error) {
	var (
		run       models.SyncRun
		errMsg    sql.NullString
		completed sql.NullTime
	)
	if err := rows.Scan(&run.ID, &run.SyncType, &run.Status, &run.RecordsSynced, &errMsg, &run.StartedAt, &completed); err != nil {
		return nil, err
	}
	if errMsg.Valid {
		run.ErrorMessage = &errMsg.String
	}
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return &run, nil
}
