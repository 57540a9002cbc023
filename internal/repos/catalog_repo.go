package repos

import (
	"database/sql"
	"fmt"

	"noc-sync/internal/models"
)

// CatalogRepo owns the four mirrored tables: full-replace writers for the
// sync engine and read queries for the export endpoints.
type CatalogRepo struct {
	store *Store
}

func NewCatalogRepo(store *Store) *CatalogRepo {
	return &CatalogRepo{store: store}
}

// ReplacePOPs swaps the entire pops table for the given rows in one
// transaction and returns the number of rows inserted. Remote ids and
// timestamps are stored verbatim.
func (r *CatalogRepo) ReplacePOPs(pops []models.POP) (int, error) {
	count := 0
	err := r.store.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM pops`); err != nil {
			return err
		}
		for _, p := range pops {
			_, err := tx.Exec(`
				INSERT INTO pops (id, client, filename, title, category, icon, data, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, p.ID, p.Client, p.Filename, p.Title, p.Category, p.Icon, p.Data, p.CreatedAt, p.UpdatedAt)
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CatalogRepo) ReplaceAnalysts(analysts []models.Analyst) (int, error) {
	count := 0
	err := r.store.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM analysts`); err != nil {
			return err
		}
		for _, a := range analysts {
			_, err := tx.Exec(`
				INSERT INTO analysts (id, name, role, phone, email, active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, a.ID, a.Name, a.Role, a.Phone, a.Email, a.Active, a.CreatedAt, a.UpdatedAt)
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CatalogRepo) ReplaceShifts(shifts []models.Shift) (int, error) {
	count := 0
	err := r.store.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM shifts`); err != nil {
			return err
		}
		for _, s := range shifts {
			_, err := tx.Exec(`
				INSERT INTO shifts (id, name, start_time, end_time, color, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, s.ID, s.Name, s.StartTime, s.EndTime, s.Color, s.CreatedAt, s.UpdatedAt)
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CatalogRepo) ReplaceSchedules(schedules []models.Schedule) (int, error) {
	count := 0
	err := r.store.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM schedules`); err != nil {
			return err
		}
		for _, s := range schedules {
			_, err := tx.Exec(`
				INSERT INTO schedules (id, date, shift_id, analyst_id, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, s.ID, s.Date, s.ShiftID, s.AnalystID, s.CreatedAt, s.UpdatedAt)
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Clients lists the distinct client identifiers present in the pops table.
func (r *CatalogRepo) Clients() ([]string, error) {
	rows, err := r.store.db.Query(`SELECT DISTINCT client FROM pops ORDER BY client`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *CatalogRepo) POPsByClient(client string) ([]models.POP, error) {
	rows, err := r.store.db.Query(`
		SELECT id, client, filename, title, category, icon, data, created_at, updated_at
		FROM pops WHERE client = ? ORDER BY title
	`, client)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pops := make([]models.POP, 0)
	for rows.Next() {
		var p models.POP
		if err := rows.Scan(&p.ID, &p.Client, &p.Filename, &p.Title, &p.Category, &p.Icon, &p.Data, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pops = append(pops, p)
	}
	return pops, rows.Err()
}

func (r *CatalogRepo) Analysts() ([]models.Analyst, error) {
	rows, err := r.store.db.Query(`
		SELECT id, name, role, phone, email, active, created_at, updated_at
		FROM analysts ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analysts := make([]models.Analyst, 0)
	for rows.Next() {
		var a models.Analyst
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &a.Phone, &a.Email, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		analysts = append(analysts, a)
	}
	return analysts, rows.Err()
}

func (r *CatalogRepo) Shifts() ([]models.Shift, error) {
	rows, err := r.store.db.Query(`
		SELECT id, name, start_time, end_time, color, created_at, updated_at
		FROM shifts ORDER BY start_time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]models.Shift, 0)
	for rows.Next() {
		var s models.Shift
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.Color, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func (r *CatalogRepo) Schedules() ([]models.Schedule, error) {
	rows, err := r.store.db.Query(`
		SELECT id, date, shift_id, analyst_id, created_at, updated_at
		FROM schedules ORDER BY date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]models.Schedule, 0)
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.Date, &s.ShiftID, &s.AnalystID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// CountRows is a test/debug helper for asserting replace outcomes.
func (r *CatalogRepo) CountRows(table string) (int, error) {
	var n int
	switch table {
	case "pops", "analysts", "shifts", "schedules":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	err := r.store.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n)
	return n, err
}
