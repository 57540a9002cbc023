package repos

// The four mirrored tables plus the sync run log. Mirrored timestamps are
// TEXT: the cloud node assigned them and they are stored verbatim.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS pops (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client TEXT NOT NULL,
		filename TEXT NOT NULL,
		title TEXT NOT NULL,
		category TEXT,
		icon TEXT,
		data TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now')),
		UNIQUE(client, filename)
	)`,

	`CREATE TABLE IF NOT EXISTS analysts (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,

	`CREATE TABLE IF NOT EXISTS shifts (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		color TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		shift_id INTEGER NOT NULL,
		analyst_id INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now')),
		FOREIGN KEY (shift_id) REFERENCES shifts(id) ON DELETE CASCADE,
		FOREIGN KEY (analyst_id) REFERENCES analysts(id) ON DELETE CASCADE,
		UNIQUE(date, shift_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sync_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sync_type TEXT NOT NULL,
		status TEXT NOT NULL,
		records_synced INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		started_at DATETIME NOT NULL,
		completed_at DATETIME
	)`,

	`CREATE INDEX IF NOT EXISTS idx_pops_client ON pops(client)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules(date)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_shift ON schedules(shift_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_analyst ON schedules(analyst_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_log_started ON sync_log(started_at)`,
}
