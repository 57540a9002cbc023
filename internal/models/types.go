package models

import "time"

// Mirrored entities carry their timestamps as wire strings: the cloud node
// assigned them and the local mirror must store them verbatim.

type POP struct {
	ID        int64  `json:"id"`
	Client    string `json:"client"`
	Filename  string `json:"filename"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Icon      string `json:"icon"`
	Data      string `json:"data"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type Analyst struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type Shift struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type Schedule struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	ShiftID   int64  `json:"shift_id"`
	AnalystID int64  `json:"analyst_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Sync run statuses. A run is inserted as running and updated exactly once
// to completed or failed.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

type SyncRun struct {
	ID            int64      `json:"id"`
	SyncType      string     `json:"sync_type"`
	Status        string     `json:"status"`
	RecordsSynced int64      `json:"records_synced"`
	ErrorMessage  *string    `json:"error_message"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// SyncDetails holds the per-resource insert counts of one successful pass.
type SyncDetails struct {
	POPs      int `json:"pops"`
	Analysts  int `json:"analysts"`
	Shifts    int `json:"shifts"`
	Schedules int `json:"schedules"`
}

// SyncResult is what every sync() caller receives, failure included; the
// engine never surfaces a bare error.
type SyncResult struct {
	Success       bool         `json:"success"`
	RecordsSynced int          `json:"records_synced,omitempty"`
	Details       *SyncDetails `json:"details,omitempty"`
	Message       string       `json:"message,omitempty"`
	Error         string       `json:"error,omitempty"`
}
