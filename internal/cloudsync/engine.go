package cloudsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"noc-sync/internal/logging"
	"noc-sync/internal/models"
	"noc-sync/internal/repos"
)

// ModeLocal nodes mirror the cloud; ModeCloud nodes are authoritative and
// never sync.
const (
	ModeCloud = "cloud"
	ModeLocal = "local"
)

// Status is the in-memory view of the engine, served by the status
// endpoint. The durable record of every pass lives in sync_log.
type Status struct {
	Mode          string     `json:"mode"`
	Running       bool       `json:"running"`
	LastSuccessAt *time.Time `json:"last_success_at"`
	LastRecords   int        `json:"last_records"`
	LastError     string     `json:"last_error"`
}

// Engine executes one full synchronization pass: for each resource type, in
// the fixed order POPs, Analysts, Shifts, Schedules, fetch the full remote
// collection and replace the local table in a single transaction. Schedules
// reference analysts and shifts by id, so parents are always mirrored first.
type Engine struct {
	mode    string
	client  *Client
	catalog *repos.CatalogRepo
	runs    *repos.SyncLogRepo
	logger  *logging.Logger

	// Single-flight guard: a pass that loses TryLock is rejected, not
	// queued. Concurrent passes would interleave table replaces.
	inflight sync.Mutex

	mu     sync.RWMutex
	status Status
}

func NewEngine(mode string, client *Client, catalog *repos.CatalogRepo, runs *repos.SyncLogRepo, logger *logging.Logger) *Engine {
	return &Engine{
		mode:    mode,
		client:  client,
		catalog: catalog,
		runs:    runs,
		logger:  logger,
		status:  Status{Mode: mode},
	}
}

// Sync runs one pass and always returns a structured result; it never
// panics and never returns a Go error to the caller. A node that is not in
// local mode gets a disabled result with no run record and no remote calls.
func (e *Engine) Sync(ctx context.Context) *models.SyncResult {
	if e.mode != ModeLocal {
		e.logger.Infof("sync skipped: node mode is %q", e.mode)
		return &models.SyncResult{Success: false, Message: "sync disabled in " + e.mode + " mode"}
	}
	if !e.inflight.TryLock() {
		e.logger.Warnf("sync rejected: a pass is already running")
		return &models.SyncResult{Success: false, Message: "sync already running"}
	}
	defer e.inflight.Unlock()

	e.setRunning(true)
	defer e.setRunning(false)

	runID, err := e.runs.StartRun("full")
	if err != nil {
		msg := fmt.Sprintf("start run record: %v", err)
		e.logger.Errorf("sync aborted: %s", msg)
		e.markError(msg)
		return &models.SyncResult{Success: false, Error: msg}
	}

	e.logger.Infof("sync pass %d started", runID)

	details := &models.SyncDetails{}
	steps := []struct {
		resource string
		run      func(context.Context) (int, error)
		dst      *int
	}{
		{ResourcePOPs, e.syncPOPs, &details.POPs},
		{ResourceAnalysts, e.syncAnalysts, &details.Analysts},
		{ResourceShifts, e.syncShifts, &details.Shifts},
		{ResourceSchedules, e.syncSchedules, &details.Schedules},
	}

	total := 0
	for _, step := range steps {
		n, err := step.run(ctx)
		if err != nil {
			// Earlier resource types are already committed and stay;
			// later ones are simply not reached this pass.
			msg := err.Error()
			e.logger.Errorf("sync pass %d failed: %s", runID, msg)
			if logErr := e.runs.FailRun(runID, msg); logErr != nil {
				e.logger.Errorf("record sync failure: %v", logErr)
			}
			e.markError(msg)
			return &models.SyncResult{Success: false, Error: msg}
		}
		*step.dst = n
		total += n
		e.logger.Infof("sync pass %d: %d %s", runID, n, step.resource)
	}

	if err := e.runs.CompleteRun(runID, total); err != nil {
		msg := fmt.Sprintf("complete run record: %v", err)
		e.logger.Errorf("sync pass %d: %s", runID, msg)
		e.markError(msg)
		return &models.SyncResult{Success: false, Error: msg}
	}

	e.logger.Infof("sync pass %d completed: %d records", runID, total)
	e.markSuccess(total)
	return &models.SyncResult{
		Success:       true,
		RecordsSynced: total,
		Details:       details,
	}
}

func (e *Engine) syncPOPs(ctx context.Context) (int, error) {
	clients, err := e.client.Clients(ctx)
	if err != nil {
		return 0, err
	}
	all := make([]models.POP, 0)
	for _, client := range clients {
		pops, err := e.client.POPs(ctx, client)
		if err != nil {
			return 0, err
		}
		all = append(all, pops...)
	}
	n, err := e.catalog.ReplacePOPs(all)
	if err != nil {
		return 0, fmt.Errorf("apply %s: %w", ResourcePOPs, err)
	}
	return n, nil
}

func (e *Engine) syncAnalysts(ctx context.Context) (int, error) {
	analysts, err := e.client.Analysts(ctx)
	if err != nil {
		return 0, err
	}
	n, err := e.catalog.ReplaceAnalysts(analysts)
	if err != nil {
		return 0, fmt.Errorf("apply %s: %w", ResourceAnalysts, err)
	}
	return n, nil
}

func (e *Engine) syncShifts(ctx context.Context) (int, error) {
	shifts, err := e.client.Shifts(ctx)
	if err != nil {
		return 0, err
	}
	n, err := e.catalog.ReplaceShifts(shifts)
	if err != nil {
		return 0, fmt.Errorf("apply %s: %w", ResourceShifts, err)
	}
	return n, nil
}

func (e *Engine) syncSchedules(ctx context.Context) (int, error) {
	schedules, err := e.client.Schedules(ctx)
	if err != nil {
		return 0, err
	}
	n, err := e.catalog.ReplaceSchedules(schedules)
	if err != nil {
		return 0, fmt.Errorf("apply %s: %w", ResourceSchedules, err)
	}
	return n, nil
}

func (e *Engine) StatusSnapshot() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *Engine) setRunning(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.Running = v
}

func (e *Engine) markSuccess(records int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now().UTC()
	e.status.LastSuccessAt = &now
	e.status.LastRecords = records
	e.status.LastError = ""
}

func (e *Engine) markError(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.LastError = msg
}
