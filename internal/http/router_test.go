package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"noc-sync/internal/cloudsync"
	"noc-sync/internal/config"
	"noc-sync/internal/handlers"
	"noc-sync/internal/logging"
	"noc-sync/internal/models"
	"noc-sync/internal/repos"
)

func newCloudStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/sync/clients":
			_ = json.NewEncoder(w).Encode([]string{"acme"})
		case "/api/sync/pops/acme":
			_ = json.NewEncoder(w).Encode([]models.POP{
				{ID: 1, Client: "acme", Filename: "restart.json", Title: "Restart", Data: "{}", CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
			})
		case "/api/sync/analysts":
			_ = json.NewEncoder(w).Encode([]models.Analyst{
				{ID: 7, Name: "Dana", Role: "senior", Phone: "111", Active: true, CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
			})
		case "/api/sync/shifts":
			_ = json.NewEncoder(w).Encode([]models.Shift{
				{ID: 1, Name: "day", StartTime: "08:00", EndTime: "16:00", Color: "#0f0", CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
			})
		case "/api/sync/schedules":
			_ = json.NewEncoder(w).Encode([]models.Schedule{
				{ID: 1, Date: "2024-06-10", ShiftID: 1, AnalystID: 7, CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupRouter(t *testing.T, cfg config.Config, cloudURL string) (http.Handler, *repos.CatalogRepo, *repos.SyncLogRepo) {
	t.Helper()
	store, err := repos.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := logging.New("error")
	catalog := repos.NewCatalogRepo(store)
	runs := repos.NewSyncLogRepo(store)
	client := cloudsync.NewClient(cloudURL, "", 5)
	engine := cloudsync.NewEngine(cfg.Mode, client, catalog, runs, logger)
	sync := handlers.NewSyncHandler(engine, runs)
	export := handlers.NewExportHandler(catalog)
	return NewRouter(cfg, store, sync, export, logger), catalog, runs
}

func TestManualSyncAndHistory(t *testing.T) {
	cloud := newCloudStub(t)
	r, _, _ := setupRouter(t, config.Config{Mode: "local", CloudURL: cloud.URL}, cloud.URL)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/manual", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("manual sync status=%d body=%s", rec.Code, rec.Body.String())
	}
	var result models.SyncResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.RecordsSynced != 4 {
		t.Fatalf("result = %+v", result)
	}
	if result.Details == nil || result.Details.POPs != 1 {
		t.Fatalf("details = %+v", result.Details)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("history status=%d body=%s", rec.Code, rec.Body.String())
	}
	var history []models.SyncRun
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Status != models.RunStatusCompleted {
		t.Fatalf("history = %+v", history)
	}
}

func TestManualSyncReports200OnFailure(t *testing.T) {
	// Cloud URL points nowhere: the pass fails but the endpoint did not.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r, _, _ := setupRouter(t, config.Config{Mode: "local", CloudURL: url}, url)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/manual", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200 even on pass failure", rec.Code)
	}
	var result models.SyncResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Error == "" {
		t.Fatalf("result = %+v", result)
	}
	var raw map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &raw)
	if _, present := raw["records_synced"]; present {
		t.Fatalf("failed result leaks records_synced: %s", rec.Body.String())
	}
}

func TestManualSyncDisabledInCloudMode(t *testing.T) {
	r, _, runs := setupRouter(t, config.Config{Mode: "cloud"}, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/manual", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var result models.SyncResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Message == "" {
		t.Fatalf("result = %+v", result)
	}
	history, err := runs.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("disabled trigger logged a run: %+v", history)
	}
}

func TestHistoryLimitAndOrder(t *testing.T) {
	r, _, runs := setupRouter(t, config.Config{Mode: "local", CloudURL: "http://127.0.0.1:1"}, "http://127.0.0.1:1")

	var last int64
	for i := 0; i < 3; i++ {
		id, err := runs.StartRun("full")
		if err != nil {
			t.Fatal(err)
		}
		if err := runs.CompleteRun(id, i); err != nil {
			t.Fatal(err)
		}
		last = id
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/history", nil))
	var history []models.SyncRun
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].ID != last {
		t.Fatalf("history[0].ID = %d, want most recent %d", history[0].ID, last)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/history?limit=2", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("limited history length = %d, want 2", len(history))
	}
}

func TestBearerTokenGate(t *testing.T) {
	r, _, _ := setupRouter(t, config.Config{Mode: "cloud", AuthToken: "s3cret"}, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/history", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d without token, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sync/history", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d with token, want 200", rec.Code)
	}

	// Health stays open.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rec.Code)
	}
}

func TestExportEndpoints(t *testing.T) {
	r, catalog, _ := setupRouter(t, config.Config{Mode: "cloud"}, "")

	if _, err := catalog.ReplacePOPs([]models.POP{
		{ID: 1, Client: "acme", Filename: "restart.json", Title: "Restart", Data: "{}", CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
		{ID: 2, Client: "globex", Filename: "dns.json", Title: "DNS", Data: "{}", CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.ReplaceAnalysts([]models.Analyst{
		{ID: 7, Name: "Dana", Role: "senior", Phone: "111", Active: true, CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
	}); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/clients", nil))
	var clients []string
	if err := json.Unmarshal(rec.Body.Bytes(), &clients); err != nil {
		t.Fatal(err)
	}
	if len(clients) != 2 {
		t.Fatalf("clients = %v", clients)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/pops/acme", nil))
	var pops []models.POP
	if err := json.Unmarshal(rec.Body.Bytes(), &pops); err != nil {
		t.Fatal(err)
	}
	if len(pops) != 1 || pops[0].Filename != "restart.json" {
		t.Fatalf("pops = %+v", pops)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/analysts", nil))
	var analysts []models.Analyst
	if err := json.Unmarshal(rec.Body.Bytes(), &analysts); err != nil {
		t.Fatal(err)
	}
	if len(analysts) != 1 || !analysts[0].Active {
		t.Fatalf("analysts = %+v", analysts)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/shifts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("shifts status=%d", rec.Code)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/schedules", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("schedules status=%d", rec.Code)
	}
}

func TestTwoNodeRoundTrip(t *testing.T) {
	// The cloud node serves its export API; the local node syncs off it.
	cloudRouter, cloudCatalog, _ := setupRouter(t, config.Config{Mode: "cloud"}, "")
	if _, err := cloudCatalog.ReplacePOPs([]models.POP{
		{ID: 1, Client: "acme", Filename: "restart.json", Title: "Restart", Data: "{}", CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := cloudCatalog.ReplaceAnalysts([]models.Analyst{
		{ID: 7, Name: "Dana", Role: "senior", Phone: "111", Active: true, CreatedAt: "2024-06-01 10:00:00", UpdatedAt: "2024-06-01 10:00:00"},
	}); err != nil {
		t.Fatal(err)
	}

	cloudSrv := httptest.NewServer(cloudRouter)
	defer cloudSrv.Close()

	localRouter, localCatalog, _ := setupRouter(t, config.Config{Mode: "local", CloudURL: cloudSrv.URL}, cloudSrv.URL)

	rec := httptest.NewRecorder()
	localRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/manual", nil))
	var result models.SyncResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.RecordsSynced != 2 {
		t.Fatalf("round trip result = %+v body=%s", result, rec.Body.String())
	}

	pops, err := localCatalog.POPsByClient("acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(pops) != 1 || pops[0].CreatedAt != "2024-06-01 10:00:00" {
		t.Fatalf("mirrored pops = %+v", pops)
	}
}
