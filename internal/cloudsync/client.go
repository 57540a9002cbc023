package cloudsync

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"noc-sync/internal/models"
)

// Resource tags used in FetchError and run log messages.
const (
	ResourcePOPs      = "pops"
	ResourceAnalysts  = "analysts"
	ResourceShifts    = "shifts"
	ResourceSchedules = "schedules"
)

// FetchError marks a failed remote read with the resource type it was
// fetching. Transport failures and non-2xx responses both land here; the
// engine treats them identically.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client reads the cloud node's sync-export endpoints. Read-only, no
// retries; a failed call fails the whole resource step.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	timeout    time.Duration
}

func NewClient(baseURL, token string, timeoutSec int) *Client {
	if timeoutSec <= 0 {
		timeoutSec = 30
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
	}
	return &Client{
		httpClient: &http.Client{Transport: transport},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		timeout:    time.Duration(timeoutSec) * time.Second,
	}
}

func (c *Client) Clients(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, ResourcePOPs, "/api/sync/clients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) POPs(ctx context.Context, client string) ([]models.POP, error) {
	var out []models.POP
	if err := c.get(ctx, ResourcePOPs, "/api/sync/pops/"+url.PathEscape(client), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Analysts(ctx context.Context) ([]models.Analyst, error) {
	var out []models.Analyst
	if err := c.get(ctx, ResourceAnalysts, "/api/sync/analysts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Shifts(ctx context.Context) ([]models.Shift, error) {
	var out []models.Shift
	if err := c.get(ctx, ResourceShifts, "/api/sync/shifts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Schedules(ctx context.Context) ([]models.Schedule, error) {
	var out []models.Schedule
	if err := c.get(ctx, ResourceSchedules, "/api/sync/schedules", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, resource, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if strings.TrimSpace(eb.Error) != "" {
			return &FetchError{Resource: resource, Err: fmt.Errorf("cloud responded %d: %s", resp.StatusCode, eb.Error)}
		}
		return &FetchError{Resource: resource, Err: fmt.Errorf("cloud responded %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Resource: resource, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
