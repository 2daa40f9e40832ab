// Package client consumes the content API. The site hydrates itself once
// per load through Load, which fetches all six collections in parallel and
// returns them as a single snapshot; the admin editor uses the
// per-collection calls and bypasses the snapshot entirely.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bdimitrov/portfolio-api/internal/models"
)

// Client talks to a running content API service.
type Client struct {
	baseURL string
	httpc   *http.Client

	// Token, when set, is sent as a bearer token on write calls. Needed
	// only when the service runs with an admin token configured.
	Token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Snapshot is one immutable aggregate of the six collections. Callers must
// not mutate it; Refresh produces a new one instead.
type Snapshot struct {
	Config       map[string]json.RawMessage
	Projects     []models.Project
	JournalPosts []models.JournalPost
	Experience   []models.Experience
	Timeline     []models.TimelineEntry
	Photos       []models.Photo
}

// Load fetches all six collections in parallel and waits for every fetch to
// settle. A failed config fetch is reported as a connectivity error; any
// other failure also fails the whole load, so consumers never render a
// partial snapshot.
func (c *Client) Load(ctx context.Context) (*Snapshot, error) {
	var (
		snap Snapshot
		wg   sync.WaitGroup

		cfgErr, projErr, jpErr, expErr, timeErr, photoErr error
	)

	wg.Add(6)
	go func() {
		defer wg.Done()
		cfgErr = c.getJSON(ctx, "/api/config", &snap.Config)
	}()
	go func() {
		defer wg.Done()
		projErr = c.getJSON(ctx, "/api/projects", &snap.Projects)
	}()
	go func() {
		defer wg.Done()
		jpErr = c.getJSON(ctx, "/api/journal", &snap.JournalPosts)
	}()
	go func() {
		defer wg.Done()
		expErr = c.getJSON(ctx, "/api/experience", &snap.Experience)
	}()
	go func() {
		defer wg.Done()
		timeErr = c.getJSON(ctx, "/api/timeline", &snap.Timeline)
	}()
	go func() {
		defer wg.Done()
		photoErr = c.getJSON(ctx, "/api/photos", &snap.Photos)
	}()
	wg.Wait()

	if cfgErr != nil {
		return nil, fmt.Errorf("failed to connect to backend API: %w", cfgErr)
	}
	for _, err := range []error{projErr, jpErr, expErr, timeErr, photoErr} {
		if err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

// Refresh re-runs the full fetch set. There is no partial or incremental
// refresh; the returned snapshot replaces the previous one wholesale.
func (c *Client) Refresh(ctx context.Context) (*Snapshot, error) {
	return c.Load(ctx)
}

// --- Per-collection reads ---

func (c *Client) Config(ctx context.Context) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	err := c.getJSON(ctx, "/api/config", &out)
	return out, err
}

func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := c.getJSON(ctx, "/api/projects", &out)
	return out, err
}

func (c *Client) JournalPosts(ctx context.Context) ([]models.JournalPost, error) {
	var out []models.JournalPost
	err := c.getJSON(ctx, "/api/journal", &out)
	return out, err
}

func (c *Client) Experience(ctx context.Context) ([]models.Experience, error) {
	var out []models.Experience
	err := c.getJSON(ctx, "/api/experience", &out)
	return out, err
}

func (c *Client) Timeline(ctx context.Context) ([]models.TimelineEntry, error) {
	var out []models.TimelineEntry
	err := c.getJSON(ctx, "/api/timeline", &out)
	return out, err
}

func (c *Client) Photos(ctx context.Context) ([]models.Photo, error) {
	var out []models.Photo
	err := c.getJSON(ctx, "/api/photos", &out)
	return out, err
}

// --- Admin writes ---

func (c *Client) PutConfigValue(ctx context.Context, id string, value json.RawMessage) error {
	return c.write(ctx, http.MethodPut, "/api/config/"+id, value)
}

func (c *Client) PutProject(ctx context.Context, p models.Project) error {
	return c.writeJSON(ctx, http.MethodPut, "/api/projects/"+p.ID, p)
}

func (c *Client) PostJournalPost(ctx context.Context, p models.JournalPost) error {
	return c.writeJSON(ctx, http.MethodPost, "/api/journal", p)
}

func (c *Client) PutJournalPost(ctx context.Context, p models.JournalPost) error {
	return c.writeJSON(ctx, http.MethodPut, "/api/journal/"+p.ID, p)
}

func (c *Client) PutExperience(ctx context.Context, e models.Experience) error {
	return c.writeJSON(ctx, http.MethodPut, "/api/experience/"+e.ID, e)
}

func (c *Client) PutTimelineEntry(ctx context.Context, t models.TimelineEntry) error {
	return c.writeJSON(ctx, http.MethodPut, "/api/timeline/"+t.Year, t)
}

func (c *Client) PutPhoto(ctx context.Context, p models.Photo) error {
	return c.writeJSON(ctx, http.MethodPut, "/api/photos/"+p.ID, p)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.write(ctx, http.MethodDelete, "/api/projects/"+id, nil)
}

func (c *Client) DeleteJournalPost(ctx context.Context, id string) error {
	return c.write(ctx, http.MethodDelete, "/api/journal/"+id, nil)
}

func (c *Client) DeleteExperience(ctx context.Context, id string) error {
	return c.write(ctx, http.MethodDelete, "/api/experience/"+id, nil)
}

func (c *Client) DeleteTimelineEntry(ctx context.Context, year string) error {
	return c.write(ctx, http.MethodDelete, "/api/timeline/"+year, nil)
}

func (c *Client) DeletePhoto(ctx context.Context, id string) error {
	return c.write(ctx, http.MethodDelete, "/api/photos/"+id, nil)
}

// --- Transport helpers ---

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) writeJSON(ctx context.Context, method, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return c.write(ctx, method, path, body)
}

func (c *Client) write(ctx context.Context, method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(path, resp)
	}
	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if !result.Success {
		return fmt.Errorf("%s %s: server did not report success", method, path)
	}
	return nil
}

// apiError turns a non-200 response into an error, preferring the service's
// own {"error": ...} envelope when one is present.
func apiError(path string, resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		return fmt.Errorf("%s: %s (status %d)", path, envelope.Error, resp.StatusCode)
	}
	return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
}
