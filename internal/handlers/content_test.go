package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bdimitrov/portfolio-api/internal/db"
	"github.com/bdimitrov/portfolio-api/internal/middleware"
	"github.com/bdimitrov/portfolio-api/internal/models"
)

func newTestRouter(t *testing.T, guard func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	store, err := db.NewStore(context.Background(), filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := NewContentHandler(store)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.Mount(r, guard)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertSuccess(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected success envelope, got %s", rec.Body.String())
	}
}

func TestPutProjectThenGet(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{
		"title": "Portfolio Site",
		"shortDescription": "short",
		"description": "long",
		"image": "/img/site.png",
		"category": "web",
		"technologies": ["Go", "SQL"],
		"date": "2024-03-01",
		"demoUrl": "https://example.com",
		"featured": true
	}`
	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/projects/site", body))

	rec := doRequest(t, router, http.MethodGet, "/api/projects", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET projects: expected 200, got %d", rec.Code)
	}
	var projects []models.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatalf("Failed to decode projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("Expected 1 project, got %d", len(projects))
	}
	p := projects[0]
	if p.ID != "site" {
		t.Errorf("Expected id from URL, got %q", p.ID)
	}
	if !reflect.DeepEqual(p.Technologies, []string{"Go", "SQL"}) {
		t.Errorf("Technologies not round-tripped as array: %v", p.Technologies)
	}
	if !p.Featured {
		t.Errorf("Expected featured true")
	}
	if p.GithubURL != nil {
		t.Errorf("Expected absent githubUrl omitted, got %v", *p.GithubURL)
	}
}

func TestPutProjectURLKeyAuthoritative(t *testing.T) {
	router := newTestRouter(t, nil)

	// The body claims a different id; the path segment must win.
	body := `{"id": "body-id", "title": "T"}`
	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/projects/url-id", body))

	rec := doRequest(t, router, http.MethodGet, "/api/projects", "")
	var projects []models.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatalf("Failed to decode projects: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "url-id" {
		t.Fatalf("Expected one project keyed by url-id, got %+v", projects)
	}
}

func TestPutLastWriterWins(t *testing.T) {
	router := newTestRouter(t, nil)

	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/projects/site", `{"title": "First"}`))
	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/projects/site", `{"title": "Second"}`))

	rec := doRequest(t, router, http.MethodGet, "/api/projects", "")
	var projects []models.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatalf("Failed to decode projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("Expected 1 project, got %d", len(projects))
	}
	if projects[0].Title != "Second" {
		t.Errorf("Expected the later write to win, got %q", projects[0].Title)
	}
	if projects[0].Featured {
		t.Errorf("Absent featured must normalize to false")
	}
}

func TestPutProjectInvalidBody(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodPut, "/api/projects/site", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed body, got %d", rec.Code)
	}

	// Nothing may have been stored.
	rec = doRequest(t, router, http.MethodGet, "/api/projects", "")
	var projects []models.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatalf("Failed to decode projects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("Malformed body must not be stored, got %d projects", len(projects))
	}
}

func TestDeleteMissingIsSuccess(t *testing.T) {
	router := newTestRouter(t, nil)

	for i := 0; i < 2; i++ {
		assertSuccess(t, doRequest(t, router, http.MethodDelete, "/api/projects/never-existed", ""))
	}
}

func TestJournalPostAndSortOrder(t *testing.T) {
	router := newTestRouter(t, nil)

	posts := []string{
		`{"id": "a", "title": "A", "date": "2023-01-01", "category": "c", "tags": ["x"], "excerpt": "e", "content": "c", "readTime": 3}`,
		`{"id": "b", "title": "B", "date": "2023-06-01", "category": "c", "tags": [], "excerpt": "e", "content": "c", "readTime": 4}`,
		`{"id": "c", "title": "C", "date": "2022-12-01", "category": "c", "excerpt": "e", "content": "c", "readTime": 5}`,
	}
	for _, body := range posts {
		assertSuccess(t, doRequest(t, router, http.MethodPost, "/api/journal", body))
	}

	rec := doRequest(t, router, http.MethodGet, "/api/journal", "")
	var got []models.JournalPost
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode journal: %v", err)
	}
	want := []string{"2023-06-01", "2023-01-01", "2022-12-01"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d posts, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Date != w {
			t.Errorf("Position %d: expected %s, got %s", i, w, got[i].Date)
		}
	}
	// Absent tags come back as an empty array, never null.
	if got[2].Tags == nil {
		t.Errorf("Expected empty tags array for post without tags")
	}
}

func TestJournalPostRequiresID(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/journal", `{"title": "no id"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for POST without id, got %d", rec.Code)
	}
}

func TestPutJournalUpdates(t *testing.T) {
	router := newTestRouter(t, nil)

	assertSuccess(t, doRequest(t, router, http.MethodPost, "/api/journal",
		`{"id": "p1", "title": "Draft", "date": "2024-01-01", "category": "c", "excerpt": "e", "content": "c", "readTime": 1}`))
	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/journal/p1",
		`{"title": "Final", "date": "2024-01-01", "category": "c", "excerpt": "e", "content": "c", "readTime": 1}`))

	rec := doRequest(t, router, http.MethodGet, "/api/journal", "")
	var got []models.JournalPost
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode journal: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Final" {
		t.Fatalf("Expected single updated post, got %+v", got)
	}
}

func TestTimelineRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/timeline/2021", `{"title": "Then", "description": "d"}`))
	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/timeline/2024", `{"title": "Now", "description": "d"}`))

	rec := doRequest(t, router, http.MethodGet, "/api/timeline", "")
	var entries []models.TimelineEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode timeline: %v", err)
	}
	if len(entries) != 2 || entries[0].Year != "2024" || entries[1].Year != "2021" {
		t.Fatalf("Expected timeline sorted year DESC, got %+v", entries)
	}

	assertSuccess(t, doRequest(t, router, http.MethodDelete, "/api/timeline/2021", ""))
	rec = doRequest(t, router, http.MethodGet, "/api/timeline", "")
	entries = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode timeline: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after delete, got %d", len(entries))
	}
}

func TestConfigRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/config/ui", `{"theme": "dark"}`))
	assertSuccess(t, doRequest(t, router, http.MethodPut, "/api/config/counters", `{"count": 5}`))

	rec := doRequest(t, router, http.MethodGet, "/api/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET config: expected 200, got %d", rec.Code)
	}
	var config map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &config); err != nil {
		t.Fatalf("Failed to decode config: %v", err)
	}
	var ui struct {
		Theme string `json:"theme"`
	}
	if err := json.Unmarshal(config["ui"], &ui); err != nil || ui.Theme != "dark" {
		t.Errorf("ui config mismatch: %s", config["ui"])
	}
	var counters struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(config["counters"], &counters); err != nil || counters.Count != 5 {
		t.Errorf("counters config mismatch: %s", config["counters"])
	}
}

func TestConfigRejectsInvalidJSON(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodPut, "/api/config/ui", `{broken`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for invalid JSON value, got %d", rec.Code)
	}
}

func TestWriteGuard(t *testing.T) {
	router := newTestRouter(t, middleware.RequireToken("secret"))

	// Reads stay open.
	rec := doRequest(t, router, http.MethodGet, "/api/projects", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET must not be guarded, got %d", rec.Code)
	}

	// Writes without the token are rejected.
	rec = doRequest(t, router, http.MethodPut, "/api/projects/site", `{"title": "T"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/projects/site", strings.NewReader(`{"title": "T"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}
