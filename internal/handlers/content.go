package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bdimitrov/portfolio-api/internal/db"
	"github.com/bdimitrov/portfolio-api/internal/models"
)

// ContentHandler serves the six content collections. Every write is an
// upsert keyed by the URL path segment; the body's own id field is
// overwritten with the path key before persisting.
type ContentHandler struct {
	store *db.Store
}

func NewContentHandler(store *db.Store) *ContentHandler {
	return &ContentHandler{store: store}
}

// Mount registers the content routes on r. guard, when non-nil, wraps the
// write endpoints (the optional admin token middleware).
func (h *ContentHandler) Mount(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Get("/config", h.GetConfig)
	r.Get("/projects", h.ListProjects)
	r.Get("/journal", h.ListJournal)
	r.Get("/experience", h.ListExperience)
	r.Get("/timeline", h.ListTimeline)
	r.Get("/photos", h.ListPhotos)

	r.Group(func(r chi.Router) {
		if guard != nil {
			r.Use(guard)
		}
		r.Put("/config/{id}", h.PutConfigValue)

		r.Put("/projects/{id}", h.PutProject)
		r.Delete("/projects/{id}", h.DeleteProject)

		r.Post("/journal", h.CreateJournalPost)
		r.Put("/journal/{id}", h.PutJournalPost)
		r.Delete("/journal/{id}", h.DeleteJournalPost)

		r.Put("/experience/{id}", h.PutExperience)
		r.Delete("/experience/{id}", h.DeleteExperience)

		r.Put("/timeline/{year}", h.PutTimelineEntry)
		r.Delete("/timeline/{year}", h.DeleteTimelineEntry)

		r.Put("/photos/{id}", h.PutPhoto)
		r.Delete("/photos/{id}", h.DeletePhoto)
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// --- Config ---

func (h *ContentHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	config, err := h.store.GetConfig(r.Context())
	if err != nil {
		slog.Error("get config failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to load config")
		return
	}
	respondJSON(w, http.StatusOK, config)
}

// PutConfigValue stores an arbitrary JSON document under the setting id.
func (h *ContentHandler) PutConfigValue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	value := bytes.TrimSpace(body)
	if len(value) == 0 || !json.Valid(value) {
		respondError(w, http.StatusBadRequest, "body must be a JSON value")
		return
	}
	if err := h.store.SetConfigValue(r.Context(), id, value); err != nil {
		slog.Error("set config value failed", slog.String("id", id), slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to save config")
		return
	}
	respondSuccess(w)
}

// --- Projects ---

func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		slog.Error("list projects failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (h *ContentHandler) PutProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := h.store.UpsertProject(r.Context(), p); err != nil {
		slog.Error("upsert project failed", slog.String("id", p.ID), slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to save project")
		return
	}
	respondSuccess(w)
}

func (h *ContentHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("delete project failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	respondSuccess(w)
}

// --- Journal ---

func (h *ContentHandler) ListJournal(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListJournalPosts(r.Context())
	if err != nil {
		slog.Error("list journal failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to load journal")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// CreateJournalPost takes the key from the body since POST has no path
// segment; the id is required.
func (h *ContentHandler) CreateJournalPost(w http.ResponseWriter, r *http.Request) {
	var p models.JournalPost
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if p.ID == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}
	if err := h.store.UpsertJournalPost(r.Context(), p); err != nil {
		slog.Error("create journal post failed", slog.String("id", p.ID), slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to save journal post")
		return
	}
	respondSuccess(w)
}

func (h *ContentHandler) PutJournalPost(w http.ResponseWriter, r *http.Request) {
	var p models.JournalPost
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := h.store.UpsertJournalPost(r.Context(), p); err != nil {
		slog.Error("upsert journal post failed", slog.String("id", p.ID), slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to save journal post")
		return
	}
	respondSuccess(w)
}

func (h *ContentHandler) DeleteJournalPost(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteJournalPost(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("delete journal post failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to delete journal post")
		return
	}
	respondSuccess(w)
}

// --- Experience ---

func (h *ContentHandler) ListExperience(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListExperience(r.Context())
	if err != nil {
		slog.Error("list experience failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to load experience")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *ContentHandler) PutExperience(w http.ResponseWriter, r *http.Request) {
	var e models.Experience
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	e.ID = chi.URLParam(r, "id")
	if err := h.store.UpsertExperience(r.Context(), e); err != nil {
		slog.Error("upsert experience failed", slog.String("id", e.ID), slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to save experience")
		return
	}
	respondSuccess(w)
}

func (h *ContentHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteExperience(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("delete experience failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to delete experience")
		return
	}
	respondSuccess(w)
}

// --- Timeline ---

func (h *ContentHandler) ListTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListTimeline(r.Context())
	if err != nil {
		slog.Error("list timeline failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to load timeline")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *ContentHandler) PutTimelineEntry(w http.ResponseWriter, r *http.Request) {
	var t models.TimelineEntry
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	t.Year = chi.URLParam(r, "year")
	if err := h.store.UpsertTimelineEntry(r.Context(), t); err != nil {
		slog.Error("upsert timeline entry failed", slog.String("year", t.Year), slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to save timeline entry")
		return
	}
	respondSuccess(w)
}

func (h *ContentHandler) DeleteTimelineEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTimelineEntry(r.Context(), chi.URLParam(r, "year")); err != nil {
		slog.Error("delete timeline entry failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to delete timeline entry")
		return
	}
	respondSuccess(w)
}

// --- Photos ---

func (h *ContentHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.ListPhotos(r.Context())
	if err != nil {
		slog.Error("list photos failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to load photos")
		return
	}
	respondJSON(w, http.StatusOK, photos)
}

func (h *ContentHandler) PutPhoto(w http.ResponseWriter, r *http.Request) {
	var p models.Photo
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := h.store.UpsertPhoto(r.Context(), p); err != nil {
		slog.Error("upsert photo failed", slog.String("id", p.ID), slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}
	respondSuccess(w)
}

func (h *ContentHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePhoto(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("delete photo failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to delete photo")
		return
	}
	respondSuccess(w)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondSuccess(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
