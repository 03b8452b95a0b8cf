package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gestevent/registration/internal/model"
	"github.com/gestevent/registration/internal/repository"
	"github.com/gestevent/registration/internal/service"
)

// EventHandler holds the organizer-facing HTTP handlers.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// CreateEvent handles POST /events.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "invalid_json")
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events", "list_failed")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{slug}: the public event view used by the
// registration page.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	info, err := h.svc.GetEventInfo(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found", "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event", "get_failed")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// ListParticipants handles GET /events/{slug}/participants.
func (h *EventHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	participants, err := h.svc.ListParticipants(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found", "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list participants", "list_failed")
		return
	}

	if participants == nil {
		participants = []model.Participant{}
	}

	writeJSON(w, http.StatusOK, participants)
}

// ExportParticipantsCSV handles GET /events/{slug}/participants.csv.
func (h *EventHandler) ExportParticipantsCSV(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	filename := fmt.Sprintf("%s-%s.csv", slug, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.svc.WriteParticipantsCSV(r.Context(), slug, w); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.Header().Del("Content-Disposition")
			writeError(w, http.StatusNotFound, "event not found", "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to export participants", "export_failed")
		return
	}
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
