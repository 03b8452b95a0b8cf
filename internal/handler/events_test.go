package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gestevent/registration/internal/model"
	"github.com/gestevent/registration/internal/repository"
	"github.com/gestevent/registration/internal/service"
)

type memEvents struct {
	bySlug map[string]*model.Event
	all    []model.Event
}

func (m *memEvents) GetBySlug(_ context.Context, slug string) (*model.Event, error) {
	if e, ok := m.bySlug[slug]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memEvents) Create(_ context.Context, e model.Event) (*model.Event, error) {
	e.ID = "evt-" + e.Slug
	e.CreatedAt = time.Now().UTC()
	m.bySlug[e.Slug] = &e
	m.all = append(m.all, e)
	return &e, nil
}

func (m *memEvents) List(_ context.Context) ([]model.Event, error) { return m.all, nil }

func (m *memEvents) SlugExists(_ context.Context, slug string) (bool, error) {
	_, ok := m.bySlug[slug]
	return ok, nil
}

type memParticipants struct {
	byEvent map[string][]model.Participant
}

func (m *memParticipants) CountConfirmed(_ context.Context, eventID string) (int, error) {
	return len(m.byEvent[eventID]), nil
}

func (m *memParticipants) ListByEvent(_ context.Context, eventID string) ([]model.Participant, error) {
	return m.byEvent[eventID], nil
}

func newEventsRouter(events *memEvents, participants *memParticipants) http.Handler {
	h := NewEventHandler(service.NewEventService(events, participants))
	r := chi.NewRouter()
	r.Post("/events", h.CreateEvent)
	r.Get("/events", h.ListEvents)
	r.Get("/events/{slug}", h.GetEvent)
	r.Get("/events/{slug}/participants", h.ListParticipants)
	r.Get("/events/{slug}/participants.csv", h.ExportParticipantsCSV)
	return r
}

func TestCreateAndGetEvent(t *testing.T) {
	events := &memEvents{bySlug: make(map[string]*model.Event)}
	router := newEventsRouter(events, &memParticipants{byEvent: make(map[string][]model.Participant)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events",
		strings.NewReader(`{"title":"Summer Gala","status":"published","capacity":50}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "summer-gala", created.Slug)
	require.Equal(t, model.StatusPublished, created.Status)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/summer-gala", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info model.EventInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Equal(t, "Summer Gala", info.Title)
	require.NotNil(t, info.Remaining)
	require.Equal(t, 50, *info.Remaining)
}

func TestGetEventNotFound(t *testing.T) {
	router := newEventsRouter(
		&memEvents{bySlug: make(map[string]*model.Event)},
		&memParticipants{byEvent: make(map[string][]model.Participant)},
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "event_not_found", decodeErrorBody(t, rec).Code)
}

func TestExportParticipantsCSV(t *testing.T) {
	events := &memEvents{bySlug: map[string]*model.Event{
		"gala": {ID: "evt-1", Title: "Gala", Slug: "gala", Status: model.StatusPublished},
	}}
	participants := &memParticipants{byEvent: map[string][]model.Participant{
		"evt-1": {{
			ID:        "p-1",
			EventID:   "evt-1",
			FullName:  "Jane Doe",
			Email:     "jane@example.com",
			Status:    model.ParticipantConfirmed,
			CreatedAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		}},
	}}
	router := newEventsRouter(events, participants)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/gala/participants.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Header().Get("Content-Disposition"), "gala-")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Name;Email;Phone;Status;Registered at", lines[0])
	require.Equal(t, "Jane Doe;jane@example.com;;confirmed;2026-06-01T10:00:00Z", lines[1])
}
