package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gestevent/registration/internal/ident"
	"github.com/gestevent/registration/internal/model"
	"github.com/gestevent/registration/internal/repository"
)

// EventAdminStore is the wider event persistence surface used by the
// organizer endpoints.
type EventAdminStore interface {
	EventStore
	Create(ctx context.Context, e model.Event) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// ParticipantListStore lists and counts confirmed participants.
type ParticipantListStore interface {
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Participant, error)
}

// EventService orchestrates organizer-facing event operations.
type EventService struct {
	events       EventAdminStore
	participants ParticipantListStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventAdminStore, participants ParticipantListStore) *EventService {
	return &EventService{events: events, participants: participants}
}

// CreateEvent validates the request, derives a unique slug from the title,
// and delegates to the repository.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if req.Capacity != nil && *req.Capacity < 0 {
		return nil, fmt.Errorf("capacity cannot be negative")
	}
	if req.MaxPerUser == 0 {
		req.MaxPerUser = 1
	}
	if req.MaxPerUser < 0 {
		return nil, fmt.Errorf("max_per_user must be a positive integer")
	}
	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}
	if status != model.StatusDraft && status != model.StatusPublished {
		return nil, fmt.Errorf("status must be %q or %q", model.StatusDraft, model.StatusPublished)
	}
	if req.SalesFrom != nil && req.SalesUntil != nil && req.SalesUntil.Before(*req.SalesFrom) {
		return nil, fmt.Errorf("sales_until cannot precede sales_from")
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}

	return s.events.Create(ctx, model.Event{
		Title:      req.Title,
		Status:     status,
		IsOpen:     isOpen,
		SalesFrom:  req.SalesFrom,
		SalesUntil: req.SalesUntil,
		Capacity:   req.Capacity,
		MaxPerUser: req.MaxPerUser,
		Slug:       slug,
	})
}

// uniqueSlug slugifies the title and appends a numeric suffix until the
// slug is free.
func (s *EventService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := ident.Slug(title)
	if base == "" {
		base = "event"
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.events.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// ListEvents returns all events, newest first.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// GetEventInfo returns the public view of an event for the registration
// page. Remaining seats are exposed only when a capacity is set.
func (s *EventService) GetEventInfo(ctx context.Context, slug string) (*model.EventInfo, error) {
	evt, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	info := &model.EventInfo{
		Title:  evt.Title,
		Slug:   evt.Slug,
		IsOpen: evt.IsOpen,
	}
	if evt.HasCapacity() {
		taken, err := s.participants.CountConfirmed(ctx, evt.ID)
		if err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}
		remaining := *evt.Capacity - taken
		if remaining < 0 {
			remaining = 0
		}
		info.Remaining = &remaining
	}
	return info, nil
}

// ListParticipants returns confirmed participants for the event with the
// given slug, oldest first.
func (s *EventService) ListParticipants(ctx context.Context, slug string) ([]model.Participant, error) {
	evt, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return s.participants.ListByEvent(ctx, evt.ID)
}

// WriteParticipantsCSV streams the participant list as semicolon-separated
// CSV for spreadsheet import.
func (s *EventService) WriteParticipantsCSV(ctx context.Context, slug string, w io.Writer) error {
	participants, err := s.ListParticipants(ctx, slug)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Name", "Email", "Phone", "Status", "Registered at"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range participants {
		phone := ""
		if p.Phone != nil {
			phone = *p.Phone
		}
		record := []string{p.FullName, p.Email, phone, p.Status, p.CreatedAt.Format(time.RFC3339)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
