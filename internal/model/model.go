// Package model defines the core domain types for the registration service.
package model

import "time"

// Event statuses. Only published events accept registrations.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ParticipantConfirmed is the only participant status this service writes.
const ParticipantConfirmed = "confirmed"

// Event is a registrable event created by an organizer.
type Event struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	IsOpen     bool       `json:"is_open"`
	SalesFrom  *time.Time `json:"sales_from"`
	SalesUntil *time.Time `json:"sales_until"`
	Capacity   *int       `json:"capacity"`
	MaxPerUser int        `json:"max_per_user"`
	Slug       string     `json:"slug"`
	CreatedAt  time.Time  `json:"created_at"`
}

// HasCapacity reports whether the event enforces a seat limit.
// Null or zero capacity means unlimited.
func (e *Event) HasCapacity() bool {
	return e.Capacity != nil && *e.Capacity > 0
}

// Participant is a confirmed registration for an event.
type Participant struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	EmailLower string    `json:"-"`
	Phone      *string   `json:"phone,omitempty"`
	Status     string    `json:"status"`
	QRPngURL   *string   `json:"qr_png_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterRequest is the public registration payload. FullName takes
// precedence; otherwise Firstname and Lastname are joined.
type RegisterRequest struct {
	Slug      string  `json:"slug"`
	FullName  string  `json:"full_name"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	ClientIP  string  `json:"client_ip"`
}

// RegisterResponse is the success envelope for a public registration.
type RegisterResponse struct {
	ParticipantID string `json:"participant_id"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	IsOpen     *bool      `json:"is_open"`
	SalesFrom  *time.Time `json:"sales_from"`
	SalesUntil *time.Time `json:"sales_until"`
	Capacity   *int       `json:"capacity"`
	MaxPerUser int        `json:"max_per_user"`
}

// EventInfo is the public view of an event served to the registration page.
type EventInfo struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	IsOpen    bool   `json:"is_open"`
	Remaining *int   `json:"remaining,omitempty"`
}

// ErrorResponse is the JSON error envelope: a human-readable message plus
// a machine-readable code for the calling page to localize.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
