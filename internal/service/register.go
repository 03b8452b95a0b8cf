// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gestevent/registration/internal/config"
	"github.com/gestevent/registration/internal/ident"
	"github.com/gestevent/registration/internal/metrics"
	"github.com/gestevent/registration/internal/model"
	"github.com/gestevent/registration/internal/repository"
	"github.com/gestevent/registration/internal/ticket"
)

// detachedTimeout bounds the post-response consent and email work.
const detachedTimeout = 30 * time.Second

// EventStore loads events for the registration pipeline.
type EventStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
}

// ParticipantStore persists participants. Insert must return
// repository.ErrDuplicateParticipant on a (event, email) uniqueness hit;
// that constraint, not the counting methods, is the race-safe guard.
type ParticipantStore interface {
	Insert(ctx context.Context, p model.Participant) (*model.Participant, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	CountConfirmedByEmail(ctx context.Context, eventID, emailLower string) (int, error)
	Delete(ctx context.Context, id string) error
	SetTicketURL(ctx context.Context, id, url string) error
}

// RateLimitStore records and counts registration attempts per IP.
type RateLimitStore interface {
	Record(ctx context.Context, ip string) error
	CountSince(ctx context.Context, ip string, since time.Time) (int, error)
}

// ConsentStore appends the hashed-email audit trail.
type ConsentStore interface {
	Insert(ctx context.Context, emailHash, ip, eventID, participantID string) error
}

// Mailer sends the confirmation email.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, fullName, eventTitle, ticketURL string) error
}

// RegistrationService runs the public registration pipeline:
// validate → rate limit → eligibility → insert → ticket saga → notify.
type RegistrationService struct {
	events       EventStore
	participants ParticipantStore
	rateLimits   RateLimitStore
	consents     ConsentStore
	blobs        ticket.BlobStore
	mailer       Mailer
	rateLimit    config.RateLimitConfig
	ticketTTL    time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewRegistrationService constructs a RegistrationService with its
// collaborators. rateLimits, consents, and mailer may be nil; those layers
// are then skipped (they are best-effort by contract).
func NewRegistrationService(
	events EventStore,
	participants ParticipantStore,
	rateLimits RateLimitStore,
	consents ConsentStore,
	blobs ticket.BlobStore,
	mailer Mailer,
	rateLimit config.RateLimitConfig,
	ticketTTL time.Duration,
	logger zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		events:       events,
		participants: participants,
		rateLimits:   rateLimits,
		consents:     consents,
		blobs:        blobs,
		mailer:       mailer,
		rateLimit:    rateLimit,
		ticketTTL:    ticketTTL,
		logger:       logger.With().Str("component", "registration").Logger(),
		now:          time.Now,
	}
}

// Register processes one public registration attempt and returns the new
// participant ID. All rejections are *model.RegistrationError values.
func (s *RegistrationService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	if s.blobs == nil {
		// Ticket storage is mandatory for the pipeline's guarantees;
		// refuse up front rather than fail after the insert.
		return "", model.ErrEnvMissing
	}

	slug := strings.TrimSpace(req.Slug)
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = strings.TrimSpace(strings.TrimSpace(req.Firstname) + " " + strings.TrimSpace(req.Lastname))
	}
	email := ident.NormalizeEmail(req.Email)

	if slug == "" {
		return "", model.ErrSlugRequired
	}
	if fullName == "" {
		return "", model.ErrFullNameRequired
	}
	if email == "" {
		return "", model.ErrEmailRequired
	}

	if err := s.throttle(ctx, req.ClientIP); err != nil {
		return "", err
	}

	evt, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		// Lookup failures collapse into not-found; an unknown slug is
		// by far the common case.
		return "", model.ErrEventNotFound
	}

	if rej := checkEligibility(evt, s.now()); rej != nil {
		return "", rej
	}

	// Advisory quota and capacity pre-checks. Both are racy between the
	// count and the insert; the partial unique index on the participants
	// table is the authoritative guard (see Insert).
	existing, err := s.participants.CountConfirmedByEmail(ctx, evt.ID, email)
	if err != nil {
		return "", model.ErrDBCheck
	}
	if evt.MaxPerUser > 0 && existing >= evt.MaxPerUser {
		return "", model.ErrQuotaReached
	}
	if evt.HasCapacity() {
		total, err := s.participants.CountConfirmed(ctx, evt.ID)
		if err != nil {
			return "", model.ErrDBCount
		}
		if total >= *evt.Capacity {
			return "", model.ErrSoldOut
		}
	}

	// From the insert onward the pipeline must run to completion even if
	// the client disconnects: aborting mid-saga could strand a confirmed
	// row without its compensating delete.
	ctx = context.WithoutCancel(ctx)

	participant, err := s.participants.Insert(ctx, model.Participant{
		EventID:    evt.ID,
		FullName:   fullName,
		Email:      email,
		EmailLower: email,
		Phone:      req.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateParticipant) {
			return "", model.ErrAlreadyExists
		}
		s.logger.Error().Err(err).Str("event_id", evt.ID).Msg("participant insert failed")
		return "", model.ErrCreateFailed
	}

	url, err := s.issueTicket(ctx, evt.ID, participant.ID)
	if err != nil {
		return "", err
	}

	// The registration is a success from here on. Attaching the URL and
	// everything after it is best effort.
	if err := s.participants.SetTicketURL(ctx, participant.ID, url); err != nil {
		s.logger.Warn().Err(err).Str("participant_id", participant.ID).Msg("ticket url update failed")
	}

	s.notify(participant.ID, evt, fullName, email, req.ClientIP, url)

	s.logger.Info().
		Str("event_id", evt.ID).
		Str("participant_id", participant.ID).
		Msg("registration confirmed")
	return participant.ID, nil
}

// throttle applies the advisory per-IP rate limit. Store failures are
// swallowed: rate limiting is defense in depth, never a hard dependency.
func (s *RegistrationService) throttle(ctx context.Context, ip string) error {
	if s.rateLimits == nil || ip == "" {
		return nil
	}
	if err := s.rateLimits.Record(ctx, ip); err != nil {
		s.logger.Debug().Err(err).Msg("rate limit record failed")
		return nil
	}
	count, err := s.rateLimits.CountSince(ctx, ip, s.now().Add(-s.rateLimit.Window))
	if err != nil {
		s.logger.Debug().Err(err).Msg("rate limit count failed")
		return nil
	}
	if count > s.rateLimit.Threshold {
		return model.ErrTooManyAttempts
	}
	return nil
}

// issueTicket runs the artifact saga: encode the QR payload, upload the
// PNG, and obtain the signed URL. Each completed step pushes a compensating
// action; on failure all compensations run in reverse order so no confirmed
// participant is left without a reachable ticket.
func (s *RegistrationService) issueTicket(ctx context.Context, eventID, participantID string) (string, error) {
	var compensations []func(context.Context)
	fail := func(rej *model.RegistrationError) (string, error) {
		metrics.TicketCompensations.Inc()
		for i := len(compensations) - 1; i >= 0; i-- {
			compensations[i](ctx)
		}
		return "", rej
	}
	compensations = append(compensations, func(ctx context.Context) {
		if err := s.participants.Delete(ctx, participantID); err != nil {
			s.logger.Error().Err(err).Str("participant_id", participantID).Msg("compensating delete failed")
		}
	})

	payload := ticket.Payload(eventID, participantID)
	png, err := ticket.EncodePNG(payload)
	if err != nil {
		s.logger.Error().Err(err).Str("participant_id", participantID).Msg("qr encode failed")
		return fail(model.ErrQRUpload)
	}

	path := ticket.ObjectPath(eventID, participantID)
	if err := s.blobs.Upload(ctx, path, png, "image/png"); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("qr upload failed")
		return fail(model.ErrQRUpload)
	}
	compensations = append(compensations, func(ctx context.Context) {
		if err := s.blobs.Remove(ctx, path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("compensating blob remove failed")
		}
	})

	url, err := s.blobs.SignedURL(ctx, path, s.ticketTTL)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("qr sign failed")
		return fail(model.ErrQRSign)
	}
	return url, nil
}

// notify runs the consent write and confirmation email as a detached task.
// Failures are observed only via logging; the response is already decided.
func (s *RegistrationService) notify(participantID string, evt *model.Event, fullName, email, ip, ticketURL string) {
	consents := s.consents
	mailer := s.mailer
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), detachedTimeout)
		defer cancel()

		if consents != nil {
			if err := consents.Insert(ctx, ident.SHA256Hex(email), ip, evt.ID, participantID); err != nil {
				s.logger.Warn().Err(err).Str("participant_id", participantID).Msg("consent insert failed")
			}
		}
		if mailer != nil {
			if err := mailer.SendConfirmation(ctx, email, fullName, evt.Title, ticketURL); err != nil {
				s.logger.Warn().Err(err).Str("participant_id", participantID).Msg("confirmation email failed")
			}
		}
	}()
}
