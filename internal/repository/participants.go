package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestevent/registration/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// ParticipantRepository handles persistence for participants.
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository constructs a ParticipantRepository.
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Insert creates a confirmed participant row. The partial unique index on
// (event_id, email_lower) is the authoritative duplicate guard: two racing
// requests that both pass the quota pre-check resolve here, and the loser
// gets ErrDuplicateParticipant.
func (r *ParticipantRepository) Insert(ctx context.Context, p model.Participant) (*model.Participant, error) {
	p.ID = uuid.New().String()
	p.Status = model.ParticipantConfirmed
	p.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO participants (id, event_id, full_name, email, email_lower, phone, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.EventID, p.FullName, p.Email, p.EmailLower, p.Phone, p.Status, p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateParticipant
		}
		return nil, fmt.Errorf("insert participant: %w", err)
	}
	return &p, nil
}

// CountConfirmed returns the number of confirmed participants for an event.
func (r *ParticipantRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants WHERE event_id = $1 AND status = $2`,
		eventID, model.ParticipantConfirmed,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

// CountConfirmedByEmail returns the number of confirmed participants for an
// event registered under the given lower-cased email.
func (r *ParticipantRepository) CountConfirmedByEmail(ctx context.Context, eventID, emailLower string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants
		 WHERE event_id = $1 AND email_lower = $2 AND status = $3`,
		eventID, emailLower, model.ParticipantConfirmed,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count participants by email: %w", err)
	}
	return n, nil
}

// Delete removes a participant row. Used as the compensating action when
// the ticket pipeline fails after the insert.
func (r *ParticipantRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

// SetTicketURL attaches the signed ticket URL to a participant.
func (r *ParticipantRepository) SetTicketURL(ctx context.Context, id, url string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE participants SET qr_png_url = $1 WHERE id = $2`, url, id,
	)
	if err != nil {
		return fmt.Errorf("set ticket url: %w", err)
	}
	return nil
}

// ListByEvent returns confirmed participants for an event, oldest first.
func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Participant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, full_name, email, phone, status, qr_png_url, created_at
		 FROM participants
		 WHERE event_id = $1 AND status = $2
		 ORDER BY created_at ASC`,
		eventID, model.ParticipantConfirmed,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.FullName, &p.Email, &p.Phone, &p.Status, &p.QRPngURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
