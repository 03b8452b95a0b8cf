package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConsentRepository writes the hashed-email audit trail for successful
// registrations. Rows are write-once and never read back by the service.
type ConsentRepository struct {
	db *pgxpool.Pool
}

// NewConsentRepository constructs a ConsentRepository.
func NewConsentRepository(db *pgxpool.Pool) *ConsentRepository {
	return &ConsentRepository{db: db}
}

// Insert stores one consent record.
func (r *ConsentRepository) Insert(ctx context.Context, emailHash, ip, eventID, participantID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO consents (email_hash, ip, event_id, participant_id)
		 VALUES ($1, $2, $3, $4)`,
		emailHash, ip, eventID, participantID,
	)
	if err != nil {
		return fmt.Errorf("insert consent: %w", err)
	}
	return nil
}
