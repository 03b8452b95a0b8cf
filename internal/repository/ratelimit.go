package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RateLimitRepository records registration attempts per source IP.
// Callers treat every error here as advisory: a missing or unreachable
// rate-limit table must never block a registration.
type RateLimitRepository struct {
	db *pgxpool.Pool
}

// NewRateLimitRepository constructs a RateLimitRepository.
func NewRateLimitRepository(db *pgxpool.Pool) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Record appends one attempt for the given IP.
func (r *RateLimitRepository) Record(ctx context.Context, ip string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO rate_limits_public_register (ip) VALUES ($1)`, ip,
	)
	if err != nil {
		return fmt.Errorf("record rate limit: %w", err)
	}
	return nil
}

// CountSince returns the number of attempts for the IP at or after the
// given instant.
func (r *RateLimitRepository) CountSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM rate_limits_public_register
		 WHERE ip = $1 AND created_at >= $2`,
		ip, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rate limit: %w", err)
	}
	return n, nil
}
