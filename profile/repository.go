package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the renter has no profile row.
var ErrNotFound = errors.New("profile: not found")

// Profile is the read-side renter data the screening engine consumes. It has
// no date-of-birth field; profiles do not capture one today.
type Profile struct {
	UserID               string
	FullName             string
	Email                *string
	DriversLicenseNumber *string
	DriversLicenseState  *string
}

// Store exposes renter profile lookups. The engine only reads profiles;
// ownership of the users table lies with the account surface.
type Store interface {
	GetProfile(ctx context.Context, renterID string) (Profile, error)
}

// PGStore implements Store backed by PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed profile store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// GetProfile retrieves the renter profile by user id.
func (s *PGStore) GetProfile(ctx context.Context, renterID string) (Profile, error) {
	const selectSQL = `
		SELECT id, full_name, email, drivers_license_number, drivers_license_state
		FROM users
		WHERE id = $1
	`

	var p Profile
	err := s.pool.QueryRow(ctx, selectSQL, renterID).Scan(
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.DriversLicenseNumber,
		&p.DriversLicenseState,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("profile: get profile: %w", err)
	}

	return p, nil
}
