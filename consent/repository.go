package consent

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAcceptanceNotFound signals no acceptance row exists for the lookup key.
var ErrAcceptanceNotFound = errors.New("consent: acceptance not found")

// Repository handles data access for the consent ledger.
type Repository interface {
	UpsertPolicyAcceptance(ctx context.Context, params UpsertAcceptanceParams) (PolicyAcceptance, error)
	HasPolicyAcceptance(ctx context.Context, userID, policyKey, policyVersion string) (bool, error)
	LatestPolicyAcceptance(ctx context.Context, userID, policyKey string) (PolicyAcceptance, error)
	UpsertScreeningConsent(ctx context.Context, params UpsertConsentParams) (ScreeningConsent, error)
	ListScreeningConsents(ctx context.Context, userID string) ([]ScreeningConsent, error)
}

// UpsertAcceptanceParams contains write parameters for policy acceptances.
type UpsertAcceptanceParams struct {
	UserID        string
	PolicyKey     string
	PolicyVersion string
	IPHash        *string
	UserAgent     *string
}

// UpsertConsentParams contains write parameters for screening consents.
type UpsertConsentParams struct {
	UserID        string
	BookingID     *string
	ConsentType   Type
	PolicyKey     string
	PolicyVersion string
	IPHash        *string
	UserAgent     *string
}

// PGRepository implements Repository backed by PostgreSQL. Both upserts rely
// on the unique natural keys declared in the schema, so retries are safe and
// never duplicate rows.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed consent repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// UpsertPolicyAcceptance inserts the acceptance or refreshes the existing row
// for the same (user, policy key, policy version).
func (r *PGRepository) UpsertPolicyAcceptance(ctx context.Context, params UpsertAcceptanceParams) (PolicyAcceptance, error) {
	const upsertSQL = `
		INSERT INTO policy_acceptances (user_id, policy_key, policy_version, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, policy_key, policy_version)
		DO UPDATE SET ip_hash = EXCLUDED.ip_hash,
		              user_agent = EXCLUDED.user_agent,
		              accepted_at = now()
		RETURNING id, user_id, policy_key, policy_version, ip_hash, user_agent, accepted_at
	`

	row := r.pool.QueryRow(ctx, upsertSQL,
		params.UserID, params.PolicyKey, params.PolicyVersion, params.IPHash, params.UserAgent)

	acceptance, err := scanAcceptance(row)
	if err != nil {
		return PolicyAcceptance{}, fmt.Errorf("consent: upsert policy acceptance: %w", err)
	}
	return acceptance, nil
}

// HasPolicyAcceptance reports whether the user accepted the given policy
// version.
func (r *PGRepository) HasPolicyAcceptance(ctx context.Context, userID, policyKey, policyVersion string) (bool, error) {
	const existsSQL = `
		SELECT EXISTS (
			SELECT 1 FROM policy_acceptances
			WHERE user_id = $1 AND policy_key = $2 AND policy_version = $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, existsSQL, userID, policyKey, policyVersion).Scan(&exists); err != nil {
		return false, fmt.Errorf("consent: check policy acceptance: %w", err)
	}
	return exists, nil
}

// LatestPolicyAcceptance returns the most recent acceptance across versions
// of one policy key.
func (r *PGRepository) LatestPolicyAcceptance(ctx context.Context, userID, policyKey string) (PolicyAcceptance, error) {
	const selectSQL = `
		SELECT id, user_id, policy_key, policy_version, ip_hash, user_agent, accepted_at
		FROM policy_acceptances
		WHERE user_id = $1 AND policy_key = $2
		ORDER BY accepted_at DESC
		LIMIT 1
	`

	acceptance, err := scanAcceptance(r.pool.QueryRow(ctx, selectSQL, userID, policyKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PolicyAcceptance{}, ErrAcceptanceNotFound
		}
		return PolicyAcceptance{}, fmt.Errorf("consent: latest policy acceptance: %w", err)
	}
	return acceptance, nil
}

// UpsertScreeningConsent inserts the consent or refreshes the existing row
// for the same (user, booking, consent type, policy version). The unique
// index treats NULL booking ids as equal so general consents never duplicate.
func (r *PGRepository) UpsertScreeningConsent(ctx context.Context, params UpsertConsentParams) (ScreeningConsent, error) {
	const upsertSQL = `
		INSERT INTO screening_consents (user_id, booking_id, consent_type, policy_key, policy_version, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, booking_id, consent_type, policy_version)
		DO UPDATE SET policy_key = EXCLUDED.policy_key,
		              ip_hash = EXCLUDED.ip_hash,
		              user_agent = EXCLUDED.user_agent,
		              consented_at = now()
		RETURNING id, user_id, booking_id, consent_type, policy_key, policy_version, ip_hash, user_agent, consented_at
	`

	row := r.pool.QueryRow(ctx, upsertSQL,
		params.UserID, params.BookingID, params.ConsentType, params.PolicyKey,
		params.PolicyVersion, params.IPHash, params.UserAgent)

	consent, err := scanConsent(row)
	if err != nil {
		return ScreeningConsent{}, fmt.Errorf("consent: upsert screening consent: %w", err)
	}
	return consent, nil
}

// ListScreeningConsents returns all screening consents for a user, newest
// first.
func (r *PGRepository) ListScreeningConsents(ctx context.Context, userID string) ([]ScreeningConsent, error) {
	const selectSQL = `
		SELECT id, user_id, booking_id, consent_type, policy_key, policy_version, ip_hash, user_agent, consented_at
		FROM screening_consents
		WHERE user_id = $1
		ORDER BY consented_at DESC
	`

	rows, err := r.pool.Query(ctx, selectSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("consent: list screening consents: %w", err)
	}
	defer rows.Close()

	consents := []ScreeningConsent{}
	for rows.Next() {
		consent, err := scanConsent(rows)
		if err != nil {
			return nil, fmt.Errorf("consent: scan screening consent: %w", err)
		}
		consents = append(consents, consent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("consent: iterate screening consents: %w", err)
	}

	return consents, nil
}

func scanAcceptance(row pgx.Row) (PolicyAcceptance, error) {
	var a PolicyAcceptance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.PolicyKey,
		&a.PolicyVersion,
		&a.IPHash,
		&a.UserAgent,
		&a.AcceptedAt,
	)
	if err != nil {
		return PolicyAcceptance{}, err
	}
	return a, nil
}

func scanConsent(row pgx.Row) (ScreeningConsent, error) {
	var c ScreeningConsent
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.BookingID,
		&c.ConsentType,
		&c.PolicyKey,
		&c.PolicyVersion,
		&c.IPHash,
		&c.UserAgent,
		&c.ConsentedAt,
	)
	if err != nil {
		return ScreeningConsent{}, err
	}
	return c, nil
}
