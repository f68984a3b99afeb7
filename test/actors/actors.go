package actors

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rentflow/audit"
	"rentflow/consent"
	"rentflow/profile"
	"rentflow/provider"
	"rentflow/screening"
)

// Runner wires the screening engine against a live database the same way
// cmd/api does, so actors exercise the real workflow paths.
type Runner struct {
	pool       *pgxpool.Pool
	Ledger     *consent.Ledger
	Screenings *screening.Service
}

func NewRunner(pool *pgxpool.Pool) *Runner {
	ledger := consent.NewLedger(consent.NewRepository(pool))
	svc := screening.NewService(
		screening.NewRepository(pool),
		ledger,
		profile.NewStore(pool),
		audit.NewSink(pool),
		provider.NewDeterministic(),
		provider.DeterministicName,
		nil,
	)
	return &Runner{pool: pool, Ledger: ledger, Screenings: svc}
}

// SeedRenter creates a user with license data and both consent acceptances.
// The marker steers the deterministic provider ("", "_fail", "_conditional").
func (r *Runner) SeedRenter(ctx context.Context, marker string) (string, error) {
	email := fmt.Sprintf("renter%s+%d@example.com", marker, time.Now().UnixNano())

	var renterID string
	if err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, drivers_license_number, drivers_license_state)
		VALUES ($1, 'Stress Renter', 'D9999999', 'CA')
		RETURNING id
	`, email).Scan(&renterID); err != nil {
		return "", fmt.Errorf("seed renter: %w", err)
	}

	for _, key := range []string{screening.PolicyKeyMVRConsent, screening.PolicyKeySoftCreditConsent} {
		if _, err := r.Ledger.RecordPolicyAcceptance(ctx, consent.UpsertAcceptanceParams{
			UserID:        renterID,
			PolicyKey:     key,
			PolicyVersion: screening.PolicyVersion,
		}); err != nil {
			return "", fmt.Errorf("seed acceptance: %w", err)
		}
	}

	return renterID, nil
}

// Screener runs MVR and soft-credit workflows for one renter in a loop. The
// deterministic provider resolves immediately, so every iteration drives a
// full record lifecycle.
func (r *Runner) Screener(ctx context.Context, renterID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		params := screening.RunParams{
			RenterID:  renterID,
			IPAddress: "203.0.113.50",
			UserAgent: "stress-test",
		}

		var err error
		if rand.Intn(2) == 0 {
			_, err = r.Screenings.RunMVRScreening(ctx, params)
		} else {
			_, err = r.Screenings.RunSoftCreditScreening(ctx, params, "stress screening")
		}
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("screener workflow: %w", err)
		}

		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Reader hammers the summary query for one renter while screeners write.
func (r *Runner) Reader(ctx context.Context, renterID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		if _, err := r.Screenings.Summary(ctx, renterID, nil); err != nil && ctx.Err() == nil {
			return fmt.Errorf("reader summary: %w", err)
		}

		time.Sleep(time.Duration(5+rand.Intn(15)) * time.Millisecond)
	}
}

// NoticeSender advances draft adverse-action notices to sent, competing with
// the screeners that create them.
func (r *Runner) NoticeSender(ctx context.Context, renterID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		actions, err := r.Screenings.ListAdverseActions(ctx, renterID)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("notice sender list: %w", err)
		}
		for _, action := range actions {
			if action.NoticeStatus != screening.NoticeStatusDraft {
				continue
			}
			if _, err := r.Screenings.MarkNoticeSent(ctx, action.ID); err != nil && ctx.Err() == nil {
				return fmt.Errorf("notice sender mark: %w", err)
			}
		}

		time.Sleep(time.Duration(20+rand.Intn(30)) * time.Millisecond)
	}
}
