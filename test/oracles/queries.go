package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

// All returns invariant queries that must come back empty after any run,
// regardless of interleaving.
func All() []Oracle {
	return []Oracle{
		{
			// Terminal screenings that resolved a result must carry the
			// provider reference assigned during the pending transition.
			Name: "O1_terminal_complete_has_ref",
			SQL: `SELECT id FROM renter_screenings
                  WHERE status = 'complete'
                    AND (provider_ref IS NULL OR provider_ref = '')`,
		},
		{
			// Complete rows always carry a result and risk level.
			Name: "O2_complete_rows_resolved",
			SQL: `SELECT id FROM renter_screenings
                  WHERE status = 'complete' AND (result IS NULL OR risk_level IS NULL)`,
		},
		{
			// The consent natural keys never duplicate, upserts or not.
			Name: "O3_acceptance_natural_key",
			SQL: `SELECT user_id, policy_key, policy_version, COUNT(*)
                  FROM policy_acceptances
                  GROUP BY user_id, policy_key, policy_version
                  HAVING COUNT(*) > 1`,
		},
		{
			// At most one adverse action per screening row.
			Name: "O4_adverse_action_per_screening",
			SQL: `SELECT screening_id, COUNT(*)
                  FROM adverse_actions
                  GROUP BY screening_id
                  HAVING COUNT(*) > 1`,
		},
		{
			// Adverse actions only attach to screenings that resolved fail.
			Name: "O5_adverse_actions_need_fail",
			SQL: `SELECT aa.id FROM adverse_actions aa
                  JOIN renter_screenings rs ON rs.id = aa.screening_id
                  WHERE rs.result IS DISTINCT FROM 'fail'`,
		},
		{
			// Every screening belongs to a renter who accepted the matching
			// consent policy; the gate runs before record creation.
			Name: "O6_screenings_are_consented",
			SQL: `SELECT rs.id FROM renter_screenings rs
                  WHERE NOT EXISTS (
                      SELECT 1 FROM policy_acceptances pa
                      WHERE pa.user_id = rs.renter_id
                        AND pa.policy_key = CASE rs.screening_type
                            WHEN 'mvr' THEN 'renter_mvr_consent_v1'
                            ELSE 'renter_soft_credit_consent_v1' END
                  )`,
		},
		{
			// No audit row leaks a raw-looking IPv4 address; only digests.
			Name: "O7_audit_ips_hashed",
			SQL: `SELECT id FROM audit_logs
                  WHERE ip_hash IS NOT NULL
                    AND ip_hash ~ '^[0-9]{1,3}(\.[0-9]{1,3}){3}$'`,
		},
	}
}

// Check runs every oracle and returns an error naming the first violated one.
func Check(ctx context.Context, pool *pgxpool.Pool) error {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return fmt.Errorf("oracle %s query: %w", o.Name, err)
		}
		violated := rows.Next()
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("oracle %s rows: %w", o.Name, err)
		}
		if violated {
			return fmt.Errorf("oracle %s violated", o.Name)
		}
	}
	return nil
}
