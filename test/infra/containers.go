package infra

import (
	"context"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PGContainer wraps the throwaway database container. Callers reusing an
// external DSN hold an empty handle so Terminate stays nil-safe.
type PGContainer struct {
	C *postgres.PostgresContainer
}

// StartPostgres16 launches a Postgres 16 container for one test run and
// returns its DSN. The caller owns termination.
func StartPostgres16(ctx context.Context) (*PGContainer, string, error) {
	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("rentflow"),
		postgres.WithUsername("rentflow"),
		postgres.WithPassword("rentflow"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", err
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, "", err
	}
	return &PGContainer{C: pgC}, dsn, nil
}

func (p *PGContainer) Terminate(ctx context.Context) error {
	if p == nil || p.C == nil {
		return nil
	}
	return p.C.Terminate(ctx)
}
