package test

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/exec"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"rentflow/test/actors"
	"rentflow/test/chaos"
	"rentflow/test/infra"
	"rentflow/test/oracles"
)

var (
	flDuration    = flag.Duration("duration", 30*time.Second, "how long to run the concurrency test")
	flConcurrency = flag.Int("concurrency", 8, "number of concurrent renters")
	flSeed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN         = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
	flChaos       = flag.Bool("chaos", false, "randomly terminate database backends during the run")
)

// TestScreeningConcurrency runs parallel renters through the full workflow
// against a real database, then checks the compliance invariants that must
// hold regardless of interleaving.
func TestScreeningConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency test in -short mode")
	}
	flag.Parse()
	rng := rand.New(rand.NewSource(*flSeed))
	t.Logf("seed=%d duration=%s concurrency=%d", *flSeed, *flDuration, *flConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+60*time.Second)
	defer cancel()

	var (
		pgC *infra.PGContainer
		dsn string
		err error
	)
	switch {
	case *flDSN != "":
		dsn = *flDSN
		pgC = &infra.PGContainer{}
	case os.Getenv("SCREENING_TEST_PG_DSN") != "":
		dsn = os.Getenv("SCREENING_TEST_PG_DSN")
		pgC = &infra.PGContainer{}
	default:
		if dockerAvailable(ctx) {
			pgC, dsn, err = infra.StartPostgres16(ctx)
			if err != nil {
				t.Fatalf("start postgres: %v", err)
			}
		} else {
			dsn, err = infra.InitLocalDatabase(ctx)
			if err != nil {
				t.Skipf("no Docker and no local postgres: %v", err)
			}
			pgC = &infra.PGContainer{}
		}
	}
	defer func() { _ = pgC.Terminate(context.Background()) }()

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, true)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer func() {
		pool.Close()
		_ = teardown(context.Background())
	}()

	runner := actors.NewRunner(pool)
	markers := []string{"", "", "_conditional", "_fail"}

	stop := make(chan struct{})
	var g errgroup.Group
	gctx := ctx

	for i := 0; i < *flConcurrency; i++ {
		marker := markers[rng.Intn(len(markers))]
		renterID, err := runner.SeedRenter(ctx, marker)
		if err != nil {
			t.Fatalf("seed renter: %v", err)
		}

		g.Go(func() error { return runner.Screener(gctx, renterID, stop) })
		g.Go(func() error { return runner.Reader(gctx, renterID, stop) })
		if marker == "_fail" {
			g.Go(func() error { return runner.NoticeSender(gctx, renterID, stop) })
		}
	}

	if *flChaos {
		go chaos.TerminateRandomBackend(gctx, pool, stop)
	}

	time.Sleep(*flDuration)
	close(stop)

	if err := g.Wait(); err != nil {
		if *flChaos {
			t.Logf("actor error tolerated under chaos: %v", err)
		} else {
			t.Fatalf("actor error: %v", err)
		}
	}

	if err := oracles.Check(ctx, pool); err != nil {
		t.Fatalf("invariant check: %v", err)
	}
}

func dockerAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "info")
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
