package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentflow/audit"
	"rentflow/config"
	"rentflow/consent"
	"rentflow/db"
	"rentflow/metrics"
	"rentflow/profile"
	"rentflow/provider"
	"rentflow/screening"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.FromEnv()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	prov, err := provider.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap screening provider: %v", err)
	}

	registry := prometheus.NewRegistry()
	collectors := metrics.New(registry)

	ledger := consent.NewLedger(consent.NewRepository(pool))
	screenings := screening.NewService(
		screening.NewRepository(pool),
		ledger,
		profile.NewStore(pool),
		audit.NewSink(pool),
		prov,
		string(cfg.ScreeningProvider),
		collectors,
	)
	log.Printf("screening engine ready: provider=%s workflows=%v", cfg.ScreeningProvider, screenings != nil)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
		log.Fatalf("metrics server: %v", err)
	}
}
