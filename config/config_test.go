package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SCREENING_PROVIDER", "")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/rentflow")
	t.Setenv("SCREENING_VENDOR_API_KEY", "")

	cfg := FromEnv()
	if cfg.ScreeningProvider != ProviderDeterministic {
		t.Fatalf("expected deterministic default, got %q", cfg.ScreeningProvider)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Fatalf("expected default metrics addr, got %q", cfg.MetricsAddr)
	}
	if cfg.DatabaseURL != "postgres://localhost/rentflow" {
		t.Fatalf("unexpected database url %q", cfg.DatabaseURL)
	}
}

func TestFromEnv_VendorSelection(t *testing.T) {
	t.Setenv("SCREENING_PROVIDER", "vendor")
	t.Setenv("SCREENING_VENDOR_API_KEY", "key-123")

	cfg := FromEnv()
	if cfg.ScreeningProvider != ProviderVendor {
		t.Fatalf("expected vendor provider, got %q", cfg.ScreeningProvider)
	}
	if cfg.VendorAPIKey != "key-123" {
		t.Fatalf("expected api key to pass through, got %q", cfg.VendorAPIKey)
	}
}
