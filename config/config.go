package config

import "os"

// ProviderName selects a screening provider implementation.
type ProviderName string

const (
	// ProviderDeterministic is the rule-based in-memory provider used by
	// default in development and tests.
	ProviderDeterministic ProviderName = "deterministic"
	// ProviderVendor selects the external vendor integration. It requires
	// VendorAPIKey to be set.
	ProviderVendor ProviderName = "vendor"
)

// Config carries all runtime settings. Business logic never reads the process
// environment directly; everything flows through this struct so tests can
// construct configurations explicitly.
type Config struct {
	DatabaseURL       string
	ScreeningProvider ProviderName
	VendorAPIKey      string
	MetricsAddr       string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	providerName := ProviderName(os.Getenv("SCREENING_PROVIDER"))
	if providerName == "" {
		providerName = ProviderDeterministic
	}

	metricsAddr := os.Getenv("METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}

	return Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ScreeningProvider: providerName,
		VendorAPIKey:      os.Getenv("SCREENING_VENDOR_API_KEY"),
		MetricsAddr:       metricsAddr,
	}
}
