package provider

import (
	"fmt"

	"rentflow/config"
)

// New selects a provider implementation from explicit configuration. An empty
// provider name defaults to the deterministic provider, matching development
// and test environments; selecting the vendor provider requires credentials.
func New(cfg config.Config) (ScreeningProvider, error) {
	switch cfg.ScreeningProvider {
	case "", config.ProviderDeterministic:
		return NewDeterministic(), nil
	case config.ProviderVendor:
		return NewVendor(cfg.VendorAPIKey)
	default:
		return nil, fmt.Errorf("provider: unknown provider %q", cfg.ScreeningProvider)
	}
}
