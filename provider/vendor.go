package provider

import (
	"context"
	"errors"
)

// VendorName is persisted on screening rows produced by the vendor provider.
const VendorName = "vendor"

var errVendorNotIntegrated = errors.New("vendor integration not yet available")

// Vendor is the extension point for a real screening vendor. Construction
// validates credentials so a misconfigured deployment fails at bootstrap, not
// on the first renter's screening. The request/result methods are not wired
// to the vendor API yet and return RequestError/ResultError.
type Vendor struct {
	apiKey string
}

// NewVendor builds the vendor provider, failing fast when no API key is
// configured.
func NewVendor(apiKey string) (*Vendor, error) {
	if apiKey == "" {
		return nil, ErrMissingCredentials
	}
	return &Vendor{apiKey: apiKey}, nil
}

func (v *Vendor) Name() string { return VendorName }

func (v *Vendor) RequestMVR(ctx context.Context, req MVRRequest) (string, error) {
	return "", &RequestError{Provider: VendorName, Kind: KindMVR, Err: errVendorNotIntegrated}
}

func (v *Vendor) RequestSoftCredit(ctx context.Context, req SoftCreditRequest) (string, error) {
	return "", &RequestError{Provider: VendorName, Kind: KindSoftCredit, Err: errVendorNotIntegrated}
}

func (v *Vendor) GetResult(ctx context.Context, providerRef string, kind Kind) (Result, error) {
	return Result{}, &ResultError{Provider: VendorName, Kind: kind, Err: errVendorNotIntegrated}
}
