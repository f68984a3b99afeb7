package provider

import (
	"context"
	"errors"
	"testing"

	"rentflow/config"
)

func TestNewVendor_RequiresCredentials(t *testing.T) {
	if _, err := NewVendor(""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}

	v, err := NewVendor("key-123")
	if err != nil {
		t.Fatalf("unexpected error with credentials: %v", err)
	}
	if v.Name() != VendorName {
		t.Fatalf("expected name %q, got %q", VendorName, v.Name())
	}
}

func TestVendor_MethodsReturnTypedErrors(t *testing.T) {
	v, err := NewVendor("key-123")
	if err != nil {
		t.Fatalf("construct vendor: %v", err)
	}

	ctx := context.Background()

	_, err = v.RequestMVR(ctx, MVRRequest{RenterID: "r1"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Provider != VendorName {
		t.Errorf("expected provider %q in error, got %q", VendorName, reqErr.Provider)
	}

	_, err = v.GetResult(ctx, "ref", KindSoftCredit)
	var resErr *ResultError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResultError, got %v", err)
	}
}

func TestNew_SelectsProviderFromConfig(t *testing.T) {
	prov, err := New(config.Config{})
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if _, ok := prov.(*Deterministic); !ok {
		t.Fatalf("expected default deterministic provider, got %T", prov)
	}

	prov, err = New(config.Config{ScreeningProvider: config.ProviderVendor, VendorAPIKey: "key"})
	if err != nil {
		t.Fatalf("vendor config: %v", err)
	}
	if _, ok := prov.(*Vendor); !ok {
		t.Fatalf("expected vendor provider, got %T", prov)
	}

	if _, err := New(config.Config{ScreeningProvider: config.ProviderVendor}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials without API key, got %v", err)
	}

	if _, err := New(config.Config{ScreeningProvider: "other"}); err == nil {
		t.Fatal("expected error for unknown provider name")
	}
}
