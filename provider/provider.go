package provider

import "context"

// Kind identifies a screening type.
type Kind string

const (
	KindMVR        Kind = "mvr"
	KindSoftCredit Kind = "soft_credit"
)

// ResultStatus describes how far a provider has taken a request.
type ResultStatus string

const (
	StatusPending  ResultStatus = "pending"
	StatusComplete ResultStatus = "complete"
	StatusFailed   ResultStatus = "failed"
)

// Outcome is the provider's verdict on a completed screening.
type Outcome string

const (
	OutcomePass        Outcome = "pass"
	OutcomeConditional Outcome = "conditional"
	OutcomeFail        Outcome = "fail"
)

// RiskLevel grades the severity behind an outcome.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// MVRRequest carries the subject data for a motor vehicle record check.
type MVRRequest struct {
	RenterID      string
	BookingID     *string
	FirstName     string
	LastName      string
	DateOfBirth   string
	LicenseNumber string
	LicenseState  string
}

// SoftCreditRequest carries the subject data for a soft credit inquiry.
type SoftCreditRequest struct {
	RenterID    string
	BookingID   *string
	FirstName   string
	LastName    string
	DateOfBirth string
	Email       *string
	Address     *string
}

// Result is a provider's structured answer to a result lookup. Signals holds
// provider-specific findings (license status, violation counts, credit score,
// fraud risk tier) keyed by stable string names.
type Result struct {
	Status      ResultStatus
	Result      *Outcome
	RiskLevel   *RiskLevel
	Signals     map[string]any
	ProviderRef string
}

// ScreeningProvider is the contract every screening vendor integration
// implements. Call sites never depend on a concrete implementation; the
// factory in this package selects one from explicit configuration, and the
// configured name travels separately so rows can persist it.
type ScreeningProvider interface {
	// RequestMVR submits a motor vehicle record check and returns an opaque
	// provider reference for later result lookup.
	RequestMVR(ctx context.Context, req MVRRequest) (string, error)

	// RequestSoftCredit submits a soft credit inquiry and returns an opaque
	// provider reference for later result lookup.
	RequestSoftCredit(ctx context.Context, req SoftCreditRequest) (string, error)

	// GetResult fetches the outcome for a previously submitted request. An
	// unknown reference yields a pending result rather than an error, so
	// callers treat "not found yet" and "not ready yet" uniformly.
	GetResult(ctx context.Context, providerRef string, kind Kind) (Result, error)
}
