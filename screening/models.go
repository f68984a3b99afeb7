package screening

import (
	"time"

	"rentflow/provider"
)

// Status is the lifecycle of a screening record. It only moves forward:
// requested -> pending -> complete or failed. Terminal rows are immutable; a
// fresh attempt creates a new row.
type Status string

const (
	StatusRequested Status = "requested"
	StatusPending   Status = "pending"
	StatusComplete  Status = "complete"
	StatusFailed    Status = "failed"
)

// Consent policy keys gating each workflow. Versions advance when the policy
// text changes.
const (
	PolicyKeyMVRConsent        = "renter_mvr_consent_v1"
	PolicyKeySoftCreditConsent = "renter_soft_credit_consent_v1"
	PolicyVersion              = "1.0"
)

// Adverse action reason codes.
const (
	ReasonFraudRiskHigh  = "fraud_risk_high"
	ReasonCreditRiskHigh = "credit_risk_high"
)

// NoticeStatusDraft is the initial notice state of every adverse action.
// Delivery surfaces advance it once a notice goes out.
const NoticeStatusDraft = "draft"

// Record mirrors the renter_screenings table. Signals holds provider-specific
// findings; the pending state exists so an asynchronous vendor integration
// can land without schema changes even though current providers resolve
// synchronously.
type Record struct {
	ID          string
	RenterID    string
	BookingID   *string
	Type        provider.Kind
	Provider    string
	Status      Status
	ProviderRef *string
	Result      *provider.Outcome
	RiskLevel   *provider.RiskLevel
	Signals     map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AdverseAction mirrors the adverse_actions table. One row is created per
// failing screening event that meets the trigger condition for its type.
type AdverseAction struct {
	ID           string
	RenterID     string
	BookingID    *string
	ScreeningID  string
	ReasonCodes  []string
	Provider     string
	NoticeStatus string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkflowResult is returned to callers of the screening workflows.
type WorkflowResult struct {
	ScreeningID string
	Status      Status
	Result      *provider.Outcome
	RiskLevel   *provider.RiskLevel
}

// TypeSummary is the latest observed outcome for one screening type.
type TypeSummary struct {
	Status    Status
	Result    *provider.Outcome
	RiskLevel *provider.RiskLevel
}

// Summary aggregates the latest screening outcomes for a renter. A type never
// screened is nil rather than zero-valued.
type Summary struct {
	MVR        *TypeSummary
	SoftCredit *TypeSummary
}
