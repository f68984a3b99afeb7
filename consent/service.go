package consent

import (
	"context"
	"fmt"
)

// Ledger is the consent compliance surface. It validates inputs and delegates
// persistence to the repository; all writes are upserts and safe to retry.
type Ledger struct {
	repo Repository
}

// NewLedger creates a consent ledger service.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// RecordPolicyAcceptance stores the user's acceptance of a policy version,
// replacing any earlier acceptance of the same version.
func (l *Ledger) RecordPolicyAcceptance(ctx context.Context, params UpsertAcceptanceParams) (PolicyAcceptance, error) {
	if params.UserID == "" {
		return PolicyAcceptance{}, fmt.Errorf("consent: missing user id")
	}
	if params.PolicyKey == "" || params.PolicyVersion == "" {
		return PolicyAcceptance{}, fmt.Errorf("consent: policy key and version are required")
	}

	return l.repo.UpsertPolicyAcceptance(ctx, params)
}

// HasPolicyAcceptance reports whether the user accepted the given policy
// version.
func (l *Ledger) HasPolicyAcceptance(ctx context.Context, userID, policyKey, policyVersion string) (bool, error) {
	if userID == "" || policyKey == "" || policyVersion == "" {
		return false, fmt.Errorf("consent: user id, policy key and version are required")
	}
	return l.repo.HasPolicyAcceptance(ctx, userID, policyKey, policyVersion)
}

// LatestPolicyAcceptance returns the most recent acceptance of a policy key.
func (l *Ledger) LatestPolicyAcceptance(ctx context.Context, userID, policyKey string) (PolicyAcceptance, error) {
	if userID == "" || policyKey == "" {
		return PolicyAcceptance{}, fmt.Errorf("consent: user id and policy key are required")
	}
	return l.repo.LatestPolicyAcceptance(ctx, userID, policyKey)
}

// RecordScreeningConsent stores consent to run a specific screening type,
// optionally scoped to a booking.
func (l *Ledger) RecordScreeningConsent(ctx context.Context, params UpsertConsentParams) (ScreeningConsent, error) {
	if params.UserID == "" {
		return ScreeningConsent{}, fmt.Errorf("consent: missing user id")
	}
	if params.ConsentType != TypeMVR && params.ConsentType != TypeSoftCredit {
		return ScreeningConsent{}, fmt.Errorf("consent: invalid consent type %q", params.ConsentType)
	}
	if params.PolicyKey == "" || params.PolicyVersion == "" {
		return ScreeningConsent{}, fmt.Errorf("consent: policy key and version are required")
	}

	return l.repo.UpsertScreeningConsent(ctx, params)
}

// ListScreeningConsents returns all screening consents recorded for a user.
func (l *Ledger) ListScreeningConsents(ctx context.Context, userID string) ([]ScreeningConsent, error) {
	if userID == "" {
		return nil, fmt.Errorf("consent: missing user id")
	}
	return l.repo.ListScreeningConsents(ctx, userID)
}
