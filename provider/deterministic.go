package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DeterministicName is persisted on screening rows produced by the
// deterministic provider.
const DeterministicName = "deterministic"

// Deterministic is the default provider: no network calls, reproducible
// outcomes keyed off a naming convention in the renter identifier or email.
// Identifiers containing "+fail"/"_fail" fail with high risk, identifiers
// containing "+conditional"/"_conditional" resolve conditional with medium
// risk, everything else passes with low risk.
type Deterministic struct {
	mu      sync.Mutex
	results map[string]Result
	idGen   func() string
	now     func() time.Time
}

// NewDeterministic creates a deterministic provider with an empty owned
// result store. The orchestrator holds one instance per process so references
// issued by RequestMVR/RequestSoftCredit stay resolvable.
func NewDeterministic() *Deterministic {
	return &Deterministic{
		results: make(map[string]Result),
		idGen:   func() string { return uuid.NewString() },
		now:     time.Now,
	}
}

// WithClock overrides the timestamp source used in provider references.
func (d *Deterministic) WithClock(now func() time.Time) *Deterministic {
	d.now = now
	return d
}

// WithIDGenerator overrides the reference suffix generator.
func (d *Deterministic) WithIDGenerator(gen func() string) *Deterministic {
	d.idGen = gen
	return d
}

func (d *Deterministic) Name() string { return DeterministicName }

// RequestMVR resolves the outcome immediately and stores it for GetResult.
func (d *Deterministic) RequestMVR(ctx context.Context, req MVRRequest) (string, error) {
	if req.RenterID == "" {
		return "", &RequestError{Provider: DeterministicName, Kind: KindMVR, Err: fmt.Errorf("missing renter id")}
	}

	outcome, risk := classify(req.RenterID)
	res := Result{
		Status:    StatusComplete,
		Result:    &outcome,
		RiskLevel: &risk,
		Signals:   mvrSignals(outcome),
	}

	return d.store(KindMVR, req.RenterID, res), nil
}

// RequestSoftCredit resolves the outcome immediately and stores it for
// GetResult. The email participates in rule matching when present, so test
// subjects like "user+fail@example.com" behave the same whether the marker is
// in the identifier or the email.
func (d *Deterministic) RequestSoftCredit(ctx context.Context, req SoftCreditRequest) (string, error) {
	if req.RenterID == "" {
		return "", &RequestError{Provider: DeterministicName, Kind: KindSoftCredit, Err: fmt.Errorf("missing renter id")}
	}

	key := req.RenterID
	if req.Email != nil && *req.Email != "" {
		key += " " + *req.Email
	}

	outcome, risk := classify(key)
	res := Result{
		Status:    StatusComplete,
		Result:    &outcome,
		RiskLevel: &risk,
		Signals:   softCreditSignals(outcome),
	}

	return d.store(KindSoftCredit, req.RenterID, res), nil
}

// GetResult returns the stored result for a reference. Unknown references
// come back pending with empty signals instead of erroring.
func (d *Deterministic) GetResult(ctx context.Context, providerRef string, kind Kind) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, ok := d.results[providerRef]
	if !ok {
		return Result{
			Status:      StatusPending,
			Signals:     map[string]any{},
			ProviderRef: providerRef,
		}, nil
	}
	return res, nil
}

func (d *Deterministic) store(kind Kind, renterID string, res Result) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ref := fmt.Sprintf("det-%s-%s-%d-%s", kind, renterID, d.now().UnixNano(), d.idGen())
	res.ProviderRef = ref
	d.results[ref] = res
	return ref
}

// classify applies the naming-convention rules, first match wins.
func classify(key string) (Outcome, RiskLevel) {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "+fail") || strings.Contains(k, "_fail"):
		return OutcomeFail, RiskHigh
	case strings.Contains(k, "+conditional") || strings.Contains(k, "_conditional"):
		return OutcomeConditional, RiskMedium
	default:
		return OutcomePass, RiskLow
	}
}

func mvrSignals(outcome Outcome) map[string]any {
	switch outcome {
	case OutcomeFail:
		return map[string]any{
			"license_status":         "suspended",
			"major_violations_count": 3,
			"fraud_risk":             "high",
		}
	case OutcomeConditional:
		return map[string]any{
			"license_status":         "valid",
			"major_violations_count": 1,
			"fraud_risk":             "medium",
		}
	default:
		return map[string]any{
			"license_status":         "valid",
			"major_violations_count": 0,
			"fraud_risk":             "low",
		}
	}
}

func softCreditSignals(outcome Outcome) map[string]any {
	switch outcome {
	case OutcomeFail:
		return map[string]any{
			"credit_risk_score": 350,
			"payment_behavior":  "poor",
			"fraud_risk":        "high",
		}
	case OutcomeConditional:
		return map[string]any{
			"credit_risk_score": 620,
			"payment_behavior":  "fair",
			"fraud_risk":        "medium",
		}
	default:
		return map[string]any{
			"credit_risk_score": 750,
			"payment_behavior":  "good",
			"fraud_risk":        "low",
		}
	}
}
