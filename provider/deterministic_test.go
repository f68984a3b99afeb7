package provider

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDeterministic_MVROutcomeRules(t *testing.T) {
	cases := []struct {
		name        string
		renterID    string
		wantOutcome Outcome
		wantRisk    RiskLevel
		wantSignals map[string]any
	}{
		{
			name:        "fail marker",
			renterID:    "user+fail@example.com",
			wantOutcome: OutcomeFail,
			wantRisk:    RiskHigh,
			wantSignals: map[string]any{
				"license_status":         "suspended",
				"major_violations_count": 3,
				"fraud_risk":             "high",
			},
		},
		{
			name:        "underscore fail marker",
			renterID:    "user_fail@example.com",
			wantOutcome: OutcomeFail,
			wantRisk:    RiskHigh,
			wantSignals: map[string]any{
				"license_status":         "suspended",
				"major_violations_count": 3,
				"fraud_risk":             "high",
			},
		},
		{
			name:        "conditional marker",
			renterID:    "user+conditional@example.com",
			wantOutcome: OutcomeConditional,
			wantRisk:    RiskMedium,
			wantSignals: map[string]any{
				"license_status":         "valid",
				"major_violations_count": 1,
				"fraud_risk":             "medium",
			},
		},
		{
			name:        "uppercase marker still matches",
			renterID:    "USER+FAIL@EXAMPLE.COM",
			wantOutcome: OutcomeFail,
			wantRisk:    RiskHigh,
			wantSignals: map[string]any{
				"license_status":         "suspended",
				"major_violations_count": 3,
				"fraud_risk":             "high",
			},
		},
		{
			name:        "no marker passes",
			renterID:    "user@example.com",
			wantOutcome: OutcomePass,
			wantRisk:    RiskLow,
			wantSignals: map[string]any{
				"license_status":         "valid",
				"major_violations_count": 0,
				"fraud_risk":             "low",
			},
		},
	}

	ctx := context.Background()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDeterministic()

			ref, err := d.RequestMVR(ctx, MVRRequest{
				RenterID:      tc.renterID,
				FirstName:     "Jamie",
				LastName:      "Renter",
				DateOfBirth:   "1990-01-01",
				LicenseNumber: "D1234567",
				LicenseState:  "CA",
			})
			if err != nil {
				t.Fatalf("request mvr: %v", err)
			}
			if ref == "" {
				t.Fatal("expected non-empty provider ref")
			}

			res, err := d.GetResult(ctx, ref, KindMVR)
			if err != nil {
				t.Fatalf("get result: %v", err)
			}
			if res.Status != StatusComplete {
				t.Fatalf("expected complete status, got %s", res.Status)
			}
			if res.Result == nil || *res.Result != tc.wantOutcome {
				t.Fatalf("expected outcome %s, got %v", tc.wantOutcome, res.Result)
			}
			if res.RiskLevel == nil || *res.RiskLevel != tc.wantRisk {
				t.Fatalf("expected risk %s, got %v", tc.wantRisk, res.RiskLevel)
			}
			for key, want := range tc.wantSignals {
				if got := res.Signals[key]; got != want {
					t.Errorf("signal %s: expected %v, got %v", key, want, got)
				}
			}
		})
	}
}

func TestDeterministic_SoftCreditOutcomeRules(t *testing.T) {
	ctx := context.Background()
	d := NewDeterministic()

	ref, err := d.RequestSoftCredit(ctx, SoftCreditRequest{
		RenterID:    "renter-1",
		FirstName:   "Jamie",
		LastName:    "Renter",
		DateOfBirth: "1990-01-01",
	})
	if err != nil {
		t.Fatalf("request soft credit: %v", err)
	}

	res, err := d.GetResult(ctx, ref, KindSoftCredit)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if res.Result == nil || *res.Result != OutcomePass {
		t.Fatalf("expected pass, got %v", res.Result)
	}
	if got := res.Signals["credit_risk_score"]; got != 750 {
		t.Errorf("expected credit score 750, got %v", got)
	}
	if got := res.Signals["payment_behavior"]; got != "good" {
		t.Errorf("expected good payment behavior, got %v", got)
	}
}

func TestDeterministic_SoftCreditMatchesEmail(t *testing.T) {
	ctx := context.Background()
	d := NewDeterministic()

	email := "shopper_conditional@example.com"
	ref, err := d.RequestSoftCredit(ctx, SoftCreditRequest{
		RenterID: "renter-2",
		Email:    &email,
	})
	if err != nil {
		t.Fatalf("request soft credit: %v", err)
	}

	res, err := d.GetResult(ctx, ref, KindSoftCredit)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if res.Result == nil || *res.Result != OutcomeConditional {
		t.Fatalf("expected conditional via email marker, got %v", res.Result)
	}
	if got := res.Signals["credit_risk_score"]; got != 620 {
		t.Errorf("expected credit score 620, got %v", got)
	}
}

func TestDeterministic_UnknownRefIsPending(t *testing.T) {
	d := NewDeterministic()

	res, err := d.GetResult(context.Background(), "no-such-ref", KindMVR)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if res.Status != StatusPending {
		t.Fatalf("expected pending for unknown ref, got %s", res.Status)
	}
	if res.Result != nil {
		t.Errorf("expected nil outcome, got %v", *res.Result)
	}
	if res.Signals == nil || len(res.Signals) != 0 {
		t.Errorf("expected empty signals map, got %v", res.Signals)
	}
}

func TestDeterministic_RefsAreUniqueAndComposite(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDeterministic().WithClock(func() time.Time { return fixed })

	req := MVRRequest{RenterID: "renter-3", LicenseNumber: "X1", LicenseState: "NY"}
	refA, err := d.RequestMVR(ctx, req)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	refB, err := d.RequestMVR(ctx, req)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	if refA == refB {
		t.Fatalf("expected unique refs even with a frozen clock, got %s twice", refA)
	}
	for _, ref := range []string{refA, refB} {
		if !strings.Contains(ref, string(KindMVR)) || !strings.Contains(ref, "renter-3") {
			t.Errorf("expected ref to embed kind and renter id, got %s", ref)
		}
	}
}

func TestDeterministic_WithIDGenerator(t *testing.T) {
	d := NewDeterministic().WithIDGenerator(func() string { return "fixed-suffix" })
	if d.Name() != DeterministicName {
		t.Fatalf("expected name %q, got %q", DeterministicName, d.Name())
	}

	ref, err := d.RequestMVR(context.Background(), MVRRequest{RenterID: "renter-4", LicenseNumber: "X1", LicenseState: "NY"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.HasSuffix(ref, "fixed-suffix") {
		t.Errorf("expected ref to end with injected suffix, got %s", ref)
	}
}

func TestDeterministic_MissingRenterID(t *testing.T) {
	d := NewDeterministic()

	if _, err := d.RequestMVR(context.Background(), MVRRequest{}); err == nil {
		t.Fatal("expected error for missing renter id")
	}
	if _, err := d.RequestSoftCredit(context.Background(), SoftCreditRequest{}); err == nil {
		t.Fatal("expected error for missing renter id")
	}
}
