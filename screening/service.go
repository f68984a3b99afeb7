package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentflow/audit"
	"rentflow/metrics"
	"rentflow/profile"
	"rentflow/provider"
)

// Profiles do not carry a date of birth yet, so providers receive a fixed
// placeholder until the account surface captures one.
const placeholderDateOfBirth = "1990-01-01"

// ConsentChecker is the slice of the consent ledger the orchestrator needs.
type ConsentChecker interface {
	HasPolicyAcceptance(ctx context.Context, userID, policyKey, policyVersion string) (bool, error)
}

// Service orchestrates screening workflows: consent gate, profile load,
// provider invocation, record lifecycle, audit trail, and adverse actions.
// It exclusively owns writes to screening records and adverse actions.
type Service struct {
	repo         Repository
	consents     ConsentChecker
	profiles     profile.Store
	sink         audit.Sink
	prov         provider.ScreeningProvider
	providerName string
	metrics      *metrics.Metrics
}

// RunParams carries the caller context shared by both workflows. IPAddress is
// raw; it is digested before any persisted row sees it.
type RunParams struct {
	RenterID  string
	BookingID *string
	IPAddress string
	UserAgent string
}

// NewService creates the screening orchestrator. The provider name is what
// gets persisted on records; it comes from the same configuration that
// selected prov. Metrics may be nil.
func NewService(repo Repository, consents ConsentChecker, profiles profile.Store, sink audit.Sink, prov provider.ScreeningProvider, providerName string, m *metrics.Metrics) *Service {
	return &Service{
		repo:         repo,
		consents:     consents,
		profiles:     profiles,
		sink:         sink,
		prov:         prov,
		providerName: providerName,
		metrics:      m,
	}
}

// RunMVRScreening executes the motor vehicle record workflow. It requires a
// prior acceptance of the MVR consent policy and a profile with driver's
// license data; both checks run before any record is created or any provider
// is called.
func (s *Service) RunMVRScreening(ctx context.Context, params RunParams) (WorkflowResult, error) {
	if params.RenterID == "" {
		return WorkflowResult{}, fmt.Errorf("screening: missing renter id")
	}

	if err := s.requireConsent(ctx, params.RenterID, PolicyKeyMVRConsent); err != nil {
		return WorkflowResult{}, err
	}

	prof, err := s.loadProfile(ctx, params.RenterID)
	if err != nil {
		return WorkflowResult{}, err
	}
	if prof.DriversLicenseNumber == nil || *prof.DriversLicenseNumber == "" ||
		prof.DriversLicenseState == nil || *prof.DriversLicenseState == "" {
		return WorkflowResult{}, ErrMissingLicenseData
	}

	firstName, lastName := splitName(prof.FullName)

	s.metrics.ScreeningStarted(string(provider.KindMVR))

	rec, err := s.repo.CreateRecord(ctx, CreateRecordParams{
		RenterID:  params.RenterID,
		BookingID: params.BookingID,
		Type:      provider.KindMVR,
		Provider:  s.providerName,
	})
	if err != nil {
		return WorkflowResult{}, err
	}

	ref, err := s.prov.RequestMVR(ctx, provider.MVRRequest{
		RenterID:      params.RenterID,
		BookingID:     params.BookingID,
		FirstName:     firstName,
		LastName:      lastName,
		DateOfBirth:   placeholderDateOfBirth,
		LicenseNumber: *prof.DriversLicenseNumber,
		LicenseState:  *prof.DriversLicenseState,
	})
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "mvr_screening", err)
	}

	// Transition results go to a fresh variable so a repository error leaves
	// rec pointing at the created row for the failure path.
	updated, err := s.repo.MarkPending(ctx, rec.ID, ref)
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "mvr_screening", err)
	}
	rec = updated

	res, err := s.prov.GetResult(ctx, ref, provider.KindMVR)
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "mvr_screening", err)
	}

	updated, err = s.repo.Finalize(ctx, FinalizeParams{
		RecordID:  rec.ID,
		Status:    Status(res.Status),
		Result:    res.Result,
		RiskLevel: res.RiskLevel,
		Signals:   res.Signals,
	})
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "mvr_screening", err)
	}
	rec = updated

	if err := s.auditSuccess(ctx, rec, params, "mvr_screening_completed"); err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "mvr_screening", err)
	}
	s.metrics.ScreeningCompleted(string(provider.KindMVR), outcomeLabel(rec.Result))

	// The MVR trigger is deliberately narrower than the soft-credit one:
	// a fail only escalates when the provider also flags high fraud risk.
	if rec.Result != nil && *rec.Result == provider.OutcomeFail && signalString(rec.Signals, "fraud_risk") == "high" {
		if _, err := s.createAdverseAction(ctx, rec, []string{ReasonFraudRiskHigh}); err != nil {
			return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "mvr_screening", err)
		}
	}

	return workflowResult(rec), nil
}

// RunSoftCreditScreening executes the soft credit workflow. The reason is a
// free-text justification stored in the record's signals; it survives the
// merge with provider signals.
func (s *Service) RunSoftCreditScreening(ctx context.Context, params RunParams, reason string) (WorkflowResult, error) {
	if params.RenterID == "" {
		return WorkflowResult{}, fmt.Errorf("screening: missing renter id")
	}
	if strings.TrimSpace(reason) == "" {
		return WorkflowResult{}, fmt.Errorf("screening: soft credit reason is required")
	}

	if err := s.requireConsent(ctx, params.RenterID, PolicyKeySoftCreditConsent); err != nil {
		return WorkflowResult{}, err
	}

	prof, err := s.loadProfile(ctx, params.RenterID)
	if err != nil {
		return WorkflowResult{}, err
	}

	firstName, lastName := splitName(prof.FullName)

	s.metrics.ScreeningStarted(string(provider.KindSoftCredit))

	rec, err := s.repo.CreateRecord(ctx, CreateRecordParams{
		RenterID:  params.RenterID,
		BookingID: params.BookingID,
		Type:      provider.KindSoftCredit,
		Provider:  s.providerName,
		Signals:   map[string]any{"reason": reason},
	})
	if err != nil {
		return WorkflowResult{}, err
	}

	ref, err := s.prov.RequestSoftCredit(ctx, provider.SoftCreditRequest{
		RenterID:    params.RenterID,
		BookingID:   params.BookingID,
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: placeholderDateOfBirth,
		Email:       prof.Email,
	})
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "soft_credit_screening", err)
	}

	updated, err := s.repo.MarkPending(ctx, rec.ID, ref)
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "soft_credit_screening", err)
	}
	rec = updated

	res, err := s.prov.GetResult(ctx, ref, provider.KindSoftCredit)
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "soft_credit_screening", err)
	}

	// Provider signals come first; the reason is re-applied afterwards so a
	// provider echoing its own "reason" key cannot clobber the stored one.
	merged := make(map[string]any, len(res.Signals)+1)
	for k, v := range res.Signals {
		merged[k] = v
	}
	merged["reason"] = reason

	updated, err = s.repo.Finalize(ctx, FinalizeParams{
		RecordID:  rec.ID,
		Status:    Status(res.Status),
		Result:    res.Result,
		RiskLevel: res.RiskLevel,
		Signals:   merged,
	})
	if err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "soft_credit_screening", err)
	}
	rec = updated

	if err := s.auditSuccess(ctx, rec, params, "soft_credit_screening_completed"); err != nil {
		return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "soft_credit_screening", err)
	}
	s.metrics.ScreeningCompleted(string(provider.KindSoftCredit), outcomeLabel(rec.Result))

	if rec.Result != nil && *rec.Result == provider.OutcomeFail {
		if _, err := s.createAdverseAction(ctx, rec, []string{ReasonCreditRiskHigh}); err != nil {
			return WorkflowResult{}, s.failWorkflow(ctx, rec, params, "soft_credit_screening", err)
		}
	}

	return workflowResult(rec), nil
}

// ListScreenings returns the renter's screening history for compliance
// review, optionally limited to one booking.
func (s *Service) ListScreenings(ctx context.Context, renterID string, bookingID *string) ([]Record, error) {
	if renterID == "" {
		return nil, fmt.Errorf("screening: missing renter id")
	}
	return s.repo.ListByRenter(ctx, renterID, bookingID)
}

// ListAdverseActions returns all adverse actions recorded for a renter.
func (s *Service) ListAdverseActions(ctx context.Context, renterID string) ([]AdverseAction, error) {
	if renterID == "" {
		return nil, fmt.Errorf("screening: missing renter id")
	}
	return s.repo.ListAdverseActions(ctx, renterID)
}

// MarkNoticeSent advances an adverse action's notice tracking once the
// delivery surface has sent the notice to the renter.
func (s *Service) MarkNoticeSent(ctx context.Context, adverseActionID string) (AdverseAction, error) {
	if adverseActionID == "" {
		return AdverseAction{}, fmt.Errorf("screening: missing adverse action id")
	}
	return s.repo.UpdateNoticeStatus(ctx, adverseActionID, "sent")
}

func (s *Service) requireConsent(ctx context.Context, renterID, policyKey string) error {
	ok, err := s.consents.HasPolicyAcceptance(ctx, renterID, policyKey, PolicyVersion)
	if err != nil {
		return fmt.Errorf("screening: check consent: %w", err)
	}
	if !ok {
		return ErrConsentRequired
	}
	return nil
}

func (s *Service) loadProfile(ctx context.Context, renterID string) (profile.Profile, error) {
	prof, err := s.profiles.GetProfile(ctx, renterID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("screening: load profile: %w", err)
	}
	return prof, nil
}

// failWorkflow is invoked for any error after record creation. It marks the
// record failed, records an audit failure, and hands the original error back
// unmodified. Cleanup errors never mask the cause.
func (s *Service) failWorkflow(ctx context.Context, rec Record, params RunParams, action string, cause error) error {
	_ = s.repo.MarkFailed(ctx, rec.ID)

	msg := cause.Error()
	_ = s.sink.LogEvent(ctx, audit.Event{
		UserID:       params.RenterID,
		Action:       action + "_failed",
		ResourceType: "renter_screenings",
		ResourceID:   rec.ID,
		Details:      auditDetails(rec, params),
		IPHash:       audit.HashIP(params.IPAddress),
		UserAgent:    userAgentPtr(params.UserAgent),
		Success:      false,
		ErrorMessage: &msg,
	})

	s.metrics.ScreeningFailed(string(rec.Type))
	return cause
}

func (s *Service) auditSuccess(ctx context.Context, rec Record, params RunParams, action string) error {
	details := auditDetails(rec, params)
	details["result"] = outcomeLabel(rec.Result)
	if rec.RiskLevel != nil {
		details["risk_level"] = string(*rec.RiskLevel)
	}

	err := s.sink.LogEvent(ctx, audit.Event{
		UserID:       params.RenterID,
		Action:       action,
		ResourceType: "renter_screenings",
		ResourceID:   rec.ID,
		Details:      details,
		IPHash:       audit.HashIP(params.IPAddress),
		UserAgent:    userAgentPtr(params.UserAgent),
		Success:      true,
	})
	if err != nil {
		return fmt.Errorf("screening: audit event: %w", err)
	}
	return nil
}

func (s *Service) createAdverseAction(ctx context.Context, rec Record, reasons []string) (AdverseAction, error) {
	action, err := s.repo.CreateAdverseAction(ctx, CreateAdverseActionParams{
		RenterID:    rec.RenterID,
		BookingID:   rec.BookingID,
		ScreeningID: rec.ID,
		ReasonCodes: reasons,
		Provider:    rec.Provider,
	})
	if err != nil {
		return AdverseAction{}, err
	}
	for _, reason := range reasons {
		s.metrics.AdverseActionCreated(reason)
	}
	return action, nil
}

func auditDetails(rec Record, params RunParams) map[string]any {
	details := map[string]any{
		"screening_type": string(rec.Type),
		"provider":       rec.Provider,
	}
	if params.BookingID != nil {
		details["booking_id"] = *params.BookingID
	}
	return details
}

// splitName divides a display name on the first whitespace run: first token
// is the first name, the remainder the last name. Single-token and empty
// names yield empty components; callers accept the simplification.
func splitName(fullName string) (string, string) {
	fields := strings.Fields(fullName)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// signalString reads a string-valued signal, treating missing keys and
// non-string values as absent.
func signalString(signals map[string]any, key string) string {
	v, ok := signals[key].(string)
	if !ok {
		return ""
	}
	return v
}

func workflowResult(rec Record) WorkflowResult {
	return WorkflowResult{
		ScreeningID: rec.ID,
		Status:      rec.Status,
		Result:      rec.Result,
		RiskLevel:   rec.RiskLevel,
	}
}

func outcomeLabel(outcome *provider.Outcome) string {
	if outcome == nil {
		return ""
	}
	return string(*outcome)
}

func userAgentPtr(userAgent string) *string {
	if userAgent == "" {
		return nil
	}
	return &userAgent
}
