package screening

import "errors"

var (
	// ErrConsentRequired signals the renter has not accepted the consent
	// policy gating the workflow. No record is created and no provider is
	// called; the caller obtains consent and retries.
	ErrConsentRequired = errors.New("screening: consent required")
	// ErrProfileNotFound signals the renter has no profile row.
	ErrProfileNotFound = errors.New("screening: renter profile not found")
	// ErrMissingLicenseData signals the renter profile lacks a driver's
	// license number or issuing state required for an MVR check.
	ErrMissingLicenseData = errors.New("screening: missing driver's license data")
	// ErrRecordNotFound signals no screening row exists for the identifier.
	ErrRecordNotFound = errors.New("screening: record not found")
	// ErrInvalidTransition signals an update targeted a record whose status
	// already moved past the expected state. Terminal rows are immutable.
	ErrInvalidTransition = errors.New("screening: invalid status transition")
	// ErrAdverseActionNotFound signals no adverse action row exists for the
	// identifier.
	ErrAdverseActionNotFound = errors.New("screening: adverse action not found")
)
