package consent

import "time"

// Type identifies which screening a consent covers.
type Type string

const (
	TypeMVR        Type = "mvr"
	TypeSoftCredit Type = "soft_credit"
)

// PolicyAcceptance records a user's acceptance of one policy version.
// At most one row exists per (user, policy key, policy version);
// re-acceptance refreshes the existing row.
type PolicyAcceptance struct {
	ID            string
	UserID        string
	PolicyKey     string
	PolicyVersion string
	IPHash        *string
	UserAgent     *string
	AcceptedAt    time.Time
}

// ScreeningConsent records consent to run a specific screening type. A nil
// BookingID means general consent not tied to one rental. At most one row
// exists per (user, booking, consent type, policy version).
type ScreeningConsent struct {
	ID            string
	UserID        string
	BookingID     *string
	ConsentType   Type
	PolicyKey     string
	PolicyVersion string
	IPHash        *string
	UserAgent     *string
	ConsentedAt   time.Time
}
