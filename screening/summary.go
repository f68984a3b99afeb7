package screening

import (
	"context"
	"fmt"

	"rentflow/provider"
)

// Summary folds the renter's screening rows into the latest outcome per
// screening type, for consumption by external approval logic. Rows arrive in
// store insertion order and the last row per type wins; no stronger ordering
// is enforced here. Types never screened are left nil.
func (s *Service) Summary(ctx context.Context, renterID string, bookingID *string) (Summary, error) {
	if renterID == "" {
		return Summary{}, fmt.Errorf("screening: missing renter id")
	}

	records, err := s.repo.ListByRenter(ctx, renterID, bookingID)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, rec := range records {
		entry := &TypeSummary{
			Status:    rec.Status,
			Result:    rec.Result,
			RiskLevel: rec.RiskLevel,
		}
		switch rec.Type {
		case provider.KindMVR:
			summary.MVR = entry
		case provider.KindSoftCredit:
			summary.SoftCredit = entry
		}
	}

	return summary, nil
}
