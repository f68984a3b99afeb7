package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentflow/provider"
)

// Repository handles data access for screening records and adverse actions.
// Only the orchestrator writes through it; other components get read access
// via the summary and listing queries.
type Repository interface {
	CreateRecord(ctx context.Context, params CreateRecordParams) (Record, error)
	MarkPending(ctx context.Context, recordID, providerRef string) (Record, error)
	Finalize(ctx context.Context, params FinalizeParams) (Record, error)
	MarkFailed(ctx context.Context, recordID string) error
	ListByRenter(ctx context.Context, renterID string, bookingID *string) ([]Record, error)
	CreateAdverseAction(ctx context.Context, params CreateAdverseActionParams) (AdverseAction, error)
	ListAdverseActions(ctx context.Context, renterID string) ([]AdverseAction, error)
	UpdateNoticeStatus(ctx context.Context, adverseActionID, noticeStatus string) (AdverseAction, error)
}

// CreateRecordParams contains write parameters for a new screening record.
type CreateRecordParams struct {
	RenterID  string
	BookingID *string
	Type      provider.Kind
	Provider  string
	Signals   map[string]any
}

// FinalizeParams carries the outcome applied to a pending record.
type FinalizeParams struct {
	RecordID  string
	Status    Status
	Result    *provider.Outcome
	RiskLevel *provider.RiskLevel
	Signals   map[string]any
}

// CreateAdverseActionParams contains write parameters for an adverse action.
type CreateAdverseActionParams struct {
	RenterID    string
	BookingID   *string
	ScreeningID string
	ReasonCodes []string
	Provider    string
}

// PGRepository implements Repository backed by PostgreSQL. Status updates
// carry the expected prior states in their WHERE clause so records only ever
// advance forward, even under concurrent callers.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed screening repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordColumns = `id, renter_id, booking_id, screening_type, provider, status, provider_ref, result, risk_level, signals, created_at, updated_at`

// CreateRecord inserts a new screening row in requested state.
func (r *PGRepository) CreateRecord(ctx context.Context, params CreateRecordParams) (Record, error) {
	if params.RenterID == "" {
		return Record{}, fmt.Errorf("screening: missing renter id")
	}
	if params.Type != provider.KindMVR && params.Type != provider.KindSoftCredit {
		return Record{}, fmt.Errorf("screening: invalid screening type %q", params.Type)
	}
	if params.Provider == "" {
		return Record{}, fmt.Errorf("screening: missing provider name")
	}

	signalsJSON, err := marshalSignals(params.Signals)
	if err != nil {
		return Record{}, err
	}

	insertSQL := fmt.Sprintf(`
		INSERT INTO renter_screenings (renter_id, booking_id, screening_type, provider, status, signals)
		VALUES ($1, $2, $3, $4, 'requested', $5::jsonb)
		RETURNING %s
	`, recordColumns)

	rec, err := scanRecord(r.pool.QueryRow(ctx, insertSQL,
		params.RenterID, params.BookingID, params.Type, params.Provider, signalsJSON))
	if err != nil {
		return Record{}, fmt.Errorf("screening: create record: %w", err)
	}
	return rec, nil
}

// MarkPending stores the provider reference and advances the record from
// requested to pending.
func (r *PGRepository) MarkPending(ctx context.Context, recordID, providerRef string) (Record, error) {
	if providerRef == "" {
		return Record{}, fmt.Errorf("screening: empty provider ref")
	}

	updateSQL := fmt.Sprintf(`
		UPDATE renter_screenings
		SET status = 'pending',
		    provider_ref = $2,
		    updated_at = now()
		WHERE id = $1 AND status = 'requested'
		RETURNING %s
	`, recordColumns)

	rec, err := scanRecord(r.pool.QueryRow(ctx, updateSQL, recordID, providerRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, r.transitionError(ctx, recordID)
		}
		return Record{}, fmt.Errorf("screening: mark pending: %w", err)
	}
	return rec, nil
}

// Finalize applies the provider outcome to a requested or pending record.
func (r *PGRepository) Finalize(ctx context.Context, params FinalizeParams) (Record, error) {
	if params.Status != StatusComplete && params.Status != StatusFailed && params.Status != StatusPending {
		return Record{}, fmt.Errorf("screening: invalid finalize status %q", params.Status)
	}

	signalsJSON, err := marshalSignals(params.Signals)
	if err != nil {
		return Record{}, err
	}

	updateSQL := fmt.Sprintf(`
		UPDATE renter_screenings
		SET status = $2,
		    result = $3,
		    risk_level = $4,
		    signals = $5::jsonb,
		    updated_at = now()
		WHERE id = $1 AND status IN ('requested', 'pending')
		RETURNING %s
	`, recordColumns)

	rec, err := scanRecord(r.pool.QueryRow(ctx, updateSQL,
		params.RecordID, params.Status, params.Result, params.RiskLevel, signalsJSON))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, r.transitionError(ctx, params.RecordID)
		}
		return Record{}, fmt.Errorf("screening: finalize record: %w", err)
	}
	return rec, nil
}

// MarkFailed moves a non-terminal record to failed. Terminal rows are left
// untouched; failing an already-terminal record is not an error so the
// workflow's best-effort cleanup stays idempotent.
func (r *PGRepository) MarkFailed(ctx context.Context, recordID string) error {
	const updateSQL = `
		UPDATE renter_screenings
		SET status = 'failed',
		    updated_at = now()
		WHERE id = $1 AND status IN ('requested', 'pending')
	`

	if _, err := r.pool.Exec(ctx, updateSQL, recordID); err != nil {
		return fmt.Errorf("screening: mark failed: %w", err)
	}
	return nil
}

// ListByRenter returns the renter's screening rows in insertion order. When a
// booking id is given, rows are limited to general screenings (no booking)
// and rows for that booking.
func (r *PGRepository) ListByRenter(ctx context.Context, renterID string, bookingID *string) ([]Record, error) {
	selectSQL := fmt.Sprintf(`
		SELECT %s
		FROM renter_screenings
		WHERE renter_id = $1
		  AND ($2::uuid IS NULL OR booking_id IS NULL OR booking_id = $2::uuid)
		ORDER BY created_at ASC
	`, recordColumns)

	rows, err := r.pool.Query(ctx, selectSQL, renterID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("screening: list by renter: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("screening: scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("screening: iterate records: %w", err)
	}

	return records, nil
}

// CreateAdverseAction inserts a draft adverse action for a failing screening.
func (r *PGRepository) CreateAdverseAction(ctx context.Context, params CreateAdverseActionParams) (AdverseAction, error) {
	if params.RenterID == "" {
		return AdverseAction{}, fmt.Errorf("screening: missing renter id")
	}
	if len(params.ReasonCodes) == 0 {
		return AdverseAction{}, fmt.Errorf("screening: adverse action requires reason codes")
	}

	const insertSQL = `
		INSERT INTO adverse_actions (renter_id, booking_id, screening_id, reason_codes, provider, notice_status)
		VALUES ($1, $2, $3, $4, $5, 'draft')
		RETURNING id, renter_id, booking_id, screening_id, reason_codes, provider, notice_status, created_at, updated_at
	`

	action, err := scanAdverseAction(r.pool.QueryRow(ctx, insertSQL,
		params.RenterID, params.BookingID, params.ScreeningID, params.ReasonCodes, params.Provider))
	if err != nil {
		return AdverseAction{}, fmt.Errorf("screening: create adverse action: %w", err)
	}
	return action, nil
}

// ListAdverseActions returns all adverse actions for a renter, newest first.
func (r *PGRepository) ListAdverseActions(ctx context.Context, renterID string) ([]AdverseAction, error) {
	const selectSQL = `
		SELECT id, renter_id, booking_id, screening_id, reason_codes, provider, notice_status, created_at, updated_at
		FROM adverse_actions
		WHERE renter_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, selectSQL, renterID)
	if err != nil {
		return nil, fmt.Errorf("screening: list adverse actions: %w", err)
	}
	defer rows.Close()

	actions := []AdverseAction{}
	for rows.Next() {
		action, err := scanAdverseAction(rows)
		if err != nil {
			return nil, fmt.Errorf("screening: scan adverse action: %w", err)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("screening: iterate adverse actions: %w", err)
	}

	return actions, nil
}

// UpdateNoticeStatus advances the notice tracking state of an adverse action.
func (r *PGRepository) UpdateNoticeStatus(ctx context.Context, adverseActionID, noticeStatus string) (AdverseAction, error) {
	if noticeStatus == "" {
		return AdverseAction{}, fmt.Errorf("screening: empty notice status")
	}

	const updateSQL = `
		UPDATE adverse_actions
		SET notice_status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, renter_id, booking_id, screening_id, reason_codes, provider, notice_status, created_at, updated_at
	`

	action, err := scanAdverseAction(r.pool.QueryRow(ctx, updateSQL, adverseActionID, noticeStatus))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdverseAction{}, ErrAdverseActionNotFound
		}
		return AdverseAction{}, fmt.Errorf("screening: update notice status: %w", err)
	}
	return action, nil
}

// transitionError distinguishes a missing record from one whose status has
// already advanced past the expected state.
func (r *PGRepository) transitionError(ctx context.Context, recordID string) error {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM renter_screenings WHERE id = $1`, recordID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("screening: inspect record status: %w", err)
	}
	return fmt.Errorf("%w: record %s is %s", ErrInvalidTransition, recordID, status)
}

func marshalSignals(signals map[string]any) ([]byte, error) {
	if signals == nil {
		signals = map[string]any{}
	}
	body, err := json.Marshal(signals)
	if err != nil {
		return nil, fmt.Errorf("screening: marshal signals: %w", err)
	}
	return body, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec        Record
		signalsRaw []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.RenterID,
		&rec.BookingID,
		&rec.Type,
		&rec.Provider,
		&rec.Status,
		&rec.ProviderRef,
		&rec.Result,
		&rec.RiskLevel,
		&signalsRaw,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}

	if len(signalsRaw) > 0 {
		if err := json.Unmarshal(signalsRaw, &rec.Signals); err != nil {
			return Record{}, fmt.Errorf("unmarshal signals: %w", err)
		}
	}
	return rec, nil
}

func scanAdverseAction(row pgx.Row) (AdverseAction, error) {
	var action AdverseAction
	err := row.Scan(
		&action.ID,
		&action.RenterID,
		&action.BookingID,
		&action.ScreeningID,
		&action.ReasonCodes,
		&action.Provider,
		&action.NoticeStatus,
		&action.CreatedAt,
		&action.UpdatedAt,
	)
	if err != nil {
		return AdverseAction{}, err
	}
	return action, nil
}
