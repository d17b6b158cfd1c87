package credits

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
	"github.com/he2-ai/backoffice-backend/pkg/metrics"
)

// maxEntryAmount caps a single ledger mutation.
var maxEntryAmount = decimal.NewFromInt(100000)

// Service defines the credit ledger surface.
type Service interface {
	Record(ctx context.Context, input RecordEntryInput) (*models.CreditEntry, error)
	BulkGrant(ctx context.Context, actorID uuid.UUID, input BulkGrantInput) (*BulkGrantReport, error)
	Balance(ctx context.Context, userID uuid.UUID) (*BalanceResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.CreditEntry, error)
}

// RecordEntryInput captures one ledger mutation.
type RecordEntryInput struct {
	UserID   uuid.UUID             `json:"user_id"`
	ActorID  uuid.UUID             `json:"-"`
	Type     enums.CreditEntryType `json:"type"`
	Amount   decimal.Decimal       `json:"amount"`
	Note     string                `json:"note"`
	Metadata json.RawMessage       `json:"metadata"`
}

// BulkGrantInput grants the same amount to many users at once.
type BulkGrantInput struct {
	UserIDs []uuid.UUID     `json:"user_ids" validate:"required,min=1,max=500"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note"`
}

// BulkGrantReport summarizes a bulk grant.
type BulkGrantReport struct {
	Granted int         `json:"granted"`
	Failed  []uuid.UUID `json:"failed,omitempty"`
}

// BalanceResponse is a user's current balance with entry count.
type BalanceResponse struct {
	UserID  uuid.UUID       `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
	Entries int             `json:"entries"`
}

type service struct {
	repo    Repository
	metrics *metrics.APIMetrics
}

// NewService builds a credit ledger service.
func NewService(repo Repository, apiMetrics *metrics.APIMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("credits repository required")
	}
	return &service{repo: repo, metrics: apiMetrics}, nil
}

func (s *service) Record(ctx context.Context, input RecordEntryInput) (*models.CreditEntry, error) {
	if err := validateEntry(input); err != nil {
		return nil, err
	}

	entry := &models.CreditEntry{
		UserID:   input.UserID,
		ActorID:  input.ActorID,
		Type:     input.Type,
		Amount:   signedAmount(input.Type, input.Amount),
		Metadata: input.Metadata,
	}
	if input.Note != "" {
		entry.Note = &input.Note
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record credit entry")
	}
	return entry, nil
}

// BulkGrant credits each listed user independently. A failed grant does not
// roll back the others; the report names the users that still need one.
func (s *service) BulkGrant(ctx context.Context, actorID uuid.UUID, input BulkGrantInput) (*BulkGrantReport, error) {
	if len(input.UserIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one user id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.Amount.GreaterThan(maxEntryAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount exceeds the per-entry cap")
	}

	report := &BulkGrantReport{}
	var combined error
	for _, userID := range input.UserIDs {
		entry := &models.CreditEntry{
			UserID:  userID,
			ActorID: actorID,
			Type:    enums.CreditEntryTypeGrant,
			Amount:  input.Amount,
		}
		if input.Note != "" {
			note := input.Note
			entry.Note = &note
		}
		if err := s.repo.Create(ctx, entry); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("grant %s: %w", userID, err))
			report.Failed = append(report.Failed, userID)
			s.metrics.IncBulkOutcome("bulk_grant", false)
			continue
		}
		report.Granted++
		s.metrics.IncBulkOutcome("bulk_grant", true)
	}

	if combined != nil && report.Granted == 0 {
		return report, pkgerrors.Wrap(pkgerrors.CodeInternal, combined, "bulk grant failed")
	}
	return report, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*BalanceResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	entries, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load credit history")
	}

	balance := decimal.Zero
	for _, entry := range entries {
		balance = balance.Add(entry.Amount)
	}
	return &BalanceResponse{UserID: userID, Balance: balance, Entries: len(entries)}, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]models.CreditEntry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	entries, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load credit history")
	}
	return entries, nil
}

func validateEntry(input RecordEntryInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid entry type %q", input.Type))
	}
	switch input.Type {
	case enums.CreditEntryTypeAdjustment:
		if input.Amount.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "adjustment amount must be non-zero")
		}
	default:
		if !input.Amount.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
	}
	if input.Amount.Abs().GreaterThan(maxEntryAmount) {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount exceeds the per-entry cap")
	}
	return nil
}

// signedAmount stores deductions as negative ledger rows so a balance is a
// plain sum. Adjustments keep their caller-provided sign.
func signedAmount(entryType enums.CreditEntryType, amount decimal.Decimal) decimal.Decimal {
	if entryType == enums.CreditEntryTypeDeduct {
		return amount.Neg()
	}
	return amount
}
