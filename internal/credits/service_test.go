package credits

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entry *models.CreditEntry) error
	entries  []models.CreditEntry
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, entry *models.CreditEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.CreditEntry, error) {
	var out []models.CreditEntry
	for _, entry := range f.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeRepository) SumByUserID(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range f.entries {
		if entry.UserID == userID {
			total = total.Add(entry.Amount)
		}
	}
	return total, nil
}

func TestService_RecordStoresDeductionsNegative(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	entry, err := svc.Record(context.Background(), RecordEntryInput{
		UserID:  uuid.New(),
		ActorID: uuid.New(),
		Type:    enums.CreditEntryTypeDeduct,
		Amount:  decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(-25)) {
		t.Fatalf("deduction should be stored negative, got %s", entry.Amount)
	}
}

func TestService_RecordValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{}, nil)

	cases := []struct {
		name  string
		input RecordEntryInput
	}{
		{"missing user", RecordEntryInput{ActorID: uuid.New(), Type: enums.CreditEntryTypeGrant, Amount: decimal.NewFromInt(1)}},
		{"missing actor", RecordEntryInput{UserID: uuid.New(), Type: enums.CreditEntryTypeGrant, Amount: decimal.NewFromInt(1)}},
		{"bad type", RecordEntryInput{UserID: uuid.New(), ActorID: uuid.New(), Type: "bonus", Amount: decimal.NewFromInt(1)}},
		{"zero grant", RecordEntryInput{UserID: uuid.New(), ActorID: uuid.New(), Type: enums.CreditEntryTypeGrant}},
		{"negative grant", RecordEntryInput{UserID: uuid.New(), ActorID: uuid.New(), Type: enums.CreditEntryTypeGrant, Amount: decimal.NewFromInt(-5)}},
		{"zero adjustment", RecordEntryInput{UserID: uuid.New(), ActorID: uuid.New(), Type: enums.CreditEntryTypeAdjustment}},
		{"over cap", RecordEntryInput{UserID: uuid.New(), ActorID: uuid.New(), Type: enums.CreditEntryTypeGrant, Amount: decimal.NewFromInt(1000001)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), tc.input)
			var coded *pkgerrors.Error
			if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_RecordAllowsNegativeAdjustment(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo, nil)

	entry, err := svc.Record(context.Background(), RecordEntryInput{
		UserID:  uuid.New(),
		ActorID: uuid.New(),
		Type:    enums.CreditEntryTypeAdjustment,
		Amount:  decimal.NewFromInt(-10),
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("adjustment should keep its sign, got %s", entry.Amount)
	}
}

func TestService_BalanceSumsSignedEntries(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRepository{}
	svc, _ := NewService(repo, nil)

	grants := []RecordEntryInput{
		{UserID: userID, ActorID: uuid.New(), Type: enums.CreditEntryTypeGrant, Amount: decimal.NewFromInt(100)},
		{UserID: userID, ActorID: uuid.New(), Type: enums.CreditEntryTypeDeduct, Amount: decimal.NewFromInt(30)},
		{UserID: userID, ActorID: uuid.New(), Type: enums.CreditEntryTypeAdjustment, Amount: decimal.RequireFromString("-0.50")},
	}
	for _, input := range grants {
		if _, err := svc.Record(context.Background(), input); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	balance, err := svc.Balance(context.Background(), userID)
	if err != nil {
		t.Fatalf("Balance error: %v", err)
	}
	if !balance.Balance.Equal(decimal.RequireFromString("69.50")) {
		t.Fatalf("balance = %s, want 69.50", balance.Balance)
	}
	if balance.Entries != 3 {
		t.Fatalf("entries = %d, want 3", balance.Entries)
	}
}

func TestService_BulkGrantPartialFailure(t *testing.T) {
	bad := uuid.New()
	repo := &fakeRepository{
		createFn: func(ctx context.Context, entry *models.CreditEntry) error {
			if entry.UserID == bad {
				return errors.New("insert failed")
			}
			return nil
		},
	}
	svc, _ := NewService(repo, nil)

	report, err := svc.BulkGrant(context.Background(), uuid.New(), BulkGrantInput{
		UserIDs: []uuid.UUID{uuid.New(), bad},
		Amount:  decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("partial failure should not fail the call: %v", err)
	}
	if report.Granted != 1 || len(report.Failed) != 1 || report.Failed[0] != bad {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestService_BulkGrantRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := NewService(&fakeRepository{}, nil)

	_, err := svc.BulkGrant(context.Background(), uuid.New(), BulkGrantInput{
		UserIDs: []uuid.UUID{uuid.New()},
		Amount:  decimal.Zero,
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
