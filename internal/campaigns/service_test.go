package campaigns

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
)

type fakeRepository struct {
	campaigns map[uuid.UUID]*models.EmailCampaign
	updates   []enums.CampaignStatus
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{campaigns: map[uuid.UUID]*models.EmailCampaign{}}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, campaign *models.EmailCampaign) error {
	if campaign.ID == uuid.Nil {
		campaign.ID = uuid.New()
	}
	f.campaigns[campaign.ID] = campaign
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.EmailCampaign, error) {
	if campaign, ok := f.campaigns[id]; ok {
		return campaign, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context) ([]models.EmailCampaign, error) { return nil, nil }

func (f *fakeRepository) Update(ctx context.Context, campaign *models.EmailCampaign) error {
	f.campaigns[campaign.ID] = campaign
	f.updates = append(f.updates, campaign.Status)
	return nil
}

type fakeMailer struct {
	sent   []string
	failTo string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if to == f.failTo {
		return errors.New("smtp rejected")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeProfiles struct {
	profiles []models.UserProfile
}

func (f *fakeProfiles) ListAll(ctx context.Context) ([]models.UserProfile, error) {
	return f.profiles, nil
}

type fakeSubs struct {
	records []demographics.SubscriptionRecord
}

func (f *fakeSubs) Snapshot(ctx context.Context) ([]demographics.SubscriptionRecord, error) {
	return f.records, nil
}

func strptr(value string) *string { return &value }

func newTestService(t *testing.T, repo Repository, mailer Mailer, profiles []models.UserProfile, subs []demographics.SubscriptionRecord) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:          repo,
		Mailer:        mailer,
		Profiles:      &fakeProfiles{profiles: profiles},
		Subscriptions: &fakeSubs{records: subs},
		Engine:        demographics.NewEngine([]string{"he2.ai", "he2.app"}, nil),
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_CreateValidates(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), &fakeMailer{}, nil, nil)

	cases := []struct {
		name  string
		input CreateCampaignInput
	}{
		{"missing subject", CreateCampaignInput{BodyHTML: "<p>x</p>", Segment: "external"}},
		{"missing body", CreateCampaignInput{Subject: "Hello", Segment: "external"}},
		{"broken template", CreateCampaignInput{Subject: "Hello", BodyHTML: "{{.Oops", Segment: "external"}},
		{"bad segment", CreateCampaignInput{Subject: "Hello", BodyHTML: "<p>x</p>", Segment: "everyone"}},
		{"bad tier", CreateCampaignInput{Subject: "Hello", BodyHTML: "<p>x</p>", Segment: "external", PlanTiers: []string{"gold"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), tc.input)
			var coded *pkgerrors.Error
			if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_SendFiltersAudience(t *testing.T) {
	repo := newFakeRepository()
	mailer := &fakeMailer{}

	edgeUser := uuid.New()
	profiles := []models.UserProfile{
		{ID: edgeUser, Email: strptr("b@external.com"), DisplayName: strptr("Dana"), CreatedAt: time.Now()},
		{ID: uuid.New(), Email: strptr("c@external.com"), PlanType: strptr("seed"), CreatedAt: time.Now()},
		{ID: uuid.New(), Email: strptr("a@he2.ai"), PlanType: strptr("edge"), CreatedAt: time.Now()},
		{ID: uuid.New(), CreatedAt: time.Now()}, // no email
	}
	subs := []demographics.SubscriptionRecord{
		{UserID: edgeUser.String(), Status: enums.SubscriptionStatusActive, PlanName: "Edge Monthly", CreatedAt: time.Now()},
	}
	svc := newTestService(t, repo, mailer, profiles, subs)

	campaign, err := svc.Create(context.Background(), uuid.New(), CreateCampaignInput{
		Subject:   "Edge news",
		BodyHTML:  "<p>Hi {{.DisplayName}}</p>",
		Segment:   "external",
		PlanTiers: []string{"edge"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	report, err := svc.Send(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if report.Recipients != 1 || report.Failures != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "b@external.com" {
		t.Fatalf("expected send to the external edge user only, got %v", mailer.sent)
	}
	if report.Status != enums.CampaignStatusSent {
		t.Fatalf("status = %s, want sent", report.Status)
	}
}

func TestService_SendCountsFailures(t *testing.T) {
	repo := newFakeRepository()
	mailer := &fakeMailer{failTo: "c@external.com"}

	profiles := []models.UserProfile{
		{ID: uuid.New(), Email: strptr("b@external.com"), CreatedAt: time.Now()},
		{ID: uuid.New(), Email: strptr("c@external.com"), CreatedAt: time.Now()},
	}
	svc := newTestService(t, repo, mailer, profiles, nil)

	campaign, _ := svc.Create(context.Background(), uuid.New(), CreateCampaignInput{
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
		Segment:  "external",
	})

	report, err := svc.Send(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if report.Recipients != 2 || report.Failures != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Status != enums.CampaignStatusSent {
		t.Fatalf("partial failure should still finish sent, got %s", report.Status)
	}

	stored := repo.campaigns[campaign.ID]
	if stored.FailureCount != 1 || stored.SentAt == nil {
		t.Fatalf("failure count and sent time not persisted: %+v", stored)
	}
}

func TestService_SendAllFailedMarksFailed(t *testing.T) {
	repo := newFakeRepository()
	mailer := &fakeMailer{failTo: "b@external.com"}

	profiles := []models.UserProfile{
		{ID: uuid.New(), Email: strptr("b@external.com"), CreatedAt: time.Now()},
	}
	svc := newTestService(t, repo, mailer, profiles, nil)

	campaign, _ := svc.Create(context.Background(), uuid.New(), CreateCampaignInput{
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
		Segment:  "external",
	})

	report, err := svc.Send(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if report.Status != enums.CampaignStatusFailed {
		t.Fatalf("status = %s, want failed", report.Status)
	}
}

func TestService_SendIsNotRepeatable(t *testing.T) {
	repo := newFakeRepository()
	profiles := []models.UserProfile{
		{ID: uuid.New(), Email: strptr("b@external.com"), CreatedAt: time.Now()},
	}
	svc := newTestService(t, repo, &fakeMailer{}, profiles, nil)

	campaign, _ := svc.Create(context.Background(), uuid.New(), CreateCampaignInput{
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
		Segment:  "external",
	})
	if _, err := svc.Send(context.Background(), campaign.ID); err != nil {
		t.Fatalf("first send: %v", err)
	}

	_, err := svc.Send(context.Background(), campaign.ID)
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on resend, got %v", err)
	}
}

func TestService_SendEmptyAudience(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), &fakeMailer{}, nil, nil)

	campaign, _ := svc.Create(context.Background(), uuid.New(), CreateCampaignInput{
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
		Segment:  "external",
	})

	_, err := svc.Send(context.Background(), campaign.ID)
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty audience, got %v", err)
	}
	if !strings.Contains(coded.Message(), "empty") {
		t.Fatalf("unexpected message: %s", coded.Message())
	}
}
