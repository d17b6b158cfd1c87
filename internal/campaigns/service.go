package campaigns

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
	"github.com/he2-ai/backoffice-backend/pkg/metrics"
)

type profileLister interface {
	ListAll(ctx context.Context) ([]models.UserProfile, error)
}

type subscriptionSnapshotter interface {
	Snapshot(ctx context.Context) ([]demographics.SubscriptionRecord, error)
}

// Service defines the email campaign surface.
type Service interface {
	Create(ctx context.Context, createdBy uuid.UUID, input CreateCampaignInput) (*models.EmailCampaign, error)
	Get(ctx context.Context, id uuid.UUID) (*models.EmailCampaign, error)
	List(ctx context.Context) ([]models.EmailCampaign, error)
	Send(ctx context.Context, id uuid.UUID) (*SendReport, error)
}

// CreateCampaignInput captures a campaign draft.
type CreateCampaignInput struct {
	Subject   string   `json:"subject" validate:"required,max=200"`
	BodyHTML  string   `json:"body_html" validate:"required"`
	Segment   string   `json:"segment" validate:"required"`
	PlanTiers []string `json:"plan_tiers" validate:"omitempty,dive,oneof=seed edge quantum"`
}

// SendReport summarizes a campaign send.
type SendReport struct {
	CampaignID uuid.UUID            `json:"campaign_id"`
	Status     enums.CampaignStatus `json:"status"`
	Recipients int                  `json:"recipients"`
	Failures   int                  `json:"failures"`
}

// ServiceParams groups dependencies for the campaign service.
type ServiceParams struct {
	Repo          Repository
	Mailer        Mailer
	Profiles      profileLister
	Subscriptions subscriptionSnapshotter
	Engine        *demographics.Engine
	Metrics       *metrics.APIMetrics
}

type service struct {
	repo    Repository
	mailer  Mailer
	users   profileLister
	subs    subscriptionSnapshotter
	engine  *demographics.Engine
	metrics *metrics.APIMetrics
	now     func() time.Time
}

// NewService builds a campaign service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("campaign mailer required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile lister required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription snapshotter required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("demographics engine required")
	}
	return &service{
		repo:    params.Repo,
		mailer:  params.Mailer,
		users:   params.Profiles,
		subs:    params.Subscriptions,
		engine:  params.Engine,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, input CreateCampaignInput) (*models.EmailCampaign, error) {
	if createdBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	if strings.TrimSpace(input.BodyHTML) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	if err := ValidateBody(input.BodyHTML); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign body")
	}
	segment, err := enums.ParseUserSegment(input.Segment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid segment")
	}
	tiers := make([]string, 0, len(input.PlanTiers))
	for _, raw := range input.PlanTiers {
		tier, err := enums.ParsePlanTier(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan tier")
		}
		tiers = append(tiers, string(tier))
	}

	campaign := &models.EmailCampaign{
		CreatedBy: createdBy,
		Subject:   strings.TrimSpace(input.Subject),
		BodyHTML:  input.BodyHTML,
		Segment:   segment,
		PlanTiers: tiers,
		Status:    enums.CampaignStatusDraft,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create campaign")
	}
	return campaign, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.EmailCampaign, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	return campaign, nil
}

func (s *service) List(ctx context.Context) ([]models.EmailCampaign, error) {
	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
	}
	return campaigns, nil
}

// Send delivers a draft campaign to its audience. Per-recipient failures do
// not abort the send; the campaign ends up sent when at least one message
// went out, failed otherwise.
func (s *service) Send(ctx context.Context, id uuid.UUID) (*SendReport, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status != enums.CampaignStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "campaign has already been sent")
	}

	recipients, err := s.resolveRecipients(ctx, campaign)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign audience is empty")
	}

	campaign.Status = enums.CampaignStatusSending
	campaign.RecipientCount = len(recipients)
	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark campaign sending")
	}

	failures := 0
	for _, recipient := range recipients {
		body, err := RenderBody(campaign.BodyHTML, recipient.data)
		if err == nil {
			err = s.mailer.Send(ctx, recipient.email, campaign.Subject, body)
		}
		if err != nil {
			failures++
			s.metrics.IncEmailOutcome(false)
			continue
		}
		s.metrics.IncEmailOutcome(true)
	}

	sentAt := s.now()
	campaign.FailureCount = failures
	campaign.SentAt = &sentAt
	campaign.Status = enums.CampaignStatusSent
	if failures == len(recipients) {
		campaign.Status = enums.CampaignStatusFailed
	}
	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize campaign")
	}

	return &SendReport{
		CampaignID: campaign.ID,
		Status:     campaign.Status,
		Recipients: len(recipients),
		Failures:   failures,
	}, nil
}

type recipient struct {
	email string
	data  templateData
}

// resolveRecipients selects the profiles matching the campaign's segment and
// tier filters. Profiles without an email cannot receive anything and are
// skipped.
func (s *service) resolveRecipients(ctx context.Context, campaign *models.EmailCampaign) ([]recipient, error) {
	profiles, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign audience")
	}
	subs, err := s.subs.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subscription snapshot")
	}

	planIndex := demographics.BuildPlanIndex(subs)
	wantTiers := map[string]struct{}{}
	for _, tier := range campaign.PlanTiers {
		wantTiers[tier] = struct{}{}
	}

	var out []recipient
	for i := range profiles {
		profile := &profiles[i]
		if profile.Email == nil || strings.TrimSpace(*profile.Email) == "" {
			continue
		}
		if s.engine.Classify(*profile.Email) != campaign.Segment {
			continue
		}

		tier, ok := planIndex[profile.ID.String()]
		if !ok {
			tier = demographics.TierFromProfile(deref(profile.PlanType))
		}
		if len(wantTiers) > 0 {
			if _, ok := wantTiers[string(tier)]; !ok {
				continue
			}
		}

		out = append(out, recipient{
			email: *profile.Email,
			data: templateData{
				DisplayName: deref(profile.DisplayName),
				Email:       *profile.Email,
				PlanType:    string(tier),
			},
		})
	}
	return out, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
