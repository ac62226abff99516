package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Notifuse/liquidgo/liquid"
	liquidtags "github.com/Notifuse/liquidgo/liquid/tags"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/internal/service/providers"
	"github.com/localpulse/localpulse/pkg/logger"
)

// toneTemplates are the Liquid templates behind each reply tone.
var toneTemplates = map[string]string{
	domain.ToneProfessional: `Dear {{ author_name }},

Thank you for taking the time to review {{ business_name }}. {% if low_rating %}We are sorry your experience did not meet expectations, and we would welcome the chance to make it right.{% else %}We appreciate your feedback and are glad you visited us.{% endif %}

Best regards,
The {{ business_name }} team`,

	domain.ToneFriendly: `Hi {{ author_name }}!

Thanks so much for your review of {{ business_name }}! {% if low_rating %}We're really sorry things weren't up to scratch this time. We'd love another chance to win you over.{% else %}It means a lot to us that you stopped by.{% endif %}

Cheers,
{{ business_name }}`,

	domain.ToneApologetic: `Dear {{ author_name }},

We sincerely apologize for your experience at {{ business_name }}. {% if low_rating %}What you described falls short of the standard we hold ourselves to, and we are taking it seriously.{% else %}We always want to do better, and your feedback helps.{% endif %} Please reach out to us directly so we can make things right.

With apologies,
The {{ business_name }} team`,
}

// DraftPolisher optionally rewrites a templated draft into something more
// specific to the review.
type DraftPolisher interface {
	Polish(ctx context.Context, draft string, review *domain.Review) (string, error)
}

// ReviewResponseService drafts and publishes replies to reviews. Publishing
// is idempotent per idempotency key.
type ReviewResponseService struct {
	responseRepo domain.ReviewResponseRepository
	reviewRepo   domain.ReviewRepository
	sourceRepo   domain.ReviewSourceRepository
	profileRepo  domain.BusinessProfileRepository

	registry  *providers.Registry
	tokens    *SourceTokenService
	polisher  DraftPolisher
	liquidEnv *liquid.Environment
	logger    logger.Logger
}

// NewReviewResponseService creates the response service. polisher may be nil
// when AI polishing is not configured.
func NewReviewResponseService(
	responseRepo domain.ReviewResponseRepository,
	reviewRepo domain.ReviewRepository,
	sourceRepo domain.ReviewSourceRepository,
	profileRepo domain.BusinessProfileRepository,
	registry *providers.Registry,
	tokens *SourceTokenService,
	polisher DraftPolisher,
	log logger.Logger,
) *ReviewResponseService {
	// The default environment carries filters only; the tone templates use
	// {% if %}, so the standard tags must be registered.
	env := liquid.NewEnvironment()
	liquidtags.RegisterStandardTags(env)

	return &ReviewResponseService{
		responseRepo: responseRepo,
		reviewRepo:   reviewRepo,
		sourceRepo:   sourceRepo,
		profileRepo:  profileRepo,
		registry:     registry,
		tokens:       tokens,
		polisher:     polisher,
		liquidEnv:    env,
		logger:       log,
	}
}

// DraftResponse creates a draft reply for a review in the requested tone.
func (s *ReviewResponseService) DraftResponse(ctx context.Context, reviewID, tone string) (*domain.ReviewResponse, error) {
	if !domain.IsValidTone(tone) {
		return nil, fmt.Errorf("unsupported tone: %s", tone)
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByID(ctx, review.ProfileID)
	if err != nil {
		return nil, err
	}

	draft, err := s.renderDraft(tone, profile, review)
	if err != nil {
		return nil, fmt.Errorf("failed to render draft: %w", err)
	}

	if s.polisher != nil {
		polished, err := s.polisher.Polish(ctx, draft, review)
		if err != nil {
			s.logger.WithField("review_id", reviewID).
				Warn("Draft polishing failed, keeping template draft: " + err.Error())
		} else if polished != "" {
			draft = polished
		}
	}

	response := &domain.ReviewResponse{
		ID:             shortuuid.New(),
		ReviewID:       reviewID,
		Tone:           tone,
		DraftText:      draft,
		IdempotencyKey: uuid.NewString(),
		Status:         domain.ResponseStatusDraft,
	}
	if err := response.Validate(); err != nil {
		return nil, err
	}
	if err := s.responseRepo.CreateDraft(ctx, response); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.UpdateReplyStatus(ctx, reviewID, domain.ReplyStatusDrafted); err != nil {
		s.logger.WithField("review_id", reviewID).
			Warn("Failed to mark review as drafted: " + err.Error())
	}

	return response, nil
}

func (s *ReviewResponseService) renderDraft(tone string, profile *domain.BusinessProfile, review *domain.Review) (string, error) {
	author := review.AuthorName
	if author == "" {
		author = "valued customer"
	}

	tmpl, err := liquid.ParseTemplate(toneTemplates[tone], &liquid.TemplateOptions{Environment: s.liquidEnv})
	if err != nil {
		return "", err
	}

	out := tmpl.Render(map[string]interface{}{
		"author_name":   author,
		"business_name": profile.Name,
		"rating":        review.Rating,
		"low_rating":    review.Rating <= 2,
	}, nil)

	// Render reports failures through the template's error list rather than
	// a return value.
	if errs := tmpl.Errors(); len(errs) > 0 {
		return "", errs[0]
	}
	return out, nil
}

// UpdateDraft replaces the edited text (and optionally the tone) of a draft.
func (s *ReviewResponseService) UpdateDraft(ctx context.Context, responseID, tone, editedText string) (*domain.ReviewResponse, error) {
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response.Status != domain.ResponseStatusDraft {
		return nil, domain.ErrResponseAlreadyPublished
	}

	if tone != "" {
		if !domain.IsValidTone(tone) {
			return nil, fmt.Errorf("unsupported tone: %s", tone)
		}
		response.Tone = tone
	}
	response.EditedText = editedText

	if err := s.responseRepo.Update(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetResponse returns a response by id.
func (s *ReviewResponseService) GetResponse(ctx context.Context, responseID string) (*domain.ReviewResponse, error) {
	return s.responseRepo.GetByID(ctx, responseID)
}

// Publish posts the reply to the provider and flips the response to
// published, exactly once per idempotency key. A second call returns
// ErrResponseAlreadyPublished without contacting the provider again.
func (s *ReviewResponseService) Publish(ctx context.Context, idempotencyKey string) (*domain.ReviewResponse, error) {
	response, err := s.responseRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if response.Status == domain.ResponseStatusPublished {
		return nil, domain.ErrResponseAlreadyPublished
	}

	review, err := s.reviewRepo.GetByID(ctx, response.ReviewID)
	if err != nil {
		return nil, err
	}
	source, err := s.sourceRepo.GetByID(ctx, review.SourceID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.EnsureFreshToken(ctx, source)
	if err != nil {
		return nil, err
	}
	client, err := s.registry.Get(review.Provider)
	if err != nil {
		return nil, err
	}

	text := response.TextToPublish()
	if err := client.PublishReply(ctx, accessToken, review.ExternalID, text); err != nil {
		return nil, fmt.Errorf("failed to publish reply: %w", err)
	}

	publishedAt := time.Now().UTC()
	if err := s.responseRepo.Publish(ctx, idempotencyKey, text, publishedAt); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.UpdateReplyStatus(ctx, review.ID, domain.ReplyStatusPublished); err != nil {
		s.logger.WithField("review_id", review.ID).
			Warn("Failed to mark review as replied: " + err.Error())
	}

	response.Status = domain.ResponseStatusPublished
	response.FinalText = text
	response.PublishedAt = &publishedAt

	s.logger.WithFields(map[string]interface{}{
		"response_id": response.ID,
		"review_id":   review.ID,
		"provider":    review.Provider,
	}).Info("Review reply published")

	return response, nil
}
