package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination mocks/mock_review_response_repository.go -package mocks github.com/localpulse/localpulse/internal/domain ReviewResponseRepository

// Reply tones supported by the draft templates.
const (
	ToneProfessional = "professional"
	ToneFriendly     = "friendly"
	ToneApologetic   = "apologetic"
)

// Response statuses. A response transitions draft -> published exactly once
// per idempotency key.
const (
	ResponseStatusDraft     = "draft"
	ResponseStatusPublished = "published"
)

var (
	// ErrResponseNotFound is returned when a review response does not exist.
	ErrResponseNotFound = errors.New("review response not found")

	// ErrResponseAlreadyPublished is returned on a second publish attempt
	// with the same idempotency key. Callers must treat it as a conflict,
	// not retry.
	ErrResponseAlreadyPublished = errors.New("response already published for this idempotency key")
)

// IsValidTone reports whether the tone is supported.
func IsValidTone(tone string) bool {
	switch tone {
	case ToneProfessional, ToneFriendly, ToneApologetic:
		return true
	}
	return false
}

// ReviewResponse is a drafted or published reply to a review.
type ReviewResponse struct {
	ID       string `json:"id"`
	ReviewID string `json:"review_id"`
	Tone     string `json:"tone"`

	DraftText  string `json:"draft_text"`
	EditedText string `json:"edited_text,omitempty"`
	FinalText  string `json:"final_text,omitempty"`

	IdempotencyKey string `json:"idempotency_key"`
	Status         string `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Validate validates the review response
func (r *ReviewResponse) Validate() error {
	if r.ReviewID == "" {
		return fmt.Errorf("review id is required")
	}
	if !IsValidTone(r.Tone) {
		return fmt.Errorf("unsupported tone: %s", r.Tone)
	}
	if r.IdempotencyKey == "" {
		return fmt.Errorf("idempotency key is required")
	}
	if _, err := uuid.Parse(r.IdempotencyKey); err != nil {
		return fmt.Errorf("idempotency key must be a valid UUID")
	}
	switch r.Status {
	case ResponseStatusDraft, ResponseStatusPublished:
	default:
		return fmt.Errorf("invalid status: %s", r.Status)
	}
	return nil
}

// TextToPublish returns the edited text when present, otherwise the draft.
func (r *ReviewResponse) TextToPublish() string {
	if r.EditedText != "" {
		return r.EditedText
	}
	return r.DraftText
}

// ReviewResponseRepository persists review replies.
type ReviewResponseRepository interface {
	CreateDraft(ctx context.Context, response *ReviewResponse) error
	Update(ctx context.Context, response *ReviewResponse) error
	GetByID(ctx context.Context, id string) (*ReviewResponse, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*ReviewResponse, error)

	// Publish atomically flips a draft to published. It returns
	// ErrResponseAlreadyPublished when the row for this idempotency key has
	// already been published.
	Publish(ctx context.Context, idempotencyKey, finalText string, publishedAt time.Time) error
}
