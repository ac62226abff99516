package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_review_repository.go -package mocks github.com/localpulse/localpulse/internal/domain ReviewRepository

// Review reply statuses.
const (
	ReplyStatusNone      = "none"
	ReplyStatusDrafted   = "drafted"
	ReplyStatusPublished = "published"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// Review is a normalized review record from any provider. Reviews are
// upserted idempotently: (source_id, external_id) is unique and re-ingesting
// identical provider data never creates a second row.
type Review struct {
	ID         string `json:"id"`
	SourceID   string `json:"source_id"`
	ProfileID  string `json:"profile_id"`
	Provider   string `json:"provider"`
	ExternalID string `json:"external_id"`

	AuthorName  string    `json:"author_name"`
	Rating      int       `json:"rating"`
	Content     string    `json:"content"`
	ReviewedAt  time.Time `json:"reviewed_at"`
	ReplyStatus string    `json:"reply_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate validates the review
func (r *Review) Validate() error {
	if r.SourceID == "" {
		return fmt.Errorf("source id is required")
	}
	if r.ExternalID == "" {
		return fmt.Errorf("external id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	switch r.ReplyStatus {
	case ReplyStatusNone, ReplyStatusDrafted, ReplyStatusPublished:
	default:
		return fmt.Errorf("invalid reply status: %s", r.ReplyStatus)
	}
	return nil
}

// UpsertResult reports whether an upsert inserted a new row or updated an
// existing one. The notification rule only fires for inserts.
type UpsertResult struct {
	Review   *Review
	Inserted bool
}

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	ProfileID string
	SourceID  string
	MinRating int
	MaxRating int
	Limit     int
	Offset    int
}

// ReviewRepository persists normalized reviews.
type ReviewRepository interface {
	// Upsert inserts or updates a review keyed by (source_id, external_id)
	// and reports whether a new row was created.
	Upsert(ctx context.Context, review *Review) (*UpsertResult, error)

	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*Review, int, error)
	UpdateReplyStatus(ctx context.Context, reviewID, replyStatus string) error
}
