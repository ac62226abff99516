package domain

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_review_sentiment_repository.go -package mocks github.com/localpulse/localpulse/internal/domain ReviewSentimentRepository

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// ReviewSentiment is the derived sentiment for a review. It is recomputed
// and upserted every time the review is (re)ingested.
type ReviewSentiment struct {
	ReviewID string      `json:"review_id"`
	Label    string      `json:"label"`
	Score    float64     `json:"score"`
	Themes   StringSlice `json:"themes"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Validate validates the sentiment
func (s *ReviewSentiment) Validate() error {
	if s.ReviewID == "" {
		return fmt.Errorf("review id is required")
	}
	switch s.Label {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return fmt.Errorf("invalid label: %s", s.Label)
	}
	if s.Score < -1 || s.Score > 1 {
		return fmt.Errorf("score must be between -1 and 1")
	}
	return nil
}

// ReviewSentimentRepository persists derived sentiment, one row per review.
type ReviewSentimentRepository interface {
	Upsert(ctx context.Context, sentiment *ReviewSentiment) error
	GetByReviewID(ctx context.Context, reviewID string) (*ReviewSentiment, error)
}
