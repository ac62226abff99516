package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// positiveWords and negativeWords drive the lexicon-based sentiment score.
var positiveWords = []string{
	"great", "amazing", "excellent", "love", "loved", "perfect", "best",
	"fantastic", "delicious", "friendly", "wonderful", "awesome", "fresh",
	"recommend", "helpful", "clean", "fast", "tasty",
}

var negativeWords = []string{
	"bad", "awful", "terrible", "worst", "horrible", "rude", "slow",
	"cold", "dirty", "disgusting", "overpriced", "disappointed",
	"disappointing", "stale", "wait", "waited", "never again", "avoid",
}

// themeKeywords maps a review theme to the words that signal it.
var themeKeywords = map[string][]string{
	"service":     {"service", "staff", "waiter", "waitress", "server", "rude", "friendly", "helpful"},
	"food":        {"food", "dish", "meal", "taste", "tasty", "delicious", "menu", "flavor", "stale", "fresh"},
	"price":       {"price", "expensive", "cheap", "overpriced", "value", "worth"},
	"wait":        {"wait", "waited", "slow", "queue", "line", "quick", "fast"},
	"cleanliness": {"clean", "dirty", "hygiene", "mess", "spotless"},
	"atmosphere":  {"atmosphere", "ambiance", "cozy", "loud", "noisy", "music", "decor"},
}

// SentimentService derives sentiment for ingested reviews with a lexicon
// scorer, falling back to the star rating for reviews without usable text.
type SentimentService struct {
	sentimentRepo domain.ReviewSentimentRepository
	logger        logger.Logger
}

// NewSentimentService creates a sentiment service.
func NewSentimentService(sentimentRepo domain.ReviewSentimentRepository, log logger.Logger) *SentimentService {
	return &SentimentService{sentimentRepo: sentimentRepo, logger: log}
}

// AnalyzeAndStore computes and upserts sentiment for a review. Recomputing
// on re-ingestion keeps the stored row in step with edited review text.
func (s *SentimentService) AnalyzeAndStore(ctx context.Context, review *domain.Review) error {
	sentiment := AnalyzeReview(review)
	if err := s.sentimentRepo.Upsert(ctx, sentiment); err != nil {
		return fmt.Errorf("failed to store sentiment: %w", err)
	}
	return nil
}

// GetByReviewID returns the stored sentiment for a review.
func (s *SentimentService) GetByReviewID(ctx context.Context, reviewID string) (*domain.ReviewSentiment, error) {
	return s.sentimentRepo.GetByReviewID(ctx, reviewID)
}

// AnalyzeReview scores a single review.
func AnalyzeReview(review *domain.Review) *domain.ReviewSentiment {
	content := strings.ToLower(review.Content)

	positives := countHits(content, positiveWords)
	negatives := countHits(content, negativeWords)

	var score float64
	if positives+negatives > 0 {
		score = float64(positives-negatives) / float64(positives+negatives)
	} else {
		// No lexicon hits, fall back to the star rating.
		score = float64(review.Rating-3) / 2
	}

	label := domain.SentimentNeutral
	switch {
	case score > 0.2:
		label = domain.SentimentPositive
	case score < -0.2:
		label = domain.SentimentNegative
	}

	return &domain.ReviewSentiment{
		ReviewID: review.ID,
		Label:    label,
		Score:    score,
		Themes:   extractThemes(content),
	}
}

func countHits(content string, words []string) int {
	hits := 0
	for _, word := range words {
		hits += strings.Count(content, word)
	}
	return hits
}

func extractThemes(content string) domain.StringSlice {
	themes := domain.StringSlice{}
	for theme, keywords := range themeKeywords {
		for _, keyword := range keywords {
			if strings.Contains(content, keyword) {
				themes = append(themes, theme)
				break
			}
		}
	}
	return themes
}
