package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	domainmocks "github.com/localpulse/localpulse/internal/domain/mocks"
	"github.com/localpulse/localpulse/pkg/logger"
)

func TestAnalyzeReview_Positive(t *testing.T) {
	sentiment := AnalyzeReview(&domain.Review{
		ID:      "rev-1",
		Rating:  5,
		Content: "Amazing food, friendly staff and great atmosphere",
	})

	assert.Equal(t, domain.SentimentPositive, sentiment.Label)
	assert.Greater(t, sentiment.Score, 0.2)
	assert.ElementsMatch(t, []string{"food", "service", "atmosphere"}, []string(sentiment.Themes))
	require.NoError(t, sentiment.Validate())
}

func TestAnalyzeReview_Negative(t *testing.T) {
	sentiment := AnalyzeReview(&domain.Review{
		ID:      "rev-2",
		Rating:  1,
		Content: "Terrible. We waited an hour and the food was cold and overpriced",
	})

	assert.Equal(t, domain.SentimentNegative, sentiment.Label)
	assert.Less(t, sentiment.Score, -0.2)
	assert.Contains(t, []string(sentiment.Themes), "wait")
	assert.Contains(t, []string(sentiment.Themes), "price")
}

func TestAnalyzeReview_RatingFallback(t *testing.T) {
	// No lexicon words, the star rating decides.
	high := AnalyzeReview(&domain.Review{ID: "rev-3", Rating: 5, Content: "ok then"})
	assert.Equal(t, domain.SentimentPositive, high.Label)
	assert.InDelta(t, 1.0, high.Score, 0.001)

	low := AnalyzeReview(&domain.Review{ID: "rev-4", Rating: 1, Content: ""})
	assert.Equal(t, domain.SentimentNegative, low.Label)
	assert.InDelta(t, -1.0, low.Score, 0.001)

	mid := AnalyzeReview(&domain.Review{ID: "rev-5", Rating: 3, Content: "it exists"})
	assert.Equal(t, domain.SentimentNeutral, mid.Label)
}

func TestSentimentService_AnalyzeAndStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domainmocks.NewMockReviewSentimentRepository(ctrl)
	service := NewSentimentService(repo, logger.NewNopLogger())

	repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sentiment *domain.ReviewSentiment) error {
			assert.Equal(t, "rev-1", sentiment.ReviewID)
			assert.Equal(t, domain.SentimentPositive, sentiment.Label)
			return nil
		})

	err := service.AnalyzeAndStore(context.Background(), &domain.Review{
		ID:      "rev-1",
		Rating:  5,
		Content: "Excellent service",
	})
	require.NoError(t, err)
}
