package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	domainmocks "github.com/localpulse/localpulse/internal/domain/mocks"
	"github.com/localpulse/localpulse/pkg/logger"
)

type stubChannel struct {
	name  string
	err   error
	sends int
}

func (c *stubChannel) Name() string { return c.name }

func (c *stubChannel) Send(ctx context.Context, profile *domain.BusinessProfile, review *domain.Review) error {
	c.sends++
	return c.err
}

func lowRatedReview() *domain.Review {
	return &domain.Review{
		ID:         "rev-1",
		ProfileID:  "prof-1",
		Provider:   domain.ProviderGoogle,
		Rating:     1,
		AuthorName: "Dana",
		Content:    "Cold coffee",
		ReviewedAt: time.Now().UTC(),
	}
}

func TestNotificationService_DispatchesToEnabledChannels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domainmocks.NewMockNotificationRepository(ctrl)
	service := NewNotificationService(repo, logger.NewNopLogger())

	email := &stubChannel{name: domain.NotificationChannelEmail}
	webhook := &stubChannel{name: domain.NotificationChannelWebhook, err: errors.New("endpoint returned status 500")}
	service.RegisterChannel(email)
	service.RegisterChannel(webhook)

	profile := alertingProfile()
	profile.Notifications.Channels = []string{domain.NotificationChannelEmail, domain.NotificationChannelWebhook}

	var recorded *domain.Notification
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, notification *domain.Notification) error {
			recorded = notification
			return nil
		})

	err := service.NotifyLowRating(context.Background(), profile, lowRatedReview())
	require.NoError(t, err)

	assert.Equal(t, 1, email.sends)
	assert.Equal(t, 1, webhook.sends)

	require.NotNil(t, recorded)
	assert.Equal(t, domain.NotificationKindLowRating, recorded.Kind)
	assert.Equal(t, "rev-1", recorded.ReviewID)
	require.Len(t, recorded.Channels, 2)
	assert.True(t, recorded.Channels[0].Success)
	assert.False(t, recorded.Channels[1].Success)
	assert.Contains(t, recorded.Channels[1].Error, "500")
}

func TestNotificationService_UnregisteredChannelRecordedAsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domainmocks.NewMockNotificationRepository(ctrl)
	service := NewNotificationService(repo, logger.NewNopLogger())

	profile := alertingProfile()
	profile.Notifications.Channels = []string{domain.NotificationChannelSES}

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, notification *domain.Notification) error {
			require.Len(t, notification.Channels, 1)
			assert.False(t, notification.Channels[0].Success)
			assert.Equal(t, "channel not configured", notification.Channels[0].Error)
			return nil
		})

	err := service.NotifyLowRating(context.Background(), profile, lowRatedReview())
	require.NoError(t, err)
}
