package service

import (
	"context"
	"fmt"

	"github.com/lithammer/shortuuid/v4"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// NotificationChannel delivers a low-rating alert over one transport.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, profile *domain.BusinessProfile, review *domain.Review) error
}

// NotificationService dispatches low-rating alerts over the channels a
// profile has enabled and records the outcome per channel.
type NotificationService struct {
	notificationRepo domain.NotificationRepository
	channels         map[string]NotificationChannel
	logger           logger.Logger
}

// NewNotificationService creates a notification service with no channels
// registered.
func NewNotificationService(notificationRepo domain.NotificationRepository, log logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		channels:         make(map[string]NotificationChannel),
		logger:           log,
	}
}

// RegisterChannel registers a delivery channel by its name.
func (s *NotificationService) RegisterChannel(channel NotificationChannel) {
	s.channels[channel.Name()] = channel
}

// NotifyLowRating sends one alert for a newly ingested low-rated review.
// Channel failures are recorded but never propagate: a broken webhook must
// not fail the sync job that triggered it.
func (s *NotificationService) NotifyLowRating(ctx context.Context, profile *domain.BusinessProfile, review *domain.Review) error {
	results := domain.ChannelResults{}

	for _, name := range profile.Notifications.Channels {
		channel, ok := s.channels[name]
		if !ok {
			s.logger.WithField("channel", name).Warn("No channel registered, skipping")
			results = append(results, domain.ChannelResult{
				Channel: name,
				Success: false,
				Error:   "channel not configured",
			})
			continue
		}

		result := domain.ChannelResult{Channel: name, Success: true}
		if err := channel.Send(ctx, profile, review); err != nil {
			result.Success = false
			result.Error = err.Error()
			s.logger.WithFields(map[string]interface{}{
				"channel":   name,
				"review_id": review.ID,
				"error":     err.Error(),
			}).Warn("Notification channel delivery failed")
		}
		results = append(results, result)
	}

	notification := &domain.Notification{
		ID:        shortuuid.New(),
		ProfileID: profile.ID,
		Kind:      domain.NotificationKindLowRating,
		ReviewID:  review.ID,
		Channels:  results,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"profile_id": profile.ID,
		"review_id":  review.ID,
		"rating":     review.Rating,
		"channels":   len(results),
	}).Info("Low rating notification dispatched")

	return nil
}

// ListByProfile returns the most recent notifications for a profile.
func (s *NotificationService) ListByProfile(ctx context.Context, profileID string, limit int) ([]*domain.Notification, error) {
	return s.notificationRepo.ListByProfile(ctx, profileID, limit)
}
