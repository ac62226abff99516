package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// SESChannel delivers low-rating alerts through Amazon SES.
type SESChannel struct {
	client    sesiface.SESAPI
	fromEmail string
	fromName  string
	logger    logger.Logger
}

// NewSESChannel creates an SES channel using the default credential chain.
func NewSESChannel(region, fromEmail, fromName string, log logger.Logger) (*SESChannel, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &SESChannel{
		client:    ses.New(sess),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    log,
	}, nil
}

// NewSESChannelWithClient creates an SES channel with an explicit client
// (for testing).
func NewSESChannelWithClient(client sesiface.SESAPI, fromEmail, fromName string, log logger.Logger) *SESChannel {
	return &SESChannel{client: client, fromEmail: fromEmail, fromName: fromName, logger: log}
}

func (c *SESChannel) Name() string {
	return domain.NotificationChannelSES
}

// Send emails the profile's alert address through SES.
func (c *SESChannel) Send(ctx context.Context, profile *domain.BusinessProfile, review *domain.Review) error {
	to := profile.Notifications.AlertEmail
	if to == "" {
		return fmt.Errorf("profile has no alert email configured")
	}

	htmlBody, err := renderLowRatingEmail(profile, review)
	if err != nil {
		return fmt.Errorf("failed to render alert email: %w", err)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(fmt.Sprintf("New %d-star review for %s", review.Rating, profile.Name)),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(htmlBody),
				},
			},
		},
	}

	if _, err := c.client.SendEmailWithContext(ctx, input); err != nil {
		return fmt.Errorf("SES send failed: %w", err)
	}
	return nil
}
