package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_business_profile_repository.go -package mocks github.com/localpulse/localpulse/internal/domain BusinessProfileRepository

// ErrProfileNotFound is returned when a business profile does not exist.
var ErrProfileNotFound = errors.New("business profile not found")

// Notification channel names accepted in NotificationSettings.Channels.
const (
	NotificationChannelEmail   = "email"
	NotificationChannelSES     = "ses"
	NotificationChannelWebhook = "webhook"
)

// NotificationSettings configures instant alerting for a business profile.
// Stored as a JSONB column on business_profiles.
type NotificationSettings struct {
	InstantAlertsEnabled bool     `json:"instant_alerts_enabled"`
	LowRatingThreshold   int      `json:"low_rating_threshold,omitempty"`
	AlertEmail           string   `json:"alert_email,omitempty"`
	WebhookURL           string   `json:"webhook_url,omitempty"`
	Channels             []string `json:"channels"` // Always include channels (empty array, not null)
}

// Validate validates the notification settings
func (n *NotificationSettings) Validate() error {
	if n.LowRatingThreshold < 0 || n.LowRatingThreshold > 5 {
		return fmt.Errorf("low rating threshold must be between 0 and 5")
	}

	if n.AlertEmail != "" && !govalidator.IsEmail(n.AlertEmail) {
		return fmt.Errorf("alert email is invalid")
	}

	if n.WebhookURL != "" {
		if err := ValidateWebhookURL(n.WebhookURL); err != nil {
			return fmt.Errorf("webhook URL: %w", err)
		}
	}

	for _, ch := range n.Channels {
		switch ch {
		case NotificationChannelEmail, NotificationChannelSES, NotificationChannelWebhook:
		default:
			return fmt.Errorf("unknown notification channel: %s", ch)
		}
	}

	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (n NotificationSettings) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// MarshalJSON implements custom JSON marshaling to ensure Channels is never null
func (n NotificationSettings) MarshalJSON() ([]byte, error) {
	type Alias NotificationSettings
	if n.Channels == nil {
		n.Channels = []string{}
	}
	return json.Marshal((*Alias)(&n))
}

// Scan implements the sql.Scanner interface for database deserialization
func (n *NotificationSettings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	if err := json.Unmarshal(cloned, n); err != nil {
		return err
	}

	if n.Channels == nil {
		n.Channels = []string{}
	}

	return nil
}

// BusinessProfile is a single small-business location tracked by the system.
type BusinessProfile struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Category      string               `json:"category"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	State         string               `json:"state"`
	Postcode      string               `json:"postcode"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	Notifications NotificationSettings `json:"notifications"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Validate validates the business profile
func (p *BusinessProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Name) > 255 {
		return fmt.Errorf("name must be at most 255 characters")
	}
	if p.Category == "" {
		return fmt.Errorf("category is required")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if p.Postcode != "" && !govalidator.IsASCII(p.Postcode) {
		return fmt.Errorf("postcode must be ASCII")
	}
	return p.Notifications.Validate()
}

// EffectiveLowRatingThreshold returns the profile threshold, falling back to
// the system default when unset.
func (p *BusinessProfile) EffectiveLowRatingThreshold(systemDefault int) int {
	if p.Notifications.LowRatingThreshold > 0 {
		return p.Notifications.LowRatingThreshold
	}
	return systemDefault
}

// BusinessProfileRepository persists business profiles.
type BusinessProfileRepository interface {
	Create(ctx context.Context, profile *BusinessProfile) error
	GetByID(ctx context.Context, id string) (*BusinessProfile, error)
	Update(ctx context.Context, profile *BusinessProfile) error
	List(ctx context.Context) ([]*BusinessProfile, error)
}
