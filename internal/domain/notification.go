package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_notification_repository.go -package mocks github.com/localpulse/localpulse/internal/domain NotificationRepository

// Notification kinds.
const (
	NotificationKindLowRating = "low_rating"
)

// ChannelResult records the dispatch outcome for one notification channel.
type ChannelResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ChannelResults is the JSONB list of per-channel outcomes.
type ChannelResults []ChannelResult

// Value implements the driver.Valuer interface for database serialization
func (c ChannelResults) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]ChannelResult{})
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database deserialization
func (c *ChannelResults) Scan(value interface{}) error {
	if value == nil {
		*c = ChannelResults{}
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	if err := json.Unmarshal(cloned, c); err != nil {
		return err
	}

	if *c == nil {
		*c = ChannelResults{}
	}
	return nil
}

// Notification is a single alert produced by the ingestion pipeline. The
// low-rating rule produces exactly one notification per qualifying review
// per ingestion, never one per field update.
type Notification struct {
	ID        string         `json:"id"`
	ProfileID string         `json:"profile_id"`
	Kind      string         `json:"kind"`
	ReviewID  string         `json:"review_id"`
	Channels  ChannelResults `json:"channels"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate validates the notification
func (n *Notification) Validate() error {
	if n.ProfileID == "" {
		return fmt.Errorf("profile id is required")
	}
	if n.Kind != NotificationKindLowRating {
		return fmt.Errorf("invalid kind: %s", n.Kind)
	}
	if n.ReviewID == "" {
		return fmt.Errorf("review id is required")
	}
	return nil
}

// NotificationRepository persists dispatched notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ListByProfile(ctx context.Context, profileID string, limit int) ([]*Notification, error)
}
