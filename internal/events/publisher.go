package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

const (
	UserRegistered  = "user.registered"
	UserVerified    = "user.verified"
	UserLoggedOut   = "user.logged_out"
	ListingCreated  = "listing.created"
	ListingUpdated  = "listing.updated"
	ListingDeleted  = "listing.deleted"
	ReviewSubmitted = "listing.review.submitted"
)

type UserEvent struct {
	UserID     string    `json:"user_id"`
	Mobile     string    `json:"mobile"`
	Role       string    `json:"role,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ListingEvent struct {
	ListingID  uint      `json:"listing_id"`
	UserID     string    `json:"user_id"`
	Slug       string    `json:"slug,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ReviewEvent struct {
	ListingID  uint      `json:"listing_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

type NATSPublisher struct {
	conn   *nats.Conn
	logger *logrus.Logger
}

func NewNATSPublisher(url string, logger *logrus.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("dsahebapi"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"subject": subject,
		"bytes":   len(payload),
	}).Debug("Publishing event")

	return p.conn.Publish(subject, payload)
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NopPublisher drops every event. Used when no NATS URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NopPublisher) Close() error { return nil }
