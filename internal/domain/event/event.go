package event

//go:generate mockgen -destination=../../mocks/mock_publisher.go -package=mocks ecommerce-multivendor/internal/domain/event Publisher

import (
	"context"
	"time"
)

type Type string

const (
	UserRegistered            Type = "user.registered"
	UserStatusChanged         Type = "user.status_changed"
	SellerDeactivated         Type = "seller.deactivated"
	DeliveryPersonDeactivated Type = "delivery_person.deactivated"
)

// Event describes a change to an account that other services may react to.
type Event struct {
	Type       Type              `json:"type"`
	UserID     uint              `json:"user_id"`
	Role       string            `json:"role,omitempty"`
	Status     string            `json:"status,omitempty"`
	Attributes map[string]uint64 `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher delivers account events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
