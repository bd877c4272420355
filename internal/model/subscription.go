package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents where a subscription is in the opt-in flow
type SubscriptionStatus string

const (
	SubscriptionStatusPendingConfirmation SubscriptionStatus = "pending_confirmation"
	SubscriptionStatusConfirmed           SubscriptionStatus = "confirmed"
)

// Subscription represents a stored subscriber row
type Subscription struct {
	ID           uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	SubscribedAt time.Time          `json:"subscribedAt"`
	Status       SubscriptionStatus `json:"status"`
}
