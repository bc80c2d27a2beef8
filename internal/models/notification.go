package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a circle lifecycle or ledger event.
type EventType string

// Events fired after commit
const (
	EventCircleCreated    EventType = "circle.created"
	EventMemberJoined     EventType = "circle.member_joined"
	EventMemberRemoved    EventType = "circle.member_removed"
	EventCircleStarted    EventType = "circle.started"
	EventCircleCompleted  EventType = "circle.completed"
	EventContributionPaid EventType = "contribution.paid"
	EventCycleFunded      EventType = "cycle.funded"
	EventPayoutReceived   EventType = "payout.received"
	EventDepositConfirmed EventType = "wallet.deposit_confirmed"
	EventAuditRequest     EventType = "audit.request"
)

// Event is the payload handed to the notifier.
type Event struct {
	Type        EventType      `json:"type"`
	RecipientID uuid.UUID      `json:"recipient_id"`
	CircleID    *uuid.UUID     `json:"circle_id,omitempty"`
	Payload     map[string]any `json:"payload"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// NotificationType is the visual category of an in-app notification.
type NotificationType string

// Notification categories
const (
	NotificationTypeInfo           NotificationType = "info"
	NotificationTypeSuccess        NotificationType = "success"
	NotificationTypeWarning        NotificationType = "warning"
	NotificationTypeError          NotificationType = "error"
	NotificationTypeActionRequired NotificationType = "action_required"
)

// NotificationPriority orders notifications in the inbox.
type NotificationPriority string

// Notification priorities
const (
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityLow    NotificationPriority = "low"
)

// Notification represents an in-app notification row in the database
type Notification struct {
	NotificationID uuid.UUID            `json:"id" db:"notification_id"`
	UserID         uuid.UUID            `json:"user_id" db:"user_id"`
	Title          string               `json:"title" db:"title"`
	Body           string               `json:"body" db:"body"`
	Type           NotificationType     `json:"type" db:"type"`
	Priority       NotificationPriority `json:"priority" db:"priority"`
	ActionURL      *string              `json:"action_url" db:"action_url"`
	IsRead         bool                 `json:"is_read" db:"is_read"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
}
