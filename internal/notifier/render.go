package notifier

import (
	"fmt"

	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// Render turns an event into the in-app notification shown to its recipient.
func Render(e models.Event) models.Notification {
	n := models.Notification{
		UserID:    e.RecipientID,
		Type:      models.NotificationTypeInfo,
		Priority:  models.NotificationPriorityNormal,
		CreatedAt: e.OccurredAt,
	}
	if e.CircleID != nil {
		url := fmt.Sprintf("/circles/%s", e.CircleID)
		n.ActionURL = &url
	}

	name := e.Payload["circle_name"]

	switch e.Type {
	case models.EventCircleCreated:
		n.Title = "Circle created"
		n.Body = fmt.Sprintf("Your circle %v is ready. Share invite code %v to add members.", name, e.Payload["invite_code"])
		n.Type = models.NotificationTypeSuccess
	case models.EventMemberJoined:
		n.Title = "New member joined"
		n.Body = fmt.Sprintf("A new member joined %v at payout position %v.", name, e.Payload["payout_order"])
	case models.EventMemberRemoved:
		n.Title = "Removed from circle"
		n.Body = fmt.Sprintf("You are no longer a member of %v.", name)
		n.Type = models.NotificationTypeWarning
	case models.EventCircleStarted:
		n.Title = "Circle started"
		n.Body = fmt.Sprintf("%v has started. Your payout position is %v.", name, e.Payload["payout_order"])
		n.Priority = models.NotificationPriorityHigh
	case models.EventCircleCompleted:
		n.Title = "Circle completed"
		n.Body = fmt.Sprintf("%v has completed all %v cycles.", name, e.Payload["cycles"])
		n.Type = models.NotificationTypeSuccess
	case models.EventContributionPaid:
		n.Title = "Contribution received"
		n.Body = fmt.Sprintf("Your contribution of %v to %v for cycle %v was received.", e.Payload["amount"], name, e.Payload["cycle_number"])
		n.Type = models.NotificationTypeSuccess
	case models.EventCycleFunded:
		n.Title = "Your payout is ready"
		n.Body = fmt.Sprintf("Cycle %v of %v is fully funded. Claim your payout of %v.", e.Payload["cycle_number"], name, e.Payload["payout_amount"])
		n.Type = models.NotificationTypeActionRequired
		n.Priority = models.NotificationPriorityHigh
	case models.EventPayoutReceived:
		n.Title = "Payout received"
		n.Body = fmt.Sprintf("You received %v from %v for cycle %v.", e.Payload["amount"], name, e.Payload["cycle_number"])
		n.Type = models.NotificationTypeSuccess
		n.Priority = models.NotificationPriorityHigh
	case models.EventDepositConfirmed:
		url := "/wallet"
		n.Title = "Deposit confirmed"
		n.Body = fmt.Sprintf("Your deposit of %v was added to your wallet.", e.Payload["amount"])
		n.Type = models.NotificationTypeSuccess
		n.ActionURL = &url
	default:
		n.Title = string(e.Type)
		n.Priority = models.NotificationPriorityLow
	}
	return n
}
