package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is how often members contribute to a circle.
type Frequency string

// Supported contribution frequencies
const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// CircleStatus is the lifecycle state of a circle.
type CircleStatus string

// Circle lifecycle: pending -> active -> completed
const (
	CircleStatusPending   CircleStatus = "pending"
	CircleStatusActive    CircleStatus = "active"
	CircleStatusCompleted CircleStatus = "completed"
)

// PayoutPreference decides how payout order is finalized at start.
type PayoutPreference string

// Supported payout preferences
const (
	PayoutPreferenceFixed  PayoutPreference = "fixed"
	PayoutPreferenceRandom PayoutPreference = "random"
)

// Valid reports whether p is a known payout preference.
func (p PayoutPreference) Valid() bool {
	return p == PayoutPreferenceFixed || p == PayoutPreferenceRandom
}

// MemberRole is the role of a member inside a circle.
type MemberRole string

// Exactly one host per circle
const (
	RoleHost   MemberRole = "host"
	RoleMember MemberRole = "member"
)

// Circle represents a circle row in the database
type Circle struct {
	ID               uuid.UUID        `json:"id" db:"circle_id"`                        // Unique circle identifier
	Name             string           `json:"name" db:"name"`                           // Display name
	Amount           int64            `json:"amount" db:"amount"`                       // Contribution per cycle, minor units
	Currency         string           `json:"currency" db:"currency"`                   // Currency code (NGN)
	Frequency        Frequency        `json:"frequency" db:"frequency"`                 // weekly, biweekly or monthly
	CycleStartDate   *time.Time       `json:"cycle_start_date" db:"cycle_start_date"`   // Set once, at activation
	Status           CircleStatus     `json:"status" db:"status"`                       // pending, active or completed
	InviteCode       string           `json:"invite_code" db:"invite_code"`             // Unique join code
	TargetMembers    *int             `json:"target_members" db:"target_members"`       // Optional member cap required to start
	PayoutPreference PayoutPreference `json:"payout_preference" db:"payout_preference"` // fixed or random
	CurrentCycle     int              `json:"current_cycle" db:"current_cycle"`         // Authoritative cycle counter
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`               // Creation timestamp
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`               // Last update timestamp
}

// PayoutAmount is what the recipient of one fully funded cycle receives.
func (c *Circle) PayoutAmount(members int) int64 {
	return c.Amount * int64(members)
}

// CircleMember represents a circle_members row in the database
type CircleMember struct {
	CircleID    uuid.UUID  `json:"circle_id" db:"circle_id"`       // Circle the member belongs to
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`           // Member user id
	PayoutOrder int        `json:"payout_order" db:"payout_order"` // 1-based payout rank, dense within the circle
	Role        MemberRole `json:"role" db:"role"`                 // host or member
	JoinDate    time.Time  `json:"join_date" db:"join_date"`       // When the member joined
}

// ContributionStatus is the state of a member's contribution for a cycle.
type ContributionStatus string

// Contribution states
const (
	ContributionStatusPending ContributionStatus = "pending"
	ContributionStatusPaid    ContributionStatus = "paid"
	ContributionStatusMissed  ContributionStatus = "missed"
	ContributionStatusOverdue ContributionStatus = "overdue"
)

// Contribution represents a contributions row in the database
type Contribution struct {
	ID          uuid.UUID          `json:"id" db:"contribution_id"`
	CircleID    uuid.UUID          `json:"circle_id" db:"circle_id"`
	UserID      uuid.UUID          `json:"user_id" db:"user_id"`
	CycleNumber int                `json:"cycle_number" db:"cycle_number"`
	Amount      int64              `json:"amount" db:"amount"`
	Status      ContributionStatus `json:"status" db:"status"`
	PaidAt      *time.Time         `json:"paid_at" db:"paid_at"`
}

// MemberProgress is one member's standing in the current cycle.
type MemberProgress struct {
	UserID      uuid.UUID          `json:"user_id"`
	PayoutOrder int                `json:"payout_order"`
	Status      ContributionStatus `json:"status"`
	PaidAt      *time.Time         `json:"paid_at"`
}

// CycleProgress summarizes funding of the current cycle of a circle.
type CycleProgress struct {
	CycleNumber     int              `json:"cycle_number"`
	ScheduledCycle  int              `json:"scheduled_cycle"`
	TotalMembers    int              `json:"total_members"`
	PaidMembers     int              `json:"paid_members"`
	PendingMembers  int              `json:"pending_members"`
	CollectedAmount int64            `json:"collected_amount"`
	PayoutAmount    int64            `json:"payout_amount"`
	TargetOrder     int              `json:"target_order"`
	RecipientID     *uuid.UUID       `json:"recipient_id"`
	FullyFunded     bool             `json:"fully_funded"`
	Contributions   []MemberProgress `json:"contributions"`
}
