// Package cycle maps a circle's schedule to cycle numbers and payout turns.
package cycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

const day = 24 * time.Hour

// Current returns the cycle a circle started at start is in at now.
// It returns 0 when the circle has not started and at least 1 once it has.
// Calendar boundaries are taken in UTC whatever the zones of start and now.
func Current(start *time.Time, freq models.Frequency, now time.Time) int {
	if start == nil {
		return 0
	}
	from, to := start.UTC(), now.UTC()

	var n int
	switch freq {
	case models.FrequencyWeekly:
		n = daysElapsed(from, to)/7 + 1
	case models.FrequencyBiweekly:
		n = daysElapsed(from, to)/14 + 1
	case models.FrequencyMonthly:
		n = monthsElapsed(from, to) + 1
	default:
		n = 1
	}

	return max(1, n)
}

// ForCircle is Current applied to a circle.
func ForCircle(c *models.Circle, now time.Time) int {
	return Current(c.CycleStartDate, c.Frequency, now)
}

// TargetOrder returns the payout order scheduled to receive the payout of cycle.
// Cycles past the member count wrap around: N+1 pays order 1 again.
func TargetOrder(cycle, members int) int {
	if members <= 0 || cycle <= 0 {
		return 0
	}
	if cycle <= members {
		return cycle
	}
	return (cycle-1)%members + 1
}

// PayoutReference is the idempotency key of the circle-side payout entry for a cycle.
func PayoutReference(circleID uuid.UUID, cycle int) string {
	return fmt.Sprintf("payout-%s-%d", circleID, cycle)
}

// PayoutCreditReference is the idempotency key of the recipient-side payout entry for a cycle.
func PayoutCreditReference(circleID uuid.UUID, cycle int) string {
	return PayoutReference(circleID, cycle) + "-credit"
}

// daysElapsed counts whole days between start and now, rounding down.
func daysElapsed(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return -int((-d + day - 1) / day)
	}
	return int(d / day)
}

func monthsElapsed(start, now time.Time) int {
	months := (now.Year()-start.Year())*12 + int(now.Month()-start.Month())
	if now.Day() < start.Day() {
		months--
	}
	return months
}
