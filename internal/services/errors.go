package services

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by a service wraps exactly one of them,
// handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrBadRequest          = errors.New("bad request")
	ErrCapacity            = errors.New("capacity reached")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrLedgerInconsistency = errors.New("ledger inconsistency")
)

// Specific errors
var (
	ErrCircleNotFound       = fmt.Errorf("%w: circle not found", ErrNotFound)
	ErrMemberNotFound       = fmt.Errorf("%w: member not found", ErrNotFound)
	ErrTransactionNotFound  = fmt.Errorf("%w: transaction not found", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("%w: notification not found", ErrNotFound)

	ErrNotMember       = fmt.Errorf("%w: not a member of this circle", ErrForbidden)
	ErrNotHost         = fmt.Errorf("%w: only the host can do this", ErrForbidden)
	ErrNotYourTurn     = fmt.Errorf("%w: not your turn", ErrForbidden)
	ErrNotRecipient    = fmt.Errorf("%w: not the recipient of this notification", ErrForbidden)
	ErrHostCannotLeave = fmt.Errorf("%w: host cannot remove themselves", ErrForbidden)

	ErrAlreadyMember      = fmt.Errorf("%w: already a member", ErrConflict)
	ErrAlreadyContributed = fmt.Errorf("%w: already contributed", ErrConflict)
	ErrAlreadyClaimed     = fmt.Errorf("%w: already claimed", ErrConflict)
	ErrCircleBusy         = fmt.Errorf("%w: circle is busy, try again", ErrConflict)

	ErrCircleNotPending  = fmt.Errorf("%w: circle is not pending", ErrBadRequest)
	ErrCircleNotActive   = fmt.Errorf("%w: circle is not active", ErrBadRequest)
	ErrCycleNotComplete  = fmt.Errorf("%w: cycle not complete", ErrBadRequest)
	ErrNotEnoughMembers  = fmt.Errorf("%w: not enough members to start", ErrBadRequest)
	ErrReorderMismatch   = fmt.Errorf("%w: order must list every current member exactly once", ErrBadRequest)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive", ErrBadRequest)
	ErrInvalidFrequency  = fmt.Errorf("%w: unknown frequency", ErrBadRequest)
	ErrInvalidPreference = fmt.Errorf("%w: unknown payout preference", ErrBadRequest)
	ErrInvalidTarget     = fmt.Errorf("%w: invalid target members", ErrBadRequest)
	ErrAmountMismatch    = fmt.Errorf("%w: amount does not match the pending transaction", ErrBadRequest)
	ErrNotPendingDeposit = fmt.Errorf("%w: transaction is not a pending deposit", ErrBadRequest)

	ErrCircleFull = fmt.Errorf("%w: circle is full", ErrCapacity)
)
