package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/cycle"
	"github.com/sbilibin2017/gw-savings-circle/internal/locker"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/metrics"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/sbilibin2017/gw-savings-circle/internal/repositories"
)

// ContributionResult is returned by a successful Contribute.
type ContributionResult struct {
	Contribution  models.Contribution `json:"contribution"`
	WalletBalance int64               `json:"wallet_balance"`
	CycleFunded   bool                `json:"cycle_funded"`
}

// PayoutResult is returned by a successful Claim.
type PayoutResult struct {
	CircleID      uuid.UUID           `json:"circle_id"`
	CycleNumber   int                 `json:"cycle_number"`
	Amount        int64               `json:"amount"`
	Reference     string              `json:"reference"`
	WalletBalance int64               `json:"wallet_balance"`
	NextCycle     int                 `json:"next_cycle"`
	CircleStatus  models.CircleStatus `json:"circle_status"`
}

// LedgerService moves money between user wallets and circle pooled wallets.
type LedgerService struct {
	tx            Transactor
	circles       CircleStore
	members       MemberStore
	contributions ContributionStore
	wallets       WalletStore
	transactions  TransactionStore
	locker        CircleLocker
	notifier      Notifier
	metrics       *metrics.Ledger
	autoComplete  bool

	now func() time.Time
}

// NewLedgerService creates a new LedgerService. With autoComplete set a circle completes
// once every member has been paid out; otherwise payout order wraps around indefinitely.
func NewLedgerService(
	tx Transactor,
	circles CircleStore,
	members MemberStore,
	contributions ContributionStore,
	wallets WalletStore,
	transactions TransactionStore,
	locker CircleLocker,
	notifier Notifier,
	m *metrics.Ledger,
	autoComplete bool,
) *LedgerService {
	return &LedgerService{
		tx:            tx,
		circles:       circles,
		members:       members,
		contributions: contributions,
		wallets:       wallets,
		transactions:  transactions,
		locker:        locker,
		notifier:      notifier,
		metrics:       m,
		autoComplete:  autoComplete,
		now:           time.Now,
	}
}

func (s *LedgerService) lock(ctx context.Context, circleID uuid.UUID) (func(), error) {
	unlock, err := s.locker.Lock(ctx, circleID)
	if errors.Is(err, locker.ErrBusy) {
		return nil, ErrCircleBusy
	}
	return unlock, err
}

// Contribute pays the caller's contribution for the circle's current cycle from their wallet
// into the circle's pooled wallet.
func (s *LedgerService) Contribute(ctx context.Context, userID, circleID uuid.UUID) (*ContributionResult, error) {
	unlock, err := s.lock(ctx, circleID)
	if err != nil {
		s.reject("contribute", err)
		return nil, err
	}
	defer unlock()

	var (
		circle      *models.Circle
		result      ContributionResult
		memberCount int
		recipient   *models.CircleMember
	)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		circle, err = s.circles.GetByIDForUpdate(ctx, circleID)
		if err != nil {
			return err
		}
		if circle == nil {
			return ErrCircleNotFound
		}
		member, err := s.members.Get(ctx, circleID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrNotMember
		}
		if circle.Status != models.CircleStatusActive {
			return ErrCircleNotActive
		}

		cycleNumber := circle.CurrentCycle
		paid, err := s.contributions.HasPaid(ctx, circleID, userID, cycleNumber)
		if err != nil {
			return err
		}
		if paid {
			return fmt.Errorf("%w for cycle %d", ErrAlreadyContributed, cycleNumber)
		}

		userWallet, err := s.wallets.EnsureUserWallet(ctx, userID, circle.Currency)
		if err != nil {
			return err
		}
		if userWallet.Balance < circle.Amount {
			return fmt.Errorf("%w: balance %d, contribution %d", ErrInsufficientFunds, userWallet.Balance, circle.Amount)
		}
		circleWallet, err := s.wallets.EnsureCircleWallet(ctx, circleID, circle.Currency)
		if err != nil {
			return err
		}

		result.WalletBalance, err = s.wallets.Debit(ctx, userWallet.WalletID, circle.Amount)
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return ErrInsufficientFunds
		}
		if err != nil {
			return err
		}
		if _, err := s.wallets.Credit(ctx, circleWallet.WalletID, circle.Amount); err != nil {
			return err
		}

		now := s.now().UTC()
		contribution := models.Contribution{
			ID:          uuid.New(),
			CircleID:    circleID,
			UserID:      userID,
			CycleNumber: cycleNumber,
			Amount:      circle.Amount,
			Status:      models.ContributionStatusPaid,
			PaidAt:      &now,
		}
		reference := "contrib-" + contribution.ID.String()
		description := fmt.Sprintf("%s: cycle %d contribution", circle.Name, cycleNumber)

		entries := []models.Transaction{
			newEntry(userWallet.WalletID, -circle.Amount, models.TransactionTypeContribution, reference, description, now),
			newEntry(circleWallet.WalletID, circle.Amount, models.TransactionTypeContribution, reference+"-credit", description, now),
		}
		for i := range entries {
			if err := s.transactions.Create(ctx, &entries[i]); err != nil {
				return err
			}
		}

		if err := s.contributions.Create(ctx, &contribution); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return fmt.Errorf("%w for cycle %d", ErrAlreadyContributed, cycleNumber)
			}
			return err
		}
		result.Contribution = contribution

		// Counted under the circle row lock so exactly one contributor sees the cycle fill up.
		paidCount, err := s.contributions.CountPaid(ctx, circleID, cycleNumber)
		if err != nil {
			return err
		}
		members, err := s.members.ListByCircle(ctx, circleID)
		if err != nil {
			return err
		}
		memberCount = len(members)
		result.CycleFunded, recipient = fundedRecipient(members, paidCount, cycleNumber)
		return nil
	})
	if err != nil {
		s.reject("contribute", err)
		logger.Log.Errorw("failed to contribute", "circleID", circleID, "userID", userID, "error", err)
		return nil, err
	}

	s.metrics.Contributions.Inc()
	s.metrics.ContributedAmount.Add(float64(circle.Amount))
	logger.Log.Infow("contribution recorded", "circleID", circleID, "userID", userID,
		"cycle", result.Contribution.CycleNumber, "amount", circle.Amount)

	s.notifier.Notify(ctx, newEvent(models.EventContributionPaid, userID, &circleID, *result.Contribution.PaidAt, map[string]any{
		"circle_name":  circle.Name,
		"cycle_number": result.Contribution.CycleNumber,
		"amount":       circle.Amount,
	}))

	if result.CycleFunded {
		s.notifyFunded(ctx, circle, result.Contribution.CycleNumber, memberCount, recipient)
	}
	return &result, nil
}

// fundedRecipient reports whether every member has paid for the cycle and, if so, which
// member is scheduled to receive its payout. The recipient is nil when no order matches.
func fundedRecipient(members []models.CircleMember, paid, cycleNumber int) (bool, *models.CircleMember) {
	if len(members) == 0 || paid < len(members) {
		return false, nil
	}
	target := cycle.TargetOrder(cycleNumber, len(members))
	for i := range members {
		if members[i].PayoutOrder == target {
			return true, &members[i]
		}
	}
	return true, nil
}

// notifyFunded tells the scheduled recipient to claim. It never moves money.
func (s *LedgerService) notifyFunded(ctx context.Context, circle *models.Circle, cycleNumber, memberCount int, recipient *models.CircleMember) {
	s.metrics.FundedCycles.Inc()

	if recipient == nil {
		logger.Log.Warnw("funded cycle has no recipient", "circleID", circle.ID, "cycle", cycleNumber,
			"targetOrder", cycle.TargetOrder(cycleNumber, memberCount))
		return
	}
	s.notifier.Notify(ctx, newEvent(models.EventCycleFunded, recipient.UserID, &circle.ID, s.now().UTC(), map[string]any{
		"circle_name":   circle.Name,
		"cycle_number":  cycleNumber,
		"payout_amount": circle.PayoutAmount(memberCount),
	}))
}

// Claim pays the fully funded current cycle out of the circle wallet to the member whose
// payout order matches it, then advances the circle to the next cycle.
func (s *LedgerService) Claim(ctx context.Context, userID, circleID uuid.UUID) (*PayoutResult, error) {
	unlock, err := s.lock(ctx, circleID)
	if err != nil {
		s.reject("claim", err)
		return nil, err
	}
	defer unlock()

	var (
		circle  *models.Circle
		members []models.CircleMember
		result  PayoutResult
	)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		circle, err = s.circles.GetByIDForUpdate(ctx, circleID)
		if err != nil {
			return err
		}
		if circle == nil {
			return ErrCircleNotFound
		}
		member, err := s.members.Get(ctx, circleID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrNotMember
		}
		members, err = s.members.ListByCircle(ctx, circleID)
		if err != nil {
			return err
		}
		n := len(members)

		if err := s.checkRepeatClaim(ctx, circle, member, n); err != nil {
			return err
		}
		if circle.Status != models.CircleStatusActive {
			return ErrCircleNotActive
		}

		cycleNumber := circle.CurrentCycle
		target := cycle.TargetOrder(cycleNumber, n)
		if target == 0 || member.PayoutOrder != target {
			return fmt.Errorf("%w: cycle %d pays order %d, yours is %d", ErrNotYourTurn, cycleNumber, target, member.PayoutOrder)
		}

		paid, err := s.contributions.CountPaid(ctx, circleID, cycleNumber)
		if err != nil {
			return err
		}
		if paid < n {
			return fmt.Errorf("%w: %d of %d members paid", ErrCycleNotComplete, paid, n)
		}

		reference := cycle.PayoutReference(circleID, cycleNumber)
		existing, err := s.transactions.GetByReference(ctx, reference)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w for cycle %d", ErrAlreadyClaimed, cycleNumber)
		}

		payout := circle.PayoutAmount(n)
		circleWallet, err := s.wallets.EnsureCircleWallet(ctx, circleID, circle.Currency)
		if err != nil {
			return err
		}
		if circleWallet.Balance < payout {
			return s.inconsistency(circle, cycleNumber, circleWallet.Balance, payout)
		}
		if _, err := s.wallets.Debit(ctx, circleWallet.WalletID, payout); err != nil {
			if errors.Is(err, repositories.ErrInsufficientBalance) {
				return s.inconsistency(circle, cycleNumber, circleWallet.Balance, payout)
			}
			return err
		}
		userWallet, err := s.wallets.EnsureUserWallet(ctx, userID, circle.Currency)
		if err != nil {
			return err
		}
		result.WalletBalance, err = s.wallets.Credit(ctx, userWallet.WalletID, payout)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		description := fmt.Sprintf("%s: cycle %d payout", circle.Name, cycleNumber)
		entries := []models.Transaction{
			newEntry(circleWallet.WalletID, -payout, models.TransactionTypePayout, reference, description, now),
			newEntry(userWallet.WalletID, payout, models.TransactionTypePayout, cycle.PayoutCreditReference(circleID, cycleNumber), description, now),
		}
		for i := range entries {
			if err := s.transactions.Create(ctx, &entries[i]); err != nil {
				if errors.Is(err, repositories.ErrDuplicate) {
					return fmt.Errorf("%w for cycle %d", ErrAlreadyClaimed, cycleNumber)
				}
				return err
			}
		}

		circle.CurrentCycle = cycleNumber + 1
		if s.autoComplete && cycleNumber >= n {
			circle.Status = models.CircleStatusCompleted
		}
		circle.UpdatedAt = now
		if err := s.circles.Update(ctx, circle); err != nil {
			return err
		}

		result.CircleID = circleID
		result.CycleNumber = cycleNumber
		result.Amount = payout
		result.Reference = reference
		result.NextCycle = circle.CurrentCycle
		result.CircleStatus = circle.Status
		return nil
	})
	if err != nil {
		s.reject("claim", err)
		logger.Log.Errorw("failed to claim payout", "circleID", circleID, "userID", userID, "error", err)
		return nil, err
	}

	s.metrics.Payouts.Inc()
	s.metrics.PaidOutAmount.Add(float64(result.Amount))
	logger.Log.Infow("payout claimed", "circleID", circleID, "userID", userID,
		"cycle", result.CycleNumber, "amount", result.Amount, "reference", result.Reference)

	now := s.now().UTC()
	s.notifier.Notify(ctx, newEvent(models.EventPayoutReceived, userID, &circleID, now, map[string]any{
		"circle_name":  circle.Name,
		"cycle_number": result.CycleNumber,
		"amount":       result.Amount,
	}))
	if result.CircleStatus == models.CircleStatusCompleted {
		for _, m := range members {
			s.notifier.Notify(ctx, newEvent(models.EventCircleCompleted, m.UserID, &circleID, now, map[string]any{
				"circle_name": circle.Name,
				"cycles":      result.CycleNumber,
			}))
		}
	}

	return &result, nil
}

// checkRepeatClaim reports ErrAlreadyClaimed when the caller was the recipient of the cycle
// that was just paid out. A successful claim advances the cycle, so without this a repeated
// request would be judged against the next cycle.
func (s *LedgerService) checkRepeatClaim(ctx context.Context, circle *models.Circle, member *models.CircleMember, n int) error {
	if circle.CurrentCycle <= 1 || circle.Status == models.CircleStatusPending {
		return nil
	}
	previous := circle.CurrentCycle - 1
	if member.PayoutOrder != cycle.TargetOrder(previous, n) {
		return nil
	}
	paidOut, err := s.transactions.GetByReference(ctx, cycle.PayoutReference(circle.ID, previous))
	if err != nil {
		return err
	}
	if paidOut != nil {
		return fmt.Errorf("%w for cycle %d", ErrAlreadyClaimed, previous)
	}
	return nil
}

func (s *LedgerService) inconsistency(circle *models.Circle, cycleNumber int, balance, payout int64) error {
	s.metrics.Inconsistencies.Inc()
	logger.Fatal("circle wallet cannot cover payout",
		"circleID", circle.ID, "cycle", cycleNumber, "balance", balance, "payout", payout)
	return fmt.Errorf("%w: circle %s holds %d, payout is %d", ErrLedgerInconsistency, circle.ID, balance, payout)
}

// Progress reports funding of the circle's current cycle.
func (s *LedgerService) Progress(ctx context.Context, userID, circleID uuid.UUID) (*models.CycleProgress, error) {
	circle, err := s.circles.GetByID(ctx, circleID)
	if err != nil {
		logger.Log.Errorw("failed to get circle", "circleID", circleID, "error", err)
		return nil, err
	}
	if circle == nil {
		return nil, ErrCircleNotFound
	}
	member, err := s.members.Get(ctx, circleID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	members, err := s.members.ListByCircle(ctx, circleID)
	if err != nil {
		logger.Log.Errorw("failed to list members", "circleID", circleID, "error", err)
		return nil, err
	}

	n := len(members)
	progress := &models.CycleProgress{
		CycleNumber:    circle.CurrentCycle,
		ScheduledCycle: cycle.ForCircle(circle, s.now()),
		TotalMembers:   n,
		PayoutAmount:   circle.PayoutAmount(n),
		TargetOrder:    cycle.TargetOrder(circle.CurrentCycle, n),
		Contributions:  make([]models.MemberProgress, 0, n),
	}

	paid := map[uuid.UUID]models.Contribution{}
	if circle.CurrentCycle > 0 {
		list, err := s.contributions.ListByCycle(ctx, circleID, circle.CurrentCycle)
		if err != nil {
			logger.Log.Errorw("failed to list contributions", "circleID", circleID, "error", err)
			return nil, err
		}
		for _, c := range list {
			if c.Status == models.ContributionStatusPaid {
				paid[c.UserID] = c
			}
		}
	}

	overdue := circle.Status == models.CircleStatusActive && progress.ScheduledCycle > circle.CurrentCycle
	for _, m := range members {
		entry := models.MemberProgress{UserID: m.UserID, PayoutOrder: m.PayoutOrder, Status: models.ContributionStatusPending}
		if c, ok := paid[m.UserID]; ok {
			entry.Status = models.ContributionStatusPaid
			entry.PaidAt = c.PaidAt
			progress.PaidMembers++
			progress.CollectedAmount += c.Amount
		} else if overdue {
			entry.Status = models.ContributionStatusOverdue
		}
		if m.PayoutOrder == progress.TargetOrder {
			id := m.UserID
			progress.RecipientID = &id
		}
		progress.Contributions = append(progress.Contributions, entry)
	}
	progress.PendingMembers = n - progress.PaidMembers
	progress.FullyFunded = n > 0 && progress.PaidMembers == n

	return progress, nil
}

func (s *LedgerService) reject(operation string, err error) {
	s.metrics.Rejections.WithLabelValues(operation, reason(err)).Inc()
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrLedgerInconsistency):
		return "inconsistency"
	default:
		return "internal"
	}
}

func newEntry(walletID uuid.UUID, amount int64, t models.TransactionType, reference, description string, now time.Time) models.Transaction {
	return models.Transaction{
		TransactionID: uuid.New(),
		WalletID:      walletID,
		Amount:        amount,
		Type:          t,
		Status:        models.TransactionStatusSuccess,
		Reference:     reference,
		Description:   description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
