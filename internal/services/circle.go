package services

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/sbilibin2017/gw-savings-circle/internal/repositories"
)

// DefaultMaxMembers caps circle size when no limit is configured.
const DefaultMaxMembers = 50

const inviteCodeAttempts = 5

// CreateCircleInput holds the fields a host supplies for a new circle.
type CreateCircleInput struct {
	Name             string
	Amount           int64
	Frequency        models.Frequency
	TargetMembers    *int
	PayoutPreference models.PayoutPreference
}

// UpdateCircleInput is a partial update. Nil fields are left unchanged.
type UpdateCircleInput struct {
	Name             *string
	Amount           *int64
	Frequency        *models.Frequency
	TargetMembers    *int
	PayoutPreference *models.PayoutPreference
}

// CircleService manages circle membership and payout order.
type CircleService struct {
	tx         Transactor
	circles    CircleStore
	members    MemberStore
	wallets    WalletStore
	notifier   Notifier
	maxMembers int

	now        func() time.Time
	shuffle    func(n int, swap func(i, j int))
	inviteCode func() string
}

// NewCircleService creates a new CircleService.
func NewCircleService(
	tx Transactor,
	circles CircleStore,
	members MemberStore,
	wallets WalletStore,
	notifier Notifier,
	maxMembers int,
) *CircleService {
	if maxMembers <= 0 {
		maxMembers = DefaultMaxMembers
	}
	return &CircleService{
		tx:         tx,
		circles:    circles,
		members:    members,
		wallets:    wallets,
		notifier:   notifier,
		maxMembers: maxMembers,
		now:        time.Now,
		shuffle:    rand.Shuffle,
		inviteCode: func() string { return strings.ToUpper(uuid.NewString()[:8]) },
	}
}

// Create creates a pending circle with the caller as host at payout order 1.
func (s *CircleService) Create(ctx context.Context, userID uuid.UUID, in CreateCircleInput) (*models.Circle, error) {
	if in.PayoutPreference == "" {
		in.PayoutPreference = models.PayoutPreferenceFixed
	}
	if err := s.validate(in.Amount, in.Frequency, in.PayoutPreference, in.TargetMembers, 0); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	circle := &models.Circle{
		ID:               uuid.New(),
		Name:             in.Name,
		Amount:           in.Amount,
		Currency:         models.DefaultCurrency,
		Frequency:        in.Frequency,
		Status:           models.CircleStatusPending,
		TargetMembers:    in.TargetMembers,
		PayoutPreference: in.PayoutPreference,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		code, err := s.freeInviteCode(ctx)
		if err != nil {
			return err
		}
		circle.InviteCode = code

		if err := s.circles.Create(ctx, circle); err != nil {
			return err
		}
		host := &models.CircleMember{
			CircleID:    circle.ID,
			UserID:      userID,
			PayoutOrder: 1,
			Role:        models.RoleHost,
			JoinDate:    now,
		}
		if err := s.members.Add(ctx, host); err != nil {
			return err
		}
		if _, err := s.wallets.EnsureCircleWallet(ctx, circle.ID, circle.Currency); err != nil {
			return err
		}
		_, err = s.wallets.EnsureUserWallet(ctx, userID, circle.Currency)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to create circle", "userID", userID, "error", err)
		return nil, err
	}

	s.notifier.Notify(ctx, newEvent(models.EventCircleCreated, userID, &circle.ID, now, map[string]any{
		"circle_name": circle.Name,
		"invite_code": circle.InviteCode,
	}))

	return circle, nil
}

func (s *CircleService) freeInviteCode(ctx context.Context) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code := s.inviteCode()
		existing, err := s.circles.GetByInviteCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
		logger.Log.Warnw("invite code collision", "code", code, "attempt", i+1)
	}
	return "", errors.New("could not allocate a unique invite code")
}

// Join adds the caller to a pending circle at the next payout order.
func (s *CircleService) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*models.CircleMember, error) {
	var (
		circle *models.Circle
		member *models.CircleMember
		hostID uuid.UUID
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := s.circles.GetByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(inviteCode)))
		if err != nil {
			return err
		}
		if found == nil {
			return ErrCircleNotFound
		}
		// Row lock serializes concurrent joins so the capacity check holds.
		circle, err = s.circles.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}
		if circle == nil {
			return ErrCircleNotFound
		}

		members, err := s.members.ListByCircle(ctx, circle.ID)
		if err != nil {
			return err
		}
		maxOrder := 0
		for _, m := range members {
			if m.UserID == userID {
				return ErrAlreadyMember
			}
			if m.Role == models.RoleHost {
				hostID = m.UserID
			}
			if m.PayoutOrder > maxOrder {
				maxOrder = m.PayoutOrder
			}
		}
		if circle.Status != models.CircleStatusPending {
			return ErrCircleNotPending
		}
		if len(members) >= s.maxMembers || (circle.TargetMembers != nil && len(members) >= *circle.TargetMembers) {
			return ErrCircleFull
		}

		member = &models.CircleMember{
			CircleID:    circle.ID,
			UserID:      userID,
			PayoutOrder: maxOrder + 1,
			Role:        models.RoleMember,
			JoinDate:    s.now().UTC(),
		}
		if err := s.members.Add(ctx, member); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrAlreadyMember
			}
			return err
		}
		_, err = s.wallets.EnsureUserWallet(ctx, userID, circle.Currency)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to join circle", "userID", userID, "inviteCode", inviteCode, "error", err)
		return nil, err
	}

	s.notifier.Notify(ctx, newEvent(models.EventMemberJoined, hostID, &circle.ID, member.JoinDate, map[string]any{
		"circle_name":  circle.Name,
		"user_id":      userID,
		"payout_order": member.PayoutOrder,
	}))

	return member, nil
}

// RemoveMember removes memberID from a pending circle. The host may remove anyone but
// themselves; any other member may only remove themselves. Remaining payout orders are
// renumbered 1..N keeping their relative order.
func (s *CircleService) RemoveMember(ctx context.Context, actorID, circleID, memberID uuid.UUID) error {
	var circle *models.Circle

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		circle, err = s.circles.GetByIDForUpdate(ctx, circleID)
		if err != nil {
			return err
		}
		if circle == nil {
			return ErrCircleNotFound
		}
		actor, err := s.members.Get(ctx, circleID, actorID)
		if err != nil {
			return err
		}
		if actor == nil {
			return ErrNotMember
		}
		if circle.Status != models.CircleStatusPending {
			return ErrCircleNotPending
		}

		switch {
		case actorID == memberID && actor.Role == models.RoleHost:
			return ErrHostCannotLeave
		case actorID != memberID && actor.Role != models.RoleHost:
			return ErrNotHost
		}

		target, err := s.members.Get(ctx, circleID, memberID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrMemberNotFound
		}
		if err := s.members.Remove(ctx, circleID, memberID); err != nil {
			return err
		}

		remaining, err := s.members.ListByCircle(ctx, circleID)
		if err != nil {
			return err
		}
		changed := make(map[uuid.UUID]int)
		for i, m := range remaining {
			if m.PayoutOrder != i+1 {
				changed[m.UserID] = i + 1
			}
		}
		if len(changed) == 0 {
			return nil
		}
		return s.members.UpdatePayoutOrders(ctx, circleID, changed)
	})
	if err != nil {
		logger.Log.Errorw("failed to remove member", "circleID", circleID, "actorID", actorID, "memberID", memberID, "error", err)
		return err
	}

	s.notifier.Notify(ctx, newEvent(models.EventMemberRemoved, memberID, &circleID, s.now().UTC(), map[string]any{
		"circle_name": circle.Name,
		"removed_by":  actorID,
	}))

	return nil
}

// Reorder sets payout order to the position of each member in userIDs.
// userIDs must contain every current member exactly once.
func (s *CircleService) Reorder(ctx context.Context, actorID, circleID uuid.UUID, userIDs []uuid.UUID) ([]models.CircleMember, error) {
	var result []models.CircleMember

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		circle, err := s.hostCircle(ctx, actorID, circleID)
		if err != nil {
			return err
		}
		if circle.Status != models.CircleStatusPending {
			return ErrCircleNotPending
		}

		members, err := s.members.ListByCircle(ctx, circleID)
		if err != nil {
			return err
		}
		if len(userIDs) != len(members) {
			return ErrReorderMismatch
		}
		current := make(map[uuid.UUID]bool, len(members))
		for _, m := range members {
			current[m.UserID] = true
		}
		orders := make(map[uuid.UUID]int, len(userIDs))
		for i, id := range userIDs {
			if !current[id] {
				return ErrReorderMismatch
			}
			if _, dup := orders[id]; dup {
				return ErrReorderMismatch
			}
			orders[id] = i + 1
		}

		if err := s.members.UpdatePayoutOrders(ctx, circleID, orders); err != nil {
			return err
		}
		result, err = s.members.ListByCircle(ctx, circleID)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to reorder members", "circleID", circleID, "actorID", actorID, "error", err)
		return nil, err
	}
	return result, nil
}

// Update patches a pending circle. Switching the payout preference to fixed renumbers
// members by join date.
func (s *CircleService) Update(ctx context.Context, actorID, circleID uuid.UUID, in UpdateCircleInput) (*models.Circle, error) {
	var circle *models.Circle

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		circle, err = s.hostCircle(ctx, actorID, circleID)
		if err != nil {
			return err
		}
		if circle.Status != models.CircleStatusPending {
			return ErrCircleNotPending
		}

		members, err := s.members.ListByCircle(ctx, circleID)
		if err != nil {
			return err
		}

		amount, frequency, preference, target := circle.Amount, circle.Frequency, circle.PayoutPreference, circle.TargetMembers
		if in.Amount != nil {
			amount = *in.Amount
		}
		if in.Frequency != nil {
			frequency = *in.Frequency
		}
		if in.PayoutPreference != nil {
			preference = *in.PayoutPreference
		}
		if in.TargetMembers != nil {
			target = in.TargetMembers
		}
		if err := s.validate(amount, frequency, preference, target, len(members)); err != nil {
			return err
		}

		toFixed := circle.PayoutPreference != models.PayoutPreferenceFixed && preference == models.PayoutPreferenceFixed

		if in.Name != nil {
			circle.Name = *in.Name
		}
		circle.Amount = amount
		circle.Frequency = frequency
		circle.PayoutPreference = preference
		circle.TargetMembers = target
		circle.UpdatedAt = s.now().UTC()

		if err := s.circles.Update(ctx, circle); err != nil {
			return err
		}
		if !toFixed {
			return nil
		}

		sort.SliceStable(members, func(i, j int) bool {
			if members[i].JoinDate.Equal(members[j].JoinDate) {
				return members[i].UserID.String() < members[j].UserID.String()
			}
			return members[i].JoinDate.Before(members[j].JoinDate)
		})
		orders := make(map[uuid.UUID]int, len(members))
		for i, m := range members {
			orders[m.UserID] = i + 1
		}
		return s.members.UpdatePayoutOrders(ctx, circleID, orders)
	})
	if err != nil {
		logger.Log.Errorw("failed to update circle", "circleID", circleID, "actorID", actorID, "error", err)
		return nil, err
	}
	return circle, nil
}

// Start activates a pending circle. For random payout preference the orders are shuffled first.
func (s *CircleService) Start(ctx context.Context, actorID, circleID uuid.UUID) (*models.Circle, []models.CircleMember, error) {
	var (
		circle  *models.Circle
		members []models.CircleMember
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		circle, err = s.hostCircle(ctx, actorID, circleID)
		if err != nil {
			return err
		}
		if circle.Status != models.CircleStatusPending {
			return ErrCircleNotPending
		}

		members, err = s.members.ListByCircle(ctx, circleID)
		if err != nil {
			return err
		}
		if len(members) < 2 || (circle.TargetMembers != nil && len(members) < *circle.TargetMembers) {
			return ErrNotEnoughMembers
		}

		if circle.PayoutPreference == models.PayoutPreferenceRandom {
			perm := make([]int, len(members))
			for i := range perm {
				perm[i] = i + 1
			}
			s.shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

			orders := make(map[uuid.UUID]int, len(members))
			for i := range members {
				members[i].PayoutOrder = perm[i]
				orders[members[i].UserID] = perm[i]
			}
			if err := s.members.UpdatePayoutOrders(ctx, circleID, orders); err != nil {
				return err
			}
			sort.Slice(members, func(i, j int) bool { return members[i].PayoutOrder < members[j].PayoutOrder })
		}

		now := s.now().UTC()
		if circle.CycleStartDate == nil {
			circle.CycleStartDate = &now
		}
		circle.Status = models.CircleStatusActive
		circle.CurrentCycle = 1
		circle.UpdatedAt = now
		return s.circles.Update(ctx, circle)
	})
	if err != nil {
		logger.Log.Errorw("failed to start circle", "circleID", circleID, "actorID", actorID, "error", err)
		return nil, nil, err
	}

	for _, m := range members {
		s.notifier.Notify(ctx, newEvent(models.EventCircleStarted, m.UserID, &circle.ID, circle.UpdatedAt, map[string]any{
			"circle_name":  circle.Name,
			"payout_order": m.PayoutOrder,
		}))
	}

	return circle, members, nil
}

// Get returns a circle visible to one of its members.
func (s *CircleService) Get(ctx context.Context, userID, circleID uuid.UUID) (*models.Circle, error) {
	circle, err := s.circles.GetByID(ctx, circleID)
	if err != nil {
		logger.Log.Errorw("failed to get circle", "circleID", circleID, "error", err)
		return nil, err
	}
	if circle == nil {
		return nil, ErrCircleNotFound
	}
	if err := s.requireMember(ctx, circleID, userID); err != nil {
		return nil, err
	}
	return circle, nil
}

// ListForUser returns the circles the user belongs to.
func (s *CircleService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Circle, error) {
	circles, err := s.circles.ListByMember(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list circles", "userID", userID, "error", err)
		return nil, err
	}
	return circles, nil
}

// Members returns the members of a circle ordered by payout order.
func (s *CircleService) Members(ctx context.Context, userID, circleID uuid.UUID) ([]models.CircleMember, error) {
	if _, err := s.Get(ctx, userID, circleID); err != nil {
		return nil, err
	}
	members, err := s.members.ListByCircle(ctx, circleID)
	if err != nil {
		logger.Log.Errorw("failed to list members", "circleID", circleID, "error", err)
		return nil, err
	}
	return members, nil
}

func (s *CircleService) requireMember(ctx context.Context, circleID, userID uuid.UUID) error {
	m, err := s.members.Get(ctx, circleID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotMember
	}
	return nil
}

// hostCircle locks the circle and checks that actorID is its host.
func (s *CircleService) hostCircle(ctx context.Context, actorID, circleID uuid.UUID) (*models.Circle, error) {
	circle, err := s.circles.GetByIDForUpdate(ctx, circleID)
	if err != nil {
		return nil, err
	}
	if circle == nil {
		return nil, ErrCircleNotFound
	}
	actor, err := s.members.Get(ctx, circleID, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrNotMember
	}
	if actor.Role != models.RoleHost {
		return nil, ErrNotHost
	}
	return circle, nil
}

func (s *CircleService) validate(amount int64, freq models.Frequency, pref models.PayoutPreference, target *int, members int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !freq.Valid() {
		return ErrInvalidFrequency
	}
	if !pref.Valid() {
		return ErrInvalidPreference
	}
	if target != nil && (*target < 2 || *target > s.maxMembers || *target < members) {
		return ErrInvalidTarget
	}
	return nil
}
