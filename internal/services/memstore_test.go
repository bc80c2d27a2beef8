package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/sbilibin2017/gw-savings-circle/internal/repositories"
)

// memStore is an in-memory stand-in for the Postgres repositories. WithinTx restores the
// previous state when fn fails, like a rolled back transaction.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	// countDelay stretches CountPaid like a database round trip.
	countDelay time.Duration

	circles       map[uuid.UUID]models.Circle
	members       map[uuid.UUID]map[uuid.UUID]models.CircleMember
	contributions []models.Contribution
	wallets       map[uuid.UUID]models.Wallet
	transactions  []models.Transaction
	notifications map[uuid.UUID]models.Notification
}

func newMemStore() *memStore {
	return &memStore{
		circles:       map[uuid.UUID]models.Circle{},
		members:       map[uuid.UUID]map[uuid.UUID]models.CircleMember{},
		wallets:       map[uuid.UUID]models.Wallet{},
		notifications: map[uuid.UUID]models.Notification{},
	}
}

type memSnapshot struct {
	circles       map[uuid.UUID]models.Circle
	members       map[uuid.UUID]map[uuid.UUID]models.CircleMember
	contributions []models.Contribution
	wallets       map[uuid.UUID]models.Wallet
	transactions  []models.Transaction
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		circles:       make(map[uuid.UUID]models.Circle, len(s.circles)),
		members:       make(map[uuid.UUID]map[uuid.UUID]models.CircleMember, len(s.members)),
		contributions: append([]models.Contribution(nil), s.contributions...),
		wallets:       make(map[uuid.UUID]models.Wallet, len(s.wallets)),
		transactions:  append([]models.Transaction(nil), s.transactions...),
	}
	for k, v := range s.circles {
		snap.circles[k] = v
	}
	for k, v := range s.members {
		inner := make(map[uuid.UUID]models.CircleMember, len(v))
		for u, m := range v {
			inner[u] = m
		}
		snap.members[k] = inner
	}
	for k, v := range s.wallets {
		snap.wallets[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circles = snap.circles
	s.members = snap.members
	s.contributions = snap.contributions
	s.wallets = snap.wallets
	s.transactions = snap.transactions
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// --- circles ---

type memCircles struct{ s *memStore }

func (r memCircles) Create(ctx context.Context, c *models.Circle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.circles {
		if existing.InviteCode == c.InviteCode {
			return repositories.ErrDuplicate
		}
	}
	r.s.circles[c.ID] = *c
	return nil
}

func (r memCircles) GetByID(ctx context.Context, id uuid.UUID) (*models.Circle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.circles[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCircles) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Circle, error) {
	return r.GetByID(ctx, id)
}

func (r memCircles) GetByInviteCode(ctx context.Context, code string) (*models.Circle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.circles {
		if c.InviteCode == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCircles) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Circle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Circle{}
	for id, members := range r.s.members {
		if _, ok := members[userID]; ok {
			out = append(out, r.s.circles[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memCircles) Update(ctx context.Context, c *models.Circle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.circles[c.ID]; !ok {
		return sql.ErrNoRows
	}
	r.s.circles[c.ID] = *c
	return nil
}

// --- members ---

type memMembers struct{ s *memStore }

func (r memMembers) Add(ctx context.Context, member *models.CircleMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.members[member.CircleID] == nil {
		r.s.members[member.CircleID] = map[uuid.UUID]models.CircleMember{}
	}
	if _, ok := r.s.members[member.CircleID][member.UserID]; ok {
		return repositories.ErrDuplicate
	}
	r.s.members[member.CircleID][member.UserID] = *member
	return nil
}

func (r memMembers) Get(ctx context.Context, circleID, userID uuid.UUID) (*models.CircleMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[circleID][userID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r memMembers) ListByCircle(ctx context.Context, circleID uuid.UUID) ([]models.CircleMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.CircleMember{}
	for _, m := range r.s.members[circleID] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayoutOrder < out[j].PayoutOrder })
	return out, nil
}

func (r memMembers) Remove(ctx context.Context, circleID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[circleID][userID]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.members[circleID], userID)
	return nil
}

func (r memMembers) UpdatePayoutOrders(ctx context.Context, circleID uuid.UUID, orders map[uuid.UUID]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for userID, order := range orders {
		m, ok := r.s.members[circleID][userID]
		if !ok {
			return sql.ErrNoRows
		}
		m.PayoutOrder = order
		r.s.members[circleID][userID] = m
	}
	return nil
}

// --- contributions ---

type memContributions struct{ s *memStore }

func (r memContributions) Create(ctx context.Context, c *models.Contribution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.contributions {
		if existing.CircleID == c.CircleID && existing.UserID == c.UserID && existing.CycleNumber == c.CycleNumber &&
			existing.Status == models.ContributionStatusPaid && c.Status == models.ContributionStatusPaid {
			return repositories.ErrDuplicate
		}
	}
	r.s.contributions = append(r.s.contributions, *c)
	return nil
}

func (r memContributions) HasPaid(ctx context.Context, circleID, userID uuid.UUID, cycle int) (bool, error) {
	list, _ := r.ListByCycle(ctx, circleID, cycle)
	for _, c := range list {
		if c.UserID == userID && c.Status == models.ContributionStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

func (r memContributions) CountPaid(ctx context.Context, circleID uuid.UUID, cycle int) (int, error) {
	time.Sleep(r.s.countDelay)
	list, _ := r.ListByCycle(ctx, circleID, cycle)
	n := 0
	for _, c := range list {
		if c.Status == models.ContributionStatusPaid {
			n++
		}
	}
	return n, nil
}

func (r memContributions) ListByCycle(ctx context.Context, circleID uuid.UUID, cycle int) ([]models.Contribution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Contribution{}
	for _, c := range r.s.contributions {
		if c.CircleID == circleID && c.CycleNumber == cycle {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- wallets ---

type memWallets struct{ s *memStore }

func (r memWallets) EnsureUserWallet(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, error) {
	return r.ensure(func(w models.Wallet) bool { return w.UserID != nil && *w.UserID == userID },
		models.Wallet{UserID: &userID, Currency: currency})
}

func (r memWallets) EnsureCircleWallet(ctx context.Context, circleID uuid.UUID, currency string) (*models.Wallet, error) {
	return r.ensure(func(w models.Wallet) bool { return w.CircleID != nil && *w.CircleID == circleID },
		models.Wallet{CircleID: &circleID, Currency: currency})
}

func (r memWallets) ensure(match func(models.Wallet) bool, fresh models.Wallet) (*models.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.wallets {
		if match(w) {
			return &w, nil
		}
	}
	fresh.WalletID = uuid.New()
	r.s.wallets[fresh.WalletID] = fresh
	return &fresh, nil
}

func (r memWallets) GetByID(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[walletID]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r memWallets) Credit(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[walletID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	w.Balance += amount
	r.s.wallets[walletID] = w
	return w.Balance, nil
}

func (r memWallets) Debit(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[walletID]
	if !ok || w.Balance < amount {
		return 0, repositories.ErrInsufficientBalance
	}
	w.Balance -= amount
	r.s.wallets[walletID] = w
	return w.Balance, nil
}

// --- transactions ---

type memTransactions struct{ s *memStore }

func (r memTransactions) Create(ctx context.Context, t *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transactions {
		if existing.Reference == t.Reference {
			return repositories.ErrDuplicate
		}
	}
	r.s.transactions = append(r.s.transactions, *t)
	return nil
}

func (r memTransactions) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.transactions {
		if t.Reference == reference {
			return &t, nil
		}
	}
	return nil, nil
}

func (r memTransactions) GetByReferenceForUpdate(ctx context.Context, reference string) (*models.Transaction, error) {
	return r.GetByReference(ctx, reference)
}

func (r memTransactions) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, providerReference *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, t := range r.s.transactions {
		if t.TransactionID == id && t.Status == models.TransactionStatusPending {
			r.s.transactions[i].Status = status
			r.s.transactions[i].ProviderReference = providerReference
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r memTransactions) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Transaction{}
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		if r.s.transactions[i].WalletID == walletID {
			out = append(out, r.s.transactions[i])
		}
	}
	if offset >= len(out) {
		return []models.Transaction{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- helpers ---

func (s *memStore) userBalance(userID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.UserID != nil && *w.UserID == userID {
			return w.Balance
		}
	}
	return 0
}

func (s *memStore) circleBalance(circleID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.CircleID != nil && *w.CircleID == circleID {
			return w.Balance
		}
	}
	return 0
}

func (s *memStore) setCircleBalance(circleID uuid.UUID, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.wallets {
		if w.CircleID != nil && *w.CircleID == circleID {
			w.Balance = balance
			s.wallets[id] = w
		}
	}
}

func (s *memStore) orders(circleID uuid.UUID) map[uuid.UUID]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uuid.UUID]int{}
	for id, m := range s.members[circleID] {
		out[id] = m.PayoutOrder
	}
	return out
}

func (s *memStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

// recordingNotifier keeps every event it is given.
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, event models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count(t models.EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Type == t {
			c++
		}
	}
	return c
}

func (n *recordingNotifier) last(t models.EventType) *models.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.events) - 1; i >= 0; i-- {
		if n.events[i].Type == t {
			e := n.events[i]
			return &e
		}
	}
	return nil
}
