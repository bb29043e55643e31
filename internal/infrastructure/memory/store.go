package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/domain/repository"
)

// Store is a non-persistent implementation of every repository. Rows are copied
// on the way in and out so callers never share memory with the store.
//
// WithinTx serialises units of work and restores a snapshot when fn fails.
// Writes made outside WithinTx while a unit of work is running are lost if
// that unit of work rolls back.
type Store struct {
	txMu sync.Mutex

	mu            sync.RWMutex
	users         map[string]entity.User
	emailIndex    map[string]string // lower(email) -> user id
	transactions  map[string]entity.Transaction
	goals         map[string]entity.SavingsGoal
	plans         map[string]entity.SavingsPlan
	notifications map[string]entity.Notification
	seq           int64 // insertion order for stable sorting
	order         map[string]int64
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]entity.User),
		emailIndex:    make(map[string]string),
		transactions:  make(map[string]entity.Transaction),
		goals:         make(map[string]entity.SavingsGoal),
		plans:         make(map[string]entity.SavingsPlan),
		notifications: make(map[string]entity.Notification),
		order:         make(map[string]int64),
	}
}

type txKey struct{}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users         map[string]entity.User
	emailIndex    map[string]string
	transactions  map[string]entity.Transaction
	goals         map[string]entity.SavingsGoal
	plans         map[string]entity.SavingsPlan
	notifications map[string]entity.Notification
	seq           int64
	order         map[string]int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:         cloneMap(s.users),
		emailIndex:    cloneMap(s.emailIndex),
		transactions:  cloneMap(s.transactions),
		goals:         cloneMap(s.goals),
		plans:         cloneMap(s.plans),
		notifications: cloneMap(s.notifications),
		seq:           s.seq,
		order:         cloneMap(s.order),
	}
}

func (s *Store) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = sn.users
	s.emailIndex = sn.emailIndex
	s.transactions = sn.transactions
	s.goals = sn.goals
	s.plans = sn.plans
	s.notifications = sn.notifications
	s.seq = sn.seq
	s.order = sn.order
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// track records insertion order; callers hold mu.
func (s *Store) track(id string) {
	s.seq++
	s.order[id] = s.seq
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s} }
func (s *Store) Transactions() *TransactionRepository   { return &TransactionRepository{s} }
func (s *Store) Goals() *SavingsGoalRepository          { return &SavingsGoalRepository{s} }
func (s *Store) Plans() *SavingsPlanRepository          { return &SavingsPlanRepository{s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }

// ---- users ----

type UserRepository struct{ s *Store }

func copyUser(u entity.User) *entity.User {
	if u.OTP != nil {
		v := *u.OTP
		u.OTP = &v
	}
	if u.OTPExpiry != nil {
		v := *u.OTPExpiry
		u.OTPExpiry = &v
	}
	return &u
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := s.emailIndex[key]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *copyUser(*u)
	s.emailIndex[key] = u.ID
	s.track(u.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

// GetByIDForUpdate relies on WithinTx serialisation for exclusivity.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.emailIndex[strings.ToLower(email)]
	r.s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Balance = balance
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

func (r *UserRepository) UpdateOTP(_ context.Context, id, code string, expiry time.Time) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.SetOTP(code, expiry)
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

func (r *UserRepository) MarkVerified(_ context.Context, id, code string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.IsVerified || u.OTP == nil || *u.OTP != code {
		return repository.ErrNotFound
	}
	u.MarkVerified()
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

// ---- transactions ----

type TransactionRepository struct{ s *Store }

func (r *TransactionRepository) Create(_ context.Context, t *entity.Transaction) error {
	if !t.Type.Valid() {
		return fmt.Errorf("transaction %s: unknown type %q", t.ID, t.Type)
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Date = time.Now().UTC()
	s.transactions[t.ID] = *t
	s.track(t.ID)
	return nil
}

func (r *TransactionRepository) ListByUser(_ context.Context, userID string) ([]entity.Transaction, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] > s.order[out[j].ID] })
	return out, nil
}

func (r *TransactionRepository) SumByType(_ context.Context, userID string, typ entity.TransactionType) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range r.s.transactions {
		if t.UserID == userID && t.Type == typ {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// ---- savings goals ----

type SavingsGoalRepository struct{ s *Store }

func (r *SavingsGoalRepository) Create(_ context.Context, g *entity.SavingsGoal) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	g.CreatedAt = time.Now().UTC()
	s.goals[g.ID] = *g
	s.track(g.ID)
	return nil
}

func (r *SavingsGoalRepository) GetByID(_ context.Context, id string) (*entity.SavingsGoal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r *SavingsGoalRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.SavingsGoal, error) {
	return r.GetByID(ctx, id)
}

func (r *SavingsGoalRepository) ListByUser(_ context.Context, userID string) ([]entity.SavingsGoal, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.SavingsGoal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out, nil
}

func (r *SavingsGoalRepository) UpdateCurrentAmount(_ context.Context, id string, amount decimal.Decimal) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return repository.ErrNotFound
	}
	g.CurrentAmount = amount
	s.goals[id] = g
	return nil
}

// ---- savings plans ----

type SavingsPlanRepository struct{ s *Store }

func (r *SavingsPlanRepository) Create(_ context.Context, p *entity.SavingsPlan) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	s.plans[p.ID] = *p
	s.track(p.ID)
	return nil
}

func (r *SavingsPlanRepository) GetByID(_ context.Context, id string) (*entity.SavingsPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *SavingsPlanRepository) ListByUser(_ context.Context, userID string) ([]entity.SavingsPlan, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.SavingsPlan, 0)
	for _, p := range s.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out, nil
}

func (r *SavingsPlanRepository) SetActive(_ context.Context, id string, active bool) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	s.plans[id] = p
	return nil
}

func (r *SavingsPlanRepository) Delete(_ context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.plans, id)
	delete(s.order, id)
	return nil
}

// ---- notifications ----

type NotificationRepository struct{ s *Store }

func (r *NotificationRepository) Create(_ context.Context, n *entity.Notification) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	n.CreatedAt = time.Now().UTC()
	n.IsRead = false
	s.notifications[n.ID] = *n
	s.track(n.ID)
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string) ([]entity.Notification, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] > s.order[out[j].ID] })
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	return nil
}

var (
	_ repository.TxManager              = (*Store)(nil)
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.TransactionRepository  = (*TransactionRepository)(nil)
	_ repository.SavingsGoalRepository  = (*SavingsGoalRepository)(nil)
	_ repository.SavingsPlanRepository  = (*SavingsPlanRepository)(nil)
	_ repository.NotificationRepository = (*NotificationRepository)(nil)
)
