package services

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/events"
)

// fakeStore is an in-memory stand-in for the SQLite repository, shared by
// the service tests.
type fakeStore struct {
	mu           sync.Mutex
	transactions map[int64]core.Transaction
	budgets      map[int64]core.Budget
	users        map[int64]core.User
	hashes       map[int64]string
	categories   map[string]bool
	nextID       int64

	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[int64]core.Transaction),
		budgets:      make(map[int64]core.Budget),
		users:        make(map[int64]core.User),
		hashes:       make(map[int64]string),
		categories: map[string]bool{
			"Income":    true,
			"Groceries": true,
			"Transport": true,
			"Rent":      true,
		},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListTransactions(ctx context.Context, owner int64) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []core.Transaction{}
	for _, t := range f.transactions {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.id()
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[t.ID]; !ok {
		return core.ErrNotFound
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) ListBudgets(ctx context.Context, owner int64) ([]core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []core.Budget{}
	for _, b := range f.budgets {
		if b.Owner == owner {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.budgets {
		if existing.Owner == b.Owner && existing.Category == b.Category {
			return core.Budget{}, core.ErrConflict
		}
	}
	b.ID = f.id()
	f.budgets[b.ID] = b
	return b, nil
}

func (f *fakeStore) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.budgets[id]
	if !ok {
		return core.Budget{}, core.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) UpdateBudget(ctx context.Context, id int64, amount core.Money, period core.BudgetPeriod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.budgets[id]
	if !ok {
		return core.ErrNotFound
	}
	b.Amount = amount
	b.Period = period
	f.budgets[id] = b
	return nil
}

func (f *fakeStore) DeleteBudget(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.budgets[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.budgets, id)
	return nil
}

func (f *fakeStore) CategoryExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories[name], nil
}

func (f *fakeStore) CreateUser(ctx context.Context, name, email, passwordHash string) (core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return core.User{}, core.ErrConflict
		}
	}
	u := core.User{ID: f.id(), Name: name, Email: email}
	f.users[u.ID] = u
	f.hashes[u.ID] = passwordHash
	return u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (core.User, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, f.hashes[u.ID], nil
		}
	}
	return core.User{}, "", core.ErrNotFound
}

func (f *fakeStore) GetUser(ctx context.Context, id int64) (core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*events.BudgetAlertMessage
	fail     bool
}

func (p *fakePublisher) PublishBudgetAlert(ctx context.Context, msg *events.BudgetAlertMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakePublisher) published() []*events.BudgetAlertMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.BudgetAlertMessage{}, p.messages...)
}

type fakeInvalidator struct {
	mu     sync.Mutex
	owners []int64
}

func (i *fakeInvalidator) InvalidateOwner(owner int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.owners = append(i.owners, owner)
}

func (i *fakeInvalidator) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.owners)
}
