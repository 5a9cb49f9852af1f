package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, account *domain.Account) error
	GetByUsernameFn func(ctx context.Context, username string) (*domain.Account, error)
	GetAllFn        func(ctx context.Context) ([]*domain.Account, error)
	UpdateFn        func(ctx context.Context, account *domain.Account) error
	DeleteFn        func(ctx context.Context, username string) error

	// Data for the default implementation
	Users map[string]*domain.Account

	// Forced errors
	CreateError error
	UpdateError error
	DeleteError error

	// Call tracking
	UpdateCalls []string
	DeleteCalls []string
}

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.Account),
	}
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// WithTx implements the UserStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if err := account.Validate(); err != nil {
		return err
	}
	if _, exists := m.Users[account.Username]; exists {
		return store.ErrUsernameExists
	}
	cp := *account
	m.Users[account.Username] = &cp
	return nil
}

// GetByUsername implements the UserStore interface.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	account, exists := m.Users[username]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	cp := *account
	return &cp, nil
}

// GetAll implements the UserStore interface.
func (m *MockUserStore) GetAll(ctx context.Context) ([]*domain.Account, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	usernames := make([]string, 0, len(m.Users))
	for username := range m.Users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	accounts := make([]*domain.Account, 0, len(usernames))
	for _, username := range usernames {
		cp := *m.Users[username]
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

// Update implements the UserStore interface.
func (m *MockUserStore) Update(ctx context.Context, account *domain.Account) error {
	m.UpdateCalls = append(m.UpdateCalls, account.Username)
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, account)
	}
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, exists := m.Users[account.Username]; !exists {
		return store.ErrUserNotFound
	}
	cp := *account
	m.Users[account.Username] = &cp
	return nil
}

// Delete implements the UserStore interface.
func (m *MockUserStore) Delete(ctx context.Context, username string) error {
	m.DeleteCalls = append(m.DeleteCalls, username)
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, username)
	}
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, exists := m.Users[username]; !exists {
		return store.ErrUserNotFound
	}
	delete(m.Users, username)
	return nil
}
