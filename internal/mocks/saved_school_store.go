package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// SavedSchoolCall records one username/school write for verification.
type SavedSchoolCall struct {
	Username string
	School   string
}

// MockSavedSchoolStore implements store.SavedSchoolStore for testing.
type MockSavedSchoolStore struct {
	// Function fields for customizable behavior
	SaveFn             func(ctx context.Context, s *domain.SavedSchool) error
	ListByUserFn       func(ctx context.Context, username string) ([]*domain.SavedSchool, error)
	RemoveFn           func(ctx context.Context, username, schoolName string) error
	RemoveAllForUserFn func(ctx context.Context, username string) error

	// Data for the default implementation, keyed by username
	Saved map[string][]*domain.SavedSchool

	// Forced errors
	SaveError      error
	RemoveAllError error

	// Call tracking
	SaveCalls      []SavedSchoolCall
	RemoveCalls    []SavedSchoolCall
	RemoveAllCalls []string
}

// NewMockSavedSchoolStore creates a new mock store with initialized defaults.
func NewMockSavedSchoolStore() *MockSavedSchoolStore {
	return &MockSavedSchoolStore{
		Saved: make(map[string][]*domain.SavedSchool),
	}
}

// Ensure MockSavedSchoolStore implements store.SavedSchoolStore
var _ store.SavedSchoolStore = (*MockSavedSchoolStore)(nil)

// WithTx implements the SavedSchoolStore interface.
func (m *MockSavedSchoolStore) WithTx(tx *sql.Tx) store.SavedSchoolStore {
	return m
}

// Save implements the SavedSchoolStore interface.
func (m *MockSavedSchoolStore) Save(ctx context.Context, s *domain.SavedSchool) error {
	m.SaveCalls = append(m.SaveCalls, SavedSchoolCall{Username: s.Username, School: s.SchoolName})
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	if m.SaveError != nil {
		return m.SaveError
	}
	if err := s.Validate(); err != nil {
		return err
	}
	for _, existing := range m.Saved[s.Username] {
		if existing.SchoolName == s.SchoolName {
			return store.ErrSavedSchoolExists
		}
	}
	cp := *s
	m.Saved[s.Username] = append(m.Saved[s.Username], &cp)
	return nil
}

// ListByUser implements the SavedSchoolStore interface.
func (m *MockSavedSchoolStore) ListByUser(ctx context.Context, username string) ([]*domain.SavedSchool, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, username)
	}
	records := m.Saved[username]
	out := make([]*domain.SavedSchool, 0, len(records))
	for _, r := range records {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// Remove implements the SavedSchoolStore interface.
func (m *MockSavedSchoolStore) Remove(ctx context.Context, username, schoolName string) error {
	m.RemoveCalls = append(m.RemoveCalls, SavedSchoolCall{Username: username, School: schoolName})
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, username, schoolName)
	}
	records := m.Saved[username]
	for i, r := range records {
		if r.SchoolName == schoolName {
			m.Saved[username] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return store.ErrSavedSchoolNotFound
}

// RemoveAllForUser implements the SavedSchoolStore interface.
func (m *MockSavedSchoolStore) RemoveAllForUser(ctx context.Context, username string) error {
	m.RemoveAllCalls = append(m.RemoveAllCalls, username)
	if m.RemoveAllForUserFn != nil {
		return m.RemoveAllForUserFn(ctx, username)
	}
	if m.RemoveAllError != nil {
		return m.RemoveAllError
	}
	delete(m.Saved, username)
	return nil
}

// AllByUser implements the SavedSchoolStore interface.
func (m *MockSavedSchoolStore) AllByUser(ctx context.Context) (map[string][]string, error) {
	result := make(map[string][]string)
	for username, records := range m.Saved {
		for _, r := range records {
			result[username] = append(result[username], r.SchoolName)
		}
		sort.Strings(result[username])
	}
	return result, nil
}
