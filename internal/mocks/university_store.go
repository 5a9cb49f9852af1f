package mocks

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// EmphasisCall records one emphasis write for verification.
type EmphasisCall struct {
	Name string
	Tag  string
}

// MockUniversityStore implements store.UniversityStore for testing. The
// emphasis relation is tracked separately from the entity snapshots, so
// tests can set up a store whose authoritative relation disagrees with a
// caller's in-memory copy.
type MockUniversityStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, u *domain.University) error
	GetByNameFn      func(ctx context.Context, name string) (*domain.University, error)
	GetAllFn         func(ctx context.Context) ([]*domain.University, error)
	UpdateFn         func(ctx context.Context, u *domain.University) error
	DeleteFn         func(ctx context.Context, name string) error
	AddEmphasisFn    func(ctx context.Context, name, tag string) error
	RemoveEmphasisFn func(ctx context.Context, name, tag string) error

	// Data for the default implementation
	Universities map[string]*domain.University
	Emphases     map[string][]string

	// Forced errors
	UpdateError         error
	AddEmphasisError    error
	RemoveEmphasisError error

	// Call tracking
	AddEmphasisCalls    []EmphasisCall
	RemoveEmphasisCalls []EmphasisCall
	UpdateCalls         []string
	DeleteCalls         []string
}

// NewMockUniversityStore creates a new mock store with initialized defaults.
func NewMockUniversityStore() *MockUniversityStore {
	return &MockUniversityStore{
		Universities: make(map[string]*domain.University),
		Emphases:     make(map[string][]string),
	}
}

// Ensure MockUniversityStore implements store.UniversityStore
var _ store.UniversityStore = (*MockUniversityStore)(nil)

// WithTx implements the UniversityStore interface.
func (m *MockUniversityStore) WithTx(tx *sql.Tx) store.UniversityStore {
	return m
}

// cloneUniversity deep-copies an entity through its JSON form so mutations
// by the caller cannot leak back into the store state.
func cloneUniversity(u *domain.University) *domain.University {
	data, err := json.Marshal(u)
	if err != nil {
		panic("mock: failed to clone university: " + err.Error())
	}
	var cp domain.University
	if err := json.Unmarshal(data, &cp); err != nil {
		panic("mock: failed to clone university: " + err.Error())
	}
	return &cp
}

// withEmphases returns a copy of the stored entity whose snapshot reflects
// the mock's authoritative emphasis relation.
func (m *MockUniversityStore) withEmphases(u *domain.University) *domain.University {
	cp := cloneUniversity(u)
	if err := cp.SetEmphases(m.Emphases[u.Name()]); err != nil {
		panic("mock: invalid emphasis state: " + err.Error())
	}
	return cp
}

// Create implements the UniversityStore interface.
func (m *MockUniversityStore) Create(ctx context.Context, u *domain.University) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	if _, exists := m.Universities[u.Name()]; exists {
		return store.ErrUniversityExists
	}
	m.Universities[u.Name()] = cloneUniversity(u)
	for _, tag := range u.Emphases() {
		m.Emphases[u.Name()] = append(m.Emphases[u.Name()], tag)
	}
	return nil
}

// GetByName implements the UniversityStore interface.
func (m *MockUniversityStore) GetByName(ctx context.Context, name string) (*domain.University, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	u, exists := m.Universities[name]
	if !exists {
		return nil, store.ErrUniversityNotFound
	}
	return m.withEmphases(u), nil
}

// GetAll implements the UniversityStore interface.
func (m *MockUniversityStore) GetAll(ctx context.Context) ([]*domain.University, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	names := make([]string, 0, len(m.Universities))
	for name := range m.Universities {
		names = append(names, name)
	}
	sort.Strings(names)

	universities := make([]*domain.University, 0, len(names))
	for _, name := range names {
		universities = append(universities, m.withEmphases(m.Universities[name]))
	}
	return universities, nil
}

// Update implements the UniversityStore interface. Scalar fields only.
func (m *MockUniversityStore) Update(ctx context.Context, u *domain.University) error {
	m.UpdateCalls = append(m.UpdateCalls, u.Name())
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, exists := m.Universities[u.Name()]; !exists {
		return store.ErrUniversityNotFound
	}
	m.Universities[u.Name()] = cloneUniversity(u)
	return nil
}

// Delete implements the UniversityStore interface.
func (m *MockUniversityStore) Delete(ctx context.Context, name string) error {
	m.DeleteCalls = append(m.DeleteCalls, name)
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, name)
	}
	if _, exists := m.Universities[name]; !exists {
		return store.ErrUniversityNotFound
	}
	delete(m.Universities, name)
	delete(m.Emphases, name)
	return nil
}

// ListEmphases implements the UniversityStore interface.
func (m *MockUniversityStore) ListEmphases(ctx context.Context, name string) ([]string, error) {
	tags := m.Emphases[name]
	out := make([]string, len(tags))
	copy(out, tags)
	return out, nil
}

// AddEmphasis implements the UniversityStore interface.
func (m *MockUniversityStore) AddEmphasis(ctx context.Context, name, tag string) error {
	m.AddEmphasisCalls = append(m.AddEmphasisCalls, EmphasisCall{Name: name, Tag: tag})
	if m.AddEmphasisFn != nil {
		return m.AddEmphasisFn(ctx, name, tag)
	}
	if m.AddEmphasisError != nil {
		return m.AddEmphasisError
	}
	tag = domain.NormalizeEmphasis(tag)
	for _, existing := range m.Emphases[name] {
		if existing == tag {
			return store.ErrDuplicate
		}
	}
	m.Emphases[name] = append(m.Emphases[name], tag)
	return nil
}

// RemoveEmphasis implements the UniversityStore interface.
func (m *MockUniversityStore) RemoveEmphasis(ctx context.Context, name, tag string) error {
	m.RemoveEmphasisCalls = append(m.RemoveEmphasisCalls, EmphasisCall{Name: name, Tag: tag})
	if m.RemoveEmphasisFn != nil {
		return m.RemoveEmphasisFn(ctx, name, tag)
	}
	if m.RemoveEmphasisError != nil {
		return m.RemoveEmphasisError
	}
	tag = domain.NormalizeEmphasis(tag)
	tags := m.Emphases[name]
	for i, existing := range tags {
		if existing == tag {
			m.Emphases[name] = append(tags[:i], tags[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// ListAllEmphases implements the UniversityStore interface.
func (m *MockUniversityStore) ListAllEmphases(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var tags []string
	for _, list := range m.Emphases {
		for _, tag := range list {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}
