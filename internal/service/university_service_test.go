package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/mocks"
	"github.com/choosemycollege/cmc-core/internal/service"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// fakeCatalogCache is an in-memory service.CatalogCache that counts its
// calls, so tests can assert read-through and invalidation behavior.
type fakeCatalogCache struct {
	data          []*domain.University
	populated     bool
	sets          int
	invalidations int
}

func (c *fakeCatalogCache) Get(ctx context.Context) ([]*domain.University, bool) {
	return c.data, c.populated
}

func (c *fakeCatalogCache) Set(ctx context.Context, universities []*domain.University) {
	c.data = universities
	c.populated = true
	c.sets++
}

func (c *fakeCatalogCache) Invalidate(ctx context.Context) {
	c.data = nil
	c.populated = false
	c.invalidations++
}

func newUniversityService(t *testing.T, cache service.CatalogCache) (*service.UniversityService, *mocks.MockUniversityStore) {
	t.Helper()
	unis := mocks.NewMockUniversityStore()
	svc := service.NewUniversityService(unis, mocks.PassthroughTxRunner(), cache, nil)
	return svc, unis
}

// seedUniversity puts a university with the given state and emphases
// directly into the mock store.
func seedUniversity(t *testing.T, unis *mocks.MockUniversityStore, name, state string, emphases ...string) {
	t.Helper()
	u, err := domain.NewUniversity(name)
	require.NoError(t, err)
	require.NoError(t, u.SetState(state))
	unis.Universities[name] = u
	unis.Emphases[name] = append([]string(nil), emphases...)
}

func universityNames(list []*domain.University) []string {
	names := make([]string, 0, len(list))
	for _, u := range list {
		names = append(names, u.Name())
	}
	return names
}

func TestUniversityService_All(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the catalog ordered by name", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "YALE", "CONNECTICUT")
		seedUniversity(t, unis, "BROWN", "RHODE ISLAND")

		all, err := svc.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"BROWN", "YALE"}, universityNames(all))
	})

	t.Run("populates the cache on a miss and serves from it after", func(t *testing.T) {
		t.Parallel()
		cache := &fakeCatalogCache{}
		svc, unis := newUniversityService(t, cache)
		seedUniversity(t, unis, "YALE", "CONNECTICUT")

		_, err := svc.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)

		storeReads := 0
		unis.GetAllFn = func(ctx context.Context) ([]*domain.University, error) {
			storeReads++
			return nil, nil
		}
		all, err := svc.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"YALE"}, universityNames(all))
		assert.Zero(t, storeReads)
	})
}

func TestUniversityService_Find(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("normalizes the name before lookup", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "YALE", "CONNECTICUT")

		u, err := svc.Find(ctx, "  yale ")
		require.NoError(t, err)
		assert.Equal(t, "YALE", u.Name())
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUniversityService(t, nil)

		_, err := svc.Find(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("returns ErrUniversityNotFound for unknown names", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUniversityService(t, nil)

		_, err := svc.Find(ctx, "NOWHERE")
		assert.ErrorIs(t, err, store.ErrUniversityNotFound)
	})
}

func TestUniversityService_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores the university with its emphases", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)

		u, err := domain.NewUniversity("YALE")
		require.NoError(t, err)
		require.NoError(t, u.AddEmphasis("LIBERAL-ARTS"))

		require.NoError(t, svc.Add(ctx, u))
		assert.Contains(t, unis.Universities, "YALE")
		assert.Equal(t, []string{"LIBERAL-ARTS"}, unis.Emphases["YALE"])
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "YALE", "CONNECTICUT")

		u, err := domain.NewUniversity("YALE")
		require.NoError(t, err)
		err = svc.Add(ctx, u)
		assert.ErrorIs(t, err, store.ErrUniversityExists)
	})

	t.Run("invalidates the catalog cache", func(t *testing.T) {
		t.Parallel()
		cache := &fakeCatalogCache{populated: true}
		svc, _ := newUniversityService(t, cache)

		u, err := domain.NewUniversity("YALE")
		require.NoError(t, err)
		require.NoError(t, svc.Add(ctx, u))
		assert.Equal(t, 1, cache.invalidations)
	})
}

func TestUniversityService_Edit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes only the emphasis delta", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "YALE", "CONNECTICUT", "ART", "BIOLOGY")

		snapshot, err := domain.NewUniversity("YALE")
		require.NoError(t, err)
		require.NoError(t, snapshot.SetState("CONNECTICUT"))
		require.NoError(t, snapshot.SetEmphases([]string{"BIOLOGY", "CHEMISTRY"}))

		require.NoError(t, svc.Edit(ctx, snapshot))

		assert.Equal(t, []mocks.EmphasisCall{{Name: "YALE", Tag: "ART"}}, unis.RemoveEmphasisCalls)
		assert.Equal(t, []mocks.EmphasisCall{{Name: "YALE", Tag: "CHEMISTRY"}}, unis.AddEmphasisCalls)
		assert.ElementsMatch(t, []string{"BIOLOGY", "CHEMISTRY"}, unis.Emphases["YALE"])
	})

	t.Run("is idempotent: a repeat edit performs no emphasis writes", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "YALE", "CONNECTICUT", "ART")

		snapshot, err := domain.NewUniversity("YALE")
		require.NoError(t, err)
		require.NoError(t, snapshot.SetEmphases([]string{"ART", "BIOLOGY"}))

		require.NoError(t, svc.Edit(ctx, snapshot))
		writesAfterFirst := len(unis.AddEmphasisCalls) + len(unis.RemoveEmphasisCalls)
		require.Equal(t, 1, writesAfterFirst)

		require.NoError(t, svc.Edit(ctx, snapshot))
		assert.Equal(t, writesAfterFirst, len(unis.AddEmphasisCalls)+len(unis.RemoveEmphasisCalls))
	})

	t.Run("returns ErrUniversityNotFound for unknown universities", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUniversityService(t, nil)

		snapshot, err := domain.NewUniversity("NOWHERE")
		require.NoError(t, err)
		err = svc.Edit(ctx, snapshot)
		assert.ErrorIs(t, err, store.ErrUniversityNotFound)
	})
}

func TestUniversityService_Remove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes the record and every emphasis association", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "YALE", "CONNECTICUT", "ART", "BIOLOGY")

		require.NoError(t, svc.Remove(ctx, "yale"))
		assert.NotContains(t, unis.Universities, "YALE")
		assert.Len(t, unis.RemoveEmphasisCalls, 2)
		assert.Equal(t, []string{"YALE"}, unis.DeleteCalls)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUniversityService(t, nil)

		err := svc.Remove(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("returns ErrUniversityNotFound for unknown names", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUniversityService(t, nil)

		err := svc.Remove(ctx, "NOWHERE")
		assert.ErrorIs(t, err, store.ErrUniversityNotFound)
	})
}

func TestUniversityService_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) *service.UniversityService {
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "CARLETON", "MINNESOTA")
		seedUniversity(t, unis, "ST OLAF", "MINNESOTA")
		seedUniversity(t, unis, "YALE", "CONNECTICUT")
		return svc
	}

	t.Run("nil criteria match everything", func(t *testing.T) {
		t.Parallel()
		svc := setup(t)

		all, err := svc.Search(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("state search is an exact match", func(t *testing.T) {
		t.Parallel()
		svc := setup(t)

		matched, err := svc.SearchByState(ctx, "MINNESOTA")
		require.NoError(t, err)
		assert.Equal(t, []string{"CARLETON", "ST OLAF"}, universityNames(matched))
	})

	t.Run("empty state returns every university", func(t *testing.T) {
		t.Parallel()
		svc := setup(t)

		matched, err := svc.SearchByState(ctx, "")
		require.NoError(t, err)
		assert.Len(t, matched, 3)
	})
}

func TestUniversityService_Details(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("renders every field of a known university", func(t *testing.T) {
		t.Parallel()
		svc, unis := newUniversityService(t, nil)
		seedUniversity(t, unis, "YALE", "CONNECTICUT", "LIBERAL-ARTS")

		out, err := svc.Details(ctx, "yale")
		require.NoError(t, err)
		assert.Contains(t, out, "University Name: YALE")
		assert.Contains(t, out, "State: CONNECTICUT")
		assert.Contains(t, out, "Emphases: LIBERAL-ARTS")
	})

	t.Run("reports a missing university without an error", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUniversityService(t, nil)

		out, err := svc.Details(ctx, "nowhere")
		require.NoError(t, err)
		assert.Equal(t, "NOWHERE is not found in the database.", out)
	})
}
