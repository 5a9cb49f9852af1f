package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// CatalogCache caches the full university catalog between reads. The service
// invalidates it on every write, so a populated cache is never stale beyond
// the current write. A nil CatalogCache disables caching.
type CatalogCache interface {
	// Get returns the cached catalog and whether the cache was populated.
	Get(ctx context.Context) ([]*domain.University, bool)

	// Set replaces the cached catalog.
	Set(ctx context.Context, universities []*domain.University)

	// Invalidate drops the cached catalog.
	Invalidate(ctx context.Context)
}

// UniversityService handles all operations related to universities: CRUD,
// emphasis reconciliation, and search. Every multi-step write runs inside a
// single transaction, so the scalar record and the emphasis relation can
// never end up half-updated.
type UniversityService struct {
	unis   store.UniversityStore
	runTx  store.TxRunner
	cache  CatalogCache
	logger *slog.Logger
}

// NewUniversityService creates a new UniversityService. cache may be nil to
// disable catalog caching.
func NewUniversityService(
	unis store.UniversityStore,
	runTx store.TxRunner,
	cache CatalogCache,
	logger *slog.Logger,
) *UniversityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UniversityService{
		unis:   unis,
		runTx:  runTx,
		cache:  cache,
		logger: logger.With(slog.String("component", "university_service")),
	}
}

// invalidate drops the cached catalog after a successful write.
func (s *UniversityService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// All returns every university, emphases included, ordered by name.
func (s *UniversityService) All(ctx context.Context) ([]*domain.University, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			s.logger.Debug("catalog served from cache",
				slog.Int("count", len(cached)))
			return cached, nil
		}
	}

	universities, err := s.unis.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, universities)
	}
	return universities, nil
}

// Find retrieves one university by name. Lookup is by canonical uppercase
// name; the input is normalized first. Returns store.ErrUniversityNotFound
// if no university has that name.
func (s *UniversityService) Find(ctx context.Context, name string) (*domain.University, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: university %w", domain.ErrInvalidArgument, domain.ErrEmptyName)
	}
	return s.unis.GetByName(ctx, name)
}

// Add inserts a new university together with its emphasis associations as
// one atomic write. Returns store.ErrUniversityExists if the name is taken.
func (s *UniversityService) Add(ctx context.Context, u *domain.University) error {
	if u == nil {
		return fmt.Errorf("%w: university cannot be nil", domain.ErrInvalidArgument)
	}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.unis.WithTx(tx).Create(ctx, u)
	})
	if err != nil {
		if errors.Is(err, store.ErrUniversityExists) {
			s.logger.Debug("attempted to add existing university",
				slog.String("name", u.Name()))
		} else {
			s.logger.Error("failed to add university",
				slog.String("error", err.Error()),
				slog.String("name", u.Name()))
		}
		return fmt.Errorf("failed to add university: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

// Edit updates a university's scalar fields and reconciles its emphasis
// associations to match the given snapshot. The current emphasis set is
// read from the store inside the transaction: the caller's in-memory
// snapshot says what the emphases should become, never what they are.
// Only the computed delta is written, so calling Edit twice with the same
// snapshot performs no emphasis writes the second time.
// Returns store.ErrUniversityNotFound if the university does not exist.
func (s *UniversityService) Edit(ctx context.Context, u *domain.University) error {
	if u == nil {
		return fmt.Errorf("%w: university cannot be nil", domain.ErrInvalidArgument)
	}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUnis := s.unis.WithTx(tx)

		current, err := txUnis.ListEmphases(ctx, u.Name())
		if err != nil {
			return fmt.Errorf("failed to read current emphases: %w", err)
		}

		toAdd, toRemove := ReconcileSets(current, u.Emphases())
		for _, tag := range toRemove {
			if err := txUnis.RemoveEmphasis(ctx, u.Name(), tag); err != nil {
				return fmt.Errorf("failed to remove emphasis %q: %w", tag, err)
			}
		}
		for _, tag := range toAdd {
			if err := txUnis.AddEmphasis(ctx, u.Name(), tag); err != nil {
				return fmt.Errorf("failed to add emphasis %q: %w", tag, err)
			}
		}

		// The scalar write also verifies existence: editing an unknown
		// university rolls the emphasis writes back.
		return txUnis.Update(ctx, u)
	})
	if err != nil {
		if errors.Is(err, store.ErrUniversityNotFound) {
			s.logger.Debug("attempted to edit unknown university",
				slog.String("name", u.Name()))
		} else {
			s.logger.Error("failed to edit university",
				slog.String("error", err.Error()),
				slog.String("name", u.Name()))
		}
		return fmt.Errorf("failed to edit university: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("university edited", slog.String("name", u.Name()))
	return nil
}

// Remove deletes a university and its emphasis associations in one
// transaction. The association set is read from the store, not from any
// caller-held snapshot. Returns store.ErrUniversityNotFound if the
// university does not exist.
func (s *UniversityService) Remove(ctx context.Context, name string) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("%w: university %w", domain.ErrInvalidArgument, domain.ErrEmptyName)
	}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUnis := s.unis.WithTx(tx)

		current, err := txUnis.ListEmphases(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to read current emphases: %w", err)
		}
		for _, tag := range current {
			if err := txUnis.RemoveEmphasis(ctx, name, tag); err != nil {
				return fmt.Errorf("failed to remove emphasis %q: %w", tag, err)
			}
		}
		return txUnis.Delete(ctx, name)
	})
	if err != nil {
		if errors.Is(err, store.ErrUniversityNotFound) {
			s.logger.Debug("attempted to remove unknown university",
				slog.String("name", name))
		} else {
			s.logger.Error("failed to remove university",
				slog.String("error", err.Error()),
				slog.String("name", name))
		}
		return fmt.Errorf("failed to remove university: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("university removed", slog.String("name", name))
	return nil
}

// AllEmphases returns every distinct emphasis tag present in the store.
func (s *UniversityService) AllEmphases(ctx context.Context) ([]string, error) {
	return s.unis.ListAllEmphases(ctx)
}

// Search returns every university matching the criteria. Nil criteria match
// everything.
func (s *UniversityService) Search(ctx context.Context, criteria *domain.SearchCriteria) ([]*domain.University, error) {
	universities, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if criteria == nil {
		return universities, nil
	}

	matched := make([]*domain.University, 0, len(universities))
	for _, u := range universities {
		if criteria.Matches(u) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// SearchByState is the single-field search the interaction layer exposes:
// an exact, case-sensitive state match, with the empty string returning
// every university.
func (s *UniversityService) SearchByState(ctx context.Context, state string) ([]*domain.University, error) {
	return s.Search(ctx, domain.ByState(state))
}

// Details returns a human-readable summary of one university, or a
// not-found message when it does not exist.
func (s *UniversityService) Details(ctx context.Context, name string) (string, error) {
	u, err := s.Find(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrUniversityNotFound) {
			return fmt.Sprintf("%s is not found in the database.", strings.ToUpper(strings.TrimSpace(name))), nil
		}
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "University Name: %s\n", u.Name())
	fmt.Fprintf(&b, "State: %s\n", u.State())
	fmt.Fprintf(&b, "Location: %s\n", u.Location())
	fmt.Fprintf(&b, "Control: %s\n", u.Control())
	fmt.Fprintf(&b, "Number of Students: %d\n", u.NumStudents())
	fmt.Fprintf(&b, "Percent Female: %v%%\n", u.PercentFemale())
	fmt.Fprintf(&b, "SAT Verbal: %v\n", u.SatVerbal())
	fmt.Fprintf(&b, "SAT Math: %v\n", u.SatMath())
	fmt.Fprintf(&b, "Expenses: $%v\n", u.Expenses())
	fmt.Fprintf(&b, "Percent Financial Aid: %v%%\n", u.PercentFinancialAid())
	fmt.Fprintf(&b, "Number of Applicants: %d\n", u.NumApplicants())
	fmt.Fprintf(&b, "Percent Admitted: %v%%\n", u.PercentAdmitted())
	fmt.Fprintf(&b, "Percent Enrolled: %v%%\n", u.PercentEnrolled())
	fmt.Fprintf(&b, "Academic Scale (0-5): %d\n", u.ScaleAcademics())
	fmt.Fprintf(&b, "Social Scale (0-5): %d\n", u.ScaleSocial())
	fmt.Fprintf(&b, "Quality of Life Scale (0-5): %d\n", u.ScaleQualityOfLife())

	b.WriteString("Emphases: ")
	emphases := u.Emphases()
	if len(emphases) == 0 {
		b.WriteString("None")
	} else {
		b.WriteString(strings.Join(emphases, ", "))
	}
	return b.String(), nil
}
