package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/platform/logger"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// PostgresUniversityStore implements the store.UniversityStore interface
// using a PostgreSQL database as the storage backend. The emphasis relation
// lives in its own table; rows there are authoritative, not the snapshot in
// a domain.University.
type PostgresUniversityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUniversityStore creates a new PostgreSQL implementation of the
// UniversityStore interface. If logger is nil, a default logger will be used.
func NewPostgresUniversityStore(db store.DBTX, logger *slog.Logger) *PostgresUniversityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUniversityStore{
		db:     db,
		logger: logger.With(slog.String("component", "university_store")),
	}
}

// Ensure PostgresUniversityStore implements store.UniversityStore interface
var _ store.UniversityStore = (*PostgresUniversityStore)(nil)

// WithTx implements store.UniversityStore.WithTx
func (s *PostgresUniversityStore) WithTx(tx *sql.Tx) store.UniversityStore {
	return &PostgresUniversityStore{db: tx, logger: s.logger}
}

// universityRow is the flat positional record shape of the universities
// table. It exists only inside this package; decoding into the validated
// entity happens in one place (toUniversity).
type universityRow struct {
	name                string
	state               string
	location            string
	control             string
	numStudents         int
	percentFemale       float64
	satVerbal           float64
	satMath             float64
	expenses            float64
	percentFinancialAid float64
	numApplicants       int
	percentAdmitted     float64
	percentEnrolled     float64
	scaleAcademics      int
	scaleSocial         int
	scaleQualityOfLife  int
}

const selectUniversityColumns = `
	SELECT name, state, location, control, num_students, percent_female,
	       sat_verbal, sat_math, expenses, percent_financial_aid,
	       num_applicants, percent_admitted, percent_enrolled,
	       scale_academics, scale_social, scale_quality_of_life
	FROM universities
`

// scanUniversityRow reads one flat record.
func scanUniversityRow(row rowScanner) (*universityRow, error) {
	var r universityRow
	err := row.Scan(
		&r.name,
		&r.state,
		&r.location,
		&r.control,
		&r.numStudents,
		&r.percentFemale,
		&r.satVerbal,
		&r.satMath,
		&r.expenses,
		&r.percentFinancialAid,
		&r.numApplicants,
		&r.percentAdmitted,
		&r.percentEnrolled,
		&r.scaleAcademics,
		&r.scaleSocial,
		&r.scaleQualityOfLife,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// toUniversity is the single decode boundary for university records: the
// flat row goes back through the validating constructor and setters, so a
// corrupt row surfaces here instead of leaking into the domain.
func toUniversity(r *universityRow, emphases []string) (*domain.University, error) {
	u, err := domain.NewUniversity(r.name)
	if err != nil {
		return nil, err
	}
	steps := []error{
		u.SetState(r.state),
		u.SetLocation(r.location),
		u.SetControl(r.control),
		u.SetNumStudents(r.numStudents),
		u.SetPercentFemale(r.percentFemale),
		u.SetSatVerbal(r.satVerbal),
		u.SetSatMath(r.satMath),
		u.SetExpenses(r.expenses),
		u.SetPercentFinancialAid(r.percentFinancialAid),
		u.SetNumApplicants(r.numApplicants),
		u.SetPercentAdmitted(r.percentAdmitted),
		u.SetPercentEnrolled(r.percentEnrolled),
		u.SetScaleAcademics(r.scaleAcademics),
		u.SetScaleSocial(r.scaleSocial),
		u.SetScaleQualityOfLife(r.scaleQualityOfLife),
		u.SetEmphases(emphases),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Create implements store.UniversityStore.Create. The scalar insert and the
// emphasis inserts are issued on the same DBTX; run inside a transaction
// they form a single atomic write.
func (s *PostgresUniversityStore) Create(ctx context.Context, u *domain.University) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO universities (name, state, location, control, num_students, percent_female,
			sat_verbal, sat_math, expenses, percent_financial_aid,
			num_applicants, percent_admitted, percent_enrolled,
			scale_academics, scale_social, scale_quality_of_life)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		u.Name(), u.State(), u.Location(), u.Control(),
		u.NumStudents(), u.PercentFemale(),
		u.SatVerbal(), u.SatMath(), u.Expenses(), u.PercentFinancialAid(),
		u.NumApplicants(), u.PercentAdmitted(), u.PercentEnrolled(),
		u.ScaleAcademics(), u.ScaleSocial(), u.ScaleQualityOfLife(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate university name during create",
				slog.String("name", u.Name()))
			return MapUniqueViolation(err, store.ErrUniversityExists)
		}
		log.Error("failed to create university",
			slog.String("error", err.Error()),
			slog.String("name", u.Name()))
		return MapError(err)
	}

	for _, tag := range u.Emphases() {
		if err := s.AddEmphasis(ctx, u.Name(), tag); err != nil {
			return err
		}
	}

	log.Info("university created",
		slog.String("name", u.Name()),
		slog.Int("emphases", len(u.Emphases())))
	return nil
}

// GetByName implements store.UniversityStore.GetByName
func (s *PostgresUniversityStore) GetByName(ctx context.Context, name string) (*domain.University, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, selectUniversityColumns+` WHERE name = $1`, name)
	r, err := scanUniversityRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("university not found", slog.String("name", name))
			return nil, store.ErrUniversityNotFound
		}
		log.Error("failed to get university",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, MapError(err)
	}

	emphases, err := s.ListEmphases(ctx, name)
	if err != nil {
		return nil, err
	}
	return toUniversity(r, emphases)
}

// GetAll implements store.UniversityStore.GetAll. The scalar records and the
// emphasis relation are fetched in two queries and joined in memory, keyed
// by name.
func (s *PostgresUniversityStore) GetAll(ctx context.Context) ([]*domain.University, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectUniversityColumns+` ORDER BY name`)
	if err != nil {
		log.Error("failed to list universities", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []*universityRow
	for rows.Next() {
		r, err := scanUniversityRow(rows)
		if err != nil {
			log.Error("failed to decode university row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	emphasesByName, err := s.allEmphasesByUniversity(ctx)
	if err != nil {
		return nil, err
	}

	universities := make([]*domain.University, 0, len(records))
	for _, r := range records {
		u, err := toUniversity(r, emphasesByName[r.name])
		if err != nil {
			return nil, err
		}
		universities = append(universities, u)
	}
	return universities, nil
}

// allEmphasesByUniversity returns the full emphasis relation keyed by
// university name. Universities with no emphases are absent from the map.
func (s *PostgresUniversityStore) allEmphasesByUniversity(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT university_name, emphasis
		FROM university_emphases
		ORDER BY university_name, emphasis
	`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string][]string)
	for rows.Next() {
		var name, tag string
		if err := rows.Scan(&name, &tag); err != nil {
			return nil, MapError(err)
		}
		result[name] = append(result[name], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return result, nil
}

// Update implements store.UniversityStore.Update. Scalar fields only; the
// emphasis relation is reconciled separately.
func (s *PostgresUniversityStore) Update(ctx context.Context, u *domain.University) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE universities
		SET state = $2, location = $3, control = $4, num_students = $5, percent_female = $6,
		    sat_verbal = $7, sat_math = $8, expenses = $9, percent_financial_aid = $10,
		    num_applicants = $11, percent_admitted = $12, percent_enrolled = $13,
		    scale_academics = $14, scale_social = $15, scale_quality_of_life = $16
		WHERE name = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		u.Name(), u.State(), u.Location(), u.Control(),
		u.NumStudents(), u.PercentFemale(),
		u.SatVerbal(), u.SatMath(), u.Expenses(), u.PercentFinancialAid(),
		u.NumApplicants(), u.PercentAdmitted(), u.PercentEnrolled(),
		u.ScaleAcademics(), u.ScaleSocial(), u.ScaleQualityOfLife(),
	)
	if err != nil {
		log.Error("failed to update university",
			slog.String("error", err.Error()),
			slog.String("name", u.Name()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUniversityNotFound); err != nil {
		return err
	}

	log.Info("university updated", slog.String("name", u.Name()))
	return nil
}

// Delete implements store.UniversityStore.Delete
func (s *PostgresUniversityStore) Delete(ctx context.Context, name string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM universities WHERE name = $1`, name)
	if err != nil {
		log.Error("failed to delete university",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUniversityNotFound); err != nil {
		return err
	}

	log.Info("university deleted", slog.String("name", name))
	return nil
}

// ListEmphases implements store.UniversityStore.ListEmphases
func (s *PostgresUniversityStore) ListEmphases(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT emphasis
		FROM university_emphases
		WHERE university_name = $1
		ORDER BY emphasis
	`, name)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tags, nil
}

// AddEmphasis implements store.UniversityStore.AddEmphasis
func (s *PostgresUniversityStore) AddEmphasis(ctx context.Context, name, tag string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO university_emphases (university_name, emphasis)
		VALUES ($1, $2)
	`, name, domain.NormalizeEmphasis(tag))
	if err != nil {
		log.Error("failed to add emphasis",
			slog.String("error", err.Error()),
			slog.String("name", name),
			slog.String("emphasis", tag))
		return MapError(err)
	}
	return nil
}

// RemoveEmphasis implements store.UniversityStore.RemoveEmphasis
func (s *PostgresUniversityStore) RemoveEmphasis(ctx context.Context, name, tag string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM university_emphases
		WHERE university_name = $1 AND emphasis = $2
	`, name, domain.NormalizeEmphasis(tag))
	if err != nil {
		log.Error("failed to remove emphasis",
			slog.String("error", err.Error()),
			slog.String("name", name),
			slog.String("emphasis", tag))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrNotFound)
}

// ListAllEmphases implements store.UniversityStore.ListAllEmphases
func (s *PostgresUniversityStore) ListAllEmphases(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT emphasis
		FROM university_emphases
		ORDER BY emphasis
	`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tags, nil
}
