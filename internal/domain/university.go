package domain

import (
	"fmt"
	"math"
	"strings"
)

// Unknown is the sentinel for numeric fields whose value is not known.
const Unknown = -1

// UnknownField is the sentinel for string fields whose value is not known.
const UnknownField = "-1"

// Location categories for a university's setting.
const (
	LocationUrban     = "URBAN"
	LocationSuburban  = "SUBURBAN"
	LocationSmallCity = "SMALL-CITY"
	LocationUnknown   = "UNKNOWN"
)

// Control categories describing a university's ownership.
const (
	ControlState   = "STATE"
	ControlCity    = "CITY"
	ControlPrivate = "PRIVATE"
	ControlUnknown = "UNKNOWN"
)

// University represents a single school record. The name is the canonical
// uppercase key and is immutable after construction. Every other field
// defaults to the Unknown sentinel and is mutated through a validating
// setter, so a University value is always internally consistent.
//
// The emphasis list held here is a snapshot: the store's emphasis relation
// is the source of truth, and callers must not use this list to decide
// which associations exist (see service.UniversityService).
type University struct {
	name string

	state    string
	location string
	control  string

	numStudents        int
	numApplicants      int
	scaleAcademics     int
	scaleSocial        int
	scaleQualityOfLife int

	percentFemale       float64
	satVerbal           float64
	satMath             float64
	expenses            float64
	percentFinancialAid float64
	percentAdmitted     float64
	percentEnrolled     float64

	emphases []string
}

// NewUniversity creates a university with the given name and otherwise
// unknown information. The name must be non-empty and uppercase-normalized.
func NewUniversity(name string) (*University, error) {
	if err := ensureUpper("name", name); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: university %w", ErrInvalidArgument, ErrEmptyName)
	}
	return &University{
		name:                name,
		state:               UnknownField,
		location:            UnknownField,
		control:             UnknownField,
		numStudents:         Unknown,
		numApplicants:       Unknown,
		scaleAcademics:      Unknown,
		scaleSocial:         Unknown,
		scaleQualityOfLife:  Unknown,
		percentFemale:       Unknown,
		satVerbal:           Unknown,
		satMath:             Unknown,
		expenses:            Unknown,
		percentFinancialAid: Unknown,
		percentAdmitted:     Unknown,
		percentEnrolled:     Unknown,
	}, nil
}

// ensureUpper checks that s is uppercase-normalized.
func ensureUpper(field, s string) error {
	if strings.ToUpper(s) != s {
		return fmt.Errorf("%w: %s %q: %w", ErrInvalidArgument, field, s, ErrNotUppercase)
	}
	return nil
}

// ensureRange checks that x is the Unknown sentinel or within [lo, hi].
func ensureRange(field string, lo, x, hi float64) error {
	if x != Unknown && (x < lo || x > hi) {
		return fmt.Errorf("%w: %s %v not within [%v, %v]", ErrInvalidArgument, field, x, lo, hi)
	}
	return nil
}

// Name returns the immutable canonical name.
func (u *University) Name() string { return u.name }

func (u *University) State() string    { return u.state }
func (u *University) Location() string { return u.location }
func (u *University) Control() string  { return u.control }

func (u *University) NumStudents() int        { return u.numStudents }
func (u *University) NumApplicants() int      { return u.numApplicants }
func (u *University) ScaleAcademics() int     { return u.scaleAcademics }
func (u *University) ScaleSocial() int        { return u.scaleSocial }
func (u *University) ScaleQualityOfLife() int { return u.scaleQualityOfLife }

func (u *University) PercentFemale() float64       { return u.percentFemale }
func (u *University) SatVerbal() float64           { return u.satVerbal }
func (u *University) SatMath() float64             { return u.satMath }
func (u *University) Expenses() float64            { return u.expenses }
func (u *University) PercentFinancialAid() float64 { return u.percentFinancialAid }
func (u *University) PercentAdmitted() float64     { return u.percentAdmitted }
func (u *University) PercentEnrolled() float64     { return u.percentEnrolled }

// SetState sets the two-letter state code (uppercase) or the unknown sentinel.
func (u *University) SetState(state string) error {
	if err := ensureUpper("state", state); err != nil {
		return err
	}
	u.state = state
	return nil
}

// SetLocation sets the location category. Accepts the declared categories
// or the unknown sentinels.
func (u *University) SetLocation(location string) error {
	switch location {
	case LocationUrban, LocationSuburban, LocationSmallCity, LocationUnknown, UnknownField:
		u.location = location
		return nil
	}
	return fmt.Errorf("%w: location %q is not a known category", ErrInvalidArgument, location)
}

// SetControl sets the ownership category. Accepts the declared categories
// or the unknown sentinels.
func (u *University) SetControl(control string) error {
	switch control {
	case ControlState, ControlCity, ControlPrivate, ControlUnknown, UnknownField:
		u.control = control
		return nil
	}
	return fmt.Errorf("%w: control %q is not a known category", ErrInvalidArgument, control)
}

func (u *University) SetNumStudents(n int) error {
	if err := ensureRange("num students", 0, float64(n), math.MaxInt32); err != nil {
		return err
	}
	u.numStudents = n
	return nil
}

func (u *University) SetNumApplicants(n int) error {
	if err := ensureRange("num applicants", 0, float64(n), math.MaxInt32); err != nil {
		return err
	}
	u.numApplicants = n
	return nil
}

func (u *University) SetScaleAcademics(n int) error {
	if err := ensureRange("academics scale", 0, float64(n), 5); err != nil {
		return err
	}
	u.scaleAcademics = n
	return nil
}

func (u *University) SetScaleSocial(n int) error {
	if err := ensureRange("social scale", 0, float64(n), 5); err != nil {
		return err
	}
	u.scaleSocial = n
	return nil
}

func (u *University) SetScaleQualityOfLife(n int) error {
	if err := ensureRange("quality of life scale", 0, float64(n), 5); err != nil {
		return err
	}
	u.scaleQualityOfLife = n
	return nil
}

func (u *University) SetPercentFemale(v float64) error {
	if err := ensureRange("percent female", 0, v, 100); err != nil {
		return err
	}
	u.percentFemale = v
	return nil
}

func (u *University) SetSatVerbal(v float64) error {
	if err := ensureRange("sat verbal", 200, v, 800); err != nil {
		return err
	}
	u.satVerbal = v
	return nil
}

func (u *University) SetSatMath(v float64) error {
	if err := ensureRange("sat math", 200, v, 800); err != nil {
		return err
	}
	u.satMath = v
	return nil
}

func (u *University) SetExpenses(v float64) error {
	if err := ensureRange("expenses", 0, v, math.Inf(1)); err != nil {
		return err
	}
	u.expenses = v
	return nil
}

func (u *University) SetPercentFinancialAid(v float64) error {
	if err := ensureRange("percent financial aid", 0, v, 100); err != nil {
		return err
	}
	u.percentFinancialAid = v
	return nil
}

func (u *University) SetPercentAdmitted(v float64) error {
	if err := ensureRange("percent admitted", 0, v, 100); err != nil {
		return err
	}
	u.percentAdmitted = v
	return nil
}

func (u *University) SetPercentEnrolled(v float64) error {
	if err := ensureRange("percent enrolled", 0, v, 100); err != nil {
		return err
	}
	u.percentEnrolled = v
	return nil
}

// NormalizeEmphasis canonicalizes an emphasis tag: trimmed and uppercased.
func NormalizeEmphasis(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// AddEmphasis appends an emphasis tag to the in-memory snapshot. Tags are
// case-normalized and kept unique; adding an existing tag is a no-op.
func (u *University) AddEmphasis(tag string) error {
	tag = NormalizeEmphasis(tag)
	if tag == "" {
		return fmt.Errorf("%w: emphasis cannot be empty", ErrInvalidArgument)
	}
	for _, e := range u.emphases {
		if e == tag {
			return nil
		}
	}
	u.emphases = append(u.emphases, tag)
	return nil
}

// RemoveEmphasis removes a tag from the in-memory snapshot. Reports whether
// the tag was present.
func (u *University) RemoveEmphasis(tag string) bool {
	tag = NormalizeEmphasis(tag)
	for i, e := range u.emphases {
		if e == tag {
			u.emphases = append(u.emphases[:i], u.emphases[i+1:]...)
			return true
		}
	}
	return false
}

// SetEmphases replaces the snapshot with the given tags, validating and
// normalizing each one.
func (u *University) SetEmphases(tags []string) error {
	replacement := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = NormalizeEmphasis(t)
		if t == "" {
			return fmt.Errorf("%w: emphasis cannot be empty", ErrInvalidArgument)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		replacement = append(replacement, t)
	}
	u.emphases = replacement
	return nil
}

// Emphases returns a copy of the in-memory emphasis snapshot, in insertion
// order.
func (u *University) Emphases() []string {
	out := make([]string, len(u.emphases))
	copy(out, u.emphases)
	return out
}

// HasEmphasis reports whether the snapshot contains the given tag.
func (u *University) HasEmphasis(tag string) bool {
	tag = NormalizeEmphasis(tag)
	for _, e := range u.emphases {
		if e == tag {
			return true
		}
	}
	return false
}

// FindUniversity returns the first university in list with the given name,
// or nil if none matches. Callers should fetch the list once and reuse it
// rather than refetching per lookup.
func FindUniversity(list []*University, name string) *University {
	for _, u := range list {
		if u != nil && u.Name() == name {
			return u
		}
	}
	return nil
}
