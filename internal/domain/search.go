package domain

// SearchCriteria describes a university search. String fields are exact-match
// filters when non-empty; numeric bounds are inclusive, with the Unknown
// sentinel (-1) meaning "no bound"; a non-empty emphasis list matches any
// university sharing at least one tag.
type SearchCriteria struct {
	Name     string
	State    string
	Location string
	Control  string

	MinStudents int
	MaxStudents int

	MinPercentFemale float64
	MaxPercentFemale float64

	MinSatVerbal float64
	MaxSatVerbal float64

	MinSatMath float64
	MaxSatMath float64

	MinExpenses float64
	MaxExpenses float64

	MinPercentFinancialAid float64
	MaxPercentFinancialAid float64

	MinApplicants int
	MaxApplicants int

	MinPercentAdmitted float64
	MaxPercentAdmitted float64

	MinPercentEnrolled float64
	MaxPercentEnrolled float64

	MinAcademicScale int
	MaxAcademicScale int

	MinSocialScale int
	MaxSocialScale int

	MinQualityOfLifeScale int
	MaxQualityOfLifeScale int

	Emphases []string
}

// NewSearchCriteria returns criteria that match every university: no string
// filters and every bound set to the Unknown sentinel.
func NewSearchCriteria() *SearchCriteria {
	return &SearchCriteria{
		MinStudents:            Unknown,
		MaxStudents:            Unknown,
		MinPercentFemale:       Unknown,
		MaxPercentFemale:       Unknown,
		MinSatVerbal:           Unknown,
		MaxSatVerbal:           Unknown,
		MinSatMath:             Unknown,
		MaxSatMath:             Unknown,
		MinExpenses:            Unknown,
		MaxExpenses:            Unknown,
		MinPercentFinancialAid: Unknown,
		MaxPercentFinancialAid: Unknown,
		MinApplicants:          Unknown,
		MaxApplicants:          Unknown,
		MinPercentAdmitted:     Unknown,
		MaxPercentAdmitted:     Unknown,
		MinPercentEnrolled:     Unknown,
		MaxPercentEnrolled:     Unknown,
		MinAcademicScale:       Unknown,
		MaxAcademicScale:       Unknown,
		MinSocialScale:         Unknown,
		MaxSocialScale:         Unknown,
		MinQualityOfLifeScale:  Unknown,
		MaxQualityOfLifeScale:  Unknown,
	}
}

// ByState returns criteria filtering on an exact state match only. The empty
// string matches every university.
func ByState(state string) *SearchCriteria {
	c := NewSearchCriteria()
	c.State = state
	return c
}

// matchString is the exact-match predicate for string criteria: an unset
// (empty) filter matches everything.
func matchString(filter, value string) bool {
	return filter == "" || filter == value
}

// inRange is the inclusive range predicate for numeric criteria. A bound of
// Unknown imposes no limit. A value of Unknown fails any bounded filter,
// since an unknown value cannot be shown to satisfy it.
func inRange(value, min, max float64) bool {
	if min == Unknown && max == Unknown {
		return true
	}
	if value == Unknown {
		return false
	}
	if min != Unknown && value < min {
		return false
	}
	if max != Unknown && value > max {
		return false
	}
	return true
}

// Matches evaluates every declared criterion against the university and
// reports whether all of them hold.
func (c *SearchCriteria) Matches(u *University) bool {
	if u == nil {
		return false
	}
	if !matchString(c.Name, u.Name()) ||
		!matchString(c.State, u.State()) ||
		!matchString(c.Location, u.Location()) ||
		!matchString(c.Control, u.Control()) {
		return false
	}

	numeric := []struct {
		value, min, max float64
	}{
		{float64(u.NumStudents()), float64(c.MinStudents), float64(c.MaxStudents)},
		{u.PercentFemale(), c.MinPercentFemale, c.MaxPercentFemale},
		{u.SatVerbal(), c.MinSatVerbal, c.MaxSatVerbal},
		{u.SatMath(), c.MinSatMath, c.MaxSatMath},
		{u.Expenses(), c.MinExpenses, c.MaxExpenses},
		{u.PercentFinancialAid(), c.MinPercentFinancialAid, c.MaxPercentFinancialAid},
		{float64(u.NumApplicants()), float64(c.MinApplicants), float64(c.MaxApplicants)},
		{u.PercentAdmitted(), c.MinPercentAdmitted, c.MaxPercentAdmitted},
		{u.PercentEnrolled(), c.MinPercentEnrolled, c.MaxPercentEnrolled},
		{float64(u.ScaleAcademics()), float64(c.MinAcademicScale), float64(c.MaxAcademicScale)},
		{float64(u.ScaleSocial()), float64(c.MinSocialScale), float64(c.MaxSocialScale)},
		{float64(u.ScaleQualityOfLife()), float64(c.MinQualityOfLifeScale), float64(c.MaxQualityOfLifeScale)},
	}
	for _, n := range numeric {
		if !inRange(n.value, n.min, n.max) {
			return false
		}
	}

	if len(c.Emphases) > 0 {
		found := false
		for _, want := range c.Emphases {
			if u.HasEmphasis(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
