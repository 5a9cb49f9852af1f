package domain

import "encoding/json"

// universityJSON is the flat serialized form of a University. It exists so
// the entity's invariants stay enforced: decoding goes back through the
// validating constructor and setters.
type universityJSON struct {
	Name                string   `json:"name"`
	State               string   `json:"state"`
	Location            string   `json:"location"`
	Control             string   `json:"control"`
	NumStudents         int      `json:"num_students"`
	NumApplicants       int      `json:"num_applicants"`
	PercentFemale       float64  `json:"percent_female"`
	SatVerbal           float64  `json:"sat_verbal"`
	SatMath             float64  `json:"sat_math"`
	Expenses            float64  `json:"expenses"`
	PercentFinancialAid float64  `json:"percent_financial_aid"`
	PercentAdmitted     float64  `json:"percent_admitted"`
	PercentEnrolled     float64  `json:"percent_enrolled"`
	ScaleAcademics      int      `json:"scale_academics"`
	ScaleSocial         int      `json:"scale_social"`
	ScaleQualityOfLife  int      `json:"scale_quality_of_life"`
	Emphases            []string `json:"emphases,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (u *University) MarshalJSON() ([]byte, error) {
	return json.Marshal(universityJSON{
		Name:                u.name,
		State:               u.state,
		Location:            u.location,
		Control:             u.control,
		NumStudents:         u.numStudents,
		NumApplicants:       u.numApplicants,
		PercentFemale:       u.percentFemale,
		SatVerbal:           u.satVerbal,
		SatMath:             u.satMath,
		Expenses:            u.expenses,
		PercentFinancialAid: u.percentFinancialAid,
		PercentAdmitted:     u.percentAdmitted,
		PercentEnrolled:     u.percentEnrolled,
		ScaleAcademics:      u.scaleAcademics,
		ScaleSocial:         u.scaleSocial,
		ScaleQualityOfLife:  u.scaleQualityOfLife,
		Emphases:            u.emphases,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Decoded values pass through the
// same validation as any other construction path.
func (u *University) UnmarshalJSON(data []byte) error {
	var raw universityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := NewUniversity(raw.Name)
	if err != nil {
		return err
	}
	steps := []error{
		decoded.SetState(raw.State),
		decoded.SetLocation(raw.Location),
		decoded.SetControl(raw.Control),
		decoded.SetNumStudents(raw.NumStudents),
		decoded.SetNumApplicants(raw.NumApplicants),
		decoded.SetPercentFemale(raw.PercentFemale),
		decoded.SetSatVerbal(raw.SatVerbal),
		decoded.SetSatMath(raw.SatMath),
		decoded.SetExpenses(raw.Expenses),
		decoded.SetPercentFinancialAid(raw.PercentFinancialAid),
		decoded.SetPercentAdmitted(raw.PercentAdmitted),
		decoded.SetPercentEnrolled(raw.PercentEnrolled),
		decoded.SetScaleAcademics(raw.ScaleAcademics),
		decoded.SetScaleSocial(raw.ScaleSocial),
		decoded.SetScaleQualityOfLife(raw.ScaleQualityOfLife),
		decoded.SetEmphases(raw.Emphases),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	*u = *decoded
	return nil
}
