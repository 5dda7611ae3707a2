package enrollment

import "fmt"

// Applicant holds the fields supplied for a new enrollment.
type Applicant struct {
	Name        string
	Age         int
	BirthCity   string
	BirthRegion string
	Foreign     bool
	Grade       Grade
}

// Normalize validates every field and returns the cleaned applicant. A foreign
// applicant without a birth region is recorded with ForeignRegion.
func (a Applicant) Normalize() (Applicant, error) {
	var err error
	if a.Name, err = ValidateText("name", a.Name); err != nil {
		return Applicant{}, err
	}
	if a.Age, err = ValidateAge(a.Age); err != nil {
		return Applicant{}, err
	}
	if a.BirthCity, err = ValidateText("birth_city", a.BirthCity); err != nil {
		return Applicant{}, err
	}
	if a.Foreign && a.BirthRegion == "" {
		a.BirthRegion = ForeignRegion
	}
	if a.BirthRegion, err = ValidateRegion(a.BirthRegion); err != nil {
		return Applicant{}, err
	}
	if !a.Grade.Valid() {
		return Applicant{}, fmt.Errorf("%w: grade must be 1, 2 or 3", ErrInvalidScope)
	}
	return a, nil
}
