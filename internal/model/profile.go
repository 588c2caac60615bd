package model

import (
	"fmt"
	"regexp"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "never"
	SmokingFormer  SmokingStatus = "former"
	SmokingCurrent SmokingStatus = "current"
)

type AlcoholLevel string

const (
	AlcoholNone     AlcoholLevel = "none"
	AlcoholLight    AlcoholLevel = "light"
	AlcoholModerate AlcoholLevel = "moderate"
	AlcoholHeavy    AlcoholLevel = "heavy"
)

type BodyMassBand string

const (
	BodyMassUnderweight   BodyMassBand = "underweight"
	BodyMassNormal        BodyMassBand = "normal"
	BodyMassOverweight    BodyMassBand = "overweight"
	BodyMassObese         BodyMassBand = "obese"
	BodyMassSeverelyObese BodyMassBand = "severely_obese"
)

const (
	MinAge = 18
	MaxAge = 110

	MaxActivityMinutes = 1000
	MaxYearsSinceQuit  = 50
)

// Profile is the immutable input to a single estimation. The clinical and
// laboratory fields are optional; a zero value means "not provided".
type Profile struct {
	Age             int           `json:"age"`
	Sex             Sex           `json:"sex"`
	RegionCode      string        `json:"region_code"`
	Smoking         SmokingStatus `json:"smoking_status"`
	YearsSinceQuit  int           `json:"years_since_quit,omitempty"`
	Alcohol         AlcoholLevel  `json:"alcohol_level"`
	ActivityMinutes int           `json:"weekly_activity_minutes"`
	BodyMass        BodyMassBand  `json:"body_mass_band,omitempty"`
	FluVaccinated   bool          `json:"flu_vaccinated"`
	CovidVaccinated bool          `json:"covid_vaccinated"`

	SystolicBP float64 `json:"systolic_bp,omitempty"`
	BPTreated  bool    `json:"bp_treated,omitempty"`
	Diabetes   bool    `json:"diabetes,omitempty"`

	TotalCholesterol float64 `json:"total_cholesterol,omitempty"`
	HDLCholesterol   float64 `json:"hdl_cholesterol,omitempty"`
}

var regionPattern = regexp.MustCompile(`^[0-9]{3}$`)

// Validate checks every field and returns a ValidationError listing all
// violations, never just the first one.
func (p *Profile) Validate() error {
	var fields []FieldError

	if p.Age < MinAge || p.Age > MaxAge {
		fields = append(fields, FieldError{
			Field:   "age",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinAge, MaxAge, p.Age),
		})
	}

	switch p.Sex {
	case SexMale, SexFemale, SexOther:
	default:
		fields = append(fields, FieldError{
			Field:   "sex",
			Message: fmt.Sprintf("must be one of male, female, other, got %q", p.Sex),
		})
	}

	if !regionPattern.MatchString(p.RegionCode) {
		fields = append(fields, FieldError{
			Field:   "region_code",
			Message: fmt.Sprintf("must be a 3-digit code, got %q", p.RegionCode),
		})
	}

	switch p.Smoking {
	case SmokingNever, SmokingFormer, SmokingCurrent:
	default:
		fields = append(fields, FieldError{
			Field:   "smoking_status",
			Message: fmt.Sprintf("must be one of never, former, current, got %q", p.Smoking),
		})
	}

	if p.YearsSinceQuit < 0 || p.YearsSinceQuit > MaxYearsSinceQuit {
		fields = append(fields, FieldError{
			Field:   "years_since_quit",
			Message: fmt.Sprintf("must be between 0 and %d, got %d", MaxYearsSinceQuit, p.YearsSinceQuit),
		})
	}

	switch p.Alcohol {
	case AlcoholNone, AlcoholLight, AlcoholModerate, AlcoholHeavy:
	default:
		fields = append(fields, FieldError{
			Field:   "alcohol_level",
			Message: fmt.Sprintf("must be one of none, light, moderate, heavy, got %q", p.Alcohol),
		})
	}

	if p.ActivityMinutes < 0 || p.ActivityMinutes > MaxActivityMinutes {
		fields = append(fields, FieldError{
			Field:   "weekly_activity_minutes",
			Message: fmt.Sprintf("must be between 0 and %d, got %d", MaxActivityMinutes, p.ActivityMinutes),
		})
	}

	switch p.BodyMass {
	case "", BodyMassUnderweight, BodyMassNormal, BodyMassOverweight, BodyMassObese, BodyMassSeverelyObese:
	default:
		fields = append(fields, FieldError{
			Field:   "body_mass_band",
			Message: fmt.Sprintf("unknown body mass band %q", p.BodyMass),
		})
	}

	if p.SystolicBP != 0 && (p.SystolicBP < 80 || p.SystolicBP > 250) {
		fields = append(fields, FieldError{
			Field:   "systolic_bp",
			Message: fmt.Sprintf("must be between 80 and 250 mmHg, got %.0f", p.SystolicBP),
		})
	}

	if p.TotalCholesterol != 0 && (p.TotalCholesterol < 100 || p.TotalCholesterol > 500) {
		fields = append(fields, FieldError{
			Field:   "total_cholesterol",
			Message: fmt.Sprintf("must be between 100 and 500 mg/dL, got %.0f", p.TotalCholesterol),
		})
	}

	if p.HDLCholesterol != 0 && (p.HDLCholesterol < 20 || p.HDLCholesterol > 150) {
		fields = append(fields, FieldError{
			Field:   "hdl_cholesterol",
			Message: fmt.Sprintf("must be between 20 and 150 mg/dL, got %.0f", p.HDLCholesterol),
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
