package model

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid profile field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every offending field of a profile, never a
// partial list.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid profile: %s", strings.Join(names, ", "))
}

// DataIntegrityError means the reference data failed its consistency checks
// at load time. Every dependent estimation fails fast with this error.
type DataIntegrityError struct {
	Problems []string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("reference data failed integrity checks: %s", strings.Join(e.Problems, "; "))
}

// LookupMissError means no baseline row exists for the requested (age, sex).
// Distinct from DataIntegrityError: it usually indicates an out-of-range age
// rather than corrupt tables.
type LookupMissError struct {
	Age int
	Sex Sex
}

func (e *LookupMissError) Error() string {
	return fmt.Sprintf("no baseline mortality row for age %d, sex %s", e.Age, e.Sex)
}
