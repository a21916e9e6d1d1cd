// Package record models the editable clinical grid: the per-row entity, the
// edit-trigger rules that keep derived fields current and the fixed-size
// sheet the rows live in.
package record

import (
	"github.com/clinsalud/registro-clinico/internal/domain/classification"
)

// Row is one editable clinical record. Raw fields hold exactly what the
// operator typed; BMI, Category and Color are derived and never edited
// directly.
type Row struct {
	Identifier    string `json:"identifier"`
	Name          string `json:"name"`
	Benefit       string `json:"benefit"`
	BloodPressure string `json:"blood_pressure"`
	WeightKg      string `json:"weight_kg"`
	HeightM       string `json:"height_m"`
	BMI           string `json:"bmi"`
	Diagnosis     string `json:"diagnosis"`
	Treatment     string `json:"treatment"`
	AttentionDate string `json:"attention_date"`

	Category classification.Category `json:"category"`
	Color    string                  `json:"color"`
}

// emptyRow returns a blank record. New rows start with the ninguno tag so
// the grid always has a valid color to paint.
func emptyRow() Row {
	return Row{
		Category: classification.CategoryNinguno,
		Color:    classification.Color(classification.CategoryNinguno),
	}
}

// Committed reports whether the row participates in aggregation and export.
// Rows without an identifier stay editable but are excluded from both.
func (r Row) Committed() bool {
	return r.Identifier != ""
}

// Field names an editable column for edit-commit events.
type Field string

const (
	FieldIdentifier    Field = "identifier"
	FieldName          Field = "name"
	FieldBenefit       Field = "benefit"
	FieldBloodPressure Field = "blood_pressure"
	FieldWeightKg      Field = "weight_kg"
	FieldHeightM       Field = "height_m"
	FieldDiagnosis     Field = "diagnosis"
	FieldTreatment     Field = "treatment"
	FieldAttentionDate Field = "attention_date"
)

// set writes a raw value into the named field. Derived fields (bmi,
// category) are not settable; unknown fields report false.
func (r *Row) set(field Field, value string) bool {
	switch field {
	case FieldIdentifier:
		r.Identifier = value
	case FieldName:
		r.Name = value
	case FieldBenefit:
		r.Benefit = value
	case FieldBloodPressure:
		r.BloodPressure = value
	case FieldWeightKg:
		r.WeightKg = value
	case FieldHeightM:
		r.HeightM = value
	case FieldDiagnosis:
		r.Diagnosis = value
	case FieldTreatment:
		r.Treatment = value
	case FieldAttentionDate:
		r.AttentionDate = value
	default:
		return false
	}
	return true
}
