package record

import (
	"strings"

	"github.com/clinsalud/registro-clinico/internal/domain/classification"
	"github.com/clinsalud/registro-clinico/pkg/numeric"
	"github.com/clinsalud/registro-clinico/pkg/textnorm"
)

// bloodPressureUnit is appended to pressure readings that arrive without one.
const bloodPressureUnit = "mmHg"

// Lookup resolves a patient identifier to roster display fields.
// roster.Index and roster.Service both satisfy it.
type Lookup interface {
	Lookup(identifier string) (name, benefit string)
}

// Rule recomputes derived state from the row's current raw values. Rules are
// pure over the row; everything else they need is closed over at build time.
type Rule func(*Row)

// Engine applies edit-trigger rules. The trigger set is an explicit table
// keyed by edited field, so which edits fire which recomputations is
// reviewable in one place (buildTriggers) and testable without the grid.
type Engine struct {
	triggers map[Field][]Rule
}

// NewEngine builds the trigger table against the given classifier and roster.
func NewEngine(classifier *classification.Classifier, roster Lookup) *Engine {
	return &Engine{triggers: buildTriggers(classifier, roster)}
}

func buildTriggers(classifier *classification.Classifier, roster Lookup) map[Field][]Rule {
	autofill := rosterAutofill(roster)
	bmi := recomputeBMI
	category := recomputeCategory(classifier)

	return map[Field][]Rule{
		FieldIdentifier:    {autofill},
		FieldBloodPressure: {normalizeBloodPressure},
		FieldWeightKg:      {bmi},
		FieldHeightM:       {bmi},
		FieldDiagnosis:     {category},
		FieldTreatment:     {category},
		// name, benefit and attention_date edits have no side effects.
	}
}

// Commit writes an edited value into the row and fires the field's trigger
// rules. It reports false when the field is unknown or derived; the row is
// untouched in that case.
func (e *Engine) Commit(row *Row, field Field, value string) bool {
	if !row.set(field, strings.TrimSpace(value)) {
		return false
	}
	for _, rule := range e.triggers[field] {
		rule(row)
	}
	return true
}

// rosterAutofill overwrites name/benefit from the roster whenever a non-empty
// identifier is committed. Last write wins: manual edits to name/benefit are
// discarded on the next identifier edit, including lookup misses, which clear
// both fields.
func rosterAutofill(roster Lookup) Rule {
	return func(r *Row) {
		if r.Identifier == "" {
			return
		}
		r.Name, r.Benefit = roster.Lookup(r.Identifier)
	}
}

// normalizeBloodPressure appends the unit suffix unless the normalized text
// already carries it. Applying the rule twice yields the same string.
func normalizeBloodPressure(r *Row) {
	if r.BloodPressure == "" {
		return
	}
	if strings.Contains(textnorm.Normalize(r.BloodPressure), "mmhg") {
		return
	}
	r.BloodPressure += " " + bloodPressureUnit
}

// recomputeBMI derives BMI from the current weight/height pair. Invalid
// input clears the field rather than leaving a stale value.
func recomputeBMI(r *Row) {
	r.BMI = numeric.BMIString(r.WeightKg, r.HeightM)
}

func recomputeCategory(classifier *classification.Classifier) Rule {
	return func(r *Row) {
		r.Category = classifier.Classify(r.Diagnosis, r.Treatment)
		r.Color = classification.Color(r.Category)
	}
}
