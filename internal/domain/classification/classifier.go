// Package classification maps free-text diagnosis and treatment fields to a
// chronic-condition category for visual triage of the cohort.
package classification

import (
	"github.com/cloudflare/ahocorasick"

	"github.com/clinsalud/registro-clinico/pkg/textnorm"
)

// Classifier detects conditions in normalized diagnosis/treatment text.
// Each dictionary is compiled into an Aho-Corasick automaton once at
// construction, so classifying a row is a single pass over each field
// regardless of dictionary size.
type Classifier struct {
	diabetes    conditionMatcher
	hta         conditionMatcher
	hipotiroide conditionMatcher
}

type conditionMatcher struct {
	keywords    *ahocorasick.Matcher
	medications *ahocorasick.Matcher
}

// New builds a classifier from the injected rule set. Dictionary entries are
// normalized before compilation so matching happens accent- and
// case-insensitively.
func New(rules RuleSet) *Classifier {
	return &Classifier{
		diabetes:    newConditionMatcher(rules.Diabetes),
		hta:         newConditionMatcher(rules.HTA),
		hipotiroide: newConditionMatcher(rules.Hipotiroide),
	}
}

func newConditionMatcher(rules ConditionRules) conditionMatcher {
	return conditionMatcher{
		keywords:    buildMatcher(rules.Keywords),
		medications: buildMatcher(rules.Medications),
	}
}

func buildMatcher(patterns []string) *ahocorasick.Matcher {
	cleaned := make([][]byte, 0, len(patterns))
	for _, p := range patterns {
		norm := textnorm.Normalize(p)
		if norm == "" {
			continue
		}
		cleaned = append(cleaned, []byte(norm))
	}
	if len(cleaned) == 0 {
		return nil
	}
	return ahocorasick.NewMatcher(cleaned)
}

func matches(m *ahocorasick.Matcher, normalized string) bool {
	if m == nil || normalized == "" {
		return false
	}
	return len(m.Match([]byte(normalized))) > 0
}

// detect reports whether the condition is present in either the diagnosis
// (keyword dictionary) or the treatment (medication dictionary).
func (cm conditionMatcher) detect(diagNorm, treatNorm string) bool {
	return matches(cm.keywords, diagNorm) || matches(cm.medications, treatNorm)
}

// Classify resolves the category for a diagnosis/treatment pair.
// Precedence is fixed: mixto (diabetes AND hta) wins over either alone, then
// diabetes, hta, hipotiroidismo, and finally ninguno. The function is pure
// and total: empty or garbage input resolves to ninguno.
func (c *Classifier) Classify(diagnosis, treatment string) Category {
	diagNorm := textnorm.Normalize(diagnosis)
	treatNorm := textnorm.Normalize(treatment)

	diabetic := c.diabetes.detect(diagNorm, treatNorm)
	hypertensive := c.hta.detect(diagNorm, treatNorm)

	switch {
	case diabetic && hypertensive:
		return CategoryMixto
	case diabetic:
		return CategoryDiabetes
	case hypertensive:
		return CategoryHTA
	case c.hipotiroide.detect(diagNorm, treatNorm):
		return CategoryHipotiroidismo
	default:
		return CategoryNinguno
	}
}
