package classification

// Category is the chronic-condition classification assigned to a record.
// The five values are mutually exclusive; Classify always returns one of them.
type Category string

const (
	CategoryDiabetes       Category = "diabetes"
	CategoryHTA            Category = "hta"
	CategoryHipotiroidismo Category = "hipotiroidismo"
	CategoryMixto          Category = "mixto"
	CategoryNinguno        Category = "ninguno"
)

// Categories lists every category in precedence-independent display order.
var Categories = []Category{
	CategoryDiabetes,
	CategoryHTA,
	CategoryHipotiroidismo,
	CategoryMixto,
	CategoryNinguno,
}

// ConditionRules holds the detection dictionaries for one condition:
// substrings searched in the diagnosis text and medication names searched in
// the treatment text. Matching is "contains" on normalized text, not
// whole-word; partial and typo'd terms are accepted on purpose.
type ConditionRules struct {
	Keywords    []string
	Medications []string
}

// RuleSet is the full classifier configuration, injected at construction so
// the dictionaries can be tested and extended without touching the matcher.
type RuleSet struct {
	Diabetes    ConditionRules
	HTA         ConditionRules
	Hipotiroide ConditionRules
}

// DefaultRuleSet returns the production dictionaries. The accented duplicates
// (losartan/losartán …) are redundant after normalization but kept so the
// lists mirror the clinical reference sheet they were transcribed from.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Diabetes: ConditionRules{
			Keywords: []string{"diabetes", "dmt2", "dm2", "mellitus tipo 2"},
			Medications: []string{
				"insulina", "metformina", "dapagliflozina",
				"vildagliptina", "sitagliptina",
			},
		},
		HTA: ConditionRules{
			Keywords: []string{"hipertension", "hipertensión arterial", "hta"},
			Medications: []string{
				"losartan", "losartán", "amlodipina", "carvedilol",
				"hidroclorotiazida", "bisoprolol", "enalapril",
				"telmisartan", "telmisartán", "valsartan", "valsartán",
			},
		},
		Hipotiroide: ConditionRules{
			Keywords:    []string{"hipotiroidismo", "hipot"},
			Medications: []string{"levotiroxina"},
		},
	}
}
