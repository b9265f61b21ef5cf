// Package validation detects conflicts in a prompt specification, scores how
// complete it is and proposes fixes. Everything here is pure and cheap enough
// to run on every selection change.
package validation

import (
	"math"

	"luxeprompt/internal/domain/jsoncfg"
)

// Severity grades a conflict. Only errors make a specification invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// SuggestionType classifies a suggestion.
type SuggestionType string

const (
	SuggestionMissing      SuggestionType = "missing"
	SuggestionConflict     SuggestionType = "conflict"
	SuggestionOptimization SuggestionType = "optimization"
)

// MaxStyledElements is the combined materials, accessories and pose count above which focus dilutes.
const MaxStyledElements = 8

type Conflict struct {
	FieldA      string   `json:"field_a"`
	FieldB      string   `json:"field_b"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type Suggestion struct {
	Field   string         `json:"field"`
	Message string         `json:"message"`
	Type    SuggestionType `json:"type"`
	Action  string         `json:"action,omitempty"`
}

// Result is recomputed from scratch for every specification snapshot.
type Result struct {
	IsValid      bool         `json:"is_valid"`
	Conflicts    []Conflict   `json:"conflicts"`
	Suggestions  []Suggestion `json:"suggestions"`
	Completeness int          `json:"completeness"`
	Warnings     []string     `json:"warnings"`
}

// Validate evaluates every conflict and missing-element rule against spec.
func Validate(spec jsoncfg.PromptSpec) Result {
	res := Result{
		IsValid:     true,
		Conflicts:   []Conflict{},
		Suggestions: []Suggestion{},
		Warnings:    []string{},
	}

	for _, rule := range ConflictRules {
		if !rule.Match(spec) {
			continue
		}
		res.Conflicts = append(res.Conflicts, Conflict{
			FieldA:      rule.FieldA,
			FieldB:      rule.FieldB,
			Description: rule.Description,
			Severity:    rule.Severity,
		})
		res.Suggestions = append(res.Suggestions, Suggestion{
			Field:   rule.FieldA,
			Message: rule.Description,
			Type:    SuggestionConflict,
			Action:  rule.Action,
		})
		if rule.Severity == SeverityError {
			res.IsValid = false
		}
	}

	res.Suggestions = append(res.Suggestions, evaluate(MissingRules, spec)...)
	res.Completeness = Completeness(spec)

	if len(spec.Materials)+len(spec.Accessories)+len(spec.Pose) > MaxStyledElements {
		res.Warnings = append(res.Warnings, "Too many materials, accessories and poses may dilute the focus of the image")
	}
	if blank(string(spec.TargetModel)) {
		res.Warnings = append(res.Warnings, "Select a target model to optimize prompt formatting")
	}
	return res
}

// Optimize returns the supplementary optimization suggestions for spec.
func Optimize(spec jsoncfg.PromptSpec) []Suggestion {
	return evaluate(OptimizationRules, spec)
}

// Completeness is the rounded share of core fields that are filled in.
func Completeness(spec jsoncfg.PromptSpec) int {
	fields := []bool{
		!blank(spec.Subject),
		!blank(spec.Scene),
		!blank(spec.Lighting),
		!blank(spec.Mood),
		!blank(spec.CameraAngle),
		!blank(spec.Quality),
		!blank(spec.Style),
		!blank(spec.Clothing),
		len(spec.Pose) > 0,
	}
	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(fields))))
}

func evaluate(rules []SuggestionRule, spec jsoncfg.PromptSpec) []Suggestion {
	out := []Suggestion{}
	for _, rule := range rules {
		if !rule.Match(spec) {
			continue
		}
		out = append(out, Suggestion{
			Field:   rule.Field,
			Message: rule.Message,
			Type:    rule.Type,
			Action:  rule.Action,
		})
	}
	return out
}
