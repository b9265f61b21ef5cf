package validation

import (
	"strings"

	"luxeprompt/internal/domain/jsoncfg"
)

// ConflictRule flags two fields whose values contradict each other.
type ConflictRule struct {
	Name        string
	FieldA      string
	FieldB      string
	Severity    Severity
	Description string
	Action      string
	Match       func(spec jsoncfg.PromptSpec) bool
}

// SuggestionRule proposes a change when Match reports true.
type SuggestionRule struct {
	Name    string
	Field   string
	Type    SuggestionType
	Message string
	Action  string
	Match   func(spec jsoncfg.PromptSpec) bool
}

// ConflictRules is evaluated in order by Validate.
var ConflictRules = []ConflictRule{
	{
		Name:        "hair_length",
		FieldA:      "hair",
		FieldB:      "hair",
		Severity:    SeverityError,
		Description: "Hair is described as both long and short",
		Action:      "Pick either long or short hair",
		Match: func(s jsoncfg.PromptSpec) bool {
			return contains(s.Hair, "long") && contains(s.Hair, "short")
		},
	},
	{
		Name:        "dramatic_serene",
		FieldA:      "lighting",
		FieldB:      "mood",
		Severity:    SeverityWarning,
		Description: "Dramatic lighting works against a serene mood",
		Action:      "Soften the lighting or choose a bolder mood",
		Match: func(s jsoncfg.PromptSpec) bool {
			return contains(s.Lighting, "dramatic") && contains(s.Mood, "serene")
		},
	},
	{
		Name:        "night_golden_hour",
		FieldA:      "time_of_day",
		FieldB:      "lighting",
		Severity:    SeverityError,
		Description: "Golden hour light cannot happen at night",
		Action:      "Switch time of day to sunset or pick night lighting",
		Match: func(s jsoncfg.PromptSpec) bool {
			return contains(s.TimeOfDay, "night") && contains(s.Lighting, "golden hour")
		},
	},
	{
		Name:        "linen_y2k",
		FieldA:      "materials",
		FieldB:      "style",
		Severity:    SeverityWarning,
		Description: "Linen reads quiet luxury and clashes with a Y2K style",
		Action:      "Swap linen for satin or vinyl, or choose a different style",
		Match: func(s jsoncfg.PromptSpec) bool {
			return anyContains(s.Materials, "linen") && contains(s.Style, "y2k")
		},
	},
}

// MissingRules is evaluated in order by Validate.
var MissingRules = []SuggestionRule{
	{
		Name:    "scene",
		Field:   "scene",
		Type:    SuggestionMissing,
		Message: "Add a scene or background to ground the shot",
		Action:  "Select a scene",
		Match: func(s jsoncfg.PromptSpec) bool {
			return blank(s.Scene) && blank(s.Background)
		},
	},
	{
		Name:    "lighting",
		Field:   "lighting",
		Type:    SuggestionMissing,
		Message: "Lighting sets the luxury feel of the image",
		Action:  "Select lighting",
		Match: func(s jsoncfg.PromptSpec) bool {
			return blank(s.Lighting)
		},
	},
	{
		Name:    "camera_angle",
		Field:   "camera_angle",
		Type:    SuggestionMissing,
		Message: "A camera angle or composition makes the framing intentional",
		Action:  "Select a camera angle",
		Match: func(s jsoncfg.PromptSpec) bool {
			return blank(s.CameraAngle) && blank(s.Composition)
		},
	},
	{
		Name:    "quality",
		Field:   "quality",
		Type:    SuggestionMissing,
		Message: "Quality or style keywords sharpen the final render",
		Action:  "Select a quality",
		Match: func(s jsoncfg.PromptSpec) bool {
			return blank(s.Quality) && blank(s.Style)
		},
	},
}

// OptimizationRules is evaluated in order by Optimize.
var OptimizationRules = []SuggestionRule{
	{
		Name:    "close_up_depth_of_field",
		Field:   "depth_of_field",
		Type:    SuggestionOptimization,
		Message: "Close-ups look more expensive with a shallow depth of field",
		Action:  "Add shallow depth of field",
		Match: func(s jsoncfg.PromptSpec) bool {
			return contains(s.Framing, "close-up") && blank(s.DepthOfField)
		},
	},
	{
		Name:    "beach_linen",
		Field:   "materials",
		Type:    SuggestionOptimization,
		Message: "Linen pairs naturally with a beach scene",
		Action:  "Add linen to materials",
		Match: func(s jsoncfg.PromptSpec) bool {
			return contains(s.Scene, "beach") && !anyContains(s.Materials, "linen")
		},
	},
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

func contains(v, marker string) bool {
	return strings.Contains(strings.ToLower(v), marker)
}

func anyContains(values []string, marker string) bool {
	for _, v := range values {
		if contains(v, marker) {
			return true
		}
	}
	return false
}
