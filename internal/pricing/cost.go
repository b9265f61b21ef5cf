// Package pricing computes the credit cost of a single generation.
//
// The calculation is a pure function of Selections. Callers debit exactly
// Breakdown.TotalCost; there is no second charge computation.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"luxeprompt/internal/domain/jsoncfg"
)

const (
	// FirstGenerationCost is charged as the base when the user has never generated before.
	FirstGenerationCost = 10
	// BaseCost is the minimal base for every later generation.
	BaseCost = 1
	// MaxCost caps a single generation regardless of stacked multipliers.
	MaxCost = 10

	premiumAestheticCost  = 2
	standardAestheticCost = 1
	shotTypeCost          = 1
	wardrobeCost          = 1

	advancedGrowth      = 1.5
	complexityPerChoice = 0.05
)

// ErrNegativeGenerations is returned when the lifetime generation count is below zero.
var ErrNegativeGenerations = errors.New("lifetime generation count must not be negative")

var modelMultipliers = map[jsoncfg.ModelID]float64{
	jsoncfg.ModelMidjourney: 2.0,
	jsoncfg.ModelDalle:      1.5,
}

// AdvancedOptions flags which optional groups of the specification are populated.
type AdvancedOptions struct {
	Lighting         bool `json:"lighting"`
	Scene            bool `json:"scene"`
	CameraAngle      bool `json:"camera_angle"`
	NegativePrompts  bool `json:"negative_prompts"`
	CustomParameters bool `json:"custom_parameters"`
}

// Count returns the number of populated groups.
func (a AdvancedOptions) Count() int {
	n := 0
	for _, set := range []bool{a.Lighting, a.Scene, a.CameraAngle, a.NegativePrompts, a.CustomParameters} {
		if set {
			n++
		}
	}
	return n
}

// Selections is the reduced view of a specification used for pricing.
type Selections struct {
	Aesthetic        string          `json:"aesthetic,omitempty"`
	AestheticPremium bool            `json:"aesthetic_premium,omitempty"`
	ShotType         string          `json:"shot_type,omitempty"`
	Wardrobe         string          `json:"wardrobe,omitempty"`
	Model            jsoncfg.ModelID `json:"model,omitempty"`
	Advanced         AdvancedOptions `json:"advanced"`
	TotalGenerations int             `json:"total_generations"`
}

// Breakdown explains how a total was reached. Lines are in computation order.
type Breakdown struct {
	BaseCost             int      `json:"base_cost"`
	FeatureCost          int      `json:"feature_cost"`
	AdvancedCost         int      `json:"advanced_cost"`
	ModelMultiplier      float64  `json:"model_multiplier"`
	ComplexityMultiplier float64  `json:"complexity_multiplier"`
	GenerationMultiplier float64  `json:"generation_multiplier"`
	TotalCost            int      `json:"total_cost"`
	Lines                []string `json:"lines"`
}

// Calculate prices one generation.
func Calculate(sel Selections) (Breakdown, error) {
	if sel.TotalGenerations < 0 {
		return Breakdown{}, fmt.Errorf("pricing: %w (got %d)", ErrNegativeGenerations, sel.TotalGenerations)
	}
	b := Breakdown{
		ModelMultiplier:      1,
		ComplexityMultiplier: 1,
		GenerationMultiplier: 1,
	}

	if sel.TotalGenerations == 0 {
		b.BaseCost = FirstGenerationCost
		b.addLine("First generation: +%d", FirstGenerationCost)
	} else {
		b.BaseCost = BaseCost
		b.addLine("Base cost: +%d", BaseCost)
	}

	categories := 0
	if sel.Aesthetic != "" {
		categories++
		if sel.AestheticPremium {
			b.FeatureCost += premiumAestheticCost
			b.addLine("Premium aesthetic (%s): +%d", sel.Aesthetic, premiumAestheticCost)
		} else {
			b.FeatureCost += standardAestheticCost
			b.addLine("Aesthetic (%s): +%d", sel.Aesthetic, standardAestheticCost)
		}
	}
	if sel.ShotType != "" {
		categories++
		b.FeatureCost += shotTypeCost
		b.addLine("Shot type (%s): +%d", sel.ShotType, shotTypeCost)
	}
	if sel.Wardrobe != "" {
		categories++
		b.FeatureCost += wardrobeCost
		b.addLine("Wardrobe (%s): +%d", sel.Wardrobe, wardrobeCost)
	}

	if n := sel.Advanced.Count(); n > 0 {
		categories += n
		b.AdvancedCost = AdvancedCost(n)
		b.addLine("Advanced options (%d): +%d", n, b.AdvancedCost)
	}

	if m, ok := modelMultipliers[sel.Model]; ok {
		b.ModelMultiplier = m
		b.addLine("Model premium (%s): x%.1f", sel.Model, m)
	}

	if categories > 0 {
		b.ComplexityMultiplier = 1 + complexityPerChoice*float64(categories)
		b.addLine("Complexity (%d selections): x%.2f", categories, b.ComplexityMultiplier)
	}

	if m := GenerationMultiplier(sel.TotalGenerations); m > 1 {
		b.GenerationMultiplier = m
		b.addLine("Generation tier (%d lifetime): x%.1f", sel.TotalGenerations, m)
	}

	subtotal := b.BaseCost + b.FeatureCost + b.AdvancedCost
	raw := ceil(float64(subtotal) * b.ModelMultiplier * b.ComplexityMultiplier * b.GenerationMultiplier)
	b.TotalCost = raw
	if raw > MaxCost {
		b.TotalCost = MaxCost
		b.addLine("Capped at %d (raw %d)", MaxCost, raw)
	}
	b.addLine("Total: %d credits", b.TotalCost)
	return b, nil
}

// AdvancedCost is ceil(1.5^n - 1): each extra optional group costs more than the last.
func AdvancedCost(n int) int {
	if n <= 0 {
		return 0
	}
	return ceil(math.Pow(advancedGrowth, float64(n)) - 1)
}

// GenerationMultiplier returns the tenure tier multiplier for a lifetime generation count.
func GenerationMultiplier(total int) float64 {
	switch {
	case total >= 31:
		return 2.5
	case total >= 16:
		return 2.0
	case total >= 6:
		return 1.5
	default:
		return 1.0
	}
}

func (b *Breakdown) addLine(format string, args ...any) {
	b.Lines = append(b.Lines, fmt.Sprintf(format, args...))
}

// ceil rounds up after snapping to 1e-9 so products like 20*1.05 stay at 21.
func ceil(v float64) int {
	return int(math.Ceil(math.Round(v*1e9) / 1e9))
}
