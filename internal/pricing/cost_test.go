package pricing

import (
	"errors"
	"strings"
	"testing"

	"luxeprompt/internal/domain/jsoncfg"
)

func TestCalculateFirstGenerationSurcharge(t *testing.T) {
	b, err := Calculate(Selections{})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if b.TotalCost != 10 {
		t.Fatalf("TotalCost = %d, want 10", b.TotalCost)
	}
	if b.BaseCost != FirstGenerationCost || b.FeatureCost != 0 || b.AdvancedCost != 0 {
		t.Fatalf("unexpected costs: %+v", b)
	}
	if len(b.Lines) != 2 {
		t.Fatalf("Lines = %#v, want base and total only", b.Lines)
	}
}

func TestCalculateMinimalCost(t *testing.T) {
	b, err := Calculate(Selections{TotalGenerations: 1, Model: jsoncfg.ModelStableDiffusion})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if b.TotalCost != 1 {
		t.Fatalf("TotalCost = %d, want 1", b.TotalCost)
	}
	if b.ModelMultiplier != 1 || b.ComplexityMultiplier != 1 || b.GenerationMultiplier != 1 {
		t.Fatalf("multipliers should be neutral: %+v", b)
	}
}

func TestCalculateRejectsNegativeGenerations(t *testing.T) {
	_, err := Calculate(Selections{TotalGenerations: -1})
	if !errors.Is(err, ErrNegativeGenerations) {
		t.Fatalf("err = %v, want ErrNegativeGenerations", err)
	}
}

func TestAdvancedCostIsConvex(t *testing.T) {
	// ceil(1.5^n-1) gives 1,2,3,5,7, not the 1,2,4,8 sometimes quoted for this curve. Keep the formula.
	want := map[int]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 5, 5: 7}
	prev := -1
	for n := 0; n <= 5; n++ {
		got := AdvancedCost(n)
		if got != want[n] {
			t.Fatalf("AdvancedCost(%d) = %d, want %d", n, got, want[n])
		}
		if got <= prev {
			t.Fatalf("AdvancedCost(%d) = %d did not increase over %d", n, got, prev)
		}
		prev = got
	}
}

func TestCalculateFeatureCosts(t *testing.T) {
	cases := []struct {
		name    string
		sel     Selections
		feature int
		total   int
	}{
		{name: "premium aesthetic", sel: Selections{TotalGenerations: 2, Aesthetic: "old-money", AestheticPremium: true}, feature: 2, total: 4},
		{name: "standard aesthetic", sel: Selections{TotalGenerations: 2, Aesthetic: "clean-girl"}, feature: 1, total: 3},
		{name: "shot and wardrobe", sel: Selections{TotalGenerations: 2, ShotType: "mirror-selfie", Wardrobe: "linen-set"}, feature: 2, total: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Calculate(tc.sel)
			if err != nil {
				t.Fatalf("Calculate returned error: %v", err)
			}
			if b.FeatureCost != tc.feature {
				t.Fatalf("FeatureCost = %d, want %d", b.FeatureCost, tc.feature)
			}
			if b.TotalCost != tc.total {
				t.Fatalf("TotalCost = %d, want %d (lines %v)", b.TotalCost, tc.total, b.Lines)
			}
		})
	}
}

func TestCalculateMultipliers(t *testing.T) {
	b, err := Calculate(Selections{
		TotalGenerations: 12,
		Aesthetic:        "clean-girl",
		Model:            jsoncfg.ModelDalle,
		Advanced:         AdvancedOptions{Lighting: true},
	})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if b.ModelMultiplier != 1.5 {
		t.Fatalf("ModelMultiplier = %v, want 1.5", b.ModelMultiplier)
	}
	if b.ComplexityMultiplier != 1.1 {
		t.Fatalf("ComplexityMultiplier = %v, want 1.1", b.ComplexityMultiplier)
	}
	if b.GenerationMultiplier != 1.5 {
		t.Fatalf("GenerationMultiplier = %v, want 1.5", b.GenerationMultiplier)
	}
	// (1 + 1 + 1) * 1.5 * 1.1 * 1.5 = 7.425
	if b.TotalCost != 8 {
		t.Fatalf("TotalCost = %d, want 8", b.TotalCost)
	}
}

func TestCalculateCapsAtMax(t *testing.T) {
	b, err := Calculate(Selections{
		TotalGenerations: 40,
		Aesthetic:        "old-money",
		AestheticPremium: true,
		ShotType:         "mirror-selfie",
		Wardrobe:         "linen-set",
		Model:            jsoncfg.ModelMidjourney,
		Advanced:         AdvancedOptions{Lighting: true, Scene: true, CameraAngle: true, NegativePrompts: true, CustomParameters: true},
	})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if b.TotalCost != MaxCost {
		t.Fatalf("TotalCost = %d, want %d", b.TotalCost, MaxCost)
	}
	found := false
	for _, line := range b.Lines {
		if strings.HasPrefix(line, "Capped at") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cap line, got %v", b.Lines)
	}
}

func TestCalculateLineOrder(t *testing.T) {
	b, err := Calculate(Selections{
		TotalGenerations: 20,
		Aesthetic:        "old-money",
		ShotType:         "mirror-selfie",
		Wardrobe:         "linen-set",
		Model:            jsoncfg.ModelMidjourney,
		Advanced:         AdvancedOptions{Scene: true},
	})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	prefixes := []string{"Base cost", "Aesthetic", "Shot type", "Wardrobe", "Advanced options", "Model premium", "Complexity", "Generation tier"}
	if len(b.Lines) < len(prefixes) {
		t.Fatalf("Lines = %v, want at least %d entries", b.Lines, len(prefixes))
	}
	for i, prefix := range prefixes {
		if !strings.HasPrefix(b.Lines[i], prefix) {
			t.Fatalf("Lines[%d] = %q, want prefix %q", i, b.Lines[i], prefix)
		}
	}
	if last := b.Lines[len(b.Lines)-1]; !strings.HasPrefix(last, "Total:") {
		t.Fatalf("last line = %q, want total", last)
	}
}

func TestGenerationMultiplierTiers(t *testing.T) {
	cases := map[int]float64{0: 1, 5: 1, 6: 1.5, 15: 1.5, 16: 2, 30: 2, 31: 2.5, 500: 2.5}
	for total, want := range cases {
		if got := GenerationMultiplier(total); got != want {
			t.Fatalf("GenerationMultiplier(%d) = %v, want %v", total, got, want)
		}
	}
}

func TestCalculateTotalAlwaysWithinBounds(t *testing.T) {
	models := []jsoncfg.ModelID{"", jsoncfg.ModelMidjourney, jsoncfg.ModelStableDiffusion, jsoncfg.ModelDalle, "unknown"}
	generations := []int{0, 1, 5, 6, 15, 16, 30, 31, 100}
	for _, model := range models {
		for _, gens := range generations {
			for mask := 0; mask < 1<<8; mask++ {
				sel := Selections{Model: model, TotalGenerations: gens}
				if mask&1 != 0 {
					sel.Aesthetic = "a"
				}
				sel.AestheticPremium = mask&2 != 0
				if mask&4 != 0 {
					sel.ShotType = "s"
				}
				if mask&8 != 0 {
					sel.Wardrobe = "w"
				}
				sel.Advanced.Lighting = mask&16 != 0
				sel.Advanced.Scene = mask&32 != 0
				sel.Advanced.CameraAngle = mask&64 != 0
				sel.Advanced.NegativePrompts = mask&128 != 0
				b, err := Calculate(sel)
				if err != nil {
					t.Fatalf("Calculate(%+v) returned error: %v", sel, err)
				}
				if b.TotalCost < 1 || b.TotalCost > MaxCost {
					t.Fatalf("Calculate(%+v).TotalCost = %d, out of [1,%d]", sel, b.TotalCost, MaxCost)
				}
			}
		}
	}
}
