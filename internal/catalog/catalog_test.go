package catalog

import (
	"errors"
	"testing"

	"luxeprompt/internal/domain/jsoncfg"
)

func TestListingsFollowOrder(t *testing.T) {
	if got := Aesthetics(); len(got) != len(aestheticOrder) || got[0].ID != "old-money" {
		t.Fatalf("Aesthetics = %+v", got)
	}
	if got := ShotTypes(); len(got) != len(shotTypeOrder) || got[0].ID != "mirror-selfie" {
		t.Fatalf("ShotTypes = %+v", got)
	}
	if got := Wardrobes(); len(got) != len(wardrobeOrder) || got[0].ID != "linen-set" {
		t.Fatalf("Wardrobes = %+v", got)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	a, ok := LookupAesthetic(" Old-Money ")
	if !ok || !a.Premium {
		t.Fatalf("LookupAesthetic = %+v, %t", a, ok)
	}
	if _, ok := LookupShotType("nope"); ok {
		t.Fatal("LookupShotType should miss unknown IDs")
	}
}

func TestApplyFillsOnlyEmptyFields(t *testing.T) {
	spec := jsoncfg.PromptSpec{Lighting: "candlelight", Materials: []string{"velvet"}}
	got, err := Apply(spec, jsoncfg.Selections{Aesthetic: "old-money", ShotType: "close-up", Wardrobe: "linen-set"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got.Lighting != "candlelight" {
		t.Fatalf("Lighting = %q, user text should win", got.Lighting)
	}
	if got.Style != "old money" || got.Mood != "effortless confidence" {
		t.Fatalf("aesthetic not applied: %+v", got)
	}
	if got.Framing != "close-up" || got.CameraAngle != "overhead" {
		t.Fatalf("shot type not applied: %+v", got)
	}
	if got.Clothing != "linen shirt and wide-leg trousers" || len(got.Materials) != 1 || got.Materials[0] != "velvet" {
		t.Fatalf("wardrobe not applied correctly: %+v", got)
	}
}

func TestApplyDoesNotShareCatalogSlices(t *testing.T) {
	got, err := Apply(jsoncfg.PromptSpec{}, jsoncfg.Selections{Wardrobe: "resort-swim"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	got.Materials[0] = "mutated"
	w, _ := LookupWardrobe("resort-swim")
	if w.Materials[0] != "lycra" {
		t.Fatalf("catalog was mutated: %+v", w)
	}
}

func TestApplyRejectsUnknownOption(t *testing.T) {
	cases := []jsoncfg.Selections{
		{Aesthetic: "goth"},
		{ShotType: "drone"},
		{Wardrobe: "spacesuit"},
	}
	for _, sel := range cases {
		if _, err := Apply(jsoncfg.PromptSpec{}, sel); !errors.Is(err, ErrUnknownOption) {
			t.Fatalf("Apply(%+v) err = %v, want ErrUnknownOption", sel, err)
		}
	}
}
