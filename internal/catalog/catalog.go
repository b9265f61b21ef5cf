// Package catalog holds the curated picks a creator chooses from before any
// free-text editing: aesthetics, shot types and wardrobes.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"luxeprompt/internal/domain/jsoncfg"
)

// ErrUnknownOption is returned when a selection names an ID that is not in the catalog.
var ErrUnknownOption = errors.New("unknown catalog option")

type Aesthetic struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Premium          bool   `json:"premium"`
	Style            string `json:"style"`
	Mood             string `json:"mood"`
	Lighting         string `json:"lighting"`
	ColorTemperature string `json:"color_temperature,omitempty"`
	PostProcessing   string `json:"post_processing,omitempty"`
}

type ShotType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CameraAngle string `json:"camera_angle"`
	Framing     string `json:"framing"`
	Composition string `json:"composition,omitempty"`
}

type Wardrobe struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Clothing  string   `json:"clothing"`
	Materials []string `json:"materials,omitempty"`
	Fit       string   `json:"fit,omitempty"`
}

var aesthetics = map[string]Aesthetic{
	"old-money": {
		ID: "old-money", Name: "Old Money", Premium: true,
		Style: "old money", Mood: "effortless confidence", Lighting: "soft golden hour",
		ColorTemperature: "warm", PostProcessing: "muted film grade",
	},
	"quiet-luxury": {
		ID: "quiet-luxury", Name: "Quiet Luxury", Premium: true,
		Style: "quiet luxury", Mood: "understated", Lighting: "diffused window light",
		ColorTemperature: "neutral",
	},
	"riviera": {
		ID: "riviera", Name: "Riviera Summer", Premium: true,
		Style: "riviera editorial", Mood: "carefree", Lighting: "bright natural",
		ColorTemperature: "warm", PostProcessing: "sun-bleached tones",
	},
	"clean-girl": {
		ID: "clean-girl", Name: "Clean Girl", Style: "clean girl", Mood: "fresh",
		Lighting: "soft daylight", ColorTemperature: "neutral",
	},
	"y2k": {
		ID: "y2k", Name: "Y2K", Style: "y2k", Mood: "playful",
		Lighting: "direct flash", PostProcessing: "high contrast",
	},
	"night-out": {
		ID: "night-out", Name: "Night Out", Style: "editorial nightlife", Mood: "dramatic",
		Lighting: "neon with hard flash", ColorTemperature: "cool",
	},
}

var aestheticOrder = []string{"old-money", "quiet-luxury", "riviera", "clean-girl", "y2k", "night-out"}

var shotTypes = map[string]ShotType{
	"mirror-selfie": {ID: "mirror-selfie", Name: "Mirror Selfie", CameraAngle: "eye level", Framing: "medium shot", Composition: "phone held at chest"},
	"walking-away":  {ID: "walking-away", Name: "Walking Away", CameraAngle: "low angle from behind", Framing: "full body", Composition: "leading lines"},
	"close-up":      {ID: "close-up", Name: "Detail Close-up", CameraAngle: "overhead", Framing: "close-up"},
	"candid-table":  {ID: "candid-table", Name: "Candid at the Table", CameraAngle: "three-quarter", Framing: "medium shot", Composition: "rule of thirds"},
	"over-shoulder": {ID: "over-shoulder", Name: "Over the Shoulder", CameraAngle: "behind the shoulder", Framing: "medium close-up"},
}

var shotTypeOrder = []string{"mirror-selfie", "walking-away", "close-up", "candid-table", "over-shoulder"}

var wardrobes = map[string]Wardrobe{
	"linen-set":      {ID: "linen-set", Name: "Linen Set", Clothing: "linen shirt and wide-leg trousers", Materials: []string{"linen"}, Fit: "relaxed"},
	"cashmere-knit":  {ID: "cashmere-knit", Name: "Cashmere Knit", Clothing: "cashmere sweater draped over shoulders", Materials: []string{"cashmere"}, Fit: "tailored"},
	"silk-slip":      {ID: "silk-slip", Name: "Silk Slip Dress", Clothing: "bias-cut slip dress", Materials: []string{"silk"}, Fit: "fluid"},
	"tennis-whites":  {ID: "tennis-whites", Name: "Tennis Whites", Clothing: "pleated tennis skirt and cable knit vest", Materials: []string{"cotton pique"}, Fit: "fitted"},
	"tailored-suit":  {ID: "tailored-suit", Name: "Tailored Suit", Clothing: "double-breasted suit", Materials: []string{"wool"}, Fit: "sharp tailoring"},
	"resort-swim":    {ID: "resort-swim", Name: "Resort Swim", Clothing: "one-piece swimsuit with sarong", Materials: []string{"lycra", "crochet"}, Fit: "sculpted"},
	"leather-jacket": {ID: "leather-jacket", Name: "Leather Jacket", Clothing: "cropped leather jacket", Materials: []string{"leather"}, Fit: "boxy"},
}

var wardrobeOrder = []string{"linen-set", "cashmere-knit", "silk-slip", "tennis-whites", "tailored-suit", "resort-swim", "leather-jacket"}

func Aesthetics() []Aesthetic {
	out := make([]Aesthetic, 0, len(aestheticOrder))
	for _, id := range aestheticOrder {
		out = append(out, aesthetics[id])
	}
	return out
}

func ShotTypes() []ShotType {
	out := make([]ShotType, 0, len(shotTypeOrder))
	for _, id := range shotTypeOrder {
		out = append(out, shotTypes[id])
	}
	return out
}

func Wardrobes() []Wardrobe {
	out := make([]Wardrobe, 0, len(wardrobeOrder))
	for _, id := range wardrobeOrder {
		w := wardrobes[id]
		w.Materials = append([]string(nil), w.Materials...)
		out = append(out, w)
	}
	return out
}

func LookupAesthetic(id string) (Aesthetic, bool) {
	a, ok := aesthetics[key(id)]
	return a, ok
}

func LookupShotType(id string) (ShotType, bool) {
	s, ok := shotTypes[key(id)]
	return s, ok
}

func LookupWardrobe(id string) (Wardrobe, bool) {
	w, ok := wardrobes[key(id)]
	if ok {
		w.Materials = append([]string(nil), w.Materials...)
	}
	return w, ok
}

// Check reports the first selection that does not resolve.
func Check(sel jsoncfg.Selections) error {
	if sel.Aesthetic != "" {
		if _, ok := LookupAesthetic(sel.Aesthetic); !ok {
			return fmt.Errorf("%w: aesthetic %q", ErrUnknownOption, sel.Aesthetic)
		}
	}
	if sel.ShotType != "" {
		if _, ok := LookupShotType(sel.ShotType); !ok {
			return fmt.Errorf("%w: shot type %q", ErrUnknownOption, sel.ShotType)
		}
	}
	if sel.Wardrobe != "" {
		if _, ok := LookupWardrobe(sel.Wardrobe); !ok {
			return fmt.Errorf("%w: wardrobe %q", ErrUnknownOption, sel.Wardrobe)
		}
	}
	return nil
}

// Apply fills empty fields of spec from the selected options. Text the user
// typed always wins over catalog defaults.
func Apply(spec jsoncfg.PromptSpec, sel jsoncfg.Selections) (jsoncfg.PromptSpec, error) {
	if err := Check(sel); err != nil {
		return spec, err
	}
	if a, ok := LookupAesthetic(sel.Aesthetic); ok {
		fill(&spec.Style, a.Style)
		fill(&spec.Mood, a.Mood)
		fill(&spec.Lighting, a.Lighting)
		fill(&spec.ColorTemperature, a.ColorTemperature)
		fill(&spec.PostProcessing, a.PostProcessing)
	}
	if s, ok := LookupShotType(sel.ShotType); ok {
		fill(&spec.CameraAngle, s.CameraAngle)
		fill(&spec.Framing, s.Framing)
		fill(&spec.Composition, s.Composition)
	}
	if w, ok := LookupWardrobe(sel.Wardrobe); ok {
		fill(&spec.Clothing, w.Clothing)
		fill(&spec.Fit, w.Fit)
		if len(spec.Materials) == 0 {
			spec.Materials = w.Materials
		}
	}
	return spec, nil
}

func fill(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

func key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
