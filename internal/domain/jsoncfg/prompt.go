package jsoncfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ModelID identifies a generative backend the formatter renders for.
type ModelID string

const (
	ModelMidjourney      ModelID = "midjourney"
	ModelStableDiffusion ModelID = "stable-diffusion"
	ModelDalle           ModelID = "dalle"
)

// ErrMalformedParameters is returned when a model parameter group carries out-of-range values.
var ErrMalformedParameters = errors.New("malformed model parameters")

var modelAliases = map[string]ModelID{
	"midjourney":       ModelMidjourney,
	"mj":               ModelMidjourney,
	"niji":             ModelMidjourney,
	"stable-diffusion": ModelStableDiffusion,
	"stablediffusion":  ModelStableDiffusion,
	"stable_diffusion": ModelStableDiffusion,
	"sd":               ModelStableDiffusion,
	"sdxl":             ModelStableDiffusion,
	"dalle":            ModelDalle,
	"dall-e":           ModelDalle,
	"dall_e":           ModelDalle,
	"dalle3":           ModelDalle,
	"dall-e-3":         ModelDalle,
}

// ParseModelID resolves a user supplied model name into a supported ModelID.
func ParseModelID(raw string) (ModelID, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	key = strings.ReplaceAll(key, " ", "-")
	id, ok := modelAliases[key]
	return id, ok
}

// MidjourneyParams are flag parameters appended to keyword prompts.
type MidjourneyParams struct {
	AspectRatio string   `json:"aspect_ratio,omitempty"`
	Stylize     *int     `json:"stylize,omitempty"`
	Version     string   `json:"version,omitempty"`
	Style       string   `json:"style,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
	Chaos       *int     `json:"chaos,omitempty"`
	Quality     *float64 `json:"quality,omitempty"`
}

// StableDiffusionParams are sampler settings reported next to the dual prompt block.
type StableDiffusionParams struct {
	CFGScale *float64 `json:"cfg_scale,omitempty"`
	Steps    *int     `json:"steps,omitempty"`
	Sampler  string   `json:"sampler,omitempty"`
	Seed     *int64   `json:"seed,omitempty"`
}

// PromptSpec is the partially filled description of one generation request.
// Every field is optional.
type PromptSpec struct {
	Subject  string `json:"subject,omitempty"`
	Identity string `json:"identity,omitempty"`

	Pose         []string `json:"pose,omitempty"`
	BodyLanguage string   `json:"body_language,omitempty"`
	Gesture      string   `json:"gesture,omitempty"`

	Hair        string   `json:"hair,omitempty"`
	Makeup      string   `json:"makeup,omitempty"`
	Accessories []string `json:"accessories,omitempty"`

	Clothing  string   `json:"clothing,omitempty"`
	Materials []string `json:"materials,omitempty"`
	Fit       string   `json:"fit,omitempty"`
	Colors    []string `json:"colors,omitempty"`

	Scene       string   `json:"scene,omitempty"`
	Background  string   `json:"background,omitempty"`
	Environment []string `json:"environment,omitempty"`
	Location    string   `json:"location,omitempty"`

	Lighting         string `json:"lighting,omitempty"`
	Mood             string `json:"mood,omitempty"`
	TimeOfDay        string `json:"time_of_day,omitempty"`
	ColorTemperature string `json:"color_temperature,omitempty"`

	CameraAngle  string `json:"camera_angle,omitempty"`
	Composition  string `json:"composition,omitempty"`
	DepthOfField string `json:"depth_of_field,omitempty"`
	Framing      string `json:"framing,omitempty"`

	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	FilmStock      string `json:"film_stock,omitempty"`
	PostProcessing string `json:"post_processing,omitempty"`

	Constraints    []string `json:"constraints,omitempty"`
	MustInclude    []string `json:"must_include,omitempty"`
	NegativePrompt []string `json:"negative_prompt,omitempty"`

	Faceless    bool    `json:"faceless,omitempty"`
	TargetModel ModelID `json:"target_model,omitempty"`

	Midjourney      *MidjourneyParams      `json:"midjourney,omitempty"`
	StableDiffusion *StableDiffusionParams `json:"stable_diffusion,omitempty"`
}

// Selections carries the catalog picks that accompany a specification.
type Selections struct {
	Aesthetic string `json:"aesthetic,omitempty"`
	ShotType  string `json:"shot_type,omitempty"`
	Wardrobe  string `json:"wardrobe,omitempty"`
}

// Normalize trims free text, drops blank list entries and canonicalises the target model.
// Unknown model names are kept verbatim so the formatter can apply its default.
func (p *PromptSpec) Normalize() {
	if p == nil {
		return
	}
	for _, s := range []*string{
		&p.Subject, &p.Identity, &p.BodyLanguage, &p.Gesture, &p.Hair, &p.Makeup,
		&p.Clothing, &p.Fit, &p.Scene, &p.Background, &p.Location, &p.Lighting, &p.Mood,
		&p.TimeOfDay, &p.ColorTemperature, &p.CameraAngle, &p.Composition, &p.DepthOfField,
		&p.Framing, &p.Quality, &p.Style, &p.FilmStock, &p.PostProcessing,
	} {
		*s = strings.TrimSpace(*s)
	}
	for _, list := range []*[]string{
		&p.Pose, &p.Accessories, &p.Materials, &p.Colors, &p.Environment,
		&p.Constraints, &p.MustInclude, &p.NegativePrompt,
	} {
		*list = compact(*list)
	}
	if id, ok := ParseModelID(string(p.TargetModel)); ok {
		p.TargetModel = id
	} else {
		p.TargetModel = ModelID(strings.TrimSpace(string(p.TargetModel)))
	}
	if p.Midjourney != nil {
		p.Midjourney.AspectRatio = strings.TrimSpace(p.Midjourney.AspectRatio)
		p.Midjourney.Version = strings.TrimSpace(p.Midjourney.Version)
		p.Midjourney.Style = strings.TrimSpace(p.Midjourney.Style)
	}
	if p.StableDiffusion != nil {
		p.StableDiffusion.Sampler = strings.TrimSpace(p.StableDiffusion.Sampler)
	}
}

// HasCustomParameters reports whether any model parameter group was supplied.
func (p PromptSpec) HasCustomParameters() bool {
	return p.Midjourney != nil || p.StableDiffusion != nil
}

var midjourneyQualities = map[float64]struct{}{
	0.25: {},
	0.5:  {},
	1:    {},
	2:    {},
}

// Check rejects parameter groups that no backend would accept.
func (p PromptSpec) Check() error {
	if mj := p.Midjourney; mj != nil {
		if mj.Stylize != nil && (*mj.Stylize < 0 || *mj.Stylize > 1000) {
			return fmt.Errorf("%w: midjourney.stylize must be between 0 and 1000", ErrMalformedParameters)
		}
		if mj.Chaos != nil && (*mj.Chaos < 0 || *mj.Chaos > 100) {
			return fmt.Errorf("%w: midjourney.chaos must be between 0 and 100", ErrMalformedParameters)
		}
		if mj.Seed != nil && *mj.Seed < 0 {
			return fmt.Errorf("%w: midjourney.seed must not be negative", ErrMalformedParameters)
		}
		if mj.Quality != nil {
			if _, ok := midjourneyQualities[*mj.Quality]; !ok {
				return fmt.Errorf("%w: midjourney.quality must be one of 0.25, 0.5, 1, 2", ErrMalformedParameters)
			}
		}
		if mj.AspectRatio != "" && !validAspectRatio(mj.AspectRatio) {
			return fmt.Errorf("%w: midjourney.aspect_ratio %q is not W:H", ErrMalformedParameters, mj.AspectRatio)
		}
	}
	if sd := p.StableDiffusion; sd != nil {
		if sd.CFGScale != nil && (*sd.CFGScale < 1 || *sd.CFGScale > 30) {
			return fmt.Errorf("%w: stable_diffusion.cfg_scale must be between 1 and 30", ErrMalformedParameters)
		}
		if sd.Steps != nil && (*sd.Steps < 1 || *sd.Steps > 150) {
			return fmt.Errorf("%w: stable_diffusion.steps must be between 1 and 150", ErrMalformedParameters)
		}
		if sd.Seed != nil && *sd.Seed < -1 {
			return fmt.Errorf("%w: stable_diffusion.seed must be -1 or greater", ErrMalformedParameters)
		}
	}
	return nil
}

func validAspectRatio(v string) bool {
	w, h, ok := strings.Cut(v, ":")
	if !ok || w == "" || h == "" {
		return false
	}
	for _, part := range []string{w, h} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
		if strings.TrimLeft(part, "0") == "" {
			return false
		}
	}
	return true
}

func compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UsageEventPayload is stored in usage_events.properties for each generation.
type UsageEventPayload struct {
	GenerationID string  `json:"generation_id"`
	Model        ModelID `json:"model"`
	Cost         int     `json:"cost"`
	Source       string  `json:"source"`
	Provider     string  `json:"provider,omitempty"`
	Completeness int     `json:"completeness"`
	Aesthetic    string  `json:"aesthetic,omitempty"`
	ShotType     string  `json:"shot_type,omitempty"`
	Wardrobe     string  `json:"wardrobe,omitempty"`
}

func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
