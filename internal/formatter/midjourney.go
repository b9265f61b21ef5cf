package formatter

import (
	"strconv"
	"strings"

	"luxeprompt/internal/domain/jsoncfg"
)

// FacelessClause replaces any facial detail when anonymized output is requested.
const FacelessClause = "faceless composition, shot from behind, back of head only, no visible face, anonymous subject"

const (
	defaultMidjourneyParams = "--ar 4:5 --stylize 250 --v 6.1"
	oldMoneyStyle           = "old money"
)

type midjourney struct{}

func (midjourney) Format(spec jsoncfg.PromptSpec) FormattedPrompt {
	var k keywords
	k.add(spec.Subject, spec.Identity)
	k.add(spec.Pose...)
	k.add(spec.BodyLanguage, spec.Gesture)
	if !spec.Faceless {
		k.add(spec.Hair, spec.Makeup)
	}
	k.add(spec.Accessories...)
	k.add(spec.Clothing)
	k.add(spec.Materials...)
	k.add(spec.Fit)
	k.add(spec.Colors...)
	k.add(spec.Scene, spec.Background)
	k.add(spec.Environment...)
	k.add(spec.Location, spec.Lighting, spec.Mood, spec.TimeOfDay, spec.ColorTemperature)
	k.add(spec.CameraAngle, spec.Composition, spec.DepthOfField, spec.Framing)
	k.add(spec.Quality, spec.FilmStock, spec.PostProcessing)
	if spec.Faceless {
		k.add(FacelessClause)
	}

	positive := k.join()
	params := midjourneyParams(spec)
	return FormattedPrompt{
		Positive:   positive,
		Parameters: params,
		Model:      jsoncfg.ModelMidjourney,
		Full:       strings.TrimSpace(positive + " " + params),
	}
}

func midjourneyParams(spec jsoncfg.PromptSpec) string {
	mj := spec.Midjourney
	if mj == nil {
		if strings.EqualFold(strings.TrimSpace(spec.Style), oldMoneyStyle) {
			return defaultMidjourneyParams + " --style raw"
		}
		return defaultMidjourneyParams
	}
	var flags []string
	flag := func(name, value string) {
		if value = strings.TrimSpace(value); value != "" {
			flags = append(flags, "--"+name+" "+value)
		}
	}
	flag("ar", mj.AspectRatio)
	if mj.Stylize != nil {
		flag("stylize", strconv.Itoa(*mj.Stylize))
	}
	flag("v", mj.Version)
	flag("style", mj.Style)
	if mj.Seed != nil {
		flag("seed", strconv.FormatInt(*mj.Seed, 10))
	}
	if mj.Chaos != nil {
		flag("chaos", strconv.Itoa(*mj.Chaos))
	}
	if mj.Quality != nil {
		flag("q", strconv.FormatFloat(*mj.Quality, 'f', -1, 64))
	}
	return strings.Join(flags, " ")
}
