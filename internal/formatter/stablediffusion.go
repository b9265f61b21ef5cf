package formatter

import (
	"strconv"
	"strings"

	"luxeprompt/internal/domain/jsoncfg"
)

const (
	// SDQualityBoost is always appended to the positive block.
	SDQualityBoost = "masterpiece, best quality, ultra detailed, 8k uhd, sharp focus, photorealistic"
	// SDFacelessClause is the reduced anonymization clause for the positive block.
	SDFacelessClause = "from behind, faceless, no visible face"
)

// StandardNegative is appended after the user's own negative terms.
var StandardNegative = []string{
	"lowres",
	"bad anatomy",
	"bad hands",
	"text",
	"error",
	"missing fingers",
	"extra digit",
	"fewer digits",
	"cropped",
	"worst quality",
	"low quality",
	"jpeg artifacts",
	"signature",
	"watermark",
	"blurry",
	"deformed",
}

type stableDiffusion struct{}

func (stableDiffusion) Format(spec jsoncfg.PromptSpec) FormattedPrompt {
	var pos keywords
	pos.add(spec.Subject, spec.Identity)
	pos.add(spec.Pose...)
	pos.add(spec.Clothing)
	pos.add(spec.Materials...)
	pos.add(spec.Scene, spec.Lighting, spec.Mood, spec.CameraAngle, spec.Quality)
	pos.add(SDQualityBoost)
	if spec.Faceless {
		pos.add(SDFacelessClause)
	}

	var neg keywords
	neg.add(spec.NegativePrompt...)
	neg.add(StandardNegative...)

	positive := pos.join()
	negative := neg.join()
	return FormattedPrompt{
		Positive:   positive,
		Negative:   negative,
		Parameters: stableDiffusionParams(spec.StableDiffusion),
		Model:      jsoncfg.ModelStableDiffusion,
		Full:       positive + "\n\nNegative: " + negative,
	}
}

func stableDiffusionParams(sd *jsoncfg.StableDiffusionParams) string {
	if sd == nil {
		return ""
	}
	var pairs []string
	if sd.CFGScale != nil {
		pairs = append(pairs, "CFG Scale: "+strconv.FormatFloat(*sd.CFGScale, 'f', -1, 64))
	}
	if sd.Steps != nil {
		pairs = append(pairs, "Steps: "+strconv.Itoa(*sd.Steps))
	}
	if s := strings.TrimSpace(sd.Sampler); s != "" {
		pairs = append(pairs, "Sampler: "+s)
	}
	if sd.Seed != nil {
		pairs = append(pairs, "Seed: "+strconv.FormatInt(*sd.Seed, 10))
	}
	return strings.Join(pairs, ", ")
}
