// Package formatter renders a prompt specification into the text a given
// generative backend expects. Each backend has its own Strategy.
package formatter

import (
	"strings"

	"luxeprompt/internal/domain/jsoncfg"
)

// DefaultModel is used when the requested model is empty or unknown.
const DefaultModel = jsoncfg.ModelMidjourney

type FormattedPrompt struct {
	Positive   string          `json:"positive"`
	Negative   string          `json:"negative,omitempty"`
	Parameters string          `json:"parameters,omitempty"`
	Model      jsoncfg.ModelID `json:"model"`
	Full       string          `json:"full"`
}

// Strategy formats a specification for one backend.
type Strategy interface {
	Format(spec jsoncfg.PromptSpec) FormattedPrompt
}

var strategies = map[jsoncfg.ModelID]Strategy{
	jsoncfg.ModelMidjourney:      midjourney{},
	jsoncfg.ModelStableDiffusion: stableDiffusion{},
	jsoncfg.ModelDalle:           dalle{},
}

// Models lists the supported backends, default first.
func Models() []jsoncfg.ModelID {
	return []jsoncfg.ModelID{jsoncfg.ModelMidjourney, jsoncfg.ModelStableDiffusion, jsoncfg.ModelDalle}
}

// Resolve maps a requested model to a supported one, falling back to DefaultModel.
func Resolve(model jsoncfg.ModelID) jsoncfg.ModelID {
	if id, ok := jsoncfg.ParseModelID(string(model)); ok {
		return id
	}
	return DefaultModel
}

// For returns the strategy for model.
func For(model jsoncfg.ModelID) Strategy {
	return strategies[Resolve(model)]
}

// Format renders spec for model. When model is empty the specification's own
// target model is used. Malformed parameter groups are rejected before rendering.
func Format(spec jsoncfg.PromptSpec, model jsoncfg.ModelID) (FormattedPrompt, error) {
	if err := spec.Check(); err != nil {
		return FormattedPrompt{}, err
	}
	if strings.TrimSpace(string(model)) == "" {
		model = spec.TargetModel
	}
	return For(model).Format(spec), nil
}

// keywords collects non-blank fragments in insertion order.
type keywords []string

func (k *keywords) add(values ...string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			*k = append(*k, v)
		}
	}
}

func (k keywords) join() string {
	return strings.Join(k, ", ")
}
