package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"luxeprompt/internal/domain/jsoncfg"
)

// RefineRequest carries the locally formatted prompt to an LLM for polishing.
type RefineRequest struct {
	Skeleton string
	Negative string
	Model    jsoncfg.ModelID
	Locale   string
	Spec     jsoncfg.PromptSpec
	// Template overrides DefaultRefineTemplate when non-empty.
	Template string
}

type RefineResponse struct {
	RefinedPrompt    string            `json:"refined_prompt"`
	NegativePrompt   string            `json:"negative_prompt,omitempty"`
	Hooks            []string          `json:"hooks"`
	Audio            string            `json:"audio,omitempty"`
	ValidationIssues []string          `json:"validation_issues,omitempty"`
	Provider         string            `json:"provider"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Fallback reports whether the response came from a fallback path.
func (r *RefineResponse) Fallback() bool {
	return r == nil || r.Metadata["fallback_reason"] != ""
}

type Refiner interface {
	Refine(ctx context.Context, req RefineRequest) (*RefineResponse, error)
}

// StaticRefiner returns the skeleton verbatim with a few caption hooks.
type StaticRefiner struct{}

func NewStaticRefiner() *StaticRefiner {
	return &StaticRefiner{}
}

var hookTemplates = map[string][]string{
	"en": {
		"pov: %s at the %s",
		"the %s dress code nobody talks about",
		"soft life, %s edition",
	},
	"es": {
		"pov: %s en %s",
		"el código de vestimenta %s que nadie menciona",
		"vida tranquila, edición %s",
	},
	"fr": {
		"pov : %s au %s",
		"le dress code %s dont personne ne parle",
		"douce vie, édition %s",
	},
}

var hookLocales = language.NewMatcher([]language.Tag{language.English, language.Spanish, language.French})

func (s *StaticRefiner) Refine(ctx context.Context, req RefineRequest) (*RefineResponse, error) {
	tag, base := hookLanguage(req.Locale)
	title := cases.Title(tag)

	subject := coalesce(req.Spec.Subject, "you")
	scene := coalesce(req.Spec.Scene, req.Spec.Location, "villa")
	style := coalesce(req.Spec.Style, "quiet luxury")

	tpls := hookTemplates[base]
	hooks := []string{
		title.String(fmt.Sprintf(tpls[0], subject, scene)),
		title.String(fmt.Sprintf(tpls[1], style)),
		title.String(fmt.Sprintf(tpls[2], scene)),
	}
	return &RefineResponse{
		RefinedPrompt:  req.Skeleton,
		NegativePrompt: req.Negative,
		Hooks:          normalizeHooks(hooks, ""),
		Provider:       ProviderStatic,
		Metadata:       ensureMetadata(nil, req.Locale),
	}, nil
}

func hookLanguage(locale string) (language.Tag, string) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.English, "en"
	}
	tag, _, _ := hookLocales.Match(language.Make(locale))
	base, _ := tag.Base()
	if _, ok := hookTemplates[base.String()]; !ok {
		return language.English, "en"
	}
	return tag, base.String()
}

var _ Refiner = (*StaticRefiner)(nil)
