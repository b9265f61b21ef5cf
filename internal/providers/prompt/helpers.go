package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"luxeprompt/internal/domain/jsoncfg"
)

const (
	ProviderStatic = "static"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultLocale = "en"
	maxHooks      = 5
)

// TemplateKey is the system_prompts key holding the refine instruction.
const TemplateKey = "refine"

// DefaultRefineTemplate is used when no template is stored.
const DefaultRefineTemplate = `You are a creative director for viral luxury lifestyle content.
Polish the {{model}} prompt below without changing its subject, wardrobe or scene, and keep the syntax the target model expects.
Write hooks and the audio suggestion in locale '{{locale}}'.
Respond strictly with JSON: {"refined_prompt":string,"negative_prompt":string,"hooks":string[],"audio":string,"validation_issues":string[]}.

Prompt:
{{skeleton}}

Negative prompt:
{{negative}}

Context:
{{context}}`

type modelRefinePayload struct {
	RefinedPrompt    string   `json:"refined_prompt"`
	NegativePrompt   string   `json:"negative_prompt"`
	Hooks            []string `json:"hooks"`
	Audio            string   `json:"audio"`
	ValidationIssues []string `json:"validation_issues"`
}

// RenderTemplate fills the instruction placeholders from req.
func RenderTemplate(req RefineRequest) string {
	tpl := req.Template
	if strings.TrimSpace(tpl) == "" {
		tpl = DefaultRefineTemplate
	}
	model := req.Model
	if model == "" {
		model = jsoncfg.ModelMidjourney
	}
	r := strings.NewReplacer(
		"{{skeleton}}", req.Skeleton,
		"{{negative}}", coalesce(req.Negative, "(none)"),
		"{{model}}", string(model),
		"{{locale}}", coalesce(req.Locale, defaultLocale),
		"{{context}}", specContext(req.Spec),
	)
	return r.Replace(tpl)
}

func specContext(spec jsoncfg.PromptSpec) string {
	b, err := json.Marshal(struct {
		Subject  string `json:"subject,omitempty"`
		Scene    string `json:"scene,omitempty"`
		Style    string `json:"style,omitempty"`
		Mood     string `json:"mood,omitempty"`
		Faceless bool   `json:"faceless,omitempty"`
	}{spec.Subject, spec.Scene, spec.Style, spec.Mood, spec.Faceless})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// responseFromPayload merges an LLM payload over the request defaults.
func responseFromPayload(parsed modelRefinePayload, req RefineRequest, provider string) *RefineResponse {
	return &RefineResponse{
		RefinedPrompt:    coalesce(parsed.RefinedPrompt, req.Skeleton),
		NegativePrompt:   coalesce(parsed.NegativePrompt, req.Negative),
		Hooks:            normalizeHooks(parsed.Hooks, ""),
		Audio:            strings.TrimSpace(parsed.Audio),
		ValidationIssues: normalizeHooks(parsed.ValidationIssues, ""),
		Provider:         provider,
		Metadata:         ensureMetadata(nil, req.Locale),
	}
}

// refineFallback runs fallback (static when nil) and tags the result with reason.
func refineFallback(ctx context.Context, fallback Refiner, req RefineRequest, reason string) (*RefineResponse, error) {
	if fallback == nil {
		fallback = NewStaticRefiner()
	}
	res, err := fallback.Refine(ctx, req)
	if res != nil {
		if res.Provider == "" {
			res.Provider = ProviderStatic
		}
		if res.Metadata == nil {
			res.Metadata = map[string]string{}
		}
		if reason != "" {
			res.Metadata["fallback_reason"] = reason
		}
	}
	return res, err
}

func ensureMetadata(meta map[string]string, locale string) map[string]string {
	if meta == nil {
		meta = map[string]string{}
	}
	if locale != "" {
		meta["locale"] = locale
	} else if _, ok := meta["locale"]; !ok {
		meta["locale"] = defaultLocale
	}
	return meta
}

func normalizeHooks(values []string, fallback string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		result = append(result, v)
		if len(result) == maxHooks {
			break
		}
	}
	if len(result) == 0 && fallback != "" {
		result = []string{fallback}
	}
	return result
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
