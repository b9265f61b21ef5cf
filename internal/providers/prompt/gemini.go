package prompt

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the slice of *genai.Models the refiner needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiOptions struct {
	APIKey     string
	Model      string
	Fallback   Refiner
	OnFallback func(reason string, err error)
	// Generator replaces the SDK client; used by tests.
	Generator contentGenerator
}

// GeminiRefiner polishes prompts with the Gemini API through the genai SDK.
type GeminiRefiner struct {
	models     contentGenerator
	model      string
	fallback   Refiner
	onFallback func(reason string, err error)
}

func NewGeminiRefiner(ctx context.Context, opts GeminiOptions) (*GeminiRefiner, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	gen := opts.Generator
	if gen == nil {
		if strings.TrimSpace(opts.APIKey) == "" {
			return nil, errors.New("gemini api key is required")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  strings.TrimSpace(opts.APIKey),
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		gen = client.Models
	}
	return &GeminiRefiner{
		models:     gen,
		model:      model,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

func (g *GeminiRefiner) Refine(ctx context.Context, req RefineRequest) (*RefineResponse, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.6),
		CandidateCount:   1,
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{
			Text: "You are a prompt editor for luxury lifestyle imagery that only responds with valid JSON.",
		}}},
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(RenderTemplate(req)), config)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return g.useFallback(ctx, req, "timeout", err)
		}
		return g.useFallback(ctx, req, "generate_content", err)
	}
	text, reason := candidateText(resp)
	if reason != "" {
		return g.useFallback(ctx, req, reason, errors.New(reason))
	}
	parsed, err := parseModelPayload[modelRefinePayload](text)
	if err != nil {
		return g.useFallback(ctx, req, "parse_payload", err)
	}
	return responseFromPayload(parsed, req, ProviderGemini), nil
}

func candidateText(resp *genai.GenerateContentResponse) (string, string) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", "empty_candidates"
	}
	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return "", "blocked_safety"
	case genai.FinishReasonRecitation:
		return "", "blocked_recitation"
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", "empty_response"
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", "empty_response"
	}
	return text, ""
}

func (g *GeminiRefiner) useFallback(ctx context.Context, req RefineRequest, reason string, fallbackErr error) (*RefineResponse, error) {
	if g.onFallback != nil {
		g.onFallback(reason, fallbackErr)
	}
	return refineFallback(ctx, g.fallback, req, reason)
}

var _ Refiner = (*GeminiRefiner)(nil)
