package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestOpenAIRefinerParsesPayload(t *testing.T) {
	var captured openAIChatRequest
	refiner, err := NewOpenAIRefiner(OpenAIOptions{
		APIKey:       "dummy",
		Organization: "org-1",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/v1/chat/completions" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer dummy" || r.Header.Get("OpenAI-Organization") != "org-1" {
				t.Errorf("headers = %v", r.Header)
			}
			_ = json.NewDecoder(r.Body).Decode(&captured)
			content := "```json\n{\"refined_prompt\":\"polished\",\"hooks\":[\"h1\",\"h1\",\"h2\"],\"audio\":\"lounge jazz\"}\n```"
			body, _ := json.Marshal(map[string]any{
				"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
			})
			return jsonResponse(http.StatusOK, string(body)), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIRefiner returned error: %v", err)
	}
	res, err := refiner.Refine(context.Background(), RefineRequest{Skeleton: "raw", Negative: "blurry"})
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if res.RefinedPrompt != "polished" || res.NegativePrompt != "blurry" || res.Audio != "lounge jazz" {
		t.Fatalf("response = %+v", res)
	}
	if len(res.Hooks) != 2 {
		t.Fatalf("Hooks = %v, want de-duplicated", res.Hooks)
	}
	if res.Provider != ProviderOpenAI || res.Fallback() {
		t.Fatalf("Provider = %q, fallback = %t", res.Provider, res.Fallback())
	}
	if captured.Model != defaultOpenAIModel || captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("request = %+v", captured)
	}
	if !strings.Contains(captured.Messages[1].Content, "raw") {
		t.Fatalf("user message does not carry the skeleton: %q", captured.Messages[1].Content)
	}
}

func TestOpenAIRefinerFallbackMetadata(t *testing.T) {
	cases := []struct {
		name   string
		rt     roundTripFunc
		reason string
	}{
		{
			name:   "transport",
			rt:     func(*http.Request) (*http.Response, error) { return nil, errors.New("boom") },
			reason: "http_request",
		},
		{
			name:   "status",
			rt:     func(*http.Request) (*http.Response, error) { return jsonResponse(http.StatusTooManyRequests, `{}`), nil },
			reason: "http_429",
		},
		{
			name:   "no choices",
			rt:     func(*http.Request) (*http.Response, error) { return jsonResponse(http.StatusOK, `{"choices":[]}`), nil },
			reason: "empty_choices",
		},
		{
			name: "bad payload",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"not json"}}]}`), nil
			},
			reason: "parse_payload",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var capturedReason string
			refiner, err := NewOpenAIRefiner(OpenAIOptions{
				APIKey:     "dummy",
				HTTPClient: &http.Client{Transport: tc.rt},
				Fallback:   NewStaticRefiner(),
				OnFallback: func(reason string, err error) {
					capturedReason = reason
				},
			})
			if err != nil {
				t.Fatalf("NewOpenAIRefiner returned error: %v", err)
			}
			res, err := refiner.Refine(context.Background(), RefineRequest{Skeleton: "local prompt", Locale: "en"})
			if err != nil {
				t.Fatalf("Refine returned error: %v", err)
			}
			if res.Provider != ProviderStatic {
				t.Fatalf("Provider = %q, want %q", res.Provider, ProviderStatic)
			}
			if res.RefinedPrompt != "local prompt" {
				t.Fatalf("RefinedPrompt = %q, want the local skeleton", res.RefinedPrompt)
			}
			if res.Metadata["fallback_reason"] != tc.reason || capturedReason != tc.reason {
				t.Fatalf("fallback_reason = %q, captured = %q, want %q", res.Metadata["fallback_reason"], capturedReason, tc.reason)
			}
			if !res.Fallback() {
				t.Fatal("Fallback() = false, want true")
			}
		})
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		input  string
		model  string
		reason string
	}{
		{name: "exact_default", input: "gpt-4o-mini", model: "gpt-4o-mini", reason: ""},
		{name: "exact_large", input: "GPT-4o", model: "gpt-4o", reason: ""},
		{name: "alias_short", input: "gpt4o", model: "gpt-4o", reason: "alias"},
		{name: "alias_spaces", input: "gpt4o mini", model: "gpt-4o-mini", reason: "alias"},
		{name: "unsupported", input: "gpt-3.5-turbo", model: "gpt-4o-mini", reason: "defaulted"},
		{name: "empty", input: "", model: "gpt-4o-mini", reason: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotModel, gotReason := normalizeOpenAIModel(tc.input)
			if gotModel != tc.model {
				t.Fatalf("model = %q, want %q", gotModel, tc.model)
			}
			if gotReason != tc.reason {
				t.Fatalf("reason = %q, want %q", gotReason, tc.reason)
			}
		})
	}
}

func TestNewOpenAIRefinerWarnsOnUnsupportedModel(t *testing.T) {
	var capturedReason, capturedDetail string
	refiner, err := NewOpenAIRefiner(OpenAIOptions{
		APIKey: "dummy",
		Model:  "gpt-5 thinking",
		OnWarning: func(reason, detail string) {
			capturedReason = reason
			capturedDetail = detail
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refiner == nil {
		t.Fatal("refiner is nil")
	}
	if capturedReason != "model_defaulted" {
		t.Fatalf("warning reason = %q, want %q", capturedReason, "model_defaulted")
	}
	if !strings.Contains(capturedDetail, "resolved=gpt-4o-mini") {
		t.Fatalf("warning detail = %q", capturedDetail)
	}
}

func TestNewOpenAIRefinerRequiresKey(t *testing.T) {
	if _, err := NewOpenAIRefiner(OpenAIOptions{APIKey: "  "}); err == nil {
		t.Fatal("expected error for blank api key")
	}
}
