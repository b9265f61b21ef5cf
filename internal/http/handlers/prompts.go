package handlers

import (
	"net/http"

	"luxeprompt/internal/domain/jsoncfg"
	"luxeprompt/internal/formatter"
	"luxeprompt/internal/generation"
	"luxeprompt/internal/validation"
)

type promptRequest struct {
	Spec       jsoncfg.PromptSpec `json:"spec"`
	Selections jsoncfg.Selections `json:"selections"`
	Model      jsoncfg.ModelID    `json:"model"`
}

type validateResponse struct {
	Validation    validation.Result       `json:"validation"`
	Optimizations []validation.Suggestion `json:"optimizations"`
	Spec          jsoncfg.PromptSpec      `json:"spec"`
}

type formatResponse struct {
	Formatted  formatter.FormattedPrompt `json:"formatted"`
	Validation validation.Result         `json:"validation"`
}

// ValidatePrompt reports conflicts and suggestions. An invalid prompt is still a 200.
func (a *App) ValidatePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	p, err := generation.Prepare(req.Spec, req.Selections, req.Model)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, validateResponse{
		Validation:    p.Validation,
		Optimizations: validation.Optimize(p.Spec),
		Spec:          p.Spec,
	})
}

// FormatPrompt renders the prompt locally without charging credits.
func (a *App) FormatPrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	p, err := generation.Prepare(req.Spec, req.Selections, req.Model)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	formatted, err := formatter.Format(p.Spec, p.Model)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, formatResponse{Formatted: formatted, Validation: p.Validation})
}

func (a *App) QuotePrompt(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var req promptRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	q, err := a.Generation.Quote(r.Context(), userID, req.Spec, req.Selections, req.Model)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, q)
}
