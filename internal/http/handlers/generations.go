package handlers

import (
	"net/http"
	"strconv"

	"luxeprompt/internal/domain"
	"luxeprompt/internal/domain/jsoncfg"
	"luxeprompt/internal/generation"
	"luxeprompt/internal/middleware"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type generateRequest struct {
	Spec       jsoncfg.PromptSpec `json:"spec"`
	Selections jsoncfg.Selections `json:"selections"`
	Model      jsoncfg.ModelID    `json:"model"`
	SkipRefine bool               `json:"skip_refine"`
}

type historyResponse struct {
	Items []domain.UsageEvent `json:"items"`
}

func (a *App) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var req generateRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	res, err := a.Generation.Generate(r.Context(), generation.GenerateInput{
		UserID:     userID,
		RequestID:  middleware.RequestIDFromContext(r.Context()),
		Spec:       req.Spec,
		Selections: req.Selections,
		Model:      req.Model,
		Locale:     middleware.LocaleFromContext(r.Context()),
		SkipRefine: req.SkipRefine,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, res)
}

func (a *App) ListGenerations(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	events, err := a.Generation.History(r.Context(), userID, limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, historyResponse{Items: events})
}
