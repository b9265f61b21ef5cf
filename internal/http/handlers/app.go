package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"luxeprompt/internal/catalog"
	"luxeprompt/internal/domain"
	"luxeprompt/internal/domain/jsoncfg"
	"luxeprompt/internal/generation"
	"luxeprompt/internal/middleware"
	"luxeprompt/internal/pricing"
)

const maxBodyBytes = 64 << 10

type App struct {
	Generation *generation.Service
	Logger     zerolog.Logger
}

func NewApp(svc *generation.Service, logger zerolog.Logger) *App {
	return &App{Generation: svc, Logger: logger}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func (a *App) errorWithDetails(w http.ResponseWriter, status int, code, message string, details any) {
	a.json(w, status, errorBody{Error: errorDetail{Code: code, Message: message, Details: details}})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// decode reads a JSON body of at most maxBodyBytes. An empty body leaves v untouched.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// fail maps service errors onto the JSON error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid *generation.InvalidPromptError
		short   *generation.InsufficientCreditsError
	)
	switch {
	case errors.As(err, &invalid):
		a.errorWithDetails(w, http.StatusUnprocessableEntity, "invalid_prompt", "prompt has blocking conflicts", invalid.Result)
	case errors.As(err, &short):
		a.errorWithDetails(w, http.StatusPaymentRequired, "insufficient_credits", "not enough credits for this generation", map[string]int{
			"cost":    short.Cost,
			"credits": short.Balance.Credits,
		})
	case errors.Is(err, domain.ErrInsufficientCredits):
		a.error(w, http.StatusPaymentRequired, "insufficient_credits", "not enough credits")
	case errors.Is(err, jsoncfg.ErrMalformedParameters),
		errors.Is(err, catalog.ErrUnknownOption),
		errors.Is(err, pricing.ErrNegativeGenerations):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrBonusUnavailable):
		a.error(w, http.StatusConflict, "bonus_unavailable", "first bonus already claimed or no longer available")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	default:
		a.Logger.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// requireUser writes a 401 and returns "" when the request carries no user.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	}
	return userID
}
