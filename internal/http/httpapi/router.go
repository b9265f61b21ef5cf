package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"luxeprompt/internal/http/handlers"
	"luxeprompt/internal/middleware"
)

type Options struct {
	Logger          zerolog.Logger
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/catalog", app.Catalog)
		r.Post("/prompts/validate", app.ValidatePrompt)
		r.Post("/prompts/format", app.FormatPrompt)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret))
			r.Get("/credits", app.GetCredits)
			r.Post("/credits/bonus", app.ClaimBonus)
			r.Post("/prompts/quote", app.QuotePrompt)
			r.Post("/generations", app.CreateGeneration)
			r.Get("/generations", app.ListGenerations)
		})
	})

	return r
}
