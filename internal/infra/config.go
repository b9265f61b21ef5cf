package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Refine providers accepted by REFINE_PROVIDER.
const (
	RefineProviderStatic = "static"
	RefineProviderOpenAI = "openai"
	RefineProviderGemini = "gemini"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	RedisURL           string
	BalanceCacheTTL    time.Duration
	GeoIPDBPath        string
	CORSAllowedOrigins []string
	RefineProvider     string
	RefineTimeout      time.Duration
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIOrg          string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	DefaultCredits     int
	FirstBonusCredits  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RedisURL:           os.Getenv("REDIS_URL"),
		BalanceCacheTTL:    time.Second * time.Duration(getEnvInt("BALANCE_CACHE_TTL_SECONDS", 30)),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		RefineProvider:     strings.ToLower(getEnv("REFINE_PROVIDER", RefineProviderStatic)),
		RefineTimeout:      time.Second * time.Duration(getEnvInt("REFINE_TIMEOUT_SECONDS", 20)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		DefaultCredits:     getEnvInt("DEFAULT_CREDITS", 5),
		FirstBonusCredits:  getEnvInt("FIRST_BONUS_CREDITS", 5),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.RefineProvider {
	case RefineProviderStatic, RefineProviderOpenAI, RefineProviderGemini:
	default:
		return nil, fmt.Errorf("REFINE_PROVIDER %q is not one of static, openai, gemini", cfg.RefineProvider)
	}

	if cfg.DefaultCredits < 0 || cfg.FirstBonusCredits < 0 {
		return nil, fmt.Errorf("DEFAULT_CREDITS and FIRST_BONUS_CREDITS must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
