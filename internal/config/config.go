// Package config loads the process configuration once at start-up. Values
// come from the environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	CORSOrigins []string
	JWTSecret   string
	AutoMigrate bool

	LLM LLMConfig

	// TimeZone names the location used for dates and activity timestamps.
	TimeZone          string
	PlanRatePerMinute int
}

type LLMConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Configured reports whether an API key is available for the provider.
func (c LLMConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Load reads a .env file if one exists and then the environment. It returns
// an error naming every missing required variable, or the first variable
// that could not be parsed.
func Load() (Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var missing []string
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}

	timeout, err := getDuration("LLM_TIMEOUT", 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getDuration("LLM_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	rate, err := getInt("PLAN_RATE_PER_MINUTE", 6)
	if err != nil {
		return Config{}, err
	}
	autoMigrate, err := getBool("AUTO_MIGRATE", true)
	if err != nil {
		return Config{}, err
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI))
	if provider != ProviderOpenAI && provider != ProviderGemini {
		return Config{}, fmt.Errorf("config: LLM_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, provider)
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: databaseURL,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AutoMigrate: autoMigrate,
		LLM: LLMConfig{
			Provider: provider,
			APIKey:   os.Getenv("LLM_API_KEY"),
			BaseURL:  getEnv("LLM_BASE_URL", "https://api.siliconflow.cn/v1"),
			Model:    getEnv("LLM_MODEL", defaultModel(provider)),
			Timeout:  timeout,
			CacheTTL: cacheTTL,
		},
		TimeZone:          getEnv("TIMEZONE", "Asia/Shanghai"),
		PlanRatePerMinute: rate,
	}, nil
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-1.5-flash"
	}
	return "deepseek-ai/DeepSeek-V3"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("config: invalid %s %q: expected a duration such as 30s", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("config: invalid %s %q: expected a non-negative integer", key, v)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: expected true or false", key, v)
	}
	return b, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
