package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FailurePolicyStrict  = "strict"
	FailurePolicyPartial = "partial"

	KeyStoreMemory   = "memory"
	KeyStoreFile     = "file"
	KeyStorePostgres = "postgres"

	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
	LLMProviderLocal  = "local"
)

// Config holds application configuration.
type Config struct {
	Port     string
	LogLevel string

	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	MaxCallsPerMinute int
	FailurePolicy     string

	PostcodesIOEnabled bool
	PostcodesIOURL     string

	KeyStore     string
	KeyStorePath string
	DatabaseURL  string

	RabbitMQURL      string
	RabbitMQExchange string

	PodcastDelay  time.Duration
	SnowflakeNode int64
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load reads .env (if present) and the process environment into AppConfig.
func Load(envPath ...string) *Config {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	AppConfig = FromEnv()
	return &AppConfig
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() Config {
	cfg := Config{
		Port:     getEnvAsString("PORT", "3000"),
		LogLevel: getEnvAsString("LOG_LEVEL", "info"),

		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  getEnvAsString("GEMINI_MODEL", "gemini-1.5-pro"),
		OpenAIAPIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:  getEnvAsString("OPENAI_MODEL", "gpt-4o"),

		OpenAIBaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),

		MaxCallsPerMinute: getEnvAsInt("MAX_CALLS_PER_MINUTE", 10),
		FailurePolicy:     strings.ToLower(getEnvAsString("FAILURE_POLICY", FailurePolicyStrict)),

		PostcodesIOEnabled: getEnvAsBool("POSTCODES_IO_ENABLED", false),
		PostcodesIOURL:     getEnvAsString("POSTCODES_IO_URL", "https://api.postcodes.io"),

		KeyStore:     strings.ToLower(getEnvAsString("KEY_STORE", KeyStoreMemory)),
		KeyStorePath: getEnvAsString("KEY_STORE_PATH", "settings.yaml"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnvAsString("RABBITMQ_EXCHANGE", "property_insights"),

		PodcastDelay:  getEnvAsDuration("PODCAST_DELAY", 2*time.Second),
		SnowflakeNode: int64(getEnvAsInt("SNOWFLAKE_NODE", 1)),
	}

	cfg.LLMProvider = strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if cfg.LLMProvider == "" {
		switch {
		case cfg.GeminiAPIKey != "":
			cfg.LLMProvider = LLMProviderGemini
		case cfg.OpenAIAPIKey != "":
			cfg.LLMProvider = LLMProviderOpenAI
		default:
			cfg.LLMProvider = LLMProviderLocal
		}
	}

	if cfg.FailurePolicy != FailurePolicyPartial {
		cfg.FailurePolicy = FailurePolicyStrict
	}
	return cfg
}

// CallInterval is the pacing gap between provider calls; zero disables pacing.
func (c Config) CallInterval() time.Duration {
	if c.MaxCallsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(c.MaxCallsPerMinute)
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: %s=%q is not an int, using default %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: %s=%q is not a bool, using default %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return valueBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: %s=%q is not a duration, using default %s", key, valueStr, defaultValue)
		return defaultValue
	}
	return d
}
