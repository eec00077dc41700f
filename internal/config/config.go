package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers supported by the audit command.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// Config holds runtime configuration values for the API service and maintenance commands.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	StoreDriver     string
	MongoURI        string
	MongoDatabase   string
	MongoTimeout    time.Duration
	RedisURL        string
	NATSURL         string
	EventPrefix     string
	JWTSecret       string
	ResultsCacheTTL time.Duration
	ChatRateLimit   int
	ChatRateWindow  time.Duration
	ChatSignupURL   string
	AIProvider      string
	AIModel         string
	OpenAIAPIKey    string
	APIBaseURL      string
	APIToken        string
	RequestTimeout  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Validate checks the values the HTTP API cannot start without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret must be provided")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database url must be provided")
	}
	return nil
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "STC API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5004")
	v.SetDefault("store.driver", StoreDriverPostgres)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "stc-database")
	v.SetDefault("mongo.timeout", "20s")
	v.SetDefault("event.prefix", "stc")
	v.SetDefault("results.cache_ttl", "2m")
	v.SetDefault("chat.rate_limit", 20)
	v.SetDefault("chat.rate_window", "1m")
	v.SetDefault("chat.signup_url", "http://localhost:3001/signup")
	v.SetDefault("ai.provider", "mock")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("api.base_url", "http://localhost:5004")
	v.SetDefault("api.timeout", "15s")

	ttl, err := parseDuration(v, "results.cache_ttl", "2m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid results cache ttl: %w", err)
	}

	mongoTimeout, err := parseDuration(v, "mongo.timeout", "20s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid mongo timeout: %w", err)
	}

	chatWindow, err := parseDuration(v, "chat.rate_window", "1m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid chat rate window: %w", err)
	}

	requestTimeout, err := parseDuration(v, "api.timeout", "15s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid api timeout: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		StoreDriver:     strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
		MongoURI:        v.GetString("mongo.uri"),
		MongoDatabase:   v.GetString("mongo.database"),
		MongoTimeout:    mongoTimeout,
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		EventPrefix:     v.GetString("event.prefix"),
		JWTSecret:       v.GetString("jwt.secret"),
		ResultsCacheTTL: ttl,
		ChatRateLimit:   v.GetInt("chat.rate_limit"),
		ChatRateWindow:  chatWindow,
		ChatSignupURL:   v.GetString("chat.signup_url"),
		AIProvider:      strings.ToLower(v.GetString("ai.provider")),
		AIModel:         v.GetString("ai.model"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		APIBaseURL:      strings.TrimRight(v.GetString("api.base_url"), "/"),
		APIToken:        v.GetString("api.token"),
		RequestTimeout:  requestTimeout,
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMongo:
	default:
		return Config{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.ChatRateLimit <= 0 {
		cfg.ChatRateLimit = 20
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	value := v.GetString(key)
	if value == "" {
		value = fallback
	}
	return time.ParseDuration(value)
}
