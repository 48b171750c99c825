package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (optional), a .env file (optional) and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY", "API_KEY", "APP_GEMINI_API_KEY")
	v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	v.BindEnv("events.nats.url", "NATS_URL", "APP_EVENTS_NATS_URL")
	v.BindEnv("events.rabbitmq.url", "RABBITMQ_URL", "APP_EVENTS_RABBITMQ_URL")
	v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Gemini.APIKey = strings.TrimSpace(cfg.Gemini.APIKey)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pictovoz")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("http.body_limit", 8*1024*1024)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.agent_model", "gemini-2.5-flash")
	v.SetDefault("gemini.text_model", "gemini-3-flash-preview")
	v.SetDefault("gemini.speech_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("gemini.voice_name", "Kore")
	v.SetDefault("gemini.timeout", 30*time.Second)

	v.SetDefault("speech.mode", "client")
	v.SetDefault("speech.command", "espeak-ng")

	v.SetDefault("symbols.base_url", "https://api.arasaac.org/v1")
	v.SetDefault("symbols.locale", "es")
	v.SetDefault("symbols.timeout", 10*time.Second)
	v.SetDefault("symbols.cache_ttl", 24*time.Hour)
	v.SetDefault("symbols.max_results", 20)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)

	v.SetDefault("cache.sentence_ttl", time.Hour)
	v.SetDefault("cache.keywords_ttl", time.Hour)
	v.SetDefault("cache.cleanup_interval", time.Minute)
	v.SetDefault("cache.local_max_entries", 10000)

	v.SetDefault("events.driver", "")
	v.SetDefault("events.subject", "pictovoz.agent.turns")
	v.SetDefault("events.nats.url", "nats://localhost:4222")
	v.SetDefault("events.nats.max_reconnects", 10)
	v.SetDefault("events.nats.reconnect_wait", 2*time.Second)
	v.SetDefault("events.nats.timeout", 5*time.Second)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.secret_path", "secret/data/gemini")

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "pictovoz")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.sampling.initial", 100)
	v.SetDefault("logging.sampling.thereafter", 100)

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.requests_per_second", 5.0)
	v.SetDefault("rate_limiting.burst", 10)
	v.SetDefault("rate_limiting.idle_ttl", 10*time.Minute)

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)
	v.SetDefault("circuit_breaker.min_requests", 5)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}
