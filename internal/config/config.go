package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Email     EmailConfig     `mapstructure:"email"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port       int    `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig contains Redis connection options (asynq transport and the
// discovery completion notify channel).
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr renders the host:port address expected by go-redis and asynq.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LLMConfig contains the generative-text collaborator settings. An empty API
// key disables cover-letter generation without preventing boot.
type LLMConfig struct {
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// EmailConfig contains the SMTP gateway settings. An empty host disables
// delivery: queued emails are marked failed with an explanatory error.
type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	Sender       string `mapstructure:"sender"`
}

// DiscoveryConfig tunes the search fan-out.
type DiscoveryConfig struct {
	AdapterTimeoutSeconds int    `mapstructure:"adapter_timeout_seconds"`
	RescanHours           int    `mapstructure:"rescan_hours"` // 0 disables the cron rescan
	UserAgent             string `mapstructure:"user_agent"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origin", "*")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "jobagent")
	v.SetDefault("database.user", "jobagent")
	v.SetDefault("database.password", "jobagent")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("discovery.adapter_timeout_seconds", 30)
	v.SetDefault("discovery.rescan_hours", 0)
	v.SetDefault("discovery.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                          "API_PORT",
		"api.cors_origin":                   "CORS_ORIGIN",
		"database.host":                     "DATABASE_HOST",
		"database.port":                     "DATABASE_PORT",
		"database.name":                     "POSTGRES_DB",
		"database.user":                     "POSTGRES_USER",
		"database.password":                 "POSTGRES_PASSWORD",
		"database.sslmode":                  "DATABASE_SSLMODE",
		"redis.host":                        "REDIS_HOST",
		"redis.port":                        "REDIS_PORT",
		"llm.gemini_api_key":                "GEMINI_API_KEY",
		"llm.model":                         "GEMINI_MODEL",
		"llm.timeout_seconds":               "LLM_TIMEOUT_SECONDS",
		"email.smtp_host":                   "SMTP_HOST",
		"email.smtp_port":                   "SMTP_PORT",
		"email.smtp_username":               "SMTP_USERNAME",
		"email.smtp_password":               "SMTP_PASSWORD",
		"email.sender":                      "SENDER_EMAIL",
		"discovery.adapter_timeout_seconds": "DISCOVERY_ADAPTER_TIMEOUT_SECONDS",
		"discovery.rescan_hours":            "DISCOVERY_RESCAN_HOURS",
		"discovery.user_agent":              "DISCOVERY_USER_AGENT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm timeout must be positive")
	}
	if cfg.Email.SMTPHost != "" && cfg.Email.Sender == "" {
		return errors.New("sender email is required when smtp host is set")
	}
	if cfg.Discovery.AdapterTimeoutSeconds <= 0 {
		return errors.New("discovery adapter timeout must be positive")
	}
	if cfg.Discovery.RescanHours < 0 {
		return errors.New("discovery rescan hours must not be negative")
	}
	return nil
}
