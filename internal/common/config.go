package common

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Engine   EngineConfig
	Mail     MailConfig
	Pipeline PipelineConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds the trigger ingress configuration
type ServerConfig struct {
	Addr string
}

// EngineConfig holds translation-engine configuration
type EngineConfig struct {
	Provider       string // "anthropic" or "gemini"
	APIKey         string
	BaseURL        string
	TranslateModel string
	EditorialModel string
	MaxTokens      int
	Timeout        time.Duration
}

// MailConfig holds transactional-email configuration
type MailConfig struct {
	APIKey        string
	From          string
	OperatorEmail string
}

// PipelineConfig holds job-execution configuration
type PipelineConfig struct {
	BaseURL      string // public app URL used to build download links
	Workers      int
	QueueSize    int
	JobTimeout   time.Duration
	StepAttempts int
}

// LoadConfig reads configuration from an optional booklingua.yaml and from
// environment variables (BOOKLINGUA_ prefix, dots mapped to underscores).
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("booklingua")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.booklingua")
	v.SetEnvPrefix("booklingua")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_conns", 20)
	v.SetDefault("db.min_conns", 5)
	v.SetDefault("db.max_conn_lifetime", 30*time.Minute)
	v.SetDefault("db.max_conn_idle_time", 5*time.Minute)
	v.SetDefault("db.dial_timeout", 3*time.Second)
	v.SetDefault("db.statement_timeout", time.Duration(0))

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("engine.provider", "anthropic")
	v.SetDefault("engine.api_key", "")
	v.SetDefault("engine.base_url", "")
	v.SetDefault("engine.translate_model", "claude-sonnet-4-20250514")
	v.SetDefault("engine.editorial_model", "claude-opus-4-20250514")
	v.SetDefault("engine.max_tokens", 100000)
	v.SetDefault("engine.timeout", 15*time.Minute)

	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.from", "BookLingua <orders@booklingua.com>")
	v.SetDefault("mail.operator_email", "")

	v.SetDefault("pipeline.base_url", "https://booklingua.com")
	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.queue_size", 256)
	v.SetDefault("pipeline.job_timeout", 2*time.Hour)
	v.SetDefault("pipeline.step_attempts", 3)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, WrapError(err, "read config file")
		}
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:           v.GetString("db.driver"),
			DSN:              v.GetString("db.dsn"),
			MaxConns:         v.GetInt32("db.max_conns"),
			MinConns:         v.GetInt32("db.min_conns"),
			MaxConnLifetime:  v.GetDuration("db.max_conn_lifetime"),
			MaxConnIdleTime:  v.GetDuration("db.max_conn_idle_time"),
			DialTimeout:      v.GetDuration("db.dial_timeout"),
			StatementTimeout: v.GetDuration("db.statement_timeout"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Engine: EngineConfig{
			Provider:       v.GetString("engine.provider"),
			APIKey:         v.GetString("engine.api_key"),
			BaseURL:        v.GetString("engine.base_url"),
			TranslateModel: v.GetString("engine.translate_model"),
			EditorialModel: v.GetString("engine.editorial_model"),
			MaxTokens:      v.GetInt("engine.max_tokens"),
			Timeout:        v.GetDuration("engine.timeout"),
		},
		Mail: MailConfig{
			APIKey:        v.GetString("mail.api_key"),
			From:          v.GetString("mail.from"),
			OperatorEmail: v.GetString("mail.operator_email"),
		},
		Pipeline: PipelineConfig{
			BaseURL:      v.GetString("pipeline.base_url"),
			Workers:      v.GetInt("pipeline.workers"),
			QueueSize:    v.GetInt("pipeline.queue_size"),
			JobTimeout:   v.GetDuration("pipeline.job_timeout"),
			StepAttempts: v.GetInt("pipeline.step_attempts"),
		},
	}, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "db.dsn is required", ErrInvalidInput)
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return NewAppError("CONFIG_ERROR", "db.driver must be postgres or sqlite", ErrInvalidInput)
	}
	if c.Engine.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "engine.api_key is required", ErrInvalidInput)
	}
	if c.Engine.Provider != "anthropic" && c.Engine.Provider != "gemini" {
		return NewAppError("CONFIG_ERROR", "engine.provider must be anthropic or gemini", ErrInvalidInput)
	}
	if c.Mail.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "mail.api_key is required", ErrInvalidInput)
	}
	if c.Mail.OperatorEmail == "" {
		return NewAppError("CONFIG_ERROR", "mail.operator_email is required", ErrInvalidInput)
	}
	if c.Pipeline.StepAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "pipeline.step_attempts must be at least 1", ErrInvalidInput)
	}
	return nil
}
