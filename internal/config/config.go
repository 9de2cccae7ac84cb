// Package config loads the engine's single Configuration struct from
// YAML + environment, the same viper/godotenv layering the teacher
// codebase uses for every service.
package config

import (
	"fmt"
	"strings"

	"github.com/ariesone/dme-billing-engine/internal/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration is the one config tree the engine loads at startup. No
// field here changes billing semantics (spec.md is silent on ambient
// wiring); it only parameterizes the adapters in SPEC_FULL.md §2.
type Configuration struct {
	Logging   LoggingConfig   `validate:"required"`
	Postgres  PostgresConfig  `validate:"required"`
	DynamoDB  DynamoDBConfig  `validate:"required"`
	Cache     CacheConfig     `validate:"required"`
	Webhook   WebhookConfig   `validate:"omitempty"`
	Sentry    SentryConfig    `validate:"omitempty"`
	Scheduler SchedulerConfig `validate:"omitempty"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required" default:"info"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required"`
	User                   string `mapstructure:"user" validate:"required"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode" validate:"required" default:"disable"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" default:"5"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" default:"60"`
}

// GetDSN builds the lib/pq-compatible DSN the postgres repository opens.
func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User, c.Password, c.DBName, c.Host, c.Port, c.SSLMode,
	)
}

// DynamoDBConfig gates the durable idempotency store backing.
type DynamoDBConfig struct {
	InUse          bool   `mapstructure:"in_use" default:"false"`
	Region         string `mapstructure:"region"`
	EndpointURL    string `mapstructure:"endpoint_url"` // local dev override (e.g. dynamodb-local)
	IdempotencyTable string `mapstructure:"idempotency_table" default:"dme_billing_idempotency"`
}

// CacheConfig gates the in-process go-cache idempotency/MIR-rule cache.
type CacheConfig struct {
	Enabled         bool `mapstructure:"enabled" default:"true"`
	TTLSeconds      int  `mapstructure:"ttl_seconds" default:"300"`
	CleanupSeconds  int  `mapstructure:"cleanup_seconds" default:"600"`
}

// WebhookConfig points the outbound dispatcher at the external
// inventory/serial-asset system (SPEC_FULL.md §4.I).
type WebhookConfig struct {
	Enabled    bool   `mapstructure:"enabled" default:"false"`
	BaseURL    string `mapstructure:"base_url"`
	AuthToken  string `mapstructure:"auth_token"`
	MaxRetries int    `mapstructure:"max_retries" default:"3"`
}

// SchedulerConfig controls cmd/server's own periodic invoice
// generation batch (RunDueInvoiceGeneration), the scheduled caller of
// the Invoice Generator this binary exists to run.
type SchedulerConfig struct {
	Enabled         bool `mapstructure:"enabled" default:"true"`
	IntervalSeconds int  `mapstructure:"interval_seconds" default:"3600"`
	MaxConcurrency  int  `mapstructure:"max_concurrency" default:"8"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled" default:"false"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" default:"1.0"`
}

// NewConfig loads config.yaml (if present) layered under FLEXPRICE-style
// environment overrides. It does not validate the result; callers run
// Validate separately.
func NewConfig() (*Configuration, error) {
	v := viper.New()

	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("DME_BILLING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate runs struct-tag validation over the loaded configuration.
func (c Configuration) Validate() error {
	return validator.ValidateStruct(c)
}

// GetDefaultConfig returns sane local-dev defaults, used by tests and
// one-off scripts that don't go through NewConfig.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging:  LoggingConfig{Level: "info"},
		Postgres: PostgresConfig{Host: "localhost", Port: 5432, User: "postgres", DBName: "dme_billing", SSLMode: "disable"},
		DynamoDB: DynamoDBConfig{InUse: false, IdempotencyTable: "dme_billing_idempotency"},
		Cache:    CacheConfig{Enabled: true, TTLSeconds: 300, CleanupSeconds: 600},
	}
}
