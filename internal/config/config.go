package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Jobs     JobsConfig     `mapstructure:"jobs"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains all summarization model settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`
}

// JobsConfig contains settings for the background job subsystem.
type JobsConfig struct {
	// MaxBatchSize caps how many video URLs one request may submit.
	MaxBatchSize int `mapstructure:"max_batch_size" validate:"required,gt=0"`

	// RetentionHours is how long finished or abandoned job records are
	// kept before the janitor evicts them.
	RetentionHours int `mapstructure:"retention_hours" validate:"required,gt=0"`

	// JanitorSchedule is a five-field cron expression controlling when
	// eviction sweeps run.
	JanitorSchedule string `mapstructure:"janitor_schedule" validate:"required"`

	// NotifyTimeoutSeconds bounds a single webhook delivery attempt.
	NotifyTimeoutSeconds int `mapstructure:"notify_timeout_seconds" validate:"required,gt=0"`

	// DefaultWebhookURL is used when a processing request does not supply
	// its own callback address. Optional.
	DefaultWebhookURL string `mapstructure:"default_webhook_url" validate:"omitempty,url"`

	// EstimatedMinutesPerVideo feeds the duration estimate returned at
	// submission time.
	EstimatedMinutesPerVideo int `mapstructure:"estimated_minutes_per_video" validate:"required,gt=0"`
}
