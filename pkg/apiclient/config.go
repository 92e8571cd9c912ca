package apiclient

import (
	"fmt"
	"time"

	playground "github.com/go-playground/validator/v10"
)

// Environment names accepted by Config.Environment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds the client settings. It can be filled from the environment
// with config.Load, where GUARD_SIGN_REQUESTS defaults to true. A Config
// built in code has SignRequests false unless it is set explicitly or the
// struct starts from DefaultConfig.
type Config struct {
	BaseURL         string        `env:"GUARD_API_BASE_URL" validate:"omitempty,http_url"`
	Environment     string        `env:"GUARD_ENV" envDefault:"development" validate:"oneof=development staging production test"`
	Timeout         time.Duration `env:"GUARD_API_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	SignRequests    bool          `env:"GUARD_SIGN_REQUESTS" envDefault:"true"`
	LoginPath       string        `env:"GUARD_LOGIN_PATH" envDefault:"/login" validate:"required"`
	UserAgent       string        `env:"GUARD_USER_AGENT" envDefault:"guard-client/1.0"`
	RateLimitMax    int           `env:"GUARD_RATE_LIMIT_MAX" envDefault:"10" validate:"gt=0"`
	RateLimitWindow time.Duration `env:"GUARD_RATE_LIMIT_WINDOW" envDefault:"60s" validate:"gt=0"`
}

// DefaultConfig returns the settings used for zero fields.
func DefaultConfig() Config {
	return Config{
		Environment:     EnvDevelopment,
		Timeout:         30 * time.Second,
		SignRequests:    true,
		LoginPath:       "/login",
		UserAgent:       "guard-client/1.0",
		RateLimitMax:    10,
		RateLimitWindow: time.Minute,
	}
}

// IsProduction reports whether plain-http requests must be refused.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

var configValidator = playground.New()

// withDefaults fills zero fields from DefaultConfig. SignRequests is left as
// given because false is a meaningful choice.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Environment == "" {
		c.Environment = d.Environment
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.LoginPath == "" {
		c.LoginPath = d.LoginPath
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.RateLimitMax == 0 {
		c.RateLimitMax = d.RateLimitMax
	}
	if c.RateLimitWindow == 0 {
		c.RateLimitWindow = d.RateLimitWindow
	}
	return c
}
