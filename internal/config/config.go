package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/stories-api/shared/mailer"
)

// Config holds every setting the server needs. It is parsed once at startup and
// passed down by pointer; nothing else reads the environment.
type Config struct {
	HTTP    HTTPConfig
	Mongo   MongoConfig
	Token   TokenConfig
	OTP     OTPConfig
	Reset   ResetLimitConfig
	Redis   RedisConfig
	Upload  UploadConfig
	Mailer  mailer.Config
	Logging LoggingConfig
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR"          envDefault:":8000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"  envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"   envDefault:"10s"`
}

type MongoConfig struct {
	URL      string `env:"MONGO_URL"`
	Database string `env:"MONGO_DATABASE" envDefault:"stories"`
}

// TokenConfig configures the bearer tokens issued on sign-in and sign-up.
type TokenConfig struct {
	Secret    string        `env:"JWT_SECRET"`
	Issuer    string        `env:"JWT_ISSUER"     envDefault:"stories-api"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"8h"`
}

// OTPConfig configures the password reset codes.
type OTPConfig struct {
	ExpiresIn time.Duration `env:"OTP_EXPIRES_IN" envDefault:"5m"`
	// RequireVerified makes ResetPassword demand a code that already passed VerifyOTP.
	RequireVerified bool `env:"OTP_REQUIRE_VERIFIED" envDefault:"false"`
}

type ResetLimitConfig struct {
	Limit  int           `env:"RESET_RATE_LIMIT"  envDefault:"5"`
	Window time.Duration `env:"RESET_RATE_WINDOW" envDefault:"15m"`
}

// RedisConfig is optional; an empty Addr disables password reset rate limiting.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR"       envDefault:"public/uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load parses the configuration from environment variables and aborts the
// process when it is incomplete.
func Load(logger *zerolog.Logger) *Config {
	cfg, err := Parse()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	return cfg
}

// Parse parses and validates the configuration from environment variables.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Mongo.URL == "" {
		return errors.New("missing MONGO_URL environment variable")
	}
	if c.Token.Secret == "" {
		return errors.New("missing JWT_SECRET environment variable")
	}
	if c.Token.ExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.OTP.ExpiresIn <= 0 {
		return errors.New("OTP_EXPIRES_IN must be positive")
	}
	if c.Reset.Limit <= 0 || c.Reset.Window <= 0 {
		return errors.New("RESET_RATE_LIMIT and RESET_RATE_WINDOW must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}

	return c.Mailer.Validate()
}
