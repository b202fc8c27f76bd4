package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config captures process-level settings. Every field can be set from the
// environment; CLI flags override on top.
type Config struct {
	Log    Log
	Decode Decode
	Audit  Audit
}

// Log controls structured logging.
type Log struct {
	Level  string `env:"CPRCHECK_LOG_LEVEL" envDefault:"warn"`
	Format string `env:"CPRCHECK_LOG_FORMAT" envDefault:"text"`
}

// Decode controls batch decoding and the verification policy.
type Decode struct {
	// Concurrency bounds how many numbers a batch decodes at once.
	Concurrency int `env:"CPRCHECK_CONCURRENCY" envDefault:"8"`
	// StrictChecksum rejects numbers whose control digit does not match.
	// Off by default: numbers without a valid modulus-11 digit are issued.
	StrictChecksum bool `env:"CPRCHECK_STRICT_CHECKSUM" envDefault:"false"`
	// AllowSubstitute accepts provisionally issued (day+60) numbers.
	AllowSubstitute bool `env:"CPRCHECK_ALLOW_SUBSTITUTE" envDefault:"true"`
	// MinimumAge rejects holders younger than this many years; 0 disables it.
	MinimumAge int `env:"CPRCHECK_MINIMUM_AGE" envDefault:"0"`
}

// Audit controls the audit trail.
type Audit struct {
	// OpsSampleRate is the fraction of operational events (batch summaries)
	// kept. Compliance events are never sampled.
	OpsSampleRate float64 `env:"CPRCHECK_AUDIT_OPS_SAMPLE_RATE" envDefault:"1"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that the environment parser cannot.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.Decode.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Decode.Concurrency)
	}
	if c.Audit.OpsSampleRate < 0 || c.Audit.OpsSampleRate > 1 {
		return fmt.Errorf("ops sample rate must be within [0, 1], got %g", c.Audit.OpsSampleRate)
	}
	if c.Decode.MinimumAge < 0 {
		return fmt.Errorf("minimum age must not be negative, got %d", c.Decode.MinimumAge)
	}
	return nil
}
