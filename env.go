package provstore

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds the client settings parsed from the environment.
// Variables are prefixed with PROVSTORE_, e.g. PROVSTORE_API_KEY.
type EnvConfig struct {
	BaseURL  string        `envconfig:"BASE_URL" default:""`
	Username string        `envconfig:"USERNAME" default:""`
	APIKey   string        `envconfig:"API_KEY" default:""`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// NewFromEnv builds a Client from PROVSTORE_* environment variables. An
// unset PROVSTORE_BASE_URL selects DefaultBaseURL. Explicit options are
// applied after the environment-derived ones and win on conflict.
func NewFromEnv(opts ...Option) (*Client, error) {
	var cfg EnvConfig
	if err := envconfig.Process("PROVSTORE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	all := []Option{
		WithCredentials(cfg.Username, cfg.APIKey),
		WithHTTPTimeout(cfg.Timeout),
	}
	all = append(all, opts...)
	return New(cfg.BaseURL, all...)
}
