package authstate

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultBaseURL = "http://localhost:4000"
	DefaultTimeout = 10 * time.Second
)

var _ Config = Options{}

// Options is the concrete Config, loadable from the environment.
type Options struct {
	BaseURL                    string        `env:"AUTHSTATE_BASE_URL" envDefault:"http://localhost:4000"`
	Timeout                    time.Duration `env:"AUTHSTATE_TIMEOUT" envDefault:"10s"`
	UserAgent                  string        `env:"AUTHSTATE_USER_AGENT" envDefault:"go-auth-state"`
	Debug                      bool          `env:"AUTHSTATE_DEBUG"`
	ValidatePayloads           bool          `env:"AUTHSTATE_VALIDATE_PAYLOADS"`
	KeepLoadingOnUpdateFailure bool          `env:"AUTHSTATE_KEEP_LOADING_ON_UPDATE_FAILURE"`
}

// LoadConfigFromEnv reads Options from the environment and fills in
// defaults for anything left blank.
func LoadConfigFromEnv() (Options, error) {
	var cfg Options
	if err := env.Parse(&cfg); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.withDefaults(), nil
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

func (o Options) GetBaseURL() string {
	return o.withDefaults().BaseURL
}

func (o Options) GetTimeout() time.Duration {
	return o.withDefaults().Timeout
}

func (o Options) GetUserAgent() string {
	return o.UserAgent
}

func (o Options) GetDebug() bool {
	return o.Debug
}

func (o Options) GetValidatePayloads() bool {
	return o.ValidatePayloads
}

func (o Options) GetKeepLoadingOnUpdateFailure() bool {
	return o.KeepLoadingOnUpdateFailure
}
