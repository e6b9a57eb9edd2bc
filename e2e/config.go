package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_HOST is the interface both sessions listen on
	Host string `envconfig:"E2E_HOST" default:"127.0.0.1"`
	// E2E_DIAL_TIMEOUT bounds every outbound connection
	DialTimeout string `envconfig:"E2E_DIAL_TIMEOUT" default:"2s"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
