package internal

import (
	"fmt"
	"peer-chat/domain"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config of one chat window. Defaults pair "User 1" listening on 5555 with a
// peer listening on 5556.
type Config struct {
	LocalName         string        `env:"LOCAL_NAME,default=User 1" validate:"required"`
	PeerName          string        `env:"PEER_NAME,default=User 2" validate:"required"`
	ListenHost        string        `env:"LISTEN_HOST"`
	ListenPort        int           `env:"LISTEN_PORT,default=5555" validate:"min=1,max=65535"`
	PeerHost          string        `env:"PEER_HOST,default=localhost" validate:"required"`
	PeerPort          int           `env:"PEER_PORT,default=5556" validate:"min=1,max=65535,nefield=ListenPort"`
	DialTimeout       time.Duration `env:"DIAL_TIMEOUT,default=3s" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	CommandBufferSize int           `env:"COMMAND_BUFFER_SIZE,default=64" validate:"min=1"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES" validate:"omitempty,min=1"`
	DisplayWidth      int           `env:"DISPLAY_WIDTH,default=60" validate:"min=24"`
	Colours           bool          `env:"COLOURS,default=true"`
	LogLevel          string        `env:"LOG_LEVEL,default=WARN" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) SessionConfig() domain.SessionConfig {
	return domain.SessionConfig{
		LocalName:  c.LocalName,
		PeerName:   c.PeerName,
		ListenHost: c.ListenHost,
		ListenPort: c.ListenPort,
		PeerHost:   c.PeerHost,
		PeerPort:   c.PeerPort,
	}
}

// Swapped is the configuration of the other window: names and ports exchanged.
func (c Config) Swapped() Config {
	other := c
	other.LocalName, other.PeerName = c.PeerName, c.LocalName
	other.ListenPort, other.PeerPort = c.PeerPort, c.ListenPort
	return other
}
