package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

var ErrUnknownStorage = errors.New("unknown storage")

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    string        `yaml:"storage" env:"STORAGE" env-default:"redis"`
	RoundTTL   time.Duration `yaml:"round-ttl" env:"ROUND_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the config file, or only the environment when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	default:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if config.Storage != StorageRedis && config.Storage != StorageMemory {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, config.Storage)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// ParseLogLevel - maps the log-level setting to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
