package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App     App
	Server  Server
	Pricing Pricing
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"trader-market"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
	DataDir string `env:"APP_DATA_DIR" envDefault:"./data" validate:"required"`
}

type Server struct {
	StatusAddress  string `env:"STATUS_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Pricing.normalize(); err != nil {
		return Config{}, fmt.Errorf("pricing.normalize: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("validate.Struct: %w", err)
	}

	return config, nil
}
