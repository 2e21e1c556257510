package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// config is loaded from the environment.
type config struct {
	Addr             string `env:"FOGTABLE_ADDR" envDefault:":5000"`
	DBPath           string `env:"FOGTABLE_DB_PATH" envDefault:"fogtable.db"`
	UploadDir        string `env:"FOGTABLE_UPLOAD_DIR" envDefault:"uploads"`
	CameraThrottleMS int    `env:"FOGTABLE_CAMERA_THROTTLE_MS" envDefault:"80"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
