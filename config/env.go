package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. MTCOLLECT_API_KEY.
const EnvPrefix = "MTCOLLECT"

// Env holds settings taken from the environment.
type Env struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	APIKey      string `envconfig:"API_KEY"`
}

// LoadEnv loads the given dotenv files when they exist, then reads the
// environment. Variables already set take precedence over dotenv values.
func LoadEnv(dotenvFiles ...string) (*Env, error) {
	for _, path := range dotenvFiles {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
