package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvLocations lists the .env files tried by LoadEnvWithFallback, in order
var EnvLocations = []string{
	".env",
	".env.local",
	"config/.env",
}

// LoadEnv loads environment variables from a .env file.
// Variables already present in the environment keep their value.
func LoadEnv(filename string) error {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := godotenv.Load(filename); err != nil {
		return fmt.Errorf("error loading %s: %w", filename, err)
	}

	Logger().Info("loaded environment file", "file", filename)
	return nil
}

// LoadEnvWithFallback loads the first .env file found in EnvLocations.
// Finding none is not an error.
func LoadEnvWithFallback() error {
	for _, location := range EnvLocations {
		err := LoadEnv(location)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return err
	}

	Logger().Debug("no .env file found, using system environment only")
	return nil
}
