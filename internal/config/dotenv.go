package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads variables from the given files, .env by default, without
// overriding ones already set. It only applies outside stage and prod and a
// missing file is not an error.
func LoadDotEnv(files ...string) error {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case EnvStage, EnvProd:
		return nil
	}

	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
