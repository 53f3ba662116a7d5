package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/swipefolio/landing-api/internal/log"
)

const AppEnvKey = "APP_ENV"

// Earlier files win: godotenv.Load never overrides a variable that is already set.
var envFiles = []string{".env.local", ".env"}

var devLikeEnvs = map[string]struct{}{
	"": {}, "dev": {}, "development": {}, "local": {}, "test": {}, "testing": {},
}

// InitializeEnvFile loads .env.local and .env when present. SKIP_DOTENV=true disables it.
func InitializeEnvFile(logger *log.Logger) {
	if skip, _ := strconv.ParseBool(os.Getenv("SKIP_DOTENV")); skip {
		logger.Info("Skipping .env files (SKIP_DOTENV=true)")
		return
	}

	for _, file := range envFiles {
		err := godotenv.Load(file)
		switch {
		case err == nil:
			logger.Info("Environment loaded", "file", file)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("Env file not present", "file", file)
		default:
			logger.Warn("Failed to load env file", "file", file, "error", err.Error())
		}
	}
}

func GetAppEnv() string {
	return normalizeAppEnv(os.Getenv(AppEnvKey))
}

func normalizeAppEnv(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ValidateAutoMigrateAllowed keeps --auto-migrate away from shared environments,
// where the embedded SQL migrations are the source of truth.
func ValidateAutoMigrateAllowed(appEnv string) error {
	env := normalizeAppEnv(appEnv)
	if _, ok := devLikeEnvs[env]; ok {
		return nil
	}
	return fmt.Errorf("--auto-migrate is not allowed when %s=%q; run `cli migrate` instead", AppEnvKey, env)
}
