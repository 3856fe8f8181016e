package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"claudechat/internal/logger"
)

var dotenvOnce sync.Once

// LoadDotEnv loads a .env file from the working directory if one exists.
// Real environment variables always win over .env values. Safe to call more
// than once; only the first call does work.
func LoadDotEnv() {
	dotenvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			// A missing .env is the normal case.
			logger.Debug("No .env file loaded", "error", err)
			return
		}
		logger.Debug(".env file loaded")
	})
}

// APIKeyForProvider returns the API key for the given provider from the
// environment. Absence is a fatal startup condition for the surrounding
// application, so the error names the variable to set.
func APIKeyForProvider(provider string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("provider cannot be empty")
	}

	LoadDotEnv()

	envVarName := fmt.Sprintf("%s_API_KEY", strings.ToUpper(provider))
	apiKey := os.Getenv(envVarName)
	if apiKey == "" {
		return "", fmt.Errorf("%s API key not found. Please set the %s environment variable",
			provider, envVarName)
	}

	logger.Debug("API key found for provider", "provider", provider, "env_var", envVarName)
	return apiKey, nil
}
