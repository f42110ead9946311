package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	apiURLVar      = "API_URL"
	corsOriginsVar = "CORS_ORIGINS"
	sessionFileVar = "SESSION_FILE"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3001")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Issue Workspace")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetAPIURL is the backend origin. Empty means the exchange runs in-process.
func (EnvVars) GetAPIURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, ""), "/")
}

// GetSessionFile is where terminal clients keep their session.
func (EnvVars) GetSessionFile() string {
	if f := GetEnv(sessionFileVar, ""); f != "" {
		return f
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "issue-workspace", "session.json")
}

func GetEnv(envVar, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(envVar))
	if value == "" {
		return defaultValue
	}
	return value
}
