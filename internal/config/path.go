package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that selects the config file.
const EnvConfigPath = "OVERLAYD_CONFIG"

const (
	configDirName  = "overlayd"
	configFileName = "config.yaml"
)

// DefaultPath returns %LOCALAPPDATA%\overlayd\config.yaml, next to the log
// file.
func DefaultPath() string {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
	}

	return filepath.Join(localAppData, configDirName, configFileName)
}

// GetConfigPath returns the config file to load.
// It checks the OVERLAYD_CONFIG environment variable first,
// falling back to the default location if not set.
func GetConfigPath() string {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return envPath
	}

	return DefaultPath()
}
