package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type UIConfig struct {
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

type Config struct {
	UI UIConfig `json:"ui"`
}

func DefaultConfig() Config {
	return Config{
		UI: UIConfig{RefreshIntervalSeconds: 60},
	}
}

func ConfigDir() string {
	if override := os.Getenv("OPENQUOTA_CONFIG_DIR"); override != "" {
		return override
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "openquota")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "openquota")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// CredentialsDir holds one JSON file per provider, each with its own
// provider-specific schema.
func CredentialsDir() string {
	return filepath.Join(ConfigDir(), "credentials")
}

func CredentialPath(providerID string) string {
	return filepath.Join(CredentialsDir(), providerID+".json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.UI.RefreshIntervalSeconds <= 0 {
		cfg.UI.RefreshIntervalSeconds = 60
	}

	return cfg, nil
}
