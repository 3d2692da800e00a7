package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"martforge/internal/common"
	"martforge/pkg/models"
)

func GetConfigPath() string {
	// Check for environment variable first
	if configPath := os.Getenv("MARTFORGE_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".martforge")
}

func GetConfigFile() string {
	// Check for environment variable first
	if configFile := os.Getenv("MARTFORGE_CONFIG"); configFile != "" {
		// Validate the path to prevent directory traversal
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			// Fall back to default if invalid
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

func Load() (*models.Config, error) {
	// A local .env can supply MARTFORGE_CONFIG and encryption keys.
	_ = godotenv.Load()

	configFile := GetConfigFile()

	cleanedPath, err := common.CleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
		return &models.Config{}, nil
	}

	data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := DecryptConfigPasswords(&config); err != nil {
		return nil, err
	}
	applyDefaults(&config)
	return &config, nil
}

func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, common.DirPermissionSecure); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := GetConfigFile()

	// Passwords never hit disk in plaintext.
	if err := EncryptConfigPasswords(config); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}

// ResolveEnvironment overlays a named environment onto the warehouse
// settings. An empty name leaves the base warehouse config untouched.
func ResolveEnvironment(config *models.Config, name string) (*models.Warehouse, error) {
	wh := config.Warehouse
	if name == "" {
		return &wh, nil
	}

	for _, env := range config.Environments {
		if env.Name != name {
			continue
		}
		if env.Host != "" {
			wh.Host = env.Host
		}
		if env.Port != 0 {
			wh.Port = env.Port
		}
		if env.Database != "" {
			wh.Database = env.Database
		}
		if env.Username != "" {
			wh.Username = env.Username
		}
		if env.Password != "" {
			wh.Password = env.Password
		}
		if env.SSLMode != "" {
			wh.SSLMode = env.SSLMode
		}
		if env.RawSchema != "" {
			wh.RawSchema = env.RawSchema
		}
		if env.MartsSchema != "" {
			wh.MartsSchema = env.MartsSchema
		}
		if env.Timeout != "" {
			wh.Timeout = env.Timeout
		}
		return &wh, nil
	}

	return nil, fmt.Errorf("environment %q not found in configuration", name)
}

func applyDefaults(config *models.Config) {
	if config.Warehouse.Port == 0 {
		config.Warehouse.Port = 5432
	}
	if config.Warehouse.SSLMode == "" {
		config.Warehouse.SSLMode = "disable"
	}
	if config.Warehouse.RawSchema == "" {
		config.Warehouse.RawSchema = "public"
	}
	if config.Warehouse.MartsSchema == "" {
		config.Warehouse.MartsSchema = "marts"
	}
	if config.Pipeline.Workers == 0 {
		config.Pipeline.Workers = 4
	}
	if config.Pipeline.BatchSize == 0 {
		config.Pipeline.BatchSize = 500
	}
}
