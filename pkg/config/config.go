// Package config resolves the effective client configuration from layered
// KEY=VALUE environment files and the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys recognized by the resolver.
const (
	KeyAPIKey         = "OPENAI_API_KEY"
	KeyBaseURL        = "OPENAI_BASE_URL"
	KeyModel          = "OPENAI_MODEL"
	KeyTimeoutSeconds = "OPENAI_TIMEOUT_SECONDS"
	KeyLogLevel       = "CHAT_CLI_LOG_LEVEL"
)

const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultModel          = "gpt-3.5-turbo"
	DefaultTimeoutSeconds = 120
	DefaultLogLevel       = "info"
)

// LocalEnvFile is the per-directory override file, resolved relative to
// the working directory.
const LocalEnvFile = ".env"

const appDirName = "chat-cli"

// Config is the effective configuration, immutable after Resolve.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
	LogLevel       string
}

// ConfigurationError reports a fatal configuration problem. The process
// surfaces it with a remediation hint and exits non-zero.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Resolve merges the three configuration sources, lowest to highest
// precedence: the global env file, the local override file, and the
// process environment. Missing files are not an error. Resolve never
// mutates the process environment; given unchanged sources it always
// returns the same Config.
func Resolve(globalPath, localPath string, environ []string) (Config, error) {
	merged := make(map[string]string)

	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		values, err := readEnvFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		for k, v := range values {
			merged[k] = v
		}
	}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		merged[key] = value
	}

	cfg := Config{
		APIKey:         strings.TrimSpace(merged[KeyAPIKey]),
		BaseURL:        strings.TrimSpace(merged[KeyBaseURL]),
		Model:          strings.TrimSpace(merged[KeyModel]),
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       strings.TrimSpace(merged[KeyLogLevel]),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if raw := strings.TrimSpace(merged[KeyTimeoutSeconds]); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return Config{}, &ConfigurationError{
				Reason: fmt.Sprintf("%s must be a non-negative integer, got %q", KeyTimeoutSeconds, raw),
			}
		}
		cfg.TimeoutSeconds = seconds
	}

	return cfg, nil
}

// readEnvFile parses a flat KEY=VALUE file via godotenv. Comment lines and
// blank lines are ignored. A missing file yields an empty map.
func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return godotenv.Read(path)
}

// GlobalConfigPath returns the per-user config file location:
// ~/.config/chat-cli/env on Unix, %AppData%\chat-cli\env on Windows,
// ~/Library/Application Support/chat-cli/env on macOS.
func GlobalConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, "env"), nil
}

// LogPath returns the rotating log file location next to the global config.
func LogPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+appDirName, "logs", "chat_cli.log")
	}
	return filepath.Join(dir, appDirName, "logs", "chat_cli.log")
}

// WriteFile persists the given keys as an env file readable by Resolve.
// The directory is created with owner-only permissions since the file
// carries the API key.
func WriteFile(path string, values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := godotenv.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	content := "# chat-cli configuration\n# Generated by chat-cli --config\n\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
