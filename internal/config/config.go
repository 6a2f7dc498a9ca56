// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Browse  BrowseConfig
	Watcher WatcherConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `validate:"required,oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `validate:"required,oneof=debug info warn error"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        `validate:"required,numeric"`
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	// AllowedOrigins lists CORS origins permitted to call the API.
	// The desktop shell's webview origin goes here; "*" is fine in development.
	AllowedOrigins []string `validate:"min=1"`
}

// BrowseConfig holds directory listing configuration.
type BrowseConfig struct {
	// PreviewLength is the maximum number of characters in a file preview.
	PreviewLength int `validate:"gt=0"`
}

// WatcherConfig holds filesystem watcher configuration.
type WatcherConfig struct {
	// Paths are optional roots armed at startup, before any GUI request.
	Paths []string
	// EventBuffer is the capacity of the change event channel.
	EventBuffer int `validate:"gt=0"`
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return LoadConfigFromArgs(os.Args[1:])
}

// flagValues holds parsed command-line flag values.
type flagValues struct {
	env            *string
	logLevel       *string
	serverPort     *string
	readTimeout    *string
	writeTimeout   *string
	idleTimeout    *string
	allowedOrigins *string
	previewLength  *string
	watchPaths     *string
	eventBuffer    *string
	envFile        *string
}

// LoadConfigFromArgs is LoadConfig with explicit arguments.
// A dedicated FlagSet keeps tests isolated from the process-global flag.CommandLine.
func LoadConfigFromArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("filedeck", flag.ContinueOnError)

	v := &flagValues{
		env:            fs.String("env", "", "Environment (development, staging, production)"),
		logLevel:       fs.String("log-level", "", "Log level (debug, info, warn, error)"),
		serverPort:     fs.String("port", "", "Server port (default: 8080)"),
		readTimeout:    fs.String("read-timeout", "", "HTTP read timeout (default: 15s)"),
		writeTimeout:   fs.String("write-timeout", "", "HTTP write timeout (default: 15s)"),
		idleTimeout:    fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)"),
		allowedOrigins: fs.String("allowed-origins", "", "Comma-separated CORS origins"),
		previewLength:  fs.String("preview-length", "", "Max characters in a file preview (default: 100)"),
		watchPaths:     fs.String("watch-paths", "", "Comma-separated paths to watch at startup"),
		eventBuffer:    fs.String("event-buffer", "", "Change event channel capacity (default: 100)"),
		envFile:        fs.String("env-file", ".env", "Path to .env file"),
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return loadFromFlagValues(v)
}

// loadFromFlagValues builds the config from parsed flags plus env and defaults.
func loadFromFlagValues(v *flagValues) (*Config, error) {
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*v.envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*v.env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*v.logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*v.serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: getListConfigValue(*v.allowedOrigins, "ALLOWED_ORIGINS", []string{"*"}),
		},
		Browse: BrowseConfig{
			PreviewLength: getIntConfigValue(*v.previewLength, "PREVIEW_LENGTH", 100),
		},
		Watcher: WatcherConfig{
			Paths:       getListConfigValue(*v.watchPaths, "WATCH_PATHS", nil),
			EventBuffer: getIntConfigValue(*v.eventBuffer, "EVENT_BUFFER", 100),
		},
	}

	// Parse server timeouts.
	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*v.readTimeout, "SERVER_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*v.writeTimeout, "SERVER_WRITE_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*v.idleTimeout, "SERVER_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid value for %s (%s)", e.Namespace(), e.Tag())
		}
		return err
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue returns a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey string, defaultValue time.Duration) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(strValue)
}

// getListConfigValue returns a comma-separated list from flag, env var, or default.
func getListConfigValue(flagValue, envKey string, defaultValue []string) []string {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	parts := strings.Split(strValue, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
