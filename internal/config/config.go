package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is hearth's runtime configuration.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	TokenPath      string
	LogPath        string
	LogLevel       slog.Level
	RefreshEvery   time.Duration // 0 disables background catalog refresh
}

const (
	defaultConfigPath     = "~/.config/hearth/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8090"
	defaultRequestTimeout = 5 * time.Second
	defaultTokenPath      = "~/.local/state/hearth/token.toml"
	defaultLogPath        = "~/.local/state/hearth/hearth.log"
	defaultRefreshEvery   = 2 * time.Minute

	envFile = ".env"
)

// Environment variables overriding the file. The process environment wins
// over a .env file in the working directory.
const (
	EnvAPIURL         = "HEARTH_API_URL"
	EnvRequestTimeout = "HEARTH_REQUEST_TIMEOUT"
	EnvLogLevel       = "HEARTH_LOG_LEVEL"
	EnvRefreshEvery   = "HEARTH_REFRESH_EVERY"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		TokenPath:      mustExpand(defaultTokenPath),
		LogPath:        mustExpand(defaultLogPath),
		LogLevel:       slog.LevelInfo,
		RefreshEvery:   defaultRefreshEvery,
	}
}

// Load reads the config file at path (the default location when empty),
// falling back to defaults when it is missing, then applies environment
// overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		RequestTimeout string `toml:"request_timeout"`
		TokenPath      string `toml:"token_path"`
		LogPath        string `toml:"log_path"`
		LogLevel       string `toml:"log_level"`
		RefreshEvery   string `toml:"refresh_every"`
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	env, err := loadEnv()
	if err != nil {
		return Config{}, err
	}
	raw.APIURL = env.override(EnvAPIURL, raw.APIURL)
	raw.RequestTimeout = env.override(EnvRequestTimeout, raw.RequestTimeout)
	raw.LogLevel = env.override(EnvLogLevel, raw.LogLevel)
	raw.RefreshEvery = env.override(EnvRefreshEvery, raw.RefreshEvery)

	cfg := Default()
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse request_timeout %q: must be a positive duration", v)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.RefreshEvery); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("parse refresh_every %q: must be a duration >= 0", v)
		}
		cfg.RefreshEvery = d
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
	}
	if v := strings.TrimSpace(raw.TokenPath); v != "" {
		cfg.TokenPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	return cfg, nil
}

// DefaultPath returns the expanded default config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// PrefsPath returns the UI preferences file, kept next to the config file.
func PrefsPath() string {
	return filepath.Join(filepath.Dir(DefaultPath()), "prefs.toml")
}

type envSource map[string]string

func loadEnv() (envSource, error) {
	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return envSource{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}
	return values, nil
}

func (e envSource) override(key, current string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	if v, ok := e[key]; ok {
		return v
	}
	return current
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
