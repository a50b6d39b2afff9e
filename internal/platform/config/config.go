package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "ansitzplaner/internal/platform/errors"
)

const (
	RemoteModeGRPC   = "grpc"
	RemoteModePlugin = "plugin"

	fileName = "config.yaml"
)

type Config struct {
	DataDir           string             `yaml:"-"`
	DBPath            string             `yaml:"db_path"`
	ActiveSessionPath string             `yaml:"active_session_path"`
	PreferencesPath   string             `yaml:"preferences_path"`
	JournalDir        string             `yaml:"journal_dir"`
	LogLevel          string             `yaml:"log_level"`
	LogJSON           bool               `yaml:"log_json"`
	HunterID          string             `yaml:"hunter_id"`
	HTTPAddr          string             `yaml:"http_addr"`
	Remote            RemoteConfig       `yaml:"remote"`
	Weather           WeatherConfig      `yaml:"weather"`
	Connectivity      ConnectivityConfig `yaml:"connectivity"`
}

type RemoteConfig struct {
	Mode        string        `yaml:"mode"`
	Address     string        `yaml:"address"`
	PluginDir   string        `yaml:"plugin_dir"`
	PluginName  string        `yaml:"plugin_name"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	ServerDB    string        `yaml:"server_db"`
}

type WeatherConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timezone    string        `yaml:"timezone"`
	CurrentTTL  time.Duration `yaml:"current_ttl"`
	ForecastTTL time.Duration `yaml:"forecast_ttl"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

type ConnectivityConfig struct {
	ProbeInterval time.Duration `yaml:"probe_interval"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
}

// New returns the defaults for a data directory.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:           dataDir,
		DBPath:            filepath.Join(dataDir, "ansitzplaner.db"),
		ActiveSessionPath: filepath.Join(dataDir, "active-session.json"),
		PreferencesPath:   filepath.Join(dataDir, "preferences.json"),
		JournalDir:        filepath.Join(dataDir, "journal"),
		LogLevel:          "info",
		HTTPAddr:          "127.0.0.1:8087",
		Remote: RemoteConfig{
			Mode:        RemoteModeGRPC,
			Address:     "127.0.0.1:7443",
			PluginDir:   filepath.Join(dataDir, "drivers"),
			CallTimeout: 5 * time.Second,
			ServerDB:    filepath.Join(dataDir, "remote.db"),
		},
		Weather: WeatherConfig{
			BaseURL:     "https://api.open-meteo.com/v1/forecast",
			Timezone:    "Europe/Berlin",
			CurrentTTL:  15 * time.Minute,
			ForecastTTL: time.Hour,
			HTTPTimeout: 10 * time.Second,
		},
		Connectivity: ConnectivityConfig{
			ProbeInterval: 10 * time.Second,
			ProbeTimeout:  2 * time.Second,
		},
	}, nil
}

// Load layers <dataDir>/config.yaml, then .env, then ANSITZ_* environment
// variables over the defaults.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.loadFile(filepath.Join(dataDir, fileName)); err != nil {
		return Config{}, err
	}
	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ANSITZ_LOG_LEVEL":     &c.LogLevel,
		"ANSITZ_HUNTER_ID":     &c.HunterID,
		"ANSITZ_HTTP_ADDR":     &c.HTTPAddr,
		"ANSITZ_REMOTE_MODE":   &c.Remote.Mode,
		"ANSITZ_REMOTE_ADDR":   &c.Remote.Address,
		"ANSITZ_REMOTE_PLUGIN": &c.Remote.PluginName,
		"ANSITZ_WEATHER_URL":   &c.Weather.BaseURL,
		"ANSITZ_TIMEZONE":      &c.Weather.Timezone,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	durations := map[string]*time.Duration{
		"ANSITZ_REMOTE_TIMEOUT":  &c.Remote.CallTimeout,
		"ANSITZ_PROBE_INTERVAL":  &c.Connectivity.ProbeInterval,
		"ANSITZ_WEATHER_TIMEOUT": &c.Weather.HTTPTimeout,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", apperrors.ErrInvalidInput, key, v, err)
		}
		*dst = d
	}
	if v, ok := lookup("ANSITZ_LOG_JSON"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: ANSITZ_LOG_JSON=%q", apperrors.ErrInvalidInput, v)
		}
		c.LogJSON = b
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Remote.Mode {
	case RemoteModeGRPC:
		if c.Remote.Address == "" {
			return fmt.Errorf("%w: remote.address is required in grpc mode", apperrors.ErrInvalidInput)
		}
	case RemoteModePlugin:
		if c.Remote.PluginName == "" {
			return fmt.Errorf("%w: remote.plugin_name is required in plugin mode", apperrors.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: remote.mode %q", apperrors.ErrInvalidInput, c.Remote.Mode)
	}
	for name, d := range map[string]time.Duration{
		"remote.call_timeout":         c.Remote.CallTimeout,
		"weather.current_ttl":         c.Weather.CurrentTTL,
		"weather.forecast_ttl":        c.Weather.ForecastTTL,
		"weather.http_timeout":        c.Weather.HTTPTimeout,
		"connectivity.probe_interval": c.Connectivity.ProbeInterval,
		"connectivity.probe_timeout":  c.Connectivity.ProbeTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", apperrors.ErrInvalidInput, name)
		}
	}
	if _, err := time.LoadLocation(c.Weather.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q", apperrors.ErrInvalidInput, c.Weather.Timezone)
	}
	return nil
}
