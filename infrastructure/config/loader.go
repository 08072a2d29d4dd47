package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"ytmp3/domain/media"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when --config is not given
const DefaultPath = "config/config.yaml"

// DefaultPort is used when neither PORT nor server.port is set
const DefaultPort = 10000

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Download DownloadConfig `yaml:"download"`
	Audio    AudioConfig    `yaml:"audio"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP service settings
type ServerConfig struct {
	Host             string          `yaml:"host"`
	Port             int             `yaml:"port"`
	ScratchDirectory string          `yaml:"scratch_directory"`
	ShutdownTimeout  time.Duration   `yaml:"shutdown_timeout"`
	RateLimit        RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig bounds request throughput. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// DownloadConfig contains external tool and output settings
type DownloadConfig struct {
	OutputDirectory string        `yaml:"output_directory"`
	YtDlpPath       string        `yaml:"ytdlp_path"`
	FFmpegPath      string        `yaml:"ffmpeg_path"`
	Timeout         time.Duration `yaml:"timeout"`
}

// AudioConfig contains audio conversion settings
type AudioConfig struct {
	Bitrate           string `yaml:"bitrate"`
	WriteTags         bool   `yaml:"write_tags"`
	SanitizeFilenames bool   `yaml:"sanitize_filenames"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            DefaultPort,
			ShutdownTimeout: 30 * time.Second,
		},
		Download: DownloadConfig{
			OutputDirectory: media.DefaultOutputDirectory,
		},
		Audio: AudioConfig{
			Bitrate: media.DefaultAudioBitrate,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "cli",
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from the environment
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := getenv("YTMP3_SCRATCH_DIR"); v != "" {
		c.Server.ScratchDirectory = v
	}
	if v := getenv("YTMP3_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Download.Timeout < 0 {
		return fmt.Errorf("download.timeout must not be negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if c.Server.RateLimit.RequestsPerSecond < 0 || c.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("server.rate_limit values must not be negative")
	}
	if _, err := strconv.Atoi(c.Audio.Bitrate); err != nil {
		return fmt.Errorf("audio.bitrate must be a number of kbps, got %q", c.Audio.Bitrate)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
