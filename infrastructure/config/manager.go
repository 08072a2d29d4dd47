package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Manager reads and updates individual config entries by dotted key
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new config manager
func NewManager(cfg *Config, configPath string) *Manager {
	return &Manager{
		config:     cfg,
		configPath: configPath,
	}
}

// Entry is one key/value pair of the configuration
type Entry struct {
	Key   string
	Value string
}

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

var fields = map[string]field{
	"server.host": {
		get: func(c *Config) string { return c.Server.Host },
		set: func(c *Config, v string) error { c.Server.Host = v; return nil },
	},
	"server.port": {
		get: func(c *Config) string { return strconv.Itoa(c.Server.Port) },
		set: func(c *Config, v string) error { return setInt(&c.Server.Port, v) },
	},
	"server.scratch_directory": {
		get: func(c *Config) string { return c.Server.ScratchDirectory },
		set: func(c *Config, v string) error { c.Server.ScratchDirectory = v; return nil },
	},
	"server.shutdown_timeout": {
		get: func(c *Config) string { return c.Server.ShutdownTimeout.String() },
		set: func(c *Config, v string) error { return setDuration(&c.Server.ShutdownTimeout, v) },
	},
	"server.rate_limit.requests_per_second": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Server.RateLimit.RequestsPerSecond, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
			}
			c.Server.RateLimit.RequestsPerSecond = f
			return nil
		},
	},
	"server.rate_limit.burst": {
		get: func(c *Config) string { return strconv.Itoa(c.Server.RateLimit.Burst) },
		set: func(c *Config, v string) error { return setInt(&c.Server.RateLimit.Burst, v) },
	},
	"download.output_directory": {
		get: func(c *Config) string { return c.Download.OutputDirectory },
		set: func(c *Config, v string) error { c.Download.OutputDirectory = v; return nil },
	},
	"download.ytdlp_path": {
		get: func(c *Config) string { return c.Download.YtDlpPath },
		set: func(c *Config, v string) error { c.Download.YtDlpPath = v; return nil },
	},
	"download.ffmpeg_path": {
		get: func(c *Config) string { return c.Download.FFmpegPath },
		set: func(c *Config, v string) error { c.Download.FFmpegPath = v; return nil },
	},
	"download.timeout": {
		get: func(c *Config) string { return c.Download.Timeout.String() },
		set: func(c *Config, v string) error { return setDuration(&c.Download.Timeout, v) },
	},
	"audio.bitrate": {
		get: func(c *Config) string { return c.Audio.Bitrate },
		set: func(c *Config, v string) error {
			if _, err := strconv.Atoi(v); err != nil {
				return fmt.Errorf("%w: bitrate %q must be a number of kbps", ErrInvalidValue, v)
			}
			c.Audio.Bitrate = v
			return nil
		},
	},
	"audio.write_tags": {
		get: func(c *Config) string { return strconv.FormatBool(c.Audio.WriteTags) },
		set: func(c *Config, v string) error { return setBool(&c.Audio.WriteTags, v) },
	},
	"audio.sanitize_filenames": {
		get: func(c *Config) string { return strconv.FormatBool(c.Audio.SanitizeFilenames) },
		set: func(c *Config, v string) error { return setBool(&c.Audio.SanitizeFilenames, v) },
	},
	"log.level": {
		get: func(c *Config) string { return c.Log.Level },
		set: func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil },
	},
	"log.format": {
		get: func(c *Config) string { return c.Log.Format },
		set: func(c *Config, v string) error {
			switch v = strings.ToLower(v); v {
			case "cli", "text", "json":
				c.Log.Format = v
				return nil
			}
			return fmt.Errorf("%w: log format %q (use cli, text, or json)", ErrInvalidValue, v)
		},
	},
}

// Keys returns all settable keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key
func (m *Manager) Get(key string) (string, error) {
	f, ok := fields[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.get(m.config), nil
}

// List returns every entry sorted by key
func (m *Manager) List() []Entry {
	keys := Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: fields[k].get(m.config)})
	}
	return entries
}

// Set updates key, validates the result, and saves the file.
// The in-memory config is left unchanged when validation fails.
func (m *Manager) Set(key, value string) error {
	key = normalizeKey(key)
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	updated := *m.config
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a duration", ErrInvalidValue, v)
	}
	*dst = d
	return nil
}
