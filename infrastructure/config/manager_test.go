package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestManager_GetSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewManager(cfg, path)

	if err := mgr.Set("server.port", "8080"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := mgr.Set("AUDIO.WRITE_TAGS", "true"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := mgr.Set("download.timeout", "5m"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	got, err := mgr.Get("server.port")
	if err != nil || got != "8080" {
		t.Errorf("Get(server.port) = %q, %v; want 8080", got, err)
	}

	// Persisted to disk
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.Server.Port != 8080 || !loaded.Audio.WriteTags || loaded.Download.Timeout.String() != "5m0s" {
		t.Errorf("loaded config = %+v", loaded)
	}
}

func TestManager_SetErrors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"unknown key", "server.colour", "blue", ErrUnknownKey},
		{"non-numeric port", "server.port", "eighty", ErrInvalidValue},
		{"port out of range", "server.port", "99999", ErrInvalidValue},
		{"bad bool", "audio.write_tags", "maybe", ErrInvalidValue},
		{"bad duration", "download.timeout", "soon", ErrInvalidValue},
		{"bad bitrate", "audio.bitrate", "192k", ErrInvalidValue},
		{"bad log format", "log.format", "xml", ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			mgr := NewManager(cfg, filepath.Join(t.TempDir(), "config.yaml"))

			err := mgr.Set(tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set(%q, %q) error = %v, want %v", tt.key, tt.value, err, tt.wantErr)
			}
			if cfg.Server.Port != DefaultPort {
				t.Errorf("config was modified on failure: port = %d", cfg.Server.Port)
			}
		})
	}
}

func TestManager_List(t *testing.T) {
	mgr := NewManager(Default(), "")
	entries := mgr.List()

	if len(entries) != len(Keys()) {
		t.Fatalf("List() returned %d entries, want %d", len(entries), len(Keys()))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key > entries[i].Key {
			t.Fatalf("List() not sorted: %q before %q", entries[i-1].Key, entries[i].Key)
		}
	}
}
