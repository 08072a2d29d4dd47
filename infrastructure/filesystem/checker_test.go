package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChecker_Exists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Test Song.mp3")
	if err := os.WriteFile(file, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewChecker()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"missing file", filepath.Join(dir, "nope.mp3"), false},
		{"directory is not a file", dir, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Exists(tt.path); got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
