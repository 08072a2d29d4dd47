package filesystem

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Scratch is a directory owned by exactly one request.
// Release removes it and everything in it; release failures are discarded.
type Scratch struct {
	ID   string
	Path string

	once sync.Once
}

// NewScratch creates a fresh directory under baseDir (os.TempDir when empty).
// id names the owner; a new UUID is used when it is empty.
func NewScratch(baseDir, id string) (*Scratch, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if baseDir != "" {
		if err := os.MkdirAll(baseDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create scratch base directory: %w", err)
		}
	}

	path, err := os.MkdirTemp(baseDir, "ytmp3-"+id+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return &Scratch{ID: id, Path: path}, nil
}

// Release removes the directory. Safe to call more than once.
func (s *Scratch) Release() {
	s.once.Do(func() {
		_ = os.RemoveAll(s.Path)
	})
}
