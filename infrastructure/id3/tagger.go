package id3

import (
	"fmt"

	"ytmp3/domain/media"

	"github.com/bogem/id3v2"
)

// Tagger implements media.Tagger by writing ID3v2.3 frames
type Tagger struct{}

// NewTagger creates a new ID3 tagger
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag writes the media title and length into the MP3 at path
func (t *Tagger) Tag(path string, meta media.Metadata) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("id3 open error: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(3)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(meta.Title)
	if meta.Duration > 0 {
		// TLEN is in milliseconds
		tag.AddTextFrame(tag.CommonID("Length"), id3v2.EncodingUTF8, fmt.Sprintf("%d", meta.Duration*1000))
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("id3 save error: %w", err)
	}
	return nil
}

// Ensure Tagger implements media.Tagger
var _ media.Tagger = (*Tagger)(nil)
