package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// UnknownTitle is used when the extractor reports no title
const UnknownTitle = "Unknown"

// Metadata is what a probe discovers about a media item without downloading it
type Metadata struct {
	Title    string
	Duration int // seconds
}

// FormattedDuration returns the duration as minutes:seconds
func (m Metadata) FormattedDuration() string {
	return FormatDuration(m.Duration)
}

// Result is a finished extraction
type Result struct {
	Title    string
	Duration int
	FilePath string
	FileName string
}

// FormatDuration formats seconds as M:SS
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// OutputFilename returns the MP3 filename for a title
func OutputFilename(title string) string {
	return title + "." + DefaultAudioFormat
}

// OutputPath returns the full MP3 path for a title inside dir
func OutputPath(dir, title string) string {
	return filepath.Join(dir, OutputFilename(title))
}

// SanitizeTitle reduces a title to a filesystem and header safe ASCII name.
// Path separators and other punctuation collapse to underscores.
func SanitizeTitle(title string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range title {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
			lastUnderscore = false
		case r < unicode.MaxASCII:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	name := strings.Trim(b.String(), "._")
	if name == "" {
		return UnknownTitle
	}
	return name
}
