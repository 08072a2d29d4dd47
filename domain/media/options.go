package media

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultFormat selects the best audio-only stream, falling back to the best muxed one
	DefaultFormat = "bestaudio/best"

	// DefaultAudioFormat is the codec produced by post-processing
	DefaultAudioFormat = "mp3"

	// DefaultAudioBitrate is the constant bitrate of the produced MP3, in kbps
	DefaultAudioBitrate = "192"

	// OutputTemplate names files after the media title
	OutputTemplate = "%(title)s.%(ext)s"
)

// Options is the fixed extraction configuration handed to an Extractor.
// Build it with DefaultOptions for every call; it is never shared.
type Options struct {
	Format         string
	AudioFormat    string
	AudioBitrate   string
	OutputTemplate string
	NoPlaylist     bool
	PlayerClients  []string
	SkipProtocols  []string
	Quiet          bool
}

// DefaultOptions returns a fresh configuration writing into outputDir.
func DefaultOptions(outputDir string) Options {
	return Options{
		Format:         DefaultFormat,
		AudioFormat:    DefaultAudioFormat,
		AudioBitrate:   DefaultAudioBitrate,
		OutputTemplate: filepath.Join(outputDir, OutputTemplate),
		NoPlaylist:     true,
		PlayerClients:  []string{"android", "web"},
		SkipProtocols:  []string{"hls", "dash"},
		Quiet:          true,
	}
}

// ExtractorArgs renders the client hints and protocol skip-list in yt-dlp's
// --extractor-args syntax.
func (o Options) ExtractorArgs() string {
	var parts []string
	if len(o.PlayerClients) > 0 {
		parts = append(parts, "player_client="+strings.Join(o.PlayerClients, ","))
	}
	if len(o.SkipProtocols) > 0 {
		parts = append(parts, "skip="+strings.Join(o.SkipProtocols, ","))
	}
	if len(parts) == 0 {
		return ""
	}
	return "youtube:" + strings.Join(parts, ";")
}
