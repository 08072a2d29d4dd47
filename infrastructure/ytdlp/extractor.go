package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ytmp3/domain/media"

	"github.com/lrstanley/go-ytdlp"
)

// Extractor implements media.Extractor using yt-dlp
type Extractor struct {
	ytdlpPath  string
	ffmpegPath string
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithYtDlpPath sets a custom yt-dlp executable path
func WithYtDlpPath(path string) ExtractorOption {
	return func(e *Extractor) {
		e.ytdlpPath = path
	}
}

// WithFFmpegPath points yt-dlp at a specific ffmpeg binary or its directory
func WithFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		e.ffmpegPath = path
	}
}

// NewExtractor creates a new yt-dlp based extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// command builds a fresh yt-dlp command for one invocation
func (e *Extractor) command(opts media.Options) *ytdlp.Command {
	dl := ytdlp.New().
		Format(opts.Format).
		Output(opts.OutputTemplate)

	if e.ytdlpPath != "" {
		dl = dl.SetExecutable(e.ytdlpPath)
	}
	if e.ffmpegPath != "" {
		dl = dl.FFmpegLocation(e.ffmpegPath)
	}
	if opts.NoPlaylist {
		dl = dl.NoPlaylist()
	}
	if args := opts.ExtractorArgs(); args != "" {
		dl = dl.ExtractorArgs(args)
	}
	if opts.Quiet {
		dl = dl.Quiet().NoWarnings()
	}

	return dl
}

// Probe implements media.Extractor
func (e *Extractor) Probe(ctx context.Context, url string, opts media.Options) (*media.Metadata, error) {
	result, err := e.command(opts).
		SkipDownload().
		PrintJSON().
		Run(ctx, url)
	if err != nil {
		return nil, classify(ctx, "yt-dlp probe", result, err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, media.InternalError("yt-dlp probe", fmt.Errorf("failed to parse metadata: %w", err))
	}
	if len(infos) == 0 {
		return nil, media.ExtractionError("yt-dlp probe", fmt.Errorf("no media found at %s", url))
	}

	info := infos[0]
	meta := &media.Metadata{}
	if info.Title != nil {
		meta.Title = *info.Title
	}
	if info.Duration != nil {
		meta.Duration = int(*info.Duration)
	}

	return meta, nil
}

// Fetch implements media.Extractor
func (e *Extractor) Fetch(ctx context.Context, url string, opts media.Options) error {
	result, err := e.command(opts).
		ExtractAudio().
		AudioFormat(opts.AudioFormat).
		AudioQuality(AudioQuality(opts.AudioBitrate)).
		Run(ctx, url)
	if err != nil {
		return classify(ctx, "yt-dlp fetch", result, err)
	}

	return nil
}

// VerifyInstalled checks that yt-dlp is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	dl := ytdlp.New()
	if e.ytdlpPath != "" {
		dl = dl.SetExecutable(e.ytdlpPath)
	}

	if _, err := dl.Version(ctx); err != nil {
		return fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	return nil
}

// AudioQuality turns a kbps value into yt-dlp's --audio-quality bitrate form.
// Values already carrying a unit are passed through.
func AudioQuality(kbps string) string {
	kbps = strings.TrimSpace(kbps)
	if kbps == "" {
		kbps = media.DefaultAudioBitrate
	}
	switch last := kbps[len(kbps)-1]; last {
	case 'k', 'K':
		return kbps[:len(kbps)-1] + "K"
	}
	return kbps + "K"
}

// classify maps a yt-dlp failure onto the media error kinds.
// Only a process that ran and exited non-zero is yt-dlp refusing the media.
// A cancelled context kills the process, so it is checked first; an exit
// code of -1 means the process never started or died from a signal.
func classify(ctx context.Context, op string, result *ytdlp.Result, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return media.InternalError(op, fmt.Errorf("timed out: %w", ctxErr))
		}
		return media.InternalError(op, fmt.Errorf("cancelled: %w", ctxErr))
	}

	if _, ok := ytdlp.IsExitCodeError(err); ok && result != nil && result.ExitCode > 0 {
		return media.ExtractionError(op, errors.New(stderrMessage(result, err)))
	}

	return media.InternalError(op, err)
}

// stderrMessage picks the most useful line of yt-dlp's stderr
func stderrMessage(result *ytdlp.Result, err error) string {
	if result == nil {
		return err.Error()
	}
	return lastErrorLine(result.Stderr, err.Error())
}

func lastErrorLine(stderr, fallback string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return fallback
}

// Ensure Extractor implements media.Extractor
var _ media.Extractor = (*Extractor)(nil)
