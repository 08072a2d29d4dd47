package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appdownload "ytmp3/application/download"
	"ytmp3/domain/media"
	"ytmp3/infrastructure/config"
	"ytmp3/infrastructure/filesystem"
	"ytmp3/infrastructure/ytdlp"

	"github.com/spf13/cobra"
)

// ErrUsage is returned when the command line is missing the URL
var ErrUsage = errors.New("usage error")

const separator = "------------------------------------------------------------"

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	extractor := ytdlp.NewExtractor(
		ytdlp.WithYtDlpPath(cfg.Download.YtDlpPath),
		ytdlp.WithFFmpegPath(cfg.Download.FFmpegPath),
	)
	fileChecker := filesystem.NewChecker()

	return RunDownloadWithDependencies(
		cmd.Context(),
		extractor,
		fileChecker,
		cfg,
		args,
		os.Stdout,
		os.Stderr,
	)
}

// printUsage writes the command synopsis and two example invocations
func printUsage(out OutputWriter) {
	fmt.Fprintln(out, "Usage: ytmp3 <url> [output_directory]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  ytmp3 https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	fmt.Fprintln(out, "  ytmp3 https://www.youtube.com/watch?v=dQw4w9WgXcQ my_music")
}

// RunDownloadWithDependencies runs the download command with injected dependencies (for testing).
// args are the positional arguments: the URL and an optional output directory.
func RunDownloadWithDependencies(
	ctx context.Context,
	extractor media.Extractor,
	fileChecker media.FileChecker,
	cfg *config.Config,
	args []string,
	out OutputWriter,
	errOut OutputWriter,
) error {
	outputDir := cfg.Download.OutputDirectory
	if outputDir == "" {
		outputDir = media.DefaultOutputDirectory
	}
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		outputDir = args[1]
	}

	var rawURL string
	if len(args) > 0 {
		rawURL = args[0]
	}

	req, err := media.NewDownloadRequest(rawURL, outputDir)
	if err != nil {
		printUsage(out)
		return ErrUsage
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return report(errOut, media.InternalError("create output directory", err))
	}

	absDir, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return report(errOut, media.InternalError("resolve output directory", err))
	}

	service := appdownload.NewService(
		extractor,
		fileChecker,
		appdownload.WithQuiet(false),
		appdownload.WithBitrate(cfg.Audio.Bitrate),
		appdownload.WithTimeout(cfg.Download.Timeout),
	)

	fmt.Fprintf(out, "Downloading: %s\n", req.SourceURL)
	fmt.Fprintf(out, "Output directory: %s\n", absDir)
	fmt.Fprintln(out, separator)

	meta, err := service.Probe(ctx, req.SourceURL)
	if err != nil {
		return report(errOut, err)
	}

	fmt.Fprintf(out, "Title: %s\n", meta.Title)
	fmt.Fprintf(out, "Duration: %s\n", meta.FormattedDuration())
	fmt.Fprintln(out, separator)

	if _, err := service.Fetch(ctx, req.SourceURL, req.OutputDir, meta.Title); err != nil {
		return report(errOut, err)
	}

	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, "✓ Download complete!")
	fmt.Fprintf(out, "Saved to: %s\n", absDir)
	return nil
}

// report writes a one-line diagnostic for err and marks it as reported
func report(errOut OutputWriter, err error) error {
	if media.KindOf(err) == media.KindExtraction {
		fmt.Fprintf(errOut, "Error: download failed - %s\n", media.Cause(err))
	} else {
		fmt.Fprintf(errOut, "Error: an unexpected error occurred - %v\n", err)
	}
	return &reportedError{err: err}
}
