package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appdownload "ytmp3/application/download"
	"ytmp3/domain/media"
	"ytmp3/infrastructure/config"
	"ytmp3/infrastructure/ffmpeg"
	"ytmp3/infrastructure/filesystem"
	"ytmp3/infrastructure/httpapi"
	"ytmp3/infrastructure/id3"
	"ytmp3/infrastructure/ytdlp"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

const preflightTimeout = 10 * time.Second

// InstallVerifier checks that an external tool is available
type InstallVerifier interface {
	VerifyInstalled(ctx context.Context) error
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP download service",
	Long: `Start the HTTP service.

Routes:
  GET /                 service description and usage
  GET /download?url=    convert the video at url and return it as an MP3 attachment
  GET /health           liveness probe

The listen port is taken from the PORT environment variable, then server.port
in the config file, then 10000. Every download runs in its own scratch
directory which is removed once the response has been sent.

Example:
  PORT=8080 ytmp3 serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor := ytdlp.NewExtractor(
		ytdlp.WithYtDlpPath(cfg.Download.YtDlpPath),
		ytdlp.WithFFmpegPath(cfg.Download.FFmpegPath),
	)
	verifier := ffmpeg.NewVerifier(ffmpeg.WithFFmpegPath(cfg.Download.FFmpegPath))

	return RunServeWithDependencies(
		ctx,
		cfg,
		extractor,
		filesystem.NewChecker(),
		[]InstallVerifier{extractor, verifier},
		logger,
	)
}

// RunServeWithDependencies runs the HTTP service with injected dependencies (for testing).
// It blocks until ctx is cancelled.
func RunServeWithDependencies(
	ctx context.Context,
	cfg *config.Config,
	extractor media.Extractor,
	fileChecker media.FileChecker,
	verifiers []InstallVerifier,
	logger log.Interface,
) error {
	for _, v := range verifiers {
		verifyCtx, cancel := context.WithTimeout(ctx, preflightTimeout)
		err := v.VerifyInstalled(verifyCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("preflight check failed: %w", err)
		}
	}

	opts := []appdownload.ServiceOption{
		appdownload.WithQuiet(true),
		appdownload.WithBitrate(cfg.Audio.Bitrate),
		appdownload.WithTimeout(cfg.Download.Timeout),
		appdownload.WithSanitizedFilenames(cfg.Audio.SanitizeFilenames),
		appdownload.WithLogger(logger),
	}
	if cfg.Audio.WriteTags {
		opts = append(opts, appdownload.WithTagger(id3.NewTagger()))
	}
	service := appdownload.NewService(extractor, fileChecker, opts...)

	server := httpapi.New(
		service,
		httpapi.WithLogger(logger),
		httpapi.WithScratchDirectory(cfg.Server.ScratchDirectory),
		httpapi.WithRateLimit(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst),
		httpapi.WithVersion(Version),
	)

	logger.WithFields(log.Fields{
		"bitrate":    cfg.Audio.Bitrate,
		"write_tags": cfg.Audio.WriteTags,
		"scratch":    cfg.Server.ScratchDirectory,
	}).Info("starting ytmp3 service")

	return server.ListenAndServe(ctx, cfg.Addr(), cfg.Server.ShutdownTimeout)
}
