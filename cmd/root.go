package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"ytmp3/infrastructure/config"
	"ytmp3/infrastructure/logging"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X ytmp3/cmd.Version=..."
var Version = "dev"

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "ytmp3 <url> [output_directory]",
	Short: "Download the audio of a video as MP3",
	Long: `ytmp3 downloads the best available audio stream of a video and converts it
to a 192kbps MP3 using yt-dlp and ffmpeg.

Run it with a URL to save the MP3 into a local directory (default "downloads"),
or run "ytmp3 serve" to expose the same conversion over HTTP.

Example:
  ytmp3 https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ytmp3 https://www.youtube.com/watch?v=dQw4w9WgXcQ my_music`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDownload,
}

// Execute runs the root command and exits 1 on any failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.Is(err, ErrUsage) && !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	if cfgErr = config.LoadDotEnv(); cfgErr != nil {
		return
	}
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetFileConfig returns the configuration as stored in the config file.
// A missing config file is not an error; defaults are used.
func GetFileConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", cfgFile, cfgErr)
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// GetConfig returns the file configuration with environment overrides applied.
// The stored configuration is not modified.
func GetConfig() (*config.Config, error) {
	fileCfg, err := GetFileConfig()
	if err != nil {
		return nil, err
	}

	effective := *fileCfg
	if err := effective.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return &effective, nil
}

// newLogger builds the process logger from the log section of cfg
func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, w)
	if err != nil {
		return nil, fmt.Errorf("invalid log configuration: %w", err)
	}
	return logger, nil
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// reportedError wraps an error whose diagnostic has already been written
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
