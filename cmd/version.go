package cmd

import (
	"context"
	"fmt"
	"os"

	"ytmp3/infrastructure/ffmpeg"

	"github.com/spf13/cobra"
)

// VersionReporter reports the version of an external tool
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		verifier := ffmpeg.NewVerifier(ffmpeg.WithFFmpegPath(cfg.Download.FFmpegPath))
		return RunVersionWithDependencies(cmd.Context(), verifier, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// RunVersionWithDependencies prints the ytmp3 version and, when available, the ffmpeg version
func RunVersionWithDependencies(ctx context.Context, ffmpegVersion VersionReporter, out OutputWriter) error {
	fmt.Fprintf(out, "ytmp3 %s\n", Version)

	v, err := ffmpegVersion.Version(ctx)
	if err != nil {
		fmt.Fprintf(out, "ffmpeg: not available (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "%s\n", v)
	return nil
}
