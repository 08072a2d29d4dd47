package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Verifier checks that the ffmpeg binary yt-dlp transcodes with is present
type Verifier struct {
	ffmpegPath string
	runner     CommandRunner
}

// VerifierOption is a functional option for configuring Verifier
type VerifierOption func(*Verifier)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) VerifierOption {
	return func(v *Verifier) {
		if path != "" {
			v.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) VerifierOption {
	return func(v *Verifier) {
		v.runner = runner
	}
}

// NewVerifier creates a new ffmpeg verifier
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// VerifyInstalled checks that ffmpeg is available and can encode MP3
func (v *Verifier) VerifyInstalled(ctx context.Context) error {
	if _, err := v.runner.Output(ctx, v.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}

	out, err := v.runner.Output(ctx, v.ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		return fmt.Errorf("failed to list ffmpeg encoders: %w", err)
	}
	if !hasEncoder(out, "libmp3lame") {
		return fmt.Errorf("ffmpeg at %s was built without libmp3lame", v.ffmpegPath)
	}

	return nil
}

// Version returns the first line of `ffmpeg -version`
func (v *Verifier) Version(ctx context.Context) (string, error) {
	out, err := v.runner.Output(ctx, v.ffmpegPath, "-version")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

func hasEncoder(listing []byte, name string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
