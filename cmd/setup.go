package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ytmp3/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through the service port, the directories used for
downloads and scratch space, and the locations of yt-dlp and ffmpeg.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(filepath.Base(configPath)+" already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to ytmp3 setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	if err := promptDownload(prompter, cfg); err != nil {
		return err
	}

	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	port, err := prompter.Input("Port for the HTTP service?", strconv.Itoa(cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("port must be a number, got %q", port)
		}
		cfg.Server.Port = n
	}

	scratch, err := prompter.Input("Scratch directory for in-flight downloads? (empty for system temp)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Server.ScratchDirectory = scratch

	return nil
}

func promptDownload(prompter Prompter, cfg *config.Config) error {
	output, err := prompter.Input("Where should the CLI save MP3 files?", cfg.Download.OutputDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if output != "" {
		cfg.Download.OutputDirectory = output
	}

	ytdlpPath, err := prompter.Input("Path to yt-dlp? (empty to search PATH)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Download.YtDlpPath = ytdlpPath

	ffmpegPath, err := prompter.Input("Path to ffmpeg? (empty to search PATH)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Download.FFmpegPath = ffmpegPath

	timeout, err := prompter.Input("Maximum time per download? (0 for no limit)", "0s")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", timeout, err)
		}
		cfg.Download.Timeout = d
	}

	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	tags, err := prompter.Confirm("Write the title into ID3 tags of served files?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Audio.WriteTags = tags

	sanitize, err := prompter.Confirm("Use sanitized ASCII filenames for served files?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Audio.SanitizeFilenames = sanitize

	return nil
}
