package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"ytmp3/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration values",
	Long: `Show and change values in the configuration file using dotted keys.

Examples:
  ytmp3 config show
  ytmp3 config show server.port
  ytmp3 config set server.port 8080
  ytmp3 config set download.timeout 5m`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:     "show [key]",
	Aliases: []string{"list", "get"},
	Short:   "Show configuration values",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := GetFileConfig()
	if err != nil {
		return err
	}

	key := ""
	if len(args) == 1 {
		key = args[0]
	}
	return RunConfigShowWithDependencies(cfg, cfgFile, key, DefaultOutput)
}

// RunConfigShowWithDependencies prints one key, or every key when key is empty
func RunConfigShowWithDependencies(cfg *config.Config, configPath, key string, out OutputWriter) error {
	mgr := config.NewManager(cfg, configPath)

	if key != "" {
		v, err := mgr.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, e := range mgr.List() {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value)
	}
	return w.Flush()
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the config file.

The value is validated before anything is written.

Examples:
  ytmp3 config set server.port 8080
  ytmp3 config set audio.write_tags true
  ytmp3 config set server.rate_limit.requests_per_second 2`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := GetFileConfig()
	if err != nil {
		return err
	}

	return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewManager(cfg, configPath)

	if err := mgr.Set(key, value); err != nil {
		return err
	}

	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}
