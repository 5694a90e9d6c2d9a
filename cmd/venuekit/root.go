// Root command for the venuekit CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/internal/logger"
	"github.com/venueforge/venuekit/internal/paths"
	"github.com/venueforge/venuekit/pkg/types"
	"github.com/venueforge/venuekit/pkg/venuekit"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagYes       bool
	flagDebug     bool
)

// cfg and dataDir are resolved by PersistentPreRunE so all subcommands
// can use them.
var (
	cfg     types.Config
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:     "venuekit",
	Short:   "venuekit is the launcher for the POS onboarding toolkit",
	Long: `venuekit keeps a catalog of versioned maintenance tools, installs them
on demand, and runs them as child processes against the venue's POS
database. Tool output and reports are kept per run under the data dir.`,
	Version: venuekit.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(flagDebug)

		// version needs no configuration.
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = loaded

		dataDir, err = paths.ResolveDataDir(flagDataDir, cfg.DataDir)
		if err != nil {
			return err
		}

		logger.Debug("config dir %s, data dir %s\n", configDir, dataDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "answer yes to confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(dbCmd)
}

// resolveConfigDir returns the configuration directory following the
// flag > env > platform default precedence.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
