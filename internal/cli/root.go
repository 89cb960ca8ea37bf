// Package cli implements the clickwar command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clickwar-arcade/clickwar/internal/daemon"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "clickwar",
	Short: "Two-team clicker battle server",
	Long: `clickwar runs a real-time two-team clicker battle. Players join a team,
click to score, spend coins in the shop, and the first team to reach the
win threshold takes the match.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default $CLICKWAR_HOME/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (daemon.Config, error) {
	return daemon.LoadConfig(configPath)
}
