// Package commands implements the hmb CLI commands.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hamsterboard/hmb/internal/config"
)

var versionInfo struct {
	version string
	commit  string
	date    string
}

// SetVersionInfo sets version information from main (populated by goreleaser).
func SetVersionInfo(version, commit, date string) {
	versionInfo.version = version
	versionInfo.commit = commit
	versionInfo.date = date
}

// userAgent identifies this build in telemetry payloads.
func userAgent() string {
	v := versionInfo.version
	if v == "" {
		v = "dev"
	}
	return "hmb/" + v
}

var configPathFlag string

var rootCmd = &cobra.Command{
	Use:   "hmb",
	Short: "Feed your hamster and climb the shared leaderboard",
	Long: `hmb is the Hamsterboard client: feed a virtual hamster and keep a small
cross-device leaderboard of feed counts in sync.

Feeding always works, even with the server down: every feed lands in a
local count store first and reconciles against the remote total later.

Setup:
  hmb init              - Set up your hamster and player handle

Play:
  hmb feed              - Feed the hamster once
  hmb board             - Show the top-3 leaderboard
  hmb watch             - Keep the leaderboard refreshing until interrupted

Environment variables:
  HMB_URL       - Count store endpoint (overrides the config file)
  HMB_IG        - Player handle
  HMB_NAME      - Hamster display name
  HMB_DATA_DIR  - Local fallback store directory`,
	// Errors are printed once by main.go.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configPathFlag != "" {
			config.SetPath(configPathFlag)
		}
		// Best-effort: env-based config works without a shell profile.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "alternate config file path")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = userAgent()
	return rootCmd.Execute()
}
