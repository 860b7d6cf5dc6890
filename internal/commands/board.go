package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the top-3 leaderboard",
	Long: `Fetch and print the leaderboard. When the remote store is unreachable
the local counts render instead, with an advisory note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

func runBoard() error {
	cfg, err := loadProfile()
	if err != nil {
		return err
	}

	e := newEngine(cfg)
	st := e.RefreshLeaderboard(context.Background())
	renderBoard(os.Stdout, st)
	return nil
}
