package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hamsterboard/hmb/internal/engine"
	"github.com/hamsterboard/hmb/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the leaderboard refreshing until interrupted",
	Long: `Refresh the leaderboard every 20 seconds, measured from the completion
of the previous refresh, and reprint it when it changes. Ctrl-C stops.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func runWatch() error {
	cfg, err := loadProfile()
	if err != nil {
		return err
	}

	e := newEngine(cfg)
	e.SetOnChange(func(st engine.SyncState) {
		if st.Loading {
			return
		}
		fmt.Println()
		renderBoard(os.Stdout, st)
	})
	e.SetIdentity(cfg.PlayerIG)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scheduler.New(e)
	s.Start(ctx)
	defer s.Stop()

	<-ctx.Done()
	fmt.Println("\nStopped.")
	return nil
}
