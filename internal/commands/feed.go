package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Feed the hamster once",
	Long: `Record one feed. The local count updates instantly; the authoritative
remote total is reconciled shortly after and never lowers your count.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeed()
	},
}

func runFeed() error {
	cfg, err := loadProfile()
	if err != nil {
		return err
	}

	e := newEngine(cfg)
	e.SetIdentity(cfg.PlayerIG)
	e.Wait()

	e.RecordFeedAction(cfg.PlayerIG, cfg.HamsterName)
	fmt.Printf("%s fed %s!\n", cfg.PlayerIG, cfg.HamsterName)
	fmt.Printf("Your feeds: %d\n", e.MyCount())

	// Let the post-feed reconciliation settle before printing the board.
	e.Wait()
	fmt.Printf("Reconciled total: %d\n", e.MyCount())

	fmt.Println()
	renderBoard(os.Stdout, e.State())
	return nil
}
