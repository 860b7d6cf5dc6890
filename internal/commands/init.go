package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hamsterboard/hmb/internal/config"
	"github.com/hamsterboard/hmb/internal/identity"
	"github.com/hamsterboard/hmb/internal/telemetry"
)

// CLI flags for the init command
var (
	initURL  string
	initName string
	initIG   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up your hamster and player handle",
	Long: `Create the .hamsterboard profile: the count store endpoint, your
hamster's display name, and your player handle.

Configuration sources (in priority order):
1. Command line flags (--url, --name, --ig)
2. Environment variables (HMB_URL, HMB_NAME, HMB_IG)
3. .env file in the current directory
4. Interactive prompts (TTY mode only)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func init() {
	initCmd.Flags().StringVar(&initURL, "url", "", "count store endpoint URL")
	initCmd.Flags().StringVar(&initName, "name", "", "hamster display name")
	initCmd.Flags().StringVar(&initIG, "ig", "", "player handle (e.g. @alice)")
}

// isTTY returns true if stdin is a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func runInit() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if initURL != "" {
		cfg.APIURL = initURL
	}
	if initName != "" {
		cfg.HamsterName = initName
	}
	if initIG != "" {
		cfg.PlayerIG = initIG
	}

	reader := bufio.NewReader(os.Stdin)
	if cfg.APIURL == "" && isTTY() {
		cfg.APIURL = prompt(reader, "Count store URL: ")
	}
	if cfg.HamsterName == "" && isTTY() {
		cfg.HamsterName = prompt(reader, "Hamster name: ")
	}
	if cfg.PlayerIG == "" && isTTY() {
		cfg.PlayerIG = prompt(reader, "Your handle (e.g. @alice): ")
	}

	cfg.PlayerIG = identity.Normalize(cfg.PlayerIG)
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.OnboardingDone = true
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Printf("Profile saved to %s\n", config.GetPath())
	fmt.Printf("  hamster: %s\n", cfg.HamsterName)
	fmt.Printf("  player:  %s\n", cfg.PlayerIG)

	// Best-effort: the remote store likes to know a player showed up.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := telemetry.New(cfg.APIURL, userAgent())
	if err := events.Send(ctx, telemetry.Event{
		Event:       telemetry.EventStart,
		HamsterName: cfg.HamsterName,
		PlayerIG:    cfg.PlayerIG,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init: start event failed: %v\n", err)
	}

	return nil
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
