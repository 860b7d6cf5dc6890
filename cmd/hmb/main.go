// hmb - Hamsterboard client
//
// Feeds a virtual hamster and keeps a small cross-device leaderboard of
// feed counts in sync. Feeding always works, even with the server down:
// every feed lands in a local count store first and reconciles against the
// authoritative remote total later.
package main

import (
	"fmt"
	"os"

	"github.com/hamsterboard/hmb/internal/commands"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
