package commands

import (
	"fmt"
	"io"

	"github.com/hamsterboard/hmb/internal/config"
	"github.com/hamsterboard/hmb/internal/engine"
	"github.com/hamsterboard/hmb/internal/store"
	"github.com/hamsterboard/hmb/internal/telemetry"
	"github.com/hamsterboard/hmb/internal/transport"
)

// loadProfile loads the config and rejects profiles that cannot reach the
// remote store or name a player.
func loadProfile() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine wires the reconciliation engine for the given profile.
func newEngine(cfg *config.Config) *engine.Engine {
	return engine.New(
		transport.New(cfg.APIURL),
		transport.NewScript(cfg.APIURL),
		store.New(cfg.ResolveDataDir()),
		telemetry.New(cfg.APIURL, userAgent()),
	)
}

// renderBoard prints a leaderboard snapshot. When the snapshot carries an
// advisory error the local result still renders, with the error below it.
func renderBoard(w io.Writer, st engine.SyncState) {
	if len(st.Items) == 0 {
		fmt.Fprintln(w, "No feeders yet. Try feeding it!")
	} else {
		for i, rec := range st.Items {
			fmt.Fprintf(w, "%d. %-32s %d\n", i+1, rec.Identity, rec.Count)
		}
	}
	if st.Err != "" {
		fmt.Fprintf(w, "(showing local counts; remote unavailable: %s)\n", st.Err)
	}
}
