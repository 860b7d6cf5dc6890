// Package board defines the leaderboard data model and the aggregation
// merge that folds raw remote rows into a canonical ranked view.
package board

import (
	"sort"

	"github.com/hamsterboard/hmb/internal/identity"
)

// Row is a raw leaderboard row as served by the remote count store. Handles
// may arrive with inconsistent casing, and the same player may appear more
// than once (one row per reporting device).
type Row struct {
	IG    string `json:"ig"`
	Count int    `json:"count"`
}

// FeedRecord is an aggregated per-player feed count.
type FeedRecord struct {
	Identity string
	Count    int
}

// View is a leaderboard ordered by count descending. Ties keep the order in
// which identities were first seen during the merge.
type View []FeedRecord

// Merge folds raw rows into a View. Handles are canonicalized and counts
// for rows sharing a canonical identity are summed - duplicate rows are a
// legitimate upstream shape, not an error. Rows whose handle normalizes to
// "" are dropped. Merge does not truncate; use Top for that.
func Merge(rows []Row) View {
	counts := make(map[string]int, len(rows))
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		id := identity.Normalize(r.IG)
		if id == "" {
			continue
		}
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id] += r.Count
	}

	view := make(View, 0, len(order))
	for _, id := range order {
		view = append(view, FeedRecord{Identity: id, Count: counts[id]})
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Count > view[j].Count
	})
	return view
}

// Top returns at most n leading records.
func (v View) Top(n int) View {
	if n < 0 {
		n = 0
	}
	if len(v) <= n {
		return v
	}
	return v[:n]
}

// CountFor returns the count recorded for a canonical identity, or 0 when
// the identity has no record.
func (v View) CountFor(id string) int {
	for _, rec := range v {
		if rec.Identity == id {
			return rec.Count
		}
	}
	return 0
}
