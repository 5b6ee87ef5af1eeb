// Package reconcile computes the merge between the main ledger table and
// an uploaded accounts export. The whole outcome is staged as a Plan
// before any remote write: matched accounts become in-place update-span
// overwrites, unknown accounts become rows to append, and nothing else
// in the main table is touched.
package reconcile

import (
	"github.com/tallyops/ledgersync/pkg/ledger"
	"github.com/tallyops/ledgersync/pkg/logging"
)

// Merge walks the upload table against the main table and stages the
// resulting plan. The main-table lookup is built once up front, so
// repeated upload keys re-match the same row (last one wins) and rows
// appended by this very plan are never update targets.
func Merge(main *ledger.MainTable, upload *ledger.UploadTable, layout *ledger.Layout) *Plan {
	plan := &Plan{}
	plan.Malformed = append(plan.Malformed, main.Malformed...)
	plan.Malformed = append(plan.Malformed, upload.Malformed...)

	// Index main data rows by account. Later rows win when a key
	// repeats, so stale duplicates resolve to the bottom-most row.
	index := make(map[string]int, main.Len())
	for i, rec := range main.Rows {
		if rec.Account == "" {
			continue
		}
		if prev, ok := index[rec.Account]; ok {
			logging.Debug().
				Str("account", rec.Account).
				Int("row", prev+2).
				Int("replaced_by", i+2).
				Msg("duplicate account in main table, matching the later row")
		}
		index[rec.Account] = i
	}

	for _, rec := range upload.Rows {
		if rec.Account == "" {
			plan.Skipped++
			continue
		}
		if row, ok := index[rec.Account]; ok {
			plan.Updates = append(plan.Updates, Update{
				Row:     row,
				Account: rec.Account,
				Fields:  rec.UpdateSpan(layout),
			})
			continue
		}
		plan.Appends = append(plan.Appends, Append{
			Account: rec.Account,
			Fields:  append([]string(nil), rec.Fields...),
			Tier:    layout.DefaultTier,
		})
	}
	return plan
}
