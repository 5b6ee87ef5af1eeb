package reconcile

import (
	"github.com/tallyops/ledgersync/pkg/errors"
	"github.com/tallyops/ledgersync/pkg/ledger"
)

// Update stages an in-place overwrite of one main-table row's update
// span.
type Update struct {
	Row     int    // data-row position in the main table, header excluded
	Account string // key the row was matched on
	Fields  []string
}

// Append stages one brand-new main-table row built from an upload
// record.
type Append struct {
	Account string
	Fields  []string // the upload row's append span
	Tier    int      // initial tier stamped onto the new account
}

// Row returns the appended row as it is sent to the sheet: the span
// fields followed by the numeric tier.
func (a *Append) Row() []any {
	row := make([]any, 0, len(a.Fields)+1)
	for _, f := range a.Fields {
		row = append(row, f)
	}
	return append(row, a.Tier)
}

// Plan is the staged outcome of a merge, fully computed before any
// remote write happens.
type Plan struct {
	Updates   []Update
	Appends   []Append
	Skipped   int                   // upload rows with an empty account key
	Malformed []*errors.SchemaError // short rows reported by either table
}

// HasChanges reports whether the plan stages any mutation at all.
func (p *Plan) HasChanges() bool {
	return len(p.Updates) > 0 || len(p.Appends) > 0
}

// Apply writes the staged update spans into the main table, in plan
// order so later duplicates win. Appends are deliberately not folded in:
// they go to the sheet as an append call, and the local table keeps
// matching only the rows it was loaded with.
func (p *Plan) Apply(main *ledger.MainTable) {
	for _, u := range p.Updates {
		main.Rows[u.Row].Update = append([]string(nil), u.Fields...)
	}
}

// AppendRows returns every staged append in upload order, shaped for the
// values append call.
func (p *Plan) AppendRows() [][]any {
	if len(p.Appends) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(p.Appends))
	for i := range p.Appends {
		rows = append(rows, p.Appends[i].Row())
	}
	return rows
}
