package ledger

import (
	"fmt"

	"github.com/tallyops/ledgersync/pkg/constants"
	"github.com/tallyops/ledgersync/pkg/errors"
)

// MainTable is the parsed main worksheet: the header row plus one record
// per data row, in sheet order. Rows too short to carry the key cell are
// reported in Malformed and excluded from matching, but they stay in
// Rows so the write-back grid reproduces them untouched.
type MainTable struct {
	Header    []string
	Rows      []MainRecord
	Malformed []*errors.SchemaError
}

// UploadTable is the parsed upload worksheet. It is read-only input, so
// malformed rows are only reported, not kept.
type UploadTable struct {
	Header    []string
	Rows      []UploadRecord
	Malformed []*errors.SchemaError
}

// ParseMainTable converts a raw value grid into typed records. A grid
// with no header row, or one too narrow for the key column to exist at
// all, violates the table contract and fails outright.
func ParseMainTable(grid [][]string, layout *Layout) (*MainTable, error) {
	if err := checkTable(constants.DocMain, grid, layout.MainKeyColumn); err != nil {
		return nil, err
	}
	table := &MainTable{Header: copyRow(grid[0])}
	for i, row := range grid[1:] {
		if len(row) <= layout.MainKeyColumn {
			table.Malformed = append(table.Malformed, shortRowError(constants.DocMain, i+2, row))
		}
		table.Rows = append(table.Rows, parseMainRecord(row, layout))
	}
	return table, nil
}

// ParseUploadTable converts a raw value grid into typed records. Rows too
// short to carry the key cell are reported and dropped.
func ParseUploadTable(grid [][]string, layout *Layout) (*UploadTable, error) {
	if err := checkTable(constants.DocUpload, grid, layout.UploadKeyColumn); err != nil {
		return nil, err
	}
	table := &UploadTable{Header: copyRow(grid[0])}
	for i, row := range grid[1:] {
		if len(row) <= layout.UploadKeyColumn {
			table.Malformed = append(table.Malformed, shortRowError(constants.DocUpload, i+2, row))
			continue
		}
		table.Rows = append(table.Rows, parseUploadRecord(row, layout))
	}
	return table, nil
}

// Len returns the number of data rows, header excluded.
func (t *MainTable) Len() int { return len(t.Rows) }

// Grid reassembles the table for write-back: the header first, then
// every data row serialized in sheet order, malformed rows included
// verbatim.
func (t *MainTable) Grid() [][]string {
	grid := make([][]string, 0, len(t.Rows)+1)
	grid = append(grid, copyRow(t.Header))
	for i := range t.Rows {
		grid = append(grid, t.Rows[i].Cells())
	}
	return grid
}

// Len returns the number of data rows, header excluded.
func (t *UploadTable) Len() int { return len(t.Rows) }

// checkTable rejects grids that cannot satisfy the layout at all: no
// header row, or no row wide enough to place the key column.
func checkTable(doc string, grid [][]string, keyColumn int) error {
	if len(grid) == 0 {
		return &errors.ValidationError{
			Field:   doc,
			Message: "document has no rows",
		}
	}
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	if width <= keyColumn {
		return &errors.ValidationError{
			Field:   doc,
			Value:   width,
			Message: fmt.Sprintf("table is %d columns wide but the account column is %d", width, keyColumn),
		}
	}
	return nil
}

func shortRowError(doc string, row int, cells []string) *errors.SchemaError {
	return &errors.SchemaError{
		Doc:     doc,
		Row:     row,
		Width:   len(cells),
		Message: "row is too short to carry the account column",
	}
}

func copyRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}
