// Package ledger models the two spreadsheet tables the reconciler works
// with: the persistent accounts ledger (the main table) and the transient
// uploaded export (the upload table). Raw value grids are parsed once
// into typed records against an explicit Layout, so the merge operates on
// named fields instead of raw positional indexing.
package ledger

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/tallyops/ledgersync/pkg/errors"
)

// Layout contract defaults for the documents as they exist today.
const (
	// DefaultMainWorksheet is the ledger worksheet inside the main document.
	DefaultMainWorksheet = "All_accounts"

	// DefaultTier is the numeric tier assigned to newly appended accounts.
	DefaultTier = 400

	// DefaultRateFormula is the array formula reinstalled into the derived
	// rate column after every run. It expands itself down the column, so
	// it is written once into the column's first data cell.
	DefaultRateFormula = `=ARRAYFORMULA(if(A2:A="","",xlookup(XLOOKUP(B2:B,'DTR Details'!L13:L68,'DTR Details'!M13:M68),'DTR Details'!L5:L9,'DTR Details'!M5:M9)))`
)

// Layout declares the positional contract between the main and upload
// tables. All column positions are 0-indexed within a row. The upload
// table carries one extra leading column, so its key sits one column to
// the right of where it lands when appended to the main table. The
// update source span is the first UpdateSpanLen cells of the append
// span.
type Layout struct {
	MainWorksheet   string `yaml:"main_worksheet"`    // ledger worksheet title in the main document
	MainKeyColumn   int    `yaml:"main_key_column"`   // account identifier column in the main table
	UpdateSpanStart int    `yaml:"update_span_start"` // first updatable column in the main table
	UpdateSpanLen   int    `yaml:"update_span_len"`   // number of updatable columns
	UploadKeyColumn int    `yaml:"upload_key_column"` // account identifier column in the upload table
	AppendSpanStart int    `yaml:"append_span_start"` // first upload column copied into appended rows
	AppendSpanLen   int    `yaml:"append_span_len"`   // number of upload columns copied into appended rows
	DerivedColumn   int    `yaml:"derived_column"`    // rate column cleared and re-seeded with the formula
	DefaultTier     int    `yaml:"default_tier"`      // tier value stamped onto appended rows
	RateFormula     string `yaml:"rate_formula"`      // formula written into the derived column's first data cell
}

// DefaultLayout returns the layout both documents are known to follow.
func DefaultLayout() *Layout {
	return &Layout{
		MainWorksheet:   DefaultMainWorksheet,
		MainKeyColumn:   4,
		UpdateSpanStart: 0,
		UpdateSpanLen:   4,
		UploadKeyColumn: 5,
		AppendSpanStart: 1,
		AppendSpanLen:   7,
		DerivedColumn:   11,
		DefaultTier:     DefaultTier,
		RateFormula:     DefaultRateFormula,
	}
}

// LoadLayout reads a YAML layout profile from path. Keys omitted from the
// profile keep their default values, so a profile only states what
// differs from DefaultLayout.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout profile: %w", err)
	}
	layout := DefaultLayout()
	if err := yaml.Unmarshal(data, layout); err != nil {
		return nil, fmt.Errorf("parsing layout profile %s: %w", path, err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// Validate checks the layout for internal consistency.
func (l *Layout) Validate() error {
	if l.MainWorksheet == "" {
		return &errors.ValidationError{
			Field:   "main_worksheet",
			Message: "worksheet title must not be empty",
		}
	}
	positions := []struct {
		field string
		value int
	}{
		{"main_key_column", l.MainKeyColumn},
		{"update_span_start", l.UpdateSpanStart},
		{"upload_key_column", l.UploadKeyColumn},
		{"append_span_start", l.AppendSpanStart},
		{"derived_column", l.DerivedColumn},
	}
	for _, p := range positions {
		if p.value < 0 {
			return &errors.ValidationError{
				Field:   p.field,
				Value:   p.value,
				Message: "column position must not be negative",
			}
		}
	}
	if l.UpdateSpanLen < 1 {
		return &errors.ValidationError{
			Field:   "update_span_len",
			Value:   l.UpdateSpanLen,
			Message: "span must be at least one column wide",
		}
	}
	if l.AppendSpanLen < 1 {
		return &errors.ValidationError{
			Field:   "append_span_len",
			Value:   l.AppendSpanLen,
			Message: "span must be at least one column wide",
		}
	}
	if l.UpdateSpanLen > l.AppendSpanLen {
		return &errors.ValidationError{
			Field:   "update_span_len",
			Value:   l.UpdateSpanLen,
			Message: "update span must fit inside the append span",
		}
	}
	if l.MainKeyColumn >= l.UpdateSpanStart && l.MainKeyColumn < l.UpdateSpanStart+l.UpdateSpanLen {
		return &errors.ValidationError{
			Field:   "main_key_column",
			Value:   l.MainKeyColumn,
			Message: "key column must not fall inside the update span",
		}
	}
	if l.UploadKeyColumn < l.AppendSpanStart || l.UploadKeyColumn >= l.AppendSpanStart+l.AppendSpanLen {
		return &errors.ValidationError{
			Field:   "upload_key_column",
			Value:   l.UploadKeyColumn,
			Message: "key column must fall inside the append span so appended rows keep their key",
		}
	}
	if l.RateFormula == "" {
		return &errors.ValidationError{
			Field:   "rate_formula",
			Message: "formula must not be empty",
		}
	}
	return nil
}

// MainRange returns the A1 reference of the main worksheet's full data
// region, which is the quoted worksheet title.
func (l *Layout) MainRange() string {
	return fmt.Sprintf("'%s'", l.MainWorksheet)
}

// DerivedColumnLetter returns the derived column in letter form.
func (l *Layout) DerivedColumnLetter() string {
	return ColumnLetter(l.DerivedColumn)
}

// FormulaCell returns the A1 reference of the derived column's first data
// cell, where the rate formula is written.
func (l *Layout) FormulaCell() string {
	return ColumnLetter(l.DerivedColumn) + "2"
}

// ClearRange returns the A1 range of the derived column from its first
// data cell through lastRow. The caller is responsible for only clearing
// when the table has data rows.
func (l *Layout) ClearRange(lastRow int) string {
	col := ColumnLetter(l.DerivedColumn)
	return fmt.Sprintf("%s2:%s%d", col, col, lastRow)
}

