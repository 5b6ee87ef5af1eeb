package sheets

import (
	"context"

	gsheets "google.golang.org/api/sheets/v4"

	"github.com/tallyops/ledgersync/pkg/constants"
	"github.com/tallyops/ledgersync/pkg/errors"
)

// Overwrite writes the full grid starting at the worksheet's first
// cell. Remote rows beyond the grid's extent are left as they are.
func (s *Service) Overwrite(ctx context.Context, spreadsheetID, worksheet string, grid [][]string) error {
	writeRange := worksheetRange(worksheet, "A1")
	body := &gsheets.ValueRange{Values: gridValues(grid)}
	_, err := s.sheets.Spreadsheets.Values.Update(spreadsheetID, writeRange, body).
		ValueInputOption(userEntered).
		Context(ctx).Do()
	if err != nil {
		return &errors.WriteError{
			Doc:        constants.DocMain,
			Op:         "overwrite",
			Range:      writeRange,
			StatusCode: statusCode(err),
			Err:        err,
		}
	}
	return nil
}

// Append adds rows after the worksheet's current data region.
func (s *Service) Append(ctx context.Context, spreadsheetID, worksheet string, rows [][]any) error {
	writeRange := titleRange(worksheet)
	body := &gsheets.ValueRange{Values: rows}
	_, err := s.sheets.Spreadsheets.Values.Append(spreadsheetID, writeRange, body).
		ValueInputOption(userEntered).
		Context(ctx).Do()
	if err != nil {
		return &errors.WriteError{
			Doc:        constants.DocMain,
			Op:         "append",
			Range:      writeRange,
			StatusCode: statusCode(err),
			Err:        err,
		}
	}
	return nil
}

// Clear blanks an A1 range of the worksheet, values only; formatting
// stays.
func (s *Service) Clear(ctx context.Context, spreadsheetID, worksheet, a1 string) error {
	clearRange := worksheetRange(worksheet, a1)
	body := &gsheets.BatchClearValuesRequest{Ranges: []string{clearRange}}
	_, err := s.sheets.Spreadsheets.Values.BatchClear(spreadsheetID, body).
		Context(ctx).Do()
	if err != nil {
		return &errors.WriteError{
			Doc:        constants.DocMain,
			Op:         "clear",
			Range:      clearRange,
			StatusCode: statusCode(err),
			Err:        err,
		}
	}
	return nil
}

// WriteFormula puts a formula into a single cell. USER_ENTERED mode
// makes the service parse it as a live formula instead of literal
// text.
func (s *Service) WriteFormula(ctx context.Context, spreadsheetID, worksheet, cell, formula string) error {
	writeRange := worksheetRange(worksheet, cell)
	body := &gsheets.ValueRange{Values: [][]any{{formula}}}
	_, err := s.sheets.Spreadsheets.Values.Update(spreadsheetID, writeRange, body).
		ValueInputOption(userEntered).
		Context(ctx).Do()
	if err != nil {
		return &errors.WriteError{
			Doc:        constants.DocMain,
			Op:         "formula",
			Range:      writeRange,
			StatusCode: statusCode(err),
			Err:        err,
		}
	}
	return nil
}

// Delete removes a spreadsheet document from Drive entirely.
func (s *Service) Delete(ctx context.Context, doc, spreadsheetID string) error {
	err := s.drive.Files.Delete(spreadsheetID).
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return &errors.CleanupError{Doc: doc, Err: err}
	}
	return nil
}

func gridValues(grid [][]string) [][]any {
	values := make([][]any, len(grid))
	for i, row := range grid {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}
	return values
}
