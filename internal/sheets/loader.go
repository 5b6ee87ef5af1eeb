package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tallyops/ledgersync/pkg/errors"
)

// DocumentInfo describes a spreadsheet for preflight reporting.
type DocumentInfo struct {
	ID         string
	Title      string
	Worksheets []string
}

// Document fetches a spreadsheet's title and worksheet titles.
func (s *Service) Document(ctx context.Context, doc, spreadsheetID string) (*DocumentInfo, error) {
	resp, err := s.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("properties.title", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, &errors.ReadError{Doc: doc, StatusCode: statusCode(err), Err: err}
	}

	info := &DocumentInfo{ID: spreadsheetID}
	if resp.Properties != nil {
		info.Title = resp.Properties.Title
	}
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			info.Worksheets = append(info.Worksheets, sheet.Properties.Title)
		}
	}
	return info, nil
}

// FirstWorksheet returns the title of a document's first worksheet,
// which is where uploaded exports land.
func (s *Service) FirstWorksheet(ctx context.Context, doc, spreadsheetID string) (string, error) {
	info, err := s.Document(ctx, doc, spreadsheetID)
	if err != nil {
		return "", err
	}
	if len(info.Worksheets) == 0 {
		return "", &errors.ReadError{Doc: doc, Err: errors.New("document has no worksheets")}
	}
	return info.Worksheets[0], nil
}

// Values reads a worksheet's full formatted value grid. The remote
// service trims trailing blank cells, so rows are padded back to a
// uniform width before the grid is handed to parsing.
func (s *Service) Values(ctx context.Context, doc, spreadsheetID, worksheet string) ([][]string, error) {
	readRange := titleRange(worksheet)
	resp, err := s.sheets.Spreadsheets.Values.Get(spreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, &errors.ReadError{Doc: doc, Range: readRange, StatusCode: statusCode(err), Err: err}
	}
	return stringGrid(resp.Values), nil
}

// RowCount re-reads how many rows the worksheet currently holds,
// appended rows included.
func (s *Service) RowCount(ctx context.Context, doc, spreadsheetID, worksheet string) (int, error) {
	grid, err := s.Values(ctx, doc, spreadsheetID, worksheet)
	if err != nil {
		return 0, err
	}
	return len(grid), nil
}

// stringGrid converts the API's cell values into a rectangular string
// grid.
func stringGrid(values [][]any) [][]string {
	width := 0
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		rows[i] = cells
		if len(cells) > width {
			width = len(cells)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
