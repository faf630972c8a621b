// Package sheets implements access to the remote product spreadsheet.
package sheets

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotConfigured is returned when no spreadsheet is configured.
	ErrNotConfigured = errors.New("remote sheet is not configured")
	// ErrRemote is returned when the spreadsheet backend rejects a request.
	ErrRemote = errors.New("remote sheet request failed")
	// ErrInvalidRow is returned for a row index outside the data area.
	ErrInvalidRow = errors.New("invalid row index")
)

// DefaultRange covers the product columns of the first sheet.
const DefaultRange = "Sheet1!A:K"

// Sheet is a spreadsheet holding one product per row, headers in row 1.
// Row indexes are 1-based sheet rows.
type Sheet interface {
	GetAllRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, values []string) error
	UpdateRow(ctx context.Context, rowIndex int, values []string) error
}

// SheetName returns the sheet part of an A1 range such as "Sheet1!A:K".
func SheetName(a1Range string) string {
	name, _, found := strings.Cut(a1Range, "!")
	if !found {
		return a1Range
	}
	return strings.Trim(name, "'")
}
