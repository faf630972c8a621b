package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/repository/jsonfile"
)

// Workbook is a local XLSX file used in place of the online spreadsheet.
type Workbook struct {
	mu    sync.Mutex
	path  string
	sheet string
}

// NewWorkbook creates a Workbook for the file at path. An empty sheet name means the first sheet.
func NewWorkbook(path, sheet string) (*Workbook, error) {
	if path == "" {
		return nil, ErrNotConfigured
	}
	return &Workbook{path: path, sheet: sheet}, nil
}

// GetAllRows returns every row of the sheet. A missing file yields no rows.
func (w *Workbook) GetAllRows(_ context.Context) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return [][]string{}, nil
		}
		return nil, fmt.Errorf("%w: open workbook: %w", ErrRemote, err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheetName(f))
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %w", ErrRemote, err)
	}
	return rows, nil
}

// AppendRow writes values after the last non-empty row.
func (w *Workbook) AppendRow(_ context.Context, values []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, sheet, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("%w: read rows: %w", ErrRemote, err)
	}
	if err := setRow(f, sheet, len(rows)+1, values); err != nil {
		return err
	}
	return w.save(f)
}

// UpdateRow overwrites one sheet row.
func (w *Workbook) UpdateRow(_ context.Context, rowIndex int, values []string) error {
	if rowIndex < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRow, rowIndex)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, sheet, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := setRow(f, sheet, rowIndex, values); err != nil {
		return err
	}
	return w.save(f)
}

// open loads the workbook or starts a new one when the file does not exist yet.
func (w *Workbook) open() (*excelize.File, string, error) {
	f, err := excelize.OpenFile(w.path)
	if err == nil {
		return f, w.sheetName(f), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("%w: open workbook: %w", ErrRemote, err)
	}

	f = excelize.NewFile()
	sheet := w.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if sheet != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			_ = f.Close()
			return nil, "", fmt.Errorf("%w: name sheet: %w", ErrRemote, err)
		}
	}
	return f, sheet, nil
}

func (w *Workbook) sheetName(f *excelize.File) string {
	if w.sheet != "" {
		return w.sheet
	}
	return f.GetSheetName(0)
}

func (w *Workbook) save(f *excelize.File) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("%w: encode workbook: %w", ErrRemote, err)
	}
	if err := jsonfile.WriteFileAtomic(w.path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowIndex int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("%w: write row %d: %w", ErrRemote, rowIndex, err)
	}
	return nil
}

// ExportWorkbook writes the products to a new XLSX file with a styled header row.
func ExportWorkbook(path string, products []*model.Product) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#548235"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := setRow(f, sheet, 1, model.SheetHeaders); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(model.SheetHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyleID); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, p := range products {
		if err := setRow(f, sheet, i+2, model.RowFromProduct(p)); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "D", "F", 30); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return jsonfile.WriteFileAtomic(path, buf.Bytes())
}
