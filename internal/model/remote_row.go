package model

import (
	"strconv"
	"strings"
	"time"
)

// Column positions of a remote sheet row.
const (
	ColID = iota
	ColOrder
	ColSection
	ColTitle
	ColPrice
	ColDesc
	ColMeta
	ColStatus
	ColImages
	ColLink
	ColUpdated
)

// MinRowCells is the smallest row that can carry a product: ID, Order, Section, Title.
const MinRowCells = 4

// SheetHeaders is the header row written to an empty sheet.
var SheetHeaders = []string{"ID", "Order", "Section", "Title", "Price", "Desc", "Meta", "Status", "Images", "Link", "Updated"}

// RemoteRow is the flat cell representation of a product in the spreadsheet.
type RemoteRow struct {
	ID      string
	Order   string
	Section string
	Title   string
	Price   string
	Desc    string
	Meta    string
	Status  string
	Images  string
	Link    string
}

// ParseRemoteRow reads the fixed columns of a raw row, cleaning every cell.
// Missing trailing cells are treated as empty.
func ParseRemoteRow(cells []string) RemoteRow {
	cell := func(i int) string {
		if i < len(cells) {
			return CleanCell(cells[i])
		}
		return ""
	}
	return RemoteRow{
		ID:      cell(ColID),
		Order:   cell(ColOrder),
		Section: cell(ColSection),
		Title:   cell(ColTitle),
		Price:   cell(ColPrice),
		Desc:    cell(ColDesc),
		Meta:    cell(ColMeta),
		Status:  cell(ColStatus),
		Images:  cell(ColImages),
		Link:    cell(ColLink),
	}
}

// RowFromProduct flattens a product into sheet cells, including the Updated column.
func RowFromProduct(p *Product) []string {
	updated := ""
	if !p.Updated.IsZero() {
		updated = p.Updated.UTC().Format(time.RFC3339)
	}
	return []string{
		p.ID,
		strconv.Itoa(p.Order),
		p.Section,
		p.Title,
		p.Price,
		p.Desc,
		p.Meta,
		string(p.Status),
		JoinImages(p.Images),
		p.Link,
		updated,
	}
}

// SameRowContent compares two rows on the product columns only, ignoring the Updated column.
func SameRowContent(a, b []string) bool {
	for i := ColID; i <= ColLink; i++ {
		var av, bv string
		if i < len(a) {
			av = CleanCell(a[i])
		}
		if i < len(b) {
			bv = CleanCell(b[i])
		}
		if av != bv {
			return false
		}
	}
	return true
}

// IsHeaderRow reports whether cells is the column header row, recognised by "ID" in the first cell.
func IsHeaderRow(cells []string) bool {
	return len(cells) > 0 && strings.EqualFold(CleanCell(cells[ColID]), SheetHeaders[ColID])
}

// CleanCell trims a cell, replaces line breaks with spaces and collapses repeated spaces.
func CleanCell(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
