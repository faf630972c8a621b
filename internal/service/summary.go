package service

import (
	"fmt"

	"github.com/iyhunko/platforma-manager/internal/reconcile"
)

// Operation names reported in summaries and metrics.
const (
	OpAdd      = "add"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpMoveUp   = "move_up"
	OpMoveDown = "move_down"
	OpSwap     = "swap"
	OpSync     = "sync"
	OpPush     = "push"
	OpExport   = "export"
)

// Summary describes the result of a command in a form suitable for display.
type Summary struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
	Count     int    `json:"count,omitempty"`
	Changed   bool   `json:"changed"`
}

// PushReport aggregates the outcome of writing the catalog to the sheet.
type PushReport struct {
	Updated   int `json:"updated"`
	Appended  int `json:"appended"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// SyncResult is returned by SyncFromSheet.
type SyncResult struct {
	Report  reconcile.Report `json:"report"`
	Summary Summary          `json:"summary"`
}

func syncSummary(report reconcile.Report) Summary {
	return Summary{
		Operation: OpSync,
		Message:   "Sheet synchronized: " + report.Summary(),
		Count:     report.Updated + report.Inserted,
		Changed:   report.Changed(),
	}
}

func pushSummary(report PushReport) Summary {
	return Summary{
		Operation: OpPush,
		Message: fmt.Sprintf("Sheet updated: updated: %d, appended: %d, unchanged: %d, failed: %d",
			report.Updated, report.Appended, report.Unchanged, report.Failed),
		Count:   report.Updated + report.Appended,
		Changed: report.Updated+report.Appended > 0,
	}
}
