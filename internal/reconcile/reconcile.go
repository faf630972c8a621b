// Package reconcile merges rows fetched from the remote sheet into the local catalog.
package reconcile

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/iyhunko/platforma-manager/internal/catalog"
	"github.com/iyhunko/platforma-manager/internal/model"
)

// SkipReason explains why a row was not applied.
type SkipReason string

const (
	SkipBlankRow    SkipReason = "blank_row"
	SkipMissingID   SkipReason = "missing_id"
	SkipDuplicateID SkipReason = "duplicate_id"
	SkipInvalidRow  SkipReason = "invalid_row"
)

// Outcome is the effect a row had on the catalog.
type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
)

// Skip describes a row that was left out of the merge.
type Skip struct {
	Row    int        `json:"row"`
	ID     string     `json:"id,omitempty"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Result is the outcome of a single row. Row is the 1-based sheet row.
type Result struct {
	Row     int
	ID      string
	Outcome Outcome
	Skip    *Skip
}

// Report aggregates the outcome of one reconciliation.
type Report struct {
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Inserted  int      `json:"inserted"`
	Skipped   []Skip   `json:"skipped"`
	Results   []Result `json:"-"`
}

// Changed reports whether the catalog was modified.
func (r Report) Changed() bool {
	return r.Updated > 0 || r.Inserted > 0
}

// Summary returns a one-line human-readable description of the report.
func (r Report) Summary() string {
	return fmt.Sprintf("updated: %d, inserted: %d, unchanged: %d, skipped: %d",
		r.Updated, r.Inserted, r.Unchanged, len(r.Skipped))
}

func (r *Report) skip(s Skip) {
	r.Skipped = append(r.Skipped, s)
	r.Results = append(r.Results, Result{Row: s.Row, ID: s.ID, Outcome: OutcomeSkipped, Skip: &s})
}

// Engine applies remote rows to a catalog.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for the updated stamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type candidate struct {
	row         int
	product     *model.Product
	remoteOrder int
}

// Reconcile merges rows into c. Matched products are overwritten in place, unknown IDs are
// appended and local products missing from the rows are kept. A leading header row is ignored.
func (e *Engine) Reconcile(c *catalog.Catalog, rows [][]string) Report {
	var report Report
	first := 1
	if len(rows) > 0 && model.IsHeaderRow(rows[0]) {
		rows = rows[1:]
		first = 2
	}

	var candidates []candidate
	for i, cells := range rows {
		rowNum := first + i
		cand, skip := parseRow(rowNum, cells)
		if skip != nil {
			report.skip(*skip)
			continue
		}
		candidates = append(candidates, cand)
	}

	// last row in file order wins
	lastRow := make(map[string]int, len(candidates))
	for _, cand := range candidates {
		lastRow[cand.product.ID] = cand.row
	}
	winners := candidates[:0]
	for _, cand := range candidates {
		if lastRow[cand.product.ID] != cand.row {
			report.skip(Skip{Row: cand.row, ID: cand.product.ID, Reason: SkipDuplicateID,
				Detail: fmt.Sprintf("superseded by row %d", lastRow[cand.product.ID])})
			continue
		}
		winners = append(winners, cand)
	}

	before := make(map[string]*model.Product, len(winners))
	affected := make(map[string]struct{})
	remoteRank := make(map[*model.Product]candidate, len(winners))
	var inserted []*model.Product

	for _, cand := range winners {
		incoming := cand.product
		existing, ok := c.FindByID(incoming.ID)
		if !ok {
			if err := c.Append(incoming); err != nil {
				report.skip(Skip{Row: cand.row, ID: incoming.ID, Reason: SkipInvalidRow, Detail: err.Error()})
				continue
			}
			inserted = append(inserted, incoming)
			affected[incoming.Section] = struct{}{}
			remoteRank[incoming] = cand
			continue
		}
		before[existing.ID] = existing.Clone()
		affected[existing.Section] = struct{}{}
		overwrite(existing, incoming)
		affected[existing.Section] = struct{}{}
		remoteRank[existing] = cand
	}

	for section := range affected {
		rerank(c.BySection(section), remoteRank)
	}

	now := e.now()
	for _, p := range inserted {
		p.Updated = now
	}
	for _, cand := range winners {
		id := cand.product.ID
		if old, ok := before[id]; ok {
			current, _ := c.FindByID(id)
			if current.SameContent(old) {
				report.Unchanged++
				report.Results = append(report.Results, Result{Row: cand.row, ID: id, Outcome: OutcomeUnchanged})
				continue
			}
			current.Updated = now
			report.Updated++
			report.Results = append(report.Results, Result{Row: cand.row, ID: id, Outcome: OutcomeUpdated})
			continue
		}
		if _, ok := remoteRank[cand.product]; ok {
			report.Inserted++
			report.Results = append(report.Results, Result{Row: cand.row, ID: id, Outcome: OutcomeInserted})
		}
	}
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Row < report.Results[j].Row
	})

	for _, s := range report.Skipped {
		slog.Debug("skipped remote row",
			slog.Int("row", s.Row), slog.String("id", s.ID), slog.String("reason", string(s.Reason)), slog.String("detail", s.Detail))
	}
	slog.Info("reconciled remote rows",
		slog.Int("updated", report.Updated),
		slog.Int("inserted", report.Inserted),
		slog.Int("unchanged", report.Unchanged),
		slog.Int("skipped", len(report.Skipped)))
	return report
}

// rerank orders remote-carried products by remote order and row position, then keeps the
// local-only products after them in their previous relative order.
func rerank(section []*model.Product, remoteRank map[*model.Product]candidate) {
	var remote, local []*model.Product
	for _, p := range section {
		if _, ok := remoteRank[p]; ok {
			remote = append(remote, p)
		} else {
			local = append(local, p)
		}
	}
	sort.SliceStable(remote, func(i, j int) bool {
		a, b := remoteRank[remote[i]], remoteRank[remote[j]]
		if a.remoteOrder != b.remoteOrder {
			return a.remoteOrder < b.remoteOrder
		}
		return a.row < b.row
	})
	catalog.Renumber(append(remote, local...))
}

// overwrite copies every field except the updated stamp from src into dst.
func overwrite(dst, src *model.Product) {
	updated := dst.Updated
	*dst = *src.Clone()
	dst.Updated = updated
}

func parseRow(rowNum int, cells []string) (candidate, *Skip) {
	if len(cells) < model.MinRowCells {
		return candidate{}, &Skip{Row: rowNum, Reason: SkipBlankRow}
	}
	row := model.ParseRemoteRow(cells)
	if row.Title == "" {
		return candidate{}, &Skip{Row: rowNum, ID: row.ID, Reason: SkipBlankRow}
	}
	if row.ID == "" {
		return candidate{}, &Skip{Row: rowNum, Reason: SkipMissingID, Detail: row.Title}
	}

	order, ok := model.ParseOrder(row.Order)
	if !ok && row.Order != "" {
		slog.Debug("malformed order in remote row", slog.Int("row", rowNum), slog.String("id", row.ID), slog.String("order", row.Order))
	}
	status, err := model.ParseStatus(row.Status)
	if err != nil {
		slog.Warn("unknown status in remote row, using stock",
			slog.Int("row", rowNum), slog.String("id", row.ID), slog.String("status", row.Status))
		status = model.StatusStock
	}
	section := row.Section
	if section == "" {
		section = model.DefaultSection
	}

	p := &model.Product{
		ID:      row.ID,
		Section: section,
		Order:   order,
		Title:   row.Title,
		Price:   row.Price,
		Desc:    row.Desc,
		Meta:    row.Meta,
		Status:  status,
		Link:    row.Link,
		Images:  model.SplitImages(row.Images),
	}
	if err := p.Validate(); err != nil {
		return candidate{}, &Skip{Row: rowNum, ID: row.ID, Reason: SkipInvalidRow, Detail: err.Error()}
	}
	return candidate{row: rowNum, product: p, remoteOrder: order}, nil
}
