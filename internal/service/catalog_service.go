package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iyhunko/platforma-manager/internal/catalog"
	"github.com/iyhunko/platforma-manager/internal/metrics"
	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/reconcile"
	"github.com/iyhunko/platforma-manager/internal/repository"
	"github.com/iyhunko/platforma-manager/internal/sheets"
)

// ErrSiteNotConfigured is returned by ExportSite when no site writer is set.
var ErrSiteNotConfigured = errors.New("site export is not configured")

const defaultSheetTimeout = 30 * time.Second

// EventPublisher delivers catalog events to listeners.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event model.CatalogEvent) error
}

// ImageStore manages the asset folders of products.
type ImageStore interface {
	Import(id string, sources []string) ([]string, error)
	RemoveProductDir(id string) error
}

// SiteExporter regenerates the storefront data from the products.
type SiteExporter interface {
	Write(products []*model.Product) (int, error)
}

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Title   string   `json:"title"`
	Price   string   `json:"price"`
	Desc    string   `json:"desc"`
	Meta    string   `json:"meta"`
	Section string   `json:"section"`
	Status  string   `json:"status"`
	Link    string   `json:"link"`
	Images  []string `json:"images"`
	// ImageFiles are local files copied into the product's image folder.
	ImageFiles []string `json:"image_files"`
}

// ProductPatch carries the fields to change on an existing product. Nil fields are kept.
type ProductPatch struct {
	Title   *string   `json:"title"`
	Price   *string   `json:"price"`
	Desc    *string   `json:"desc"`
	Meta    *string   `json:"meta"`
	Section *string   `json:"section"`
	Status  *string   `json:"status"`
	Link    *string   `json:"link"`
	Images  *[]string `json:"images"`
}

// Status is a snapshot of the service state.
type Status struct {
	Products   int               `json:"products"`
	Sections   map[string]int    `json:"sections"`
	LastSync   *time.Time        `json:"last_sync,omitempty"`
	LastReport *reconcile.Report `json:"last_report,omitempty"`
}

// state is the mutable application state guarded by CatalogService.mu.
type state struct {
	catalog    *catalog.Catalog
	lastSync   time.Time
	lastReport *reconcile.Report
}

// CatalogService runs every catalog command. It is the single writer of the catalog:
// one mutex covers each mutation including the fetch, reconcile and persist sequence of a sync.
type CatalogService struct {
	mu    sync.Mutex
	state state

	store        repository.ProductStore
	sheet        sheets.Sheet
	engine       *reconcile.Engine
	publisher    EventPublisher
	images       ImageStore
	site         SiteExporter
	sheetTimeout time.Duration
	now          func() time.Time
}

// Option configures a CatalogService.
type Option func(*CatalogService)

// WithSheet sets the remote sheet used by sync and push.
func WithSheet(sheet sheets.Sheet) Option {
	return func(s *CatalogService) { s.sheet = sheet }
}

// WithPublisher sets the event publisher.
func WithPublisher(publisher EventPublisher) Option {
	return func(s *CatalogService) { s.publisher = publisher }
}

// WithImages sets the image store.
func WithImages(images ImageStore) Option {
	return func(s *CatalogService) { s.images = images }
}

// WithSiteExporter sets the site data writer.
func WithSiteExporter(site SiteExporter) Option {
	return func(s *CatalogService) { s.site = site }
}

// WithSheetTimeout bounds every remote sheet call.
func WithSheetTimeout(timeout time.Duration) Option {
	return func(s *CatalogService) {
		if timeout > 0 {
			s.sheetTimeout = timeout
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *CatalogService) { s.now = now }
}

// NewCatalogService creates a service over an empty catalog. Call Load to read the store.
func NewCatalogService(store repository.ProductStore, opts ...Option) *CatalogService {
	s := &CatalogService{
		state:        state{catalog: catalog.New(nil)},
		store:        store,
		sheetTimeout: defaultSheetTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = reconcile.NewEngine(reconcile.WithClock(s.now))
	return s
}

// Load replaces the in-memory catalog with the persisted products.
func (s *CatalogService) Load(ctx context.Context) error {
	products, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.catalog = catalog.New(products)
	metrics.CatalogSize.Set(float64(s.state.catalog.Len()))
	slog.Info("catalog loaded", slog.Int("products", s.state.catalog.Len()), slog.Int("sections", len(s.state.catalog.Sections())))
	return nil
}

// Get returns a copy of one product.
func (s *CatalogService) Get(id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.catalog.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
	}
	return p.Clone(), nil
}

// List returns copies of the products matching the query, ordered by section, order and id,
// and the paginator for the next page when more products follow.
func (s *CatalogService) List(query repository.Query) ([]*model.Product, *repository.Paginator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sections []string
	if query.Section != "" {
		sections = []string{query.Section}
	} else {
		sections = s.state.catalog.Sections()
	}

	limit := query.Limit
	if limit <= 0 {
		limit = repository.DefaultPaginationLimit
	}

	var result []*model.Product
	for _, section := range sections {
		for _, p := range s.state.catalog.BySection(section) {
			if query.Paginator != nil && !afterCursor(p, query.Paginator) {
				continue
			}
			if len(result) == limit {
				last := result[len(result)-1]
				return result, &repository.Paginator{LastSection: last.Section, LastOrder: last.Order, LastID: last.ID}
			}
			result = append(result, p.Clone())
		}
	}
	return result, nil
}

func afterCursor(p *model.Product, cursor *repository.Paginator) bool {
	if p.Section != cursor.LastSection {
		return p.Section > cursor.LastSection
	}
	return catalog.Less(&model.Product{Order: cursor.LastOrder, ID: cursor.LastID}, p)
}

// Products returns copies of every product ordered by section, order and id.
func (s *CatalogService) Products() []*model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(sortedProducts(s.state.catalog))
}

// Status reports the catalog size per section and the last synchronization.
func (s *CatalogService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Products: s.state.catalog.Len(), Sections: map[string]int{}}
	for _, section := range s.state.catalog.Sections() {
		st.Sections[section] = len(s.state.catalog.BySection(section))
	}
	if !s.state.lastSync.IsZero() {
		at := s.state.lastSync
		st.LastSync = &at
	}
	st.LastReport = s.state.lastReport
	return st
}

// Add creates a product at the top of its section with the smallest free ID.
// The product is appended to the remote sheet on a best-effort basis.
func (s *CatalogService) Add(ctx context.Context, in ProductInput) (*model.Product, Summary, error) {
	status, err := model.ParseStatus(in.Status)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("%w: %w", model.ErrInvalidProduct, err)
	}
	section := strings.TrimSpace(in.Section)
	if section == "" {
		section = model.DefaultSection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.state.catalog
	p := &model.Product{
		ID:      cat.NextFreeID(),
		Section: section,
		Order:   1,
		Title:   strings.TrimSpace(in.Title),
		Price:   strings.TrimSpace(in.Price),
		Desc:    in.Desc,
		Meta:    in.Meta,
		Status:  status,
		Link:    strings.TrimSpace(in.Link),
		Images:  append([]string(nil), in.Images...),
		Updated: s.now(),
	}
	if err := p.Validate(); err != nil {
		return nil, Summary{}, err
	}

	if len(in.ImageFiles) > 0 {
		if s.images == nil {
			return nil, Summary{}, errors.New("image import is not configured")
		}
		names, err := s.images.Import(p.ID, in.ImageFiles)
		if err != nil {
			if rmErr := s.images.RemoveProductDir(p.ID); rmErr != nil {
				slog.Warn("failed to clean up partial image import", slog.String("id", p.ID), slog.Any("err", rmErr))
			}
			return nil, Summary{}, fmt.Errorf("import images: %w", err)
		}
		p.Images = append(p.Images, names...)
	}

	if err := cat.InsertAtTop(p); err != nil {
		return nil, Summary{}, err
	}
	if err := s.persist(ctx); err != nil {
		return nil, Summary{}, err
	}

	metrics.ProductsCreated.Inc()
	s.publish(ctx, model.CatalogEvent{Action: model.EventProductCreated, ProductID: p.ID, Section: p.Section, Title: p.Title})

	if s.sheet != nil {
		sheetCtx, cancel := context.WithTimeout(ctx, s.sheetTimeout)
		if err := s.sheet.AppendRow(sheetCtx, model.RowFromProduct(p)); err != nil {
			slog.Warn("failed to append new product to sheet", slog.String("id", p.ID), slog.Any("err", err))
		}
		cancel()
	}

	return p.Clone(), Summary{
		Operation: OpAdd,
		Message:   fmt.Sprintf("Product %q added with id %s", p.Title, p.ID),
		ProductID: p.ID,
		Count:     1,
		Changed:   true,
	}, nil
}

// Update applies a patch to a product. A section change moves it to the top of the new section.
func (s *CatalogService) Update(ctx context.Context, id string, patch ProductPatch) (*model.Product, Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.state.catalog
	p, ok := cat.FindByID(id)
	if !ok {
		return nil, Summary{}, fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
	}

	candidate, err := applyPatch(p.Clone(), patch)
	if err != nil {
		return nil, Summary{}, err
	}
	if err := candidate.Validate(); err != nil {
		return nil, Summary{}, err
	}
	if candidate.SameContent(p) {
		return p.Clone(), Summary{Operation: OpUpdate, Message: fmt.Sprintf("Product %q has no changes", p.Title), ProductID: id}, nil
	}

	if candidate.Section != p.Section {
		if err := cat.ChangeSection(id, candidate.Section); err != nil {
			return nil, Summary{}, err
		}
	}
	candidate.Section, candidate.Order = p.Section, p.Order
	candidate.Updated = s.now()
	*p = *candidate

	if err := s.persist(ctx); err != nil {
		return nil, Summary{}, err
	}

	metrics.ProductsUpdated.Inc()
	s.publish(ctx, model.CatalogEvent{Action: model.EventProductUpdated, ProductID: p.ID, Section: p.Section, Title: p.Title})
	return p.Clone(), Summary{
		Operation: OpUpdate,
		Message:   fmt.Sprintf("Product %q updated", p.Title),
		ProductID: id,
		Count:     1,
		Changed:   true,
	}, nil
}

func applyPatch(p *model.Product, patch ProductPatch) (*model.Product, error) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.Title, patch.Title)
	set(&p.Price, patch.Price)
	set(&p.Section, patch.Section)
	set(&p.Link, patch.Link)
	if patch.Desc != nil {
		p.Desc = *patch.Desc
	}
	if patch.Meta != nil {
		p.Meta = *patch.Meta
	}
	if patch.Status != nil {
		status, err := model.ParseStatus(*patch.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrInvalidProduct, err)
		}
		p.Status = status
	}
	if patch.Images != nil {
		p.Images = append([]string(nil), (*patch.Images)...)
	}
	return p, nil
}

// Delete removes a product and its image folder. A failing folder removal is only logged.
func (s *CatalogService) Delete(ctx context.Context, id string) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.state.catalog.Remove(id)
	if err != nil {
		return Summary{}, fmt.Errorf("product %s: %w", id, err)
	}
	if err := s.persist(ctx); err != nil {
		return Summary{}, err
	}

	if s.images != nil {
		if err := s.images.RemoveProductDir(id); err != nil {
			slog.Warn("failed to remove product images", slog.String("id", id), slog.Any("err", err))
		}
	}

	metrics.ProductsDeleted.Inc()
	s.publish(ctx, model.CatalogEvent{Action: model.EventProductDeleted, ProductID: id, Section: removed.Section, Title: removed.Title})
	return Summary{
		Operation: OpDelete,
		Message:   fmt.Sprintf("Product %q deleted", removed.Title),
		ProductID: id,
		Count:     1,
		Changed:   true,
	}, nil
}

// MoveUp swaps a product with its predecessor in the section.
func (s *CatalogService) MoveUp(ctx context.Context, id string) (Summary, error) {
	return s.reorder(ctx, OpMoveUp, id, func(c *catalog.Catalog) error { return c.MoveUp(id) })
}

// MoveDown swaps a product with its successor in the section.
func (s *CatalogService) MoveDown(ctx context.Context, id string) (Summary, error) {
	return s.reorder(ctx, OpMoveDown, id, func(c *catalog.Catalog) error { return c.MoveDown(id) })
}

// Swap exchanges the positions of two products of one section.
func (s *CatalogService) Swap(ctx context.Context, idA, idB string) (Summary, error) {
	return s.reorder(ctx, OpSwap, idA, func(c *catalog.Catalog) error { return c.Swap(idA, idB) })
}

func (s *CatalogService) reorder(ctx context.Context, op, id string, fn func(*catalog.Catalog) error) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state.catalog); err != nil {
		return Summary{}, err
	}
	if err := s.persist(ctx); err != nil {
		return Summary{}, err
	}

	p, _ := s.state.catalog.FindByID(id)
	metrics.Reorders.WithLabelValues(op).Inc()
	s.publish(ctx, model.CatalogEvent{Action: model.EventCatalogReordered, ProductID: id, Section: p.Section, Title: p.Title})
	return Summary{
		Operation: op,
		Message:   fmt.Sprintf("Product %q is now at position %d in %s", p.Title, p.Order, p.Section),
		ProductID: id,
		Count:     1,
		Changed:   true,
	}, nil
}

// SyncFromSheet fetches every sheet row and reconciles it into the catalog.
// Local products missing from the sheet are kept.
func (s *CatalogService) SyncFromSheet(ctx context.Context) (SyncResult, error) {
	if s.sheet == nil {
		return SyncResult{}, sheets.ErrNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.sheetTimeout)
	rows, err := s.sheet.GetAllRows(fetchCtx)
	cancel()
	if err != nil {
		metrics.SyncRuns.WithLabelValues("failed").Inc()
		return SyncResult{}, fmt.Errorf("fetch sheet rows: %w", err)
	}

	report := s.engine.Reconcile(s.state.catalog, rows)
	if report.Changed() {
		if err := s.persist(ctx); err != nil {
			metrics.SyncRuns.WithLabelValues("failed").Inc()
			return SyncResult{}, err
		}
	}

	s.state.lastSync = s.now()
	s.state.lastReport = &report
	metrics.SyncRuns.WithLabelValues("success").Inc()
	metrics.SyncRows.WithLabelValues(string(reconcile.OutcomeUpdated)).Add(float64(report.Updated))
	metrics.SyncRows.WithLabelValues(string(reconcile.OutcomeInserted)).Add(float64(report.Inserted))
	metrics.SyncRows.WithLabelValues(string(reconcile.OutcomeUnchanged)).Add(float64(report.Unchanged))
	metrics.SyncRows.WithLabelValues(string(reconcile.OutcomeSkipped)).Add(float64(len(report.Skipped)))

	summary := syncSummary(report)
	if report.Changed() {
		s.publish(ctx, model.CatalogEvent{Action: model.EventCatalogSynced, Count: summary.Count})
	}
	return SyncResult{Report: report, Summary: summary}, nil
}

// PushToSheet writes the catalog to the sheet. Rows are matched by ID: changed rows are
// updated and missing ones appended. Rows that fail are counted and skipped.
func (s *CatalogService) PushToSheet(ctx context.Context) (PushReport, Summary, error) {
	if s.sheet == nil {
		return PushReport{}, Summary{}, sheets.ErrNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.sheetTimeout)
	rows, err := s.sheet.GetAllRows(fetchCtx)
	cancel()
	if err != nil {
		return PushReport{}, Summary{}, fmt.Errorf("fetch sheet rows: %w", err)
	}

	if len(rows) == 0 {
		if err := s.writeRow(ctx, 0, model.SheetHeaders); err != nil {
			return PushReport{}, Summary{}, fmt.Errorf("write sheet header: %w", err)
		}
		rows = [][]string{model.SheetHeaders}
	}

	// rows are matched the way SyncFromSheet reads them: a header only when row 1 is one,
	// and the last row of a duplicated ID
	rowIndex := make(map[string]int, len(rows))
	for i, cells := range rows {
		if len(cells) == 0 || (i == 0 && model.IsHeaderRow(cells)) {
			continue
		}
		if id := model.CleanCell(cells[model.ColID]); id != "" {
			rowIndex[id] = i + 1
		}
	}

	var report PushReport
	for _, p := range sortedProducts(s.state.catalog) {
		values := model.RowFromProduct(p)
		idx, exists := rowIndex[p.ID]
		switch {
		case exists && model.SameRowContent(rows[idx-1], values):
			report.Unchanged++
			continue
		case exists:
			err = s.writeRow(ctx, idx, values)
		default:
			err = s.writeRow(ctx, 0, values)
		}
		if err != nil {
			report.Failed++
			metrics.PushRows.WithLabelValues("failed").Inc()
			slog.Warn("failed to push product row", slog.String("id", p.ID), slog.Any("err", err))
			continue
		}
		if exists {
			report.Updated++
			metrics.PushRows.WithLabelValues("updated").Inc()
		} else {
			report.Appended++
			metrics.PushRows.WithLabelValues("appended").Inc()
		}
	}

	slog.Info("pushed catalog to sheet",
		slog.Int("updated", report.Updated),
		slog.Int("appended", report.Appended),
		slog.Int("unchanged", report.Unchanged),
		slog.Int("failed", report.Failed))
	return report, pushSummary(report), nil
}

// writeRow updates the sheet row at index, or appends when index is 0.
func (s *CatalogService) writeRow(ctx context.Context, index int, values []string) error {
	rowCtx, cancel := context.WithTimeout(ctx, s.sheetTimeout)
	defer cancel()
	if index == 0 {
		return s.sheet.AppendRow(rowCtx, values)
	}
	return s.sheet.UpdateRow(rowCtx, index, values)
}

// ExportSite regenerates the storefront data block from the current catalog.
func (s *CatalogService) ExportSite(ctx context.Context) (Summary, error) {
	if s.site == nil {
		return Summary{}, ErrSiteNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.site.Write(s.state.catalog.Products())
	if err != nil {
		return Summary{}, fmt.Errorf("export site: %w", err)
	}

	metrics.SiteExports.Inc()
	s.publish(ctx, model.CatalogEvent{Action: model.EventSiteExported, Count: count})
	return Summary{
		Operation: OpExport,
		Message:   fmt.Sprintf("Site data exported: %d products", count),
		Count:     count,
		Changed:   true,
	}, nil
}

// persist saves the catalog. The in-memory catalog stays authoritative when saving fails.
func (s *CatalogService) persist(ctx context.Context) error {
	if err := s.state.catalog.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, sortedProducts(s.state.catalog)); err != nil {
		slog.Error("failed to persist catalog", slog.Any("err", err))
		return err
	}
	metrics.CatalogSize.Set(float64(s.state.catalog.Len()))
	return nil
}

func (s *CatalogService) publish(ctx context.Context, event model.CatalogEvent) {
	if s.publisher == nil {
		return
	}
	event.InitMeta()
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to publish catalog event", slog.Any("err", err), slog.String("action", string(event.Action)), slog.String("product_id", event.ProductID))
	}
}

func sortedProducts(c *catalog.Catalog) []*model.Product {
	products := c.Products()
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Section != products[j].Section {
			return products[i].Section < products[j].Section
		}
		return catalog.Less(products[i], products[j])
	})
	return products
}

func cloneAll(products []*model.Product) []*model.Product {
	result := make([]*model.Product, len(products))
	for i, p := range products {
		result[i] = p.Clone()
	}
	return result
}
