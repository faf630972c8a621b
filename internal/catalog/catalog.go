// Package catalog holds the in-memory product collection and keeps the per-section
// order ranks contiguous across inserts, removals and moves.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/iyhunko/platforma-manager/internal/model"
)

var (
	// ErrNotFound is returned when no product has the requested ID.
	ErrNotFound = errors.New("product not found")
	// ErrInvariantViolation is returned when an operation would break the catalog invariants.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrAlreadyAtTop is returned by MoveUp for the first product of a section.
	ErrAlreadyAtTop = errors.New("product is already at the top")
	// ErrAlreadyAtBottom is returned by MoveDown for the last product of a section.
	ErrAlreadyAtBottom = errors.New("product is already at the bottom")
)

// InvariantError describes a rejected operation or a broken invariant.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Detail
}

// Is makes errors.Is(err, ErrInvariantViolation) match.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolation
}

func invariantf(format string, args ...any) error {
	return &InvariantError{Detail: fmt.Sprintf(format, args...)}
}

// Catalog is an ordered collection of products. Products are held by pointer so
// callers keep seeing updates made through reconciliation.
type Catalog struct {
	products []*model.Product
	byID     map[string]*model.Product
}

// New builds a catalog from loaded products. Duplicate IDs keep the first record and
// every section is compacted so the invariants hold.
func New(products []*model.Product) *Catalog {
	c := &Catalog{byID: make(map[string]*model.Product, len(products))}
	for _, p := range products {
		if p == nil {
			continue
		}
		if _, exists := c.byID[p.ID]; exists {
			slog.Warn("dropping product with duplicate id", slog.String("id", p.ID), slog.String("title", p.Title))
			continue
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	c.Normalize()
	return c
}

// Products returns the products in insertion order. The slice is a copy; the products are shared.
func (c *Catalog) Products() []*model.Product {
	return append([]*model.Product(nil), c.products...)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// FindByID returns the product with the given ID.
func (c *Catalog) FindByID(id string) (*model.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// BySection returns the products of a section ordered by order, then ID.
func (c *Catalog) BySection(section string) []*model.Product {
	var result []*model.Product
	for _, p := range c.products {
		if p.Section == section {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return Less(result[i], result[j])
	})
	return result
}

// Sections returns the distinct section names in ascending order.
func (c *Catalog) Sections() []string {
	seen := make(map[string]struct{})
	var sections []string
	for _, p := range c.products {
		if _, ok := seen[p.Section]; !ok {
			seen[p.Section] = struct{}{}
			sections = append(sections, p.Section)
		}
	}
	sort.Strings(sections)
	return sections
}

// NextFreeID returns the smallest positive integer not used as a numeric ID.
func (c *Catalog) NextFreeID() string {
	used := make(map[int]struct{}, len(c.products))
	for _, p := range c.products {
		if n, err := strconv.Atoi(p.ID); err == nil && n > 0 {
			used[n] = struct{}{}
		}
	}
	id := 1
	for {
		if _, ok := used[id]; !ok {
			return strconv.Itoa(id)
		}
		id++
	}
}

// Append adds a product without touching other ranks. Callers are expected to
// renumber the section afterwards.
func (c *Catalog) Append(p *model.Product) error {
	if _, exists := c.byID[p.ID]; exists {
		return invariantf("duplicate id %s", p.ID)
	}
	c.products = append(c.products, p)
	c.byID[p.ID] = p
	return nil
}

// Validate checks ID uniqueness, per-section order contiguity and cover images.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.products))
	for _, p := range c.products {
		if _, ok := seen[p.ID]; ok {
			return invariantf("duplicate id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		if len(p.Images) > 0 && p.Cover() == "" {
			return invariantf("product %s has a blank cover image", p.ID)
		}
	}
	for _, section := range c.Sections() {
		for i, p := range c.BySection(section) {
			if p.Order != i+1 {
				return invariantf("section %q: product %s has order %d, want %d", section, p.ID, p.Order, i+1)
			}
		}
	}
	return nil
}

// Less orders products by rank, then by ID. Numeric IDs compare numerically and
// sort before non-numeric ones.
func Less(a, b *model.Product) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return lessID(a.ID, b.ID)
}

func lessID(a, b string) bool {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return an < bn
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
