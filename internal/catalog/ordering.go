package catalog

import (
	"github.com/iyhunko/platforma-manager/internal/model"
)

// InsertAtTop adds p with order 1 and shifts every product of its section down by one.
func (c *Catalog) InsertAtTop(p *model.Product) error {
	if _, exists := c.byID[p.ID]; exists {
		return invariantf("duplicate id %s", p.ID)
	}
	if p.Section == "" {
		return invariantf("product %s has no section", p.ID)
	}
	for _, other := range c.products {
		if other.Section == p.Section {
			other.Order++
		}
	}
	p.Order = 1
	c.products = append(c.products, p)
	c.byID[p.ID] = p
	return nil
}

// Remove deletes the product and closes the gap it leaves in its section.
func (c *Catalog) Remove(id string) (*model.Product, error) {
	removed, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	kept := c.products[:0]
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	// clear the tail so the removed pointer is not retained by the backing array
	for i := len(kept); i < len(c.products); i++ {
		c.products[i] = nil
	}
	c.products = kept
	delete(c.byID, id)

	for _, p := range c.products {
		if p.Section == removed.Section && p.Order > removed.Order {
			p.Order--
		}
	}
	return removed, nil
}

// Swap exchanges the ranks of two products of the same section.
func (c *Catalog) Swap(idA, idB string) error {
	a, ok := c.byID[idA]
	if !ok {
		return ErrNotFound
	}
	b, ok := c.byID[idB]
	if !ok {
		return ErrNotFound
	}
	if a.Section != b.Section {
		return invariantf("cannot swap %s (%s) with %s (%s) across sections", a.ID, a.Section, b.ID, b.Section)
	}
	a.Order, b.Order = b.Order, a.Order
	return nil
}

// MoveUp swaps the product with its predecessor in the section.
func (c *Catalog) MoveUp(id string) error {
	return c.moveBy(id, -1)
}

// MoveDown swaps the product with its successor in the section.
func (c *Catalog) MoveDown(id string) error {
	return c.moveBy(id, 1)
}

func (c *Catalog) moveBy(id string, delta int) error {
	p, ok := c.byID[id]
	if !ok {
		return ErrNotFound
	}
	section := c.BySection(p.Section)
	idx := -1
	for i, candidate := range section {
		if candidate == p {
			idx = i
			break
		}
	}
	target := idx + delta
	switch {
	case target < 0:
		return ErrAlreadyAtTop
	case target >= len(section):
		return ErrAlreadyAtBottom
	}
	neighbour := section[target]
	p.Order, neighbour.Order = neighbour.Order, p.Order
	return nil
}

// ChangeSection moves a product to the top of another section and compacts the old one.
func (c *Catalog) ChangeSection(id, section string) error {
	p, ok := c.byID[id]
	if !ok {
		return ErrNotFound
	}
	if section == "" {
		return invariantf("product %s cannot move to an empty section", id)
	}
	if p.Section == section {
		return nil
	}
	old := p.Section
	for _, other := range c.products {
		switch {
		case other == p:
		case other.Section == old && other.Order > p.Order:
			other.Order--
		case other.Section == section:
			other.Order++
		}
	}
	p.Section = section
	p.Order = 1
	return nil
}

// Renumber assigns ranks 1..N to the given products in slice order.
func Renumber(products []*model.Product) {
	for i, p := range products {
		p.Order = i + 1
	}
}

// Normalize compacts every section to ranks 1..N, keeping the current relative order.
// It returns the number of products whose rank changed.
func (c *Catalog) Normalize() int {
	changed := 0
	for _, section := range c.Sections() {
		for i, p := range c.BySection(section) {
			if p.Order != i+1 {
				p.Order = i + 1
				changed++
			}
		}
	}
	return changed
}
