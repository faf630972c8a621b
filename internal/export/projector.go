// Package export projects the catalog into the data consumed by the static storefront.
package export

import (
	"path"
	"sort"
	"strings"

	"github.com/iyhunko/platforma-manager/internal/catalog"
	"github.com/iyhunko/platforma-manager/internal/model"
)

const (
	DefaultAssetsPrefix = "img"
	DefaultLink         = "https://t.me/stub123"
)

// Projector turns products into site items. It holds no state between calls.
type Projector struct {
	AssetsPrefix  string
	DefaultLink   string
	DefaultStatus model.Status
}

// NewProjector creates a Projector, falling back to the package defaults for empty values.
func NewProjector(assetsPrefix, defaultLink string) *Projector {
	if assetsPrefix == "" {
		assetsPrefix = DefaultAssetsPrefix
	}
	if defaultLink == "" {
		defaultLink = DefaultLink
	}
	return &Projector{
		AssetsPrefix:  strings.TrimRight(assetsPrefix, "/"),
		DefaultLink:   defaultLink,
		DefaultStatus: model.StatusStock,
	}
}

// Project returns one site item per product, sorted by section, then order, then id.
func (p *Projector) Project(products []*model.Product) []model.SiteItem {
	sorted := sortProducts(products)
	items := make([]model.SiteItem, 0, len(sorted))
	for _, product := range sorted {
		items = append(items, p.item(product))
	}
	return items
}

// ProjectSections groups the projected items by section name in ascending order.
func (p *Projector) ProjectSections(products []*model.Product) []model.SiteSection {
	var sections []model.SiteSection
	for _, product := range sortProducts(products) {
		if len(sections) == 0 || sections[len(sections)-1].Name != product.Section {
			sections = append(sections, model.SiteSection{Name: product.Section})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, p.item(product))
	}
	return sections
}

func (p *Projector) item(product *model.Product) model.SiteItem {
	link := strings.TrimSpace(product.Link)
	if link == "" {
		link = p.DefaultLink
	}
	status := product.Status
	if status == "" {
		status = p.DefaultStatus
	}
	images := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		images = append(images, p.resolveImage(product.ID, img))
	}
	return model.SiteItem{
		Images: images,
		Title:  product.Title,
		Price:  product.Price,
		Desc:   product.Desc,
		Meta:   product.Meta,
		Link:   link,
		Status: status,
	}
}

// resolveImage keeps references that already carry a directory or a scheme and places bare
// file names into the product's asset folder.
func (p *Projector) resolveImage(id, img string) string {
	img = strings.TrimSpace(img)
	if strings.Contains(img, "/") || strings.Contains(img, "\\") {
		return strings.ReplaceAll(img, "\\", "/")
	}
	return path.Join(p.AssetsPrefix, "product_"+id, img)
}

func sortProducts(products []*model.Product) []*model.Product {
	sorted := make([]*model.Product, 0, len(products))
	for _, product := range products {
		if product != nil {
			sorted = append(sorted, product)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Section != sorted[j].Section {
			return sorted[i].Section < sorted[j].Section
		}
		return catalog.Less(sorted[i], sorted[j])
	})
	return sorted
}
