package model

// SiteItem is one product as consumed by the generated storefront.
type SiteItem struct {
	Images []string `json:"images"`
	Title  string   `json:"title"`
	Price  string   `json:"price"`
	Desc   string   `json:"desc"`
	Meta   string   `json:"meta"`
	Link   string   `json:"link"`
	Status Status   `json:"status"`
}

// SiteSection groups the site items of one section in display order.
type SiteSection struct {
	Name  string     `json:"name"`
	Items []SiteItem `json:"items"`
}
