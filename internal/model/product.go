package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status represents the availability of a product on the storefront.
type Status string

const (
	// StatusStock marks a product that can be ordered right away.
	StatusStock Status = "stock"
	// StatusPreorder marks a product that is sold on preorder.
	StatusPreorder Status = "preorder"

	// legacyStatusActive is written by older versions of the manager.
	legacyStatusActive = "active"
)

var idPattern = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

// ValidID reports whether id can name a product. IDs double as image folder names,
// so path separators and dots are rejected.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// DefaultSection is used for rows and records that carry no section.
const DefaultSection = "home"

// UnrankedOrder is assigned when an order value cannot be parsed. It sorts after every ranked product.
const UnrankedOrder = 999

var (
	// ErrInvalidProduct is returned when a product fails validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidStatus is returned when a status string is not recognized.
	ErrInvalidStatus = errors.New("invalid status")
)

// ParseStatus converts a raw status string into a Status.
// The legacy "active" value and the empty string both mean StatusStock.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(StatusStock), legacyStatusActive:
		return StatusStock, nil
	case string(StatusPreorder), "pre-order":
		return StatusPreorder, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// Product represents a catalog entry with its display fields and position in a section.
type Product struct {
	ID      string    `json:"id"`
	Section string    `json:"section"`
	Order   int       `json:"order"`
	Title   string    `json:"title"`
	Price   string    `json:"price"`
	Desc    string    `json:"desc"`
	Meta    string    `json:"meta"`
	Status  Status    `json:"status"`
	Link    string    `json:"link"`
	Images  []string  `json:"images"`
	Updated time.Time `json:"updated"`
}

// InitMeta stamps the product as modified now.
func (p *Product) InitMeta() {
	p.Updated = time.Now().UTC()
}

// Cover returns the first image reference, or an empty string when the product has no images.
func (p *Product) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Validate checks the fields every stored product must carry.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidProduct)
	}
	if !ValidID(p.ID) {
		return fmt.Errorf("%w: id %q may only contain letters, digits, '-' and '_'", ErrInvalidProduct, p.ID)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is empty (id %s)", ErrInvalidProduct, p.ID)
	}
	if strings.TrimSpace(p.Section) == "" {
		return fmt.Errorf("%w: section is empty (id %s)", ErrInvalidProduct, p.ID)
	}
	if p.Order < 1 {
		return fmt.Errorf("%w: order %d must be positive (id %s)", ErrInvalidProduct, p.Order, p.ID)
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return fmt.Errorf("%w: %w (id %s)", ErrInvalidProduct, err, p.ID)
	}
	for i, img := range p.Images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("%w: image %d is blank (id %s)", ErrInvalidProduct, i+1, p.ID)
		}
	}
	return nil
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	c := *p
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	return &c
}

// SameContent reports whether both products carry identical data, ignoring the Updated stamp.
func (p *Product) SameContent(other *Product) bool {
	if p.ID != other.ID || p.Section != other.Section || p.Order != other.Order ||
		p.Title != other.Title || p.Price != other.Price || p.Desc != other.Desc ||
		p.Meta != other.Meta || p.Status != other.Status || p.Link != other.Link {
		return false
	}
	if len(p.Images) != len(other.Images) {
		return false
	}
	for i := range p.Images {
		if p.Images[i] != other.Images[i] {
			return false
		}
	}
	return true
}

// SplitImages parses the serialized image list used in sheets and legacy JSON files.
// Entries are separated by "|"; a value without "|" may use "," instead.
func SplitImages(raw string) []string {
	sep := "|"
	if !strings.Contains(raw, "|") && strings.Contains(raw, ",") {
		sep = ","
	}
	var images []string
	for _, part := range strings.Split(raw, sep) {
		if img := strings.TrimSpace(part); img != "" {
			images = append(images, img)
		}
	}
	return images
}

// JoinImages serializes an image list for a sheet cell.
func JoinImages(images []string) string {
	return strings.Join(images, "|")
}

// ParseOrder converts a raw order value. Malformed or non-positive values map to UnrankedOrder.
func ParseOrder(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return UnrankedOrder, false
	}
	return n, true
}

// productJSON mirrors Product with loosely typed fields accepted from older files.
type productJSON struct {
	ID      json.RawMessage `json:"id"`
	Section string          `json:"section"`
	Order   json.RawMessage `json:"order"`
	Title   string          `json:"title"`
	Price   string          `json:"price"`
	Desc    string          `json:"desc"`
	Meta    string          `json:"meta"`
	Status  string          `json:"status"`
	Link    string          `json:"link"`
	Images  json.RawMessage `json:"images"`
	Updated string          `json:"updated"`
}

// UnmarshalJSON accepts both the current format and the legacy one where order is a string
// and images is a single separated string.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := scalarString(raw.ID)
	if err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	orderRaw, err := scalarString(raw.Order)
	if err != nil {
		return fmt.Errorf("decode order (id %s): %w", id, err)
	}
	order, _ := ParseOrder(orderRaw)

	status, err := ParseStatus(raw.Status)
	if err != nil {
		status = StatusStock
	}

	images, err := decodeImages(raw.Images)
	if err != nil {
		return fmt.Errorf("decode images (id %s): %w", id, err)
	}

	var updated time.Time
	if raw.Updated != "" {
		updated = parseTimestamp(raw.Updated)
	}

	*p = Product{
		ID:      strings.TrimSpace(id),
		Section: strings.TrimSpace(raw.Section),
		Order:   order,
		Title:   raw.Title,
		Price:   raw.Price,
		Desc:    raw.Desc,
		Meta:    raw.Meta,
		Status:  status,
		Link:    raw.Link,
		Images:  images,
		Updated: updated,
	}
	return nil
}

func scalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func decodeImages(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		var images []string
		for _, img := range list {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}
		return images, nil
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil, err
	}
	return SplitImages(joined), nil
}

// parseTimestamp accepts RFC 3339 and the naive ISO format written by the old manager.
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
