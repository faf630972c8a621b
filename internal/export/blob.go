package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/repository/jsonfile"
)

const (
	BeginMarker = "/* ===== CATALOG DATA BEGIN ===== */"
	EndMarker   = "/* ===== CATALOG DATA END ===== */"
)

// ErrMalformedBlock is returned when the begin marker is present without a matching end marker.
var ErrMalformedBlock = errors.New("catalog data block is malformed")

// RenderBlob renders the delimited JavaScript data block, markers included.
func (p *Projector) RenderBlob(products []*model.Product) (string, error) {
	items, err := marshalJS(p.Project(products))
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	sections, err := marshalJS(p.ProjectSections(products))
	if err != nil {
		return "", fmt.Errorf("encode sections: %w", err)
	}
	link, err := marshalJS(p.DefaultLink)
	if err != nil {
		return "", fmt.Errorf("encode default link: %w", err)
	}

	var b strings.Builder
	b.WriteString(BeginMarker + "\n")
	b.WriteString("const DEFAULT_TG = " + link + ";\n")
	b.WriteString("const items = " + items + ";\n")
	b.WriteString("const sections = " + sections + ";\n")
	b.WriteString(EndMarker)
	return b.String(), nil
}

// ReplaceBlock swaps the delimited block in content for block. When the markers are
// missing the block is prepended.
func ReplaceBlock(content, block string) (string, error) {
	start := strings.Index(content, BeginMarker)
	if start < 0 {
		if content == "" {
			return block + "\n", nil
		}
		return block + "\n\n" + content, nil
	}
	rel := strings.Index(content[start:], EndMarker)
	if rel < 0 {
		return "", ErrMalformedBlock
	}
	end := start + rel + len(EndMarker)
	return content[:start] + block + content[end:], nil
}

func marshalJS(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// SiteWriter regenerates the data block inside the site script file.
type SiteWriter struct {
	projector *Projector
	path      string
}

// NewSiteWriter creates a SiteWriter for the file at path.
func NewSiteWriter(projector *Projector, path string) *SiteWriter {
	return &SiteWriter{projector: projector, path: path}
}

// Path returns the site data file path.
func (w *SiteWriter) Path() string {
	return w.path
}

// Write renders the products and replaces the block in the site data file atomically.
// A missing file is created. It returns the number of exported items.
func (w *SiteWriter) Write(products []*model.Product) (int, error) {
	block, err := w.projector.RenderBlob(products)
	if err != nil {
		return 0, err
	}

	content, err := os.ReadFile(w.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("read site data %s: %w", w.path, err)
	}

	updated, err := ReplaceBlock(string(content), block)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", w.path, err)
	}
	if updated == string(content) {
		slog.Debug("site data unchanged", slog.String("path", w.path))
		return len(products), nil
	}

	if err := jsonfile.WriteFileAtomic(w.path, []byte(updated)); err != nil {
		return 0, fmt.Errorf("write site data %s: %w", w.path, err)
	}
	slog.Info("site data exported", slog.String("path", w.path), slog.Int("items", len(products)))
	return len(products), nil
}
