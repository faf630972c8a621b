// Package images manages the per-product asset folders under the images root.
package images

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iyhunko/platforma-manager/internal/model"
)

// PlaceholderPath is returned by CoverPath when a product has no usable image.
const PlaceholderPath = "img/placeholder.jpg"

var (
	// ErrUnsupportedFormat is returned for files that are not web images.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidID is returned for product IDs that would not name a folder directly under the root.
	ErrInvalidID = errors.New("invalid product id")
)

var supportedExt = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".webp": ".webp",
	".gif":  ".gif",
}

// Library stores product images as {root}/product_{id}/product_{id}_{n}.{ext}.
type Library struct {
	root string
}

// NewLibrary creates a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{root: dir}
}

// Root returns the images root directory.
func (l *Library) Root() string {
	return l.root
}

// Dir returns the folder holding the images of a product.
func (l *Library) Dir(id string) string {
	return filepath.Join(l.root, FolderName(id))
}

// productDir is Dir for IDs that pass model.ValidID and resolve to a direct child of the root.
func (l *Library) productDir(id string) (string, error) {
	if !model.ValidID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	dir := l.Dir(id)
	if filepath.Dir(dir) != filepath.Clean(l.root) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return dir, nil
}

// FolderName is the per-product folder name.
func FolderName(id string) string {
	return "product_" + id
}

// FileName is the name of the n-th image of a product. ext must include the dot.
func FileName(id string, n int, ext string) string {
	return fmt.Sprintf("product_%s_%d%s", id, n, ext)
}

// NormalizeExt lowercases the extension of name and maps .jpeg to .jpg.
func NormalizeExt(name string) (string, error) {
	ext, ok := supportedExt[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}
	return ext, nil
}

// Import copies the source files into the product folder, numbering them from 1.
// It returns the stored file names in source order.
func (l *Library) Import(id string, sources []string) ([]string, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	exts := make([]string, len(sources))
	for i, src := range sources {
		ext, err := NormalizeExt(src)
		if err != nil {
			return nil, err
		}
		exts[i] = ext
	}

	dir, err := l.productDir(id)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image folder %s: %w", dir, err)
	}

	names := make([]string, 0, len(sources))
	for i, src := range sources {
		name := FileName(id, i+1, exts[i])
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			return names, fmt.Errorf("import %s: %w", src, err)
		}
		names = append(names, name)
	}
	slog.Debug("images imported", slog.String("id", id), slog.Int("count", len(names)))
	return names, nil
}

// RemoveProductDir deletes the product folder. A missing folder is not an error.
func (l *Library) RemoveProductDir(id string) error {
	dir, err := l.productDir(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove image folder %s: %w", dir, err)
	}
	return nil
}

// CoverPath returns the path of the cover image of a product, or PlaceholderPath.
// The first stored image reference wins; otherwise the product folder is searched for the
// conventional names and then for the first image file by name.
func (l *Library) CoverPath(id string, images []string) string {
	if _, err := l.productDir(id); err != nil {
		return PlaceholderPath
	}
	if len(images) > 0 {
		first := strings.TrimSpace(images[0])
		candidates := []string{filepath.Join(l.root, filepath.FromSlash(first))}
		if !strings.Contains(first, "/") {
			candidates = append(candidates, filepath.Join(l.Dir(id), first))
		}
		for _, candidate := range candidates {
			if isFile(candidate) {
				return candidate
			}
		}
	}

	dir := l.Dir(id)
	for _, name := range []string{"cover.jpg", id + "_1.jpg", FileName(id, 1, ".jpg"), "1.jpg"} {
		if candidate := filepath.Join(dir, name); isFile(candidate) {
			return candidate
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return PlaceholderPath
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := supportedExt[strings.ToLower(filepath.Ext(entry.Name()))]; ok && !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return PlaceholderPath
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
