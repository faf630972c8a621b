// Package jsonfile persists the product collection as a human-editable JSON file.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/repository"
)

const filePerm = 0o644

// Store implements repository.ProductStore on top of a single JSON file.
type Store struct {
	path string
}

// NewStore creates a Store that reads and writes the given file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the products file. A missing or corrupt file is an empty catalog.
func (s *Store) Load(_ context.Context) ([]*model.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("product store not found, starting with an empty catalog", slog.String("path", s.path))
		} else {
			slog.Error("failed to read product store, starting with an empty catalog", slog.String("path", s.path), slog.Any("err", err))
		}
		return []*model.Product{}, nil
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return []*model.Product{}, nil
	}

	var products []*model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		slog.Error("product store is corrupt, starting with an empty catalog", slog.String("path", s.path), slog.Any("err", err))
		return []*model.Product{}, nil
	}

	slog.Info("product store loaded", slog.String("path", s.path), slog.Int("count", len(products)))
	return products, nil
}

// Save writes the products to a temporary file next to the target and renames it into place.
func (s *Store) Save(_ context.Context, products []*model.Product) error {
	if products == nil {
		products = []*model.Product{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return fmt.Errorf("%w: encode: %w", repository.ErrStoreWrite, err)
	}

	if err := WriteFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
	}

	slog.Debug("product store saved", slog.String("path", s.path), slog.Int("count", len(products)))
	return nil
}

// WriteFileAtomic replaces path with data using a temp file and rename in the same directory.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
