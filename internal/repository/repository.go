package repository

import (
	"context"
	"errors"

	"github.com/iyhunko/platforma-manager/internal/model"
)

var (
	// ErrStoreWrite is returned when the product store cannot be persisted.
	ErrStoreWrite = errors.New("failed to write product store")
)

// ProductStore defines durable storage for the product collection.
type ProductStore interface {
	// Load returns the persisted products. Missing or unreadable storage yields an empty list.
	Load(ctx context.Context) ([]*model.Product, error)
	// Save atomically replaces the persisted products.
	Save(ctx context.Context, products []*model.Product) error
}
