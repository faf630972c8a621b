package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file is an empty catalog", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "products.json"))

		products, err := store.Load(ctx)

		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("corrupt file is an empty catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id": "1",`), 0o644))
		store := NewStore(path)

		products, err := store.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("legacy file is decoded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		legacy := "\xef\xbb\xbf" + `[{"id":"1","title":"Shirt","section":"home","order":"2","status":"active","images":"a.jpg|b.jpg"}]`
		require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))
		store := NewStore(path)

		products, err := store.Load(ctx)

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, 2, products[0].Order)
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, products[0].Images)
	})
}

func TestStore_SaveAndLoad(t *testing.T) {
	// given
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "products.json")
	store := NewStore(path)
	products := []*model.Product{
		{ID: "1", Section: "home", Order: 1, Title: "Рубашка", Status: model.StatusStock, Images: []string{"product_1_1.jpg"}},
		{ID: "2", Section: "home", Order: 2, Title: "Pants & Belt", Status: model.StatusPreorder},
	}

	// when
	err := store.Save(ctx, products)
	require.NoError(t, err)
	loaded, err := store.Load(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for i := range products {
		assert.True(t, products[i].SameContent(loaded[i]))
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Рубашка")
	assert.Contains(t, string(raw), "Pants & Belt")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_SaveFailure(t *testing.T) {
	// given
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	store := NewStore(filepath.Join(blocker, "products.json"))

	// when
	err := store.Save(context.Background(), nil)

	// then
	assert.True(t, errors.Is(err, repository.ErrStoreWrite))
}
