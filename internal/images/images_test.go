package images_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iyhunko/platforma-manager/internal/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport(t *testing.T) {
	// given
	src := t.TempDir()
	lib := images.NewLibrary(filepath.Join(t.TempDir(), "img"))
	a := writeFile(t, filepath.Join(src, "Front.JPEG"), "front")
	b := writeFile(t, filepath.Join(src, "back.png"), "back")

	// when
	names, err := lib.Import("7", []string{a, b})

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"product_7_1.jpg", "product_7_2.png"}, names)
	data, err := os.ReadFile(filepath.Join(lib.Dir("7"), "product_7_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "front", string(data))
}

func TestImport_RejectsUnsupportedFormat(t *testing.T) {
	lib := images.NewLibrary(t.TempDir())
	doc := writeFile(t, filepath.Join(t.TempDir(), "notes.txt"), "x")

	_, err := lib.Import("1", []string{doc})

	assert.ErrorIs(t, err, images.ErrUnsupportedFormat)
	assert.NoDirExists(t, lib.Dir("1"))
}

func TestRemoveProductDir(t *testing.T) {
	lib := images.NewLibrary(t.TempDir())
	writeFile(t, filepath.Join(lib.Dir("3"), "product_3_1.jpg"), "x")

	require.NoError(t, lib.RemoveProductDir("3"))
	assert.NoDirExists(t, lib.Dir("3"))

	require.NoError(t, lib.RemoveProductDir("3"), "missing folder is fine")
	assert.ErrorIs(t, lib.RemoveProductDir(" "), images.ErrInvalidID)
}

func TestRemoveProductDir_StaysInsideRoot(t *testing.T) {
	// given
	site := t.TempDir()
	root := filepath.Join(site, "img")
	lib := images.NewLibrary(root)
	sibling := writeFile(t, filepath.Join(site, "index.html"), "keep")
	kept := writeFile(t, filepath.Join(lib.Dir("1"), "product_1_1.jpg"), "keep")

	for _, id := range []string{"1/../..", "..", `1\..\..`, "1/x"} {
		// when
		err := lib.RemoveProductDir(id)

		// then
		assert.ErrorIs(t, err, images.ErrInvalidID, id)
	}
	assert.FileExists(t, sibling)
	assert.FileExists(t, kept)
	assert.DirExists(t, root)
}

func TestImport_RejectsPathLikeID(t *testing.T) {
	root := filepath.Join(t.TempDir(), "img")
	lib := images.NewLibrary(root)
	src := writeFile(t, filepath.Join(t.TempDir(), "a.jpg"), "x")

	_, err := lib.Import("../escape", []string{src})

	assert.ErrorIs(t, err, images.ErrInvalidID)
	assert.NoDirExists(t, root)
	assert.Equal(t, images.PlaceholderPath, lib.CoverPath("../escape", []string{"a.jpg"}))
}

func TestCoverPath(t *testing.T) {
	root := t.TempDir()
	lib := images.NewLibrary(root)

	t.Run("should use first stored image", func(t *testing.T) {
		path := writeFile(t, filepath.Join(lib.Dir("1"), "product_1_2.png"), "x")

		assert.Equal(t, path, lib.CoverPath("1", []string{"product_1_2.png", "product_1_1.jpg"}))
	})

	t.Run("should fall back to conventional name", func(t *testing.T) {
		path := writeFile(t, filepath.Join(lib.Dir("2"), "product_2_1.jpg"), "x")

		assert.Equal(t, path, lib.CoverPath("2", []string{"missing.jpg"}))
	})

	t.Run("should pick first image file by name", func(t *testing.T) {
		writeFile(t, filepath.Join(lib.Dir("4"), "b.webp"), "x")
		path := writeFile(t, filepath.Join(lib.Dir("4"), "a.gif"), "x")
		writeFile(t, filepath.Join(lib.Dir("4"), "0.txt"), "x")

		assert.Equal(t, path, lib.CoverPath("4", nil))
	})

	t.Run("should return placeholder", func(t *testing.T) {
		assert.Equal(t, images.PlaceholderPath, lib.CoverPath("9", nil))
	})
}
