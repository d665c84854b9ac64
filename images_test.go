package folio

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSize(t *testing.T, p string) (int, int, string) {
	t.Helper()
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height, format
}

func TestPublishAssetResizesWidePNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	writePNG(t, src, 1920, 1080)

	dst := filepath.Join(dir, "out", "nested", "wide.png")
	resized, err := publishAsset(src, dst)
	require.NoError(t, err)
	assert.True(t, resized)

	w, h, format := decodeSize(t, dst)
	assert.Equal(t, maxImageWidth, w)
	assert.Equal(t, 540, h)
	assert.Equal(t, "png", format)
}

func TestPublishAssetResizesWideJPEG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.JPG")
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	img.Set(1, 1, color.White)
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	dst := filepath.Join(dir, "out.jpg")
	resized, err := publishAsset(src, dst)
	require.NoError(t, err)
	assert.True(t, resized)
	w, h, format := decodeSize(t, dst)
	assert.Equal(t, maxImageWidth, w)
	assert.Equal(t, 480, h)
	assert.Equal(t, "jpeg", format)
}

func TestPublishAssetCopiesSmallImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	writePNG(t, src, 200, 100)

	dst := filepath.Join(dir, "copy.png")
	resized, err := publishAsset(src, dst)
	require.NoError(t, err)
	assert.False(t, resized)

	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPublishAssetCopiesOtherFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "slides.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))

	dst := filepath.Join(dir, "out", "slides.pdf")
	resized, err := publishAsset(src, dst)
	require.NoError(t, err)
	assert.False(t, resized)
	assert.FileExists(t, dst)
}

func TestPublishAssetRejectsCorruptImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(src, []byte("not a png"), 0o644))
	_, err := publishAsset(src, filepath.Join(dir, "out.png"))
	require.Error(t, err)
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("2"), 0o644))

	dst := t.TempDir()
	n, err := copyTree(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(dst, "a", "b", "deep.txt"))

	n, err = copyTree(filepath.Join(src, "missing"), dst)
	require.NoError(t, err)
	assert.Zero(t, n)
}
