package game

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/decker502/waterfx/pkg/config"
	"github.com/decker502/waterfx/pkg/embedded"
)

// createTestImage creates a simple test PNG image for testing purposes.
func createTestImage(path string) error {
	// Create a simple 10x10 blue image
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	blue := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, blue)
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Save the image
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// testAtlasYAML is a minimal prebuilt atlas with the '?' fallback glyph.
const testAtlasYAML = `
cap_height: 10
x_height: 7
ascent: 10
descent: 2
space_advance: 4
aspect: 1
row_height: 12
chars:
  "?": {rect: [0, 0, 6, 12], bearing_x: 0, advance_x: 6, flags: 0}
  "A": {rect: [6, 0, 14, 12], bearing_x: 0, advance_x: 8, flags: 0}
`

// TestNewResourceManager tests the creation of a new ResourceManager instance.
func TestNewResourceManager(t *testing.T) {
	rm := NewResourceManager()

	if rm == nil {
		t.Fatal("NewResourceManager returned nil")
	}

	if rm.imageCache == nil {
		t.Error("imageCache is nil")
	}

	if rm.fontFaceCache == nil {
		t.Error("fontFaceCache is nil")
	}
}

// TestLoadImage_Success tests successful image loading.
func TestLoadImage_Success(t *testing.T) {
	testImagePath := filepath.Join(t.TempDir(), "test.png")
	if err := createTestImage(testImagePath); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	rm := NewResourceManager()

	img, err := rm.LoadImage(testImagePath)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if img == nil {
		t.Fatal("LoadImage returned nil image")
	}

	// Verify dimensions
	bounds := img.Bounds()
	if bounds.Dx() != 10 || bounds.Dy() != 10 {
		t.Errorf("Image dimensions incorrect: got %dx%d, want 10x10", bounds.Dx(), bounds.Dy())
	}
}

// TestLoadImage_CachingMechanism tests that images are cached properly.
func TestLoadImage_CachingMechanism(t *testing.T) {
	testImagePath := filepath.Join(t.TempDir(), "test_cache.png")
	if err := createTestImage(testImagePath); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	rm := NewResourceManager()

	img1, err1 := rm.LoadImage(testImagePath)
	if err1 != nil {
		t.Fatalf("First LoadImage failed: %v", err1)
	}

	img2, err2 := rm.LoadImage(testImagePath)
	if err2 != nil {
		t.Fatalf("Second LoadImage failed: %v", err2)
	}

	// Verify they are the same instance (cached)
	if img1 != img2 {
		t.Error("Images are not cached - different instances returned")
	}

	if rm.GetImage(testImagePath) != img1 {
		t.Error("GetImage returned different instance than LoadImage")
	}
}

// TestLoadImage_Errors tests error handling for missing and invalid files.
func TestLoadImage_Errors(t *testing.T) {
	dir := t.TempDir()
	invalidPath := filepath.Join(dir, "invalid.png")
	if err := os.WriteFile(invalidPath, []byte("not a valid png"), 0644); err != nil {
		t.Fatalf("Failed to create invalid file: %v", err)
	}

	rm := NewResourceManager()

	if _, err := rm.LoadImage(filepath.Join(dir, "nonexistent.png")); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
	if _, err := rm.LoadImage(invalidPath); err == nil {
		t.Error("Expected error for invalid image format, got nil")
	}
	if rm.GetImage(invalidPath) != nil {
		t.Error("failed loads must not be cached")
	}
}

// TestLoadImageOr tests the generated fallback path.
func TestLoadImageOr(t *testing.T) {
	rm := NewResourceManager()

	calls := 0
	generate := func() image.Image {
		calls++
		return image.NewRGBA(image.Rect(0, 0, 4, 4))
	}

	img1 := rm.LoadImageOr("", GeneratedDistortionKey, generate)
	img2 := rm.LoadImageOr(filepath.Join(t.TempDir(), "missing.png"), GeneratedDistortionKey, generate)

	if img1 == nil || img1 != img2 {
		t.Error("fallback image should be generated once and cached")
	}
	if calls != 1 {
		t.Errorf("generate called %d times, want 1", calls)
	}
}

// TestReadFile_EmbeddedFirst tests that "data/" paths are served from the embedded data.
func TestReadFile_EmbeddedFirst(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/config.yaml": &fstest.MapFile{Data: []byte("embedded")},
	})
	defer embedded.Init(nil)

	rm := NewResourceManager()

	data, err := rm.ReadFile("data/config.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "embedded" {
		t.Errorf("got %q, want embedded contents", data)
	}

	if _, err := rm.ReadFile("data/missing.yaml"); err == nil {
		t.Error("expected error for a path in neither location")
	}
}

// TestLoadFontAtlas_Prebuilt tests loading a descriptor + image pair from disk.
func TestLoadFontAtlas_Prebuilt(t *testing.T) {
	dir := t.TempDir()
	atlasPath := filepath.Join(dir, "atlas.yaml")
	imagePath := filepath.Join(dir, "atlas.png")
	if err := os.WriteFile(atlasPath, []byte(testAtlasYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := createTestImage(imagePath); err != nil {
		t.Fatal(err)
	}

	rm := NewResourceManager()
	atlas, img, err := rm.LoadFontAtlas(config.FontConfig{Atlas: atlasPath, Image: imagePath})
	if err != nil {
		t.Fatalf("LoadFontAtlas failed: %v", err)
	}
	if len(atlas.Chars) != 2 {
		t.Errorf("expected 2 glyphs, got %d", len(atlas.Chars))
	}
	if img.Bounds().Dx() != 10 {
		t.Errorf("image width: got %d, want 10", img.Bounds().Dx())
	}

	// 缺少图像文件
	if _, _, err := rm.LoadFontAtlas(config.FontConfig{Atlas: atlasPath, Image: filepath.Join(dir, "none.png")}); err == nil {
		t.Error("expected error for missing atlas image")
	}
}

// TestLoadFontAtlas_Bake tests baking from the built-in font.
func TestLoadFontAtlas_Bake(t *testing.T) {
	rm := NewResourceManager()
	atlas, img, err := rm.LoadFontAtlas(config.FontConfig{BakeSize: 24, Spread: 3, Charset: "WAVE"})
	if err != nil {
		t.Fatalf("LoadFontAtlas failed: %v", err)
	}
	for _, r := range "?WAVE" {
		if _, ok := atlas.Chars[r]; !ok {
			t.Errorf("glyph %q missing", r)
		}
	}
	if img.Bounds().Empty() {
		t.Error("baked image is empty")
	}

	if _, _, err := rm.LoadFontAtlas(config.FontConfig{TTF: filepath.Join(t.TempDir(), "none.ttf"), BakeSize: 24, Spread: 3}); err == nil {
		t.Error("expected error for missing TTF")
	}
}

// TestLoadFont tests that faces are cached per path and size.
func TestLoadFont(t *testing.T) {
	rm := NewResourceManager()

	f1, err := rm.LoadFont("", 14)
	if err != nil {
		t.Fatalf("LoadFont failed: %v", err)
	}
	f2, _ := rm.LoadFont("", 14)
	f3, _ := rm.LoadFont("", 20)

	if f1 != f2 {
		t.Error("same path and size should return the cached face")
	}
	if f1 == f3 {
		t.Error("different sizes should return different faces")
	}
	if f1.Source != f3.Source {
		t.Error("faces of the same font should share the source")
	}

	if _, err := rm.LoadFont(filepath.Join(t.TempDir(), "none.ttf"), 14); err == nil {
		t.Error("expected error for missing font file")
	}
}

func TestOceanImage(t *testing.T) {
	img := OceanImage(64, 32)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds: got %v", b)
	}
	top, bottom := img.RGBAAt(0, 0), img.RGBAAt(0, 31)
	if top.A != 255 || bottom.A != 255 {
		t.Error("background must be opaque")
	}
	if top.B <= bottom.B {
		t.Errorf("gradient should darken downwards: top %v, bottom %v", top, bottom)
	}

	if b := OceanImage(0, -1).Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("degenerate size: got %v", b)
	}
}

func TestDistortionMask(t *testing.T) {
	const size = 100
	img := DistortionMask(size)

	// 中心和角落在圆环外
	if c := img.RGBAAt(size/2, size/2); c.A != 0 {
		t.Errorf("centre should be transparent, got %v", c)
	}
	if c := img.RGBAAt(0, 0); c.A != 0 {
		t.Errorf("corner should be transparent, got %v", c)
	}

	// 半径 0.36*size 处为峰值
	peak := img.RGBAAt(size/2+36, size/2)
	if peak.R < 240 {
		t.Errorf("ring peak too weak: %v", peak)
	}
	if peak.R != peak.A {
		t.Errorf("mask must be premultiplied grey, got %v", peak)
	}

	// 关于水平轴对称，但不是中心对称
	if img.RGBAAt(size/2+36, size/2-10) != img.RGBAAt(size/2+36, size/2+9) {
		t.Error("ring should be mirror-symmetric about the horizontal axis")
	}
	if img.RGBAAt(size/2+36, size/2) == img.RGBAAt(size/2-37, size/2) {
		t.Error("ring intensity should vary around the circle")
	}
}
