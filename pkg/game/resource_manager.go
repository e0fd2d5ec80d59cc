package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/decker502/waterfx/pkg/config"
	"github.com/decker502/waterfx/pkg/embedded"
	"github.com/decker502/waterfx/pkg/font"
	"github.com/decker502/waterfx/pkg/sdf"
)

// builtinFontPath is the cache key used for the embedded Go Bold font.
const builtinFontPath = "builtin:gobold"

// ResourceManager is responsible for centralized management of viewer resources.
// It provides loading and caching mechanisms for images, fonts and the SDF font atlas,
// ensuring that resources are loaded only once and reused across resizes.
//
// Paths starting with "data/" are resolved against the embedded data first and
// fall back to the file system, so a user can override any bundled file by
// placing it next to the binary.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. All loading happens on the main
// goroutine before or inside the frame loop.
//
// Usage:
//
//	rm := NewResourceManager()
//	img, err := rm.LoadImage("images/ocean.jpg")
//	if err != nil {
//	    log.Printf("Failed to load image: %v", err)
//	}
type ResourceManager struct {
	imageCache    map[string]*ebiten.Image    // Cache for loaded images: path -> Image
	fontFaceCache map[string]*text.GoTextFace // Cache for Ebitengine v2 text faces
	fontSources   map[string]*text.GoTextFaceSource
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Returns:
//   - A pointer to a newly initialized ResourceManager with empty caches.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		imageCache:    make(map[string]*ebiten.Image),
		fontFaceCache: make(map[string]*text.GoTextFace),
		fontSources:   make(map[string]*text.GoTextFaceSource),
	}
}

// ReadFile reads a resource file.
// "data/" paths are looked up in the embedded data first, then on disk.
//
// Parameters:
//   - path: The resource path (e.g., "data/config.yaml" or "/tmp/ocean.jpg").
//
// Returns:
//   - The file contents.
//   - An error if the file exists in neither location.
func (rm *ResourceManager) ReadFile(path string) ([]byte, error) {
	slashed := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if strings.HasPrefix(slashed, "data/") && embedded.Exists(slashed) {
		return embedded.ReadFile(slashed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource %s: %w", path, err)
	}
	return data, nil
}

// DecodeImage reads and decodes an image resource without uploading it to the GPU.
// Supported formats: PNG and JPEG.
func (rm *ResourceManager) DecodeImage(path string) (image.Image, error) {
	data, err := rm.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
//
// Parameters:
//   - path: The resource path to the image.
//
// Returns:
//   - A pointer to the loaded ebiten.Image.
//   - An error if the file cannot be read or decoded.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	// Check if the image is already cached
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	img, err := rm.DecodeImage(path)
	if err != nil {
		return nil, err
	}

	// Convert to Ebitengine image
	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg

	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache.
// If the image has not been loaded yet, it returns nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadImageOr loads an image, or returns the generated fallback when path is
// empty or the image cannot be loaded. The fallback is cached under key.
func (rm *ResourceManager) LoadImageOr(path, key string, generate func() image.Image) *ebiten.Image {
	if path != "" {
		img, err := rm.LoadImage(path)
		if err == nil {
			return img
		}
		log.Printf("[ResourceManager] Warning: %v (using generated %s)", err, key)
	}

	if cached, ok := rm.imageCache[key]; ok {
		return cached
	}
	img := ebiten.NewImageFromImage(generate())
	rm.imageCache[key] = img
	return img
}

// LoadFontAtlas returns the SDF font atlas and its distance-field image.
//
// A prebuilt atlas (descriptor + image) is used when both paths are configured;
// otherwise the atlas is baked from the configured TTF (a path or an installed
// font name), or from the built-in Go Bold font when no TTF is set.
//
// Parameters:
//   - cfg: The font section of the viewer config.
//
// Returns:
//   - The validated atlas (always contains '?').
//   - The distance-field image.
//   - An error if loading or baking fails.
func (rm *ResourceManager) LoadFontAtlas(cfg config.FontConfig) (*font.Atlas, image.Image, error) {
	if cfg.Atlas != "" {
		data, err := rm.ReadFile(cfg.Atlas)
		if err != nil {
			return nil, nil, err
		}
		atlas, err := font.ParseAtlas(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", cfg.Atlas, err)
		}
		img, err := rm.DecodeImage(cfg.Image)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[ResourceManager] Loaded font atlas %s (%d glyphs)", cfg.Atlas, len(atlas.Chars))
		return atlas, img, nil
	}

	var ttf []byte
	if cfg.TTF != "" {
		data, err := rm.readFont(cfg.TTF)
		if err != nil {
			return nil, nil, err
		}
		ttf = data
	}

	opts := sdf.DefaultOptions()
	opts.Size = cfg.BakeSize
	opts.Spread = cfg.Spread
	if cfg.Charset != "" {
		opts.Runes = []rune(cfg.Charset)
	}

	atlas, img, err := sdf.Bake(ttf, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bake font atlas: %w", err)
	}
	return atlas, img, nil
}

// readFont reads a font file by resource path, or by system font name
// (e.g. "DejaVuSans-Bold.ttf") when no such resource exists.
func (rm *ResourceManager) readFont(nameOrPath string) ([]byte, error) {
	data, err := rm.ReadFile(nameOrPath)
	if err == nil {
		return data, nil
	}

	fontPath, findErr := findfont.Find(nameOrPath)
	if findErr != nil || fontPath == "" {
		return nil, err
	}
	log.Printf("[ResourceManager] %s resolved to system font %s", nameOrPath, fontPath)
	return os.ReadFile(fontPath)
}

// LoadFont loads a font face for overlay text and caches it.
// An empty path selects the built-in Go Bold font.
//
// Parameters:
//   - path: The font resource path, or "" for the built-in font.
//   - size: The font size in pixels.
//
// Returns:
//   - A pointer to the text.GoTextFace ready for rendering.
//   - An error if the file cannot be read or parsed.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	if path == "" {
		path = builtinFontPath
	}

	// Create cache key combining path and size
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, ok := rm.fontSources[path]
	if !ok {
		var fontData []byte
		if path == builtinFontPath {
			fontData = gobold.TTF
		} else {
			data, err := rm.readFont(path)
			if err != nil {
				return nil, err
			}
			fontData = data
		}

		s, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
		}
		source = s
		rm.fontSources[path] = source
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace

	return goTextFace, nil
}
