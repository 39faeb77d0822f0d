package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
)

// cacheEntry is a decoded image together with the format name reported by
// image.Decode.
type cacheEntry struct {
	img    image.Image
	format string
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded images keyed by their file path. Once an image is
// loaded, subsequent Load() calls for the same path return the cached copy
// without disk I/O.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cacheEntry
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cacheEntry),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Supported formats are PNG, JPEG, and GIF. The image is cached using the exact
// path string provided.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to decode image: %w", err)
	}

	e := cacheEntry{img: img, format: format}
	c.mu.Lock()
	c.images[path] = e
	c.mu.Unlock()

	return e, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels (number of columns).
	Width int `json:"width"`

	// Height is the image height in pixels (number of rows).
	Height int `json:"height"`

	// Channels is the number of colour channels: 1 for grayscale, 3 for
	// colour without alpha, 4 for colour with alpha.
	Channels int `json:"channels"`

	// Format is the decoder that read the file: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and reports its shape.
//
// The image is loaded into the cache if not already present.
//
// # Channel Detection
//
// Channels follow the Go image type:
//   - *image.Gray, *image.Gray16 -> 1
//   - *image.YCbCr, *image.CMYK -> 3 (JPEG has no alpha)
//   - *image.Paletted -> 4 if any palette entry is translucent, else 3
//   - everything else (RGBA, NRGBA and their 16-bit forms) -> 4
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	channels, depth := describe(e.img)
	bounds := e.img.Bounds()

	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Channels:      channels,
		Format:        e.format,
		ColorDepth:    depth,
		FileSizeBytes: stat.Size(),
	}, nil
}

// describe returns the channel count and per-channel bit depth of img.
func describe(img image.Image) (int, string) {
	switch m := img.(type) {
	case *image.Gray:
		return 1, "8-bit"
	case *image.Gray16:
		return 1, "16-bit"
	case *image.YCbCr, *image.CMYK:
		return 3, "8-bit"
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4, "8-bit"
			}
		}
		return 3, "8-bit"
	case *image.RGBA64, *image.NRGBA64:
		return 4, "16-bit"
	default:
		return 4, "8-bit"
	}
}
