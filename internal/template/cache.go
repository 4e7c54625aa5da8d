package template

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// Cache keeps decoded backdrop assets in memory so every print of an
// evening doesn't re-read and re-decode the same file. It is safe for
// concurrent use.
//
// Entries live until Evict or Clear; the booth carries a handful of
// backdrops at most, so unbounded growth is not a concern here.
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache returns an empty asset cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]image.Image)}
}

// Load returns the decoded image at path, reading it from disk on the
// first request. The exact path string is the cache key.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", path, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Evict drops one entry; the next Load re-reads the file. Used when the
// operator swaps a backdrop mid-event.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Len reports the number of cached assets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
