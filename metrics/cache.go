package metrics

import (
	"sync"

	"github.com/ByLCY/vitae/layout"
)

type cacheKey struct {
	text string
	font layout.FontHandle
	size float64
}

// Cache 记住 (text, font, size) 的度量结果。失败的调用不会被缓存。
type Cache struct {
	next layout.Measurer

	mu      sync.Mutex
	entries map[cacheKey]float64
}

// NewCache 包装 next。
func NewCache(next layout.Measurer) *Cache {
	return &Cache{next: next, entries: map[cacheKey]float64{}}
}

// Measure implements layout.Measurer.
func (c *Cache) Measure(text string, h layout.FontHandle, size float64) (float64, error) {
	key := cacheKey{text: text, font: h, size: size}
	c.mu.Lock()
	w, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return w, nil
	}
	w, err := c.next.Measure(text, h, size)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.entries[key] = w
	c.mu.Unlock()
	return w, nil
}

// Len 返回缓存条目数。
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
