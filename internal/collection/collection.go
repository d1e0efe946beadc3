package collection

import (
	"sync"

	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

// Collection owns the ordered item sequence. Slice position is the page order;
// every mutation that reorders is a pure permutation. Lookups by id rather than
// index keep async caption results from corrupting a reordered collection.
type Collection struct {
	mu     *sync.RWMutex
	items  []itemModel.ContentItem
	logger *logger_i.Logger
}

func InitCollection() *Collection {
	return &Collection{
		mu:     new(sync.RWMutex),
		items:  make([]itemModel.ContentItem, 0),
		logger: logger_i.NewLogger("Collection"),
	}
}

func (c *Collection) Add(item itemModel.ContentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

func (c *Collection) AddAll(items []itemModel.ContentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, items...)
}

// Remove drops the item and shifts everything after it up one slot.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.Id == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Move swaps the item at index with its neighbor. delta is -1 or +1; a target
// outside the sequence is a no-op, not an error.
func (c *Collection) Move(index int, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := index + delta
	if index < 0 || index >= len(c.items) || target < 0 || target >= len(c.items) {
		return false
	}
	c.items[index], c.items[target] = c.items[target], c.items[index]
	return true
}

// UpdateImage replaces the raster and both dimensions atomically under one lock.
func (c *Collection) UpdateImage(id string, raster []byte, mimeType string, width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Id == id && c.items[i].Kind == itemModel.KindImage {
			c.items[i].Raster = raster
			c.items[i].MimeType = mimeType
			c.items[i].Width = width
			c.items[i].Height = height
			return true
		}
	}
	return false
}

// SetCaption applies an async caption result. A result for an item that was
// removed while the call was in flight is silently dropped.
func (c *Collection) SetCaption(id string, caption string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Id == id && c.items[i].Kind == itemModel.KindImage {
			c.items[i].Caption = caption
			return true
		}
	}
	c.logger.Debug("Dropping caption for removed item", "id", id)
	return false
}

func (c *Collection) SetCaptionPending(id string, pending bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Id == id {
			c.items[i].CaptionPending = pending
			return true
		}
	}
	return false
}

func (c *Collection) Get(id string) (itemModel.ContentItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Id == id {
			return item, true
		}
	}
	return itemModel.ContentItem{}, false
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Snapshot copies the sequence so layout reads a consistent view while caption
// workers keep mutating the live collection.
func (c *Collection) Snapshot() []itemModel.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]itemModel.ContentItem, len(c.items))
	copy(out, c.items)
	return out
}

// EligibleForCaption returns ids of image items that have no caption yet, in
// collection order. Caption-all walks this list one call at a time.
func (c *Collection) EligibleForCaption() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []string
	for _, item := range c.items {
		if item.Kind == itemModel.KindImage && item.Caption == "" {
			ids = append(ids, item.Id)
		}
	}
	return ids
}
