package store

import (
	"context"
	"sync"

	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
)

type InMemorySettingsStore struct {
	lock       *sync.RWMutex
	settings   *itemModel.PdfSettings
	layoutPref string
}

func InitInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		lock: new(sync.RWMutex),
	}
}

func (store *InMemorySettingsStore) LoadSettings(ctx context.Context) (itemModel.PdfSettings, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	if store.settings == nil {
		return itemModel.PdfSettings{}, false
	}
	return *store.settings, true
}

func (store *InMemorySettingsStore) SaveSettings(ctx context.Context, settings itemModel.PdfSettings) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	normalized := settings.Normalized()
	store.settings = &normalized
	return nil
}

func (store *InMemorySettingsStore) LoadLayoutPref(ctx context.Context) string {
	store.lock.RLock()
	defer store.lock.RUnlock()
	if store.layoutPref == "" {
		return config.DefaultLayoutPref
	}
	return store.layoutPref
}

func (store *InMemorySettingsStore) SaveLayoutPref(ctx context.Context, layout string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.layoutPref = layout
	return nil
}
