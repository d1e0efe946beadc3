package export

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/pictopdf/internal/collection"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/internal/metrics"
	"github.com/akolanti/pictopdf/internal/pdflayout"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

// Manager keeps one current layout document and rebuilds it lazily. Mutations
// call Invalidate, which debounces the rebuild so a burst of edits pays for a
// single layout pass. Document always hands back a result that reflects every
// mutation made before the call.
type Manager struct {
	mu         sync.Mutex
	engine     *pdflayout.Engine
	items      *collection.Collection
	settings   itemModel.SettingsStore
	current    *pdflayout.Document
	dirty      bool
	timer      *time.Timer
	generation uint64
	logger     *logger_i.Logger
}

func NewManager(items *collection.Collection, settings itemModel.SettingsStore) *Manager {
	return &Manager{
		engine:   pdflayout.NewEngine(),
		items:    items,
		settings: settings,
		dirty:    true,
		logger:   logger_i.NewLogger("PreviewManager"),
	}
}

// Invalidate marks the current document stale and schedules a background
// rebuild after the debounce window. Each call pushes the window out again and
// supersedes any build already in flight.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirty = true
	m.generation++
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(config.PreviewDebounce, func() {
		m.build(context.Background())
	})
}

// Document returns the current layout, building synchronously when the cached
// one is stale or missing.
func (m *Manager) Document(ctx context.Context) *pdflayout.Document {
	m.mu.Lock()
	if m.current != nil && !m.dirty {
		doc := m.current
		m.mu.Unlock()
		return doc
	}
	m.mu.Unlock()
	return m.build(ctx)
}

// build runs one layout pass over a snapshot of the collection. A build that
// was superseded by a later Invalidate still returns its document but never
// replaces the cached one.
func (m *Manager) build(ctx context.Context) *pdflayout.Document {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("layout_build", time.Since(start)) }()

	settings := itemModel.DefaultSettings()
	if stored, ok := m.settings.LoadSettings(ctx); ok {
		settings = stored
	}

	doc := m.engine.Layout(m.items.Snapshot(), settings)
	if doc.Skipped > 0 {
		m.logger.Info("Layout pass skipped items", "skipped", doc.Skipped)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen == m.generation {
		m.current = doc
		m.dirty = false
	}
	return doc
}
