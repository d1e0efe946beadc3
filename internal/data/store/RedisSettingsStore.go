package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/data/redisStore"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

const (
	settingsKey   = "pdf-settings"
	layoutPrefKey = "layout-pref"
)

type RedisSettingsStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSettingsStore(ctx context.Context) *RedisSettingsStore {
	rs := redisStore.GetRedisStore(ctx, config.RedisSettingsStore)
	if rs == nil {
		return nil
	}
	return &RedisSettingsStore{
		store:  rs,
		logger: logger_i.NewLogger("SettingsStore"),
	}
}

// LoadSettings reads the persisted export settings. A missing or malformed
// record reports false so the caller falls back to defaults instead of failing.
func (s *RedisSettingsStore) LoadSettings(ctx context.Context) (itemModel.PdfSettings, bool) {
	var settings itemModel.PdfSettings
	val, err := s.store.Get(ctx, settingsKey)
	if s.store.IsNil(err) {
		return settings, false
	} else if err != nil {
		s.logger.Error("Failed to read settings", "err", err)
		return settings, false
	}

	if err := json.Unmarshal([]byte(val), &settings); err != nil {
		s.logger.Error("Stored settings are malformed, falling back to defaults", "err", err)
		return settings, false
	}
	return settings.Normalized(), true
}

func (s *RedisSettingsStore) SaveSettings(ctx context.Context, settings itemModel.PdfSettings) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	data, err := json.Marshal(settings.Normalized())
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, settingsKey, data, config.RedisSettingsStoreTTL)
	if err == nil {
		log.Debug("Saved settings to Redis")
	}
	return err
}

func (s *RedisSettingsStore) LoadLayoutPref(ctx context.Context) string {
	val, err := s.store.Get(ctx, layoutPrefKey)
	if err != nil || val == "" {
		return config.DefaultLayoutPref
	}
	return val
}

func (s *RedisSettingsStore) SaveLayoutPref(ctx context.Context, layout string) error {
	return s.store.Set(ctx, layoutPrefKey, layout, config.RedisSettingsStoreTTL)
}

func TestSettingsStore(store *redisStore.Store) *RedisSettingsStore {
	return &RedisSettingsStore{
		store:  store,
		logger: logger_i.NewLogger("test redis settings"),
	}
}
