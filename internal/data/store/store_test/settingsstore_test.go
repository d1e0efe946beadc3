package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/data/redisStore"
	"github.com/akolanti/pictopdf/internal/data/store"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSettingsStore(t *testing.T) (*store.RedisSettingsStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestSettingsStore(redisStore.NewTestStore(client)), mr
}

func TestRedisSettingsStore_Roundtrip(t *testing.T) {
	settingsStore, _ := newSettingsStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	saved := itemModel.PdfSettings{
		PageSize:        "letter",
		Orientation:     "l",
		IncludeCaptions: false,
		Quality:         0.5,
	}
	if err := settingsStore.SaveSettings(ctx, saved); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, found := settingsStore.LoadSettings(ctx)
	if !found {
		t.Fatal("settings were saved but not found")
	}
	if loaded != saved {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loaded, saved)
	}
}

func TestRedisSettingsStore_MissingRecord(t *testing.T) {
	settingsStore, _ := newSettingsStore(t)

	if _, found := settingsStore.LoadSettings(context.Background()); found {
		t.Error("expected found=false for an empty store")
	}
}

func TestRedisSettingsStore_MalformedRecordFallsBack(t *testing.T) {
	settingsStore, mr := newSettingsStore(t)

	if err := mr.Set("pdf-settings", "{corrupted json"); err != nil {
		t.Fatalf("seeding miniredis: %v", err)
	}

	if _, found := settingsStore.LoadSettings(context.Background()); found {
		t.Error("malformed record should report found=false")
	}
}

func TestRedisSettingsStore_SaveNormalizes(t *testing.T) {
	settingsStore, _ := newSettingsStore(t)
	ctx := context.Background()

	bogus := itemModel.PdfSettings{PageSize: "a3", Orientation: "sideways", Quality: 7}
	if err := settingsStore.SaveSettings(ctx, bogus); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, found := settingsStore.LoadSettings(ctx)
	if !found {
		t.Fatal("settings were saved but not found")
	}
	if loaded.PageSize != config.DefaultPageSize || loaded.Orientation != config.DefaultOrientation {
		t.Errorf("out-of-domain values were persisted: %+v", loaded)
	}
	if loaded.Quality != config.DefaultImageQuality {
		t.Errorf("quality = %v, want the default", loaded.Quality)
	}
}

func TestRedisSettingsStore_LayoutPref(t *testing.T) {
	settingsStore, _ := newSettingsStore(t)
	ctx := context.Background()

	if got := settingsStore.LoadLayoutPref(ctx); got != config.DefaultLayoutPref {
		t.Errorf("empty store pref = %q, want %q", got, config.DefaultLayoutPref)
	}

	if err := settingsStore.SaveLayoutPref(ctx, "list"); err != nil {
		t.Fatalf("SaveLayoutPref failed: %v", err)
	}
	if got := settingsStore.LoadLayoutPref(ctx); got != "list" {
		t.Errorf("pref = %q, want list", got)
	}
}
