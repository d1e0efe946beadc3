package collection

import (
	"testing"

	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

func seedCollection(t *testing.T, ids ...string) *Collection {
	t.Helper()
	logger_i.Init()
	c := InitCollection()
	for _, id := range ids {
		c.Add(itemModel.ContentItem{Id: id, Kind: itemModel.KindImage, SourceName: id + ".jpg"})
	}
	return c
}

func order(c *Collection) []string {
	var ids []string
	for _, item := range c.Snapshot() {
		ids = append(ids, item.Id)
	}
	return ids
}

func TestMove_AdjacentSwap(t *testing.T) {
	c := seedCollection(t, "a", "b", "c")

	t.Run("move first item up is a no-op", func(t *testing.T) {
		if c.Move(0, -1) {
			t.Error("Move(0,-1) should report no-op")
		}
		got := order(c)
		if got[0] != "a" || got[1] != "b" || got[2] != "c" {
			t.Errorf("order changed on no-op move: %v", got)
		}
	})

	t.Run("move last item down is a no-op", func(t *testing.T) {
		if c.Move(2, +1) {
			t.Error("Move(last,+1) should report no-op")
		}
	})

	t.Run("middle move swaps exactly two neighbors", func(t *testing.T) {
		if !c.Move(1, +1) {
			t.Fatal("Move(1,+1) failed")
		}
		got := order(c)
		want := []string{"a", "c", "b"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
			}
		}
	})

	t.Run("out of range index is a no-op", func(t *testing.T) {
		if c.Move(17, -1) {
			t.Error("Move on bad index should report no-op")
		}
	})
}

func TestRemove_ShiftsOrder(t *testing.T) {
	c := seedCollection(t, "a", "b", "c")
	if !c.Remove("b") {
		t.Fatal("Remove failed")
	}
	got := order(c)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("unexpected order after remove: %v", got)
	}
	if c.Remove("ghost") {
		t.Error("Remove of unknown id should return false")
	}
}

func TestCaption_StaleResultDiscarded(t *testing.T) {
	c := seedCollection(t, "x", "y")

	// Simulate a caption request racing an item removal: the response for the
	// removed item must leave no trace.
	c.SetCaptionPending("x", true)
	c.Remove("x")

	if c.SetCaption("x", "una foto") {
		t.Error("caption for removed item should be dropped")
	}
	if c.SetCaptionPending("x", false) {
		t.Error("pending flag for removed item should be dropped")
	}
	for _, item := range c.Snapshot() {
		if item.Caption != "" || item.CaptionPending {
			t.Errorf("caption state leaked onto item %s", item.Id)
		}
	}
}

func TestUpdateImage_WholeFieldReplace(t *testing.T) {
	c := seedCollection(t, "img")
	raster := []byte{0xFF, 0xD8, 0xFF}
	if !c.UpdateImage("img", raster, "image/jpeg", 640, 480) {
		t.Fatal("UpdateImage failed")
	}
	item, ok := c.Get("img")
	if !ok {
		t.Fatal("item vanished")
	}
	if item.Width != 640 || item.Height != 480 {
		t.Errorf("dimensions not in sync with raster: %dx%d", item.Width, item.Height)
	}

	// a non-image item never accepts a raster
	c.Add(itemModel.ContentItem{Id: "doc", Kind: itemModel.KindTextDoc})
	if c.UpdateImage("doc", raster, "image/jpeg", 1, 1) {
		t.Error("UpdateImage must only apply to image items")
	}
}

func TestEligibleForCaption_SkipsCaptionedAndNonImages(t *testing.T) {
	logger_i.Init()
	c := InitCollection()
	c.AddAll([]itemModel.ContentItem{
		{Id: "1", Kind: itemModel.KindImage},
		{Id: "2", Kind: itemModel.KindImage, Caption: "ya descrita"},
		{Id: "3", Kind: itemModel.KindTextDoc},
		{Id: "4", Kind: itemModel.KindImage},
	})
	ids := c.EligibleForCaption()
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "4" {
		t.Errorf("unexpected eligible set: %v", ids)
	}
}
