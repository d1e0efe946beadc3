package editor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/akolanti/pictopdf/internal/domain/itemModel"
)

// testRaster builds a deterministic gradient PNG so edit output is stable
// across runs.
func testRaster(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7 % 256), G: uint8(y * 13 % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestApplyEdits_IdentityKeepsDimensions(t *testing.T) {
	src := testRaster(t, 120, 80)

	res, err := ApplyEdits(src, DefaultEditState())
	if err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}
	if res.Width != 120 || res.Height != 80 {
		t.Errorf("identity edit changed dimensions: got %dx%d, want 120x80", res.Width, res.Height)
	}
	if res.MimeType != "image/jpeg" {
		t.Errorf("unexpected output mime: %s", res.MimeType)
	}
}

func TestApplyEdits_Deterministic(t *testing.T) {
	src := testRaster(t, 64, 64)
	state := DefaultEditState()
	state.Brightness = 130
	state.Contrast = 80
	state.Sepia = 40
	state.Blur = 1.5
	state.Rotation = 90
	state.FlipH = true

	first, err := ApplyEdits(src, state)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	second, err := ApplyEdits(src, state)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if !bytes.Equal(first.Raster, second.Raster) {
		t.Error("same input and state produced different bytes")
	}
}

func TestApplyEdits_RotationDimensions(t *testing.T) {
	src := testRaster(t, 100, 60)

	t.Run("odd quarter turn swaps the bounding box", func(t *testing.T) {
		state := DefaultEditState()
		state.Rotation = 90
		res, err := ApplyEdits(src, state)
		if err != nil {
			t.Fatalf("ApplyEdits failed: %v", err)
		}
		if res.Width != 60 || res.Height != 100 {
			t.Errorf("got %dx%d, want 60x100", res.Width, res.Height)
		}
	})

	t.Run("four accumulated quarter turns restore the box", func(t *testing.T) {
		state := DefaultEditState()
		state.Rotation = 360 // user hit rotate 4 times, value is not normalized
		res, err := ApplyEdits(src, state)
		if err != nil {
			t.Fatalf("ApplyEdits failed: %v", err)
		}
		if res.Width != 100 || res.Height != 60 {
			t.Errorf("got %dx%d, want 100x60", res.Width, res.Height)
		}
	})
}

func TestApplyEdits_CenterCrop(t *testing.T) {
	t.Run("wide image cropped to square loses width", func(t *testing.T) {
		src := testRaster(t, 200, 100)
		state := DefaultEditState()
		state.AspectRatio = AspectSquare
		res, err := ApplyEdits(src, state)
		if err != nil {
			t.Fatalf("ApplyEdits failed: %v", err)
		}
		if res.Width != 100 || res.Height != 100 {
			t.Errorf("got %dx%d, want 100x100", res.Width, res.Height)
		}
	})

	t.Run("tall image cropped to 16:9 loses height", func(t *testing.T) {
		src := testRaster(t, 100, 200)
		state := DefaultEditState()
		state.AspectRatio = Aspect16x9
		res, err := ApplyEdits(src, state)
		if err != nil {
			t.Fatalf("ApplyEdits failed: %v", err)
		}
		if res.Width != 100 || res.Height != 56 {
			t.Errorf("got %dx%d, want 100x56", res.Width, res.Height)
		}
	})

	t.Run("crop box follows the rotated frame", func(t *testing.T) {
		src := testRaster(t, 200, 100)
		state := DefaultEditState()
		state.Rotation = 90
		state.AspectRatio = AspectSquare
		res, err := ApplyEdits(src, state)
		if err != nil {
			t.Fatalf("ApplyEdits failed: %v", err)
		}
		// post-rotation box is 100x200, square crop keeps 100x100
		if res.Width != 100 || res.Height != 100 {
			t.Errorf("got %dx%d, want 100x100", res.Width, res.Height)
		}
	})
}

func TestApplyEdits_Resize(t *testing.T) {
	src := testRaster(t, 80, 80)

	t.Run("explicit resize stretches to target", func(t *testing.T) {
		state := DefaultEditState()
		state.Resize = &Resize{Width: 40, Height: 20}
		res, err := ApplyEdits(src, state)
		if err != nil {
			t.Fatalf("ApplyEdits failed: %v", err)
		}
		if res.Width != 40 || res.Height != 20 {
			t.Errorf("got %dx%d, want 40x20", res.Width, res.Height)
		}
	})

	t.Run("non-positive dimensions rejected", func(t *testing.T) {
		state := DefaultEditState()
		state.Resize = &Resize{Width: 0, Height: 20}
		_, err := ApplyEdits(src, state)
		var dimErr *itemModel.InvalidDimensionsError
		if !errors.As(err, &dimErr) {
			t.Errorf("expected InvalidDimensionsError, got %v", err)
		}
	})
}

func TestApplyEdits_DecodeFailure(t *testing.T) {
	_, err := ApplyEdits([]byte("definitely not an image"), DefaultEditState())
	var decErr *itemModel.DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("expected DecodeError, got %v", err)
	}
}

func TestApplyAspectLock_UsesOriginalRatio(t *testing.T) {
	// The lock ratio comes from the unrotated original even when a crop ratio
	// is active on screen; 200x100 locked with width 100 always gives height 50.
	r := ApplyAspectLock(200, 100, Resize{Width: 100}, "width")
	if r.Height != 50 {
		t.Errorf("locked height: got %d, want 50", r.Height)
	}
	r = ApplyAspectLock(200, 100, Resize{Height: 30}, "height")
	if r.Width != 60 {
		t.Errorf("locked width: got %d, want 60", r.Width)
	}
}

func TestFilterMatrix_GrayscaleNeutralizesColor(t *testing.T) {
	state := DefaultEditState()
	state.Grayscale = 100
	cm := filterMatrix(state)

	// every output channel row must weigh r,g,b identically
	for ch := 1; ch < 3; ch++ {
		for j := 0; j < 3; j++ {
			if diff := cm.m[ch][j] - cm.m[0][j]; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("grayscale rows differ at [%d][%d]", ch, j)
			}
		}
	}
}
