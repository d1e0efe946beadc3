package editor

import (
	"bytes"
	"image"

	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/disintegration/imaging"
)

// JPEG re-encode quality for edited rasters.
const outputQuality = 95

// Result is the output raster with its dimensions, always in sync.
type Result struct {
	Raster   []byte
	MimeType string
	Width    int
	Height   int
}

// ApplyEdits composes one full edit pass over source: combined filter pass,
// then flips, then rotation, then center crop to the post-rotation target
// ratio, then an optional stretch resize. The source is never mutated; same
// inputs produce byte-identical output.
//
// The flip runs before the rotation on the raster. That is equivalent to the
// rotate-then-flip transform order of a drawing context, where the flip scale
// applies in the already-rotated frame.
func ApplyEdits(source []byte, state EditState) (Result, error) {
	if state.Resize != nil && (state.Resize.Width <= 0 || state.Resize.Height <= 0) {
		return Result{}, &itemModel.InvalidDimensionsError{Width: state.Resize.Width, Height: state.Resize.Height}
	}

	src, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return Result{}, &itemModel.DecodeError{Err: err}
	}

	img := image.Image(applyFilters(src, state))
	img = flip(img, state)
	img = rotate(img, state.Rotation)
	img = cropToRatio(img, state)

	if state.Resize != nil {
		b := img.Bounds()
		if state.Resize.Width != b.Dx() || state.Resize.Height != b.Dy() {
			img = imaging.Resize(img, state.Resize.Width, state.Resize.Height, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(outputQuality)); err != nil {
		return Result{}, err
	}

	b := img.Bounds()
	return Result{
		Raster:   buf.Bytes(),
		MimeType: "image/jpeg",
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

func flip(img image.Image, state EditState) image.Image {
	if state.FlipH {
		img = imaging.FlipH(img)
	}
	if state.FlipV {
		img = imaging.FlipV(img)
	}
	return img
}

// rotate applies the accumulated rotation mod 360. Positive steps are
// clockwise; imaging's Rotate90/270 are counter-clockwise, hence the swap.
func rotate(img image.Image, degrees int) image.Image {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// cropToRatio center-crops the post-rotation bounding box to the target ratio.
// Too wide cuts width to height*ratio, too tall cuts height to width/ratio.
func cropToRatio(img image.Image, state EditState) image.Image {
	target := state.targetRatio()
	if target == 0 {
		return img
	}

	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	cropW, cropH := w, h
	if w/h > target {
		cropW = h * target
	} else {
		cropH = w / target
	}
	return imaging.CropCenter(img, int(cropW), int(cropH))
}
