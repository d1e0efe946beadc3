package pdflayout

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/pkg/logger_i"
	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	_ "golang.org/x/image/webp" //webp rasters get re-encoded before placement
)

// Page geometry is in millimeters throughout.
const (
	marginMM      = 15
	captionBandMM = 20 //vertical space reserved under an image for its caption
	captionGapMM  = 8
	lineHeightMM  = 5
	minSheetSpace = 15 //a sheet label needs at least this much room left on the page
)

type geometry struct {
	pageW    float64
	pageH    float64
	contentW float64
	contentH float64
}

// ItemPlacement records which page an item's rendering started on.
type ItemPlacement struct {
	ItemId string
	Page   int
}

// Document is a finished layout. Bytes serializes it exactly once; preview and
// download both read the same serialization so they cannot diverge.
type Document struct {
	pdf        *fpdf.Fpdf
	data       []byte
	Placements []ItemPlacement
	Skipped    int
}

func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

func (d *Document) Bytes() ([]byte, error) {
	if d.data != nil {
		return d.data, nil
	}
	var buf bytes.Buffer
	// Output closes the underlying document, so the result is memoized.
	if err := d.pdf.Output(&buf); err != nil {
		return nil, &itemModel.ExportError{Err: err}
	}
	d.data = buf.Bytes()
	return d.data, nil
}

type Engine struct {
	logger *logger_i.Logger
}

func NewEngine() *Engine {
	return &Engine{logger: logger_i.NewLogger("LayoutEngine")}
}

// Layout paginates the ordered item sequence. Every item starts on a fresh
// page. An item that fails to render is skipped and logged; the rest of the
// document is still produced. Zero items yield an empty document.
func (e *Engine) Layout(items []itemModel.ContentItem, settings itemModel.PdfSettings) *Document {
	settings = settings.Normalized()

	pdf := fpdf.New(settings.Orientation, "mm", settings.PageSize, "")
	pdf.SetAutoPageBreak(false, marginMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	g := geometry{
		pageW:    pageW,
		pageH:    pageH,
		contentW: pageW - 2*marginMM,
		contentH: pageH - 2*marginMM,
	}

	doc := &Document{pdf: pdf}
	for _, item := range items {
		pdf.AddPage()
		start := pdf.PageNo()

		if err := e.renderItem(pdf, tr, item, settings, g); err != nil {
			e.logger.Error("Skipping item", "id", item.Id, "name", item.SourceName, "error", &itemModel.LayoutError{ItemId: item.Id, Err: err})
			doc.Skipped++
			continue
		}
		doc.Placements = append(doc.Placements, ItemPlacement{ItemId: item.Id, Page: start})
	}
	return doc
}

func (e *Engine) renderItem(pdf *fpdf.Fpdf, tr func(string) string, item itemModel.ContentItem, settings itemModel.PdfSettings, g geometry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	switch item.Kind {
	case itemModel.KindImage:
		err = e.renderImage(pdf, tr, item, settings, g)
	case itemModel.KindTextDoc:
		e.renderTextDoc(pdf, tr, item, g)
	case itemModel.KindSpreadsheet:
		e.renderSpreadsheet(pdf, tr, item, g)
	default:
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}
	if err == nil && pdf.Err() {
		err = pdf.Error()
		pdf.ClearError()
	}
	return err
}

// renderImage fits the raster into the content box: scale to box width, then
// shrink to box height, aspect preserved either way. A caption reserves a
// fixed band below the image and shrinks the image further when needed.
func (e *Engine) renderImage(pdf *fpdf.Fpdf, tr func(string) string, item itemModel.ContentItem, settings itemModel.PdfSettings, g geometry) error {
	imgW, imgH := float64(item.Width), float64(item.Height)
	if imgW <= 0 || imgH <= 0 {
		imgW, imgH = 100, 100
	}
	ratio := imgW / imgH

	finalW, finalH := fitToBox(ratio, g.contentW, g.contentH)

	withCaption := settings.IncludeCaptions && item.Caption != ""
	if withCaption && finalH+captionBandMM > g.contentH {
		available := g.contentH - captionBandMM
		if finalH > available {
			finalH = available
			finalW = finalH * ratio
		}
	}

	raster, imgType, err := prepareRaster(item.Raster, settings.Quality)
	if err != nil {
		return err
	}

	x := (g.pageW - finalW) / 2
	y := float64(marginMM)

	opts := fpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader(item.Id, opts, bytes.NewReader(raster))
	pdf.ImageOptions(item.Id, x, y, finalW, finalH, false, opts, 0, "")

	if withCaption {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(60, 60, 60)
		textY := y + finalH + captionGapMM
		for _, line := range pdf.SplitText(tr(item.Caption), g.contentW) {
			lineX := (g.pageW - pdf.GetStringWidth(line)) / 2
			pdf.Text(lineX, textY, line)
			textY += lineHeightMM
		}
	}
	return nil
}

// fitToBox scales an aspect ratio to fill the box width, then shrinks to the
// box height when it overflows.
func fitToBox(ratio, boxW, boxH float64) (w, h float64) {
	w = boxW
	h = w / ratio
	if h > boxH {
		h = boxH
		w = h * ratio
	}
	return w, h
}

// prepareRaster hands back placeable bytes and their fpdf image type. Quality
// below 1.0 forces a lossy re-encode, flattened onto opaque white first so
// transparency does not turn black in JPEG. Formats fpdf cannot embed (webp)
// are re-encoded unconditionally.
func prepareRaster(raster []byte, quality float64) ([]byte, string, error) {
	format, err := imaging.FormatFromExtension(sniffFormat(raster))
	passthrough := err == nil && quality >= 1
	if passthrough {
		return raster, format.String(), nil
	}

	img, err := imaging.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, "", &itemModel.DecodeError{Err: err}
	}

	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.OverlayCenter(flat, img, 1.0)

	q := int(math.Round(quality * 100))
	if q < 1 || q > 100 {
		q = 100
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "JPEG", nil
}

// sniffFormat maps magic bytes onto an extension fpdf understands. Anything
// unrecognized reports as webp so the caller re-encodes it.
func sniffFormat(raster []byte) string {
	switch {
	case len(raster) > 2 && raster[0] == 0xFF && raster[1] == 0xD8:
		return "jpg"
	case len(raster) > 8 && bytes.Equal(raster[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(raster) > 3 && bytes.Equal(raster[:3], []byte("GIF")):
		return "gif"
	default:
		return "webp"
	}
}

// renderTextDoc writes the bold filename title, then reflows the body across
// as many pages as it needs.
func (e *Engine) renderTextDoc(pdf *fpdf.Fpdf, tr func(string) string, item itemModel.ContentItem, g geometry) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(marginMM, marginMM, tr("Archivo: "+item.SourceName))

	pdf.SetFont("Helvetica", "", 11)
	y := float64(marginMM + 10)
	for _, line := range pdf.SplitText(tr(item.Text), g.contentW) {
		if y > g.pageH-marginMM {
			pdf.AddPage()
			y = marginMM
		}
		pdf.Text(marginMM, y, line)
		y += lineHeightMM
	}
}

// renderSpreadsheet runs the cursor-Y protocol: the cursor is only trusted
// again once a table reports its true final position.
func (e *Engine) renderSpreadsheet(pdf *fpdf.Fpdf, tr func(string) string, item itemModel.ContentItem, g geometry) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(marginMM, marginMM, tr("Archivo Excel: "+item.SourceName))

	cursorY := float64(marginMM + 8)
	for _, sheet := range item.Sheets {
		if cursorY+minSheetSpace > g.pageH-marginMM {
			pdf.AddPage()
			cursorY = marginMM
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(marginMM, cursorY, tr("Hoja: "+sheet.Name))
		cursorY += 2

		if len(sheet.Rows) == 0 {
			cursorY += 5
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(100, 100, 100)
			pdf.Text(marginMM, cursorY, tr("(Hoja vacía)"))
			cursorY += 10
			continue
		}

		cursorY = renderTable(pdf, tr, sheet.Rows, cursorY+2, g) + 10
	}
}
