package itemModel

import (
	"context"

	"github.com/akolanti/pictopdf/internal/config"
)

type ItemKind string

const (
	KindImage       ItemKind = "image"
	KindTextDoc     ItemKind = "docx"
	KindSpreadsheet ItemKind = "xlsx"
)

// Sheet is one worksheet of a spreadsheet item. Rows may be ragged.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// ContentItem is one unit of the ordered assembly sequence. Kind decides which
// variant fields are populated; the zero value of the other variants stays empty.
// Order is not stored on the item - the owning collection's slice position is
// the authoritative page order.
type ContentItem struct {
	Id         string   `json:"id"`
	SourceName string   `json:"source_name"`
	Kind       ItemKind `json:"kind"`

	//image variant - Raster/Width/Height move together, always replaced wholesale
	Raster         []byte `json:"-"`
	MimeType       string `json:"mime_type,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Caption        string `json:"caption,omitempty"`
	CaptionPending bool   `json:"caption_pending,omitempty"`

	//text document variant
	Text string `json:"-"`

	//spreadsheet variant
	Sheets []Sheet `json:"-"`
}

// PdfSettings is immutable per layout pass. The short page size / orientation
// codes match what gets persisted ("a4"/"letter", "p"/"l").
type PdfSettings struct {
	PageSize        string  `json:"pageSize"`
	Orientation     string  `json:"orientation"`
	IncludeCaptions bool    `json:"includeDescriptions"`
	Quality         float64 `json:"quality"`
}

func DefaultSettings() PdfSettings {
	return PdfSettings{
		PageSize:        config.DefaultPageSize,
		Orientation:     config.DefaultOrientation,
		IncludeCaptions: config.DefaultIncludeCaptions,
		Quality:         config.DefaultImageQuality,
	}
}

// Normalized clamps a decoded settings record back into its documented domain.
// Anything unrecognized falls back to the default rather than failing the caller.
func (s PdfSettings) Normalized() PdfSettings {
	if s.PageSize != "a4" && s.PageSize != "letter" {
		s.PageSize = config.DefaultPageSize
	}
	if s.Orientation != "p" && s.Orientation != "l" {
		s.Orientation = config.DefaultOrientation
	}
	if s.Quality <= 0 || s.Quality > 1 {
		s.Quality = config.DefaultImageQuality
	}
	return s
}

type SettingsStore interface {
	LoadSettings(ctx context.Context) (PdfSettings, bool)
	SaveSettings(ctx context.Context, s PdfSettings) error
	LoadLayoutPref(ctx context.Context) string
	SaveLayoutPref(ctx context.Context, layout string) error
}
