package ingest

import (
	"bytes"
	"context"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akolanti/pictopdf/internal/adapter/utils"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/internal/extract"
	"github.com/akolanti/pictopdf/pkg/logger_i"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// File is one uploaded file in selection order.
type File struct {
	Name string
	Data []byte
}

// Result keeps the items that survived ingestion, still in selection order.
// Failed counts the files that were dropped.
type Result struct {
	Items  []itemModel.ContentItem
	Failed int
}

// Process converts uploaded files into content items. Files are processed
// concurrently but the result preserves the upload order, and a file that
// fails is dropped without affecting the others.
func Process(ctx context.Context, files []File) Result {
	logger := logger_i.NewLogger("Ingestion")
	if traceId, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		logger = logger.With("traceId", traceId)
	}

	slots := make([]*itemModel.ContentItem, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			item, err := toItem(f)
			if err != nil {
				logger.Error("Dropping file", "name", f.Name, "error", &itemModel.ExtractionError{Source: f.Name, Err: err})
				return
			}
			slots[i] = &item
		}(i, f)
	}
	wg.Wait()

	var res Result
	for _, item := range slots {
		if item == nil {
			res.Failed++
			continue
		}
		res.Items = append(res.Items, *item)
	}
	logger.Debug("Ingestion finished", "added", len(res.Items), "failed", res.Failed)
	return res
}

func toItem(f File) (itemModel.ContentItem, error) {
	item := itemModel.ContentItem{
		Id:         utils.GetNewUUID(),
		SourceName: f.Name,
	}

	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".docx", ".odt", ".rtf", ".txt":
		text, err := extract.Doc(f.Data)
		if err != nil {
			return itemModel.ContentItem{}, err
		}
		item.Kind = itemModel.KindTextDoc
		item.Text = text

	case ".pdf":
		text, err := extract.PDF(f.Data)
		if err != nil {
			return itemModel.ContentItem{}, err
		}
		item.Kind = itemModel.KindTextDoc
		item.Text = text

	case ".xlsx":
		sheets, err := extract.Sheets(f.Data)
		if err != nil {
			return itemModel.ContentItem{}, err
		}
		item.Kind = itemModel.KindSpreadsheet
		item.Sheets = sheets

	default:
		cfg, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
		if err != nil {
			return itemModel.ContentItem{}, &itemModel.DecodeError{Err: err}
		}
		item.Kind = itemModel.KindImage
		item.Raster = f.Data
		item.MimeType = "image/" + format
		item.Width = cfg.Width
		item.Height = cfg.Height
	}
	return item, nil
}
