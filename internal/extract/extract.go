package extract

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/xuri/excelize/v2"
)

var logger = logger_i.NewLogger("Extraction")

// Doc pulls plain text out of .docx, .odt, .rtf or plaintext bytes.
func Doc(data []byte) (string, error) {
	text, err := cat.FromBytes(data)
	if err != nil {
		logger.Error("Error extracting content from doc")
		return "", fmt.Errorf("failed to extract document text: %w", err)
	}
	return text, nil
}

// PDF concatenates the plain text of every readable page. Pages that fail to
// parse are logged and skipped so one broken page does not sink the file.
func PDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Error("failed opening of pdf file")
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var out bytes.Buffer
	numPages := r.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(content)
	}
	return out.String(), nil
}

// Sheets reads every sheet of an xlsx workbook in workbook order. Empty sheets
// come back with nil rows so the layout can render their placeholder.
func Sheets(data []byte) ([]itemModel.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		logger.Error("failed opening of xlsx file")
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	var sheets []itemModel.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			logger.Error("Error reading sheet", "sheet", name, "Error", err)
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheets = append(sheets, itemModel.Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
