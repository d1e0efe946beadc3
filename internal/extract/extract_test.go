package extract

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func xlsxFixture(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Ventas")
	f.SetCellValue("Ventas", "A1", "Producto")
	f.SetCellValue("Ventas", "B1", "Total")
	f.SetCellValue("Ventas", "A2", "Café")
	f.SetCellValue("Ventas", "B2", 42)

	if _, err := f.NewSheet("Vacía"); err != nil {
		t.Fatalf("creating empty sheet: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}

func TestSheets(t *testing.T) {
	sheets, err := Sheets(xlsxFixture(t))
	if err != nil {
		t.Fatalf("Sheets failed: %v", err)
	}

	if len(sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(sheets))
	}
	if sheets[0].Name != "Ventas" {
		t.Errorf("first sheet is %q, want Ventas", sheets[0].Name)
	}
	if len(sheets[0].Rows) != 2 {
		t.Fatalf("Ventas has %d rows, want 2", len(sheets[0].Rows))
	}
	if sheets[0].Rows[0][0] != "Producto" || sheets[0].Rows[1][1] != "42" {
		t.Errorf("unexpected cell values: %+v", sheets[0].Rows)
	}
	if sheets[1].Name != "Vacía" || len(sheets[1].Rows) != 0 {
		t.Errorf("empty sheet should have no rows: %+v", sheets[1])
	}
}

func TestSheets_Garbage(t *testing.T) {
	if _, err := Sheets([]byte("not a workbook")); err == nil {
		t.Error("expected an error for non-xlsx bytes")
	}
}

func TestDoc_PlainText(t *testing.T) {
	text, err := Doc([]byte("línea uno\nlínea dos"))
	if err != nil {
		t.Fatalf("Doc failed: %v", err)
	}
	if !strings.Contains(text, "línea uno") {
		t.Errorf("extracted text lost content: %q", text)
	}
}

func TestPDF_Garbage(t *testing.T) {
	if _, err := PDF([]byte("%not-a-pdf")); err == nil {
		t.Error("expected an error for non-pdf bytes")
	}
}
