package ingest

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_PreservesSelectionOrder(t *testing.T) {
	files := []File{
		{Name: "uno.png", Data: pngBytes(t, 10, 20)},
		{Name: "dos.txt", Data: []byte("contenido de prueba")},
		{Name: "tres.png", Data: pngBytes(t, 5, 5)},
	}

	res := Process(context.Background(), files)

	if res.Failed != 0 {
		t.Fatalf("failed %d files, want 0", res.Failed)
	}
	if len(res.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(res.Items))
	}
	for i, item := range res.Items {
		if item.SourceName != files[i].Name {
			t.Errorf("item %d is %q, want %q", i, item.SourceName, files[i].Name)
		}
		if item.Id == "" {
			t.Errorf("item %d has no id", i)
		}
	}
}

func TestProcess_ImageMetadata(t *testing.T) {
	res := Process(context.Background(), []File{{Name: "foto.png", Data: pngBytes(t, 10, 20)}})

	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(res.Items))
	}
	img := res.Items[0]
	if img.Kind != itemModel.KindImage {
		t.Errorf("kind = %q, want image", img.Kind)
	}
	if img.MimeType != "image/png" {
		t.Errorf("mime = %q, want image/png", img.MimeType)
	}
	if img.Width != 10 || img.Height != 20 {
		t.Errorf("dimensions = %dx%d, want 10x20", img.Width, img.Height)
	}
}

func TestProcess_DropsBrokenFilesKeepsRest(t *testing.T) {
	files := []File{
		{Name: "ok.txt", Data: []byte("sobrevive")},
		{Name: "roto.png", Data: []byte("not an image at all")},
		{Name: "tampoco.xlsx", Data: []byte("not a workbook")},
		{Name: "final.png", Data: pngBytes(t, 4, 4)},
	}

	res := Process(context.Background(), files)

	if res.Failed != 2 {
		t.Errorf("failed = %d, want 2", res.Failed)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}
	if res.Items[0].SourceName != "ok.txt" || res.Items[1].SourceName != "final.png" {
		t.Errorf("survivors out of order: %q, %q", res.Items[0].SourceName, res.Items[1].SourceName)
	}
}

func TestProcess_TraceIdReachesLogs(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-123")
	Process(ctx, []File{{Name: "roto.png", Data: []byte("not an image")}})

	if !strings.Contains(logs.String(), "traceId=trace-123") {
		t.Errorf("log output is missing the trace id: %s", logs.String())
	}
}

func TestProcess_TextDocContent(t *testing.T) {
	res := Process(context.Background(), []File{{Name: "notas.txt", Data: []byte("texto plano aquí")}})

	if len(res.Items) != 1 || res.Items[0].Kind != itemModel.KindTextDoc {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Items[0].Text == "" {
		t.Error("text document lost its content")
	}
}
