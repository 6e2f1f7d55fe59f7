package jsondump

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/match-reports/internal/domain/page"
)

const sampleDump = `{
  "source": "michigan-texas.pdf",
  "pages": [
    {"number": 1, "primitives": [], "text_cells": ["cover", "NCAA. Fall 2024"]},
    {"number": 2, "primitives": [
      {"kind": "curve", "x0": 100, "x1": 108, "y0": 400, "y1": 408, "pts": [[100,400],[108,400],[108,408],[104,404],[100,408]]},
      {"kind": "rect", "x0": 200, "x1": 206, "y0": 430, "y1": 436}
    ], "text_cells": ["Michigan SHOTS"]}
  ]
}`

func writeDump(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func TestProviderOpen(t *testing.T) {
	path := writeDump(t, "report.json", sampleDump)

	doc, err := NewProvider().Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer doc.Close()

	if doc.Source() != "michigan-texas.pdf" {
		t.Fatalf("unexpected source %q", doc.Source())
	}
	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}

	pg, err := doc.Page(1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	curves := pg.Curves()
	if len(curves) != 1 || curves[0].Points() != 5 {
		t.Fatalf("unexpected curves: %+v", curves)
	}
	if rects := pg.Rects(); len(rects) != 1 || rects[0].Kind != page.KindRect {
		t.Fatalf("unexpected rects: %+v", rects)
	}
	if pg.Cell(0) != "Michigan SHOTS" {
		t.Fatalf("unexpected cell %q", pg.Cell(0))
	}

	if _, err := doc.Page(2); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestProviderSourceFallsBackToFileName(t *testing.T) {
	path := writeDump(t, "untitled.json", `{"pages":[{"number":1}]}`)

	doc, err := NewProvider().Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	if doc.Source() != "untitled.json" {
		t.Fatalf("unexpected source %q", doc.Source())
	}
}

func TestProviderRejectsBadDumps(t *testing.T) {
	cases := map[string]string{
		"empty pages":  `{"source":"x","pages":[]}`,
		"bad json":     `{"source":`,
		"page gap":     `{"pages":[{"number":1},{"number":3}]}`,
		"out of order": `{"pages":[{"number":2},{"number":1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeDump(t, "bad.json", body)
			if _, err := NewProvider().Open(context.Background(), path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := NewProvider().Open(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestProviderHonorsCancelledContext(t *testing.T) {
	path := writeDump(t, "report.json", sampleDump)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Open(ctx, path); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDocumentClosed(t *testing.T) {
	doc, err := Decode([]byte(sampleDump))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := doc.Page(0); err == nil {
		t.Fatalf("expected error after close")
	}
}

func TestDecodeNumbersUnnumberedPages(t *testing.T) {
	doc, err := Decode([]byte(`{"pages":[{"text_cells":["cover"]},{"number":2}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for idx := 0; idx < doc.PageCount(); idx++ {
		p, err := doc.Page(idx)
		if err != nil {
			t.Fatalf("page %d: %v", idx, err)
		}
		if p.Number != idx+1 {
			t.Fatalf("page %d numbered %d", idx, p.Number)
		}
	}
}
