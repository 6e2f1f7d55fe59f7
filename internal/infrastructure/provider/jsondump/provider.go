// Package jsondump reads the page renderer's per-report JSON dump.
package jsondump

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-reports/internal/domain/page"
)

type dump struct {
	Source string      `json:"source"`
	Pages  []page.Page `json:"pages"`
}

type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

// Open decodes the whole dump eagerly; the document holds no file handle.
func (p *Provider) Open(ctx context.Context, path string) (page.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page dump %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode page dump %s: %w", path, err)
	}
	if strings.TrimSpace(doc.source) == "" {
		doc.source = filepath.Base(path)
	}

	return doc, nil
}

// Decode parses one dump document from raw JSON.
func Decode(raw []byte) (*Document, error) {
	var payload dump
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload.Pages) == 0 {
		return nil, fmt.Errorf("dump has no pages")
	}
	// Page(idx) indexes the slice, so numbers must run 1..n in order. A
	// missing number takes its position.
	for idx := range payload.Pages {
		want := idx + 1
		switch payload.Pages[idx].Number {
		case 0:
			payload.Pages[idx].Number = want
		case want:
		default:
			return nil, fmt.Errorf("page at position %d is numbered %d, want %d", want, payload.Pages[idx].Number, want)
		}
	}

	return &Document{source: strings.TrimSpace(payload.Source), pages: payload.Pages}, nil
}

type Document struct {
	source string
	pages  []page.Page
	closed atomic.Bool
}

func (d *Document) Source() string {
	return d.source
}

func (d *Document) PageCount() int {
	return len(d.pages)
}

func (d *Document) Page(idx int) (page.Page, error) {
	if d.closed.Load() {
		return page.Page{}, fmt.Errorf("document %s is closed", d.source)
	}
	if idx < 0 || idx >= len(d.pages) {
		return page.Page{}, fmt.Errorf("page %d out of range, document %s has %d pages", idx, d.source, len(d.pages))
	}
	return d.pages[idx], nil
}

func (d *Document) Close() error {
	d.closed.Store(true)
	return nil
}
