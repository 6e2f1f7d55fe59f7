package page

import "context"

// Provider opens report documents produced by the page-rendering layer.
type Provider interface {
	Open(ctx context.Context, path string) (Document, error)
}

// Document is a scoped handle on one report; callers must Close it.
type Document interface {
	Source() string
	PageCount() int
	// Page returns the zero-based page idx.
	Page(idx int) (Page, error)
	Close() error
}
