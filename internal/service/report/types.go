package report

import "context"

// Document is one source market report, already fetched.
type Document struct {
	Name    string
	Content string
}

// Source supplies the latest market reports for an analysis cycle.
// Remote retrieval (cloud drives etc.) lives behind this interface; the
// core only ever sees document contents.
type Source interface {
	Latest(ctx context.Context, limit int) ([]Document, error)
}
