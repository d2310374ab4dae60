// Package extract holds the acquisition collaborators the pipeline consumes:
// digital text extraction, page rendering, OCR, and ruled-table detection.
// The pipeline depends only on the interfaces; the implementations here are
// the production adapters.
package extract

import (
	"context"
	"image"
)

// TextExtractor returns best-effort digital text for a document. An empty
// string means the document has no usable text layer; errors are advisory
// and the caller treats them the same way.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// PageRenderer rasterizes every page of a document, one image per page, in
// page order.
type PageRenderer interface {
	Render(ctx context.Context, path string) ([]image.Image, error)
}

// OCREngine recognizes text on one rendered page and returns paragraph-level
// blocks in reading order.
type OCREngine interface {
	Recognize(ctx context.Context, img image.Image) ([]string, error)
}

// Table is one detected ruled grid. Rows[0] is the header row and is
// consumed as the column key set.
type Table struct {
	Rows [][]string
}

// TableDetector reports structured tables found in a document. No tables is
// a normal outcome, and so is an error: the caller treats both as
// "no table".
type TableDetector interface {
	Detect(ctx context.Context, path string) ([]Table, error)
}
