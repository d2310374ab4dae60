package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor reads the digital text layer of a PDF. Scanned documents
// come back (near) empty, which is exactly the signal the acquisition
// cascade uses to fall through to OCR.
type PDFTextExtractor struct {
	logger *slog.Logger
}

func NewPDFTextExtractor(logger *slog.Logger) *PDFTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFTextExtractor{logger: logger}
}

// Extract reconstructs line-structured text from the positioned glyph runs
// of every page. Rows come out top-to-bottom, cells joined left-to-right.
func (e *PDFTextExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		e.logger.Debug("pdftext.open_failed", "path", path, "error", err)
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, row := range groupIntoRows(p.Content().Text) {
			b.WriteString(strings.Join(row.cells, " "))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
