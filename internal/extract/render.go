package extract

import (
	"context"
	"image"
	"log/slog"

	"github.com/gen2brain/go-fitz"
)

// DefaultRenderDPI is the rasterization resolution for scanned documents.
const DefaultRenderDPI = 300

// FitzPageRenderer rasterizes PDF pages through MuPDF.
type FitzPageRenderer struct {
	dpi    int
	logger *slog.Logger
}

func NewFitzPageRenderer(dpi int, logger *slog.Logger) *FitzPageRenderer {
	if dpi <= 0 {
		dpi = DefaultRenderDPI
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FitzPageRenderer{dpi: dpi, logger: logger}
}

// Render returns one raster per page, in page order. A page that fails to
// render is logged and skipped rather than failing the document.
func (r *FitzPageRenderer) Render(ctx context.Context, path string) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = doc.Close()
	}()

	var pages []image.Image
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(n, float64(r.dpi))
		if err != nil {
			r.logger.Error("render.page_failed", "path", path, "page", n+1, "error", err)
			continue
		}
		pages = append(pages, img)
	}
	return pages, nil
}
