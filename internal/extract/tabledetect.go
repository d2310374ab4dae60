package extract

import (
	"context"
	"log/slog"
	"math"

	"github.com/ledongthuc/pdf"
)

// columnTolerance is the max drift of a cell's X start position between rows
// that still count as the same column.
const columnTolerance = 6.0

// GridTableDetector recovers ruled tables from a PDF's positional text
// layer. A run of consecutive rows sharing the same column skeleton (same
// cell count, starts aligned within columnTolerance) is reported as one
// table, first row as header. Image-only pages have no text layer and yield
// nothing, which is the desired behavior for scanned documents.
type GridTableDetector struct {
	logger *slog.Logger
}

func NewGridTableDetector(logger *slog.Logger) *GridTableDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &GridTableDetector{logger: logger}
}

func (d *GridTableDetector) Detect(ctx context.Context, path string) ([]Table, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var tables []Table
	for pageNo := 1; pageNo <= r.NumPage(); pageNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(pageNo)
		if p.V.IsNull() {
			continue
		}
		found := gridsFromRows(groupIntoRows(p.Content().Text))
		if len(found) > 0 {
			d.logger.Debug("tabledetect.page", "path", path, "page", pageNo, "tables", len(found))
		}
		tables = append(tables, found...)
	}
	return tables, nil
}

// gridsFromRows scans rows top-to-bottom collecting maximal runs with a
// stable column skeleton. Runs shorter than a header plus one data row are
// discarded.
func gridsFromRows(rows []textRow) []Table {
	var tables []Table
	var current [][]string
	var cols []float64

	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, Table{Rows: current})
		}
		current, cols = nil, nil
	}

	for _, row := range rows {
		if len(row.cells) < 2 {
			flush()
			continue
		}
		if cols != nil && !sameSkeleton(cols, row.xs) {
			flush()
		}
		if cols == nil {
			cols = row.xs
		}
		current = append(current, row.cells)
	}
	flush()
	return tables
}

func sameSkeleton(cols, xs []float64) bool {
	if len(cols) != len(xs) {
		return false
	}
	for i := range cols {
		if math.Abs(cols[i]-xs[i]) > columnTolerance {
			return false
		}
	}
	return true
}
