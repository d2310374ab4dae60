package pipeline

import (
	"context"
	"strconv"
	"strings"

	"invoice-extractor/internal/entity"
	"invoice-extractor/internal/extract"
	"invoice-extractor/internal/header"
	"invoice-extractor/internal/numeric"
	"invoice-extractor/internal/report"
)

// Column names recognized in detected grids.
const (
	colProductCode = "Product Code"
	colQty         = "Qty"
	colPrice       = "Price"
	colTotal       = "Total"
)

// tryTableMode is the first cascade state. Any detector failure is treated
// as "no table". Service records are not derivable from grids, so the
// service list is always empty here; header facts still come from the
// digital text layer, extracted alongside the grid mapping.
func (p *Processor) tryTableMode(ctx context.Context, path string) (*report.ExtractionResult, bool) {
	if p.tables == nil {
		return nil, false
	}
	tables, err := p.tables.Detect(ctx, path)
	if err != nil {
		p.logger.Debug("cascade.table.detect_failed", "path", path, "error", err)
		return nil, false
	}
	if len(tables) == 0 {
		return nil, false
	}

	products := productsFromTables(tables)

	var text string
	if p.text != nil {
		if t, err := p.text.Extract(ctx, path); err == nil {
			text = t
		} else {
			p.logger.Debug("cascade.table.header_text_failed", "path", path, "error", err)
		}
	}
	facts := header.Extract(text)

	return report.Assemble(facts, products, nil, p.cfg.PriceTolerance), true
}

// productsFromTables maps detected grid rows into product records. The first
// row of each table is the column key set; tables without at least one data
// row are skipped. A row whose quantity cell is not an integer yields an
// all-zero numeric triple, mirroring the tolerant table path of the text
// grammars.
func productsFromTables(tables []extract.Table) []entity.ProductRecord {
	products := make([]entity.ProductRecord, 0)
	for _, tb := range tables {
		if len(tb.Rows) < 2 {
			continue
		}
		head := tb.Rows[0]
		for _, row := range tb.Rows[1:] {
			cells := make(map[string]string, len(head))
			for i, h := range head {
				if i < len(row) {
					cells[h] = row[i]
				}
			}
			get := func(key, fallback string) string {
				if v, ok := cells[key]; ok {
					return v
				}
				return fallback
			}

			var unit, total float64
			qty, err := strconv.Atoi(strings.TrimSpace(get(colQty, "0")))
			if err != nil {
				qty, unit, total = 0, 0, 0
			} else {
				unit = numeric.Normalize(get(colPrice, "0"))
				total = numeric.Normalize(get(colTotal, "0"))
			}
			products = append(products, entity.ProductRecord{
				ProductCode: cells[colProductCode],
				Quantity:    qty,
				UnitPrice:   unit,
				TotalPrice:  total,
			})
		}
	}
	return products
}
