package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"invoice-extractor/internal/report"
	"invoice-extractor/internal/repository"
)

// Service is a small façade over the run store that produces XLSX bytes
// summarising a batch: every extracted line item plus every reconciliation
// mismatch.
type Service struct {
	store  *repository.RunStore
	logger *slog.Logger
}

func NewService(store *repository.RunStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportRunsXLSX returns a workbook (as bytes) covering every stored run.
func (s *Service) ExportRunsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	runs, err := s.store.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	f := excelize.NewFile()
	const itemsSheet = "Line Items"
	const mismatchSheet = "Mismatches"
	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(mismatchSheet); err != nil {
		return nil, err
	}

	writeRow := func(sheet string, row int, values []any) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	writeRow(itemsSheet, 1, []any{
		"Source", "Invoice Number", "Kind", "Code / Service",
		"Description", "Qty / Hours", "Unit Price / Rate", "Total / Amount", "PO",
	})
	writeRow(mismatchSheet, 1, []any{
		"Source", "Category", "Identifier", "Expected", "Actual",
	})

	itemRow, mmRow := 2, 2
	for _, run := range runs {
		var res report.ExtractionResult
		if err := json.Unmarshal(run.ResultJSON, &res); err != nil {
			s.logger.Warn("export.skip_run", "run_id", run.ID, "err", err)
			continue
		}

		invoiceNo := ""
		if res.InvoiceNumber != nil {
			invoiceNo = *res.InvoiceNumber
		}

		for _, p := range res.Products {
			writeRow(itemsSheet, itemRow, []any{
				run.SourcePath, invoiceNo, "product", p.ProductCode,
				p.Description, p.Quantity, p.UnitPrice, p.TotalPrice, p.PONumber,
			})
			itemRow++
		}
		for _, sv := range res.Services {
			writeRow(itemsSheet, itemRow, []any{
				run.SourcePath, invoiceNo, "service", sv.ServiceName,
				"", sv.Hours, sv.RatePerHour, sv.Amount, "",
			})
			itemRow++
		}

		for _, m := range res.Consistency.Product.PriceMismatches {
			writeRow(mismatchSheet, mmRow, []any{run.SourcePath, "product", m.ProductCode, m.ExpectedTotal, m.ActualTotal})
			mmRow++
		}
		for _, m := range res.Consistency.Service.PriceMismatches {
			writeRow(mismatchSheet, mmRow, []any{run.SourcePath, "service", m.ServiceName, m.ExpectedTotal, m.ActualTotal})
			mmRow++
		}
		for _, po := range res.Consistency.PO.MissingInExtracted {
			writeRow(mismatchSheet, mmRow, []any{run.SourcePath, "po-missing-in-header", po, "", ""})
			mmRow++
		}
		for _, po := range res.Consistency.PO.UnusedInProducts {
			writeRow(mismatchSheet, mmRow, []any{run.SourcePath, "po-unused-in-products", po, "", ""})
			mmRow++
		}
	}

	_ = f.SetColWidth(itemsSheet, "A", "A", 42)
	_ = f.SetColWidth(itemsSheet, "B", "D", 18)
	_ = f.SetColWidth(itemsSheet, "E", "E", 32)
	_ = f.SetColWidth(mismatchSheet, "A", "A", 42)
	_ = f.SetColWidth(mismatchSheet, "B", "C", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"runs", len(runs),
		"items", itemRow-2,
		"mismatches", mmRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
