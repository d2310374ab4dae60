// Package pipeline drives one document through the acquisition cascade and
// assembles its extraction result. The cascade is a strict-priority state
// machine: table grid, then digital text, then OCR; first success wins, no
// retries, no backward transitions.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoice-extractor/internal/extract"
	"invoice-extractor/internal/header"
	"invoice-extractor/internal/report"
	"invoice-extractor/internal/tokenize"
)

// Mode names how the document's data was acquired.
type Mode string

const (
	ModeTable   Mode = "table"
	ModeDigital Mode = "digital-text"
	ModeOCR     Mode = "ocr"
)

// Config holds the cascade thresholds.
type Config struct {
	MinCharThreshold int     // digital text shorter than this falls through to OCR; default 100
	MaxLineMerge     int     // tokenizer merge window bound; default tokenize.MaxLineMerge
	PriceTolerance   float64 // reconciliation tolerance; default reconcile.DefaultPriceTolerance
}

// Run records how one document-processing run went. Every run produces a
// result; nothing from a run survives into the next document.
type Run struct {
	ID         uuid.UUID
	SourcePath string
	Mode       Mode
	StartedAt  time.Time
	FinishedAt time.Time
}

// Processor coordinates the collaborators for one document at a time. All
// per-document state lives on the stack of Process; the Processor itself is
// safe to share across documents.
type Processor struct {
	logger   *slog.Logger
	cfg      Config
	tables   extract.TableDetector
	text     extract.TextExtractor
	renderer extract.PageRenderer
	ocr      extract.OCREngine
	tok      *tokenize.Tokenizer
}

func NewProcessor(logger *slog.Logger, cfg Config, tables extract.TableDetector, text extract.TextExtractor, renderer extract.PageRenderer, ocr extract.OCREngine) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinCharThreshold <= 0 {
		cfg.MinCharThreshold = 100
	}
	return &Processor{
		logger:   logger,
		cfg:      cfg,
		tables:   tables,
		text:     text,
		renderer: renderer,
		ocr:      ocr,
		tok:      tokenize.NewTokenizer(cfg.MaxLineMerge, logger),
	}
}

// Process runs the full cascade for one document and always returns a
// result, possibly mostly empty. The error return covers only systemic
// failure (context cancellation); collaborator failures are recovered
// internally.
func (p *Processor) Process(ctx context.Context, path string) (*report.ExtractionResult, Run, error) {
	run := Run{ID: uuid.New(), SourcePath: path, StartedAt: time.Now().UTC()}

	if res, ok := p.tryTableMode(ctx, path); ok {
		run.Mode = ModeTable
		run.FinishedAt = time.Now().UTC()
		p.logger.Info("cascade.table.ok",
			"run_id", run.ID, "path", path,
			"products", len(res.Products),
		)
		return res, run, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, run, err
	}

	text, mode := p.acquireText(ctx, path)
	run.Mode = mode
	if err := ctx.Err(); err != nil {
		return nil, run, err
	}

	facts := header.Extract(text)
	products, services := p.tok.Tokenize(strings.Split(text, "\n"))
	res := report.Assemble(facts, products, services, p.cfg.PriceTolerance)

	run.FinishedAt = time.Now().UTC()
	p.logger.Info("cascade.text.ok",
		"run_id", run.ID, "path", path, "mode", mode,
		"chars", len(text), "products", len(products), "services", len(services),
	)
	return res, run, nil
}

// acquireText resolves the working text: digital extraction when the text
// layer is substantial enough, OCR over binarized page rasters otherwise.
func (p *Processor) acquireText(ctx context.Context, path string) (string, Mode) {
	var text string
	if p.text != nil {
		t, err := p.text.Extract(ctx, path)
		if err != nil {
			p.logger.Debug("cascade.digital.failed", "path", path, "error", err)
		} else {
			text = t
		}
	}
	if len(text) >= p.cfg.MinCharThreshold {
		return text, ModeDigital
	}

	p.logger.Debug("cascade.ocr.start", "path", path, "digital_chars", len(text))
	ocrText, err := p.ocrDocument(ctx, path)
	if err != nil {
		p.logger.Error("cascade.ocr.failed", "path", path, "error", err)
		// best effort: keep whatever thin digital text we had
		return text, ModeOCR
	}
	return ocrText, ModeOCR
}

// ocrDocument renders every page, binarizes it, and concatenates recognized
// blocks: space-joined within a page, newline-terminated per page, in page
// order.
func (p *Processor) ocrDocument(ctx context.Context, path string) (string, error) {
	if p.renderer == nil || p.ocr == nil {
		return "", errors.New("ocr collaborators not configured")
	}
	pages, err := p.renderer.Render(ctx, path)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, page := range pages {
		blocks, err := p.ocr.Recognize(ctx, extract.Binarize(page))
		if err != nil {
			p.logger.Warn("cascade.ocr.page_failed", "path", path, "page", i+1, "error", err)
			continue
		}
		b.WriteString(strings.Join(blocks, " "))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
