package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"

	"invoice-extractor/internal/async"
	"invoice-extractor/internal/common"
	"invoice-extractor/internal/export"
	"invoice-extractor/internal/extract"
	"invoice-extractor/internal/pipeline"
	"invoice-extractor/internal/report"
	"invoice-extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to scan for PDF invoices (or pass files as args)")
		out     = flag.String("out", "", "output directory for JSON results (default OUTPUT_DIR env or ./outputs)")
		xlsx    = flag.String("xlsx", "", "also write an XLSX batch summary to this path (requires a run store)")
		inmem   = flag.Bool("inmem", false, "use an in-memory run store")
		workers = flag.Int("workers", 0, "concurrent documents (default WORKERS env)")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	_ = godotenv.Load()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *out != "" {
		cfg.Export.OutputDir = *out
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	docs, err := collectDocuments(*dir, flag.Args())
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		printError("Error: no PDF documents to process (use --dir or pass files)\n")
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		printError("Error: creating output directory: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Run store: in-memory, or whatever DB_URL points at. Optional.
	var store *repository.RunStore
	dsn := cfg.Database.DSN
	if *inmem {
		dsn = ":memory:"
	}
	if dsn != "" {
		store, err = repository.Open(ctx, dsn, logger)
		if err != nil {
			logger.Error("failed to open run store", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = store.Close()
		}()
	} else if *xlsx != "" {
		printError("Error: --xlsx requires a run store (set DB_URL or pass --inmem)\n")
		os.Exit(1)
	}

	// Collaborators. The OCR engine is the one expensive resource: built
	// once here, shared, closed on exit.
	engine := extract.NewTesseractEngine(cfg.OCR.Language, logger)
	defer func() {
		_ = engine.Close()
	}()

	processor := pipeline.NewProcessor(
		logger,
		pipeline.Config{
			MinCharThreshold: cfg.Pipeline.MinCharThreshold,
			MaxLineMerge:     cfg.Pipeline.MaxLineMerge,
			PriceTolerance:   cfg.Pipeline.PriceTolerance,
		},
		extract.NewGridTableDetector(logger),
		extract.NewPDFTextExtractor(logger),
		extract.NewFitzPageRenderer(cfg.OCR.DPI, logger),
		engine,
	)

	var processed, failed atomic.Int64
	handle := func(ctx context.Context, path string) error {
		if err := processDocument(ctx, processor, store, cfg.Export.OutputDir, path, logger); err != nil {
			failed.Add(1)
			return err
		}
		processed.Add(1)
		return nil
	}

	logger.Info("batch start", "documents", len(docs), "workers", cfg.Pipeline.Workers, "out", cfg.Export.OutputDir)
	queue := async.NewDocumentQueue(handle, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(len(docs)),
		async.WithProcessTimeout(cfg.Pipeline.DocumentTimeout),
	)
	for _, doc := range docs {
		_ = queue.Enqueue(ctx, async.Job{Path: doc})
	}
	drainCtx, cancel := context.WithTimeout(ctx, time.Duration(len(docs))*cfg.Pipeline.DocumentTimeout)
	queue.Shutdown(drainCtx)
	cancel()

	if *xlsx != "" && store != nil {
		svc := export.NewService(store, logger)
		data, err := svc.ExportRunsXLSX(ctx)
		if err != nil {
			logger.Error("failed to export batch summary", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsx, data, 0o644); err != nil {
			logger.Error("failed to write batch summary", "path", *xlsx, "error", err)
			os.Exit(1)
		}
		logger.Info("batch summary written", "path", *xlsx)
	}

	logger.Info("batch complete",
		"documents", len(docs),
		"processed", processed.Load(),
		"failures", failed.Load(),
	)
	fmt.Printf("Batch complete: %d processed, %d failed, results in %s\n",
		processed.Load(), failed.Load(), cfg.Export.OutputDir)
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

// processDocument runs one document through the pipeline and persists its
// artifact. Failures here are per-document: siblings in the batch are not
// affected.
func processDocument(ctx context.Context, processor *pipeline.Processor, store *repository.RunStore, outDir, path string, logger *slog.Logger) error {
	res, run, err := processor.Process(ctx, path)
	if err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	data, err := res.Marshal()
	if err != nil {
		return fmt.Errorf("marshal result for %s: %w", path, err)
	}
	if err := report.ValidateResult(data); err != nil {
		// the schema pins the output contract; a violation is a bug, not
		// a document problem
		logger.Error("result failed schema validation", "path", path, "error", err)
		return err
	}

	outPath := filepath.Join(outDir, jsonName(path))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	logger.Info("document done", "path", path, "output", outPath, "mode", run.Mode)

	if store != nil {
		rec := repository.Run{
			ID:              run.ID,
			SourcePath:      path,
			Mode:            string(run.Mode),
			Products:        len(res.Products),
			Services:        len(res.Services),
			Inconsistencies: res.Consistency.Product.TotalInconsistencies + res.Consistency.Service.TotalInconsistencies + res.Consistency.PO.TotalInconsistencies,
			ResultJSON:      data,
			StartedAt:       run.StartedAt,
			FinishedAt:      run.FinishedAt,
		}
		if err := store.SaveRun(ctx, rec); err != nil {
			return fmt.Errorf("save run for %s: %w", path, err)
		}
	}
	return nil
}

func collectDocuments(dir string, args []string) ([]string, error) {
	docs := make([]string, 0, len(args))
	docs = append(docs, args...)
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				docs = append(docs, filepath.Join(dir, e.Name()))
			}
		}
	}
	return docs, nil
}

func jsonName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}
