package extract

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

var reBlankLines = regexp.MustCompile(`\n{2,}`)

// TesseractEngine wraps a single gosseract client. Engine startup is
// expensive, so construct one per process, pass it where it is needed, and
// Close it when done. The client is not safe for concurrent use; Recognize
// serializes callers.
type TesseractEngine struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger *slog.Logger
}

func NewTesseractEngine(lang string, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	client := gosseract.NewClient()
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			logger.Warn("ocr.set_language_failed", "lang", lang, "error", err)
		}
	}
	_ = client.SetVariable("tessedit_ocr_engine_mode", "1")
	_ = client.SetVariable("preserve_interword_spaces", "1")
	return &TesseractEngine{client: client, logger: logger}
}

// Recognize OCRs one page image and returns paragraph-level blocks.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, err
	}
	text, err := e.client.Text()
	if err != nil {
		return nil, err
	}
	return splitBlocks(text), nil
}

func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}

// splitBlocks cuts recognized text at blank lines and flattens each block to
// a single line, matching the paragraph granularity the cascade expects.
func splitBlocks(text string) []string {
	var blocks []string
	for _, block := range reBlankLines.Split(text, -1) {
		flat := strings.TrimSpace(strings.Join(strings.Fields(block), " "))
		if flat != "" {
			blocks = append(blocks, flat)
		}
	}
	return blocks
}
