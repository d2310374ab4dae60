package tokenize

import (
	"log/slog"
	"regexp"
	"strings"

	"invoice-extractor/internal/entity"
	"invoice-extractor/internal/grammar"
)

// MaxLineMerge bounds the merge window: a record may span the current line
// plus at most MaxLineMerge-1 following lines.
const MaxLineMerge = 6

// OCR and PDF extraction both like to blow labels apart with spurious
// whitespace ("P r i c e :"); repair them before any grammar sees the line.
var labelRepairs = []struct {
	re  *regexp.Regexp
	out string
}{
	{regexp.MustCompile(`(?i)P\s*r\s*i\s*c\s*e\s*:`), "Price:"},
	{regexp.MustCompile(`(?i)Q\s*ty\s*:`), "Qty:"},
}

// RepairLabels collapses letter-spaced field labels back to canonical form.
func RepairLabels(line string) string {
	for _, r := range labelRepairs {
		line = r.re.ReplaceAllString(line, r.out)
	}
	return line
}

// Tokenizer recovers ordered product and service records from raw text lines
// using a bounded lookahead merge window.
type Tokenizer struct {
	grammars []grammar.Grammar
	maxMerge int
	logger   *slog.Logger
}

// NewTokenizer builds a tokenizer over the full grammar set. maxMerge <= 0
// selects MaxLineMerge.
func NewTokenizer(maxMerge int, logger *slog.Logger) *Tokenizer {
	if maxMerge <= 0 {
		maxMerge = MaxLineMerge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tokenizer{grammars: grammar.All(), maxMerge: maxMerge, logger: logger}
}

// Tokenize walks the lines once, trying each grammar against the current line
// and then against progressively wider merges with the following lines. A
// match consumes every merged line; an unmatched line is dropped from
// structured extraction. Records come out in the order their source window
// begins.
func (t *Tokenizer) Tokenize(lines []string) ([]entity.ProductRecord, []entity.ServiceRecord) {
	cleaned := make([]string, len(lines))
	for i, ln := range lines {
		cleaned[i] = RepairLabels(ln)
	}

	products := make([]entity.ProductRecord, 0)
	services := make([]entity.ServiceRecord, 0)
	collect := func(m grammar.Match) {
		switch {
		case m.Product != nil:
			products = append(products, *m.Product)
		case m.Service != nil:
			services = append(services, *m.Service)
		}
	}

	i := 0
	for i < len(cleaned) {
		line := strings.TrimSpace(cleaned[i])
		if line == "" {
			i++
			continue
		}

		if m, ok := t.match(line, i, 0); ok {
			collect(m)
			i++
			continue
		}

		merged := false
		for width := 1; width < t.maxMerge; width++ {
			if i+width >= len(cleaned) {
				break
			}
			join := line
			for k := 1; k <= width; k++ {
				join += " " + strings.TrimSpace(cleaned[i+k])
			}
			if m, ok := t.match(join, i, width); ok {
				collect(m)
				i += width + 1
				merged = true
				break
			}
		}
		if !merged {
			i++
		}
	}
	return products, services
}

func (t *Tokenizer) match(line string, idx, merges int) (grammar.Match, bool) {
	for _, g := range t.grammars {
		if m, ok := g.TryMatch(line); ok {
			t.logger.Debug("tokenize.match", "grammar", g.Name(), "line", idx, "merged_lines", merges)
			return m, true
		}
	}
	return grammar.Match{}, false
}
