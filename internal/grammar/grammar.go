package grammar

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"invoice-extractor/internal/entity"
	"invoice-extractor/internal/numeric"
)

// Match is the outcome of one grammar against one line. Exactly one of
// Product/Service is set on success. Both nil with a true return means the
// pattern matched but a captured integer field did not parse: the line is
// still consumed, the record is dropped.
type Match struct {
	Product *entity.ProductRecord
	Service *entity.ServiceRecord
}

// Grammar is one structured-line pattern. TryMatch reports whether the line
// matched; no match is a valid outcome.
type Grammar interface {
	Name() string
	TryMatch(line string) (Match, bool)
}

// All returns the grammar set in priority order. The first match wins, so
// order here breaks ties when a merged line could satisfy several patterns.
func All() []Grammar {
	return []Grammar{labeledProduct{}, positionalProduct{}, serviceLine{}}
}

var (
	reLabeledProduct = regexp.MustCompile(
		`(?i)Product Code[:;\s]*(PRD-[\w\-\[\]]+)\s+` +
			`Quantity[:;\s]*(\d+)(?:\s+units)?\s+` +
			`Unit\s*Price[:;\s]*\$?([\d,.]+)\s+` +
			`Amount[:;\s]*\$?([\d,.]+)`)

	rePositionalProduct = regexp.MustCompile(
		`(?i)(PRD-[\w-]+)\s+` +
			`([A-Za-z0-9 /_-]+)\s+` +
			`Qty[:;\s]*(\d+)\s+` +
			`Price[:;\s]*\$?([\d.,]+)\s+` +
			`Total[:;\s]*\$?([\d.,]+)` +
			`(?:\s+PO:\s+PO\s*-\s*(\d+))?`)

	reServiceLine = regexp.MustCompile(
		`(?is)(.*?)\s+Hours[:;\s]*(\d+)\s*x\s*Rate[:;\s]*\$?([\d,.]+)\s*/hr\s+Amount[:;\s]*\$?([\d,.]+)`)
)

// labeledProduct parses fully labeled product lines:
// "Product Code: PRD-001 Quantity: 3 units Unit Price: $10.00 Amount: $30.00".
type labeledProduct struct{}

func (labeledProduct) Name() string { return "product-labeled" }

func (labeledProduct) TryMatch(line string) (Match, bool) {
	m := reLabeledProduct.FindStringSubmatch(line)
	if m == nil {
		return Match{}, false
	}
	qty, err := strconv.Atoi(m[2])
	if err != nil {
		slog.Debug("grammar.int_unparseable", "grammar", "product-labeled", "field", m[2])
		return Match{}, true
	}
	return Match{Product: &entity.ProductRecord{
		ProductCode: m[1],
		Quantity:    qty,
		UnitPrice:   numeric.Normalize(m[3]),
		TotalPrice:  numeric.Normalize(m[4]),
	}}, true
}

// positionalProduct parses code-first product lines with a free-text
// description and an optional trailing PO reference:
// "PRD-77X Power Supply Qty: 2 Price: $5.00 Total: $10.00 PO: PO-123".
type positionalProduct struct{}

func (positionalProduct) Name() string { return "product-positional" }

func (positionalProduct) TryMatch(line string) (Match, bool) {
	m := rePositionalProduct.FindStringSubmatch(line)
	if m == nil {
		return Match{}, false
	}
	qty, err := strconv.Atoi(m[3])
	if err != nil {
		slog.Debug("grammar.int_unparseable", "grammar", "product-positional", "field", m[3])
		return Match{}, true
	}
	return Match{Product: &entity.ProductRecord{
		ProductCode: strings.TrimSpace(m[1]),
		Description: strings.TrimSpace(m[2]),
		Quantity:    qty,
		UnitPrice:   numeric.Normalize(m[4]),
		TotalPrice:  numeric.Normalize(m[5]),
		PONumber:    m[6],
	}}, true
}

// serviceLine parses service billing lines:
// "Consulting Hours: 10 x Rate: $80.00/hr Amount: $800.00".
type serviceLine struct{}

func (serviceLine) Name() string { return "service" }

func (serviceLine) TryMatch(line string) (Match, bool) {
	m := reServiceLine.FindStringSubmatch(line)
	if m == nil {
		return Match{}, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(m[2]))
	if err != nil {
		slog.Debug("grammar.int_unparseable", "grammar", "service", "field", m[2])
		return Match{}, true
	}
	return Match{Service: &entity.ServiceRecord{
		ServiceName: strings.Trim(m[1], ":,.- \n"),
		Hours:       hours,
		RatePerHour: numeric.Normalize(m[3]),
		Amount:      numeric.Normalize(m[4]),
	}}, true
}
