package header

import (
	"regexp"
	"strings"

	"invoice-extractor/internal/entity"
)

var (
	reInvoiceNumber = regexp.MustCompile(`(?i)Invoice Number[:\s]*([\w-]+)`)
	rePONumber      = regexp.MustCompile(`(?i)(PO[-\s]?|Purchase Order[:\s#]?)\s*(\d+)`)
	// a line of uppercase words ending in a legal-entity suffix, with the
	// following line taken as the address
	reSupplier = regexp.MustCompile(`(?s)([A-Z\s]+LTD|INC|GMBH)\n(.+?)\n`)
)

// Extract pulls singleton header facts out of the full document text.
// Best-effort: every field is independently optional and absence is not an
// error. PO numbers keep first-appearance order, duplicates retained.
func Extract(text string) entity.HeaderFacts {
	facts := entity.HeaderFacts{PONumbers: make([]string, 0)}

	if m := reInvoiceNumber.FindStringSubmatch(text); m != nil {
		facts.InvoiceNumber = m[1]
	}
	for _, m := range rePONumber.FindAllStringSubmatch(text, -1) {
		facts.PONumbers = append(facts.PONumbers, m[2])
	}
	if m := reSupplier.FindStringSubmatch(text); m != nil {
		facts.Supplier = &entity.SupplierInfo{
			Name:    strings.TrimSpace(m[1]),
			Address: strings.TrimSpace(m[2]),
		}
	}
	return facts
}
