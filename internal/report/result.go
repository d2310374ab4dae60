package report

import (
	"encoding/json"

	"invoice-extractor/internal/entity"
	"invoice-extractor/internal/reconcile"
)

// ConsistencyReport bundles the three per-category cross-check reports.
type ConsistencyReport struct {
	Product reconcile.ProductReport `json:"product_inconsistencies"`
	Service reconcile.ServiceReport `json:"service_inconsistencies"`
	PO      reconcile.POReport      `json:"po_inconsistencies"`
}

// ExtractionResult is the sole persisted artifact of a document run. Field
// presence (null vs omitted) and array ordering are part of the output
// contract, so slices are always non-nil and optional singletons are
// pointers.
type ExtractionResult struct {
	InvoiceNumber *string                `json:"invoice_number"`
	SupplierInfo  *entity.SupplierInfo   `json:"supplier_info"`
	PONumbers     []string               `json:"po_numbers"`
	Products      []entity.ProductRecord `json:"products"`
	Services      []entity.ServiceRecord `json:"services"`
	Consistency   ConsistencyReport      `json:"consistency_report"`
}

// Assemble merges header facts, line items, and their reconciliation reports
// into one result record. tolerance <= 0 selects the default.
func Assemble(facts entity.HeaderFacts, products []entity.ProductRecord, services []entity.ServiceRecord, tolerance float64) *ExtractionResult {
	if products == nil {
		products = make([]entity.ProductRecord, 0)
	}
	if services == nil {
		services = make([]entity.ServiceRecord, 0)
	}
	pos := facts.PONumbers
	if pos == nil {
		pos = make([]string, 0)
	}

	res := &ExtractionResult{
		SupplierInfo: facts.Supplier,
		PONumbers:    pos,
		Products:     products,
		Services:     services,
		Consistency: ConsistencyReport{
			Product: reconcile.Products(products, tolerance),
			Service: reconcile.Services(services, tolerance),
			PO:      reconcile.PurchaseOrders(products, pos),
		},
	}
	if facts.InvoiceNumber != "" {
		n := facts.InvoiceNumber
		res.InvoiceNumber = &n
	}
	return res
}

// Marshal renders the persisted JSON artifact: 4-space indent, stable field
// order, byte-identical across runs on identical input.
func (r *ExtractionResult) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}
