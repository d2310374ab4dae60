package report

import (
	"bytes"
	"testing"

	"invoice-extractor/internal/entity"
)

// The artifact for a document yielding nothing still carries every top-level
// key: null singletons, empty arrays, zeroed reports. This literal is the
// output contract.
const emptyResultJSON = `{
    "invoice_number": null,
    "supplier_info": null,
    "po_numbers": [],
    "products": [],
    "services": [],
    "consistency_report": {
        "product_inconsistencies": {
            "price_mismatches": [],
            "total_inconsistencies": 0
        },
        "service_inconsistencies": {
            "price_mismatches": [],
            "total_inconsistencies": 0
        },
        "po_inconsistencies": {
            "missing_in_extracted": [],
            "unused_in_products": [],
            "total_inconsistencies": 0
        }
    }
}`

func TestMarshalEmptyResult(t *testing.T) {
	res := Assemble(entity.HeaderFacts{}, nil, nil, 0)
	data, err := res.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != emptyResultJSON {
		t.Errorf("artifact mismatch:\ngot:\n%s\nwant:\n%s", data, emptyResultJSON)
	}
}

func TestAssemble(t *testing.T) {
	facts := entity.HeaderFacts{
		InvoiceNumber: "INV-2024-001",
		Supplier:      &entity.SupplierInfo{Name: "ACME GLOBAL LTD", Address: "42 Harbor Road"},
		PONumbers:     []string{"100", "200"},
	}
	products := []entity.ProductRecord{
		{ProductCode: "PRD-1", Quantity: 2, UnitPrice: 5, TotalPrice: 11, PONumber: "100"},
	}
	services := []entity.ServiceRecord{
		{ServiceName: "Consulting", Hours: 1, RatePerHour: 80, Amount: 80},
	}

	res := Assemble(facts, products, services, 0)

	if res.InvoiceNumber == nil || *res.InvoiceNumber != "INV-2024-001" {
		t.Errorf("InvoiceNumber = %v", res.InvoiceNumber)
	}
	if res.SupplierInfo == nil || res.SupplierInfo.Name != "ACME GLOBAL LTD" {
		t.Errorf("SupplierInfo = %+v", res.SupplierInfo)
	}
	if got := res.Consistency.Product.TotalInconsistencies; got != 1 {
		t.Errorf("product inconsistencies = %d, want 1", got)
	}
	if got := res.Consistency.Service.TotalInconsistencies; got != 0 {
		t.Errorf("service inconsistencies = %d, want 0", got)
	}
	po := res.Consistency.PO
	if len(po.MissingInExtracted) != 0 || len(po.UnusedInProducts) != 1 || po.UnusedInProducts[0] != "200" {
		t.Errorf("po report = %+v", po)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	facts := entity.HeaderFacts{InvoiceNumber: "INV-9", PONumbers: []string{"1"}}
	products := []entity.ProductRecord{{ProductCode: "PRD-1", Quantity: 1, UnitPrice: 2.5, TotalPrice: 2.5}}

	a, err := Assemble(facts, products, nil, 0).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Assemble(facts, products, nil, 0).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different artifacts")
	}
}
